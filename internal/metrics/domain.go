package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginsTotal counts admin login attempts by result (success, failure, invalid).
	LoginsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of admin login attempts",
		},
		[]string{"result"},
	)

	// NotificationsTotal counts public form submissions by form and outcome
	// (sent, queued, failed, disabled).
	NotificationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of form notifications handled",
		},
		[]string{"form", "result"},
	)

	// ArticleViewsTotal counts article reads that incremented a view counter.
	ArticleViewsTotal = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_views_total",
			Help:      "Total number of counted article views",
		},
	)
)

// Observer feeds domain events into the package counters. The zero value is
// ready to use.
type Observer struct{}

func (Observer) ObserveLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

func (Observer) ObserveNotification(form, result string) {
	NotificationsTotal.WithLabelValues(form, result).Inc()
}

func (Observer) ObserveArticleView() {
	ArticleViewsTotal.Inc()
}
