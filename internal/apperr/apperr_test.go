package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOfUnclassifiedIsInternal(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("boom")))
	require.False(t, Is(nil, KindInternal))
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	base := NotFound("Event not found")
	wrapped := fmt.Errorf("get event: %w", base)

	require.Equal(t, KindNotFound, KindOf(wrapped))
	require.True(t, Is(wrapped, KindNotFound))
	require.Equal(t, "Event not found", MessageOf(wrapped, "fallback"))
}

func TestMessageOfFallback(t *testing.T) {
	require.Equal(t, "fallback", MessageOf(errors.New("raw"), "fallback"))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("Failed to fetch events", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "Failed to fetch events: connection refused", err.Error())
	require.Equal(t, "internal", err.Kind.String())
}
