package handlers

import (
	"context"
	"net/http"

	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/pankhokiudaan/server/internal/notify"
)

type FormRelay interface {
	Submit(ctx context.Context, form notify.Form) (string, error)
}

// FormsHandler serves the four public forms. Submissions are relayed by
// email and never stored.
type FormsHandler struct {
	relay     FormRelay
	responder respond.Responder
}

func NewFormsHandler(relay FormRelay, responder respond.Responder) *FormsHandler {
	return &FormsHandler{relay: relay, responder: responder}
}

func (h *FormsHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, &notify.ContactForm{})
}

func (h *FormsHandler) PodcastGuest(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, &notify.PodcastGuestForm{})
}

func (h *FormsHandler) DisabilityInclusion(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, &notify.DisabilityInclusionForm{})
}

func (h *FormsHandler) UdaanTalk(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, &notify.UdaanTalkForm{})
}

func (h *FormsHandler) submit(w http.ResponseWriter, r *http.Request, form notify.Form) {
	if err := respond.DecodeJSON(r, form); err != nil {
		h.responder.Error(w, r, err, "")
		return
	}
	message, err := h.relay.Submit(r.Context(), form)
	if err != nil {
		h.responder.Error(w, r, err, "Failed to submit form. Please try again later.")
		return
	}
	respond.Message(w, http.StatusOK, message)
}
