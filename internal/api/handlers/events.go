package handlers

import (
	"context"
	"net/http"

	"github.com/pankhokiudaan/server/internal/api/respond"
	"github.com/pankhokiudaan/server/internal/audit"
	"github.com/pankhokiudaan/server/internal/domain/events"
)

type EventService interface {
	List(ctx context.Context) ([]events.Event, error)
	Get(ctx context.Context, id string) (*events.Event, error)
	Create(ctx context.Context, input events.CreateInput) (*events.Event, error)
	Update(ctx context.Context, id string, input events.UpdateInput) (*events.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventsHandler struct {
	service   EventService
	responder respond.Responder
	audit     *audit.Logger
}

func NewEventsHandler(service EventService, responder respond.Responder, auditLog *audit.Logger) *EventsHandler {
	return &EventsHandler{service: service, responder: responder, audit: auditLog}
}

type eventEnvelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Event   eventJSON `json:"event"`
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.responder.Error(w, r, err, "Failed to fetch events")
		return
	}
	respond.JSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Events  []eventJSON `json:"events"`
	}{Success: true, Events: toEventsJSON(list)})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.responder.Error(w, r, err, "Failed to fetch event")
		return
	}
	respond.JSON(w, http.StatusOK, eventEnvelope{Success: true, Event: toEventJSON(*event)})
}

type createEventRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Date             string `json:"date"`
	Location         string `json:"location"`
	ImageURL         string `json:"imageUrl"`
	RegistrationLink string `json:"registrationLink"`
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err, "")
		return
	}
	event, err := h.service.Create(r.Context(), events.CreateInput(req))
	if err != nil {
		h.audit.Record(r, "event.create", "event", "", err)
		h.responder.Error(w, r, err, "Failed to create event")
		return
	}
	h.audit.Record(r, "event.create", "event", event.ID, nil)
	respond.JSON(w, http.StatusCreated, eventEnvelope{
		Success: true,
		Message: "Event created successfully",
		Event:   toEventJSON(*event),
	})
}

// updateEventRequest uses pointers so an omitted field stays untouched
// while an explicit "" clears it.
type updateEventRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Date             *string `json:"date"`
	Location         *string `json:"location"`
	ImageURL         *string `json:"imageUrl"`
	RegistrationLink *string `json:"registrationLink"`
	IsActive         *bool   `json:"isActive"`
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		h.responder.Error(w, r, err, "")
		return
	}
	id := r.PathValue("id")
	event, err := h.service.Update(r.Context(), id, events.UpdateInput(req))
	h.audit.Record(r, "event.update", "event", id, err)
	if err != nil {
		h.responder.Error(w, r, err, "Failed to update event")
		return
	}
	respond.JSON(w, http.StatusOK, eventEnvelope{
		Success: true,
		Message: "Event updated successfully",
		Event:   toEventJSON(*event),
	})
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := h.service.Delete(r.Context(), id)
	h.audit.Record(r, "event.delete", "event", id, err)
	if err != nil {
		h.responder.Error(w, r, err, "Failed to delete event")
		return
	}
	respond.Message(w, http.StatusOK, "Event deleted successfully")
}
