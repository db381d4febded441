package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ryadom/ryadom/internal/models"
	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
)

type EventHandlers struct {
	eventsService *service.EventsService
	logger        *logrus.Logger
}

func NewEventHandlers(eventsService *service.EventsService, logger *logrus.Logger) *EventHandlers {
	return &EventHandlers{
		eventsService: eventsService,
		logger:        logger,
	}
}

type EventRequest struct {
	URL             string `json:"url"`
	Category        string `json:"category"`
	Format          string `json:"format" validate:"omitempty,oneof=online offline"`
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	Photo           string `json:"photo"`
	Banner          string `json:"banner"`
	Location        string `json:"location"`
	Address         string `json:"address"`
	Date            string `json:"date" validate:"required"`
	StartTime       string `json:"start_time" validate:"required"`
	MaxParticipants int    `json:"max_participants" validate:"omitempty,min=1"`
	Color           string `json:"color"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

type EventListResponse struct {
	Events []models.Event `json:"events"`
}

type MemberListResponse struct {
	Members []models.Member `json:"members"`
}

func eventParams(req EventRequest) service.EventParams {
	return service.EventParams{
		URL:             req.URL,
		Category:        req.Category,
		Format:          req.Format,
		Name:            req.Name,
		Description:     req.Description,
		Photo:           req.Photo,
		Banner:          req.Banner,
		Location:        req.Location,
		Address:         req.Address,
		Date:            req.Date,
		StartTime:       req.StartTime,
		MaxParticipants: req.MaxParticipants,
		Color:           req.Color,
	}
}

func (h *EventHandlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	event, err := h.eventsService.CreateEvent(r.Context(), eventParams(req))
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, event)
}

func (h *EventHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventsService.ListEvents(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}

	if events == nil {
		events = []models.Event{}
	}

	respondWithJSON(w, http.StatusOK, EventListResponse{Events: events})
}

func (h *EventHandlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventsService.GetEvent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	event, err := h.eventsService.UpdateEvent(r.Context(), mux.Vars(r)["id"], eventParams(req))
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.eventsService.DeleteEvent(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, event)
}

func (h *EventHandlers) AddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	member, err := h.eventsService.AddMember(r.Context(), mux.Vars(r)["id"], req.UserID, req.Role)
	if err != nil {
		respondWithError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, member)
}

func (h *EventHandlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.eventsService.ListMembers(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, err)
		return
	}

	if members == nil {
		members = []models.Member{}
	}

	respondWithJSON(w, http.StatusOK, MemberListResponse{Members: members})
}
