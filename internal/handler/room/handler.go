package room

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	roomservice "github.com/pairpad/backend/internal/service/room"
	"github.com/pairpad/backend/pkg/utils"
)

// Handler serves the room REST surface.
type Handler struct {
	roomSvc *roomservice.Service
}

// New creates the room handler.
func New(roomSvc *roomservice.Service) *Handler {
	return &Handler{roomSvc: roomSvc}
}

// RegisterRoutes mounts room routes under the API prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/rooms", h.handleCreateRoom)
	r.Get("/rooms/{roomID}", h.handleGetRoom)
}

func (h *Handler) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	// The body is optional; an empty or absent one seeds the default
	// JavaScript template.
	var payload struct {
		Language string `json:"language"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&payload)
	}

	created := h.roomSvc.Create(payload.Language)

	utils.RespondJSON(w, http.StatusCreated, map[string]string{
		"roomId": created.ID,
		"url":    "/room/" + created.ID,
	})
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	found, err := h.roomSvc.Get(roomID)
	if err != nil {
		if errors.Is(err, roomservice.ErrRoomNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Room not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"roomId":           found.ID,
		"participantCount": len(found.Participants),
		"createdAt":        found.CreatedAt.Format(time.RFC3339),
	})
}
