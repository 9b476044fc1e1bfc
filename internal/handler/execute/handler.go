package execute

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	execservice "github.com/pairpad/backend/internal/service/exec"
	"github.com/pairpad/backend/pkg/utils"
)

// Handler exposes the code execution collaborator over REST.
type Handler struct {
	execSvc *execservice.Service
}

// New creates the execution handler.
func New(execSvc *execservice.Service) *Handler {
	return &Handler{execSvc: execSvc}
}

// RegisterRoutes mounts execution routes under the API prefix.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/execute", h.handleExecute)
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Code == "" {
		utils.RespondError(w, http.StatusBadRequest, "code is required")
		return
	}
	if !execservice.Supported(payload.Language) {
		utils.RespondError(w, http.StatusBadRequest, "language must be javascript or python")
		return
	}

	outputs := h.execSvc.Execute(r.Context(), payload.Code, payload.Language)

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"outputs": outputs})
}
