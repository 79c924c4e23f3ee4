package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/slotmachine-go/internal/api/request"
	"github.com/mcoot/slotmachine-go/internal/api/response"
	"github.com/mcoot/slotmachine-go/internal/services/cooldown"
	"github.com/mcoot/slotmachine-go/internal/services/registry"
)

// PlayerHandler handles registration and validation endpoints
type PlayerHandler struct {
	registry *registry.Service
	cooldown *cooldown.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(registry *registry.Service, cooldown *cooldown.Service) *PlayerHandler {
	return &PlayerHandler{
		registry: registry,
		cooldown: cooldown,
	}
}

// RegisterUser handles POST /api/v1/register-user
func (h *PlayerHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	player, err := h.registry.Register(r.Context(), req.StudentNumber, req.FirstName, req.LastName)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterUserResponse{
		Message: response.MessageUserRegistered,
		Player:  response.PlayerFromModel(player),
	})
}

// ListUsers handles GET /api/v1/users
func (h *PlayerHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	players, err := h.registry.ListAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	users := make([]response.Player, len(players))
	for i, p := range players {
		users[i] = response.PlayerFromModel(p)
	}
	response.JSON(w, http.StatusOK, response.UsersResponse{Users: users})
}

// ValidatePlayer handles GET /api/v1/validate-player?student_number=
func (h *PlayerHandler) ValidatePlayer(w http.ResponseWriter, r *http.Request) {
	v, err := h.cooldown.Validate(r.Context(), r.URL.Query().Get("student_number"))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ValidationFromResult(v))
}
