package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/slotmachine-go/internal/api/request"
	"github.com/mcoot/slotmachine-go/internal/api/response"
	"github.com/mcoot/slotmachine-go/internal/services/recorder"
)

// GameHandler handles game recording
type GameHandler struct {
	recorder *recorder.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(recorder *recorder.Service) *GameHandler {
	return &GameHandler{
		recorder: recorder,
	}
}

// SaveGame handles POST /api/v1/save-game
func (h *GameHandler) SaveGame(w http.ResponseWriter, r *http.Request) {
	var req request.SaveGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.recorder.Record(r.Context(), req.StudentNumber, req.Result, req.RetryCount, req.DatePlayed)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SaveGameResponse{
		Message: response.MessageGameSaved,
		Game:    response.GameResultFromModel(game),
	})
}
