package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeblind/codeblind-go/internal/api/middleware"
	"github.com/codeblind/codeblind-go/internal/api/request"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/roster"
)

// RosterHandler handles game participation endpoints
type RosterHandler struct {
	rosterController *roster.Controller
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(rosterController *roster.Controller) *RosterHandler {
	return &RosterHandler{rosterController: rosterController}
}

// Join handles POST /api/v1/games/{id}/players. Authentication is optional:
// signed-in users join as themselves, everyone else joins as a guest.
func (h *RosterHandler) Join(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var userID *model.UserID
	if user := middleware.GetUser(r.Context()); user != nil {
		userID = &user.ID
	}

	playerID, err := h.rosterController.JoinGame(r.Context(), gameID, userID, req.Handle)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.JoinedGame{PlayerID: string(playerID)})
}

// Leave handles DELETE /api/v1/players/{playerId}
func (h *RosterHandler) Leave(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["playerId"])

	if err := h.rosterController.LeaveGame(r.Context(), playerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// List handles GET /api/v1/games/{id}/players
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	players, err := h.rosterController.GetGamePlayers(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	result := make([]response.Player, 0, len(players))
	for _, pw := range players {
		result = append(result, response.PlayerWithUserFromModel(pw))
	}
	response.JSON(w, http.StatusOK, result)
}
