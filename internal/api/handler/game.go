package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeblind/codeblind-go/internal/api/middleware"
	"github.com/codeblind/codeblind-go/internal/api/request"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/game"
)

// GameHandler handles game lifecycle endpoints
type GameHandler struct {
	gameController *game.Controller
	clock          clock.Clock
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, clk clock.Clock) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		clock:          clk,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	colors := make([]model.ColorSwatch, 0, len(req.Colors))
	for _, c := range req.Colors {
		colors = append(colors, model.ColorSwatch{Name: c.Name, Hex: c.Hex})
	}

	g, err := h.gameController.CreateGame(r.Context(), user.ID, game.CreateParams{
		Title:             req.Title,
		Description:       req.Description,
		ReferenceImageURL: req.ReferenceImageURL,
		Colors:            colors,
		Requirements:      req.Requirements,
		DurationMinutes:   req.DurationMinutes,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(g, h.clock.Now()))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.clock.Now()))
}

// GetByShortCode handles GET /api/v1/games/code/{code}
func (h *GameHandler) GetByShortCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	g, err := h.gameController.GetGameByShortCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.clock.Now()))
}

// ListMine handles GET /api/v1/games
func (h *GameHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	games, err := h.gameController.GetGamesByCreator(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModels(games, h.clock.Now()))
}

// ListActive handles GET /api/v1/games/active
func (h *GameHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameController.GetActiveGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GamesFromModels(games, h.clock.Now()))
}

// Update handles PATCH /api/v1/games/{id}
func (h *GameHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	var req request.UpdateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	patch := model.GamePatch{
		Title:             req.Title,
		Description:       req.Description,
		ReferenceImageURL: req.ReferenceImageURL,
		Requirements:      req.Requirements,
		DurationMinutes:   req.DurationMinutes,
	}
	if req.Colors != nil {
		colors := make([]model.ColorSwatch, 0, len(*req.Colors))
		for _, c := range *req.Colors {
			colors = append(colors, model.ColorSwatch{Name: c.Name, Hex: c.Hex})
		}
		patch.Colors = &colors
	}

	g, err := h.gameController.UpdateGame(r.Context(), id, user.ID, patch)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.clock.Now()))
}

// Delete handles DELETE /api/v1/games/{id}. The response lists asset URLs
// that now point at unreferenced files so the caller can clean up storage.
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	urls, err := h.gameController.DeleteGame(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DeletedGame{OrphanedAssetURLs: urls})
}

// transition runs one lifecycle transition and writes the updated game
func (h *GameHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(r *http.Request, id model.GameID, callerID model.UserID) error,
) {
	user := middleware.MustGetUser(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	if err := fn(r, id, user.ID); err != nil {
		WriteError(w, err)
		return
	}

	g, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(g, h.clock.Now()))
}

// OpenLobby handles POST /api/v1/games/{id}/open
func (h *GameHandler) OpenLobby(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, id model.GameID, callerID model.UserID) error {
		return h.gameController.OpenLobby(r.Context(), id, callerID)
	})
}

// Start handles POST /api/v1/games/{id}/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, id model.GameID, callerID model.UserID) error {
		return h.gameController.StartGame(r.Context(), id, callerID)
	})
}

// End handles POST /api/v1/games/{id}/end
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, id model.GameID, callerID model.UserID) error {
		return h.gameController.EndGame(r.Context(), id, callerID)
	})
}

// Finish handles POST /api/v1/games/{id}/finish
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, id model.GameID, callerID model.UserID) error {
		return h.gameController.FinishGame(r.Context(), id, callerID)
	})
}

// Reset handles POST /api/v1/games/{id}/reset
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(r *http.Request, id model.GameID, callerID model.UserID) error {
		return h.gameController.ResetGame(r.Context(), id, callerID)
	})
}
