package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeblind/codeblind-go/internal/api/request"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/scoring"
)

// EntryHandler handles entry progress and submission endpoints
type EntryHandler struct {
	scoringService *scoring.Service
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(scoringService *scoring.Service) *EntryHandler {
	return &EntryHandler{scoringService: scoringService}
}

// Update handles PUT /api/v1/entries/{id}
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	entryID := model.EntryID(mux.Vars(r)["id"])

	var req request.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.scoringService.UpdateEntry(r.Context(), entryID, req.HTML, req.Streak, req.KeystrokeCount); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Snapshot handles POST /api/v1/entries/{id}/snapshots
func (h *EntryHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	entryID := model.EntryID(mux.Vars(r)["id"])

	var req request.SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	err := h.scoringService.SaveProgressSnapshot(
		r.Context(), entryID, req.HTML, req.Streak, req.PowerMode, req.KeystrokeCount, req.TimestampMs,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Submit handles POST /api/v1/entries/{id}/submit
func (h *EntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	entryID := model.EntryID(mux.Vars(r)["id"])

	var req request.SubmitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	err := h.scoringService.SubmitEntry(
		r.Context(), entryID, req.HTML, req.TotalScore, req.MaxStreak, req.TotalKeystrokes,
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	entry, err := h.scoringService.GetEntry(r.Context(), entryID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntryFromModel(entry))
}

// Get handles GET /api/v1/entries/{id}
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entryID := model.EntryID(mux.Vars(r)["id"])

	entry, err := h.scoringService.GetEntry(r.Context(), entryID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntryFromModel(entry))
}

// Snapshots handles GET /api/v1/entries/{id}/snapshots
func (h *EntryHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	entryID := model.EntryID(mux.Vars(r)["id"])

	snapshots, err := h.scoringService.GetProgressSnapshots(r.Context(), entryID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SnapshotsFromModels(snapshots))
}

// GameEntries handles GET /api/v1/games/{id}/entries
func (h *EntryHandler) GameEntries(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	entries, err := h.scoringService.GetGameEntries(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntriesFromModels(entries))
}

// SubmittedEntries handles GET /api/v1/games/{id}/entries/submitted
func (h *EntryHandler) SubmittedEntries(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	entries, err := h.scoringService.GetSubmittedEntries(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntriesFromModels(entries))
}

// PlayerEntry handles GET /api/v1/players/{playerId}/entry
func (h *EntryHandler) PlayerEntry(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["playerId"])

	entry, err := h.scoringService.GetPlayerEntry(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EntryFromModel(entry))
}
