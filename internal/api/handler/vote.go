package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeblind/codeblind-go/internal/api/middleware"
	"github.com/codeblind/codeblind-go/internal/api/request"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/voting"
)

// VoteHandler handles judging endpoints
type VoteHandler struct {
	votingController *voting.Controller
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votingController *voting.Controller) *VoteHandler {
	return &VoteHandler{votingController: votingController}
}

// CanVote handles GET /api/v1/games/{id}/votes/eligibility
func (h *VoteHandler) CanVote(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	ok, err := h.votingController.CanVote(r.Context(), gameID, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CanVote{CanVote: ok})
}

// Cast handles POST /api/v1/games/{id}/votes
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	vote, err := h.votingController.CastVote(r.Context(), gameID, model.EntryID(req.EntryID), user.ID, req.Score)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.VoteFromModel(vote))
}

// SelectWinner handles POST /api/v1/games/{id}/winner
func (h *VoteHandler) SelectWinner(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.SelectWinnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	vote, err := h.votingController.SelectWinner(r.Context(), gameID, model.EntryID(req.EntryID), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VoteFromModel(vote))
}

// GameVotes handles GET /api/v1/games/{id}/votes
func (h *VoteHandler) GameVotes(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	votes, err := h.votingController.GetGameVotes(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VotesFromModels(votes))
}

// MyVotes handles GET /api/v1/games/{id}/votes/mine
func (h *VoteHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	votes, err := h.votingController.GetJudgeVotes(r.Context(), user.ID, gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VotesFromModels(votes))
}

// Leaderboard handles GET /api/v1/games/{id}/leaderboard
func (h *VoteHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	rows, err := h.votingController.GetLeaderboard(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(rows))
}

// Winners handles GET /api/v1/games/{id}/winners
func (h *VoteHandler) Winners(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	picks, err := h.votingController.GetWinners(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WinnersFromModel(picks))
}
