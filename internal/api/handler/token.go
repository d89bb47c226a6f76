package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeblind/codeblind-go/internal/api/middleware"
	"github.com/codeblind/codeblind-go/internal/api/request"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/votetoken"
)

// TokenHandler handles vote token endpoints
type TokenHandler struct {
	tokenService *votetoken.Service
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenService *votetoken.Service) *TokenHandler {
	return &TokenHandler{tokenService: tokenService}
}

// Create handles POST /api/v1/games/{id}/tokens
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.CreateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	token, err := h.tokenService.CreateToken(r.Context(), gameID, user.ID, req.Label)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.VoteTokenFromModel(token))
}

// List handles GET /api/v1/games/{id}/tokens
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	tokens, err := h.tokenService.ListTokens(r.Context(), gameID, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.VoteTokensFromModels(tokens))
}

// Info handles GET /api/v1/tokens/{token}. This is public so the voting
// page can show what the token is for before the judge signs in.
func (h *TokenHandler) Info(w http.ResponseWriter, r *http.Request) {
	tokenStr := mux.Vars(r)["token"]

	info, err := h.tokenService.TokenInfo(r.Context(), tokenStr)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TokenInfoFromModel(info))
}

// Claim handles POST /api/v1/tokens/{token}/claim
func (h *TokenHandler) Claim(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	tokenStr := mux.Vars(r)["token"]

	gameID, label, err := h.tokenService.ClaimToken(r.Context(), tokenStr, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClaimedToken{
		GameID: string(gameID),
		Label:  label,
	})
}

// Deactivate handles POST /api/v1/games/{id}/tokens/{tokenId}/deactivate
func (h *TokenHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	tokenID := model.TokenID(mux.Vars(r)["tokenId"])

	if err := h.tokenService.DeactivateToken(r.Context(), tokenID, user.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /api/v1/games/{id}/tokens/{tokenId}
func (h *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	tokenID := model.TokenID(mux.Vars(r)["tokenId"])

	if err := h.tokenService.DeleteToken(r.Context(), tokenID, user.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
