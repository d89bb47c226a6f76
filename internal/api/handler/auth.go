package handler

import (
	"encoding/json"
	"net/http"

	"github.com/codeblind/codeblind-go/internal/api/middleware"
	"github.com/codeblind/codeblind-go/internal/api/request"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/services/identity"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	identityService *identity.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identityService *identity.Service) *AuthHandler {
	return &AuthHandler{identityService: identityService}
}

// Login handles POST /api/v1/auth/login. It exchanges an OAuth profile,
// as relayed by the frontend after the provider callback, for a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	user, err := h.identityService.UpsertUser(r.Context(), identity.Profile{
		ProviderID: req.ProviderID,
		Username:   req.Username,
		Name:       req.Name,
		AvatarURL:  req.AvatarURL,
		Email:      req.Email,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	token, err := h.identityService.IssueSession(user)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.AuthResponse{
		User:         response.UserFromModel(user),
		SessionToken: token,
	}
	response.JSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserFromModel(user))
}
