package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/codeblind/codeblind-go/internal/api/request"
	"github.com/codeblind/codeblind-go/internal/api/response"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/services/asset"
)

// AssetHandler handles game asset endpoints
type AssetHandler struct {
	assetService *asset.Service
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assetService *asset.Service) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// Add handles POST /api/v1/games/{id}/assets
func (h *AssetHandler) Add(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.AddAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	assetType := model.AssetType(req.Type)
	if assetType == "" {
		assetType = model.AssetTypeOther
	}

	a, err := h.assetService.AddAsset(r.Context(), gameID, req.Name, req.URL, assetType)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AssetFromModel(a))
}

// Update handles PATCH /api/v1/games/{id}/assets/{assetId}
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	assetID := model.AssetID(mux.Vars(r)["assetId"])

	var req request.UpdateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	a, err := h.assetService.UpdateAsset(r.Context(), assetID, model.AssetPatch{
		Name: req.Name,
		URL:  req.URL,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssetFromModel(a))
}

// Remove handles DELETE /api/v1/games/{id}/assets/{assetId}
func (h *AssetHandler) Remove(w http.ResponseWriter, r *http.Request) {
	assetID := model.AssetID(mux.Vars(r)["assetId"])

	if err := h.assetService.RemoveAsset(r.Context(), assetID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// List handles GET /api/v1/games/{id}/assets
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	assets, err := h.assetService.GetGameAssets(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssetsFromModels(assets))
}

// GetByShortCode handles GET /api/v1/assets/code/{code}
func (h *AssetHandler) GetByShortCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	a, err := h.assetService.GetAssetByShortCode(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AssetFromModel(a))
}
