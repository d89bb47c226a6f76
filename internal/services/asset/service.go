package asset

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/codeblind/codeblind-go/internal/dependencies/random"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

const (
	// ShortCodeLength is the length of generated asset codes
	ShortCodeLength = 4
	// ShortCodeAlphabet is the characters used in asset codes
	ShortCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service manages the supporting files (images, fonts) attached to a game.
// Asset URLs are opaque; hosting and purge are external concerns.
type Service struct {
	storage storage.Storage
	random  random.Random
}

// New creates a new asset Service
func New(storage storage.Storage, random random.Random) *Service {
	return &Service{
		storage: storage,
		random:  random,
	}
}

// AddAsset attaches a file to a game under a fresh short code
func (s *Service) AddAsset(ctx context.Context, gameID model.GameID, name, url string, assetType model.AssetType) (*model.Asset, error) {
	if _, err := s.storage.GetGame(ctx, gameID); err != nil {
		return nil, err
	}

	var shortCode string
	for {
		shortCode = s.random.String(ShortCodeLength, ShortCodeAlphabet)
		_, err := s.storage.GetAssetByShortCode(ctx, shortCode)
		if errors.Is(err, model.ErrAssetNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	asset := &model.Asset{
		ID:        model.AssetID(uuid.NewString()),
		GameID:    gameID,
		ShortCode: shortCode,
		Name:      name,
		URL:       url,
		Type:      assetType,
	}
	if err := s.storage.SaveAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// UpdateAsset applies a partial update to an asset's mutable fields
func (s *Service) UpdateAsset(ctx context.Context, assetID model.AssetID, patch model.AssetPatch) (*model.Asset, error) {
	asset, err := s.storage.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	patch.Apply(asset)
	if err := s.storage.SaveAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// RemoveAsset deletes an asset record. The hosted file is purged externally.
func (s *Service) RemoveAsset(ctx context.Context, assetID model.AssetID) error {
	return s.storage.DeleteAsset(ctx, assetID)
}

// GetGameAssets lists a game's assets
func (s *Service) GetGameAssets(ctx context.Context, gameID model.GameID) ([]*model.Asset, error) {
	return s.storage.GetAssetsForGame(ctx, gameID)
}

// GetAssetByShortCode looks an asset up by its short code
func (s *Service) GetAssetByShortCode(ctx context.Context, shortCode string) (*model.Asset, error) {
	return s.storage.GetAssetByShortCode(ctx, shortCode)
}
