package votetoken

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/dependencies/random"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

const (
	// TokenLength is the length of generated token strings
	TokenLength = 12
	// TokenAlphabet is the characters used in token strings
	TokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Service issues, claims and revokes the capability tokens that grant
// external judges voting rights on a game.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	// claimMu makes a claim a single compare-and-set over UsedBy, so two
	// users racing on an unclaimed token cannot both be told they won it.
	claimMu sync.Mutex
}

// New creates a new vote token Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// getOwnedGame fetches a game and verifies the caller is its creator
func (s *Service) getOwnedGame(ctx context.Context, gameID model.GameID, callerID model.UserID) (*model.Game, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.CreatorID != callerID {
		return nil, model.ErrNotCreator
	}
	return game, nil
}

// CreateToken issues a new token for a game. Creator only.
func (s *Service) CreateToken(ctx context.Context, gameID model.GameID, callerID model.UserID, label string) (*model.VoteToken, error) {
	if _, err := s.getOwnedGame(ctx, gameID, callerID); err != nil {
		return nil, err
	}

	token := &model.VoteToken{
		ID:        model.TokenID(uuid.NewString()),
		GameID:    gameID,
		Token:     s.random.String(TokenLength, TokenAlphabet),
		Label:     label,
		CreatedAt: s.clock.Now(),
		IsActive:  true,
	}
	if err := s.storage.SaveVoteToken(ctx, token); err != nil {
		return nil, err
	}

	s.logger.Info("vote token created",
		slog.String("game_id", string(gameID)),
		slog.String("token_id", string(token.ID)),
	)
	return token, nil
}

// ListTokens lists a game's tokens. Creator only.
func (s *Service) ListTokens(ctx context.Context, gameID model.GameID, callerID model.UserID) ([]*model.VoteToken, error) {
	if _, err := s.getOwnedGame(ctx, gameID, callerID); err != nil {
		return nil, err
	}
	return s.storage.GetVoteTokensForGame(ctx, gameID)
}

// ClaimToken binds a token to the claiming user. The first claim wins:
// once UsedBy is set it never changes, so a claim by a different user
// fails while a repeat claim by the holder succeeds as a no-op. Returns
// the game the token grants voting rights on.
func (s *Service) ClaimToken(ctx context.Context, tokenStr string, userID model.UserID) (model.GameID, string, error) {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	token, err := s.storage.GetVoteTokenByToken(ctx, tokenStr)
	if err != nil {
		return "", "", err
	}

	if !token.IsActive {
		return "", "", model.ErrTokenInactive
	}
	if token.UsedBy != nil && *token.UsedBy != userID {
		return "", "", model.ErrTokenClaimed
	}

	if token.UsedBy == nil {
		token.UsedBy = &userID
		if err := s.storage.SaveVoteToken(ctx, token); err != nil {
			return "", "", err
		}
		s.logger.Info("vote token claimed",
			slog.String("token_id", string(token.ID)),
			slog.String("user_id", string(userID)),
		)
	}

	return token.GameID, token.Label, nil
}

// TokenInfo returns the public view of a token for the voting page, or
// nil if the token is missing or inactive.
func (s *Service) TokenInfo(ctx context.Context, tokenStr string) (*model.TokenInfo, error) {
	token, err := s.storage.GetVoteTokenByToken(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	if !token.IsActive {
		return nil, model.ErrTokenNotFound
	}

	game, err := s.storage.GetGame(ctx, token.GameID)
	if err != nil {
		return nil, err
	}

	return &model.TokenInfo{
		GameID:     token.GameID,
		GameTitle:  game.Title,
		GameStatus: game.Status,
		Label:      token.Label,
		IsClaimed:  token.IsClaimed(),
	}, nil
}

// DeactivateToken revokes a token without deleting it. Creator only.
func (s *Service) DeactivateToken(ctx context.Context, tokenID model.TokenID, callerID model.UserID) error {
	token, err := s.storage.GetVoteToken(ctx, tokenID)
	if err != nil {
		return err
	}
	if _, err := s.getOwnedGame(ctx, token.GameID, callerID); err != nil {
		return err
	}

	token.IsActive = false
	return s.storage.SaveVoteToken(ctx, token)
}

// DeleteToken removes a token. Creator only.
func (s *Service) DeleteToken(ctx context.Context, tokenID model.TokenID, callerID model.UserID) error {
	token, err := s.storage.GetVoteToken(ctx, tokenID)
	if err != nil {
		return err
	}
	if _, err := s.getOwnedGame(ctx, token.GameID, callerID); err != nil {
		return err
	}

	return s.storage.DeleteVoteToken(ctx, tokenID)
}

// Interface for dependency injection
type ServiceInterface interface {
	CreateToken(ctx context.Context, gameID model.GameID, callerID model.UserID, label string) (*model.VoteToken, error)
	ListTokens(ctx context.Context, gameID model.GameID, callerID model.UserID) ([]*model.VoteToken, error)
	ClaimToken(ctx context.Context, tokenStr string, userID model.UserID) (model.GameID, string, error)
	TokenInfo(ctx context.Context, tokenStr string) (*model.TokenInfo, error)
	DeactivateToken(ctx context.Context, tokenID model.TokenID, callerID model.UserID) error
	DeleteToken(ctx context.Context, tokenID model.TokenID, callerID model.UserID) error
}

var _ ServiceInterface = (*Service)(nil)
