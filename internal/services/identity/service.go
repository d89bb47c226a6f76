package identity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/model"
	"github.com/codeblind/codeblind-go/internal/storage"
)

// Errors
var (
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrMissingProfile = errors.New("provider id and username are required")
)

// Profile is the identity delivered by the external OAuth provider on each
// successful login. This core never sees credentials, only the resolved
// profile.
type Profile struct {
	ProviderID string
	Username   string
	Name       string
	AvatarURL  string
	Email      string
}

// Config holds configuration for the identity service
type Config struct {
	// Secret signs session tokens
	Secret string
	// SessionDuration bounds how long an issued session stays valid
	SessionDuration time.Duration
}

// DefaultConfig returns default identity configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// Service resolves external OAuth identities to internal users and issues
// session tokens for them.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger
}

// New creates a new identity Service
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// UpsertUser creates or refreshes the user record for an external identity,
// keyed by provider id. Called once per successful external login.
func (s *Service) UpsertUser(ctx context.Context, profile Profile) (*model.User, error) {
	if profile.ProviderID == "" || profile.Username == "" {
		return nil, ErrMissingProfile
	}

	existing, err := s.storage.GetUserByProviderID(ctx, profile.ProviderID)
	if err == nil {
		existing.Username = profile.Username
		existing.Name = profile.Name
		existing.AvatarURL = profile.AvatarURL
		existing.Email = profile.Email
		if err := s.storage.SaveUser(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{
		ID:         model.UserID(uuid.NewString()),
		ProviderID: profile.ProviderID,
		Username:   profile.Username,
		Name:       profile.Name,
		AvatarURL:  profile.AvatarURL,
		Email:      profile.Email,
	}
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		slog.String("user_id", string(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	return s.storage.GetUser(ctx, id)
}

// GetUserByProviderID retrieves a user by external provider id
func (s *Service) GetUserByProviderID(ctx context.Context, providerID string) (*model.User, error) {
	return s.storage.GetUserByProviderID(ctx, providerID)
}

// IssueSession returns a signed session token for the user
func (s *Service) IssueSession(user *model.User) (string, error) {
	now := s.clock.Now()
	claims := jwt.RegisteredClaims{
		Subject:   string(user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionDuration)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

// ValidateSession resolves a session token to its user
func (s *Service) ValidateSession(ctx context.Context, tokenString string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	user, err := s.storage.GetUser(ctx, model.UserID(claims.Subject))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}
