package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/codeblind/codeblind-go/internal/dependencies/clock"
	"github.com/codeblind/codeblind-go/internal/dependencies/random"
	"github.com/codeblind/codeblind-go/internal/services/asset"
	"github.com/codeblind/codeblind-go/internal/services/game"
	"github.com/codeblind/codeblind-go/internal/services/identity"
	"github.com/codeblind/codeblind-go/internal/services/roster"
	"github.com/codeblind/codeblind-go/internal/services/scoring"
	"github.com/codeblind/codeblind-go/internal/services/votetoken"
	"github.com/codeblind/codeblind-go/internal/services/voting"
	"github.com/codeblind/codeblind-go/internal/storage"
	"github.com/codeblind/codeblind-go/internal/storage/memory"
	redisstorage "github.com/codeblind/codeblind-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	IdentityService  *identity.Service
	GameController   *game.Controller
	RosterController *roster.Controller
	ScoringService   *scoring.Service
	VotingController *voting.Controller
	VoteTokenService *votetoken.Service
	AssetService     *asset.Service
}

// Config holds configuration for the application factory
type Config struct {
	// IdentityConfig holds configuration for the identity service (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default identity config if not provided
	idCfg := cfg.IdentityConfig
	if idCfg.SessionDuration == 0 {
		idCfg.SessionDuration = identity.DefaultConfig().SessionDuration
	}

	return newWithDependencies(store, clk, rnd, idCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, idCfg identity.Config, logger *slog.Logger) *App {
	// Create services
	identityService := identity.New(store, clk, idCfg, logger)
	gameController := game.NewController(store, clk, rnd, logger)
	rosterController := roster.NewController(store, clk, logger)
	scoringService := scoring.New(store, clk)
	votingController := voting.NewController(store, logger)
	voteTokenService := votetoken.New(store, clk, rnd, logger)
	assetService := asset.New(store, rnd)

	return &App{
		Storage:          store,
		Clock:            clk,
		Random:           rnd,
		IdentityService:  identityService,
		GameController:   gameController,
		RosterController: rosterController,
		ScoringService:   scoringService,
		VotingController: votingController,
		VoteTokenService: voteTokenService,
		AssetService:     assetService,
	}
}
