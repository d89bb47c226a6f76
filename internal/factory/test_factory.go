package factory

import (
	"time"

	"github.com/codeblind/codeblind-go/internal/dependencies/mocks"
	"github.com/codeblind/codeblind-go/internal/services/identity"
	"github.com/codeblind/codeblind-go/internal/storage/memory"
	"github.com/codeblind/codeblind-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	idCfg := identity.Config{
		Secret:          "test-secret",
		SessionDuration: identity.DefaultConfig().SessionDuration,
	}

	app := newWithDependencies(store, mockClock, mockRandom, idCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
