package settings

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
)

// Service holds the defaults applied to newly started rounds
type Service struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new SettingsService
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Get returns the saved settings, falling back to defaults on read failure
func (s *Service) Get(ctx context.Context) model.Settings {
	settings, err := s.storage.GetSettings(ctx)
	if err != nil {
		s.logger.Error("failed to read settings", slog.String("error", err.Error()))
		return model.DefaultSettings()
	}
	return *settings
}

// AllowRepeats returns whether new rounds may draw secrets with repeated digits
func (s *Service) AllowRepeats(ctx context.Context) bool {
	return s.Get(ctx).AllowRepeats
}

// SetAllowRepeats changes the repeats policy for future rounds.
// A round already in progress keeps the policy it started with.
func (s *Service) SetAllowRepeats(ctx context.Context, allow bool) (model.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, err := s.storage.GetSettings(ctx)
	if err != nil {
		return model.Settings{}, model.PersistenceError(err)
	}

	settings.AllowRepeats = allow
	if err := s.storage.SaveSettings(ctx, settings); err != nil {
		s.logger.Error("failed to save settings", slog.String("error", err.Error()))
		return model.Settings{}, model.PersistenceError(err)
	}

	s.logger.Info("settings updated", slog.Bool("allow_repeats", allow))

	return *settings, nil
}
