package memory

import (
	"context"
	"sync"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players  []model.Player
	session  *model.Session
	settings *model.Settings
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Roster operations

func (s *Storage) GetPlayers(ctx context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Player, len(s.players))
	copy(result, s.players)
	return result, nil
}

func (s *Storage) SavePlayers(ctx context.Context, players []model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make([]model.Player, len(players))
	copy(s.players, players)
	return nil
}

// Session operations

func (s *Storage) GetSession(ctx context.Context) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil || !s.session.Active {
		return nil, model.ErrNoActiveSession
	}
	return s.session.Clone(), nil
}

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.Active {
		return model.ErrSessionInProgress
	}
	s.session = session.Clone()
	return nil
}

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || !s.session.Active {
		return model.ErrNoActiveSession
	}
	s.session = session.Clone()
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *Storage) DeleteSessionFor(ctx context.Context, player string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil || s.session.Player != player {
		return false, nil
	}
	s.session = nil
	return true, nil
}

// Settings operations

func (s *Storage) GetSettings(ctx context.Context) (*model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		defaults := model.DefaultSettings()
		return &defaults, nil
	}
	settings := *s.settings
	return &settings, nil
}

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := *settings
	s.settings = &saved
	return nil
}
