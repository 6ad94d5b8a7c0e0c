package roster

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
)

// Service manages the bounded player roster and its win/loss counters
type Service struct {
	mu      sync.Mutex
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new RosterService
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// SameName reports whether two player names match case-insensitively
func SameName(a, b string) bool {
	// Casers keep state, so each comparison gets its own
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

func indexOf(players []model.Player, name string) int {
	for i := range players {
		if SameName(players[i].Name, name) {
			return i
		}
	}
	return -1
}

// List returns the roster in insertion order.
// A read failure is logged and reported as an empty roster.
func (s *Service) List(ctx context.Context) []model.Player {
	players, err := s.storage.GetPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to read roster", slog.String("error", err.Error()))
		return []model.Player{}
	}
	return players
}

// Get looks up a player by name, ignoring case
func (s *Service) Get(ctx context.Context, name string) (*model.Player, error) {
	players, err := s.storage.GetPlayers(ctx)
	if err != nil {
		return nil, model.PersistenceError(err)
	}
	idx := indexOf(players, name)
	if idx < 0 {
		return nil, model.ErrPlayerNotFound
	}
	player := players[idx]
	return &player, nil
}

// Add registers a new player with zeroed counters
func (s *Service) Add(ctx context.Context, rawName string) (*model.Player, error) {
	name, err := model.NormalizeName(rawName)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.storage.GetPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to read roster", slog.String("error", err.Error()))
		return nil, model.PersistenceError(err)
	}

	if indexOf(players, name) >= 0 {
		return nil, model.ErrDuplicateName
	}
	if len(players) >= model.MaxPlayers {
		return nil, model.ErrRosterFull
	}

	player := model.Player{Name: name}
	players = append(players, player)
	if err := s.storage.SavePlayers(ctx, players); err != nil {
		s.logger.Error("failed to save roster",
			slog.String("player", name),
			slog.String("error", err.Error()),
		)
		return nil, model.PersistenceError(err)
	}

	s.logger.Info("player added",
		slog.String("player", name),
		slog.Int("roster_size", len(players)),
	)

	return &player, nil
}

// Remove deletes a player and clears the stored round if they own it
func (s *Service) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.storage.GetPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to read roster", slog.String("error", err.Error()))
		return model.PersistenceError(err)
	}

	idx := indexOf(players, name)
	if idx < 0 {
		return model.ErrPlayerNotFound
	}
	removed := players[idx].Name

	remaining := make([]model.Player, 0, len(players)-1)
	remaining = append(remaining, players[:idx]...)
	remaining = append(remaining, players[idx+1:]...)

	if err := s.storage.SavePlayers(ctx, remaining); err != nil {
		s.logger.Error("failed to save roster",
			slog.String("player", removed),
			slog.String("error", err.Error()),
		)
		return model.PersistenceError(err)
	}

	cleared, err := s.storage.DeleteSessionFor(ctx, removed)
	if err != nil {
		// The orphaned round is reconciled on the next session lookup
		s.logger.Error("failed to clear session of removed player",
			slog.String("player", removed),
			slog.String("error", err.Error()),
		)
		return model.PersistenceError(err)
	}

	s.logger.Info("player removed",
		slog.String("player", removed),
		slog.Bool("session_cleared", cleared),
	)

	return nil
}

// RecordResult adds a win or a loss to a player's counters.
// An unknown name is logged and ignored.
func (s *Service) RecordResult(ctx context.Context, name string, won bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	players, err := s.storage.GetPlayers(ctx)
	if err != nil {
		s.logger.Error("failed to read roster", slog.String("error", err.Error()))
		return model.PersistenceError(err)
	}

	idx := indexOf(players, name)
	if idx < 0 {
		s.logger.Warn("result for unknown player ignored",
			slog.String("player", name),
			slog.Bool("won", won),
		)
		return nil
	}

	if won {
		players[idx].Wins++
	} else {
		players[idx].Losses++
	}

	if err := s.storage.SavePlayers(ctx, players); err != nil {
		s.logger.Error("failed to save roster",
			slog.String("player", players[idx].Name),
			slog.String("error", err.Error()),
		)
		return model.PersistenceError(err)
	}

	s.logger.Info("result recorded",
		slog.String("player", players[idx].Name),
		slog.Bool("won", won),
		slog.Int("wins", players[idx].Wins),
		slog.Int("losses", players[idx].Losses),
	)

	return nil
}
