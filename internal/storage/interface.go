package storage

import (
	"context"

	"github.com/mcoot/mastermind-go/internal/model"
)

// Storage defines the interface for data persistence.
// Implementations hold at most one session at a time and enforce that
// invariant themselves; services never check-then-write the session record.
type Storage interface {
	// Roster operations
	GetPlayers(ctx context.Context) ([]model.Player, error)
	SavePlayers(ctx context.Context, players []model.Player) error

	// Session operations
	// GetSession returns model.ErrNoActiveSession when no round is stored.
	GetSession(ctx context.Context) (*model.Session, error)
	// CreateSession returns model.ErrSessionInProgress when a round is already stored.
	CreateSession(ctx context.Context, session *model.Session) error
	// SaveSession overwrites the stored round and returns model.ErrNoActiveSession when there is none.
	SaveSession(ctx context.Context, session *model.Session) error
	DeleteSession(ctx context.Context) error
	// DeleteSessionFor removes the stored round only if player owns it.
	DeleteSessionFor(ctx context.Context, player string) (bool, error)

	// Settings operations
	GetSettings(ctx context.Context) (*model.Settings, error)
	SaveSettings(ctx context.Context, settings *model.Settings) error
}
