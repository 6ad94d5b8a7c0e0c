package storagetest

import (
	"context"
	"errors"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
)

// ErrInjected is returned by Faulty when a failure is switched on
var ErrInjected = errors.New("injected storage failure")

// Faulty wraps a Storage and fails reads or writes on demand.
// FailOps fails single operations by method name, e.g. "DeleteSession".
type Faulty struct {
	storage.Storage

	FailReads  bool
	FailWrites bool
	FailOps    map[string]bool
}

// NewFaulty wraps inner with all failures switched off
func NewFaulty(inner storage.Storage) *Faulty {
	return &Faulty{Storage: inner, FailOps: map[string]bool{}}
}

// Ensure Faulty implements the interface
var _ storage.Storage = (*Faulty)(nil)

func (f *Faulty) readErr(op string) error {
	if f.FailReads || f.FailOps[op] {
		return ErrInjected
	}
	return nil
}

func (f *Faulty) writeErr(op string) error {
	if f.FailWrites || f.FailOps[op] {
		return ErrInjected
	}
	return nil
}

func (f *Faulty) GetPlayers(ctx context.Context) ([]model.Player, error) {
	if err := f.readErr("GetPlayers"); err != nil {
		return nil, err
	}
	return f.Storage.GetPlayers(ctx)
}

func (f *Faulty) SavePlayers(ctx context.Context, players []model.Player) error {
	if err := f.writeErr("SavePlayers"); err != nil {
		return err
	}
	return f.Storage.SavePlayers(ctx, players)
}

func (f *Faulty) GetSession(ctx context.Context) (*model.Session, error) {
	if err := f.readErr("GetSession"); err != nil {
		return nil, err
	}
	return f.Storage.GetSession(ctx)
}

func (f *Faulty) CreateSession(ctx context.Context, session *model.Session) error {
	if err := f.writeErr("CreateSession"); err != nil {
		return err
	}
	return f.Storage.CreateSession(ctx, session)
}

func (f *Faulty) SaveSession(ctx context.Context, session *model.Session) error {
	if err := f.writeErr("SaveSession"); err != nil {
		return err
	}
	return f.Storage.SaveSession(ctx, session)
}

func (f *Faulty) DeleteSession(ctx context.Context) error {
	if err := f.writeErr("DeleteSession"); err != nil {
		return err
	}
	return f.Storage.DeleteSession(ctx)
}

func (f *Faulty) DeleteSessionFor(ctx context.Context, player string) (bool, error) {
	if err := f.writeErr("DeleteSessionFor"); err != nil {
		return false, err
	}
	return f.Storage.DeleteSessionFor(ctx, player)
}

func (f *Faulty) GetSettings(ctx context.Context) (*model.Settings, error) {
	if err := f.readErr("GetSettings"); err != nil {
		return nil, err
	}
	return f.Storage.GetSettings(ctx)
}

func (f *Faulty) SaveSettings(ctx context.Context, settings *model.Settings) error {
	if err := f.writeErr("SaveSettings"); err != nil {
		return err
	}
	return f.Storage.SaveSettings(ctx, settings)
}
