// Package storagetest holds behaviour shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
)

// Suite checks the storage.Storage contract. Backends embed it and set
// NewStorage before SetupTest runs.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage
	Storage    storage.Storage
	Ctx        context.Context
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

func newTestSession(player string) *model.Session {
	session := model.NewSession(player, "1234", false, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	session.History = []model.HistoryEntry{
		{Attempt: 1, Guess: "5678", Score: model.Score{Misses: 4}},
		{Attempt: 2, Guess: "1243", Score: model.Score{Bulls: 2, Cows: 2}},
	}
	session.Attempt = 3
	session.HelpTokens = 2
	session.RestartUsed = true
	return session
}

// Roster tests

func (s *Suite) TestGetPlayersEmpty() {
	players, err := s.Storage.GetPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestSaveAndGetPlayersKeepsOrder() {
	players := []model.Player{
		{Name: "Zoe", Wins: 1, Losses: 2},
		{Name: "Alice"},
		{Name: "Mateo", Wins: 7},
	}

	err := s.Storage.SavePlayers(s.Ctx, players)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal(players, retrieved)
}

func (s *Suite) TestSavePlayersReplacesRoster() {
	_ = s.Storage.SavePlayers(s.Ctx, []model.Player{{Name: "Alice"}, {Name: "Bob"}})

	err := s.Storage.SavePlayers(s.Ctx, []model.Player{{Name: "Bob", Wins: 1}})
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Equal([]model.Player{{Name: "Bob", Wins: 1}}, retrieved)
}

// Session tests

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.Storage.GetSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *Suite) TestCreateAndGetSession() {
	session := newTestSession("Alice")

	err := s.Storage.CreateSession(s.Ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal(session.Player, retrieved.Player)
	s.Equal(session.Secret, retrieved.Secret)
	s.Equal(3, retrieved.Attempt)
	s.Equal(session.History, retrieved.History)
	s.Equal(2, retrieved.HelpTokens)
	s.True(retrieved.RestartUsed)
	s.False(retrieved.AllowRepeats)
	s.True(retrieved.Active)
	s.True(session.StartedAt.Equal(retrieved.StartedAt))
}

func (s *Suite) TestCreateSessionFailsWhenOneExists() {
	_ = s.Storage.CreateSession(s.Ctx, newTestSession("Alice"))

	err := s.Storage.CreateSession(s.Ctx, newTestSession("Bob"))
	s.ErrorIs(err, model.ErrSessionInProgress)

	retrieved, err := s.Storage.GetSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Player)
}

func (s *Suite) TestSaveSessionUpdatesExisting() {
	session := newTestSession("Alice")
	_ = s.Storage.CreateSession(s.Ctx, session)

	session.Attempt = 4
	session.HelpTokens = 1
	session.History = append(session.History, model.HistoryEntry{
		Attempt: 3, Guess: "1234", Score: model.Score{Bulls: 4},
	})
	err := s.Storage.SaveSession(s.Ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal(4, retrieved.Attempt)
	s.Equal(1, retrieved.HelpTokens)
	s.Len(retrieved.History, 3)
}

func (s *Suite) TestSaveSessionFailsWithoutSession() {
	err := s.Storage.SaveSession(s.Ctx, newTestSession("Alice"))
	s.ErrorIs(err, model.ErrNoActiveSession)

	_, err = s.Storage.GetSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *Suite) TestSessionWithEmptyHistory() {
	session := model.NewSession("Alice", "0987", true, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	_ = s.Storage.CreateSession(s.Ctx, session)

	retrieved, err := s.Storage.GetSession(s.Ctx)
	s.Require().NoError(err)
	s.Empty(retrieved.History)
	s.True(retrieved.AllowRepeats)
	s.Equal(model.Code("0987"), retrieved.Secret)
}

func (s *Suite) TestDeleteSession() {
	_ = s.Storage.CreateSession(s.Ctx, newTestSession("Alice"))

	err := s.Storage.DeleteSession(s.Ctx)
	s.Require().NoError(err)

	_, err = s.Storage.GetSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)

	// A new round can be created afterwards
	err = s.Storage.CreateSession(s.Ctx, newTestSession("Bob"))
	s.Require().NoError(err)
}

func (s *Suite) TestDeleteSessionWithoutSession() {
	err := s.Storage.DeleteSession(s.Ctx)
	s.Require().NoError(err)
}

func (s *Suite) TestDeleteSessionForOwner() {
	_ = s.Storage.CreateSession(s.Ctx, newTestSession("Alice"))

	deleted, err := s.Storage.DeleteSessionFor(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.True(deleted)

	_, err = s.Storage.GetSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *Suite) TestDeleteSessionForOtherPlayerKeepsSession() {
	_ = s.Storage.CreateSession(s.Ctx, newTestSession("Alice"))

	deleted, err := s.Storage.DeleteSessionFor(s.Ctx, "Bob")
	s.Require().NoError(err)
	s.False(deleted)

	retrieved, err := s.Storage.GetSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.Player)
}

func (s *Suite) TestDeleteSessionForWithoutSession() {
	deleted, err := s.Storage.DeleteSessionFor(s.Ctx, "Alice")
	s.Require().NoError(err)
	s.False(deleted)
}

// Settings tests

func (s *Suite) TestGetSettingsDefaults() {
	settings, err := s.Storage.GetSettings(s.Ctx)
	s.Require().NoError(err)
	s.Equal(model.DefaultSettings(), *settings)
}

func (s *Suite) TestSaveAndGetSettings() {
	err := s.Storage.SaveSettings(s.Ctx, &model.Settings{AllowRepeats: true})
	s.Require().NoError(err)

	settings, err := s.Storage.GetSettings(s.Ctx)
	s.Require().NoError(err)
	s.True(settings.AllowRepeats)

	err = s.Storage.SaveSettings(s.Ctx, &model.Settings{AllowRepeats: false})
	s.Require().NoError(err)

	settings, err = s.Storage.GetSettings(s.Ctx)
	s.Require().NoError(err)
	s.False(settings.AllowRepeats)
}
