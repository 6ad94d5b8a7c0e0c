package redis

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
	"github.com/mcoot/mastermind-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.NewStorage = func() storage.Storage { return s.storage }
	s.Suite.SetupTest()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSessionKeyLayout() {
	session := model.NewSession("Alice", "0427", true, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC))
	session.History = []model.HistoryEntry{
		{Attempt: 1, Guess: "0472", Score: model.Score{Bulls: 2, Cows: 2}},
	}
	session.Attempt = 2
	err := s.storage.CreateSession(s.Ctx, session)
	s.Require().NoError(err)

	s.Equal("Alice", s.mustGet("mastermind:session.player"))
	s.Equal("0427", s.mustGet("mastermind:session.secret"))
	s.Equal("2", s.mustGet("mastermind:session.attempt"))
	s.Equal("true", s.mustGet("mastermind:session.active"))
	s.Equal("3", s.mustGet("mastermind:session.helpTokens"))
	s.Equal("false", s.mustGet("mastermind:session.restartUsed"))
	s.Equal("true", s.mustGet("mastermind:session.allowRepeats"))
	s.Equal("2024-03-01T09:30:00Z", s.mustGet("mastermind:session.startedAt"))

	var history []string
	s.Require().NoError(json.Unmarshal([]byte(s.mustGet("mastermind:session.history")), &history))
	s.Equal([]string{"Attempt 1: 0472 -> 2B 2C 0M"}, history)
}

func (s *StorageSuite) TestRosterAndSettingsKeyLayout() {
	_ = s.storage.SavePlayers(s.Ctx, []model.Player{{Name: "Alice", Wins: 2, Losses: 1}})
	_ = s.storage.SaveSettings(s.Ctx, &model.Settings{AllowRepeats: true})

	s.JSONEq(`[{"name":"Alice","wins":2,"losses":1}]`, s.mustGet("mastermind:players"))
	s.Equal("true", s.mustGet("mastermind:config.allowRepeats"))
}

func (s *StorageSuite) TestDeleteSessionRemovesAllKeys() {
	_ = s.storage.CreateSession(s.Ctx, model.NewSession("Alice", "1234", false, time.Now()))

	err := s.storage.DeleteSession(s.Ctx)
	s.Require().NoError(err)

	for _, field := range sessionFields {
		s.False(s.mini.Exists("mastermind:"+field), field)
	}
}

func (s *StorageSuite) TestReadsSessionWrittenByHand() {
	s.set("mastermind:session.player", "Bob")
	s.set("mastermind:session.secret", "9012")
	s.set("mastermind:session.attempt", "3")
	s.set("mastermind:session.history", `["Attempt 1: 1234 -> 0B 2C 2M","Attempt 2: 9021 -> 2B 2C 0M"]`)
	s.set("mastermind:session.active", "true")
	s.set("mastermind:session.helpTokens", "1")
	s.set("mastermind:session.restartUsed", "true")
	s.set("mastermind:session.allowRepeats", "false")

	session, err := s.storage.GetSession(s.Ctx)
	s.Require().NoError(err)
	s.Equal("Bob", session.Player)
	s.Equal(3, session.Attempt)
	s.Equal(1, session.HelpTokens)
	s.True(session.RestartUsed)
	s.Require().Len(session.History, 2)
	s.Equal(model.Code("9021"), session.History[1].Guess)
	s.Equal(model.Score{Bulls: 2, Cows: 2}, session.History[1].Score)
	s.True(session.StartedAt.IsZero())
}

func (s *StorageSuite) TestInactiveSessionIsNotReturned() {
	s.set("mastermind:session.player", "Bob")
	s.set("mastermind:session.active", "false")

	_, err := s.storage.GetSession(s.Ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)

	// A stale inactive record does not block a new round
	err = s.storage.CreateSession(s.Ctx, model.NewSession("Alice", "1234", false, time.Now()))
	s.Require().NoError(err)
}

func (s *StorageSuite) TestCorruptAttemptIsAnError() {
	_ = s.storage.CreateSession(s.Ctx, model.NewSession("Alice", "1234", false, time.Now()))
	s.set("mastermind:session.attempt", "three")

	_, err := s.storage.GetSession(s.Ctx)
	s.Error(err)
	s.NotErrorIs(err, model.ErrNoActiveSession)
}

func (s *StorageSuite) TestCorruptPlayersIsAnError() {
	s.set("mastermind:players", "not json")

	_, err := s.storage.GetPlayers(s.Ctx)
	s.Error(err)
}

func (s *StorageSuite) TestCustomKeyPrefix() {
	client := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	cfg := DefaultConfig()
	cfg.KeyPrefix = "other"
	store := NewWithClient(client, cfg)
	defer func() { _ = store.Close() }()

	_ = store.SaveSettings(s.Ctx, &model.Settings{AllowRepeats: true})

	s.True(s.mini.Exists("other:config.allowRepeats"))
	s.False(s.mini.Exists("mastermind:config.allowRepeats"))
}

func (s *StorageSuite) TestServerDownIsAnError() {
	s.mini.Close()

	_, err := s.storage.GetPlayers(s.Ctx)
	s.Error(err)

	err = s.storage.CreateSession(s.Ctx, model.NewSession("Alice", "1234", false, time.Now()))
	s.Error(err)
}

func (s *StorageSuite) mustGet(key string) string {
	value, err := s.mini.Get(key)
	s.Require().NoError(err, key)
	return value
}

func (s *StorageSuite) set(key, value string) {
	s.Require().NoError(s.mini.Set(key, value))
}
