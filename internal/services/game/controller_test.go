package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mastermind-go/internal/dependencies/mocks"
	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/services/roster"
	"github.com/mcoot/mastermind-go/internal/services/scoring"
	"github.com/mcoot/mastermind-go/internal/services/secret"
	"github.com/mcoot/mastermind-go/internal/storage/memory"
	"github.com/mcoot/mastermind-go/internal/storage/storagetest"
	"github.com/mcoot/mastermind-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage       *storagetest.Faulty
	rosterService *roster.Service
	clock         *mocks.MockClock
	random        *mocks.MockRandom
	controller    *Controller
	ctx           context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = storagetest.NewFaulty(memory.New())
	s.rosterService = roster.New(s.storage, logger)
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(
		s.storage,
		s.rosterService,
		scoring.New(),
		secret.New(s.random),
		s.clock,
		logger,
	)
	s.ctx = context.Background()

	_, err := s.rosterService.Add(s.ctx, "Alice")
	s.Require().NoError(err)
	_, err = s.rosterService.Add(s.ctx, "Bob")
	s.Require().NoError(err)
}

// startWith begins a round for Alice whose secret is code
func (s *ControllerSuite) startWith(code string, allowRepeats bool) *model.Session {
	s.random.QueueDigits(code)
	session, err := s.controller.Start(s.ctx, "Alice", allowRepeats)
	s.Require().NoError(err)
	s.Require().Equal(model.Code(code), session.Secret)
	return session
}

func (s *ControllerSuite) stored() *model.Session {
	session, err := s.storage.GetSession(s.ctx)
	s.Require().NoError(err)
	return session
}

func (s *ControllerSuite) player(name string) *model.Player {
	player, err := s.rosterService.Get(s.ctx, name)
	s.Require().NoError(err)
	return player
}

// Start tests

func (s *ControllerSuite) TestStartSucceeds() {
	s.random.QueueDigits("0427")

	session, err := s.controller.Start(s.ctx, "Alice", false)
	s.Require().NoError(err)

	s.Equal("Alice", session.Player)
	s.Equal(model.Code("0427"), session.Secret)
	s.Equal(1, session.Attempt)
	s.Empty(session.History)
	s.Equal(model.HelpTokens, session.HelpTokens)
	s.False(session.RestartUsed)
	s.False(session.AllowRepeats)
	s.True(session.Active)
	s.Equal(s.clock.Now(), session.StartedAt)
}

func (s *ControllerSuite) TestStartIsPersisted() {
	session := s.startWith("1234", false)

	s.Equal(session, s.stored())
}

func (s *ControllerSuite) TestStartUsesCanonicalName() {
	s.random.QueueDigits("1234")

	session, err := s.controller.Start(s.ctx, "  aLiCe ", false)
	s.Require().NoError(err)
	s.Equal("Alice", session.Player)
}

func (s *ControllerSuite) TestStartWithRepeatsAllowed() {
	s.random.QueueDigits("7707")

	session, err := s.controller.Start(s.ctx, "Alice", true)
	s.Require().NoError(err)
	s.Equal(model.Code("7707"), session.Secret)
	s.True(session.AllowRepeats)
}

func (s *ControllerSuite) TestStartWithoutRepeatsRedraws() {
	s.random.QueueDigits("77012")

	session, err := s.controller.Start(s.ctx, "Alice", false)
	s.Require().NoError(err)
	s.Equal(model.Code("7012"), session.Secret)
}

func (s *ControllerSuite) TestStartWithoutPlayer() {
	_, err := s.controller.Start(s.ctx, "", false)
	s.ErrorIs(err, model.ErrNoPlayerSelected)

	_, err = s.controller.Start(s.ctx, "   ", false)
	s.ErrorIs(err, model.ErrNoPlayerSelected)
}

func (s *ControllerSuite) TestStartUnknownPlayer() {
	_, err := s.controller.Start(s.ctx, "Ghost", false)
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestStartWhileRoundInProgress() {
	s.startWith("1234", false)
	s.random.QueueDigits("5678")

	_, err := s.controller.Start(s.ctx, "Bob", false)
	s.ErrorIs(err, model.ErrSessionInProgress)

	stored := s.stored()
	s.Equal("Alice", stored.Player)
	s.Equal(model.Code("1234"), stored.Secret)
}

func (s *ControllerSuite) TestStartWriteFailure() {
	s.storage.FailWrites = true

	_, err := s.controller.Start(s.ctx, "Alice", false)
	s.ErrorIs(err, model.ErrPersistenceFailure)
}

// Resume tests

func (s *ControllerSuite) TestResumeByOwner() {
	s.startWith("1234", false)
	_, _ = s.controller.SubmitGuess(s.ctx, "5678")

	session, err := s.controller.Resume(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Equal(2, session.Attempt)
	s.Len(session.History, 1)
}

func (s *ControllerSuite) TestResumeByOtherPlayer() {
	s.startWith("1234", false)

	_, err := s.controller.Resume(s.ctx, "Bob")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestResumeWithoutSession() {
	_, err := s.controller.Resume(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestResumeReadFailure() {
	s.startWith("1234", false)
	s.storage.FailReads = true

	_, err := s.controller.Resume(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestResumeAfterFinish() {
	s.startWith("1234", false)
	_, err := s.controller.Finish(s.ctx, false)
	s.Require().NoError(err)

	_, err = s.controller.Resume(s.ctx, "Alice")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

// Current tests

func (s *ControllerSuite) TestCurrent() {
	s.startWith("1234", false)

	session, err := s.controller.Current(s.ctx)
	s.Require().NoError(err)
	s.Equal("Alice", session.Player)
}

func (s *ControllerSuite) TestCurrentWithoutSession() {
	_, err := s.controller.Current(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestCurrentClearsOrphanedSession() {
	orphan := model.NewSession("Ghost", "1234", false, s.clock.Now())
	s.Require().NoError(s.storage.CreateSession(s.ctx, orphan))

	_, err := s.controller.Current(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)

	_, err = s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)

	// The slot is free again
	s.startWith("5678", false)
}

// SubmitGuess tests

func (s *ControllerSuite) TestSubmitGuessAdvancesAttempt() {
	s.startWith("1234", false)

	result, err := s.controller.SubmitGuess(s.ctx, "1243")
	s.Require().NoError(err)

	s.Nil(result.Result)
	s.Require().NotNil(result.Session)
	s.Equal(model.HistoryEntry{Attempt: 1, Guess: "1243", Score: model.Score{Bulls: 2, Cows: 2}}, result.Entry)
	s.Equal(2, result.Session.Attempt)
	s.Equal([]model.HistoryEntry{result.Entry}, result.Session.History)

	stored := s.stored()
	s.Equal(2, stored.Attempt)
	s.Equal("Attempt 1: 1243 -> 2B 2C 0M", stored.History[0].String())
}

func (s *ControllerSuite) TestSubmitGuessKeepsScoringQuirk() {
	s.startWith("1234", false)

	result, err := s.controller.SubmitGuess(s.ctx, "1111")
	s.Require().NoError(err)
	s.Equal(model.Score{Bulls: 1, Cows: 3}, result.Entry.Score)
}

func (s *ControllerSuite) TestSubmitGuessNumbersEntries() {
	s.startWith("1234", false)

	for i := 1; i <= 3; i++ {
		result, err := s.controller.SubmitGuess(s.ctx, "5678")
		s.Require().NoError(err)
		s.Equal(i, result.Entry.Attempt)
	}
	s.Len(s.stored().History, 3)
}

func (s *ControllerSuite) TestSubmitGuessInvalid() {
	s.startWith("1234", false)

	for _, raw := range []string{"", "123", "12345", "12a4", " 1234", "１２３４"} {
		_, err := s.controller.SubmitGuess(s.ctx, raw)
		s.ErrorIs(err, model.ErrInvalidGuess, raw)
	}

	stored := s.stored()
	s.Equal(1, stored.Attempt)
	s.Empty(stored.History)
}

func (s *ControllerSuite) TestSubmitGuessWithoutSession() {
	_, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestSubmitGuessSolves() {
	s.startWith("1234", false)
	_, _ = s.controller.SubmitGuess(s.ctx, "4321")
	s.clock.Advance(90 * time.Second)

	result, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.Require().NoError(err)

	s.Nil(result.Session)
	s.Require().NotNil(result.Result)
	s.True(result.Result.Won)
	s.Equal(model.EndReasonSolved, result.Result.Reason)
	s.Equal(model.Code("1234"), result.Result.Secret)
	s.Equal(2, result.Result.Attempts)
	s.Len(result.Result.History, 2)
	s.Equal(90*time.Second, result.Result.Duration)

	s.Equal(1, s.player("Alice").Wins)
	s.Equal(0, s.player("Alice").Losses)

	_, err = s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestSubmitGuessSolvesOnLastAttempt() {
	s.startWith("1234", false)
	for i := 0; i < model.MaxAttempts-1; i++ {
		_, err := s.controller.SubmitGuess(s.ctx, "5678")
		s.Require().NoError(err)
	}

	result, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.Require().NoError(err)
	s.Require().NotNil(result.Result)
	s.True(result.Result.Won)
	s.Equal(model.MaxAttempts, result.Result.Attempts)
	s.Equal(1, s.player("Alice").Wins)
}

func (s *ControllerSuite) TestSubmitGuessOutOfAttempts() {
	s.startWith("1234", false)

	var result *model.GuessResult
	for i := 1; i <= model.MaxAttempts; i++ {
		var err error
		result, err = s.controller.SubmitGuess(s.ctx, "5678")
		s.Require().NoError(err)
		if i < model.MaxAttempts {
			s.Nil(result.Result, "attempt %d", i)
		}
	}

	s.Require().NotNil(result.Result)
	s.False(result.Result.Won)
	s.Equal(model.EndReasonOutOfAttempts, result.Result.Reason)
	s.Equal(model.MaxAttempts, result.Result.Attempts)
	s.Equal(model.MaxAttempts, result.Entry.Attempt)

	alice := s.player("Alice")
	s.Equal(1, alice.Losses)
	s.Equal(0, alice.Wins)

	_, err := s.controller.SubmitGuess(s.ctx, "5678")
	s.ErrorIs(err, model.ErrNoActiveSession)
	s.Equal(1, s.player("Alice").Losses)
}

func (s *ControllerSuite) TestSubmitGuessWriteFailureLeavesRoundUnchanged() {
	s.startWith("1234", false)
	s.storage.FailWrites = true

	_, err := s.controller.SubmitGuess(s.ctx, "5678")
	s.ErrorIs(err, model.ErrPersistenceFailure)

	s.storage.FailWrites = false
	stored := s.stored()
	s.Equal(1, stored.Attempt)
	s.Empty(stored.History)
}

func (s *ControllerSuite) TestSubmitGuessReadFailure() {
	s.startWith("1234", false)
	s.storage.FailReads = true

	_, err := s.controller.SubmitGuess(s.ctx, "5678")
	s.ErrorIs(err, model.ErrPersistenceFailure)
}

func (s *ControllerSuite) TestSolvingGuessKeepsRoundWhenResultNotRecorded() {
	s.startWith("1234", false)
	s.storage.FailWrites = true

	_, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.ErrorIs(err, model.ErrPersistenceFailure)

	s.storage.FailWrites = false
	s.Equal(0, s.player("Alice").Wins)
	s.Equal(1, s.stored().Attempt)

	result, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.Require().NoError(err)
	s.True(result.Result.Won)
	s.Equal(1, s.player("Alice").Wins)
}

func (s *ControllerSuite) TestSolvingGuessCountedOnceWhenClearFails() {
	s.startWith("1234", false)
	s.storage.FailOps["DeleteSession"] = true
	s.storage.FailOps["DeleteSessionFor"] = true

	_, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.ErrorIs(err, model.ErrPersistenceFailure)

	s.storage.FailOps = map[string]bool{}
	s.Equal(0, s.player("Alice").Wins)
	s.Empty(s.stored().History)

	result, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.Require().NoError(err)
	s.True(result.Result.Won)
	s.Equal(1, s.player("Alice").Wins)

	_, err = s.controller.SubmitGuess(s.ctx, "1234")
	s.ErrorIs(err, model.ErrNoActiveSession)
	s.Equal(1, s.player("Alice").Wins)
}

func (s *ControllerSuite) TestSolvingGuessRestoresRoundWhenRecordFails() {
	s.startWith("1234", false)
	_, err := s.controller.SubmitGuess(s.ctx, "5678")
	s.Require().NoError(err)
	s.storage.FailOps["SavePlayers"] = true

	_, err = s.controller.SubmitGuess(s.ctx, "1234")
	s.ErrorIs(err, model.ErrPersistenceFailure)

	s.storage.FailOps = map[string]bool{}
	stored := s.stored()
	s.Equal(2, stored.Attempt)
	s.Len(stored.History, 1)
	s.Equal(0, s.player("Alice").Wins)

	result, err := s.controller.SubmitGuess(s.ctx, "1234")
	s.Require().NoError(err)
	s.Equal(2, result.Result.Attempts)
	s.Equal(1, s.player("Alice").Wins)
}

func (s *ControllerSuite) TestAbandonCountedOnceWhenClearFails() {
	s.startWith("1234", false)
	s.storage.FailOps["DeleteSessionFor"] = true

	_, err := s.controller.Abandon(s.ctx)
	s.ErrorIs(err, model.ErrPersistenceFailure)
	s.Equal(0, s.player("Alice").Losses)

	s.storage.FailOps = map[string]bool{}
	_, err = s.controller.Abandon(s.ctx)
	s.Require().NoError(err)
	_, err = s.controller.Abandon(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
	s.Equal(1, s.player("Alice").Losses)
}

func (s *ControllerSuite) TestAbandonRestoresRoundWhenRecordFails() {
	s.startWith("1234", false)
	s.storage.FailOps["SavePlayers"] = true

	_, err := s.controller.Abandon(s.ctx)
	s.ErrorIs(err, model.ErrPersistenceFailure)

	s.storage.FailOps = map[string]bool{}
	s.Equal("Alice", s.stored().Player)
	s.Equal(0, s.player("Alice").Losses)
}

func (s *ControllerSuite) TestSubmitGuessAfterPlayerRemoved() {
	s.startWith("1234", false)
	s.Require().NoError(s.rosterService.Remove(s.ctx, "Alice"))

	_, err := s.controller.SubmitGuess(s.ctx, "5678")
	s.ErrorIs(err, model.ErrNoActiveSession)

	_, err = s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestConcurrentGuessesFinishOnce() {
	s.startWith("1234", false)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		accepted  int
		finished  int
		rejected  int
		unhandled []error
	)
	for i := 0; i < 2*model.MaxAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.controller.SubmitGuess(s.ctx, "5678")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
				if result.Result != nil {
					finished++
				}
			case errors.Is(err, model.ErrNoActiveSession):
				rejected++
			default:
				unhandled = append(unhandled, err)
			}
		}()
	}
	wg.Wait()

	s.Empty(unhandled)
	s.Equal(model.MaxAttempts, accepted)
	s.Equal(1, finished)
	s.Equal(model.MaxAttempts, rejected)
	s.Equal(1, s.player("Alice").Losses)
}

// RequestHelp tests

func (s *ControllerSuite) TestRequestHelp() {
	s.startWith("1234", false)

	help, err := s.controller.RequestHelp(s.ctx, "1294")
	s.Require().NoError(err)
	s.Equal([model.CodeLength]bool{true, true, false, true}, help.Positions)
	s.Equal(2, help.TokensLeft)

	stored := s.stored()
	s.Equal(2, stored.HelpTokens)
	s.Equal(1, stored.Attempt)
	s.Empty(stored.History)
}

func (s *ControllerSuite) TestRequestHelpRunsOut() {
	s.startWith("1234", false)

	for want := model.HelpTokens - 1; want >= 0; want-- {
		help, err := s.controller.RequestHelp(s.ctx, "5678")
		s.Require().NoError(err)
		s.Equal(want, help.TokensLeft)
	}

	_, err := s.controller.RequestHelp(s.ctx, "5678")
	s.ErrorIs(err, model.ErrNoHelpLeft)
	s.Equal(0, s.stored().HelpTokens)
}

func (s *ControllerSuite) TestRequestHelpNoTokensCheckedFirst() {
	s.startWith("1234", false)
	for i := 0; i < model.HelpTokens; i++ {
		_, _ = s.controller.RequestHelp(s.ctx, "5678")
	}

	_, err := s.controller.RequestHelp(s.ctx, "12")
	s.ErrorIs(err, model.ErrNoHelpLeft)
}

func (s *ControllerSuite) TestRequestHelpIncompleteDraft() {
	s.startWith("1234", false)

	for _, draft := range []string{"", "1", "123", "12345"} {
		_, err := s.controller.RequestHelp(s.ctx, draft)
		s.ErrorIs(err, model.ErrIncompleteGuess, draft)
	}
	s.Equal(model.HelpTokens, s.stored().HelpTokens)
}

func (s *ControllerSuite) TestRequestHelpNonDigitDraft() {
	s.startWith("1234", false)

	_, err := s.controller.RequestHelp(s.ctx, "12a4")
	s.ErrorIs(err, model.ErrInvalidGuess)
	s.Equal(model.HelpTokens, s.stored().HelpTokens)
}

func (s *ControllerSuite) TestRequestHelpWithoutSession() {
	_, err := s.controller.RequestHelp(s.ctx, "1234")
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestRequestHelpWriteFailure() {
	s.startWith("1234", false)
	s.storage.FailWrites = true

	_, err := s.controller.RequestHelp(s.ctx, "1234")
	s.ErrorIs(err, model.ErrPersistenceFailure)

	s.storage.FailWrites = false
	s.Equal(model.HelpTokens, s.stored().HelpTokens)
}

// Restart tests

func (s *ControllerSuite) TestRestart() {
	s.startWith("1234", false)
	_, _ = s.controller.SubmitGuess(s.ctx, "5678")
	_, _ = s.controller.RequestHelp(s.ctx, "5678")
	s.clock.Advance(time.Minute)
	s.random.QueueDigits("9876")

	session, err := s.controller.Restart(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.Code("9876"), session.Secret)
	s.Equal(1, session.Attempt)
	s.Empty(session.History)
	s.Equal(model.HelpTokens, session.HelpTokens)
	s.True(session.RestartUsed)
	s.Equal("Alice", session.Player)
	s.Equal(s.clock.Now(), session.StartedAt)
	s.Equal(session, s.stored())
}

func (s *ControllerSuite) TestRestartOnlyOnce() {
	s.startWith("1234", false)
	s.random.QueueDigits("9876")

	_, err := s.controller.Restart(s.ctx)
	s.Require().NoError(err)

	_, err = s.controller.Restart(s.ctx)
	s.ErrorIs(err, model.ErrRestartAlreadyUsed)
	s.Equal(model.Code("9876"), s.stored().Secret)
}

func (s *ControllerSuite) TestRestartKeepsRepeatsPolicy() {
	s.startWith("1111", true)
	s.random.QueueDigits("2222")

	session, err := s.controller.Restart(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.Code("2222"), session.Secret)
	s.True(session.AllowRepeats)
}

func (s *ControllerSuite) TestRestartDoesNotRecordResult() {
	s.startWith("1234", false)
	s.random.QueueDigits("9876")

	_, err := s.controller.Restart(s.ctx)
	s.Require().NoError(err)

	alice := s.player("Alice")
	s.Equal(0, alice.GamesPlayed())
}

func (s *ControllerSuite) TestRestartWithoutSession() {
	_, err := s.controller.Restart(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

// Finish / Abandon tests

func (s *ControllerSuite) TestFinishWon() {
	s.startWith("1234", false)

	result, err := s.controller.Finish(s.ctx, true)
	s.Require().NoError(err)
	s.True(result.Won)
	s.Equal(model.EndReasonSolved, result.Reason)
	s.Equal(model.Code("1234"), result.Secret)
	s.Equal(1, s.player("Alice").Wins)
}

func (s *ControllerSuite) TestFinishLost() {
	s.startWith("1234", false)

	result, err := s.controller.Finish(s.ctx, false)
	s.Require().NoError(err)
	s.False(result.Won)
	s.Equal(model.EndReasonAbandoned, result.Reason)
	s.Equal(1, s.player("Alice").Losses)

	_, err = s.storage.GetSession(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestFinishWithoutSession() {
	_, err := s.controller.Finish(s.ctx, true)
	s.ErrorIs(err, model.ErrNoActiveSession)
}

func (s *ControllerSuite) TestAbandon() {
	s.startWith("1234", false)
	_, _ = s.controller.SubmitGuess(s.ctx, "5678")

	result, err := s.controller.Abandon(s.ctx)
	s.Require().NoError(err)
	s.False(result.Won)
	s.Equal(model.EndReasonAbandoned, result.Reason)
	s.Equal(1, result.Attempts)

	alice := s.player("Alice")
	s.Equal(1, alice.Losses)
	s.Equal(0, alice.Wins)

	_, err = s.controller.Abandon(s.ctx)
	s.ErrorIs(err, model.ErrNoActiveSession)
	s.Equal(1, s.player("Alice").Losses)
}

func (s *ControllerSuite) TestPlayAgainReusesPolicy() {
	s.startWith("1123", true)

	result, err := s.controller.SubmitGuess(s.ctx, "1123")
	s.Require().NoError(err)
	s.Require().NotNil(result.Result)

	s.random.QueueDigits("4455")
	session, err := s.controller.Start(s.ctx, result.Result.Player, result.Result.AllowRepeats)
	s.Require().NoError(err)
	s.Equal(model.Code("4455"), session.Secret)
	s.True(session.AllowRepeats)
	s.Equal(1, session.Attempt)
}
