package game

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mcoot/mastermind-go/internal/dependencies/clock"
	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/services/roster"
	"github.com/mcoot/mastermind-go/internal/services/scoring"
	"github.com/mcoot/mastermind-go/internal/services/secret"
	"github.com/mcoot/mastermind-go/internal/storage"
)

// Controller runs the round state machine.
// It holds no round state itself: every operation loads the stored
// session, applies the transition and writes it back.
type Controller struct {
	mu             sync.Mutex
	storage        storage.Storage
	rosterService  *roster.Service
	scoringService *scoring.Service
	secrets        *secret.Generator
	clock          clock.Clock
	logger         *slog.Logger
}

// NewController creates a new GameController
func NewController(
	storage storage.Storage,
	rosterService *roster.Service,
	scoringService *scoring.Service,
	secrets *secret.Generator,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		rosterService:  rosterService,
		scoringService: scoringService,
		secrets:        secrets,
		clock:          clock,
		logger:         logger,
	}
}

// Start begins a new round for player under the given repeats policy
func (c *Controller) Start(ctx context.Context, player string, allowRepeats bool) (*model.Session, error) {
	if strings.TrimSpace(player) == "" {
		return nil, model.ErrNoPlayerSelected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.rosterService.Get(ctx, player)
	if err != nil {
		return nil, err
	}

	session := model.NewSession(p.Name, c.secrets.Generate(allowRepeats), allowRepeats, c.clock.Now())
	if err := c.storage.CreateSession(ctx, session); err != nil {
		if errors.Is(err, model.ErrSessionInProgress) {
			return nil, err
		}
		c.logger.Error("failed to create session",
			slog.String("player", p.Name),
			slog.String("error", err.Error()),
		)
		return nil, model.PersistenceError(err)
	}

	c.logger.Info("round started",
		slog.String("player", p.Name),
		slog.Bool("allow_repeats", allowRepeats),
	)

	return session, nil
}

// Resume returns the stored round if it belongs to player
func (c *Controller) Resume(ctx context.Context, player string) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx)
	if err != nil {
		c.logReadFailure(err)
		return nil, model.ErrNoActiveSession
	}
	if !roster.SameName(session.Player, player) {
		return nil, model.ErrNoActiveSession
	}
	return session, nil
}

// Current returns the stored round whoever owns it.
// A round left behind by a removed player is discarded.
func (c *Controller) Current(ctx context.Context) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx)
	if err != nil {
		c.logReadFailure(err)
		return nil, model.ErrNoActiveSession
	}

	if _, err := c.rosterService.Get(ctx, session.Player); err != nil {
		if !errors.Is(err, model.ErrPlayerNotFound) {
			// Roster unreadable; report the round as it is
			return session, nil
		}
		if _, err := c.storage.DeleteSessionFor(ctx, session.Player); err != nil {
			c.logger.Error("failed to clear orphaned session",
				slog.String("player", session.Player),
				slog.String("error", err.Error()),
			)
		} else {
			c.logger.Warn("cleared orphaned session", slog.String("player", session.Player))
		}
		return nil, model.ErrNoActiveSession
	}

	return session, nil
}

// SubmitGuess evaluates raw against the secret and advances the round.
// On a solved guess or the last attempt the round finishes and the
// result is returned instead of the session.
func (c *Controller) SubmitGuess(ctx context.Context, raw string) (*model.GuessResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	guess, err := model.ParseCode(raw)
	if err != nil {
		return nil, err
	}
	stored := session.Clone()

	entry := model.HistoryEntry{
		Attempt: session.Attempt,
		Guess:   guess,
		Score:   c.scoringService.Evaluate(session.Secret, guess),
	}
	session.History = append(session.History, entry)

	c.logger.Debug("guess evaluated",
		slog.String("player", session.Player),
		slog.Int("attempt", entry.Attempt),
		slog.String("score", entry.Score.Label()),
	)

	switch {
	case entry.Score.Solved():
		result, err := c.finish(ctx, stored, session, true, model.EndReasonSolved)
		if err != nil {
			return nil, err
		}
		return &model.GuessResult{Entry: entry, Result: result}, nil
	case session.IsLastAttempt():
		result, err := c.finish(ctx, stored, session, false, model.EndReasonOutOfAttempts)
		if err != nil {
			return nil, err
		}
		return &model.GuessResult{Entry: entry, Result: result}, nil
	}

	session.Attempt++
	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	return &model.GuessResult{Entry: entry, Session: session}, nil
}

// RequestHelp spends a help token to reveal which digits of draft are
// already in the right place. Attempt and history are unchanged.
func (c *Controller) RequestHelp(ctx context.Context, draft string) (*model.HelpResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	if session.HelpTokens <= 0 {
		return nil, model.ErrNoHelpLeft
	}
	if utf8.RuneCountInString(draft) != model.CodeLength {
		return nil, model.ErrIncompleteGuess
	}
	code, err := model.ParseCode(draft)
	if err != nil {
		return nil, err
	}

	positions := c.scoringService.Hint(session.Secret, code)
	session.HelpTokens--
	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("help used",
		slog.String("player", session.Player),
		slog.Int("tokens_left", session.HelpTokens),
	)

	return &model.HelpResult{Positions: positions, TokensLeft: session.HelpTokens}, nil
}

// Restart replaces the round with a fresh one under the same policy.
// Each round may be restarted once.
func (c *Controller) Restart(ctx context.Context) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	if session.RestartUsed {
		return nil, model.ErrRestartAlreadyUsed
	}

	session.Secret = c.secrets.Generate(session.AllowRepeats)
	session.Attempt = 1
	session.History = []model.HistoryEntry{}
	session.HelpTokens = model.HelpTokens
	session.RestartUsed = true
	session.StartedAt = c.clock.Now()

	if err := c.save(ctx, session); err != nil {
		return nil, err
	}

	c.logger.Info("round restarted", slog.String("player", session.Player))

	return session, nil
}

// Finish ends the round, records the outcome and reveals the secret
func (c *Controller) Finish(ctx context.Context, won bool) (*model.RoundResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	reason := model.EndReasonAbandoned
	switch {
	case won:
		reason = model.EndReasonSolved
	case len(session.History) >= model.MaxAttempts:
		reason = model.EndReasonOutOfAttempts
	}

	return c.finish(ctx, session, session, won, reason)
}

// Abandon gives up the round, counting it as a loss
func (c *Controller) Abandon(ctx context.Context) (*model.RoundResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	return c.finish(ctx, session, session, false, model.EndReasonAbandoned)
}

// finish clears the stored round and then records the outcome, so a round
// can only be counted while it is still stored. stored is the round as last
// persisted and is put back if the outcome cannot be recorded.
func (c *Controller) finish(ctx context.Context, stored, session *model.Session, won bool, reason model.EndReason) (*model.RoundResult, error) {
	deleted, err := c.storage.DeleteSessionFor(ctx, session.Player)
	if err != nil {
		c.logger.Error("failed to clear session",
			slog.String("player", session.Player),
			slog.String("error", err.Error()),
		)
		return nil, model.PersistenceError(err)
	}
	if !deleted {
		return nil, model.ErrNoActiveSession
	}

	if err := c.rosterService.RecordResult(ctx, session.Player, won); err != nil {
		if restoreErr := c.storage.CreateSession(ctx, stored); restoreErr != nil {
			c.logger.Error("failed to restore session after unrecorded result",
				slog.String("player", session.Player),
				slog.String("error", restoreErr.Error()),
			)
		}
		return nil, err
	}

	result := &model.RoundResult{
		Player:       session.Player,
		Won:          won,
		Reason:       reason,
		Secret:       session.Secret,
		Attempts:     len(session.History),
		History:      session.History,
		AllowRepeats: session.AllowRepeats,
		Duration:     c.clock.Since(session.StartedAt),
	}

	c.logger.Info("round finished",
		slog.String("player", result.Player),
		slog.Bool("won", won),
		slog.String("reason", string(reason)),
		slog.Int("attempts", result.Attempts),
	)

	return result, nil
}

// load reads the stored round for a mutation
func (c *Controller) load(ctx context.Context) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoActiveSession) {
			return nil, err
		}
		c.logReadFailure(err)
		return nil, model.PersistenceError(err)
	}
	return session, nil
}

func (c *Controller) save(ctx context.Context, session *model.Session) error {
	if err := c.storage.SaveSession(ctx, session); err != nil {
		if errors.Is(err, model.ErrNoActiveSession) {
			return err
		}
		c.logger.Error("failed to save session",
			slog.String("player", session.Player),
			slog.String("error", err.Error()),
		)
		return model.PersistenceError(err)
	}
	return nil
}

func (c *Controller) logReadFailure(err error) {
	if errors.Is(err, model.ErrNoActiveSession) {
		return
	}
	c.logger.Error("failed to read session", slog.String("error", err.Error()))
}
