package model

import "time"

// Round limits
const (
	MaxAttempts = 10
	HelpTokens  = 3
)

// Session is the persisted state of the single in-progress round
type Session struct {
	Player       string         `json:"player"`
	Secret       Code           `json:"secret"`
	Attempt      int            `json:"attempt"` // Next attempt to be played, 1-indexed
	History      []HistoryEntry `json:"history"`
	HelpTokens   int            `json:"help_tokens"`
	RestartUsed  bool           `json:"restart_used"`
	AllowRepeats bool           `json:"allow_repeats"` // Frozen at start, reused on restart
	Active       bool           `json:"active"`
	StartedAt    time.Time      `json:"started_at"`
}

// NewSession creates a fresh round for player with the given secret
func NewSession(player string, secret Code, allowRepeats bool, now time.Time) *Session {
	return &Session{
		Player:       player,
		Secret:       secret,
		Attempt:      1,
		History:      []HistoryEntry{},
		HelpTokens:   HelpTokens,
		RestartUsed:  false,
		AllowRepeats: allowRepeats,
		Active:       true,
		StartedAt:    now,
	}
}

// AttemptsLeft returns how many guesses remain including the current one
func (s *Session) AttemptsLeft() int {
	return MaxAttempts - s.Attempt + 1
}

// IsLastAttempt returns true when the current attempt exhausts the budget
func (s *Session) IsLastAttempt() bool {
	return s.Attempt >= MaxAttempts
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	c := *s
	c.History = make([]HistoryEntry, len(s.History))
	copy(c.History, s.History)
	return &c
}

// Settings holds defaults applied to the next new round
type Settings struct {
	AllowRepeats bool `json:"allow_repeats"`
}

// DefaultSettings returns the settings used before any are saved
func DefaultSettings() Settings {
	return Settings{AllowRepeats: false}
}

// EndReason explains why a round finished
type EndReason string

const (
	EndReasonSolved        EndReason = "solved"
	EndReasonOutOfAttempts EndReason = "out_of_attempts"
	EndReasonAbandoned     EndReason = "abandoned"
)

// RoundResult is returned when a round finishes.
// The presentation layer uses it to reveal the secret and to offer another round.
type RoundResult struct {
	Player       string
	Won          bool
	Reason       EndReason
	Secret       Code
	Attempts     int // Guesses actually submitted
	History      []HistoryEntry
	AllowRepeats bool
	Duration     time.Duration
}

// GuessResult is the outcome of submitting one guess.
// Exactly one of Session and Result is set.
type GuessResult struct {
	Entry   HistoryEntry
	Session *Session
	Result  *RoundResult
}

// HelpResult is a per-position correctness mask for a guess draft
type HelpResult struct {
	Positions  [CodeLength]bool
	TokensLeft int
}
