package response

import (
	"time"

	"github.com/mcoot/mastermind-go/internal/model"
)

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

// Player represents a roster entry in API responses
type Player struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		Name:   p.Name,
		Wins:   p.Wins,
		Losses: p.Losses,
	}
}

// PlayerList is the response for listing the roster
type PlayerList struct {
	Players    []Player `json:"players"`
	MaxPlayers int      `json:"max_players"`
}

// PlayerListFromModel converts the roster
func PlayerListFromModel(players []model.Player) PlayerList {
	list := PlayerList{
		Players:    make([]Player, len(players)),
		MaxPlayers: model.MaxPlayers,
	}
	for i := range players {
		list.Players[i] = PlayerFromModel(&players[i])
	}
	return list
}

// Settings represents saved settings
type Settings struct {
	AllowRepeats bool `json:"allow_repeats"`
}

// SettingsFromModel converts model.Settings
func SettingsFromModel(s model.Settings) Settings {
	return Settings{AllowRepeats: s.AllowRepeats}
}

// HistoryEntry represents one evaluated guess
type HistoryEntry struct {
	Attempt int    `json:"attempt"`
	Guess   string `json:"guess"`
	Bulls   int    `json:"bulls"`
	Cows    int    `json:"cows"`
	Misses  int    `json:"misses"`
	Label   string `json:"label"`
}

// HistoryEntryFromModel converts model.HistoryEntry
func HistoryEntryFromModel(e model.HistoryEntry) HistoryEntry {
	return HistoryEntry{
		Attempt: e.Attempt,
		Guess:   string(e.Guess),
		Bulls:   e.Score.Bulls,
		Cows:    e.Score.Cows,
		Misses:  e.Score.Misses,
		Label:   e.Score.Label(),
	}
}

func historyFromModel(entries []model.HistoryEntry) []HistoryEntry {
	history := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		history[i] = HistoryEntryFromModel(e)
	}
	return history
}

// Session represents the round in progress.
// The secret is never included.
type Session struct {
	Player       string         `json:"player"`
	Attempt      int            `json:"attempt"`
	AttemptsLeft int            `json:"attempts_left"`
	History      []HistoryEntry `json:"history"`
	HelpTokens   int            `json:"help_tokens"`
	RestartUsed  bool           `json:"restart_used"`
	AllowRepeats bool           `json:"allow_repeats"`
	StartedAt    time.Time      `json:"started_at"`
}

// SessionFromModel converts model.Session
func SessionFromModel(s *model.Session) Session {
	return Session{
		Player:       s.Player,
		Attempt:      s.Attempt,
		AttemptsLeft: s.AttemptsLeft(),
		History:      historyFromModel(s.History),
		HelpTokens:   s.HelpTokens,
		RestartUsed:  s.RestartUsed,
		AllowRepeats: s.AllowRepeats,
		StartedAt:    s.StartedAt,
	}
}

// RoundResult represents a finished round with the secret revealed
type RoundResult struct {
	Player       string         `json:"player"`
	Won          bool           `json:"won"`
	Reason       string         `json:"reason"`
	Secret       string         `json:"secret"`
	Attempts     int            `json:"attempts"`
	History      []HistoryEntry `json:"history"`
	AllowRepeats bool           `json:"allow_repeats"`
	DurationMS   int64          `json:"duration_ms"`
}

// RoundResultFromModel converts model.RoundResult
func RoundResultFromModel(r *model.RoundResult) RoundResult {
	return RoundResult{
		Player:       r.Player,
		Won:          r.Won,
		Reason:       string(r.Reason),
		Secret:       string(r.Secret),
		Attempts:     r.Attempts,
		History:      historyFromModel(r.History),
		AllowRepeats: r.AllowRepeats,
		DurationMS:   r.Duration.Milliseconds(),
	}
}

// GuessResponse is the response after submitting a guess.
// Session is set while the round continues, Result once it has finished.
type GuessResponse struct {
	Entry   HistoryEntry `json:"entry"`
	Session *Session     `json:"session,omitempty"`
	Result  *RoundResult `json:"result,omitempty"`
}

// GuessResponseFromModel converts model.GuessResult
func GuessResponseFromModel(g *model.GuessResult) GuessResponse {
	resp := GuessResponse{Entry: HistoryEntryFromModel(g.Entry)}
	if g.Session != nil {
		s := SessionFromModel(g.Session)
		resp.Session = &s
	}
	if g.Result != nil {
		r := RoundResultFromModel(g.Result)
		resp.Result = &r
	}
	return resp
}

// HelpResponse is the response after spending a help token
type HelpResponse struct {
	Positions  []bool `json:"positions"`
	TokensLeft int    `json:"tokens_left"`
}

// HelpResponseFromModel converts model.HelpResult
func HelpResponseFromModel(h *model.HelpResult) HelpResponse {
	return HelpResponse{
		Positions:  h.Positions[:],
		TokensLeft: h.TokensLeft,
	}
}
