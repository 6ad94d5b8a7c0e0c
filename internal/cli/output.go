package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintf(o.w, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case PlayerList:
		o.printPlayerList(v)
	case Settings:
		o.printSettings(v)
	case Session:
		o.printSession(v)
	case GuessResult:
		o.printGuessResult(v)
	case HelpResult:
		o.printHelpResult(v)
	case RoundResult:
		o.printRoundResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// PlayerList response type
type PlayerList struct {
	Players    []Player `json:"players"`
	MaxPlayers int      `json:"max_players"`
}

// Settings response type
type Settings struct {
	AllowRepeats bool `json:"allow_repeats"`
}

// HistoryEntry response type
type HistoryEntry struct {
	Attempt int    `json:"attempt"`
	Guess   string `json:"guess"`
	Bulls   int    `json:"bulls"`
	Cows    int    `json:"cows"`
	Misses  int    `json:"misses"`
	Label   string `json:"label"`
}

// Session response type
type Session struct {
	Player       string         `json:"player"`
	Attempt      int            `json:"attempt"`
	AttemptsLeft int            `json:"attempts_left"`
	History      []HistoryEntry `json:"history"`
	HelpTokens   int            `json:"help_tokens"`
	RestartUsed  bool           `json:"restart_used"`
	AllowRepeats bool           `json:"allow_repeats"`
}

// RoundResult response type
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

// GuessResult response type
type GuessResult struct {
	Entry   HistoryEntry `json:"entry"`
	Session *Session     `json:"session,omitempty"`
	Result  *RoundResult `json:"result,omitempty"`
}

// HelpResult response type
type HelpResult struct {
	Positions  []bool `json:"positions"`
	TokensLeft int    `json:"tokens_left"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (e HistoryEntry) String() string {
	return fmt.Sprintf("Attempt %d: %s -> %s", e.Attempt, e.Guess, e.Label)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (o *Output) printPlayer(p Player) {
	_, _ = fmt.Fprintf(o.w, "%s: %d wins, %d losses\n", p.Name, p.Wins, p.Losses)
}

func (o *Output) printPlayerList(l PlayerList) {
	_, _ = fmt.Fprintf(o.w, "Players (%d/%d):\n", len(l.Players), l.MaxPlayers)
	for _, p := range l.Players {
		_, _ = fmt.Fprintf(o.w, "  - %s (W %d / L %d)\n", p.Name, p.Wins, p.Losses)
	}
}

func (o *Output) printSettings(s Settings) {
	_, _ = fmt.Fprintf(o.w, "Repeated digits: %s\n", onOff(s.AllowRepeats))
}

func (o *Output) printSession(s Session) {
	_, _ = fmt.Fprintf(o.w, "Player: %s\n", s.Player)
	_, _ = fmt.Fprintf(o.w, "Attempt: %d (%d left)\n", s.Attempt, s.AttemptsLeft)
	_, _ = fmt.Fprintf(o.w, "Help tokens: %d\n", s.HelpTokens)
	_, _ = fmt.Fprintf(o.w, "Restart used: %t\n", s.RestartUsed)
	_, _ = fmt.Fprintf(o.w, "Repeated digits: %s\n", onOff(s.AllowRepeats))
	for _, e := range s.History {
		_, _ = fmt.Fprintf(o.w, "  %s\n", e)
	}
}

func (o *Output) printGuessResult(g GuessResult) {
	_, _ = fmt.Fprintln(o.w, g.Entry.String())
	if g.Result != nil {
		o.printRoundResult(*g.Result)
	} else if g.Session != nil {
		_, _ = fmt.Fprintf(o.w, "Attempts left: %d\n", g.Session.AttemptsLeft)
	}
}

func (o *Output) printHelpResult(h HelpResult) {
	marks := make([]string, len(h.Positions))
	for i, ok := range h.Positions {
		if ok {
			marks[i] = "+"
		} else {
			marks[i] = "-"
		}
	}
	_, _ = fmt.Fprintf(o.w, "Correct positions: %s\n", strings.Join(marks, " "))
	_, _ = fmt.Fprintf(o.w, "Help tokens left: %d\n", h.TokensLeft)
}

func (o *Output) printRoundResult(r RoundResult) {
	switch {
	case r.Won:
		_, _ = fmt.Fprintf(o.w, "%s cracked the code in %d attempts!\n", r.Player, r.Attempts)
	case r.Reason == "out_of_attempts":
		_, _ = fmt.Fprintf(o.w, "Out of attempts. Better luck next time, %s.\n", r.Player)
	default:
		_, _ = fmt.Fprintf(o.w, "Round abandoned by %s.\n", r.Player)
	}
	_, _ = fmt.Fprintf(o.w, "The code was %s\n", r.Secret)
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
