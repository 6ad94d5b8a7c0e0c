package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeLength is the number of digits in a secret or a guess
const CodeLength = 4

// Code is a sequence of exactly CodeLength ASCII digits
type Code string

// ParseCode validates raw input as a 4-digit code
func ParseCode(raw string) (Code, error) {
	if len(raw) != CodeLength {
		return "", ErrInvalidGuess
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "", ErrInvalidGuess
		}
	}
	return Code(raw), nil
}

// Contains reports whether digit occurs anywhere in the code
func (c Code) Contains(digit byte) bool {
	return strings.IndexByte(string(c), digit) >= 0
}

// HasRepeats reports whether any digit occurs more than once
func (c Code) HasRepeats() bool {
	var seen [10]bool
	for i := 0; i < len(c); i++ {
		d := c[i] - '0'
		if d > 9 {
			continue
		}
		if seen[d] {
			return true
		}
		seen[d] = true
	}
	return false
}

// Score is the feedback for one guess.
// Bulls+Cows+Misses is always CodeLength.
type Score struct {
	Bulls  int `json:"bulls"`
	Cows   int `json:"cows"`
	Misses int `json:"misses"`
}

// Solved returns true when every digit is in the right place
func (s Score) Solved() bool {
	return s.Bulls == CodeLength
}

// Label renders the score as "1B 2C 1M"
func (s Score) Label() string {
	return fmt.Sprintf("%dB %dC %dM", s.Bulls, s.Cows, s.Misses)
}

// ParseScore parses a label produced by Score.Label
func ParseScore(label string) (Score, error) {
	parts := strings.Fields(label)
	if len(parts) != 3 {
		return Score{}, fmt.Errorf("invalid score label %q", label)
	}
	var values [3]int
	for i, suffix := range []string{"B", "C", "M"} {
		numStr, ok := strings.CutSuffix(parts[i], suffix)
		if !ok {
			return Score{}, fmt.Errorf("invalid score label %q", label)
		}
		n, err := strconv.Atoi(numStr)
		if err != nil {
			return Score{}, fmt.Errorf("invalid score label %q: %w", label, err)
		}
		values[i] = n
	}
	return Score{Bulls: values[0], Cows: values[1], Misses: values[2]}, nil
}

// HistoryEntry records one evaluated guess within a round
type HistoryEntry struct {
	Attempt int   `json:"attempt"`
	Guess   Code  `json:"guess"`
	Score   Score `json:"score"`
}

// String renders the entry as "Attempt 3: 1234 -> 1B 2C 1M"
func (e HistoryEntry) String() string {
	return fmt.Sprintf("Attempt %d: %s -> %s", e.Attempt, e.Guess, e.Score.Label())
}

// ParseHistoryEntry parses a line produced by HistoryEntry.String
func ParseHistoryEntry(line string) (HistoryEntry, error) {
	rest, ok := strings.CutPrefix(line, "Attempt ")
	if !ok {
		return HistoryEntry{}, fmt.Errorf("invalid history entry %q", line)
	}
	numStr, rest, ok := strings.Cut(rest, ": ")
	if !ok {
		return HistoryEntry{}, fmt.Errorf("invalid history entry %q", line)
	}
	attempt, err := strconv.Atoi(numStr)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("invalid history entry %q: %w", line, err)
	}
	guessStr, label, ok := strings.Cut(rest, " -> ")
	if !ok {
		return HistoryEntry{}, fmt.Errorf("invalid history entry %q", line)
	}
	guess, err := ParseCode(guessStr)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("invalid history entry %q: %w", line, err)
	}
	score, err := ParseScore(label)
	if err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{Attempt: attempt, Guess: guess, Score: score}, nil
}
