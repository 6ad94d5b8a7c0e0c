package model

import (
	"strings"
	"unicode/utf8"
)

// Roster limits
const (
	MaxPlayers    = 3
	MaxNameLength = 15
)

// Player is a named entry in the roster with lifetime win/loss counters
type Player struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

// NormalizeName trims a candidate player name and checks its length
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// GamesPlayed returns the total number of finished rounds
func (p *Player) GamesPlayed() int {
	return p.Wins + p.Losses
}
