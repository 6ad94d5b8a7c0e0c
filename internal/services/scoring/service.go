package scoring

import (
	"github.com/mcoot/mastermind-go/internal/model"
)

// Service evaluates guesses against a secret
type Service struct{}

// New creates a new ScoringService
func New() *Service {
	return &Service{}
}

// Evaluate scores guess against secret position by position.
//
// A digit in the right place is a bull. A misplaced digit counts as a cow
// whenever it occurs anywhere in the secret, so repeated guess digits can
// each score a cow against a single secret digit: secret 1234 against
// guess 1111 is 1B 3C 0M.
func (s *Service) Evaluate(secret, guess model.Code) model.Score {
	var score model.Score
	for i := 0; i < model.CodeLength; i++ {
		switch {
		case guess[i] == secret[i]:
			score.Bulls++
		case secret.Contains(guess[i]):
			score.Cows++
		default:
			score.Misses++
		}
	}
	return score
}

// Hint reports which positions of draft already match the secret
func (s *Service) Hint(secret, draft model.Code) [model.CodeLength]bool {
	var positions [model.CodeLength]bool
	for i := 0; i < model.CodeLength; i++ {
		positions[i] = draft[i] == secret[i]
	}
	return positions
}
