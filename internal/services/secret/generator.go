package secret

import (
	"github.com/mcoot/mastermind-go/internal/dependencies/random"
	"github.com/mcoot/mastermind-go/internal/model"
)

// Generator draws secret codes
type Generator struct {
	random random.Random
}

// New creates a new Generator
func New(random random.Random) *Generator {
	return &Generator{
		random: random,
	}
}

// Generate draws each digit uniformly from 0-9. When repeats are not
// allowed a digit already in the code is discarded and redrawn.
func (g *Generator) Generate(allowRepeats bool) model.Code {
	code := make([]byte, 0, model.CodeLength)
	var used [10]bool

	for len(code) < model.CodeLength {
		d := g.random.Intn(10)
		if !allowRepeats && used[d] {
			continue
		}
		used[d] = true
		code = append(code, byte('0'+d))
	}

	return model.Code(code)
}
