package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Error codes the interactive loop reports and keeps going on
var recoverableCodes = map[string]bool{
	"INVALID_GUESS":        true,
	"INCOMPLETE_GUESS":     true,
	"NO_HELP_LEFT":         true,
	"RESTART_ALREADY_USED": true,
}

func newPlayCmd() *cobra.Command {
	var repeats string

	cmd := &cobra.Command{
		Use:   "play <player>",
		Short: "Play interactively, resuming the player's round if one is saved",
		Long: `Play a round interactively.

Type a 4-digit guess and press enter. Other commands:
  ? <draft>   spend a help token to see which digits of the draft are in place
  restart     start over with a new code (once per round)
  abandon     give up the round (counts as a loss)
  quit        leave; the round is saved and can be resumed later`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &player{
				name:    args[0],
				out:     output(cmd),
				in:      bufio.NewScanner(cmd.InOrStdin()),
				repeats: repeats,
			}
			return p.run()
		},
	}

	cmd.Flags().StringVar(&repeats, "repeats", "", "Allow repeated digits for new rounds: on, off (default: saved setting)")

	return cmd
}

// player drives one interactive sitting at the terminal
type player struct {
	name    string
	out     *Output
	in      *bufio.Scanner
	repeats string
}

func (p *player) run() error {
	session, err := p.resumeOrStart()
	if err != nil {
		return err
	}

	for {
		result, err := p.playRound(session)
		if err != nil {
			return err
		}
		if result == nil {
			p.out.PrintMessage(fmt.Sprintf("Round saved. Resume with: mastermind play %s", p.name))
			return nil
		}

		p.out.Print(*result)
		if !p.confirm("Play again? [y/N] ") {
			return nil
		}

		req := map[string]any{"player": result.Player, "allow_repeats": result.AllowRepeats}
		var next Session
		if err := client.Post("/api/v1/session", req, &next); err != nil {
			return err
		}
		session = &next
	}
}

func (p *player) resumeOrStart() (*Session, error) {
	var session Session

	err := client.Post("/api/v1/session/resume", map[string]string{"player": p.name}, &session)
	if err == nil {
		p.out.PrintMessage(fmt.Sprintf("Resuming %s's round", session.Player))
		return &session, nil
	}
	if !IsAPIError(err, "NO_ACTIVE_SESSION") {
		return nil, err
	}

	req := map[string]any{"player": p.name}
	switch p.repeats {
	case "on":
		req["allow_repeats"] = true
	case "off":
		req["allow_repeats"] = false
	}
	if err := client.Post("/api/v1/session", req, &session); err != nil {
		return nil, err
	}
	p.out.PrintMessage(fmt.Sprintf("New round for %s. Repeated digits: %s", session.Player, onOff(session.AllowRepeats)))
	return &session, nil
}

// playRound reads commands until the round ends. A nil result means the
// player left with the round still saved.
func (p *player) playRound(session *Session) (*RoundResult, error) {
	for _, e := range session.History {
		p.out.PrintMessage(e.String())
	}

	for {
		p.prompt(fmt.Sprintf("Attempt %d/%d (help %d) > ", session.Attempt, session.Attempt+session.AttemptsLeft-1, session.HelpTokens))
		if !p.in.Scan() {
			return nil, p.in.Err()
		}
		line := strings.TrimSpace(p.in.Text())

		switch {
		case line == "":
			continue
		case line == "quit":
			return nil, nil
		case line == "abandon":
			var result RoundResult
			if err := client.Delete("/api/v1/session", &result); err != nil {
				return nil, err
			}
			return &result, nil
		case line == "restart":
			var next Session
			if err := client.Post("/api/v1/session/restart", nil, &next); err != nil {
				if err := p.recoverable(err); err != nil {
					return nil, err
				}
				continue
			}
			p.out.PrintMessage("New code drawn. Back to attempt 1.")
			session = &next
		case strings.HasPrefix(line, "?"):
			draft := strings.TrimSpace(strings.TrimPrefix(line, "?"))
			var help HelpResult
			if err := client.Post("/api/v1/session/help", map[string]string{"draft": draft}, &help); err != nil {
				if err := p.recoverable(err); err != nil {
					return nil, err
				}
				continue
			}
			p.out.Print(help)
			session.HelpTokens = help.TokensLeft
		default:
			var guess GuessResult
			if err := client.Post("/api/v1/session/guess", map[string]string{"guess": line}, &guess); err != nil {
				if err := p.recoverable(err); err != nil {
					return nil, err
				}
				continue
			}
			p.out.PrintMessage(guess.Entry.String())
			if guess.Result != nil {
				return guess.Result, nil
			}
			session = guess.Session
		}
	}
}

// recoverable prints errors the player can correct and swallows them
func (p *player) recoverable(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && recoverableCodes[apiErr.Code] {
		p.out.PrintMessage(apiErr.Message)
		return nil
	}
	return err
}

func (p *player) confirm(question string) bool {
	p.prompt(question)
	if !p.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(p.in.Text()))
	return answer == "y" || answer == "yes"
}

func (p *player) prompt(text string) {
	if p.out.format != "json" {
		_, _ = fmt.Fprint(p.out.w, text)
	}
}
