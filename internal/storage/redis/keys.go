package redis

import "fmt"

// Logical key names. Each value is a plain string so the layout stays
// readable with redis-cli.
const (
	fieldPlayers             = "players"
	fieldSessionPlayer       = "session.player"
	fieldSessionSecret       = "session.secret"
	fieldSessionAttempt      = "session.attempt"
	fieldSessionHistory      = "session.history"
	fieldSessionActive       = "session.active"
	fieldSessionHelpTokens   = "session.helpTokens"
	fieldSessionRestartUsed  = "session.restartUsed"
	fieldSessionAllowRepeats = "session.allowRepeats"
	fieldSessionStartedAt    = "session.startedAt"
	fieldConfigAllowRepeats  = "config.allowRepeats"
)

// sessionFields lists every key that makes up the session record
var sessionFields = []string{
	fieldSessionPlayer,
	fieldSessionSecret,
	fieldSessionAttempt,
	fieldSessionHistory,
	fieldSessionActive,
	fieldSessionHelpTokens,
	fieldSessionRestartUsed,
	fieldSessionAllowRepeats,
	fieldSessionStartedAt,
}

// key returns the namespaced Redis key for a logical field
func (s *Storage) key(field string) string {
	return fmt.Sprintf("%s:%s", s.cfg.KeyPrefix, field)
}

// sessionKeys returns the namespaced keys of the session record
func (s *Storage) sessionKeys() []string {
	keys := make([]string, len(sessionFields))
	for i, field := range sessionFields {
		keys[i] = s.key(field)
	}
	return keys
}
