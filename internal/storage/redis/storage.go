package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Every logical field lives under its own string key and typed values are
// converted with strconv on the way in and out.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultConfig().KeyPrefix
	}
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Roster operations

func (s *Storage) GetPlayers(ctx context.Context) ([]model.Player, error) {
	data, err := s.client.Get(ctx, s.key(fieldPlayers)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []model.Player{}, nil
		}
		return nil, err
	}

	var players []model.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	if players == nil {
		players = []model.Player{}
	}
	return players, nil
}

func (s *Storage) SavePlayers(ctx context.Context, players []model.Player) error {
	if players == nil {
		players = []model.Player{}
	}
	data, err := json.Marshal(players)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(fieldPlayers), data, 0).Err()
}

// Session operations

func (s *Storage) GetSession(ctx context.Context) (*model.Session, error) {
	values, err := s.client.MGet(ctx, s.sessionKeys()...).Result()
	if err != nil {
		return nil, err
	}
	return decodeSession(values)
}

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) error {
	fields, err := encodeSession(session)
	if err != nil {
		return err
	}

	activeKey := s.key(fieldSessionActive)
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := s.sessionActive(ctx, tx)
		if err != nil {
			return err
		}
		if exists {
			return model.ErrSessionInProgress
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			s.writeSession(ctx, pipe, fields)
			return nil
		})
		return err
	}, activeKey)
}

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	fields, err := encodeSession(session)
	if err != nil {
		return err
	}

	activeKey := s.key(fieldSessionActive)
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := s.sessionActive(ctx, tx)
		if err != nil {
			return err
		}
		if !exists {
			return model.ErrNoActiveSession
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			s.writeSession(ctx, pipe, fields)
			return nil
		})
		return err
	}, activeKey)
}

func (s *Storage) DeleteSession(ctx context.Context) error {
	return s.client.Del(ctx, s.sessionKeys()...).Err()
}

func (s *Storage) DeleteSessionFor(ctx context.Context, player string) (bool, error) {
	deleted := false
	playerKey := s.key(fieldSessionPlayer)
	activeKey := s.key(fieldSessionActive)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		owner, err := tx.Get(ctx, playerKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil
			}
			return err
		}
		if owner != player {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, s.sessionKeys()...)
			return nil
		})
		if err == nil {
			deleted = true
		}
		return err
	}, playerKey, activeKey)

	return deleted, err
}

// sessionActive reports whether a live session record exists
func (s *Storage) sessionActive(ctx context.Context, tx *redis.Tx) (bool, error) {
	raw, err := tx.Get(ctx, s.key(fieldSessionActive)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	active, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("decode %s: %w", fieldSessionActive, err)
	}
	return active, nil
}

func (s *Storage) writeSession(ctx context.Context, pipe redis.Pipeliner, fields map[string]string) {
	for _, field := range sessionFields {
		pipe.Set(ctx, s.key(field), fields[field], 0)
	}
}

// encodeSession flattens a session into its string fields
func encodeSession(session *model.Session) (map[string]string, error) {
	history := make([]string, len(session.History))
	for i, entry := range session.History {
		history[i] = entry.String()
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, err
	}

	return map[string]string{
		fieldSessionPlayer:       session.Player,
		fieldSessionSecret:       string(session.Secret),
		fieldSessionAttempt:      strconv.Itoa(session.Attempt),
		fieldSessionHistory:      string(historyJSON),
		fieldSessionActive:       strconv.FormatBool(session.Active),
		fieldSessionHelpTokens:   strconv.Itoa(session.HelpTokens),
		fieldSessionRestartUsed:  strconv.FormatBool(session.RestartUsed),
		fieldSessionAllowRepeats: strconv.FormatBool(session.AllowRepeats),
		fieldSessionStartedAt:    session.StartedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

// decodeSession rebuilds a session from MGET values ordered as sessionFields
func decodeSession(values []interface{}) (*model.Session, error) {
	raw := make(map[string]string, len(sessionFields))
	for i, field := range sessionFields {
		if values[i] == nil {
			continue
		}
		str, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("decode %s: unexpected type %T", field, values[i])
		}
		raw[field] = str
	}

	activeRaw, ok := raw[fieldSessionActive]
	if !ok {
		return nil, model.ErrNoActiveSession
	}
	active, err := strconv.ParseBool(activeRaw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldSessionActive, err)
	}
	if !active {
		return nil, model.ErrNoActiveSession
	}

	session := &model.Session{
		Player: raw[fieldSessionPlayer],
		Secret: model.Code(raw[fieldSessionSecret]),
		Active: true,
	}

	if session.Attempt, err = strconv.Atoi(raw[fieldSessionAttempt]); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldSessionAttempt, err)
	}
	if session.HelpTokens, err = strconv.Atoi(raw[fieldSessionHelpTokens]); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldSessionHelpTokens, err)
	}
	if session.RestartUsed, err = strconv.ParseBool(raw[fieldSessionRestartUsed]); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldSessionRestartUsed, err)
	}
	if session.AllowRepeats, err = strconv.ParseBool(raw[fieldSessionAllowRepeats]); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldSessionAllowRepeats, err)
	}
	if startedAt, ok := raw[fieldSessionStartedAt]; ok && startedAt != "" {
		if session.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldSessionStartedAt, err)
		}
	}

	var lines []string
	if historyRaw := raw[fieldSessionHistory]; historyRaw != "" {
		if err := json.Unmarshal([]byte(historyRaw), &lines); err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldSessionHistory, err)
		}
	}
	session.History = make([]model.HistoryEntry, 0, len(lines))
	for _, line := range lines {
		entry, err := model.ParseHistoryEntry(line)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldSessionHistory, err)
		}
		session.History = append(session.History, entry)
	}

	return session, nil
}

// Settings operations

func (s *Storage) GetSettings(ctx context.Context) (*model.Settings, error) {
	settings := model.DefaultSettings()

	raw, err := s.client.Get(ctx, s.key(fieldConfigAllowRepeats)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &settings, nil
		}
		return nil, err
	}

	if settings.AllowRepeats, err = strconv.ParseBool(raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", fieldConfigAllowRepeats, err)
	}
	return &settings, nil
}

func (s *Storage) SaveSettings(ctx context.Context, settings *model.Settings) error {
	return s.client.Set(ctx, s.key(fieldConfigAllowRepeats), strconv.FormatBool(settings.AllowRepeats), 0).Err()
}
