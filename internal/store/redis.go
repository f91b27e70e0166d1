package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// DictionaryLoader returns a fresh dictionary for a word list name.
type DictionaryLoader func(ctx context.Context, list string) (*solver.Dictionary, error)

// redisStore keeps session snapshots in Redis so several server
// instances can serve the same session. Candidates are not stored; Get
// replays the recorded rounds over the session's list.
type redisStore struct {
	client    *redis.Client
	load      DictionaryLoader
	ttl       time.Duration
	keyPrefix string
}

// NewRedisStore wraps an existing client. Every Save refreshes the TTL.
func NewRedisStore(client *redis.Client, load DictionaryLoader, ttl time.Duration) Store {
	return &redisStore{client: client, load: load, ttl: ttl, keyPrefix: "solver:session:"}
}

// DialRedis connects and pings addr.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *redisStore) key(id string) string { return r.keyPrefix + id }

func (r *redisStore) Save(ctx context.Context, s *game.Session) error {
	b, err := json.Marshal(s.Snapshot())
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(s.ID), b, r.ttl).Err()
}

func (r *redisStore) Get(ctx context.Context, id string) (*game.Session, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	s, err := decodeSession(ctx, id, b, r.load)
	if errors.Is(err, ErrNotFound) {
		_ = r.client.Del(ctx, r.key(id)).Err()
	}
	return s, err
}

// decodeSession rebuilds a session from its snapshot. A list that is gone,
// or has changed so the recorded rounds no longer replay, leaves nothing
// to resume and reports ErrNotFound.
func decodeSession(ctx context.Context, id string, b []byte, load DictionaryLoader) (*game.Session, error) {
	var snap game.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	dict, err := load(ctx, snap.List)
	if err != nil {
		return nil, fmt.Errorf("%w: session %s: load list %s: %v", ErrNotFound, id, snap.List, err)
	}
	s, err := game.Restore(snap, dict)
	if err != nil {
		return nil, fmt.Errorf("%w: session %s: list %s changed: %v", ErrNotFound, id, snap.List, err)
	}
	return s, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.key(id)).Err()
}
