package registration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const wizardKeyPrefix = "reg:"

// Store persists wizard state between steps. A missing session loads as a
// fresh empty wizard.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Wizard, error)
	Save(ctx context.Context, sessionID string, w *Wizard) error
	Delete(ctx context.Context, sessionID string) error
}

type redisStore struct {
	rdc *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdc *redis.Client, ttl time.Duration) Store {
	return &redisStore{rdc: rdc, ttl: ttl}
}

func wizardKey(sessionID string) string { return wizardKeyPrefix + sessionID }

func (s *redisStore) Load(ctx context.Context, sessionID string) (*Wizard, error) {
	raw, err := s.rdc.Get(ctx, wizardKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Wizard{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load wizard %s: %w", sessionID, err)
	}
	w := &Wizard{}
	if err := json.Unmarshal(raw, w); err != nil {
		return nil, fmt.Errorf("decode wizard %s: %w", sessionID, err)
	}
	return w, nil
}

func (s *redisStore) Save(ctx context.Context, sessionID string, w *Wizard) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode wizard %s: %w", sessionID, err)
	}
	// Each save renews the TTL; only abandonment lets the session lapse.
	if err := s.rdc.Set(ctx, wizardKey(sessionID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save wizard %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdc.Del(ctx, wizardKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete wizard %s: %w", sessionID, err)
	}
	return nil
}
