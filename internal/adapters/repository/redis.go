package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/skillswap/internal/domain/model"
)

const (
	defaultRedisPrefix = "skillswap"
	redisTxRetries     = 5
	redisDialTimeout   = 5 * time.Second
	redisIOTimeout     = 3 * time.Second
)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix namespaces every key written by the store.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// RedisStore implements Repository on Redis. Profiles and matches are JSON strings;
// sets index all profiles and the matches of each user.
//
//	<prefix>:profile:<user_id>     profile JSON
//	<prefix>:profiles              set of user ids
//	<prefix>:match:<u1>:<u2>       match JSON
//	<prefix>:user_matches:<uid>    set of pair keys
type RedisStore struct {
	client *redis.Client
	prefix string
}

// ConnectRedis creates a client and pings it.
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisIOTimeout,
		WriteTimeout: redisIOTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps client. The store owns the client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) profileKey(userID string) string { return s.prefix + ":profile:" + userID }
func (s *RedisStore) profilesKey() string             { return s.prefix + ":profiles" }
func (s *RedisStore) matchKey(pairKey string) string  { return s.prefix + ":match:" + pairKey }
func (s *RedisStore) userMatchesKey(userID string) string {
	return s.prefix + ":user_matches:" + userID
}

func (s *RedisStore) LoadProfile(ctx context.Context, userID string) (model.Profile, error) {
	raw, err := s.client.Get(ctx, s.profileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Profile{}, fmt.Errorf("profile %s: %w", userID, ErrNotFound)
		}
		return model.Profile{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
	var p model.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return model.Profile{}, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return p, nil
}

func (s *RedisStore) ListCandidates(ctx context.Context, excludeUserID string) ([]model.Profile, error) {
	ids, err := s.client.SMembers(ctx, s.profilesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list profile ids: %w", err)
	}
	sort.Strings(ids)
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != excludeUserID {
			keys = append(keys, s.profileKey(id))
		}
	}
	out := make([]model.Profile, 0)
	err = s.mget(ctx, keys, func(raw string) error {
		var p model.Profile
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return fmt.Errorf("decode profile: %w", err)
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RedisStore) UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error) {
	if p.UserID == "" {
		return model.Profile{}, fmt.Errorf("%w: empty user id", ErrInvalidProfile)
	}
	key := s.profileKey(p.UserID)
	var out model.Profile
	err := s.withTx(ctx, key, func(tx *redis.Tx) error {
		var existing *model.Profile
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cur model.Profile
			if err := json.Unmarshal(raw, &cur); err != nil {
				return fmt.Errorf("decode profile %s: %w", p.UserID, err)
			}
			existing = &cur
		case !errors.Is(err, redis.Nil):
			return err
		}
		out, err = prepareProfile(p, existing, now())
		if err != nil {
			return err
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, s.profilesKey(), out.UserID)
			return nil
		})
		return err
	})
	if err != nil {
		return model.Profile{}, fmt.Errorf("upsert profile %s: %w", p.UserID, err)
	}
	return out, nil
}

func (s *RedisStore) SaveMatch(ctx context.Context, m model.Match) (model.Match, error) {
	pairKey := model.NewPair(m.User1ID, m.User2ID).Key()
	key := s.matchKey(pairKey)
	var out model.Match
	err := s.withTx(ctx, key, func(tx *redis.Tx) error {
		var existing *model.Match
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var cur model.Match
			if err := json.Unmarshal(raw, &cur); err != nil {
				return fmt.Errorf("decode match %s: %w", pairKey, err)
			}
			existing = &cur
		case !errors.Is(err, redis.Nil):
			return err
		}
		out, err = prepareMatch(m, existing, now())
		if err != nil {
			return err
		}
		data, err := json.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode match: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, s.userMatchesKey(out.User1ID), pairKey)
			pipe.SAdd(ctx, s.userMatchesKey(out.User2ID), pairKey)
			return nil
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrInvalidMatch) {
			return model.Match{}, err
		}
		return model.Match{}, fmt.Errorf("save match %s: %w", pairKey, err)
	}
	return out, nil
}

func (s *RedisStore) ListMatches(ctx context.Context, userID string) ([]model.Match, error) {
	pairKeys, err := s.client.SMembers(ctx, s.userMatchesKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list match keys: %w", err)
	}
	keys := make([]string, 0, len(pairKeys))
	for _, pk := range pairKeys {
		keys = append(keys, s.matchKey(pk))
	}
	out := make([]model.Match, 0, len(keys))
	err = s.mget(ctx, keys, func(raw string) error {
		var m model.Match
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return fmt.Errorf("decode match: %w", err)
		}
		out = append(out, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortMatches(out)
	return out, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// mget fetches keys and calls fn for every value that exists.
func (s *RedisStore) mget(ctx context.Context, keys []string, fn func(raw string) error) error {
	if len(keys) == 0 {
		return nil
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("mget: %w", err)
	}
	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn under WATCH key, retrying when a concurrent writer wins.
func (s *RedisStore) withTx(ctx context.Context, key string, fn func(tx *redis.Tx) error) error {
	var err error
	for range redisTxRetries {
		err = s.client.Watch(ctx, fn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}
