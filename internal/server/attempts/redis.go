package attempts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "wanderlust:attempts:"

// Redis keeps attempt state in a hash per username so several server
// instances share lockouts. Keys expire after ttl of inactivity.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// IdleTTL is how long a key survives without a write.
func (r *Redis) IdleTTL() time.Duration { return r.ttl }

func key(username string) string {
	return keyPrefix + username
}

func (r *Redis) Get(ctx context.Context, username string) (State, error) {
	fields, err := r.client.HGetAll(ctx, key(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("redis error: %w", err)
	}
	return parseState(fields)
}

func (r *Redis) Fail(ctx context.Context, username string, at time.Time) (State, error) {
	k := key(username)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.HIncrBy(ctx, k, "attempts", 1)
		p.HSet(ctx, k, "last", at.UnixNano())
		if r.ttl > 0 {
			p.Expire(ctx, k, r.ttl)
		}
		return nil
	})
	if err != nil {
		return State{}, fmt.Errorf("redis error: %w", err)
	}

	return State{Attempts: int(incr.Val()), Last: at}, nil
}

func (r *Redis) Reset(ctx context.Context, username string, at time.Time) error {
	k := key(username)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, k, "attempts", 0, "last", at.UnixNano())
		if r.ttl > 0 {
			p.Expire(ctx, k, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context, username string) error {
	if err := r.client.Del(ctx, key(username)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func parseState(fields map[string]string) (State, error) {
	var s State

	if v, ok := fields["attempts"]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return State{}, fmt.Errorf("bad attempts value %q: %w", v, err)
		}
		s.Attempts = n
	}

	if v, ok := fields["last"]; ok {
		ns, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return State{}, fmt.Errorf("bad last value %q: %w", v, err)
		}
		s.Last = time.Unix(0, ns)
	}

	return s, nil
}
