package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another request already holds the key.
var ErrLocked = errors.New("submission_in_progress")

const keyPrefix = "booking-submission:"

// releaseScript deletes the key only while it still holds the caller's token,
// so a holder whose ttl ran out cannot drop the next holder's lock.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// RedisSubmissionLock de-duplicates in-flight booking submissions across
// every API instance that shares the Redis server.
type RedisSubmissionLock struct {
	client   redis.Cmdable
	ttl      time.Duration
	newToken func() string
}

func NewRedisSubmissionLock(client redis.Cmdable, ttl time.Duration) *RedisSubmissionLock {
	return &RedisSubmissionLock{client: client, ttl: ttl, newToken: uuid.NewString}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (l *RedisSubmissionLock) Acquire(ctx context.Context, key string) (func(), error) {
	token := l.newToken()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire submission lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// the request context may already be cancelled here
		l.client.Eval(context.Background(), releaseScript, []string{keyPrefix + key}, token)
	}, nil
}

// LocalSubmissionLock is the single-instance fallback used when REDIS_URL is empty.
type LocalSubmissionLock struct {
	mu   sync.Mutex
	held map[string]localHold
	ttl  time.Duration
	now  func() time.Time
	seq  uint64
}

type localHold struct {
	expires time.Time
	token   uint64
}

func NewLocalSubmissionLock(ttl time.Duration) *LocalSubmissionLock {
	return &LocalSubmissionLock{held: map[string]localHold{}, ttl: ttl, now: time.Now}
}

func (l *LocalSubmissionLock) Acquire(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if h, ok := l.held[key]; ok && now.Before(h.expires) {
		return nil, ErrLocked
	}
	l.seq++
	token := l.seq
	l.held[key] = localHold{expires: now.Add(l.ttl), token: token}
	return func() {
		l.mu.Lock()
		if l.held[key].token == token {
			delete(l.held, key)
		}
		l.mu.Unlock()
	}, nil
}
