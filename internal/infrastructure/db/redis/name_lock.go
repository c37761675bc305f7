package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultLockTTL   = 5 * time.Second
	defaultLockRetry = 25 * time.Millisecond
)

// unlockScript deletes the key only while it still holds our token, so a lock
// that expired and was taken by another process is left alone.
var unlockScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// NameLock is a ports.NameLocker backed by Redis SET NX PX.
// Key format: <prefix>:<lower-cased name>
type NameLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	log    zerolog.Logger
}

// NewNameLock creates a NameLock whose keys live under prefix.
func NewNameLock(client *redis.Client, prefix string, log zerolog.Logger) *NameLock {
	return &NameLock{
		client: client,
		prefix: prefix,
		ttl:    defaultLockTTL,
		retry:  defaultLockRetry,
		log:    log.With().Str("component", "name_lock").Logger(),
	}
}

// Lock polls until the key is acquired or ctx is done. The lock expires on its
// own after the TTL if the holder never releases it.
func (l *NameLock) Lock(ctx context.Context, name string) (func(), error) {
	key := l.key(name)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("name lock %q: %w", name, err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("name lock %q: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *NameLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := unlockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		// The key still expires after the TTL.
		l.log.Warn().Err(err).Str("key", key).Msg("name lock release failed")
	}
}

func (l *NameLock) key(name string) string {
	return l.prefix + ":" + strings.ToLower(strings.TrimSpace(name))
}
