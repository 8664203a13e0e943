package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// unlockScript deletes the lease only if this holder still owns it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LeaseLocker implements usecase.Locker with SET NX PX leases. A lease
// simply expires if its holder dies.
type LeaseLocker struct {
	client *redis.Client
	prefix string

	mu     sync.Mutex
	tokens map[string]string
}

// NewLeaseLocker creates a new LeaseLocker.
func NewLeaseLocker(client *redis.Client) *LeaseLocker {
	return &LeaseLocker{
		client: client,
		prefix: "chronledger:lease:",
		tokens: make(map[string]string),
	}
}

// TryLock takes the lease for key if nobody holds it.
func (l *LeaseLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := ulid.Make().String()

	ok, err := l.client.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil || !ok {
		return false, err
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()

	return true, nil
}

// Unlock releases a lease taken by this locker. Releasing a lease that
// expired or was never held is not an error.
func (l *LeaseLocker) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()

	if !ok {
		return nil
	}

	err := unlockScript.Run(ctx, l.client, []string{l.prefix + key}, token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}

	return err
}
