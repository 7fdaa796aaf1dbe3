package session

import (
	"context"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"newschat/internal/domain"
	"newschat/internal/session/memory"
	"newschat/internal/session/redis"
)

// Store is an append-only per-session message log. History returns
// messages oldest first regardless of the backend's native order.
// Sessions are created implicitly on first append.
type Store interface {
	Append(ctx context.Context, sessionID string, msg domain.ChatMessage) error
	History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	Clear(ctx context.Context, sessionID string) error
}

// New probes the redis client once and picks a backend for the process
// lifetime: redis when the probe succeeds, the in-process store when it
// does not. The returned flag reports whether the durable backend is
// active, for the health surface. There is no re-probing and no
// promotion back to redis later.
func New(ctx context.Context, client *goredis.Client) (Store, bool) {
	if client != nil {
		probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(probeCtx).Err()
		cancel()
		if err == nil {
			return redis.NewStore(client), true
		}
		log.Printf("%v: redis unreachable, using in-memory session store: %v",
			domain.ErrPersistenceUnavailable, err)
	}
	return memory.NewStore(), false
}
