package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	goredis "github.com/redis/go-redis/v9"

	"newschat/internal/domain"
)

const keyPrefix = "chat:"

// Store persists session transcripts as redis lists. LPUSH prepends, so
// the stored order is newest first; History reverses on read to honor
// the chronological contract.
type Store struct {
	client *goredis.Client
}

func NewStore(client *goredis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Append(ctx context.Context, sessionID string, msg domain.ChatMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := s.client.LPush(ctx, keyPrefix+sessionID, data).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *Store) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	items, err := s.client.LRange(ctx, keyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}
	msgs := make([]domain.ChatMessage, 0, len(items))
	// LRange walks newest to oldest; iterate backwards for chronological order.
	for i := len(items) - 1; i >= 0; i-- {
		var msg domain.ChatMessage
		if err := json.Unmarshal([]byte(items[i]), &msg); err != nil {
			log.Printf("skipping malformed session entry for %s: %v", sessionID, err)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistenceUnavailable, err)
	}
	return nil
}
