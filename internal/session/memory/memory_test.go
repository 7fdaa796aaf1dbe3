package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newschat/internal/domain"
)

func TestHistoryPreservesAppendOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		msg := domain.ChatMessage{
			Role:      domain.RoleUser,
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: fmt.Sprintf("2025-01-01T00:00:0%dZ", i),
		}
		require.NoError(t, s.Append(ctx, "s1", msg))
	}

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 5)
	for i, msg := range history {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.Content)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", domain.ChatMessage{Content: "for a"}))
	require.NoError(t, s.Append(ctx, "b", domain.ChatMessage{Content: "for b"}))

	historyA, err := s.History(ctx, "a")
	require.NoError(t, err)
	require.Len(t, historyA, 1)
	assert.Equal(t, "for a", historyA[0].Content)
}

func TestClearThenHistoryIsEmpty(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", domain.ChatMessage{Content: "hello"}))
	require.NoError(t, s.Clear(ctx, "s1"))

	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryOfUnknownSession(t *testing.T) {
	s := NewStore()

	history, err := s.History(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHistoryReturnsACopy(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "s1", domain.ChatMessage{Content: "original"}))
	history, err := s.History(ctx, "s1")
	require.NoError(t, err)
	history[0].Content = "mutated"

	again, err := s.History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}
