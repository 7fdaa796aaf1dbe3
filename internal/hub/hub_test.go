package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newschat/internal/domain"
)

func receive(t *testing.T, sub *Subscriber) domain.ChatMessage {
	t.Helper()
	select {
	case msg := <-sub.C:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return domain.ChatMessage{}
	}
}

func TestPublishReachesAllSessionSubscribers(t *testing.T) {
	h := New()
	a := h.Subscribe("s1")
	b := h.Subscribe("s1")

	h.Publish("s1", domain.ChatMessage{Content: "hello"})

	assert.Equal(t, "hello", receive(t, a).Content)
	assert.Equal(t, "hello", receive(t, b).Content)
}

func TestPublishIsSessionScoped(t *testing.T) {
	h := New()
	a := h.Subscribe("s1")
	other := h.Subscribe("s2")

	h.Publish("s1", domain.ChatMessage{Content: "for s1"})

	assert.Equal(t, "for s1", receive(t, a).Content)
	select {
	case msg := <-other.C:
		t.Fatalf("unexpected message for s2: %+v", msg)
	default:
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	h := New()
	assert.NotPanics(t, func() {
		h.Publish("nobody", domain.ChatMessage{Content: "lost"})
	})
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := New()
	sub := h.Subscribe("s1")
	h.Unsubscribe(sub)

	_, open := <-sub.C
	assert.False(t, open)

	h.Publish("s1", domain.ChatMessage{Content: "after"})
}

func TestUnsubscribeTwiceIsSafe(t *testing.T) {
	h := New()
	sub := h.Subscribe("s1")
	h.Unsubscribe(sub)
	require.NotPanics(t, func() { h.Unsubscribe(sub) })
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	h := New()
	sub := h.Subscribe("s1")

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			h.Publish("s1", domain.ChatMessage{Content: "flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	h.Unsubscribe(sub)
}
