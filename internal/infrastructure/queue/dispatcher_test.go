package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

type collectingSink struct {
	mu   sync.Mutex
	got  []domain.Notification
	done chan struct{}
	want int
}

func newCollectingSink(want int) *collectingSink {
	return &collectingSink{done: make(chan struct{}), want: want}
}

func (s *collectingSink) Notify(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	if len(s.got) == s.want {
		close(s.done)
	}
}

func (s *collectingSink) wait(t *testing.T) []domain.Notification {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notifications")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification(nil), s.got...)
}

func TestDispatcher_DeliversToEverySinkInAudienceOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const perUser = 20
	users := []string{"u1", "u2", "u3"}
	a := newCollectingSink(perUser * len(users))
	b := newCollectingSink(perUser * len(users))
	d := NewDispatcher(2, zerolog.Nop(), a, b)
	d.Start(ctx)

	for i := 0; i < perUser; i++ {
		for _, u := range users {
			d.Notify(domain.Notification{Audience: u, Message: fmt.Sprintf("%s-%d", u, i)})
		}
	}

	for _, sink := range []*collectingSink{a, b} {
		got := sink.wait(t)
		require.Len(t, got, perUser*len(users))

		next := map[string]int{}
		for _, n := range got {
			assert.Equal(t, fmt.Sprintf("%s-%d", n.Audience, next[n.Audience]), n.Message)
			next[n.Audience]++
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, zerolog.Nop())

	first := d.shardIndex("u1")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("u1"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, zerolog.Nop())

	for i := 0; i < channelBuffer+10; i++ {
		d.Notify(domain.Notification{Audience: "u1"})
	}

	assert.Len(t, d.workers[0], channelBuffer)
}
