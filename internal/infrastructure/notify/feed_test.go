package notify

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

func TestFeed_VisibilityAndExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := NewFeed(6 * time.Second)
	f.now = func() time.Time { return now }

	f.Notify(domain.Notification{ID: "n1", Audience: "u1", Message: "Welcome back, Ama!"})
	f.Notify(domain.Notification{ID: "n2", Audience: domain.AudienceAdmins, Message: "Approved completion for Ama"})
	f.Notify(domain.Notification{ID: "n3", Audience: "u2", Message: "Welcome back, Kofi!"})
	f.Notify(domain.Notification{ID: "n4", Message: "Maintenance tonight"})

	ids := func(ns []domain.Notification) []string {
		out := []string{}
		for _, n := range ns {
			out = append(out, n.ID)
		}
		return out
	}
	assert.Equal(t, []string{"n1", "n4"}, ids(f.List("u1", domain.RoleStudent)))
	assert.Equal(t, []string{"n2", "n3", "n4"}, ids(f.List("u2", domain.RoleAdmin)))

	now = now.Add(6 * time.Second)
	assert.Empty(t, f.List("u1", domain.RoleStudent), "notifications auto-dismiss after the ttl")
}

func TestFeed_Dismiss(t *testing.T) {
	f := NewFeed(time.Minute)
	f.Notify(domain.Notification{ID: "n1", Audience: "u1"})

	assert.False(t, f.Dismiss("u2", domain.RoleStudent, "n1"), "others cannot dismiss")
	assert.True(t, f.Dismiss("u1", domain.RoleStudent, "n1"))
	assert.False(t, f.Dismiss("u1", domain.RoleStudent, "n1"))
	assert.Empty(t, f.List("u1", domain.RoleStudent))
}

func TestFeed_BoundedSize(t *testing.T) {
	f := NewFeed(time.Minute)
	for i := 0; i < maxFeedSize+5; i++ {
		f.Notify(domain.Notification{})
	}

	assert.Len(t, f.List("", domain.RoleStudent), maxFeedSize)
}

func TestLogSink_EmailSimulation(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	sink.Notify(domain.Notification{
		Category: domain.CategoryEmail,
		Email:    &domain.Email{To: "ama@x.com", Subject: "Certificate Generated", Body: "Dear Ama"},
	})

	out := buf.String()
	require.Contains(t, out, `"message":"email simulation"`)
	assert.Contains(t, out, `"to":"ama@x.com"`)
	assert.Contains(t, out, `"subject":"Certificate Generated"`)
}
