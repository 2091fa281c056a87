package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

func newTestStore() (*Store, *MemoryKV) {
	kv := NewMemoryKV()
	return NewStore(kv, zerolog.Nop()), kv
}

func TestStore_EmptyDirectory(t *testing.T) {
	s, _ := newTestStore()

	dir, err := s.LoadDirectory(context.Background())
	require.NoError(t, err)

	assert.Empty(t, dir.Users)
	assert.NotNil(t, dir.Users)
	assert.Empty(t, dir.ActiveID)
}

func TestStore_DirectoryAndSession(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()
	u := domain.NewUser("u1", "Ama", "ama@x.com", domain.RoleStudent)

	require.NoError(t, s.SaveUsers(ctx, []domain.User{u}))
	require.NoError(t, s.SaveActiveUserID(ctx, "u1"))

	dir, err := s.LoadDirectory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.User{u}, dir.Users)
	active, ok := dir.Active()
	require.True(t, ok)
	assert.Equal(t, u, active)

	require.NoError(t, s.SaveActiveUserID(ctx, ""))
	dir, err = s.LoadDirectory(ctx)
	require.NoError(t, err)
	_, ok = dir.Active()
	assert.False(t, ok)
	assert.Len(t, dir.Users, 1, "logout leaves the directory untouched")
}

func TestStore_MigratesLegacyRecordsOnLoad(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore()
	require.NoError(t, kv.Put(ctx, KeyUsers, []byte(`[{"id":"u1","name":"Ama","email":"ama@x.com"}]`)))
	require.NoError(t, kv.Put(ctx, KeySession, []byte(`{"id":"u1","name":"Ama","email":"ama@x.com"}`)))

	dir, err := s.LoadDirectory(ctx)
	require.NoError(t, err)

	active, ok := dir.Active()
	require.True(t, ok)
	assert.Equal(t, domain.RoleStudent, active.Role)
	assert.Empty(t, active.RegisteredCourseIDs)
}

func TestStore_Courses(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	_, ok, err := s.LoadCourses(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SaveCourses(ctx, []domain.Course{}))
	courses, ok, err := s.LoadCourses(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "an empty stored catalog is still a stored catalog")
	assert.Empty(t, courses)
}

func TestStore_Reviews(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	reviews, err := s.LoadReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	r := domain.Review{ID: "r1", CourseID: "c1", UserID: "u1", UserName: "Ama", Rating: 5}
	require.NoError(t, s.SaveReviews(ctx, []domain.Review{r}))

	reviews, err = s.LoadReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "r1", reviews[0].ID)
}
