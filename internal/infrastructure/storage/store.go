package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/deepmetric/institute-portal/internal/core/domain"
)

// Store implements the directory, catalog and review repositories on top of
// a KV. Every record is written whole; concurrent writers are last-write-wins.
type Store struct {
	kv  KV
	log zerolog.Logger
}

func NewStore(kv KV, log zerolog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Ping checks that the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

func (s *Store) LoadDirectory(ctx context.Context) (domain.Directory, error) {
	var dir domain.Directory

	data, err := s.get(ctx, KeyUsers)
	if err != nil {
		return dir, err
	}
	if data != nil {
		if dir.Users, err = DecodeUsers(data); err != nil {
			return dir, fmt.Errorf("load users: %w", err)
		}
	}
	if dir.Users == nil {
		dir.Users = []domain.User{}
	}

	data, err = s.get(ctx, KeySession)
	if err != nil {
		return dir, err
	}
	if data != nil {
		if dir.ActiveID, err = DecodeSession(data); err != nil {
			return dir, fmt.Errorf("load session: %w", err)
		}
	}
	return dir, nil
}

func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	data, err := EncodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return s.put(ctx, KeyUsers, data)
}

func (s *Store) SaveActiveUserID(ctx context.Context, id string) error {
	if id == "" {
		if err := s.kv.Delete(ctx, KeySession); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}
	data, err := EncodeSession(id)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.put(ctx, KeySession, data)
}

func (s *Store) LoadCourses(ctx context.Context) ([]domain.Course, bool, error) {
	data, err := s.get(ctx, KeyCourses)
	if err != nil || data == nil {
		return nil, false, err
	}
	courses, err := DecodeCourses(data)
	if err != nil {
		return nil, false, fmt.Errorf("load courses: %w", err)
	}
	return courses, true, nil
}

func (s *Store) SaveCourses(ctx context.Context, courses []domain.Course) error {
	data, err := EncodeCourses(courses)
	if err != nil {
		return fmt.Errorf("encode courses: %w", err)
	}
	return s.put(ctx, KeyCourses, data)
}

func (s *Store) LoadReviews(ctx context.Context) ([]domain.Review, error) {
	data, err := s.get(ctx, KeyReviews)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return []domain.Review{}, nil
	}
	reviews, err := DecodeReviews(data)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return reviews, nil
}

func (s *Store) SaveReviews(ctx context.Context, reviews []domain.Review) error {
	data, err := EncodeReviews(reviews)
	if err != nil {
		return fmt.Errorf("encode reviews: %w", err)
	}
	return s.put(ctx, KeyReviews, data)
}

// get returns nil data without error for an absent key.
func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) put(ctx context.Context, key string, data []byte) error {
	if err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("record persisted")
	return nil
}
