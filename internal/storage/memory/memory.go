package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/storage"
)

type record struct {
	doc       []byte
	expiresAt time.Time
}

// Storage keeps poll documents as JSON in process memory. Every operation
// holds the lock for its whole read-modify-write, so a patch to one path is
// atomic with respect to patches on any other path.
type Storage struct {
	mu    sync.Mutex
	polls map[string]record
	now   func() time.Time
}

func New() *Storage {
	return &Storage{
		polls: make(map[string]record),
		now:   time.Now,
	}
}

// WithClock replaces the time source; used to exercise expiry.
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.now = now
	return s
}

func (s *Storage) CreatePoll(ctx context.Context, poll entity.Poll, ttl time.Duration) error {
	const op = "storage.memory.CreatePoll"

	doc, err := json.Marshal(poll)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(poll.ID); ok {
		return fmt.Errorf("%s: %w", op, storage.ErrPollAlreadyExists)
	}

	s.polls[poll.ID] = record{doc: doc, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Storage) GetPoll(ctx context.Context, pollID string) (entity.Poll, error) {
	const op = "storage.memory.GetPoll"

	s.mu.Lock()
	rec, ok := s.live(pollID)
	s.mu.Unlock()

	if !ok {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}

	var poll entity.Poll
	if err := json.Unmarshal(rec.doc, &poll); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) PatchPath(ctx context.Context, pollID string, path storage.Path, value any) error {
	const op = "storage.memory.PatchPath"

	if err := path.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.update(pollID, path, func(set map[string]json.RawMessage, key string) {
		set[key] = raw
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) RemovePath(ctx context.Context, pollID string, path storage.Path) error {
	const op = "storage.memory.RemovePath"

	if err := path.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !path.Removable() {
		return fmt.Errorf("%s: %w: %s cannot be removed", op, storage.ErrInvalidPath, path)
	}

	if err := s.update(pollID, path, func(set map[string]json.RawMessage, key string) {
		delete(set, key)
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) DeletePoll(ctx context.Context, pollID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.polls, pollID)
	return nil
}

// PurgeExpired drops documents whose TTL has passed.
func (s *Storage) PurgeExpired(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	now := s.now()
	for id, rec := range s.polls {
		if !now.Before(rec.expiresAt) {
			delete(s.polls, id)
			n++
		}
	}

	return n, nil
}

// update applies fn to the object that holds the last path segment.
func (s *Storage) update(pollID string, path storage.Path, fn func(set map[string]json.RawMessage, key string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.live(pollID)
	if !ok {
		return storage.ErrPollNotFound
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rec.doc, &doc); err != nil {
		return err
	}

	segments := path.Segments()
	if len(segments) == 1 {
		fn(doc, segments[0])
	} else {
		set := map[string]json.RawMessage{}
		if current, ok := doc[segments[0]]; ok && string(current) != "null" {
			if err := json.Unmarshal(current, &set); err != nil {
				return err
			}
		}
		fn(set, segments[1])

		encoded, err := json.Marshal(set)
		if err != nil {
			return err
		}
		doc[segments[0]] = encoded
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	rec.doc = encoded
	s.polls[pollID] = rec
	return nil
}

// live must be called with the lock held.
func (s *Storage) live(pollID string) (record, bool) {
	rec, ok := s.polls[pollID]
	if !ok || !s.now().Before(rec.expiresAt) {
		return record{}, false
	}
	return rec, true
}
