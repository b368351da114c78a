package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/storage"
	"github.com/lib/pq"
)

// Storage keeps each poll as one JSONB document. Patches are single UPDATE
// statements on one path, so concurrent writers to different paths never
// overwrite each other.
type Storage struct {
	db *sql.DB
}

func New(postgresURL string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", postgresURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreatePoll(ctx context.Context, poll entity.Poll, ttl time.Duration) error {
	const op = "storage.postgres.CreatePoll"

	doc, err := json.Marshal(poll)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// An expired row still holding the id is replaced in place.
	query := `INSERT INTO polls (id, doc, expires_at)
		VALUES ($1, $2::jsonb, now() + make_interval(secs => $3))
		ON CONFLICT (id) DO UPDATE
			SET doc = EXCLUDED.doc, expires_at = EXCLUDED.expires_at
			WHERE polls.expires_at <= now()
		RETURNING id`

	var id string
	err = s.db.QueryRowContext(ctx, query, poll.ID, string(doc), ttl.Seconds()).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, storage.ErrPollAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetPoll(ctx context.Context, pollID string) (entity.Poll, error) {
	const op = "storage.postgres.GetPoll"

	query := `SELECT doc FROM polls WHERE id = $1 AND expires_at > now()`

	var doc []byte
	err := s.db.QueryRowContext(ctx, query, pollID).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Poll{}, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
		}
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	var poll entity.Poll
	if err := json.Unmarshal(doc, &poll); err != nil {
		return entity.Poll{}, fmt.Errorf("%s: decode: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) PatchPath(ctx context.Context, pollID string, path storage.Path, value any) error {
	const op = "storage.postgres.PatchPath"

	if err := path.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE polls SET doc = jsonb_set(doc, $2::text[], $3::jsonb, true)
		WHERE id = $1 AND expires_at > now()`

	res, err := s.db.ExecContext(ctx, query, pollID, pq.Array(path.Segments()), string(raw))
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, path, err)
	}

	return affected(op, res)
}

func (s *Storage) RemovePath(ctx context.Context, pollID string, path storage.Path) error {
	const op = "storage.postgres.RemovePath"

	if err := path.Validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !path.Removable() {
		return fmt.Errorf("%s: %w: %s cannot be removed", op, storage.ErrInvalidPath, path)
	}

	query := `UPDATE polls SET doc = doc #- $2::text[] WHERE id = $1 AND expires_at > now()`

	res, err := s.db.ExecContext(ctx, query, pollID, pq.Array(path.Segments()))
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, path, err)
	}

	return affected(op, res)
}

func (s *Storage) DeletePoll(ctx context.Context, pollID string) error {
	const op = "storage.postgres.DeletePoll"

	query := `DELETE FROM polls WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, pollID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) PurgeExpired(ctx context.Context) (int64, error) {
	const op = "storage.postgres.PurgeExpired"

	query := `DELETE FROM polls WHERE expires_at <= now()`

	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func affected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}
	return nil
}
