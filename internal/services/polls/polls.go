package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/lib/ids"
	"github.com/14kear/online_voting/polls-service/internal/lib/jwt"
	"github.com/14kear/online_voting/polls-service/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const maxPollIDAttempts = 5

// Polls coordinates every participant action on a poll. It holds no per-poll
// state of its own: the storage's per-path atomic patch is the only
// synchronisation, and every broadcast carries a snapshot read back after
// the write.
type Polls struct {
	log       *slog.Logger
	storage   PollStorage
	rooms     Broadcaster
	tokens    TokenIssuer
	pollTTL   time.Duration
	newPollID func() (string, error)
}

type PollStorage interface {
	CreatePoll(ctx context.Context, poll entity.Poll, ttl time.Duration) error
	GetPoll(ctx context.Context, pollID string) (entity.Poll, error)
	PatchPath(ctx context.Context, pollID string, path storage.Path, value any) error
	RemovePath(ctx context.Context, pollID string, path storage.Path) error
	DeletePoll(ctx context.Context, pollID string) error
}

type Broadcaster interface {
	Broadcast(pollID string, poll entity.Poll)
	BroadcastTermination(pollID string)
	MemberConnections(pollID, participantID string) int
}

type TokenIssuer interface {
	Issue(pollID, userID, name string) (string, error)
	Verify(token string) (jwt.Claims, error)
}

// Session is the identity carried by a verified assertion.
type Session struct {
	PollID string
	UserID string
	Name   string
}

// Ticket is what a caller gets back from create and join: the poll as it is
// now and an assertion to open a connection with.
type Ticket struct {
	Poll        entity.Poll `json:"poll"`
	AccessToken string      `json:"accessToken"`
}

func NewPolls(
	log *slog.Logger,
	storage PollStorage,
	rooms Broadcaster,
	tokens TokenIssuer,
	pollTTL time.Duration,
) *Polls {
	if log == nil {
		log = slog.Default()
	}
	return &Polls{
		log:       log,
		storage:   storage,
		rooms:     rooms,
		tokens:    tokens,
		pollTTL:   pollTTL,
		newPollID: ids.NewPollID,
	}
}

// CreatePoll stores a new poll and issues the admin's assertion. Nothing is
// broadcast: the room only exists once somebody connects.
func (p *Polls) CreatePoll(ctx context.Context, topic string, votesPerVoter int, name string) (Ticket, error) {
	const op = "polls.CreatePoll"

	log := p.log.With(slog.String("op", op))

	if err := validateCreate(op, topic, votesPerVoter, name); err != nil {
		log.Info("invalid poll settings", sl.Err(err))
		return Ticket{}, err
	}

	adminID := ids.NewUserID()

	for attempt := 0; attempt < maxPollIDAttempts; attempt++ {
		pollID, err := p.newPollID()
		if err != nil {
			return Ticket{}, fmt.Errorf("%s: %w", op, err)
		}

		poll := entity.NewPoll(pollID, strings.TrimSpace(topic), votesPerVoter, adminID)

		err = p.storage.CreatePoll(ctx, poll, p.pollTTL)
		if errors.Is(err, storage.ErrPollAlreadyExists) {
			log.Debug("poll id taken, retrying", slog.String("poll_id", pollID))
			continue
		}
		if err != nil {
			log.Error("failed to create poll", sl.Err(err))
			return Ticket{}, storeErr(op, err)
		}

		token, err := p.tokens.Issue(pollID, adminID, strings.TrimSpace(name))
		if err != nil {
			log.Error("failed to issue admin token", sl.Err(err))
			return Ticket{}, fmt.Errorf("%s: %w", op, err)
		}

		log.Info("poll created", slog.String("poll_id", pollID), slog.Duration("ttl", p.pollTTL))
		return Ticket{Poll: poll, AccessToken: token}, nil
	}

	return Ticket{}, fmt.Errorf("%s: %w: no free poll id after %d attempts", op, ErrPersistence, maxPollIDAttempts)
}

// JoinPoll issues an assertion for a new participant. The seat itself is
// written when the participant connects.
func (p *Polls) JoinPoll(ctx context.Context, pollID, name string) (Ticket, error) {
	const op = "polls.JoinPoll"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID))

	if err := validatePollID(op, pollID); err != nil {
		return Ticket{}, err
	}
	if err := validateName(op, name); err != nil {
		return Ticket{}, err
	}

	poll, err := p.storage.GetPoll(ctx, pollID)
	if err != nil {
		log.Info("poll not available", sl.Err(err))
		return Ticket{}, storeErr(op, err)
	}

	if err := poll.Allows(entity.ActionJoin); err != nil {
		return Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	userID := ids.NewUserID()
	token, err := p.tokens.Issue(pollID, userID, strings.TrimSpace(name))
	if err != nil {
		log.Error("failed to issue token", sl.Err(err))
		return Ticket{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("participant token issued", slog.String("user_id", userID))
	return Ticket{Poll: poll, AccessToken: token}, nil
}

// Authenticate verifies an assertion and returns the session it carries.
func (p *Polls) Authenticate(token string) (Session, error) {
	const op = "polls.Authenticate"

	claims, err := p.tokens.Verify(token)
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w: %w", op, ErrUnauthorized, err)
	}

	return Session{PollID: claims.PollID, UserID: claims.UserID, Name: claims.Name}, nil
}

// RejoinPoll re-seats the bearer of a previously issued assertion, e.g. after
// the connection dropped.
func (p *Polls) RejoinPoll(ctx context.Context, token string) (entity.Poll, error) {
	const op = "polls.RejoinPoll"

	sess, err := p.Authenticate(token)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return p.AddParticipant(ctx, sess, sess.PollID)
}

// GetPoll returns the current snapshot to a bearer scoped to the poll.
func (p *Polls) GetPoll(ctx context.Context, sess Session, pollID string) (entity.Poll, error) {
	const op = "polls.GetPoll"

	if err := scope(op, sess, pollID); err != nil {
		return entity.Poll{}, err
	}

	poll, err := p.storage.GetPoll(ctx, pollID)
	if err != nil {
		return entity.Poll{}, storeErr(op, err)
	}

	return poll, nil
}

// load authorizes the session's scope and reads the poll.
func (p *Polls) load(ctx context.Context, op string, sess Session, pollID string) (entity.Poll, error) {
	if err := scope(op, sess, pollID); err != nil {
		return entity.Poll{}, err
	}

	poll, err := p.storage.GetPoll(ctx, pollID)
	if err != nil {
		return entity.Poll{}, storeErr(op, err)
	}

	return poll, nil
}

// commit runs one storage write, reads the poll back and broadcasts exactly
// what was read. Nothing is broadcast if either step fails.
func (p *Polls) commit(ctx context.Context, op, pollID string, write func() error) (entity.Poll, error) {
	if err := write(); err != nil {
		return entity.Poll{}, storeErr(op, err)
	}

	poll, err := p.storage.GetPoll(ctx, pollID)
	if err != nil {
		return entity.Poll{}, storeErr(op, err)
	}

	p.rooms.Broadcast(pollID, poll)
	return poll, nil
}

func (p *Polls) patch(ctx context.Context, op, pollID string, path storage.Path, value any) (entity.Poll, error) {
	return p.commit(ctx, op, pollID, func() error {
		return p.storage.PatchPath(ctx, pollID, path, value)
	})
}

func (p *Polls) remove(ctx context.Context, op, pollID string, path storage.Path) (entity.Poll, error) {
	return p.commit(ctx, op, pollID, func() error {
		return p.storage.RemovePath(ctx, pollID, path)
	})
}
