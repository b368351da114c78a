package polls

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/lib/ids"
	"github.com/14kear/online_voting/polls-service/internal/lib/tally"
	"github.com/14kear/online_voting/polls-service/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const maxNominationIDAttempts = 5

// AddParticipant seats the session's participant, called when a connection
// opens. While voting, only a participant who still holds a seat may
// reconnect.
func (p *Polls) AddParticipant(ctx context.Context, sess Session, pollID string) (entity.Poll, error) {
	const op = "polls.AddParticipant"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID), slog.String("user_id", sess.UserID))

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		log.Info("cannot add participant", sl.Err(err))
		return entity.Poll{}, err
	}

	action := entity.ActionJoin
	if poll.HasParticipant(sess.UserID) {
		action = entity.ActionReconnect
	}
	if err := guard(op, sess, poll, action); err != nil {
		log.Info("participant rejected", sl.Err(err))
		return entity.Poll{}, err
	}

	updated, err := p.patch(ctx, op, pollID, storage.ParticipantPath(sess.UserID), sess.Name)
	if err != nil {
		log.Error("failed to add participant", sl.Err(err))
		return entity.Poll{}, err
	}

	log.Info("participant added", slog.Int("participants", len(updated.Participants)))
	return updated, nil
}

// Disconnect is called when one of the participant's connections closes.
// The seat is only given up while nominations are open, never for the admin,
// and not while the participant still has another connection to the room.
// It returns false when nothing changed.
func (p *Polls) Disconnect(ctx context.Context, sess Session, pollID string) (bool, error) {
	const op = "polls.Disconnect"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID), slog.String("user_id", sess.UserID))

	if p.rooms.MemberConnections(pollID, sess.UserID) > 0 {
		return false, nil
	}

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		if isPollEnded(err) {
			return false, nil
		}
		return false, err
	}

	if poll.IsAdmin(sess.UserID) || !poll.HasParticipant(sess.UserID) {
		return false, nil
	}
	if err := poll.Allows(entity.ActionLeave); err != nil {
		log.Debug("seat kept", slog.String("state", string(poll.State())))
		return false, nil
	}

	if _, err := p.remove(ctx, op, pollID, storage.ParticipantPath(sess.UserID)); err != nil {
		if isPollEnded(err) {
			return false, nil
		}
		log.Error("failed to remove participant", sl.Err(err))
		return false, err
	}

	// A new connection may have joined the room and been seated between the
	// first check and the removal.
	if p.rooms.MemberConnections(pollID, sess.UserID) > 0 {
		if _, err := p.patch(ctx, op, pollID, storage.ParticipantPath(sess.UserID), sess.Name); err != nil {
			if isPollEnded(err) {
				return false, nil
			}
			log.Error("failed to restore seat", sl.Err(err))
			return false, err
		}
		log.Info("participant reconnected while leaving, seat restored")
		return false, nil
	}

	log.Info("participant left")
	return true, nil
}

// RemoveParticipant lets the admin drop a seat in any state. A ranking
// already submitted by that participant stays in the tally input.
func (p *Polls) RemoveParticipant(ctx context.Context, sess Session, pollID, targetID string) (entity.Poll, error) {
	const op = "polls.RemoveParticipant"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID), slog.String("target_id", targetID))

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		return entity.Poll{}, err
	}
	if err := guard(op, sess, poll, entity.ActionRemoveParticipant); err != nil {
		log.Info("remove participant rejected", sl.Err(err))
		return entity.Poll{}, err
	}

	if poll.IsAdmin(targetID) {
		return entity.Poll{}, validationErr(op, "the admin cannot be removed")
	}
	if !poll.HasParticipant(targetID) {
		return entity.Poll{}, validationErr(op, "participant %s not found", targetID)
	}

	updated, err := p.remove(ctx, op, pollID, storage.ParticipantPath(targetID))
	if err != nil {
		log.Error("failed to remove participant", sl.Err(err))
		return entity.Poll{}, err
	}

	log.Info("participant removed")
	return updated, nil
}

func (p *Polls) Nominate(ctx context.Context, sess Session, pollID, text string) (entity.Poll, error) {
	const op = "polls.Nominate"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID), slog.String("user_id", sess.UserID))

	if err := validateNomination(op, text); err != nil {
		return entity.Poll{}, err
	}

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		return entity.Poll{}, err
	}
	if err := guard(op, sess, poll, entity.ActionNominate); err != nil {
		log.Info("nomination rejected", sl.Err(err))
		return entity.Poll{}, err
	}

	nominationID := ids.NewNominationID()
	for attempt := 1; attempt < maxNominationIDAttempts; attempt++ {
		if _, taken := poll.Nominations[nominationID]; !taken {
			break
		}
		nominationID = ids.NewNominationID()
	}

	nomination := entity.Nomination{UserID: sess.UserID, Text: strings.TrimSpace(text)}

	updated, err := p.patch(ctx, op, pollID, storage.NominationPath(nominationID), nomination)
	if err != nil {
		log.Error("failed to add nomination", sl.Err(err))
		return entity.Poll{}, err
	}

	log.Info("nomination added", slog.String("nomination_id", nominationID))
	return updated, nil
}

func (p *Polls) RemoveNomination(ctx context.Context, sess Session, pollID, nominationID string) (entity.Poll, error) {
	const op = "polls.RemoveNomination"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID), slog.String("nomination_id", nominationID))

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		return entity.Poll{}, err
	}
	if err := guard(op, sess, poll, entity.ActionRemoveNomination); err != nil {
		log.Info("remove nomination rejected", sl.Err(err))
		return entity.Poll{}, err
	}

	if _, ok := poll.Nominations[nominationID]; !ok {
		return entity.Poll{}, validationErr(op, "nomination %s not found", nominationID)
	}

	updated, err := p.remove(ctx, op, pollID, storage.NominationPath(nominationID))
	if err != nil {
		log.Error("failed to remove nomination", sl.Err(err))
		return entity.Poll{}, err
	}

	log.Info("nomination removed")
	return updated, nil
}

// StartPoll closes nominations and opens voting. Zero nominations is allowed.
func (p *Polls) StartPoll(ctx context.Context, sess Session, pollID string) (entity.Poll, error) {
	const op = "polls.StartPoll"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID))

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		return entity.Poll{}, err
	}
	if err := guard(op, sess, poll, entity.ActionStart); err != nil {
		log.Info("start rejected", sl.Err(err))
		return entity.Poll{}, err
	}

	updated, err := p.patch(ctx, op, pollID, storage.IsStartedPath(), true)
	if err != nil {
		log.Error("failed to start poll", sl.Err(err))
		return entity.Poll{}, err
	}

	log.Info("voting started", slog.Int("nominations", len(updated.Nominations)))
	return updated, nil
}

// SubmitRankings replaces the participant's ballot.
func (p *Polls) SubmitRankings(ctx context.Context, sess Session, pollID string, rankings []string) (entity.Poll, error) {
	const op = "polls.SubmitRankings"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID), slog.String("user_id", sess.UserID))

	if err := validateBallotShape(op, rankings); err != nil {
		return entity.Poll{}, err
	}

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		return entity.Poll{}, err
	}
	if err := guard(op, sess, poll, entity.ActionSubmitRankings); err != nil {
		log.Info("rankings rejected", sl.Err(err))
		return entity.Poll{}, err
	}

	if len(rankings) > poll.VotesPerVoter {
		return entity.Poll{}, validationErr(op, "at most %d choices allowed in this poll", poll.VotesPerVoter)
	}
	for _, id := range rankings {
		if _, ok := poll.Nominations[id]; !ok {
			return entity.Poll{}, validationErr(op, "nomination %s not found", id)
		}
	}

	ballot := append([]string{}, rankings...)

	updated, err := p.patch(ctx, op, pollID, storage.RankingPath(sess.UserID), ballot)
	if err != nil {
		log.Error("failed to store rankings", sl.Err(err))
		return entity.Poll{}, err
	}

	log.Info("rankings submitted", slog.Int("choices", len(ballot)))
	return updated, nil
}

// ClosePoll tallies whatever rankings are stored right now and publishes the
// results. A poll that already has results is rejected rather than re-tallied.
func (p *Polls) ClosePoll(ctx context.Context, sess Session, pollID string) (entity.Poll, error) {
	const op = "polls.ClosePoll"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID))

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		return entity.Poll{}, err
	}
	if err := guard(op, sess, poll, entity.ActionClose); err != nil {
		log.Info("close rejected", sl.Err(err))
		return entity.Poll{}, err
	}

	results := tally.Results(poll.Rankings, poll.Nominations, poll.VotesPerVoter)
	if len(results) == 0 {
		// Nothing was nominated. Record one empty round so the poll reads as closed.
		results = []entity.RoundResult{{Votes: map[string]int{}}}
	}

	updated, err := p.patch(ctx, op, pollID, storage.ResultsPath(), results)
	if err != nil {
		log.Error("failed to store results", sl.Err(err))
		return entity.Poll{}, err
	}

	log.Info("poll closed",
		slog.Int("rounds", len(results)),
		slog.String("winner", results[len(results)-1].Winner),
	)
	return updated, nil
}

// CancelPoll deletes the poll and tells the room it is gone.
func (p *Polls) CancelPoll(ctx context.Context, sess Session, pollID string) error {
	const op = "polls.CancelPoll"

	log := p.log.With(slog.String("op", op), slog.String("poll_id", pollID))

	poll, err := p.load(ctx, op, sess, pollID)
	if err != nil {
		return err
	}
	if err := guard(op, sess, poll, entity.ActionCancel); err != nil {
		log.Info("cancel rejected", sl.Err(err))
		return err
	}

	if err := p.storage.DeletePoll(ctx, pollID); err != nil {
		log.Error("failed to delete poll", sl.Err(err))
		return storeErr(op, err)
	}

	p.rooms.BroadcastTermination(pollID)

	log.Info("poll cancelled")
	return nil
}

func isPollEnded(err error) bool {
	return errors.Is(err, ErrPollEnded)
}
