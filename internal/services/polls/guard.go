package polls

import (
	"fmt"

	"github.com/14kear/online_voting/polls-service/internal/entity"
)

type capability int

const (
	// capSession: any verified assertion scoped to the poll.
	capSession capability = iota
	// capMember: the bearer currently holds a seat in the poll.
	capMember
	capAdmin
)

var requiredCapability = map[entity.Action]capability{
	entity.ActionJoin:              capSession,
	entity.ActionReconnect:         capSession,
	entity.ActionLeave:             capSession,
	entity.ActionRemoveParticipant: capAdmin,
	entity.ActionNominate:          capMember,
	entity.ActionRemoveNomination:  capAdmin,
	entity.ActionStart:             capAdmin,
	entity.ActionSubmitRankings:    capMember,
	entity.ActionClose:             capAdmin,
	entity.ActionCancel:            capAdmin,
}

// scope rejects a session presented against a poll it wasn't issued for.
// It runs before the poll is read.
func scope(op string, sess Session, pollID string) error {
	if sess.UserID == "" || sess.PollID == "" {
		return fmt.Errorf("%s: %w: empty session", op, ErrUnauthorized)
	}
	if sess.PollID != pollID {
		return fmt.Errorf("%s: %w: session is for poll %s, not %s", op, ErrUnauthorized, sess.PollID, pollID)
	}
	return nil
}

// guard checks the capability the action needs, then the state machine.
func guard(op string, sess Session, poll entity.Poll, action entity.Action) error {
	switch requiredCapability[action] {
	case capAdmin:
		if !poll.IsAdmin(sess.UserID) {
			return fmt.Errorf("%s: %w", op, ErrAdminRequired)
		}
	case capMember:
		if !poll.HasParticipant(sess.UserID) {
			return fmt.Errorf("%s: %w: not a participant of poll %s", op, ErrUnauthorized, poll.ID)
		}
	}

	if err := poll.Allows(action); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
