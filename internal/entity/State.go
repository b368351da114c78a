package entity

import (
	"errors"
	"fmt"
)

type PollState string

const (
	PollStateNominating PollState = "nominating"
	PollStateVoting     PollState = "voting"
	PollStateClosed     PollState = "closed"
	// PollStateCancelled is never stored: a cancelled poll is deleted.
	PollStateCancelled PollState = "cancelled"
)

func (s PollState) IsTerminal() bool {
	return s == PollStateClosed || s == PollStateCancelled
}

type Action string

const (
	ActionJoin              Action = "join"
	ActionReconnect         Action = "reconnect"
	ActionLeave             Action = "leave"
	ActionRemoveParticipant Action = "remove_participant"
	ActionNominate          Action = "nominate"
	ActionRemoveNomination  Action = "remove_nomination"
	ActionStart             Action = "start_vote"
	ActionSubmitRankings    Action = "submit_rankings"
	ActionClose             Action = "close_poll"
	ActionCancel            Action = "cancel_poll"
)

var ErrStateConflict = errors.New("action not allowed in current poll state")

// allowedStates lists, per action, the states in which it may be applied.
var allowedStates = map[Action][]PollState{
	ActionJoin:              {PollStateNominating},
	ActionReconnect:         {PollStateNominating, PollStateVoting},
	ActionLeave:             {PollStateNominating},
	ActionRemoveParticipant: {PollStateNominating, PollStateVoting, PollStateClosed},
	ActionNominate:          {PollStateNominating},
	ActionRemoveNomination:  {PollStateNominating},
	ActionStart:             {PollStateNominating},
	ActionSubmitRankings:    {PollStateVoting},
	ActionClose:             {PollStateVoting},
	ActionCancel:            {PollStateNominating, PollStateVoting},
}

// State derives the lifecycle state from the stored document.
func (p Poll) State() PollState {
	switch {
	case len(p.Results) > 0:
		return PollStateClosed
	case p.IsStarted:
		return PollStateVoting
	default:
		return PollStateNominating
	}
}

// Allows reports whether action is legal for the poll's current state.
// The returned error wraps ErrStateConflict and names the required state.
func (p Poll) Allows(action Action) error {
	states, ok := allowedStates[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", ErrStateConflict, action)
	}

	current := p.State()
	for _, s := range states {
		if s == current {
			return nil
		}
	}

	return fmt.Errorf("%w: %s requires poll to be %s, poll is %s",
		ErrStateConflict, action, joinStates(states), current)
}

func joinStates(states []PollState) string {
	out := ""
	for i, s := range states {
		if i > 0 {
			out += " or "
		}
		out += string(s)
	}
	return out
}
