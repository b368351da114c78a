package polls

import (
	"strings"
	"unicode/utf8"

	"github.com/14kear/online_voting/polls-service/internal/lib/ids"
)

const (
	MinTopicLen      = 1
	MaxTopicLen      = 100
	MinVotesPerVoter = 1
	MaxVotesPerVoter = 5
	MinNameLen       = 1
	MaxNameLen       = 25
	MinNominationLen = 1
	MaxNominationLen = 25
)

func validateCreate(op, topic string, votesPerVoter int, name string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(topic)); n < MinTopicLen || n > MaxTopicLen {
		return validationErr(op, "topic must be %d-%d characters", MinTopicLen, MaxTopicLen)
	}
	if votesPerVoter < MinVotesPerVoter || votesPerVoter > MaxVotesPerVoter {
		return validationErr(op, "votesPerVoter must be between %d and %d", MinVotesPerVoter, MaxVotesPerVoter)
	}
	return validateName(op, name)
}

func validateName(op, name string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(name)); n < MinNameLen || n > MaxNameLen {
		return validationErr(op, "name must be %d-%d characters", MinNameLen, MaxNameLen)
	}
	return nil
}

func validatePollID(op, pollID string) error {
	if !ids.IsPollID(pollID) {
		return validationErr(op, "poll id must be %d characters of 0-9A-Z", ids.PollIDLength)
	}
	return nil
}

func validateNomination(op, text string) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(text)); n < MinNominationLen || n > MaxNominationLen {
		return validationErr(op, "nomination must be %d-%d characters", MinNominationLen, MaxNominationLen)
	}
	return nil
}

// validateBallotShape checks what can be checked without the poll.
func validateBallotShape(op string, rankings []string) error {
	if len(rankings) > MaxVotesPerVoter {
		return validationErr(op, "at most %d choices allowed", MaxVotesPerVoter)
	}

	seen := make(map[string]struct{}, len(rankings))
	for _, id := range rankings {
		if id == "" {
			return validationErr(op, "empty nomination id in rankings")
		}
		if _, dup := seen[id]; dup {
			return validationErr(op, "nomination %s ranked twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
