package storage

import "fmt"

type Field string

const (
	FieldParticipants Field = "participants"
	FieldNominations  Field = "nominations"
	FieldRankings     Field = "rankings"
	FieldIsStarted    Field = "isStarted"
	FieldResults      Field = "results"
)

// Path addresses exactly one independently patchable part of a poll
// document: one entry of a keyed field, or a whole scalar field.
type Path struct {
	Field Field
	Key   string
}

func ParticipantPath(userID string) Path {
	return Path{Field: FieldParticipants, Key: userID}
}

func NominationPath(nominationID string) Path {
	return Path{Field: FieldNominations, Key: nominationID}
}

func RankingPath(userID string) Path {
	return Path{Field: FieldRankings, Key: userID}
}

func IsStartedPath() Path {
	return Path{Field: FieldIsStarted}
}

func ResultsPath() Path {
	return Path{Field: FieldResults}
}

func (p Path) keyed() bool {
	switch p.Field {
	case FieldParticipants, FieldNominations, FieldRankings:
		return true
	}
	return false
}

// Validate rejects paths that don't address exactly one patchable part.
func (p Path) Validate() error {
	switch p.Field {
	case FieldParticipants, FieldNominations, FieldRankings:
		if p.Key == "" {
			return fmt.Errorf("%w: %s requires a key", ErrInvalidPath, p.Field)
		}
	case FieldIsStarted, FieldResults:
		if p.Key != "" {
			return fmt.Errorf("%w: %s takes no key", ErrInvalidPath, p.Field)
		}
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidPath, p.Field)
	}
	return nil
}

// Removable reports whether the path may be deleted from the document.
// Scalar fields can only be overwritten.
func (p Path) Removable() bool {
	return p.keyed()
}

// Segments is the path as a list of JSON object keys.
func (p Path) Segments() []string {
	if p.keyed() {
		return []string{string(p.Field), p.Key}
	}
	return []string{string(p.Field)}
}

func (p Path) String() string {
	if p.keyed() {
		return string(p.Field) + "." + p.Key
	}
	return string(p.Field)
}
