package polls

import (
	"errors"
	"fmt"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/14kear/online_voting/polls-service/internal/storage"
)

// Callers branch on these with errors.Is; messages are for humans only.
var (
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAdminRequired = fmt.Errorf("%w: admin privileges required", ErrUnauthorized)
	ErrStateConflict = entity.ErrStateConflict
	ErrPollEnded     = errors.New("poll ended")
	ErrPersistence   = errors.New("persistence failure")
)

// storeErr maps a storage failure into the service error kinds.
func storeErr(op string, err error) error {
	if errors.Is(err, storage.ErrPollNotFound) {
		return fmt.Errorf("%s: %w", op, ErrPollEnded)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func validationErr(op, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, ErrValidation, fmt.Sprintf(format, args...))
}
