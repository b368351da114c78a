package ids

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	pollIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	PollIDLength   = 6
	nominationLen  = 8
)

// NewPollID returns a 6-character code people can type in to join.
func NewPollID() (string, error) {
	var b strings.Builder
	b.Grow(PollIDLength)

	size := big.NewInt(int64(len(pollIDAlphabet)))
	for i := 0; i < PollIDLength; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b.WriteByte(pollIDAlphabet[n.Int64()])
	}

	return b.String(), nil
}

func IsPollID(s string) bool {
	if len(s) != PollIDLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(pollIDAlphabet, r) {
			return false
		}
	}
	return true
}

func NewUserID() string {
	return uuid.NewString()
}

// NewNominationID only has to be unique within one poll.
func NewNominationID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:nominationLen]
}
