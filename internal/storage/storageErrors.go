package storage

import "errors"

var (
	ErrPollNotFound      = errors.New("poll not found")
	ErrPollAlreadyExists = errors.New("poll already exists")
	ErrInvalidPath       = errors.New("invalid document path")
)
