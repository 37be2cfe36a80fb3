package domain

import "errors"

var (
	ErrValidation    = errors.New("invalid input")
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidPollID = errors.New("invalid poll id")
	ErrInvalidOption = errors.New("invalid option for this poll")
	ErrPollClosed    = errors.New("poll is closed")
	ErrGuildNotFound = errors.New("guild not found")
)
