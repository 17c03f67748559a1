package model

import "errors"

var (
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrInvalidWeights         = errors.New("weight table has no positive weight")
	ErrInvalidStake           = errors.New("stake out of bounds")
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrSpinInProgress         = errors.New("spin already in progress for session")
	ErrSessionNotFound        = errors.New("session not found")
	ErrInvalidAmount          = errors.New("amount must be positive")
)
