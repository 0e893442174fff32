package model

import "errors"

// Common errors used across the application
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")

	// Game errors
	ErrGameNotFound = errors.New("game not found")
	ErrNotYourTurn  = errors.New("not this player's turn")

	// Auth errors
	ErrAuthRequired = errors.New("authentication required")

	// Input errors
	ErrInvalidArgument = errors.New("invalid argument")
)
