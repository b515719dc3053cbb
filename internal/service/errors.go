package service

import "errors"

var (
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	// ErrForbidden covers both a missing transaction and one owned by
	// another user.
	ErrForbidden = errors.New("forbidden")
)
