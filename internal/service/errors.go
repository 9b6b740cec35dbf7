package service

import "errors"

var (
	// ErrNotFound covers both unknown identifiers and rows owned by another
	// user. The two cases are indistinguishable on the wire so existence is
	// never leaked.
	ErrNotFound = errors.New("resource not found")

	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrNameTaken          = errors.New("a row with this name already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidImage       = errors.New("invalid image file")
)
