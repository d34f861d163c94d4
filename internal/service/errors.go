package service

import "errors"

var (
	// same error for "no such user" and "wrong password"
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUnauthenticated    = errors.New("unauthenticated")
	// same error for "does not exist" and "exists but not yours"
	ErrTaskNotFound = errors.New("task not found")
)
