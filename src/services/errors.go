package services

import "errors"

// Sentinel errors for explicit error handling
// These errors allow callers to distinguish between different failure modes
// using errors.Is() instead of string matching

var (
	// ErrInvalidCredentials indicates authentication failed; covers both an
	// unknown identifier and a wrong password so callers cannot tell which
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a unique field (username, email) is already taken
	ErrConflict = errors.New("already exists")

	// ErrDuplicateSubmission indicates an identical submission was received
	// inside the duplicate window
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrRateLimited indicates the sender exceeded the submission quota
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidToken indicates a malformed or wrongly signed session token
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken indicates a session token past its expiry
	ErrExpiredToken = errors.New("token expired")

	// ErrForbidden indicates a valid session with an insufficient role
	ErrForbidden = errors.New("insufficient role")
)
