package service

import "errors"

// ErrExamNotFound indicates an exam could not be located.
var ErrExamNotFound = errors.New("exam not found")

// ErrResultNotFound indicates a result could not be located.
var ErrResultNotFound = errors.New("result not found")

// ErrInvalidExamKey indicates no exam matches the supplied key.
var ErrInvalidExamKey = errors.New("invalid exam key")

// ErrValidationFailed indicates malformed exam authoring input; wrapping
// errors carry the human-readable detail.
var ErrValidationFailed = errors.New("exam validation failed")

// ErrEmailTaken indicates a registration with an already used email.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials indicates a failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound indicates the principal's account no longer exists.
var ErrUserNotFound = errors.New("user not found")
