package service

import "errors"

// Business errors returned by the services. Handlers map these onto HTTP
// status codes; the wire message stays generic while logs and the audit
// trail keep the distinguishable kind.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCharacterNotFound    = errors.New("character not found")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username already exists")
	ErrInvalidRealm         = errors.New("invalid realm")
	ErrInvalidPortrait      = errors.New("invalid portrait image")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInternalServer       = errors.New("internal server error")
)
