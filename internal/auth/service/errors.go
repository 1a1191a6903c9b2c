package service

import "errors"

var (
	// ErrUnsupportedGrantType is returned for any grant_type other than
	// client_credentials, before the store is consulted.
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")

	// ErrInvalidClient covers an unknown client id, an inactive client and a
	// wrong secret. Callers cannot tell them apart.
	ErrInvalidClient = errors.New("invalid_client")

	ErrClientNotFound = errors.New("client not found")
	ErrClientExists   = errors.New("client already exists")

	// ErrInvalidInput wraps registration validation failures. The wrapped
	// message is safe to return to the caller.
	ErrInvalidInput = errors.New("invalid input")
)
