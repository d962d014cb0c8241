package entity

import "errors"

var (
	// ErrInvalidAddress is returned when an address fails chain-specific format validation.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrUnsupportedNetwork is returned for wallets on a network the tracker cannot value.
	ErrUnsupportedNetwork = errors.New("unsupported network")

	ErrNotFound = errors.New("not found")

	ErrAlreadyExists = errors.New("already exists")

	// ErrForbidden is returned when a wallet exists but belongs to another user.
	ErrForbidden = errors.New("forbidden")

	// ErrExternalService marks a failed call to the chain RPC or another required upstream.
	ErrExternalService = errors.New("external service failure")
)
