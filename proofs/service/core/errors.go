package core

import "errors"

// Standard errors for the proof service. The HTTP layer maps these to status
// codes with errors.Is, so new failure classes get a sentinel here.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrConfigurationMissing = errors.New("no issuing identity configured")
	ErrInsufficientFunds    = errors.New("issuer balance below safety threshold")
	ErrNotFound             = errors.New("transaction not found")
	ErrNoProofData          = errors.New("transaction carries no proof data")
	ErrUpstreamFailure      = errors.New("ledger request failed")
)
