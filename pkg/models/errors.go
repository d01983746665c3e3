package models

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the core wraps exactly one of
// these so callers can tell caller mistakes from provider failures.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpstream     = errors.New("upstream failure")
)

var (
	ErrEmptyHistory           = fmt.Errorf("%w: no messages provided", ErrInvalidInput)
	ErrInvalidRole            = fmt.Errorf("%w: role must be %q or %q", ErrInvalidInput, RoleUser, RoleModel)
	ErrModelNotSupported      = fmt.Errorf("%w: model not supported", ErrInvalidInput)
	ErrProviderNotImplemented = fmt.Errorf("%w: provider not implemented", ErrInvalidInput)
	ErrUnknownCurrency        = fmt.Errorf("%w: currency not configured", ErrInvalidInput)
	ErrNegativeTokens         = fmt.Errorf("%w: token counts must not be negative", ErrInvalidInput)
	ErrEmptyResponse          = fmt.Errorf("%w: generation failed, the model returned an empty response", ErrUpstream)
)

// UpstreamError marks err as a failure talking to the provider.
func UpstreamError(err error) error {
	return fmt.Errorf("%w: communicating with provider: %w", ErrUpstream, err)
}
