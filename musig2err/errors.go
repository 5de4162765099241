// Package musig2err defines the error taxonomy shared by every package in
// this module (spec §7). The source this module was adapted from kept two
// overlapping error enumerations, one protocol-level and one codec-level;
// this package merges them into the single taxonomy described below so a
// caller never has to know which layer produced a failure.
package musig2err

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap with fmt.Errorf("...: %w", ErrX) at the call site
// when more context is useful; callers can still errors.Is against these.
var (
	// ErrInvalidInput covers malformed base58, wrong-length byte slices,
	// unknown network labels, and invalid blockhash strings.
	ErrInvalidInput = errors.New("musig2: invalid input")

	// ErrInvalidPoint is returned when a 32-byte value does not decode to a
	// valid point on the curve.
	ErrInvalidPoint = errors.New("musig2: invalid point encoding")

	// ErrInvalidScalar is returned when a 32-byte value is not a canonical
	// scalar modulo the group order.
	ErrInvalidScalar = errors.New("musig2: invalid scalar encoding")

	// ErrFocusNotInList is returned by key aggregation when the requested
	// focus key is not byte-identical to any entry in the participant list.
	ErrFocusNotInList = errors.New("musig2: focus key not in participant list")

	// ErrMismatchedNonces is returned by aggregation when partial signatures
	// disagree on the round nonce R.
	ErrMismatchedNonces = errors.New("musig2: partial signatures disagree on round nonce")

	// ErrInvalidAggregatedSignature is returned when the combined signature
	// fails standard Ed25519 verification against the aggregated key.
	ErrInvalidAggregatedSignature = errors.New("musig2: aggregated signature failed verification")

	// ErrRngUnavailable is returned when the OS RNG cannot be read.
	ErrRngUnavailable = errors.New("musig2: system RNG unavailable")

	// ErrTransactionBuildFailure is returned when instruction assembly
	// refuses the supplied inputs.
	ErrTransactionBuildFailure = errors.New("musig2: transaction build failure")
)

// ShortInputError is returned by the wire codec when a decoded payload is
// shorter than the minimum length for its tag.
type ShortInputError struct {
	Tag      byte
	Min      int
	Got      int
}

func (e *ShortInputError) Error() string {
	return fmt.Sprintf("musig2: short input for tag %d: want at least %d bytes, got %d", e.Tag, e.Min, e.Got)
}

// WrongTagError is returned when a decoded envelope's tag byte does not
// match the tag the caller asked to decode.
type WrongTagError struct {
	Expected byte
	Found    byte
}

func (e *WrongTagError) Error() string {
	return fmt.Sprintf("musig2: wrong tag: expected %d, found %d", e.Expected, e.Found)
}

// RpcFailureError wraps a failure from an external RPC collaborator
// (blockhash fetch, account lookup, broadcast, airdrop).
type RpcFailureError struct {
	Kind string
	Err  error
}

func (e *RpcFailureError) Error() string {
	return fmt.Sprintf("musig2: rpc failure (%s): %v", e.Kind, e.Err)
}

func (e *RpcFailureError) Unwrap() error {
	return e.Err
}
