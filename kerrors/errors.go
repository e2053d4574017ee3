// Package kerrors defines the error taxonomy shared by the secure-aggregation
// engine and its underlying layers (ring arithmetic, sampling, RLWE). Every
// failure surfaced to a caller wraps one of these sentinels so that callers
// can distinguish kinds with errors.Is, regardless of which layer raised it.
package kerrors

import "errors"

var (
	// ErrInvalidArgument signals a parameter out of range: variance too
	// large, a non-positive log_t, a negative stddev, an input size that
	// is not a multiple of N, a plaintext of the wrong length, or
	// mismatched ciphertext counts passed to Aggregate.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParamsMismatch signals that two operands disagree on modulus,
	// ring degree, or NTT tables.
	ErrParamsMismatch = errors.New("ring parameters mismatch")

	// ErrRepresentationMismatch signals a polynomial presented in the
	// wrong representation (coefficient vs. NTT) for the operation.
	ErrRepresentationMismatch = errors.New("representation mismatch")

	// ErrPowerOfSMismatch signals ciphertexts with different power-of-s
	// tags combined by an additive operation.
	ErrPowerOfSMismatch = errors.New("power-of-s mismatch")

	// ErrPRNG signals that the underlying pseudo-random stream failed,
	// or that a seed of the wrong length was supplied.
	ErrPRNG = errors.New("prng error")

	// ErrOverflow signals that a modulus does not fit the chosen
	// integer width.
	ErrOverflow = errors.New("modulus overflows chosen width")
)
