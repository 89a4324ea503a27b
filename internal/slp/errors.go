package slp

import "fmt"

// AnalysisError represents an invariant violation detected during pack
// analysis. Failures to pack are not errors - they just shrink the pack
// set. AnalysisError is reserved for states the producer must never feed
// us (unknown instruction kinds) and for internal invariants (seed chains).
type AnalysisError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Pack is the debug rendering of the offending pack, if any.
	Pack string
}

// ErrorCode categorizes analysis errors.
type ErrorCode string

const (
	// ErrCodeUnknownKind indicates pack-type inference saw an instruction
	// whose opcode maps to no pack kind.
	ErrCodeUnknownKind ErrorCode = "unknown_kind"

	// ErrCodeSeedChain indicates the merger found a seed pack whose
	// continuation is not itself a seed pack. Seed packs are only produced
	// by the seeder and only chain with other seeds.
	ErrCodeSeedChain ErrorCode = "seed_chain"
)

func (e *AnalysisError) Error() string {
	if e.Pack != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Pack)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an *AnalysisError with the given code.
func IsCode(err error, code ErrorCode) bool {
	ae, ok := err.(*AnalysisError)
	return ok && ae.Code == code
}
