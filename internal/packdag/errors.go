package packdag

import "fmt"

// BuildError represents a fatal defect in the pack collection fed to the
// graph. These are caller bugs, not analysis outcomes: the seeder,
// extender, and merger never produce a collection that trips them.
type BuildError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Pack is the debug rendering of the offending pack, if any.
	Pack string
}

// ErrorCode categorizes build errors.
type ErrorCode string

const (
	// ErrCodeLaneConflict indicates an instruction already owned by
	// another node was added again.
	ErrCodeLaneConflict ErrorCode = "lane_conflict"

	// ErrCodeSelfCycle indicates a pack was computed to be its own
	// producer outside the store self-operand idiom.
	ErrCodeSelfCycle ErrorCode = "self_cycle"

	// ErrCodeUnknownKind wraps pack-type inference failure.
	ErrCodeUnknownKind ErrorCode = "unknown_kind"
)

func (e *BuildError) Error() string {
	if e.Pack != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, e.Pack)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is a *BuildError with the given code.
func IsCode(err error, code ErrorCode) bool {
	be, ok := err.(*BuildError)
	return ok && be.Code == code
}
