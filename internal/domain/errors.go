package domain

import "fmt"

// InvalidInputError is raised synchronously, before a model is built,
// when the problem itself is malformed (spec.md §7: InvalidInput).
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// NewInvalidInput wraps a reason string as an *InvalidInputError.
func NewInvalidInput(reason string) error {
	return &InvalidInputError{Reason: reason}
}

// RuleSkipped is a warning, not an error: a malformed or unrecognized
// rule that was dropped during compilation without aborting it.
type RuleSkipped struct {
	RuleID string
	Reason string
}

func (r RuleSkipped) String() string {
	return fmt.Sprintf("rule %s skipped: %s", r.RuleID, r.Reason)
}
