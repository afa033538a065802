package services

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed or missing input. No side effects have
// run when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports a missing application, lease, draft or payment.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// AuthorizationError reports an actor lacking the role or ownership required
// for an operation. Distinct from InvalidTransitionError.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// InvalidTransitionError reports an illegal status move and always names the
// allowed next states.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid transition from %s to %s: %s is terminal", e.From, e.To, e.From)
	}
	return fmt.Sprintf("invalid transition from %s to %s: allowed next states are %s",
		e.From, e.To, strings.Join(e.Allowed, ", "))
}

// ConflictError reports a duplicate application or a lost concurrent
// transition race.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// DependencyError wraps a persistence failure on the primary mutation path.
// Notification and audit failures are logged and swallowed instead.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}
