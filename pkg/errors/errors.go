// Package errors provides structured error handling for the shadow tree.
//
// Two classes of failure exist. Operational outcomes (a family that no longer
// resolves in a snapshot, a commit that lost too many races) are ordinary
// error values built on the sentinels below. Contract violations (mutating a
// sealed node, rebuilding a path against the wrong snapshot) are reported
// through Fatal, which panics: a tree that has already lost its immutability
// cannot be trusted further.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNotFound indicates a family with no path in the snapshot.
	KindNotFound
	// KindIllegalMutation indicates a write to a sealed node.
	KindIllegalMutation
	// KindFamilyMismatch indicates an ancestor chain computed against another snapshot.
	KindFamilyMismatch
	// KindLayout indicates a layout engine failure.
	KindLayout
	// KindCommit indicates a failed publication of a new snapshot.
	KindCommit
	// KindConfig indicates invalid configuration or scene input.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not-found"
	case KindIllegalMutation:
		return "illegal-mutation"
	case KindFamilyMismatch:
		return "family-mismatch"
	case KindLayout:
		return "layout"
	case KindCommit:
		return "commit"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound indicates the target family has no path in the snapshot.
	// Callers treat it as "nothing to update".
	ErrNotFound = stderrors.New("family not found in snapshot")

	// ErrIllegalMutation indicates an attempt to mutate a sealed node.
	ErrIllegalMutation = stderrors.New("illegal mutation of sealed node")

	// ErrFamilyMismatch indicates a child slot holds a different family than
	// the node replacing it.
	ErrFamilyMismatch = stderrors.New("family mismatch during path rebuild")

	// ErrCommitConflict indicates a commit kept losing to concurrent commits.
	ErrCommitConflict = stderrors.New("commit conflict")
)

// TreeError describes a recoverable failure in a tree operation.
type TreeError struct {
	// Op is the operation that failed (e.g., "tree.Commit").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Tag is the node tag involved, if any.
	Tag int64
	// Surface is the surface identifier, if applicable.
	Surface string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *TreeError) Error() string {
	if e.Surface != "" {
		return fmt.Sprintf("%s [%s] surface=%s: %v", e.Op, e.Kind, e.Surface, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *TreeError) Unwrap() error {
	return e.Err
}

// InvariantError describes a broken immutability contract. It is only ever
// delivered through Fatal.
type InvariantError struct {
	// Op is the operation that detected the violation (e.g., "shadow.Node.AppendChild").
	Op string
	// Kind is KindIllegalMutation or KindFamilyMismatch.
	Kind ErrorKind
	// Tag is the tag of the offending node.
	Tag int64
	// Detail is a human-readable description.
	Detail string
	// StackTrace contains the call stack at the time of the violation.
	StackTrace string
	// Timestamp is when the violation was detected.
	Timestamp time.Time
}

func (e *InvariantError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s [%s] tag=%d: %s", e.Op, e.Kind, e.Tag, e.Detail)
	}
	return fmt.Sprintf("%s [%s] tag=%d", e.Op, e.Kind, e.Tag)
}

// Is matches the sentinel for the violation kind.
func (e *InvariantError) Is(target error) bool {
	switch e.Kind {
	case KindIllegalMutation:
		return target == ErrIllegalMutation
	case KindFamilyMismatch:
		return target == ErrFamilyMismatch
	}
	return false
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// Is, As and New re-export the standard helpers so callers importing this
// package under its usual name keep access to them.
var (
	Is  = stderrors.Is
	As  = stderrors.As
	New = stderrors.New
)

// Handler receives errors reported by the tree.
type Handler interface {
	// HandleError is called for recoverable failures.
	HandleError(err *TreeError)
	// HandleInvariant is called right before an invariant violation panics.
	HandleInvariant(err *InvariantError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
