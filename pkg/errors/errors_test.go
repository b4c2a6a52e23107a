package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTreeErrorString(t *testing.T) {
	err := &TreeError{
		Op:   "tree.Commit",
		Kind: KindCommit,
		Err:  ErrCommitConflict,
	}
	want := "tree.Commit [commit]: commit conflict"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTreeErrorWithSurface(t *testing.T) {
	err := &TreeError{
		Op:      "tree.Commit",
		Kind:    KindNotFound,
		Surface: "main",
		Err:     ErrNotFound,
	}
	if got := err.Error(); !strings.Contains(got, "surface=main") {
		t.Errorf("error string %q should contain surface", got)
	}
	if !Is(err, ErrNotFound) {
		t.Error("TreeError should unwrap to ErrNotFound")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindNotFound, "not-found"},
		{KindIllegalMutation, "illegal-mutation"},
		{KindFamilyMismatch, "family-mismatch"},
		{KindLayout, "layout"},
		{KindCommit, "commit"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestInvariantErrorIs(t *testing.T) {
	mut := &InvariantError{Op: "shadow.Node.AppendChild", Kind: KindIllegalMutation, Tag: 7}
	if !Is(mut, ErrIllegalMutation) {
		t.Error("illegal mutation should match ErrIllegalMutation")
	}
	if Is(mut, ErrFamilyMismatch) {
		t.Error("illegal mutation should not match ErrFamilyMismatch")
	}

	wrapped := fmt.Errorf("outer: %w", &InvariantError{Kind: KindFamilyMismatch})
	if !Is(wrapped, ErrFamilyMismatch) {
		t.Error("wrapped family mismatch should match ErrFamilyMismatch")
	}
}

func TestFatalReportsThenPanics(t *testing.T) {
	var captured *InvariantError
	handler := &testHandler{
		onInvariant: func(err *InvariantError) {
			captured = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		Fatal(&InvariantError{Op: "test.fatal", Kind: KindIllegalMutation, Tag: 3})
	}()

	if captured == nil {
		t.Fatal("expected handler to see the violation")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
	if captured.StackTrace == "" {
		t.Error("expected StackTrace to be captured")
	}
	inv, ok := recovered.(*InvariantError)
	if !ok {
		t.Fatalf("panic value = %T, want *InvariantError", recovered)
	}
	if inv != captured {
		t.Error("panic value should be the reported error")
	}
}

func TestReport(t *testing.T) {
	var capturedErr *TreeError
	handler := &testHandler{
		onError: func(err *TreeError) {
			capturedErr = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	Report(&TreeError{
		Op:   "test.op",
		Kind: KindConfig,
		Err:  New("bad scene"),
	})

	if capturedErr == nil {
		t.Fatal("expected error to be captured")
	}
	if capturedErr.Op != "test.op" {
		t.Errorf("Op = %q, want %q", capturedErr.Op, "test.op")
	}
	if capturedErr.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var capturedPanic *PanicError
	handler := &testHandler{
		onPanic: func(err *PanicError) {
			capturedPanic = err
		},
	}

	oldHandler := DefaultHandler
	SetHandler(handler)
	defer SetHandler(oldHandler)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if capturedPanic == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if capturedPanic.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", capturedPanic.Value, "intentional test panic")
	}
	if capturedPanic.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", capturedPanic.Op, "test.recover")
	}
}

func TestRecoverTo(t *testing.T) {
	reported := 0
	oldHandler := DefaultHandler
	SetHandler(&testHandler{onPanic: func(*PanicError) { reported++ }})
	defer SetHandler(oldHandler)

	run := func() (err error) {
		defer RecoverTo("test.recoverTo", &err)
		panic("worker crashed")
	}
	err := run()

	var pe *PanicError
	if !As(err, &pe) {
		t.Fatalf("expected *PanicError, got %T", err)
	}
	if pe.Op != "test.recoverTo" || pe.Value != "worker crashed" {
		t.Errorf("unexpected panic error %+v", pe)
	}
	if reported != 1 {
		t.Errorf("reported = %d, want 1", reported)
	}

	ok := func() (err error) {
		defer RecoverTo("test.recoverTo", &err)
		return nil
	}
	if err := ok(); err != nil {
		t.Errorf("no panic should leave err nil, got %v", err)
	}
}

func TestRecoverRethrowsInvariants(t *testing.T) {
	oldHandler := DefaultHandler
	SetHandler(&testHandler{})
	defer SetHandler(oldHandler)

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		func() {
			defer Recover("test.recover")
			panic(&InvariantError{Kind: KindFamilyMismatch})
		}()
	}()

	if _, ok := recovered.(*InvariantError); !ok {
		t.Fatalf("invariant violation should escape Recover, got %T", recovered)
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "tree.CommitAll"
	if got, want := err.Error(), "panic in tree.CommitAll: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}

func TestSetHandlerNil(t *testing.T) {
	oldHandler := DefaultHandler
	defer SetHandler(oldHandler)

	SetHandler(nil)
	if _, ok := DefaultHandler.(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should set LogHandler, got %T", DefaultHandler)
	}
}

func TestLogHandlerWritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	h.HandleError(&TreeError{Op: "tree.Commit", Kind: KindNotFound, Tag: 12, Err: ErrNotFound})
	h.HandleInvariant(&InvariantError{Op: "shadow.Node.Seal", Kind: KindIllegalMutation, Tag: 4})

	out := buf.String()
	for _, want := range []string{"op=tree.Commit", "kind=not-found", "tag=12", "kind=illegal-mutation", "level=ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testHandler struct {
	onError     func(*TreeError)
	onInvariant func(*InvariantError)
	onPanic     func(*PanicError)
}

func (h *testHandler) HandleError(err *TreeError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandleInvariant(err *InvariantError) {
	if h.onInvariant != nil {
		h.onInvariant(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
