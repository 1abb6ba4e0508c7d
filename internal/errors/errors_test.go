package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestDriftError_Format(t *testing.T) {
	err := New(KindIO, "cannot write snapshot").
		WithCause("disk full").
		WithSolutions("Free up disk space", "Pick another directory").
		WithVerify("df -h").
		WithHelp("cjadrift snapshot --help")

	out := err.Error()
	for _, want := range []string{
		"Error: cannot write snapshot",
		"Cause: disk full",
		"Solutions:",
		"Free up disk space",
		"Verify: df -h",
		"Help: cjadrift snapshot --help",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted error missing %q:\n%s", want, out)
		}
	}
}

func TestDriftError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := Wrap(KindIO, "cannot write", inner)

	if !stderrors.Is(err, inner) {
		t.Error("wrapped error not reachable through errors.Is")
	}
	if err.Cause != "permission denied" {
		t.Errorf("cause = %q, want the inner message", err.Cause)
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindAuth, "x")); got != KindAuth {
		t.Errorf("KindOf = %v, want auth", got)
	}
	// kind survives an extra wrapping layer
	wrapped := fmt.Errorf("outer: %w", New(KindNetwork, "x"))
	if got := KindOf(wrapped); got != KindNetwork {
		t.Errorf("KindOf through fmt wrap = %v, want network", got)
	}
	if got := KindOf(stderrors.New("plain")); got != "" {
		t.Errorf("KindOf on a plain error = %v, want empty", got)
	}
	if got := KindOf(nil); got != "" {
		t.Errorf("KindOf(nil) = %v, want empty", got)
	}
}

func TestStandardConstructors(t *testing.T) {
	if !IsNotFound(SnapshotNotFound("x.json")) {
		t.Error("SnapshotNotFound should be a not-found error")
	}
	if !IsNotFound(DataViewNotFound("dv_x")) {
		t.Error("DataViewNotFound should be a not-found error")
	}
	if !IsFormat(InvalidSnapshotFormat("x.json", nil)) {
		t.Error("InvalidSnapshotFormat should be a format error")
	}

	nf := SnapshotNotFound("missing.json")
	if len(nf.Solutions) == 0 {
		t.Error("SnapshotNotFound should carry solutions")
	}
	if !strings.Contains(nf.Error(), "missing.json") {
		t.Error("path missing from the message")
	}
}
