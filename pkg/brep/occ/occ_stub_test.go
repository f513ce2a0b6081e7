//go:build !occ

package occ

import (
	"testing"

	"github.com/cadforge/parasolve/pkg/errs"
)

func TestNewReturnsBackendUnavailable(t *testing.T) {
	w, err := New()
	if err == nil {
		t.Fatal("New() error = nil, want non-nil error when occ tag is not set")
	}
	if w != nil {
		t.Fatal("New() returned non-nil Writer, want nil when occ tag is not set")
	}
	if _, ok := err.(*errs.BackendUnavailable); !ok {
		t.Errorf("New() error type = %T, want *errs.BackendUnavailable", err)
	}
}

func TestStubWriteReturnsBackendUnavailable(t *testing.T) {
	w := &Writer{}
	if _, err := w.Write(nil); err == nil {
		t.Error("Write() error = nil, want *errs.BackendUnavailable")
	}
}
