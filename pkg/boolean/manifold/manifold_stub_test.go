//go:build !manifold

package manifold

import (
	"testing"

	"github.com/cadforge/parasolve/pkg/errs"
)

func TestNewReturnsBackendUnavailable(t *testing.T) {
	e, err := New()
	if err == nil {
		t.Fatal("New() error = nil, want non-nil error when manifold tag is not set")
	}
	if e != nil {
		t.Fatal("New() returned non-nil Engine, want nil when manifold tag is not set")
	}
	if _, ok := err.(*errs.BackendUnavailable); !ok {
		t.Errorf("New() error type = %T, want *errs.BackendUnavailable", err)
	}
}

func TestStubMethodsReturnBackendUnavailable(t *testing.T) {
	e := &Engine{}
	if _, err := e.Union(nil, nil); err == nil {
		t.Error("Union() error = nil, want *errs.BackendUnavailable")
	}
	if _, err := e.Difference(nil, nil); err == nil {
		t.Error("Difference() error = nil, want *errs.BackendUnavailable")
	}
	if _, err := e.Intersection(nil, nil); err == nil {
		t.Error("Intersection() error = nil, want *errs.BackendUnavailable")
	}
}
