//go:build !occ

// Package occ provides a CGo binding to OpenCASCADE's STEP export path.
// When the "occ" build tag is not set, this stub is compiled instead: New
// returns *errs.BackendUnavailable, matching spec.md §4.7's requirement
// that export("STEP") fail loudly rather than silently fall back to a
// different format when the external BRep writer is unavailable.
//
// Build with: go build -tags=occ
package occ

import (
	"github.com/cadforge/parasolve/pkg/brep"
	"github.com/cadforge/parasolve/pkg/errs"
)

// Writer is an unusable placeholder satisfying brep.Writer.
type Writer struct{}

var _ brep.Writer = (*Writer)(nil)

// New returns an *errs.BackendUnavailable. Build with -tags=occ to enable
// the real OpenCASCADE-backed writer.
func New() (*Writer, error) {
	return nil, &errs.BackendUnavailable{Backend: "occ"}
}

func (w *Writer) Write(parts []brep.NamedCompound) ([]byte, error) {
	return nil, &errs.BackendUnavailable{Backend: "occ"}
}
