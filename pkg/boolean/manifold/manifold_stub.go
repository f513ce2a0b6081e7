//go:build !manifold

// Package manifold provides a CGo binding to the Manifold library. When the
// "manifold" build tag is not set, this stub is compiled instead: New
// returns *errs.BackendUnavailable so callers can fall back to the sdfx
// backend or surface the condition to the user.
//
// Build with: go build -tags=manifold
package manifold

import (
	"github.com/cadforge/parasolve/pkg/boolean"
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/kernel"
)

// Engine is an unusable placeholder; every method returns
// *errs.BackendUnavailable. It still satisfies boolean.Engine so callers
// can select a backend without a build-tag-conditional import.
type Engine struct{}

var _ boolean.Engine = (*Engine)(nil)

// New returns an *errs.BackendUnavailable. Build with -tags=manifold to
// enable the real backend.
func New() (*Engine, error) {
	return nil, &errs.BackendUnavailable{Backend: "manifold"}
}

func (e *Engine) Union(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	return nil, &errs.BackendUnavailable{Backend: "manifold"}
}

func (e *Engine) Difference(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	return nil, &errs.BackendUnavailable{Backend: "manifold"}
}

func (e *Engine) Intersection(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	return nil, &errs.BackendUnavailable{Backend: "manifold"}
}
