// Package boolean defines the external-collaborator abstraction for
// regularized boolean solid operations (union, difference, intersection).
// This module does not specify its own boolean algorithm; it delegates to
// one of the Engine implementations in the sdfx and manifold subpackages,
// mirroring the dual-backend split the teacher repo uses for the same
// reason: a pure-Go path that always builds, and an optional cgo path for
// when guaranteed-manifold output matters more than build simplicity.
package boolean

import (
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/kernel"
)

// Engine performs regularized boolean operations on solid geometry. Inputs
// and outputs are always *kernel.GeometryData so implementations can choose
// whether to exploit Kind/Parameters/Placement or fall back to the mesh.
// Union and Intersection are commutative up to tessellation. An operand
// that is nil, has no mesh, or fails structural validation is rejected
// with a tagged error rather than a panic or a silently wrong mesh; an
// operand with an empty mesh counts as invalid, so Union with an empty
// operand fails instead of returning the other operand.
type Engine interface {
	Union(a, b *kernel.GeometryData) (*kernel.GeometryData, error)
	Difference(a, b *kernel.GeometryData) (*kernel.GeometryData, error)
	Intersection(a, b *kernel.GeometryData) (*kernel.GeometryData, error)
}

// Op identifies which boolean operation is being performed, used in error
// messages and test tables.
type Op int

const (
	OpUnion Op = iota
	OpDifference
	OpIntersection
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// ValidateOperands checks the structural preconditions shared by every
// Engine implementation before any backend-specific work begins: neither
// operand may be nil or meshless, and each mesh must pass its own
// structural validation.
func ValidateOperands(a, b *kernel.GeometryData) error {
	if a == nil || a.Mesh == nil {
		return &errs.InvalidMesh{Reason: "operand a is nil or has no mesh"}
	}
	if b == nil || b.Mesh == nil {
		return &errs.InvalidMesh{Reason: "operand b is nil or has no mesh"}
	}
	if err := a.Mesh.Validate(); err != nil {
		return err
	}
	return b.Mesh.Validate()
}
