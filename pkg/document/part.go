// Package document implements Part, Document, and the Document's bounded
// undo/redo history — the authoring surface above the mesh kernel and
// boolean engine. Parts are immutable value objects; every transform or
// boolean operation returns a new Part rather than mutating its receiver,
// matching spec's ownership rule that a Part exclusively owns its
// GeometryData and a Document exclusively owns its Parts.
package document

import (
	"github.com/cadforge/parasolve/pkg/boolean"
	"github.com/cadforge/parasolve/pkg/kernel"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// Part is a named, annotated piece of geometry. Parameters are free-form
// user annotations and are never read by the kernel, boolean engine, or
// solver — they exist purely for callers to attach metadata like part
// numbers or material names.
type Part struct {
	Name       string
	Geometry   *kernel.GeometryData
	Parameters map[string]any
}

// NewPart wraps geometry under name with no annotations.
func NewPart(name string, geometry *kernel.GeometryData) Part {
	return Part{Name: name, Geometry: geometry, Parameters: map[string]any{}}
}

// clone returns a Part with its own Parameters map but the same Geometry
// pointer — geometry is replaced wholesale by transforms, never mutated in
// place, so sharing the pointer across the old and new Part is safe.
func (p Part) clone() Part {
	params := make(map[string]any, len(p.Parameters))
	for k, v := range p.Parameters {
		params[k] = v
	}
	return Part{Name: p.Name, Geometry: p.Geometry, Parameters: params}
}

// Translate returns a new Part moved by (dx, dy, dz).
func (p Part) Translate(dx, dy, dz float64) Part {
	out := p.clone()
	out.Geometry = p.Geometry.Transform(vecmath.Translation(vecmath.Vec3{X: dx, Y: dy, Z: dz}))
	return out
}

// Rotate returns a new Part rotated about axis by angle radians, following
// the right-hand rule.
func (p Part) Rotate(axis vecmath.Axis, angle float64) Part {
	out := p.clone()
	out.Geometry = p.Geometry.Transform(vecmath.RotationAbout(axis, angle))
	return out
}

// Transform returns a new Part with m applied to its geometry directly, for
// callers composing an arbitrary affine transform rather than a single
// named translate/rotate.
func (p Part) Transform(m vecmath.Mat4) Part {
	out := p.clone()
	out.Geometry = p.Geometry.Transform(m)
	return out
}

// Boolean returns a new Part holding the result of applying op to p and
// other's geometry via engine. The result Part's GeometryData always has
// Kind = KindMesh, per the boolean engine adapter's contract: booleans
// erase analytical meaning.
func (p Part) Boolean(engine boolean.Engine, op boolean.Op, other Part) (Part, error) {
	var geom *kernel.GeometryData
	var err error
	switch op {
	case boolean.OpUnion:
		geom, err = engine.Union(p.Geometry, other.Geometry)
	case boolean.OpDifference:
		geom, err = engine.Difference(p.Geometry, other.Geometry)
	case boolean.OpIntersection:
		geom, err = engine.Intersection(p.Geometry, other.Geometry)
	default:
		geom, err = nil, &unknownOpError{op}
	}
	if err != nil {
		return Part{}, err
	}
	out := p.clone()
	out.Geometry = geom
	return out, nil
}

type unknownOpError struct{ op boolean.Op }

func (e *unknownOpError) Error() string {
	return "document: unknown boolean op " + e.op.String()
}
