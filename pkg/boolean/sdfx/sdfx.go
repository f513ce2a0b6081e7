// Package sdfx implements boolean.Engine using the github.com/deadsy/sdfx
// signed-distance-field CAD library. It is the always-available backend:
// pure Go, no cgo, and therefore the default choice whenever the optional
// manifold backend is not compiled in.
//
// sdfx represents solids as implicit functions, not meshes, so this
// backend only operates on operands whose GeometryData still carries an
// analytical Kind (Box, Cylinder, Sphere) and a rigid Placement — exactly
// the case the teacher's own SdfxKernel handled, since it only ever built
// solids through its own Box/Cylinder constructors rather than importing
// arbitrary meshes. An operand that has collapsed to KindMesh (because a
// non-rigid transform or an externally-imported mesh produced it) is
// rejected with *errs.BooleanFailure; pkg/boolean/manifold is the backend
// for that case.
package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/cadforge/parasolve/pkg/boolean"
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/kernel"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// Compile-time interface check.
var _ boolean.Engine = (*Engine)(nil)

// defaultMeshCells controls marching-cubes tessellation resolution when a
// result is converted back to a triangle mesh, mirroring the teacher's
// SdfxKernel.ToMesh constant.
const defaultMeshCells = 200

// Engine implements boolean.Engine over sdfx's analytical SDF3 solids.
type Engine struct {
	// MeshCells overrides the marching-cubes resolution; <= 0 selects the
	// default of 200.
	MeshCells int
}

// New returns an Engine with the default tessellation resolution.
func New() *Engine {
	return &Engine{}
}

func (e *Engine) cells() int {
	if e.MeshCells > 0 {
		return e.MeshCells
	}
	return defaultMeshCells
}

// Union returns the regularized union of a and b.
func (e *Engine) Union(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	return e.combine(boolean.OpUnion, a, b, sdf.Union3D)
}

// Difference returns the regularized difference a minus b.
func (e *Engine) Difference(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	return e.combine(boolean.OpDifference, a, b, func(sdfs ...sdf.SDF3) sdf.SDF3 {
		return sdf.Difference3D(sdfs[0], sdfs[1])
	})
}

// Intersection returns the regularized intersection of a and b.
func (e *Engine) Intersection(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	return e.combine(boolean.OpIntersection, a, b, func(sdfs ...sdf.SDF3) sdf.SDF3 {
		return sdf.Intersect3D(sdfs[0], sdfs[1])
	})
}

func (e *Engine) combine(op boolean.Op, a, b *kernel.GeometryData, combiner func(...sdf.SDF3) sdf.SDF3) (*kernel.GeometryData, error) {
	if err := boolean.ValidateOperands(a, b); err != nil {
		return nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	sa, err := toSDF3(a)
	if err != nil {
		return nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	sb, err := toSDF3(b)
	if err != nil {
		return nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}

	result := combiner(sa, sb)
	mesh, err := toMesh(result, e.cells())
	if err != nil {
		return nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	if mesh.IsEmpty() {
		// An empty result (e.g. a solid minus itself) is a valid outcome,
		// not a structural failure.
		return kernel.FromMesh(mesh), nil
	}
	if err := mesh.Validate(); err != nil {
		return nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	return kernel.FromMesh(mesh), nil
}

// toSDF3 reconstructs the analytical SDF3 solid a primitive's canonical
// shape and current Placement describe. Returns *errs.UnsupportedPrimitive
// for KindMesh operands.
func toSDF3(g *kernel.GeometryData) (sdf.SDF3, error) {
	var canonical sdf.SDF3
	var err error
	switch g.Kind {
	case kernel.KindBox:
		canonical, err = sdf.Box3D(v3.Vec{
			X: g.Parameters["width"],
			Y: g.Parameters["height"],
			Z: g.Parameters["depth"],
		}, 0)
		if err != nil {
			return nil, err
		}
	case kernel.KindCylinder:
		canonical, err = sdf.Cylinder3D(g.Parameters["height"], g.Parameters["radius"], 0)
		if err != nil {
			return nil, err
		}
	case kernel.KindSphere:
		canonical, err = sdf.Sphere3D(g.Parameters["radius"])
		if err != nil {
			return nil, err
		}
	default:
		return nil, &errs.UnsupportedPrimitive{Kind: g.Kind.String()}
	}
	m := placementToSdf(g.Placement)
	return sdf.Transform3D(canonical, m), nil
}

// placementToSdf rebuilds an sdf transform matrix equivalent to a rigid
// vecmath.Mat4 by extracting its ZYX Euler angles and its translation and
// recomposing them with sdfx's own Rotate/Translate primitives, the same
// primitives the teacher's Rotate/Translate methods use.
func placementToSdf(p vecmath.Mat4) sdf.M44 {
	rx, ry, rz := eulerZYX(p)
	rot := sdf.RotateZ(rz).Mul(sdf.RotateY(ry)).Mul(sdf.RotateX(rx))
	trans := sdf.Translate3d(v3.Vec{X: p[0][3], Y: p[1][3], Z: p[2][3]})
	return trans.Mul(rot)
}

// eulerZYX extracts angles (radians) such that Rz(z)*Ry(y)*Rx(x) reproduces
// the rotation block of m, handling the gimbal-lock case at |R[2][0]| == 1.
func eulerZYX(m vecmath.Mat4) (rx, ry, rz float64) {
	const eps = 1e-9
	sy := -m[2][0]
	sy = math.Max(-1, math.Min(1, sy))
	ry = math.Asin(sy)
	cy := math.Cos(ry)
	if math.Abs(cy) > eps {
		rx = math.Atan2(m[2][1], m[2][2])
		rz = math.Atan2(m[1][0], m[0][0])
	} else {
		rx = math.Atan2(-m[1][2], m[1][1])
		rz = 0
	}
	return rx, ry, rz
}

// toMesh tessellates an SDF3 via marching cubes, matching the teacher's
// SdfxKernel.ToMesh conversion into a flat vertex/index representation.
func toMesh(s sdf.SDF3, cells int) (*kernel.TriangleMesh, error) {
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	vertices := make([]vecmath.Vec3, 0, len(triangles)*3)
	faces := make([]kernel.Face, 0, len(triangles))
	for _, tri := range triangles {
		base := len(vertices)
		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, vecmath.Vec3{X: v.X, Y: v.Y, Z: v.Z})
		}
		faces = append(faces, kernel.Face{base, base + 1, base + 2})
	}
	return kernel.NewTriangleMesh(vertices, faces), nil
}
