package kernel

import "github.com/cadforge/parasolve/pkg/vecmath"

// PrimitiveKind tags the analytical shape a GeometryData's mesh was
// tessellated from, if any. Kind and Parameters are advisory: the mesh is
// always the authoritative geometric state (spec.md §3).
type PrimitiveKind int

const (
	KindMesh PrimitiveKind = iota // no analytical meaning; shape is mesh-only
	KindBox
	KindCylinder
	KindSphere
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindBox:
		return "box"
	case KindCylinder:
		return "cylinder"
	case KindSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// GeometryData bundles a primitive's tag, its advisory parameters, its
// authoritative triangle mesh, and the cumulative rigid placement applied
// since the primitive was constructed at its canonical, origin-centered
// pose. Placement lets a boolean backend that prefers analytical inputs
// (see pkg/boolean/sdfx) reconstruct the primitive's exact current pose
// without having to re-derive it from the mesh; the mesh itself remains the
// authoritative geometry regardless of whether a backend uses Placement.
type GeometryData struct {
	Kind       PrimitiveKind
	Parameters map[string]float64
	Mesh       *TriangleMesh
	Placement  vecmath.Mat4
}

// NewBox builds GeometryData for a box of dimensions (w,h,d).
func NewBox(w, h, d float64) (*GeometryData, error) {
	mesh, err := Box(w, h, d)
	if err != nil {
		return nil, err
	}
	return &GeometryData{
		Kind:       KindBox,
		Parameters: map[string]float64{"width": w, "height": h, "depth": d},
		Mesh:       mesh,
		Placement:  vecmath.Identity(),
	}, nil
}

// NewCylinder builds GeometryData for a cylinder of the given radius and
// height, with the given circular resolution (<=0 for the default).
func NewCylinder(radius, height float64, segments int) (*GeometryData, error) {
	mesh, err := Cylinder(height, radius, segments)
	if err != nil {
		return nil, err
	}
	return &GeometryData{
		Kind:       KindCylinder,
		Parameters: map[string]float64{"radius": radius, "height": height},
		Mesh:       mesh,
		Placement:  vecmath.Identity(),
	}, nil
}

// NewSphere builds GeometryData for a sphere of the given radius.
func NewSphere(radius float64, rings, segments int) (*GeometryData, error) {
	mesh, err := Sphere(radius, rings, segments)
	if err != nil {
		return nil, err
	}
	return &GeometryData{
		Kind:       KindSphere,
		Parameters: map[string]float64{"radius": radius},
		Mesh:       mesh,
		Placement:  vecmath.Identity(),
	}, nil
}

// FromMesh wraps an already-triangulated mesh with no analytical metadata.
func FromMesh(mesh *TriangleMesh) *GeometryData {
	return &GeometryData{Kind: KindMesh, Mesh: mesh, Placement: vecmath.Identity()}
}

// Clone returns a deep copy of g.
func (g *GeometryData) Clone() *GeometryData {
	params := make(map[string]float64, len(g.Parameters))
	for k, v := range g.Parameters {
		params[k] = v
	}
	return &GeometryData{Kind: g.Kind, Parameters: params, Mesh: g.Mesh.Clone(), Placement: g.Placement}
}

// Transform applies m to the mesh and returns a new GeometryData. Kind,
// Parameters, and Placement survive only when m is a proper rigid motion
// (spec.md §4.1); otherwise the result collapses to KindMesh with no
// parameters and an identity Placement, since the mesh is no longer a rigid
// transform of any canonical primitive.
func (g *GeometryData) Transform(m vecmath.Mat4) *GeometryData {
	mesh := g.Mesh.Transform(m)
	if m.IsRigid(1e-7) {
		params := make(map[string]float64, len(g.Parameters))
		for k, v := range g.Parameters {
			params[k] = v
		}
		return &GeometryData{Kind: g.Kind, Parameters: params, Mesh: mesh, Placement: m.Mul(g.Placement)}
	}
	return &GeometryData{Kind: KindMesh, Mesh: mesh, Placement: vecmath.Identity()}
}
