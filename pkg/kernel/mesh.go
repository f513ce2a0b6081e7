// Package kernel implements the triangulated-mesh geometry core: primitive
// tessellation, mesh validation, and affine transforms. It is the sole
// geometric representation used inside this module — there is no dual
// analytical/mesh representation to keep in sync, only advisory metadata
// carried alongside the mesh (see GeometryData).
package kernel

import (
	"fmt"
	"log"
	"math"

	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// Face is a triangular face: three 0-based indices into a TriangleMesh's
// Vertices slice.
type Face [3]int

// TriangleMesh is an ordered sequence of vertices and an ordered sequence
// of triangular faces. A mesh representing a closed solid is expected to
// be manifold and outward-oriented by the right-hand rule, but this is
// checked, not enforced, on ingestion of externally-produced meshes — see
// Validate.
type TriangleMesh struct {
	Vertices []vecmath.Vec3
	Faces    []Face
}

// NewTriangleMesh builds a mesh from raw vertex/face slices without
// copying defensively; callers that need isolation should Clone first.
func NewTriangleMesh(vertices []vecmath.Vec3, faces []Face) *TriangleMesh {
	return &TriangleMesh{Vertices: vertices, Faces: faces}
}

// Clone returns a deep copy of m.
func (m *TriangleMesh) Clone() *TriangleMesh {
	if m == nil {
		return nil
	}
	v := make([]vecmath.Vec3, len(m.Vertices))
	copy(v, m.Vertices)
	f := make([]Face, len(m.Faces))
	copy(f, m.Faces)
	return &TriangleMesh{Vertices: v, Faces: f}
}

// VertexCount returns the number of vertices.
func (m *TriangleMesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices)
}

// TriangleCount returns the number of faces.
func (m *TriangleMesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Faces)
}

// IsEmpty reports whether the mesh has no geometry.
func (m *TriangleMesh) IsEmpty() bool {
	return m.VertexCount() == 0 || m.TriangleCount() == 0
}

// FaceNormal returns the unnormalized face normal of face i via
// (b-a) x (c-a), consistent with the winding rule the STL writer also uses.
func (m *TriangleMesh) FaceNormal(i int) vecmath.Vec3 {
	f := m.Faces[i]
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	return b.Sub(a).Cross(c.Sub(a))
}

// BoundingBox returns the axis-aligned bounding box of the mesh. Calling
// BoundingBox on an empty mesh returns two zero vectors.
func (m *TriangleMesh) BoundingBox() (min, max vecmath.Vec3) {
	if m.IsEmpty() {
		return vecmath.Vec3{}, vecmath.Vec3{}
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		min = vecmath.Vec3{X: math.Min(min.X, v.X), Y: math.Min(min.Y, v.Y), Z: math.Min(min.Z, v.Z)}
		max = vecmath.Vec3{X: math.Max(max.X, v.X), Y: math.Max(max.Y, v.Y), Z: math.Max(max.Z, v.Z)}
	}
	return min, max
}

// Volume returns the signed volume enclosed by the mesh via the divergence
// (signed tetrahedron) formula, summing the signed volume of the
// tetrahedron from the origin to each face. For a closed, outward-oriented
// mesh this is the true enclosed volume; for an open or inconsistently
// wound mesh it is whatever that formula integrates to, which is why the
// boolean contract tests in spec.md §8 only rely on it for round-tripped,
// validated results.
func (m *TriangleMesh) Volume() float64 {
	var sum float64
	for i := range m.Faces {
		f := m.Faces[i]
		a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		sum += a.Dot(b.Cross(c))
	}
	return sum / 6
}

// Validate checks the structural invariants spec.md §4.1 requires of an
// externally-produced mesh: every index in range, no face with repeated
// indices, at least one vertex and one face. Manifoldness and closure are
// checked but non-fatal — a warning is logged and the mesh is accepted, per
// spec.md: "Manifoldness and closure are checked but not required to fail."
func (m *TriangleMesh) Validate() error {
	if m.VertexCount() == 0 {
		return &errs.InvalidMesh{Reason: "no vertices"}
	}
	if m.TriangleCount() == 0 {
		return &errs.InvalidMesh{Reason: "no faces"}
	}
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return &errs.InvalidMesh{Reason: fmt.Sprintf("face %d: index %d out of range [0,%d)", i, idx, n)}
			}
		}
		if f[0] == f[1] || f[1] == f[2] || f[0] == f[2] {
			return &errs.InvalidMesh{Reason: fmt.Sprintf("face %d has repeated indices %v", i, f)}
		}
	}
	if edges, ok := m.nonManifoldEdges(); !ok {
		log.Printf("kernel: mesh is not closed/manifold (%d boundary or non-2-manifold edges); proceeding", edges)
	}
	return nil
}

// nonManifoldEdges counts undirected edges that are not shared by exactly
// two faces, returning (count, closed). The winding of the two faces on an
// edge is not checked.
func (m *TriangleMesh) nonManifoldEdges() (int, bool) {
	type edgeKey struct{ a, b int }
	counts := make(map[edgeKey]int)
	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			key := edgeKey{a, b}
			if a > b {
				key = edgeKey{b, a}
			}
			counts[key]++
		}
	}
	bad := 0
	for _, c := range counts {
		if c != 2 {
			bad++
		}
	}
	return bad, bad == 0
}

// Transform returns a new mesh with every vertex mapped through m. Faces
// are preserved; for an improper motion (Det < 0) face winding is reversed
// so normals remain outward, per spec.md §4.1.
func (mesh *TriangleMesh) Transform(m vecmath.Mat4) *TriangleMesh {
	out := &TriangleMesh{
		Vertices: make([]vecmath.Vec3, len(mesh.Vertices)),
		Faces:    make([]Face, len(mesh.Faces)),
	}
	for i, v := range mesh.Vertices {
		out.Vertices[i] = m.MulPoint(v)
	}
	reverse := m.Det() < 0
	for i, f := range mesh.Faces {
		if reverse {
			out.Faces[i] = Face{f[0], f[2], f[1]}
		} else {
			out.Faces[i] = f
		}
	}
	return out
}

// Concat returns a new mesh holding every non-nil mesh in order, offsetting
// each mesh's face indices by the number of vertices already appended. The
// inputs are not mutated; Concat is used by document.Document.CombinedMesh.
func Concat(meshes ...*TriangleMesh) *TriangleMesh {
	out := &TriangleMesh{}
	for _, mesh := range meshes {
		if mesh == nil {
			continue
		}
		offset := len(out.Vertices)
		out.Vertices = append(out.Vertices, mesh.Vertices...)
		for _, f := range mesh.Faces {
			out.Faces = append(out.Faces, Face{f[0] + offset, f[1] + offset, f[2] + offset})
		}
	}
	return out
}
