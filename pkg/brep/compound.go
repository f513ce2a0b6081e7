// Package brep builds the boundary-representation compound spec.md §4.7
// requires for STEP export and defines the Writer abstraction that
// submits it to an external BRep engine under the "AP214" schema
// identifier. The compound itself — vertices, edges, and planar
// triangular faces — is plain data; only serializing it to STEP bytes
// needs an external collaborator, provided by pkg/brep/occ.
package brep

import "github.com/cadforge/parasolve/pkg/kernel"

// Vertex is a point in a Compound's vertex table.
type Vertex struct {
	X, Y, Z float64
}

// Edge references two vertices by index into a Compound's Vertices table.
type Edge struct {
	A, B int
}

// Face is a planar triangular face bounded by three edges, each an index
// into a Compound's Edges table.
type Face struct {
	E1, E2, E3 int
}

// Compound is the boundary representation of one Part: a flat table of
// vertices, the edges built over them, and the triangular faces bounded by
// those edges. Unlike TriangleMesh, vertices are not shared between
// triangles — each triangle gets its own three vertices and three edges,
// mirroring the per-triangle vertex/edge/face construction spec.md §4.7
// and the original OpenCASCADE exporter both use.
type Compound struct {
	Vertices []Vertex
	Edges    []Edge
	Faces    []Face
}

// BuildCompound converts mesh into a Compound: each triangle becomes three
// fresh vertices, three edges over them, and one face bounded by those
// edges, exactly as spec.md §4.7 describes.
func BuildCompound(mesh *kernel.TriangleMesh) *Compound {
	c := &Compound{
		Vertices: make([]Vertex, 0, mesh.TriangleCount()*3),
		Edges:    make([]Edge, 0, mesh.TriangleCount()*3),
		Faces:    make([]Face, 0, mesh.TriangleCount()),
	}
	for _, f := range mesh.Faces {
		base := len(c.Vertices)
		for _, idx := range f {
			v := mesh.Vertices[idx]
			c.Vertices = append(c.Vertices, Vertex{X: v.X, Y: v.Y, Z: v.Z})
		}
		edgeBase := len(c.Edges)
		c.Edges = append(c.Edges,
			Edge{A: base, B: base + 1},
			Edge{A: base + 1, B: base + 2},
			Edge{A: base + 2, B: base},
		)
		c.Faces = append(c.Faces, Face{E1: edgeBase, E2: edgeBase + 1, E3: edgeBase + 2})
	}
	return c
}

// NamedCompound pairs a Part's name with its Compound, the unit the Writer
// interface submits to an external engine.
type NamedCompound struct {
	Name     string
	Compound *Compound
}
