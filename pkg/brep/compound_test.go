package brep

import (
	"testing"

	"github.com/cadforge/parasolve/pkg/kernel"
)

func TestBuildCompoundFromBox(t *testing.T) {
	mesh, err := kernel.Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	c := BuildCompound(mesh)

	if got, want := len(c.Vertices), mesh.TriangleCount()*3; got != want {
		t.Errorf("len(Vertices) = %d, want %d", got, want)
	}
	if got, want := len(c.Edges), mesh.TriangleCount()*3; got != want {
		t.Errorf("len(Edges) = %d, want %d", got, want)
	}
	if got, want := len(c.Faces), mesh.TriangleCount(); got != want {
		t.Errorf("len(Faces) = %d, want %d", got, want)
	}

	for i, f := range c.Faces {
		e1, e2, e3 := c.Edges[f.E1], c.Edges[f.E2], c.Edges[f.E3]
		// Each face's three edges must chain tail-to-head around a triangle.
		if e1.B != e2.A || e2.B != e3.A || e3.B != e1.A {
			t.Errorf("face %d: edges do not chain into a closed triangle: %v %v %v", i, e1, e2, e3)
		}
	}
}

func TestBuildCompoundVertexPositionsMatchMesh(t *testing.T) {
	mesh, err := kernel.Box(4, 6, 8)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	c := BuildCompound(mesh)
	for i, f := range mesh.Faces {
		for j, idx := range f {
			want := mesh.Vertices[idx]
			got := c.Vertices[i*3+j]
			if got.X != want.X || got.Y != want.Y || got.Z != want.Z {
				t.Errorf("triangle %d vertex %d = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestBuildCompoundEmptyMesh(t *testing.T) {
	mesh := kernel.NewTriangleMesh(nil, nil)
	c := BuildCompound(mesh)
	if len(c.Faces) != 0 || len(c.Edges) != 0 || len(c.Vertices) != 0 {
		t.Errorf("expected empty compound, got %d vertices, %d edges, %d faces", len(c.Vertices), len(c.Edges), len(c.Faces))
	}
}
