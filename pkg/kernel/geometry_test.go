package kernel

import (
	"testing"

	"github.com/cadforge/parasolve/pkg/vecmath"
)

func TestGeometryDataTransformPreservesKindUnderRigidMotion(t *testing.T) {
	g, err := NewBox(10, 10, 10)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	moved := g.Transform(vecmath.Translation(vecmath.Vec3{X: 5, Y: 0, Z: 0}))
	if moved.Kind != KindBox {
		t.Errorf("Kind after translate = %v, want %v", moved.Kind, KindBox)
	}
	if moved.Parameters["width"] != 10 {
		t.Errorf("Parameters[width] = %v, want 10", moved.Parameters["width"])
	}
}

func TestGeometryDataTransformCollapsesKindUnderScale(t *testing.T) {
	g, err := NewCylinder(3, 10, 16)
	if err != nil {
		t.Fatalf("NewCylinder() error = %v", err)
	}
	scale := vecmath.Identity()
	scale[0][0] = 2.0
	scaled := g.Transform(scale)
	if scaled.Kind != KindMesh {
		t.Errorf("Kind after scale = %v, want %v", scaled.Kind, KindMesh)
	}
	if len(scaled.Parameters) != 0 {
		t.Errorf("Parameters after scale = %v, want empty", scaled.Parameters)
	}
}

func TestGeometryDataCloneIsIndependent(t *testing.T) {
	g, err := NewBox(1, 1, 1)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	clone := g.Clone()
	clone.Parameters["width"] = 99
	if g.Parameters["width"] == 99 {
		t.Error("mutating clone's Parameters affected the original")
	}
	clone.Mesh.Vertices[0] = vecmath.Vec3{X: 999, Y: 999, Z: 999}
	if g.Mesh.Vertices[0] == (vecmath.Vec3{X: 999, Y: 999, Z: 999}) {
		t.Error("mutating clone's Mesh affected the original")
	}
}
