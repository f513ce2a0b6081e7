package sdfx

import (
	"math"
	"testing"

	"github.com/cadforge/parasolve/pkg/kernel"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

func translate(x, y, z float64) vecmath.Mat4 {
	return vecmath.Translation(vecmath.Vec3{X: x, Y: y, Z: z})
}

func TestUnionOfOverlappingBoxesIsNonEmpty(t *testing.T) {
	e := New()
	a, err := kernel.NewBox(50, 50, 50)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b, err := kernel.NewBox(50, 50, 50)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b = b.Transform(translate(30, 0, 0))

	u, err := e.Union(a, b)
	if err != nil {
		t.Fatalf("Union() error = %v", err)
	}
	if u.Mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestDifferenceHasMoreTrianglesThanPlainBox(t *testing.T) {
	e := New()
	box, err := kernel.NewBox(100, 100, 100)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	hole, err := kernel.NewCylinder(20, 120, 32)
	if err != nil {
		t.Fatalf("NewCylinder() error = %v", err)
	}

	boxMesh, err := e.selfMesh(box)
	if err != nil {
		t.Fatalf("toMesh(box) error = %v", err)
	}

	diff, err := e.Difference(box, hole)
	if err != nil {
		t.Fatalf("Difference() error = %v", err)
	}
	if diff.Mesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	if diff.Mesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Errorf("difference (%d triangles) should exceed plain box (%d triangles)",
			diff.Mesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestIntersectionOfOverlappingBoxesIsNonEmpty(t *testing.T) {
	e := New()
	a, err := kernel.NewBox(100, 100, 100)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b, err := kernel.NewBox(100, 100, 100)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b = b.Transform(translate(50, 0, 0))

	inter, err := e.Intersection(a, b)
	if err != nil {
		t.Fatalf("Intersection() error = %v", err)
	}
	if inter.Mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
}

func TestTranslatedBoxBoundingBox(t *testing.T) {
	g, err := kernel.NewBox(10, 10, 10)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	moved := g.Transform(translate(100, 200, 300))
	s, err := toSDF3(moved)
	if err != nil {
		t.Fatalf("toSDF3() error = %v", err)
	}
	bb := s.BoundingBox()
	min, max := bb.Min, bb.Max
	const tol = 0.5
	wantMin := [3]float64{95, 195, 295}
	wantMax := [3]float64{105, 205, 305}
	if math.Abs(min.X-wantMin[0]) > tol || math.Abs(min.Y-wantMin[1]) > tol || math.Abs(min.Z-wantMin[2]) > tol {
		t.Errorf("min = %v, want ~%v", min, wantMin)
	}
	if math.Abs(max.X-wantMax[0]) > tol || math.Abs(max.Y-wantMax[1]) > tol || math.Abs(max.Z-wantMax[2]) > tol {
		t.Errorf("max = %v, want ~%v", max, wantMax)
	}
}

func TestDifferenceOfBoxAndCentralCylinderPreservesBoundingBox(t *testing.T) {
	e := New()
	box, err := kernel.NewBox(10, 10, 10)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	cyl, err := kernel.NewCylinder(6, 10, 32)
	if err != nil {
		t.Fatalf("NewCylinder() error = %v", err)
	}

	diff, err := e.Difference(box, cyl)
	if err != nil {
		t.Fatalf("Difference() error = %v", err)
	}
	if diff.Mesh.TriangleCount() == 0 {
		t.Fatal("expected a non-empty result mesh")
	}

	boxMin, boxMax := box.Mesh.BoundingBox()
	min, max := diff.Mesh.BoundingBox()
	const tol = 0.5
	if math.Abs(min.X-boxMin.X) > tol || math.Abs(min.Y-boxMin.Y) > tol || math.Abs(min.Z-boxMin.Z) > tol {
		t.Errorf("min = %v, want ~%v", min, boxMin)
	}
	if math.Abs(max.X-boxMax.X) > tol || math.Abs(max.Y-boxMax.Y) > tol || math.Abs(max.Z-boxMax.Z) > tol {
		t.Errorf("max = %v, want ~%v", max, boxMax)
	}
}

func TestMeshOperandRejected(t *testing.T) {
	mesh, err := kernel.Box(4, 4, 4)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	meshOnly := kernel.FromMesh(mesh)
	box, err := kernel.NewBox(4, 4, 4)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	if _, err := New().Union(meshOnly, box); err == nil {
		t.Fatal("Union() with a KindMesh operand should fail on this backend")
	}
}

// selfMesh tessellates g's own analytic solid without combining it with
// anything, used to compare triangle counts against a boolean result.
func (e *Engine) selfMesh(g *kernel.GeometryData) (*kernel.TriangleMesh, error) {
	s, err := toSDF3(g)
	if err != nil {
		return nil, err
	}
	return toMesh(s, e.cells())
}
