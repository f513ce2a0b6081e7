package boolean_test

import (
	"math"
	"testing"

	"github.com/cadforge/parasolve/pkg/boolean/sdfx"
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/kernel"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// These tests exercise the boolean contract properties spec.md §8 requires
// of every Engine implementation, using the always-available sdfx backend
// as the concrete instance under test.

func TestUnionIsCommutative(t *testing.T) {
	e := sdfx.New()
	a, err := kernel.NewBox(40, 40, 40)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b, err := kernel.NewBox(40, 40, 40)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b = b.Transform(vecmath.Translation(vecmath.Vec3{X: 20}))

	ab, err := e.Union(a, b)
	if err != nil {
		t.Fatalf("Union(a,b) error = %v", err)
	}
	ba, err := e.Union(b, a)
	if err != nil {
		t.Fatalf("Union(b,a) error = %v", err)
	}

	volA, volB := ab.Mesh.Volume(), ba.Mesh.Volume()
	if math.Abs(volA-volB) > 1e-3*math.Max(math.Abs(volA), math.Abs(volB)) {
		t.Errorf("Union not commutative: vol(a,b)=%v, vol(b,a)=%v", volA, volB)
	}
}

func TestIntersectionIsCommutative(t *testing.T) {
	e := sdfx.New()
	a, err := kernel.NewBox(40, 40, 40)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b, err := kernel.NewBox(40, 40, 40)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b = b.Transform(vecmath.Translation(vecmath.Vec3{X: 20}))

	ab, err := e.Intersection(a, b)
	if err != nil {
		t.Fatalf("Intersection(a,b) error = %v", err)
	}
	ba, err := e.Intersection(b, a)
	if err != nil {
		t.Fatalf("Intersection(b,a) error = %v", err)
	}

	volA, volB := ab.Mesh.Volume(), ba.Mesh.Volume()
	if math.Abs(volA-volB) > 1e-3*math.Max(math.Abs(volA), math.Abs(volB)) {
		t.Errorf("Intersection not commutative: vol(a,b)=%v, vol(b,a)=%v", volA, volB)
	}
}

func TestSelfDifferenceIsEmpty(t *testing.T) {
	e := sdfx.New()
	a, err := kernel.NewBox(20, 20, 20)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b, err := kernel.NewBox(20, 20, 20)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}

	result, err := e.Difference(a, b)
	if err != nil {
		t.Fatalf("Difference(a,a) error = %v", err)
	}
	vol := math.Abs(result.Mesh.Volume())
	if len(result.Mesh.Faces) != 0 && vol > 1e-3*a.Mesh.Volume() {
		t.Errorf("Difference(a,a): triangles=%d volume=%v, want near-zero", len(result.Mesh.Faces), vol)
	}
}

func TestSelfIntersectionPreservesVolume(t *testing.T) {
	e := sdfx.New()
	a, err := kernel.NewBox(20, 20, 20)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	b, err := kernel.NewBox(20, 20, 20)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}

	result, err := e.Intersection(a, b)
	if err != nil {
		t.Fatalf("Intersection(a,a) error = %v", err)
	}
	wantVol, gotVol := a.Mesh.Volume(), result.Mesh.Volume()
	if math.Abs(gotVol-wantVol) > 1e-2*wantVol {
		t.Errorf("Intersection(a,a).volume = %v, want ~= %v", gotVol, wantVol)
	}
}

func TestDifferenceRejectsInvalidOperand(t *testing.T) {
	e := sdfx.New()
	box, err := kernel.NewBox(10, 10, 10)
	if err != nil {
		t.Fatalf("NewBox() error = %v", err)
	}
	var nilOperand *kernel.GeometryData
	if _, err := e.Difference(box, nilOperand); err == nil {
		t.Fatal("Difference() with a nil operand should fail")
	}
	meshOnly := kernel.FromMesh(kernel.NewTriangleMesh(nil, nil))
	if _, err := e.Difference(box, meshOnly); err == nil {
		t.Fatal("Difference() with an empty mesh operand should fail")
	} else if bf, ok := err.(*errs.BooleanFailure); !ok {
		t.Errorf("error type = %T, want *errs.BooleanFailure", err)
	} else if bf.Op != "difference" {
		t.Errorf("BooleanFailure.Op = %q, want %q", bf.Op, "difference")
	}
}
