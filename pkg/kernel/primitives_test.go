package kernel

import (
	"math"
	"testing"

	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

func TestBoxVertexAndTriangleCount(t *testing.T) {
	m, err := Box(10, 10, 10)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	if got := m.VertexCount(); got != 8 {
		t.Errorf("VertexCount() = %d, want 8", got)
	}
	if got := m.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount() = %d, want 12", got)
	}
}

func TestBoxOutwardNormals(t *testing.T) {
	m, err := Box(4, 6, 8)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	for i, f := range m.Faces {
		centroid := m.Vertices[f[0]].Add(m.Vertices[f[1]]).Add(m.Vertices[f[2]])
		n := m.FaceNormal(i)
		if n.Dot(centroid) <= 0 {
			t.Errorf("face %d: normal %v does not point away from origin (centroid %v)", i, n, centroid)
		}
	}
}

func TestBoxInvalidDimension(t *testing.T) {
	tests := []struct {
		name       string
		w, h, d    float64
	}{
		{"zero width", 0, 1, 1},
		{"negative height", 1, -1, 1},
		{"nan depth", 1, 1, math.NaN()},
		{"inf width", math.Inf(1), 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Box(tt.w, tt.h, tt.d)
			if err == nil {
				t.Fatal("Box() error = nil, want InvalidDimension")
			}
			var want *errs.InvalidDimension
			if _, ok := err.(*errs.InvalidDimension); !ok {
				t.Errorf("Box() error type = %T, want %T", err, want)
			}
		})
	}
}

func TestCylinderVertexAndTriangleCount(t *testing.T) {
	tests := []int{8, 16, 32, 64}
	for _, n := range tests {
		m, err := Cylinder(10, 3, n)
		if err != nil {
			t.Fatalf("Cylinder(n=%d) error = %v", n, err)
		}
		if got, want := m.VertexCount(), 2*n+2; got != want {
			t.Errorf("n=%d: VertexCount() = %d, want %d", n, got, want)
		}
		if got, want := m.TriangleCount(), 4*n; got != want {
			t.Errorf("n=%d: TriangleCount() = %d, want %d", n, got, want)
		}
	}
}

func TestCylinderDefaultResolution(t *testing.T) {
	m, err := Cylinder(10, 3, 0)
	if err != nil {
		t.Fatalf("Cylinder() error = %v", err)
	}
	if got, want := m.VertexCount(), 2*defaultCylinderSegments+2; got != want {
		t.Errorf("VertexCount() = %d, want %d", got, want)
	}
}

func TestCylinderOutwardNormals(t *testing.T) {
	m, err := Cylinder(10, 3, 16)
	if err != nil {
		t.Fatalf("Cylinder() error = %v", err)
	}
	for i, f := range m.Faces {
		centroid := m.Vertices[f[0]].Add(m.Vertices[f[1]]).Add(m.Vertices[f[2]])
		n := m.FaceNormal(i)
		// Centroid may have z=0 contribution cancel the radial check for cap
		// triangles sharing the axis point, so only require a non-negative
		// dot product (tangent faces are never produced by this tessellation).
		if n.Dot(centroid) < -1e-9 {
			t.Errorf("face %d: normal %v does not point outward (centroid %v)", i, n, centroid)
		}
	}
}

func TestCylinderInvalidDimension(t *testing.T) {
	if _, err := Cylinder(0, 1, 8); err == nil {
		t.Error("Cylinder(height=0) error = nil, want error")
	}
	if _, err := Cylinder(1, 0, 8); err == nil {
		t.Error("Cylinder(radius=0) error = nil, want error")
	}
}

func TestSphereVertexAndTriangleCount(t *testing.T) {
	m, err := Sphere(5, 8, 16)
	if err != nil {
		t.Fatalf("Sphere() error = %v", err)
	}
	// 2 poles + (rings-1) interior rings of `segments` vertices each.
	wantVerts := 2 + (8-1)*16
	if got := m.VertexCount(); got != wantVerts {
		t.Errorf("VertexCount() = %d, want %d", got, wantVerts)
	}
	// 2 caps of `segments` triangles + (rings-2) bands of 2*segments triangles.
	wantTris := 2*16 + (8-2)*2*16
	if got := m.TriangleCount(); got != wantTris {
		t.Errorf("TriangleCount() = %d, want %d", got, wantTris)
	}
}

func TestSphereOutwardNormals(t *testing.T) {
	m, err := Sphere(5, 8, 16)
	if err != nil {
		t.Fatalf("Sphere() error = %v", err)
	}
	for i, f := range m.Faces {
		centroid := m.Vertices[f[0]].Add(m.Vertices[f[1]]).Add(m.Vertices[f[2]])
		n := m.FaceNormal(i)
		if n.Dot(centroid) <= 0 {
			t.Errorf("face %d: normal %v does not point outward (centroid %v)", i, n, centroid)
		}
	}
}

func TestSphereInvalidDimension(t *testing.T) {
	if _, err := Sphere(0, 8, 16); err == nil {
		t.Error("Sphere(radius=0) error = nil, want error")
	}
	if _, err := Sphere(-1, 8, 16); err == nil {
		t.Error("Sphere(radius<0) error = nil, want error")
	}
}

func TestTranslateRoundTrip(t *testing.T) {
	m, err := Box(10, 10, 10)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	forward := vecmath.Translation(vecmath.Vec3{X: 3, Y: -4, Z: 5})
	backward := vecmath.Translation(vecmath.Vec3{X: -3, Y: 4, Z: -5})
	got := m.Transform(forward).Transform(backward)
	for i, v := range got.Vertices {
		want := m.Vertices[i]
		if math.Abs(v.X-want.X) > 1e-9 || math.Abs(v.Y-want.Y) > 1e-9 || math.Abs(v.Z-want.Z) > 1e-9 {
			t.Errorf("vertex %d = %v, want %v", i, v, want)
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	m, err := Box(4, 6, 8)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	for _, axis := range []vecmath.Axis{vecmath.AxisX, vecmath.AxisY, vecmath.AxisZ} {
		forward := vecmath.RotationAbout(axis, 0.9)
		backward := vecmath.RotationAbout(axis, -0.9)
		got := m.Transform(forward).Transform(backward)
		for i, v := range got.Vertices {
			want := m.Vertices[i]
			if math.Abs(v.X-want.X) > 1e-9 || math.Abs(v.Y-want.Y) > 1e-9 || math.Abs(v.Z-want.Z) > 1e-9 {
				t.Errorf("axis %v vertex %d = %v, want %v", axis, i, v, want)
			}
		}
	}
}

func TestTransformReversesWindingForImproperMotion(t *testing.T) {
	m, err := Box(2, 2, 2)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	reflect := vecmath.Identity()
	reflect[0][0] = -1 // mirror across X: det < 0
	out := m.Transform(reflect)
	for i := range out.Faces {
		centroid := out.Vertices[out.Faces[i][0]].Add(out.Vertices[out.Faces[i][1]]).Add(out.Vertices[out.Faces[i][2]])
		n := out.FaceNormal(i)
		if n.Dot(centroid) <= 0 {
			t.Errorf("face %d: normal %v not outward after reflection (centroid %v)", i, n, centroid)
		}
	}
}
