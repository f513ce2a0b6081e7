package vecmath

import (
	"math"
	"testing"
)

func TestVec3AddSub(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}
	got := a.Add(b)
	want := Vec3{5, 7, 9}
	if got != want {
		t.Errorf("Add() = %v, want %v", got, want)
	}
	if got.Sub(b) != a {
		t.Errorf("Sub() did not invert Add()")
	}
}

func TestVec3DotCross(t *testing.T) {
	a := Vec3{1, 0, 0}
	b := Vec3{0, 1, 0}
	if got := a.Dot(b); got != 0 {
		t.Errorf("Dot() = %v, want 0", got)
	}
	if got := a.Cross(b); got != (Vec3{0, 0, 1}) {
		t.Errorf("Cross() = %v, want {0 0 1}", got)
	}
}

func TestVec3Norm(t *testing.T) {
	v := Vec3{3, 4, 0}
	if got := v.Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Norm() = %v, want 5", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	t.Run("nonzero", func(t *testing.T) {
		v := Vec3{0, 3, 4}.Normalize()
		if math.Abs(v.Norm()-1) > 1e-12 {
			t.Errorf("Normalize() norm = %v, want 1", v.Norm())
		}
	})
	t.Run("zero vector", func(t *testing.T) {
		v := Vec3{}.Normalize()
		if v != (Vec3{}) {
			t.Errorf("Normalize() of zero vector = %v, want zero", v)
		}
	})
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("IsFinite() = false for finite vector")
	}
	if (Vec3{math.Inf(1), 0, 0}).IsFinite() {
		t.Error("IsFinite() = true for vector with infinite component")
	}
	if (Vec3{math.NaN(), 0, 0}).IsFinite() {
		t.Error("IsFinite() = true for vector with NaN component")
	}
}

func TestAxisUnit(t *testing.T) {
	tests := []struct {
		axis Axis
		want Vec3
	}{
		{AxisX, Vec3{1, 0, 0}},
		{AxisY, Vec3{0, 1, 0}},
		{AxisZ, Vec3{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.axis.String(), func(t *testing.T) {
			if got := tt.axis.Unit(); got != tt.want {
				t.Errorf("Unit() = %v, want %v", got, tt.want)
			}
		})
	}
}
