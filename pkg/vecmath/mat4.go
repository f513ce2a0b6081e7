package vecmath

import "math"

// Mat4 is a 4x4 affine matrix stored in row-major order, M[row][col].
// The bottom row is conventionally {0,0,0,1} for a pure affine transform,
// but Det and MulPoint do not assume it, so a caller that builds an
// unusual matrix still gets a well-defined answer.
type Mat4 [4][4]float64

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Translation returns the affine matrix that translates by v.
func Translation(v Vec3) Mat4 {
	m := Identity()
	m[0][3] = v.X
	m[1][3] = v.Y
	m[2][3] = v.Z
	return m
}

// RotationAbout returns the right-hand-rule rotation matrix for a signed
// angle (radians) about the given principal axis.
func RotationAbout(axis Axis, angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	m := Identity()
	switch axis {
	case AxisX:
		m[1][1], m[1][2] = c, -s
		m[2][1], m[2][2] = s, c
	case AxisY:
		m[0][0], m[0][2] = c, s
		m[2][0], m[2][2] = -s, c
	case AxisZ:
		m[0][0], m[0][1] = c, -s
		m[1][0], m[1][1] = s, c
	}
	return m
}

// Mul returns the matrix product m * n (n applied first).
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[r][k] * n[k][c]
			}
			out[r][c] = sum
		}
	}
	return out
}

// MulPoint applies m to v, treating v as a point (homogeneous w=1).
func (m Mat4) MulPoint(v Vec3) Vec3 {
	x := m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]
	y := m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]
	z := m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]
	w := m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]
	if w != 0 && w != 1 {
		x, y, z = x/w, y/w, z/w
	}
	return Vec3{x, y, z}
}

// Det returns the determinant of the upper-left 3x3 rotation/scale block.
// For an affine matrix this determines orientation: positive for a proper
// rigid motion, negative for an improper one (reflection or odd scaling).
func (m Mat4) Det() float64 {
	a, b, c := m[0][0], m[0][1], m[0][2]
	d, e, f := m[1][0], m[1][1], m[1][2]
	g, h, i := m[2][0], m[2][1], m[2][2]
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// IsRigid reports whether m is (within tol) a proper rigid motion: its
// rotation block is orthogonal with determinant +1. GeometryData kind and
// parameters survive a transform only when this holds.
func (m Mat4) IsRigid(tol float64) bool {
	det := m.Det()
	if math.Abs(det-1) > tol {
		return false
	}
	// Check R^T R == I for the upper-left 3x3 block.
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j]
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var dot float64
			for k := 0; k < 3; k++ {
				dot += r[k][i] * r[k][j]
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(dot-want) > tol {
				return false
			}
		}
	}
	return true
}
