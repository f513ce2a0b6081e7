package solver

import (
	"math"

	"github.com/cadforge/parasolve/pkg/vecmath"
)

// addVec3 accumulates into an existing Jacobian entry instead of
// overwriting it, for constraints where two referenced points coincide
// (e.g. Parallel sharing an endpoint between its two edges).
func addVec3(j [][]float64, row int, col func(PointVar) int, v PointVar, value vecmath.Vec3) {
	base := col(v)
	j[row][base] += value.X
	j[row][base+1] += value.Y
	j[row][base+2] += value.Z
}

// Distance constrains the separation between P1 and P2 to Target.
type Distance struct {
	P1, P2 PointVar
	Target float64
}

func (c *Distance) Dim() int { return 1 }

func (c *Distance) Residual(get func(PointVar) vecmath.Vec3, r []float64) {
	d := get(c.P1).Sub(get(c.P2)).Norm()
	r[0] = d - c.Target
}

func (c *Distance) Jacobian(get func(PointVar) vecmath.Vec3, col func(PointVar) int, j [][]float64) {
	diff := get(c.P1).Sub(get(c.P2))
	d := diff.Norm()
	if d < 1e-12 {
		// d(p1,p2) undefined at coincident points; leave this row zero
		// and rely on λ damping in the solve loop to step away from it.
		return
	}
	grad := diff.Scale(1 / d)
	addVec3(j, 0, col, c.P1, grad)
	addVec3(j, 0, col, c.P2, grad.Scale(-1))
}

// Angle constrains the angle at P2 between legs toward P1 and P3 to Target
// radians.
type Angle struct {
	P1, P2, P3 PointVar
	Target     float64
}

func (c *Angle) Dim() int { return 1 }

func angleCos(get func(PointVar) vecmath.Vec3, p1, p2, p3 PointVar) (u, v vecmath.Vec3, cosTheta, nu, nv float64, ok bool) {
	u = get(p1).Sub(get(p2))
	v = get(p3).Sub(get(p2))
	nu, nv = u.Norm(), v.Norm()
	if nu < 1e-12 || nv < 1e-12 {
		return u, v, 0, nu, nv, false
	}
	cosTheta = u.Dot(v) / (nu * nv)
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	return u, v, cosTheta, nu, nv, true
}

func (c *Angle) Residual(get func(PointVar) vecmath.Vec3, r []float64) {
	_, _, cosTheta, _, _, ok := angleCos(get, c.P1, c.P2, c.P3)
	if !ok {
		r[0] = 0
		return
	}
	r[0] = math.Acos(cosTheta) - c.Target
}

func (c *Angle) Jacobian(get func(PointVar) vecmath.Vec3, col func(PointVar) int, j [][]float64) {
	u, v, cosTheta, nu, nv, ok := angleCos(get, c.P1, c.P2, c.P3)
	if !ok {
		return
	}
	// d(acos(c))/dc = -1/sqrt(1-c^2); guard the same singularity acos
	// itself has at c = ±1.
	s := 1 - cosTheta*cosTheta
	if s < 1e-12 {
		return
	}
	dAcos := -1 / math.Sqrt(s)

	// c = (u.v) / (nu*nv); standard quotient-rule gradients of c with
	// respect to u and v, then chain through u = p1-p2, v = p3-p2.
	dcdu := v.Scale(1 / (nu * nv)).Sub(u.Scale(u.Dot(v) / (nu * nu * nu * nv)))
	dcdv := u.Scale(1 / (nu * nv)).Sub(v.Scale(u.Dot(v) / (nu * nv * nv * nv)))

	dcdp1 := dcdu
	dcdp3 := dcdv
	dcdp2 := dcdu.Scale(-1).Add(dcdv.Scale(-1))

	addVec3(j, 0, col, c.P1, dcdp1.Scale(dAcos))
	addVec3(j, 0, col, c.P2, dcdp2.Scale(dAcos))
	addVec3(j, 0, col, c.P3, dcdp3.Scale(dAcos))
}

// Parallel constrains edge (P1,P2) to be parallel to edge (P3,P4): all
// three components of their cross product are driven to zero.
type Parallel struct {
	P1, P2, P3, P4 PointVar
}

func (c *Parallel) Dim() int { return 3 }

func (c *Parallel) Residual(get func(PointVar) vecmath.Vec3, r []float64) {
	a := get(c.P2).Sub(get(c.P1))
	b := get(c.P4).Sub(get(c.P3))
	cross := a.Cross(b)
	r[0], r[1], r[2] = cross.X, cross.Y, cross.Z
}

// Jacobian writes the cross-product derivative for each of the three
// residual rows. For w = a x b with a = p2-p1, b = p4-p3, the derivative
// of w with respect to a is the skew-symmetric matrix [-b]_x (since
// d(a x b)/da = -[b]_x) and with respect to b is [a]_x; p1 and p3 carry
// the negated contributions of a and b respectively.
func (c *Parallel) Jacobian(get func(PointVar) vecmath.Vec3, col func(PointVar) int, j [][]float64) {
	a := get(c.P2).Sub(get(c.P1))
	b := get(c.P4).Sub(get(c.P3))

	// d(w)/d(a) = -skew(b), d(w)/d(b) = skew(a).
	dWdA := negSkew(b)
	dWdB := skew(a)

	for row := 0; row < 3; row++ {
		addVec3(j, row, col, c.P2, dWdA[row])
		addVec3(j, row, col, c.P1, dWdA[row].Scale(-1))
		addVec3(j, row, col, c.P4, dWdB[row])
		addVec3(j, row, col, c.P3, dWdB[row].Scale(-1))
	}
}

// skew returns the three rows of the skew-symmetric cross-product matrix
// [v]_x such that [v]_x * x = v cross x.
func skew(v vecmath.Vec3) [3]vecmath.Vec3 {
	return [3]vecmath.Vec3{
		{X: 0, Y: -v.Z, Z: v.Y},
		{X: v.Z, Y: 0, Z: -v.X},
		{X: -v.Y, Y: v.X, Z: 0},
	}
}

func negSkew(v vecmath.Vec3) [3]vecmath.Vec3 {
	s := skew(v)
	return [3]vecmath.Vec3{s[0].Scale(-1), s[1].Scale(-1), s[2].Scale(-1)}
}

// Perpendicular constrains edge (P1,P2) to be perpendicular to edge
// (P3,P4): their dot product is driven to zero.
type Perpendicular struct {
	P1, P2, P3, P4 PointVar
}

func (c *Perpendicular) Dim() int { return 1 }

func (c *Perpendicular) Residual(get func(PointVar) vecmath.Vec3, r []float64) {
	a := get(c.P2).Sub(get(c.P1))
	b := get(c.P4).Sub(get(c.P3))
	r[0] = a.Dot(b)
}

func (c *Perpendicular) Jacobian(get func(PointVar) vecmath.Vec3, col func(PointVar) int, j [][]float64) {
	a := get(c.P2).Sub(get(c.P1))
	b := get(c.P4).Sub(get(c.P3))

	addVec3(j, 0, col, c.P2, b)
	addVec3(j, 0, col, c.P1, b.Scale(-1))
	addVec3(j, 0, col, c.P4, a)
	addVec3(j, 0, col, c.P3, a.Scale(-1))
}
