// Package solver implements the Newton-style geometric constraint solver:
// a shared pool of point variables, a heterogeneous set of constraints
// (see constraints.go) that each contribute residuals and analytic
// partial derivatives, and a damped Gauss-Newton / Levenberg-Marquardt
// loop that drives the stacked residual vector toward zero. Linear
// algebra is delegated to gonum.org/v1/gonum/mat: the normal equations
// JᵀJ+λI are small and dense but their conditioning is exactly the kind
// of thing a hand-rolled Gaussian elimination gets subtly wrong near
// singularity, which is precisely when this solver needs to behave
// correctly (see the Singular failure path below).
package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// PointVar is a handle into the solver's variable table. It refers to
// three consecutive scalar unknowns (x, y, z); it carries no data of its
// own and is only meaningful against the System that issued it.
type PointVar int

// Constraint is a tagged variant over Distance, Angle, Parallel, and
// Perpendicular (see constraints.go). Each constraint depends on a fixed
// set of PointVars and knows how to evaluate its own residual(s) and
// write its own partial derivatives into a Jacobian row.
type Constraint interface {
	// Dim reports how many scalar residuals this constraint contributes
	// (1 for Distance/Angle/Perpendicular, 3 for Parallel).
	Dim() int
	// Residual writes this constraint's residual(s) into r, starting at
	// r[0], given the current point positions from get.
	Residual(get func(PointVar) vecmath.Vec3, r []float64)
	// Jacobian writes this constraint's partial derivatives into the rows
	// of j (one row per residual component, row 0 at j[0]) and the three
	// columns belonging to each referenced PointVar, given base column
	// offsets supplied by col.
	Jacobian(get func(PointVar) vecmath.Vec3, col func(PointVar) int, j [][]float64)
}

// System holds the variable table, the fixed-flag bitset, and the
// ordered constraint list that together define one solve problem.
type System struct {
	points      []vecmath.Vec3
	fixed       []bool
	constraints []Constraint
}

// NewSystem returns an empty constraint system.
func NewSystem() *System {
	return &System{}
}

// AddPoint registers a new point variable at the given initial position
// and returns its handle. A fixed point's coordinates are never updated
// by Solve; its Jacobian columns are always zero.
func (s *System) AddPoint(initial vecmath.Vec3, fixed bool) PointVar {
	v := PointVar(len(s.points))
	s.points = append(s.points, initial)
	s.fixed = append(s.fixed, fixed)
	return v
}

// AddConstraint appends a constraint to the system.
func (s *System) AddConstraint(c Constraint) {
	s.constraints = append(s.constraints, c)
}

// GetPoint returns the current position of v.
func (s *System) GetPoint(v PointVar) vecmath.Vec3 {
	return s.points[v]
}

func (s *System) get(v PointVar) vecmath.Vec3 {
	return s.points[v]
}

func (s *System) col(v PointVar) int {
	return int(v) * 3
}

// numVars returns n = 3*P, the length of the stacked variable vector.
func (s *System) numVars() int {
	return len(s.points) * 3
}

// numResiduals returns m, the length of the stacked residual vector.
func (s *System) numResiduals() int {
	m := 0
	for _, c := range s.constraints {
		m += c.Dim()
	}
	return m
}

// residuals evaluates r(x) for every constraint in order.
func (s *System) residuals() []float64 {
	r := make([]float64, s.numResiduals())
	row := 0
	for _, c := range s.constraints {
		c.Residual(s.get, r[row:row+c.Dim()])
		row += c.Dim()
	}
	return r
}

// jacobian assembles the full m x n Jacobian. Columns for fixed variables
// are zeroed after assembly, per spec: this removes them from the step
// without requiring each constraint to know which of its points are fixed.
func (s *System) jacobian() *mat.Dense {
	m, n := s.numResiduals(), s.numVars()
	j := mat.NewDense(m, n, nil)

	row := 0
	for _, c := range s.constraints {
		dim := c.Dim()
		rows := make([][]float64, dim)
		for i := range rows {
			rows[i] = make([]float64, n)
		}
		c.Jacobian(s.get, s.col, rows)
		for i := 0; i < dim; i++ {
			for col := 0; col < n; col++ {
				j.Set(row+i, col, rows[i][col])
			}
		}
		row += dim
	}

	for v, isFixed := range s.fixed {
		if !isFixed {
			continue
		}
		base := v * 3
		for row := 0; row < m; row++ {
			j.Set(row, base, 0)
			j.Set(row, base+1, 0)
			j.Set(row, base+2, 0)
		}
	}
	return j
}

func (s *System) applyStep(delta *mat.VecDense) {
	for v := range s.points {
		if s.fixed[v] {
			continue
		}
		base := v * 3
		p := s.points[v]
		s.points[v] = vecmath.Vec3{
			X: p.X + delta.AtVec(base),
			Y: p.Y + delta.AtVec(base + 1),
			Z: p.Z + delta.AtVec(base + 2),
		}
	}
}

// SolveReport summarizes the outcome of a Solve call.
type SolveReport struct {
	Converged         bool
	Iterations        int
	FinalResidualNorm float64
	Message           string
}

// Options configures a Solve call; the zero value selects the spec's
// defaults (tol_r=1e-6, tol_x=1e-9, max_iter=100).
type Options struct {
	MaxIter int
	TolR    float64
	TolX    float64
}

func (o Options) withDefaults() Options {
	if o.MaxIter <= 0 {
		o.MaxIter = 100
	}
	if o.TolR <= 0 {
		o.TolR = 1e-6
	}
	if o.TolX <= 0 {
		o.TolX = 1e-9
	}
	return o
}

const (
	lambdaInit = 1e-3
	lambdaMin  = 1e-9
	lambdaMax  = 1e+9
)

// Solve runs the damped Gauss-Newton / Levenberg-Marquardt loop described
// in spec.md §4.4 to drive every constraint's residual toward zero,
// mutating the positions of every non-fixed point in place.
func (s *System) Solve(opts Options) (SolveReport, error) {
	opts = opts.withDefaults()

	n := s.numVars()
	if n == 0 || len(s.constraints) == 0 {
		return SolveReport{Converged: true, Message: "no variables or constraints"}, nil
	}

	lambda := lambdaInit
	r := s.residuals()
	rNorm := infNorm(r)

	for iter := 0; iter < opts.MaxIter; iter++ {
		if rNorm < opts.TolR {
			return SolveReport{Converged: true, Iterations: iter, FinalResidualNorm: rNorm}, nil
		}

		j := s.jacobian()
		jt := j.T()
		var jtj mat.Dense
		jtj.Mul(jt, j)

		var jtr mat.VecDense
		rv := mat.NewVecDense(len(r), r)
		jtr.MulVec(jt, rv)
		jtr.ScaleVec(-1, &jtr)

		var delta *mat.VecDense
		var newR []float64
		var newRNorm float64

		for {
			damped := mat.NewDense(n, n, nil)
			damped.Add(&jtj, scaledIdentity(n, lambda))

			step, err := solveLinear(damped, &jtr)
			if err != nil {
				lambda *= 10
				if lambda > lambdaMax {
					return SolveReport{Converged: false, Iterations: iter, FinalResidualNorm: rNorm,
							Message: fmt.Sprintf("singular normal equations at iteration %d", iter)},
						&errs.Singular{Lambda: lambda}
				}
				continue
			}

			s.applyStep(step)
			candidate := s.residuals()
			candidateNorm := norm2(candidate)
			if candidateNorm < norm2(r) {
				delta = step
				newR = candidate
				newRNorm = infNorm(candidate)
				lambda = math.Max(lambda/10, lambdaMin)
			} else {
				// Undo the trial step before retrying with more damping.
				undo := mat.NewVecDense(n, nil)
				undo.ScaleVec(-1, step)
				s.applyStep(undo)
				lambda = math.Min(lambda*10, lambdaMax)
				if lambda >= lambdaMax {
					return SolveReport{Converged: false, Iterations: iter, FinalResidualNorm: rNorm,
							Message: fmt.Sprintf("damping saturated without improving residual at iteration %d", iter)},
						&errs.Singular{Lambda: lambda}
				}
				continue
			}
			break
		}

		r = newR
		rNorm = newRNorm

		if infNorm(delta.RawVector().Data) < opts.TolX {
			return SolveReport{Converged: rNorm < opts.TolR, Iterations: iter + 1, FinalResidualNorm: rNorm}, nil
		}
	}

	return SolveReport{
		Converged:         rNorm < opts.TolR,
		Iterations:        opts.MaxIter,
		FinalResidualNorm: rNorm,
		Message:           fmt.Sprintf("max_iter reached, final residual norm %.3g", rNorm),
	}, nil
}

// solveLinear solves A x = b, preferring a Cholesky factorization (A is
// symmetric positive (semi-)definite by construction) and falling back to
// LU when Cholesky reports the matrix is not positive-definite enough to
// factor — the signal this module treats as "numerically singular".
func solveLinear(a *mat.Dense, b *mat.VecDense) (*mat.VecDense, error) {
	n, _ := a.Dims()
	x := mat.NewVecDense(n, nil)

	var chol mat.Cholesky
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for k := i; k < n; k++ {
			sym.SetSym(i, k, a.At(i, k))
		}
	}
	if ok := chol.Factorize(sym); ok {
		if err := chol.SolveVecTo(x, b); err == nil {
			return x, nil
		}
	}

	var lu mat.LU
	lu.Factorize(a)
	if lu.Cond() > 1e14 {
		return nil, fmt.Errorf("normal equations numerically singular")
	}
	if err := lu.SolveVecTo(x, false, b); err != nil {
		return nil, err
	}
	return x, nil
}

func scaledIdentity(n int, s float64) *mat.Dense {
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		id.Set(i, i, s)
	}
	return id
}

func infNorm(v []float64) float64 {
	max := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > max {
			max = a
		}
	}
	return max
}

func norm2(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
