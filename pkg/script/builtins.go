package script

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/cadforge/parasolve/pkg/boolean"
	"github.com/cadforge/parasolve/pkg/document"
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/kernel"
	"github.com/cadforge/parasolve/pkg/solver"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource converts :keyword tokens to string literals the same
// way the teacher's Lisp front end does, since zygomys has no keyword
// symbol type of its own, and rewrites ';' line comments as '//' comments.
// Forms in this module's vocabulary (box, translate, distance, ...) take no
// kebab-case identifiers, so no identifier rewriting is done.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) && isLetter(b[i+1]) {
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			kwName := string(b[i+1 : j])
			result = append(result, '"')
			result = append(result, []byte(kwPrefix)...)
			result = append(result, []byte(kwName)...)
			result = append(result, '"')
			i = j
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

const kwPrefix = "__kw_"

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isKWChar(c byte) bool { return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_' }

// ---------------------------------------------------------------------------
// Sexp wrapper types
// ---------------------------------------------------------------------------

// sexpPart wraps a document.Part so it can be passed between forms.
type sexpPart struct{ part document.Part }

func (p *sexpPart) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q)", p.part.Name)
}
func (p *sexpPart) Type() *zygo.RegisteredType { return nil }

// sexpPointVar wraps a solver.PointVar so it can be passed between forms.
type sexpPointVar struct{ v solver.PointVar }

func (p *sexpPointVar) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(point %d)", int(p.v))
}
func (p *sexpPointVar) Type() *zygo.RegisteredType { return nil }

func toPart(s zygo.Sexp) (document.Part, error) {
	if p, ok := s.(*sexpPart); ok {
		return p.part, nil
	}
	return document.Part{}, fmt.Errorf("expected part, got %T (%s)", s, s.SexpString(nil))
}

func toPointVar(s zygo.Sexp) (solver.PointVar, error) {
	if p, ok := s.(*sexpPointVar); ok {
		return p.v, nil
	}
	return 0, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if len(str.S) > len(kwPrefix) && str.S[:len(kwPrefix)] == kwPrefix {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toAxis(s zygo.Sexp) (vecmath.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z): %w", err)
	}
	switch name {
	case "x":
		return vecmath.AxisX, nil
	case "y":
		return vecmath.AxisY, nil
	case "z":
		return vecmath.AxisZ, nil
	}
	return 0, fmt.Errorf("invalid axis %q, expected x, y, or z", name)
}

// optFloat64 returns args[i] as a float64, or def when args is shorter
// than i+1 — used for the optional trailing parameters most forms below
// accept (segment counts, solver tolerances).
func optFloat64(args []zygo.Sexp, i int, def float64) (float64, error) {
	if i >= len(args) {
		return def, nil
	}
	return toFloat64(args[i])
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// scriptState carries the Document, constraint System, and boolean engine
// a single Evaluate call builds against; every builtin closes over it.
type scriptState struct {
	doc    *document.Document
	system *solver.System
	engine boolean.Engine
	report *solver.SolveReport
	parts  map[string]document.Part
}

// registerBuiltins installs every CAD/constraint form into a zygomys
// environment, mirroring the teacher's registerBuiltins but over this
// module's vocabulary instead of furniture joinery.
func registerBuiltins(env *zygo.Zlisp, state *scriptState) {

	// (box w h d) -> part
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires exactly 3 arguments (w h d), got %d", len(args))
		}
		w, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: w: %w", err)
		}
		h, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: h: %w", err)
		}
		d, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: d: %w", err)
		}
		g, err := kernel.NewBox(w, h, d)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpPart{part: document.NewPart("box", g)}, nil
	})

	// (cylinder radius height [segments])
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires at least 2 arguments (radius height), got %d", len(args))
		}
		radius, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
		}
		height, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
		}
		segments, err := optFloat64(args, 2, 32)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: segments: %w", err)
		}
		g, err := kernel.NewCylinder(radius, height, int(segments))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpPart{part: document.NewPart("cylinder", g)}, nil
	})

	// (sphere radius [rings] [segments])
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires at least 1 argument (radius), got %d", len(args))
		}
		radius, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		rings, err := optFloat64(args, 1, 16)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: rings: %w", err)
		}
		segments, err := optFloat64(args, 2, 32)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: segments: %w", err)
		}
		g, err := kernel.NewSphere(radius, int(rings), int(segments))
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpPart{part: document.NewPart("sphere", g)}, nil
	})

	// (translate part dx dy dz)
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("translate requires exactly 4 arguments (part dx dy dz), got %d", len(args))
		}
		p, err := toPart(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: part: %w", err)
		}
		dx, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: dx: %w", err)
		}
		dy, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: dy: %w", err)
		}
		dz, err := toFloat64(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: dz: %w", err)
		}
		return &sexpPart{part: p.Translate(dx, dy, dz)}, nil
	})

	// (rotate part axis angle)
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("rotate requires exactly 3 arguments (part axis angle), got %d", len(args))
		}
		p, err := toPart(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: part: %w", err)
		}
		axis, err := toAxis(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: axis: %w", err)
		}
		angle, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: angle: %w", err)
		}
		return &sexpPart{part: p.Rotate(axis, angle)}, nil
	})

	registerBooleanForm(env, state, "union", boolean.OpUnion)
	registerBooleanForm(env, state, "difference", boolean.OpDifference)
	registerBooleanForm(env, state, "intersection", boolean.OpIntersection)

	// (add_part part) -> index
	env.AddFunction("add_part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("add_part requires exactly 1 argument (part), got %d", len(args))
		}
		p, err := toPart(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add_part: %w", err)
		}
		idx := state.doc.AddPart(p)
		return &zygo.SexpInt{Val: int64(idx)}, nil
	})

	// (undo) / (redo)
	env.AddFunction("undo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ok, err := state.doc.Undo()
		if err != nil {
			if _, isEmpty := err.(*errs.HistoryEmpty); isEmpty {
				return &zygo.SexpInt{Val: 0}, nil
			}
			return zygo.SexpNull, fmt.Errorf("undo: %w", err)
		}
		return boolToSexpInt(ok), nil
	})
	env.AddFunction("redo", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ok, err := state.doc.Redo()
		if err != nil {
			if _, isEmpty := err.(*errs.HistoryEmpty); isEmpty {
				return &zygo.SexpInt{Val: 0}, nil
			}
			return zygo.SexpNull, fmt.Errorf("redo: %w", err)
		}
		return boolToSexpInt(ok), nil
	})

	// (point x y z [fixed])
	env.AddFunction("point", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("point requires at least 3 arguments (x y z), got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point: z: %w", err)
		}
		fixed := false
		if len(args) >= 4 {
			f, err := toFloat64(args[3])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("point: fixed: %w", err)
			}
			fixed = f != 0
		}
		v := state.system.AddPoint(vecmath.Vec3{X: x, Y: y, Z: z}, fixed)
		return &sexpPointVar{v: v}, nil
	})

	// (distance p1 p2 target)
	env.AddFunction("distance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, target, err := twoPointsAndTarget(args, "distance")
		if err != nil {
			return zygo.SexpNull, err
		}
		state.system.AddConstraint(&solver.Distance{P1: pts[0], P2: pts[1], Target: target})
		return zygo.SexpNull, nil
	})

	// (angle p1 p2 p3 target)
	env.AddFunction("angle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("angle requires exactly 4 arguments (p1 p2 p3 target), got %d", len(args))
		}
		p1, err := toPointVar(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("angle: p1: %w", err)
		}
		p2, err := toPointVar(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("angle: p2: %w", err)
		}
		p3, err := toPointVar(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("angle: p3: %w", err)
		}
		target, err := toFloat64(args[3])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("angle: target: %w", err)
		}
		state.system.AddConstraint(&solver.Angle{P1: p1, P2: p2, P3: p3, Target: target})
		return zygo.SexpNull, nil
	})

	// (parallel p1 p2 p3 p4)
	env.AddFunction("parallel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := fourPoints(args, "parallel")
		if err != nil {
			return zygo.SexpNull, err
		}
		state.system.AddConstraint(&solver.Parallel{P1: pts[0], P2: pts[1], P3: pts[2], P4: pts[3]})
		return zygo.SexpNull, nil
	})

	// (perpendicular p1 p2 p3 p4)
	env.AddFunction("perpendicular", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pts, err := fourPoints(args, "perpendicular")
		if err != nil {
			return zygo.SexpNull, err
		}
		state.system.AddConstraint(&solver.Perpendicular{P1: pts[0], P2: pts[1], P3: pts[2], P4: pts[3]})
		return zygo.SexpNull, nil
	})

	// (solve [max-iter])
	env.AddFunction("solve", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		maxIter, err := optFloat64(args, 0, 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solve: max-iter: %w", err)
		}
		report, err := state.system.Solve(solver.Options{MaxIter: int(maxIter)})
		if err != nil {
			state.report = &report
			return zygo.SexpNull, fmt.Errorf("solve: %w", err)
		}
		state.report = &report
		return &zygo.SexpFloat{Val: report.FinalResidualNorm}, nil
	})
}

func boolToSexpInt(ok bool) *zygo.SexpInt {
	if ok {
		return &zygo.SexpInt{Val: 1}
	}
	return &zygo.SexpInt{Val: 0}
}

func twoPointsAndTarget(args []zygo.Sexp, form string) ([2]solver.PointVar, float64, error) {
	var pts [2]solver.PointVar
	if len(args) != 3 {
		return pts, 0, fmt.Errorf("%s requires exactly 3 arguments (p1 p2 target), got %d", form, len(args))
	}
	for i := 0; i < 2; i++ {
		p, err := toPointVar(args[i])
		if err != nil {
			return pts, 0, fmt.Errorf("%s: p%d: %w", form, i+1, err)
		}
		pts[i] = p
	}
	target, err := toFloat64(args[2])
	if err != nil {
		return pts, 0, fmt.Errorf("%s: target: %w", form, err)
	}
	return pts, target, nil
}

func fourPoints(args []zygo.Sexp, form string) ([4]solver.PointVar, error) {
	var pts [4]solver.PointVar
	if len(args) != 4 {
		return pts, fmt.Errorf("%s requires exactly 4 arguments (p1 p2 p3 p4), got %d", form, len(args))
	}
	for i := 0; i < 4; i++ {
		p, err := toPointVar(args[i])
		if err != nil {
			return pts, fmt.Errorf("%s: p%d: %w", form, i+1, err)
		}
		pts[i] = p
	}
	return pts, nil
}

func registerBooleanForm(env *zygo.Zlisp, state *scriptState, name string, op boolean.Op) {
	env.AddFunction(name, func(env *zygo.Zlisp, fname string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 arguments (a b), got %d", name, len(args))
		}
		a, err := toPart(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: a: %w", name, err)
		}
		b, err := toPart(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: b: %w", name, err)
		}
		result, err := a.Boolean(state.engine, op, b)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
		}
		return &sexpPart{part: result}, nil
	})
}
