// Package script provides an optional Lisp front end, built on zygomys,
// for driving document.Document and solver.System state programmatically.
// It generalizes the teacher's pkg/engine — which compiled woodworking
// Lisp forms into a DesignGraph — to this module's CAD/constraint
// vocabulary: forms like (box ...), (union ...), (translate ...), and
// (distance ...) build parts, booleans, and solver constraints the same
// way the teacher's (board ...), (place ...), and (defpart ...) built
// furniture nodes.
//
// Nothing in this module's core depends on pkg/script; every operation it
// exposes is directly reachable from Go without going through Lisp.
package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/cadforge/parasolve/pkg/boolean"
	"github.com/cadforge/parasolve/pkg/boolean/sdfx"
	"github.com/cadforge/parasolve/pkg/document"
	"github.com/cadforge/parasolve/pkg/solver"
)

// EvalError represents a non-fatal error encountered while evaluating a
// script: a parse error or a runtime error raised by a builtin.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalResult bundles everything a script run produced.
type EvalResult struct {
	Document *document.Document
	System   *solver.System
	Report   *solver.SolveReport
	Errors   []EvalError
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use:
// every call to Evaluate builds a fresh sandboxed environment and a fresh
// document/solver pair, so no state leaks between calls.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	engine     boolean.Engine
}

// NewEngine creates a script Engine. The boolean engine used by (union),
// (difference), and (intersection) defaults to the always-available sdfx
// backend.
func NewEngine() *Engine {
	return &Engine{engine: sdfx.New()}
}

// WithBooleanEngine overrides the boolean backend used by boolean forms,
// e.g. to select the cgo manifold backend when it is compiled in.
func (e *Engine) WithBooleanEngine(be boolean.Engine) *Engine {
	e.engine = be
	return e
}

// Evaluate compiles and runs source in a fresh sandbox, returning the
// resulting Document/System state, any non-fatal evaluation errors, and a
// fatal error only for timeouts, interpreter panics, or a run superseded by
// a newer Evaluate call on the same Engine.
func (e *Engine) Evaluate(source string) (*EvalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalOutcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalOutcome{err: fmt.Errorf("panic during script evaluation: %v", r)}
			}
		}()
		result, evalErrs, err := e.evaluate(source)
		ch <- evalOutcome{result: result, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

func (e *Engine) evaluate(source string) (*EvalResult, []EvalError, error) {
	state := &scriptState{
		doc:    document.NewDocument("script"),
		system: solver.NewSystem(),
		engine: e.engine,
		parts:  make(map[string]document.Part),
	}

	if strings.TrimSpace(source) == "" {
		return &EvalResult{Document: state.doc, System: state.system}, nil, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, state)

	processed := preprocessSource(source)
	if err := env.LoadString(processed); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	return &EvalResult{Document: state.doc, System: state.system, Report: state.report}, nil, nil
}

// linePattern matches zygomys error messages of the form
// "Error on line N: <detail>" or "on line N: <detail>".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
