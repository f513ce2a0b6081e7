// Package errs defines the tagged error taxonomy surfaced to callers of
// every other package in this module. Each error type names the failing
// argument so a caller never has to parse a message string to recover
// programmatically, matching the teacher's ValidationError/EvalError
// pattern of named struct types implementing error.
package errs

import "fmt"

// InvalidDimension reports a non-positive or non-finite primitive parameter.
type InvalidDimension struct {
	Primitive string // "box", "cylinder", "sphere"
	Param     string // which parameter was invalid
	Value     float64
}

func (e *InvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %s.%s = %v must be positive and finite", e.Primitive, e.Param, e.Value)
}

// InvalidMesh reports a mesh that failed structural validation.
type InvalidMesh struct {
	Reason string
}

func (e *InvalidMesh) Error() string {
	return fmt.Sprintf("invalid mesh: %s", e.Reason)
}

// BooleanFailure reports that the boolean engine rejected its inputs or
// produced an invalid result.
type BooleanFailure struct {
	Op     string // "union", "difference", "intersection"
	Reason string
}

func (e *BooleanFailure) Error() string {
	return fmt.Sprintf("boolean %s failed: %s", e.Op, e.Reason)
}

// Singular reports that the solver's normal equations stayed singular even
// after damping saturated.
type Singular struct {
	Lambda float64
}

func (e *Singular) Error() string {
	return fmt.Sprintf("solver: singular system at saturated damping (lambda=%v)", e.Lambda)
}

// UnsupportedFormat reports an export format that is not recognized.
type UnsupportedFormat struct {
	Format string
}

func (e *UnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported export format: %q", e.Format)
}

// BackendUnavailable reports that an external collaborator (e.g. the BRep
// writer) was requested but is not compiled into this build.
type BackendUnavailable struct {
	Backend string
}

func (e *BackendUnavailable) Error() string {
	return fmt.Sprintf("backend unavailable: %s", e.Backend)
}

// ExportFailure reports that an external writer rejected the shape or an
// I/O operation failed during export.
type ExportFailure struct {
	Format string
	Reason string
}

func (e *ExportFailure) Error() string {
	return fmt.Sprintf("export to %s failed: %s", e.Format, e.Reason)
}

// HistoryEmpty reports that undo/redo was invoked with nothing on the
// relevant stack. This is non-fatal: Document.Undo/Redo return it together
// with false whenever their stack is empty, so callers can rely on the bool
// alone and treat this error as informational.
type HistoryEmpty struct {
	Stack string // "history" or "redo"
}

func (e *HistoryEmpty) Error() string {
	return fmt.Sprintf("%s is empty", e.Stack)
}

// UnsupportedPrimitive reports a primitive kind with no tessellation rule.
type UnsupportedPrimitive struct {
	Kind string
}

func (e *UnsupportedPrimitive) Error() string {
	return fmt.Sprintf("unsupported primitive: %s", e.Kind)
}
