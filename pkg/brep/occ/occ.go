//go:build occ

// Package occ implements brep.Writer with a CGo binding to a thin C shim
// over OpenCASCADE's STEPControl_Writer, the same engine the original
// document exporter drove directly (BRepBuilderAPI_MakeVertex/MakeEdge/
// MakeFace into a TopoDS_Compound, then STEPControl_Writer.Transfer/Write
// under the "write.step.schema" = "AP214" setting). OpenCASCADE's C++ API
// is not cgo-callable directly, so this package expects libocc_shim — a
// small C wrapper around those calls — to be installed.
//
// Build with: go build -tags=occ
package occ

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -locc_shim

#include <stdlib.h>
#include <occ_shim.h>
*/
import "C"

import (
	"unsafe"

	"github.com/cadforge/parasolve/pkg/brep"
	"github.com/cadforge/parasolve/pkg/errs"
)

// Compile-time interface check.
var _ brep.Writer = (*Writer)(nil)

// Writer implements brep.Writer over OpenCASCADE's STEP export path.
type Writer struct{}

// New returns a Writer backed by libocc_shim.
func New() (*Writer, error) {
	return &Writer{}, nil
}

// Write builds a STEPControl_Writer, transfers each part's compound
// (vertex-by-vertex, edge-by-edge, face-by-face, exactly as the original
// _mesh_to_occ_shape conversion did) under the AP214 schema, and returns
// the serialized STEP bytes.
func (w *Writer) Write(parts []brep.NamedCompound) ([]byte, error) {
	schema := C.CString(brep.SchemaAP214)
	defer C.free(unsafe.Pointer(schema))

	stepWriter := C.occ_step_writer_new(schema)
	if stepWriter == nil {
		return nil, &errs.ExportFailure{Format: "STEP", Reason: "occ_step_writer_new returned nil"}
	}
	defer C.occ_step_writer_free(stepWriter)

	for _, part := range parts {
		compound := C.occ_compound_new()
		for _, f := range part.Compound.Faces {
			e1, e2, e3 := part.Compound.Edges[f.E1], part.Compound.Edges[f.E2], part.Compound.Edges[f.E3]
			v := part.Compound.Vertices
			ok := C.occ_compound_add_triangle_face(compound,
				C.double(v[e1.A].X), C.double(v[e1.A].Y), C.double(v[e1.A].Z),
				C.double(v[e2.A].X), C.double(v[e2.A].Y), C.double(v[e2.A].Z),
				C.double(v[e3.A].X), C.double(v[e3.A].Y), C.double(v[e3.A].Z),
			)
			if ok == 0 {
				C.occ_compound_free(compound)
				return nil, &errs.ExportFailure{Format: "STEP", Reason: "failed to build face for part " + part.Name}
			}
		}
		status := C.occ_step_writer_transfer(stepWriter, compound)
		C.occ_compound_free(compound)
		if status != 0 {
			return nil, &errs.ExportFailure{Format: "STEP", Reason: "failed to transfer part " + part.Name + " to STEP"}
		}
	}

	var outLen C.size_t
	outPtr := C.occ_step_writer_serialize(stepWriter, &outLen)
	if outPtr == nil {
		return nil, &errs.ExportFailure{Format: "STEP", Reason: "occ_step_writer_serialize returned nil"}
	}
	defer C.free(unsafe.Pointer(outPtr))

	return C.GoBytes(unsafe.Pointer(outPtr), C.int(outLen)), nil
}
