package document

import (
	"io"

	"github.com/cadforge/parasolve/pkg/brep"
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/stlwriter"
)

// Export dispatches by format name, per spec.md §4.3: "STL" streams the
// Document's combined mesh through pkg/stlwriter; "STEP" builds a
// per-Part BRep compound and submits it to writer under schema AP214;
// every other name — including "OBJ", "DXF", and "JSON" — fails with
// *errs.UnsupportedFormat, since none of them has a writer in this core.
// writer may be nil when format != "STEP"; passing a nil writer for a
// STEP export reports *errs.BackendUnavailable rather than panicking.
func (d *Document) Export(format string, w io.Writer, writer brep.Writer) error {
	switch format {
	case "STL":
		return stlwriter.Encode(w, d.CombinedMesh())
	case "STEP":
		return d.exportSTEP(w, writer)
	default:
		return &errs.UnsupportedFormat{Format: format}
	}
}

func (d *Document) exportSTEP(w io.Writer, writer brep.Writer) error {
	if writer == nil {
		return &errs.BackendUnavailable{Backend: "brep"}
	}
	parts := make([]brep.NamedCompound, len(d.Parts))
	for i, p := range d.Parts {
		parts[i] = brep.NamedCompound{Name: p.Name, Compound: brep.BuildCompound(p.Geometry.Mesh)}
	}
	data, err := writer.Write(parts)
	if err != nil {
		if _, ok := err.(*errs.BackendUnavailable); ok {
			return err
		}
		return &errs.ExportFailure{Format: "STEP", Reason: err.Error()}
	}
	_, err = w.Write(data)
	return err
}
