package document

import (
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/kernel"
)

// DefaultHistoryDepth is the history/redo stack cap used when a Document is
// constructed without an explicit depth.
const DefaultHistoryDepth = 128

// editKind tags which reverse operation an Edit records.
type editKind int

const (
	editAddPart editKind = iota
	editRemovePart
	editReplacePart
)

// edit records the reverse of one mutation, never a full snapshot of the
// Document, so history stays bounded regardless of Part size.
type edit struct {
	kind  editKind
	index int
	part  Part // the part to re-insert (RemovePart) or restore (ReplacePart)
}

// Document owns an ordered list of Parts plus bounded undo/redo history.
// Document is not safe for concurrent use; callers needing that must
// provide their own mutual exclusion, per spec's concurrency model.
type Document struct {
	Name  string
	Parts []Part

	cap     int
	history []edit
	redo    []edit
}

// NewDocument returns an empty Document with the default history depth.
func NewDocument(name string) *Document {
	return NewDocumentWithHistoryDepth(name, DefaultHistoryDepth)
}

// NewDocumentWithHistoryDepth returns an empty Document whose history and
// redo stacks are each capped at depth entries. depth <= 0 selects
// DefaultHistoryDepth.
func NewDocumentWithHistoryDepth(name string, depth int) *Document {
	if depth <= 0 {
		depth = DefaultHistoryDepth
	}
	return &Document{Name: name, cap: depth}
}

// pushHistory appends e to the history stack, discarding the oldest entry
// if the push would exceed cap, and clears the redo stack — every forward
// mutation invalidates any pending redo.
func (d *Document) pushHistory(e edit) {
	d.history = append(d.history, e)
	if len(d.history) > d.cap {
		d.history = d.history[len(d.history)-d.cap:]
	}
	d.redo = nil
}

// AddPart appends p to the Document and returns its index.
func (d *Document) AddPart(p Part) int {
	d.Parts = append(d.Parts, p)
	index := len(d.Parts) - 1
	d.pushHistory(edit{kind: editRemovePart, index: index})
	return index
}

// RemovePart removes the Part at index. An out-of-range index returns an
// *errs.InvalidMesh instead of panicking.
func (d *Document) RemovePart(index int) error {
	if index < 0 || index >= len(d.Parts) {
		return &errs.InvalidMesh{Reason: "document: part index out of range"}
	}
	removed := d.Parts[index]
	d.Parts = append(d.Parts[:index:index], d.Parts[index+1:]...)
	d.pushHistory(edit{kind: editAddPart, index: index, part: removed})
	return nil
}

// ReplacePart swaps the Part at index for replacement.
func (d *Document) ReplacePart(index int, replacement Part) error {
	if index < 0 || index >= len(d.Parts) {
		return &errs.InvalidMesh{Reason: "document: part index out of range"}
	}
	old := d.Parts[index]
	d.Parts[index] = replacement
	d.pushHistory(edit{kind: editReplacePart, index: index, part: old})
	return nil
}

// GetPart returns the Part at index.
func (d *Document) GetPart(index int) (Part, error) {
	if index < 0 || index >= len(d.Parts) {
		return Part{}, &errs.InvalidMesh{Reason: "document: part index out of range"}
	}
	return d.Parts[index], nil
}

// Undo reverses the most recent mutation, pushing its forward counterpart
// onto the redo stack. Returns false, with *errs.HistoryEmpty as err, if
// history is empty; this is non-fatal and callers are expected to check
// the bool rather than treat the error as exceptional.
func (d *Document) Undo() (bool, error) {
	if len(d.history) == 0 {
		return false, &errs.HistoryEmpty{Stack: "history"}
	}
	e := d.history[len(d.history)-1]
	d.history = d.history[:len(d.history)-1]
	forward := d.apply(e)
	d.redo = append(d.redo, forward)
	if len(d.redo) > d.cap {
		d.redo = d.redo[len(d.redo)-d.cap:]
	}
	return true, nil
}

// Redo re-applies the most recently undone mutation.
func (d *Document) Redo() (bool, error) {
	if len(d.redo) == 0 {
		return false, &errs.HistoryEmpty{Stack: "redo"}
	}
	e := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	back := d.apply(e)
	d.history = append(d.history, back)
	if len(d.history) > d.cap {
		d.history = d.history[len(d.history)-d.cap:]
	}
	return true, nil
}

// apply performs the mutation e describes directly against d.Parts,
// bypassing the public AddPart/RemovePart/ReplacePart wrappers (which would
// push new history and clear redo), and returns the edit that would undo
// what it just did.
func (d *Document) apply(e edit) edit {
	switch e.kind {
	case editAddPart:
		// Re-insert a previously removed part at its original index.
		d.Parts = append(d.Parts, Part{})
		copy(d.Parts[e.index+1:], d.Parts[e.index:])
		d.Parts[e.index] = e.part
		return edit{kind: editRemovePart, index: e.index}
	case editRemovePart:
		// Remove the part this edit added (undoing an AddPart).
		removed := d.Parts[e.index]
		d.Parts = append(d.Parts[:e.index:e.index], d.Parts[e.index+1:]...)
		return edit{kind: editAddPart, index: e.index, part: removed}
	case editReplacePart:
		old := d.Parts[e.index]
		d.Parts[e.index] = e.part
		return edit{kind: editReplacePart, index: e.index, part: old}
	default:
		return edit{}
	}
}

// CombinedMesh concatenates every Part's triangle mesh into one, offsetting
// each part's face indices by the running vertex count.
func (d *Document) CombinedMesh() *kernel.TriangleMesh {
	meshes := make([]*kernel.TriangleMesh, len(d.Parts))
	for i, p := range d.Parts {
		meshes[i] = p.Geometry.Mesh
	}
	return kernel.Concat(meshes...)
}
