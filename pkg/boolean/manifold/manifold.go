//go:build manifold

// Package manifold implements boolean.Engine with a CGo binding to the
// Manifold library (https://github.com/elalish/manifold). Unlike the sdfx
// backend, Manifold ingests and returns arbitrary triangle meshes directly,
// so this is the backend to reach for once a GeometryData has collapsed to
// KindMesh (after a non-rigid transform, an imported file, or a prior
// boolean result) and guaranteed-manifold output matters more than build
// simplicity.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"runtime"
	"unsafe"

	"github.com/cadforge/parasolve/pkg/boolean"
	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/kernel"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// Compile-time interface check.
var _ boolean.Engine = (*Engine)(nil)

// Engine implements boolean.Engine using the Manifold C library.
type Engine struct{}

// New creates a new manifold-backed Engine.
func New() (*Engine, error) {
	return &Engine{}, nil
}

// manifoldHandle wraps a C ManifoldManifold pointer with a Go-side
// finalizer for automatic memory management, mirroring the teacher's
// manifoldSolid/newSolid pattern.
type manifoldHandle struct {
	ptr *C.ManifoldManifold
}

func newHandle(ptr *C.ManifoldManifold) *manifoldHandle {
	h := &manifoldHandle{ptr: ptr}
	runtime.SetFinalizer(h, func(h *manifoldHandle) {
		if h.ptr != nil {
			C.manifold_delete_manifold(h.ptr)
			h.ptr = nil
		}
	})
	return h
}

// Union returns the regularized union of a and b.
func (e *Engine) Union(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	ha, hb, err := e.handles(boolean.OpUnion, a, b)
	if err != nil {
		return nil, err
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_union(alloc, ha.ptr, hb.ptr)
	return e.finish(boolean.OpUnion, newHandle(ptr))
}

// Difference returns the regularized difference a minus b.
func (e *Engine) Difference(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	ha, hb, err := e.handles(boolean.OpDifference, a, b)
	if err != nil {
		return nil, err
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_difference(alloc, ha.ptr, hb.ptr)
	return e.finish(boolean.OpDifference, newHandle(ptr))
}

// Intersection returns the regularized intersection of a and b.
func (e *Engine) Intersection(a, b *kernel.GeometryData) (*kernel.GeometryData, error) {
	ha, hb, err := e.handles(boolean.OpIntersection, a, b)
	if err != nil {
		return nil, err
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_intersection(alloc, ha.ptr, hb.ptr)
	return e.finish(boolean.OpIntersection, newHandle(ptr))
}

// handles validates a and b and converts them into manifold handles.
func (e *Engine) handles(op boolean.Op, a, b *kernel.GeometryData) (*manifoldHandle, *manifoldHandle, error) {
	if err := boolean.ValidateOperands(a, b); err != nil {
		return nil, nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	ha, err := fromMesh(a.Mesh)
	if err != nil {
		return nil, nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	hb, err := fromMesh(b.Mesh)
	if err != nil {
		return nil, nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	return ha, hb, nil
}

// finish converts a manifold result handle back into GeometryData.
func (e *Engine) finish(op boolean.Op, result *manifoldHandle) (*kernel.GeometryData, error) {
	mesh, err := toMesh(result)
	if err != nil {
		return nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	if err := mesh.Validate(); err != nil {
		return nil, &errs.BooleanFailure{Op: op.String(), Reason: err.Error()}
	}
	return kernel.FromMesh(mesh), nil
}

// fromMesh builds a manifold handle from an arbitrary triangle mesh by
// constructing a MeshGL with position-only vertex properties and handing
// it to manifold_of_meshgl, the constructor-side counterpart of the
// manifold_get_meshgl accessor used by toMesh below.
func fromMesh(mesh *kernel.TriangleMesh) (*manifoldHandle, error) {
	numVert := mesh.VertexCount()
	numTri := mesh.TriangleCount()

	props := make([]C.float, numVert*3)
	for i, v := range mesh.Vertices {
		props[i*3+0] = C.float(v.X)
		props[i*3+1] = C.float(v.Y)
		props[i*3+2] = C.float(v.Z)
	}
	tris := make([]C.uint32_t, numTri*3)
	for i, f := range mesh.Faces {
		tris[i*3+0] = C.uint32_t(f[0])
		tris[i*3+1] = C.uint32_t(f[1])
		tris[i*3+2] = C.uint32_t(f[2])
	}

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_meshgl(meshAlloc,
		(*C.float)(unsafe.Pointer(&props[0])), C.size_t(numVert), C.size_t(3),
		(*C.uint32_t)(unsafe.Pointer(&tris[0])), C.size_t(numTri),
	)
	defer C.manifold_delete_meshgl(meshGL)

	manifoldAlloc := C.manifold_alloc_manifold()
	ptr := C.manifold_of_meshgl(manifoldAlloc, meshGL)
	return newHandle(ptr), nil
}

// toMesh extracts a TriangleMesh from a manifold handle via its MeshGL
// representation, taking only the position properties and discarding any
// additional per-vertex attributes Manifold may have generated.
func toMesh(h *manifoldHandle) (*kernel.TriangleMesh, error) {
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, h.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return kernel.NewTriangleMesh(nil, nil), nil
	}
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propData := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&propData[0])), meshGL)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	vertices := make([]vecmath.Vec3, numVert)
	for i := 0; i < numVert; i++ {
		base := i * numProp
		vertices[i] = vecmath.Vec3{
			X: float64(propData[base+0]),
			Y: float64(propData[base+1]),
			Z: float64(propData[base+2]),
		}
	}
	faces := make([]kernel.Face, numTri)
	for i := 0; i < numTri; i++ {
		faces[i] = kernel.Face{int(indices[i*3+0]), int(indices[i*3+1]), int(indices[i*3+2])}
	}
	return kernel.NewTriangleMesh(vertices, faces), nil
}
