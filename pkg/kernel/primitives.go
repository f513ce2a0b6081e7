package kernel

import (
	"math"

	"github.com/cadforge/parasolve/pkg/errs"
	"github.com/cadforge/parasolve/pkg/vecmath"
)

// checkPositiveFinite validates a single dimension argument, returning an
// *errs.InvalidDimension if it is non-positive or non-finite.
func checkPositiveFinite(primitive, param string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &errs.InvalidDimension{Primitive: primitive, Param: param, Value: v}
	}
	return nil
}

// Box tessellates an axis-aligned box of dimensions (w,h,d) centered at the
// origin: 8 vertices at (+-w/2, +-h/2, +-d/2), 12 outward-facing triangles
// (two per face). Fails with *errs.InvalidDimension if any dimension is
// non-positive or non-finite.
func Box(w, h, d float64) (*TriangleMesh, error) {
	if err := checkPositiveFinite("box", "width", w); err != nil {
		return nil, err
	}
	if err := checkPositiveFinite("box", "height", h); err != nil {
		return nil, err
	}
	if err := checkPositiveFinite("box", "depth", d); err != nil {
		return nil, err
	}

	hw, hh, hd := w/2, h/2, d/2
	// Corner order: bit 0 = +-X, bit 1 = +-Y, bit 2 = +-Z.
	v := make([]vecmath.Vec3, 8)
	for i := 0; i < 8; i++ {
		x, y, z := hw, hh, hd
		if i&1 == 0 {
			x = -x
		}
		if i&2 == 0 {
			y = -y
		}
		if i&4 == 0 {
			z = -z
		}
		v[i] = vecmath.Vec3{X: x, Y: y, Z: z}
	}

	// Corner indices per face, each pair of triangles wound outward by the
	// right-hand rule.
	faces := []Face{
		// -X face (x = -hw): corners 0,4,6,2
		{0, 4, 6}, {0, 6, 2},
		// +X face (x = +hw): corners 1,3,7,5
		{1, 3, 7}, {1, 7, 5},
		// -Y face (y = -hh): corners 0,1,5,4
		{0, 1, 5}, {0, 5, 4},
		// +Y face (y = +hh): corners 2,6,7,3
		{2, 6, 7}, {2, 7, 3},
		// -Z face (z = -hd): corners 0,2,3,1
		{0, 2, 3}, {0, 3, 1},
		// +Z face (z = +hd): corners 4,5,7,6
		{4, 5, 7}, {4, 7, 6},
	}
	return &TriangleMesh{Vertices: v, Faces: faces}, nil
}

// defaultCylinderSegments is the circular tessellation resolution used when
// the caller does not specify one.
const defaultCylinderSegments = 32

// Cylinder tessellates a cylinder of the given height and radius, centered
// at the origin with its axis along +Z. segments controls the circular
// resolution; <= 0 selects the default of 32. Produces 2N+2 vertices (N
// bottom rim, N top rim, 2 cap centers) and 4N triangles (2N side, N per
// cap), per spec.md §4.1/§8.
func Cylinder(height, radius float64, segments int) (*TriangleMesh, error) {
	if err := checkPositiveFinite("cylinder", "radius", radius); err != nil {
		return nil, err
	}
	if err := checkPositiveFinite("cylinder", "height", height); err != nil {
		return nil, err
	}
	n := segments
	if n <= 0 {
		n = defaultCylinderSegments
	}

	halfH := height / 2
	vertices := make([]vecmath.Vec3, 0, 2*n+2)
	// Bottom rim: indices [0, n).
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		vertices = append(vertices, vecmath.Vec3{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: -halfH})
	}
	// Top rim: indices [n, 2n).
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		vertices = append(vertices, vecmath.Vec3{X: radius * math.Cos(theta), Y: radius * math.Sin(theta), Z: halfH})
	}
	bottomCenter := len(vertices) // index 2n
	vertices = append(vertices, vecmath.Vec3{X: 0, Y: 0, Z: -halfH})
	topCenter := len(vertices) // index 2n+1
	vertices = append(vertices, vecmath.Vec3{X: 0, Y: 0, Z: halfH})

	faces := make([]Face, 0, 4*n)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		bi, bj := i, j
		ti, tj := n+i, n+j
		// Quad (bi, bj, tj, ti) split along the lower-left diagonal (bi,tj).
		faces = append(faces, Face{bi, bj, tj})
		faces = append(faces, Face{bi, tj, ti})
	}
	// Bottom cap: fan from bottomCenter, wound outward (normal -Z) by
	// visiting the rim in reverse (CW as seen from -Z looking toward +Z).
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, Face{bottomCenter, j, i})
	}
	// Top cap: fan from topCenter, wound outward (normal +Z).
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		faces = append(faces, Face{topCenter, n + i, n + j})
	}

	return &TriangleMesh{Vertices: vertices, Faces: faces}, nil
}

// defaultSphereRings/Segments control UV-sphere resolution when the caller
// passes <= 0 for either.
const (
	defaultSphereRings    = 16
	defaultSphereSegments = 32
)

// Sphere tessellates a UV-sphere of the given radius centered at the
// origin, resolving the Open Question in spec.md: sphere is implemented,
// not rejected. rings is the number of latitude bands (>= 2), segments the
// number of longitude divisions (>= 3); <= 0 selects the defaults above.
// The poles are single vertices with triangle fans to the first and last
// interior ring; interior bands are quad-split like the cylinder sides.
func Sphere(radius float64, rings, segments int) (*TriangleMesh, error) {
	if err := checkPositiveFinite("sphere", "radius", radius); err != nil {
		return nil, err
	}
	if rings <= 0 {
		rings = defaultSphereRings
	}
	if rings < 2 {
		rings = 2
	}
	if segments <= 0 {
		segments = defaultSphereSegments
	}
	if segments < 3 {
		segments = 3
	}

	var vertices []vecmath.Vec3
	northPole := len(vertices)
	vertices = append(vertices, vecmath.Vec3{X: 0, Y: 0, Z: radius})

	// Interior latitude rings, rings-1 of them, excluding the poles.
	ringStart := make([]int, rings-1)
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings) // 0 at north pole, pi at south
		z := radius * math.Cos(phi)
		rr := radius * math.Sin(phi)
		ringStart[r-1] = len(vertices)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			vertices = append(vertices, vecmath.Vec3{X: rr * math.Cos(theta), Y: rr * math.Sin(theta), Z: z})
		}
	}
	southPole := len(vertices)
	vertices = append(vertices, vecmath.Vec3{X: 0, Y: 0, Z: -radius})

	var faces []Face
	// North cap: fan from northPole to the first interior ring.
	first := ringStart[0]
	for s := 0; s < segments; s++ {
		j := (s + 1) % segments
		faces = append(faces, Face{northPole, first + s, first + j})
	}
	// Interior bands, quad-split along the lower-left diagonal like the
	// cylinder side wall.
	for r := 0; r < rings-2; r++ {
		top := ringStart[r]
		bot := ringStart[r+1]
		for s := 0; s < segments; s++ {
			j := (s + 1) % segments
			ti, tj := top+s, top+j
			bi, bj := bot+s, bot+j
			faces = append(faces, Face{ti, bi, bj})
			faces = append(faces, Face{ti, bj, tj})
		}
	}
	// South cap: fan from southPole to the last interior ring.
	last := ringStart[len(ringStart)-1]
	for s := 0; s < segments; s++ {
		j := (s + 1) % segments
		faces = append(faces, Face{southPole, last + j, last + s})
	}

	return &TriangleMesh{Vertices: vertices, Faces: faces}, nil
}
