package geom

import (
	"github.com/mwlodarzc/kdray/types"
)

// Sub-determinant magnitudes below this are treated as zero when solving for
// the surface coordinates of a hit point.
const detEpsilon = 1e-8

// A triangle or parallelogram surface element:
//
//	   a ------      a
//	  /       /     / \
//	 /       /    |/   \
//	x ----- b     x --- b
//
// The shape is stored in precomputed form: the anchor vertex X, the edge
// vectors AX = a-x and BX = b-x, the unit plane normal N, and the three 2x2
// sub-determinants of the (AX, BX) projections onto each pair of axes. The
// intersector picks the first usable determinant to solve for the (alpha,
// beta) coordinates of a hit point, so at most one of the three is consumed
// per test.
type Primitive struct {
	X  types.Vec3
	AX types.Vec3
	BX types.Vec3
	N  types.Vec3

	// Det[k] is the determinant of the (AX, BX) projection that drops axis k.
	Det [3]float32

	// Quads accept 0<alpha<1, 0<beta<1; triangles alpha>0, beta>0, alpha+beta<1.
	Quad bool

	Box AABB
}

// Create a triangle with corners x, a, b.
func NewTriangle(x, a, b types.Vec3) Primitive {
	return newPrimitive(x, a, b, false)
}

// Create the parallelogram spanned by the corners x, a, b; the fourth corner
// is a+b-x.
func NewQuad(x, a, b types.Vec3) Primitive {
	return newPrimitive(x, a, b, true)
}

func newPrimitive(x, a, b types.Vec3, quad bool) Primitive {
	ax := a.Sub(x)
	bx := b.Sub(x)

	p := Primitive{
		X:    x,
		AX:   ax,
		BX:   bx,
		N:    bx.Cross(ax).Normalize(),
		Quad: quad,
		Det: [3]float32{
			ax[1]*bx[2] - ax[2]*bx[1],
			ax[0]*bx[2] - ax[2]*bx[0],
			ax[0]*bx[1] - ax[1]*bx[0],
		},
	}

	box := NewAABB().Extend(x).Extend(a).Extend(b)
	if quad {
		box = box.Extend(x.Add(ax).Add(bx))
	}
	p.Box = box

	return p
}

// A primitive with zero area has all three sub-determinants at zero and can
// never report a hit.
func (p *Primitive) Degenerate() bool {
	return abs32(p.Det[0]) < detEpsilon &&
		abs32(p.Det[1]) < detEpsilon &&
		abs32(p.Det[2]) < detEpsilon
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
