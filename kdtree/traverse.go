package kdtree

import (
	"errors"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/types"
)

// Hit distance window. Hits closer than HitTimeMin are discarded so
// secondary rays do not re-hit their own surface.
const (
	HitTimeMin float32 = 1e-4
	HitTimeMax float32 = 1e+9
)

// The flat index is produced and consumed inside this module; an offset or
// count that falls outside the stream means the flattener is broken, not the
// caller, so traversal panics with this error instead of guessing.
var ErrCorruptIndex = errors.New("kdtree: corrupt flat index")

// The nearest intersection along a ray.
type Hit struct {
	// Distance along the (unit) ray direction.
	T float32

	// Index into the primitive table the index was built from.
	PrimID int32

	// Surface coordinates of the hit point in the primitive edge basis.
	Alpha float32
	Beta  float32

	// World-space hit point and primitive plane normal.
	Point  types.Vec3
	Normal types.Vec3
}

// Mutable traversal state for one ray. Lives on the caller's stack.
type cursorState struct {
	best      float32
	bestID    int32
	bestAlpha float32
	bestBeta  float32
}

// Walk the flat index for a ray and return the nearest hit among prims, the
// primitive table the index was built from.
//
// The walk keeps a single block cursor and never recurses or allocates. An
// inner block always tests its mid data block (the straddlers resolved at
// that node) and then box-tests both children: one side hit moves the cursor
// down that side, both sides hit moves it to the precomputed left+right data
// block, which is terminal, and no side hit terminates. The index is never
// written, so any number of rays may traverse it concurrently.
func (f FlatIndex) NearestHit(r geom.Ray, prims []geom.Primitive) (Hit, bool) {
	if len(f) == 0 {
		return Hit{}, false
	}

	st := cursorState{best: HitTimeMax, bestID: -1}

	cursor := int32(0)
	for {
		if cursor < 0 || cursor+offCount > int32(len(f)) {
			panic(ErrCorruptIndex)
		}

		if f[cursor+offMark] < 0 {
			// Data block: either an original leaf or a left+right combined
			// block. Both are terminal.
			f.testData(cursor, r, prims, &st)
			break
		}

		if cursor+innerWords > int32(len(f)) {
			panic(ErrCorruptIndex)
		}

		// Straddlers live at this node and are tested no matter which side
		// the ray continues into.
		f.testData(f[cursor+offMid], r, prims, &st)

		leftOff := f[cursor+offLeft]
		rightOff := f[cursor+offRight]
		if leftOff < 0 || leftOff+offCount > int32(len(f)) ||
			rightOff < 0 || rightOff+offCount > int32(len(f)) {
			panic(ErrCorruptIndex)
		}

		hitLeft := f.boxAt(leftOff).HitsRay(r, HitTimeMin, st.best)
		hitRight := f.boxAt(rightOff).HitsRay(r, HitTimeMin, st.best)

		if hitLeft && hitRight {
			// Without a stack the two descents are replaced by one
			// exhaustive test of everything below this node.
			f.testData(f[cursor+offLR], r, prims, &st)
			break
		}
		if hitLeft {
			cursor = leftOff
			continue
		}
		if hitRight {
			cursor = rightOff
			continue
		}
		break
	}

	if st.bestID < 0 {
		return Hit{}, false
	}
	return Hit{
		T:      st.best,
		PrimID: st.bestID,
		Alpha:  st.bestAlpha,
		Beta:   st.bestBeta,
		Point:  r.At(st.best),
		Normal: prims[st.bestID].N,
	}, true
}

// Test the ray against every primitive listed in the data block at off,
// tightening the best hit in st.
func (f FlatIndex) testData(off int32, r geom.Ray, prims []geom.Primitive, st *cursorState) {
	if off < 0 || off+offIndices > int32(len(f)) || f[off+offMark] >= 0 {
		panic(ErrCorruptIndex)
	}
	n := f[off+offCount]
	if n < 0 || off+offIndices+n > int32(len(f)) {
		panic(ErrCorruptIndex)
	}

	for _, idx := range f[off+offIndices : off+offIndices+n] {
		if idx < 0 || idx >= int32(len(prims)) {
			panic(ErrCorruptIndex)
		}
		if t, alpha, beta, ok := geom.Intersect(r, &prims[idx], HitTimeMin, st.best); ok {
			st.best = t
			st.bestID = idx
			st.bestAlpha, st.bestBeta = alpha, beta
		}
	}
}
