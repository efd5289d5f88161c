package geom

import (
	"math"

	"github.com/mwlodarzc/kdray/types"
)

// An axis-aligned bounding box. Min <= Max holds componentwise for any box
// produced by this package.
type AABB struct {
	Min types.Vec3
	Max types.Vec3
}

// An empty box that folds correctly via Extend/Union.
func NewAABB() AABB {
	return AABB{
		Min: types.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		Max: types.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

// Grow the box to include a point.
func (b AABB) Extend(p types.Vec3) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, p),
		Max: types.MaxVec3(b.Max, p),
	}
}

// Grow the box to include another box.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: types.MinVec3(b.Min, other.Min),
		Max: types.MaxVec3(b.Max, other.Max),
	}
}

// Get the box side lengths.
func (b AABB) Size() types.Vec3 {
	return b.Max.Sub(b.Min)
}

// Slab test against the three axis-aligned interval pairs. Reports whether
// the ray passes through the box at some distance inside [tMin, tMax]. Used
// only for pruning; it never produces a hit by itself.
func (b AABB) HitsRay(r Ray, tMin, tMax float32) bool {
	tNear := tMin
	tFar := tMax

	for axis := 0; axis < 3; axis++ {
		invD := 1.0 / r.Dir[axis]
		t0 := (b.Min[axis] - r.Origin[axis]) * invD
		t1 := (b.Max[axis] - r.Origin[axis]) * invD
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return false
		}
	}

	return true
}
