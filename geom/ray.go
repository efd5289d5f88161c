package geom

import (
	"github.com/mwlodarzc/kdray/types"
)

// A ray parameterized as Origin + t*Dir. Dir is always unit length.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
}

// Create a ray from an origin and a (not necessarily unit) direction.
func NewRay(origin, dir types.Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir.Normalize(),
	}
}

// Get the point at distance t along the ray.
func (r Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
