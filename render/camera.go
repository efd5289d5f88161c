package render

import (
	"math"

	"github.com/mwlodarzc/kdray/geom"
	"github.com/mwlodarzc/kdray/types"
)

// A pinhole camera. Rays are generated towards a viewport plane spanned by
// the horizontal/vertical vectors from its lower left corner.
type Camera struct {
	origin          types.Vec3
	lowerLeftCorner types.Vec3
	horizontal      types.Vec3
	vertical        types.Vec3
}

// Create a camera at lookFrom facing lookAt. fov is the vertical field of
// view in degrees.
func NewCamera(lookFrom, lookAt, vup types.Vec3, fov, aspect float32) *Camera {
	theta := float64(fov) * math.Pi / 180.0
	halfHeight := float32(math.Tan(theta / 2.0))
	halfWidth := aspect * halfHeight

	w := lookFrom.Sub(lookAt).Normalize()
	u := vup.Cross(w).Normalize()
	v := w.Cross(u)

	return &Camera{
		origin:          lookFrom,
		lowerLeftCorner: lookFrom.Sub(u.Mul(halfWidth)).Sub(v.Mul(halfHeight)).Sub(w),
		horizontal:      u.Mul(2 * halfWidth),
		vertical:        v.Mul(2 * halfHeight),
	}
}

// Generate the ray through viewport coordinates (s, t) in [0, 1].
func (c *Camera) RayThrough(s, t float32) geom.Ray {
	target := c.lowerLeftCorner.Add(c.horizontal.Mul(s)).Add(c.vertical.Mul(t))
	return geom.NewRay(c.origin, target.Sub(c.origin))
}
