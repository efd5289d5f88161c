package geom

// Test a ray against a single primitive. A hit is reported only when the hit
// distance t lies strictly inside (tMin, tMax); callers pass their current
// best distance as tMax so primitives already known to be farther are skipped
// without solving for surface coordinates.
//
// On a hit, alpha and beta are the coordinates of the hit point in the
// (AX, BX) edge basis; they double as texture coordinates downstream.
func Intersect(r Ray, p *Primitive, tMin, tMax float32) (t, alpha, beta float32, ok bool) {
	nd := p.N.Dot(r.Dir)
	if abs32(nd) < detEpsilon {
		// Ray parallel to the primitive plane.
		return 0, 0, 0, false
	}

	t = p.N.Dot(p.X.Sub(r.Origin)) / nd
	if t <= tMin || t >= tMax {
		return 0, 0, 0, false
	}

	// p̂ = hit point relative to the anchor vertex.
	px := r.At(t).Sub(p.X)

	// Solve p̂ = alpha*AX + beta*BX using the first sub-determinant that is
	// safely away from zero. If all three vanish the primitive is degenerate
	// and never hits.
	ax, bx := p.AX, p.BX
	switch {
	case abs32(p.Det[0]) >= detEpsilon:
		inv := 1.0 / p.Det[0]
		alpha = (px[1]*bx[2] - px[2]*bx[1]) * inv
		beta = (px[2]*ax[1] - px[1]*ax[2]) * inv
	case abs32(p.Det[1]) >= detEpsilon:
		inv := 1.0 / p.Det[1]
		alpha = (px[0]*bx[2] - px[2]*bx[0]) * inv
		beta = (px[2]*ax[0] - px[0]*ax[2]) * inv
	case abs32(p.Det[2]) >= detEpsilon:
		inv := 1.0 / p.Det[2]
		alpha = (px[0]*bx[1] - px[1]*bx[0]) * inv
		beta = (px[1]*ax[0] - px[0]*ax[1]) * inv
	default:
		return 0, 0, 0, false
	}

	if p.Quad {
		ok = alpha > 0 && alpha < 1 && beta > 0 && beta < 1
	} else {
		ok = alpha > 0 && beta > 0 && alpha+beta < 1
	}
	if !ok {
		return 0, 0, 0, false
	}

	return t, alpha, beta, true
}
