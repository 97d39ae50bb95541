// Package predicates implements the geometric tests every topological decision
// in the mesher reduces to: orientation, in-circle membership and circumcenter
// location. The float64 fast path is guarded by conservative error bounds; when
// a result is too close to zero to trust, the determinant is re-evaluated in
// arbitrary precision so the sign is always correct.
package predicates

import (
	"math/big"

	"github.com/sponticelli/trimesh/geometry"
)

const (
	// Unit roundoff of float64, 2^-53.
	epsilon = 1.1102230246251565e-16

	// Error bounds for the single-evaluation filters, after Shewchuk. If the
	// computed determinant exceeds the bound its sign is certain; otherwise
	// we fall back to exact arithmetic.
	ccwErrBound      = (3.0 + 16.0*epsilon) * epsilon
	inCircleErrBound = (10.0 + 96.0*epsilon) * epsilon
)

// Config selects the evaluation mode. NoExact disables the exact fallback,
// trading robustness on near-degenerate input for speed. It is run-wide
// configuration: do not toggle it while a triangulation is in flight.
type Config struct {
	NoExact bool
}

// newBigFloat constructs a big.Float with enough precision that sums and
// products of float64 values never round.
func newBigFloat() *big.Float { return new(big.Float).SetPrec(big.MaxPrec) }

// CounterClockwise returns a positive value if the points a, b, c occur in
// counterclockwise order, negative if clockwise, and zero if collinear. The
// magnitude is twice the signed area of the triangle abc.
func (cfg Config) CounterClockwise(a, b, c geometry.Point) float64 {
	detLeft := (a.X - c.X) * (b.Y - c.Y)
	detRight := (a.Y - c.Y) * (b.X - c.X)
	det := detLeft - detRight

	if cfg.NoExact {
		return det
	}

	var detSum float64
	switch {
	case detLeft > 0.0:
		if detRight <= 0.0 {
			return det
		}
		detSum = detLeft + detRight
	case detLeft < 0.0:
		if detRight >= 0.0 {
			return det
		}
		detSum = -detLeft - detRight
	default:
		return det
	}

	errBound := ccwErrBound * detSum
	if det >= errBound || -det >= errBound {
		return det
	}
	return counterClockwiseExact(a, b, c)
}

func counterClockwiseExact(a, b, c geometry.Point) float64 {
	ax, ay := newBigFloat().SetFloat64(a.X), newBigFloat().SetFloat64(a.Y)
	bx, by := newBigFloat().SetFloat64(b.X), newBigFloat().SetFloat64(b.Y)
	cx, cy := newBigFloat().SetFloat64(c.X), newBigFloat().SetFloat64(c.Y)

	acx := newBigFloat().Sub(ax, cx)
	bcy := newBigFloat().Sub(by, cy)
	acy := newBigFloat().Sub(ay, cy)
	bcx := newBigFloat().Sub(bx, cx)

	left := newBigFloat().Mul(acx, bcy)
	right := newBigFloat().Mul(acy, bcx)
	det := newBigFloat().Sub(left, right)

	v, _ := det.Float64()
	if v == 0.0 {
		// Preserve the sign even when the exact value underflows float64.
		switch det.Sign() {
		case 1:
			return epsilon
		case -1:
			return -epsilon
		}
	}
	return v
}

// InCircle returns a positive value if the point d lies strictly inside the
// circle through a, b, c; negative if outside; zero if cocircular. The points
// a, b, c must be in counterclockwise order for the sign convention to hold.
func (cfg Config) InCircle(a, b, c, d geometry.Point) float64 {
	adx := a.X - d.X
	bdx := b.X - d.X
	cdx := c.X - d.X
	ady := a.Y - d.Y
	bdy := b.Y - d.Y
	cdy := c.Y - d.Y

	bdxcdy := bdx * cdy
	cdxbdy := cdx * bdy
	alift := adx*adx + ady*ady

	cdxady := cdx * ady
	adxcdy := adx * cdy
	blift := bdx*bdx + bdy*bdy

	adxbdy := adx * bdy
	bdxady := bdx * ady
	clift := cdx*cdx + cdy*cdy

	det := alift*(bdxcdy-cdxbdy) + blift*(cdxady-adxcdy) + clift*(adxbdy-bdxady)

	if cfg.NoExact {
		return det
	}

	permanent := (abs(bdxcdy)+abs(cdxbdy))*alift +
		(abs(cdxady)+abs(adxcdy))*blift +
		(abs(adxbdy)+abs(bdxady))*clift
	errBound := inCircleErrBound * permanent
	if det > errBound || -det > errBound {
		return det
	}
	return inCircleExact(a, b, c, d)
}

func inCircleExact(a, b, c, d geometry.Point) float64 {
	adx := exactSub(a.X, d.X)
	bdx := exactSub(b.X, d.X)
	cdx := exactSub(c.X, d.X)
	ady := exactSub(a.Y, d.Y)
	bdy := exactSub(b.Y, d.Y)
	cdy := exactSub(c.Y, d.Y)

	alift := newBigFloat().Add(newBigFloat().Mul(adx, adx), newBigFloat().Mul(ady, ady))
	blift := newBigFloat().Add(newBigFloat().Mul(bdx, bdx), newBigFloat().Mul(bdy, bdy))
	clift := newBigFloat().Add(newBigFloat().Mul(cdx, cdx), newBigFloat().Mul(cdy, cdy))

	bcdet := newBigFloat().Sub(newBigFloat().Mul(bdx, cdy), newBigFloat().Mul(cdx, bdy))
	cadet := newBigFloat().Sub(newBigFloat().Mul(cdx, ady), newBigFloat().Mul(adx, cdy))
	abdet := newBigFloat().Sub(newBigFloat().Mul(adx, bdy), newBigFloat().Mul(bdx, ady))

	det := newBigFloat().Add(
		newBigFloat().Add(newBigFloat().Mul(alift, bcdet), newBigFloat().Mul(blift, cadet)),
		newBigFloat().Mul(clift, abdet))

	v, _ := det.Float64()
	if v == 0.0 {
		switch det.Sign() {
		case 1:
			return epsilon
		case -1:
			return -epsilon
		}
	}
	return v
}

func exactSub(x, y float64) *big.Float {
	return newBigFloat().Sub(newBigFloat().SetFloat64(x), newBigFloat().SetFloat64(y))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
