package numeric

import (
	"fmt"
	"math"

	"regen/model"
)

// Defaults for Brent.
const (
	DefaultTol   = 1e-12
	DefaultMaxIt = 200
)

// Brent finds a root of f in [a, b]. f(a) and f(b) must have opposite
// signs; a failed bracket or iteration cap is reported as
// model.ErrNonConvergence.
func Brent(f func(float64) float64, a, b, tol float64, maxIt int) (float64, error) {
	if tol <= 0 {
		tol = DefaultTol
	}
	if maxIt <= 0 {
		maxIt = DefaultMaxIt
	}
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return math.NaN(), fmt.Errorf("root bracket [%g, %g] evaluates to NaN: %w", a, b, model.ErrNonConvergence)
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if fa*fb > 0 {
		return math.NaN(), fmt.Errorf("root not bracketed in [%g, %g] (f=%g, %g): %w", a, b, fa, fb, model.ErrNonConvergence)
	}

	c, fc := a, fa
	d := b - a
	e := d
	for it := 0; it < maxIt; it++ {
		if fb*fc > 0 {
			c, fc = a, fa
			d = b - a
			e = d
		}
		if math.Abs(fc) < math.Abs(fb) {
			a, b, c = b, c, b
			fa, fb, fc = fb, fc, fb
		}
		tol1 := 2*math.SmallestNonzeroFloat64 + 0.5*tol*math.Max(1, math.Abs(b))
		xm := 0.5 * (c - b)
		if math.Abs(xm) <= tol1 || fb == 0 {
			return b, nil
		}
		if math.Abs(e) >= tol1 && math.Abs(fa) > math.Abs(fb) {
			// inverse quadratic interpolation, secant when only two points
			var p, q float64
			s := fb / fa
			if a == c {
				p = 2 * xm * s
				q = 1 - s
			} else {
				q = fa / fc
				r := fb / fc
				p = s * (2*xm*q*(q-r) - (b-a)*(r-1))
				q = (q - 1) * (r - 1) * (s - 1)
			}
			if p > 0 {
				q = -q
			}
			p = math.Abs(p)
			if 2*p < math.Min(3*xm*q-math.Abs(tol1*q), math.Abs(e*q)) {
				e = d
				d = p / q
			} else {
				d = xm
				e = d
			}
		} else {
			d = xm
			e = d
		}
		a, fa = b, fb
		if math.Abs(d) > tol1 {
			b += d
		} else if xm > 0 {
			b += tol1
		} else {
			b -= tol1
		}
		fb = f(b)
		if math.IsNaN(fb) {
			return math.NaN(), fmt.Errorf("root iterate %g evaluates to NaN: %w", b, model.ErrNonConvergence)
		}
	}
	return b, model.NonConvergence("brent root", maxIt)
}

// Expand grows [a, b] geometrically away from a until f changes sign,
// keeping a fixed. It is used when only one side of the root is known.
func Expand(f func(float64) float64, a, b, factor float64, maxIt int) (float64, float64, error) {
	fa := f(a)
	for it := 0; it < maxIt; it++ {
		fb := f(b)
		if fa*fb <= 0 {
			return a, b, nil
		}
		b = a + (b-a)*factor
	}
	return a, b, fmt.Errorf("no sign change between %g and %g: %w", a, b, model.ErrNonConvergence)
}
