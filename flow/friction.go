package flow

import (
	"fmt"
	"math"

	"regen/model"
	"regen/numeric"
)

// LaminarLimit is the Reynolds number below which the Darcy friction factor
// is taken as 64/Re.
const LaminarLimit = 2300.0

// DefaultRoughness of a milled channel, m.
const DefaultRoughness = 6e-6

// Colebrook returns the Darcy friction factor for Reynolds number re and
// relative roughness eps/D. The implicit relation is solved for 1/sqrt(f).
func Colebrook(re, relRough float64) (float64, error) {
	if re <= 0 || math.IsNaN(re) {
		return math.NaN(), fmt.Errorf("friction factor at Re=%g: %w", re, model.ErrNonConvergence)
	}
	if re < LaminarLimit {
		return 64 / re, nil
	}
	g := func(x float64) float64 {
		return x + 2*math.Log10(relRough/3.7+2.51*x/re)
	}
	x, err := numeric.Brent(g, 1e-3, 100, 1e-12, 0)
	if err != nil {
		return math.NaN(), fmt.Errorf("colebrook at Re=%g: %w", re, err)
	}
	return 1 / (x * x), nil
}

// DarcyPressureDrop over length l of a duct with hydraulic diameter dh.
func DarcyPressureDrop(f, l, dh, rho, v float64) float64 {
	return f * l / dh * rho * v * v / 2
}
