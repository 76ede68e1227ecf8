package flow

import (
	"fmt"
	"math"

	"regen/model"
	"regen/numeric"
)

// bracket limits for the area-Mach root
const (
	machMin      = 1e-8
	machGuessSup = 5.0
	machExpandIt = 40
)

// Isentropic evaluates local one-dimensional isentropic flow from the
// stagnation state.
type Isentropic struct {
	P0    float64
	T0    float64
	Gamma float64
}

func NewIsentropic(p0, t0, gamma float64) (*Isentropic, error) {
	if p0 <= 0 || t0 <= 0 {
		return nil, model.InvalidConfig("stagnation state must be positive (p0=%g, T0=%g)", p0, t0)
	}
	if gamma <= 1 {
		return nil, model.InvalidConfig("gamma must exceed 1, got %g", gamma)
	}
	return &Isentropic{P0: p0, T0: t0, Gamma: gamma}, nil
}

// areaResidual is ln of the area-Mach function minus ln (A/A*)^2, which
// keeps the residual finite near M=0 and for large M.
func (o *Isentropic) areaResidual(m, areaRatio float64) float64 {
	g := o.Gamma
	return -2*math.Log(m) + (g+1)/(g-1)*math.Log(2/(g+1)*(1+(g-1)/2*m*m)) - 2*math.Log(areaRatio)
}

// Mach solves the area-Mach relation on the requested branch.
func (o *Isentropic) Mach(areaRatio float64, branch model.Branch) (float64, error) {
	if math.IsNaN(areaRatio) || areaRatio < 1-1e-9 {
		return math.NaN(), fmt.Errorf("area ratio %g below 1: %w", areaRatio, model.ErrNonConvergence)
	}
	if areaRatio <= 1+1e-12 {
		return 1, nil
	}
	f := func(m float64) float64 { return o.areaResidual(m, areaRatio) }
	if branch == model.Subsonic {
		m, err := numeric.Brent(f, machMin, 1, 1e-12, 0)
		if err != nil {
			return m, fmt.Errorf("subsonic mach for A/A*=%g: %w", areaRatio, err)
		}
		return m, nil
	}
	a, b, err := numeric.Expand(f, 1, machGuessSup, 2, machExpandIt)
	if err != nil {
		return math.NaN(), fmt.Errorf("supersonic mach for A/A*=%g: %w", areaRatio, err)
	}
	m, err := numeric.Brent(f, a, b, 1e-12, 0)
	if err != nil {
		return m, fmt.Errorf("supersonic mach for A/A*=%g: %w", areaRatio, err)
	}
	return m, nil
}

// StaticPressure p = p0 / (1 + (γ-1)/2 M²)^(γ/(γ-1))
func (o *Isentropic) StaticPressure(m float64) float64 {
	g := o.Gamma
	return o.P0 / math.Pow(1+(g-1)/2*m*m, g/(g-1))
}

// StaticTemperature T = T0 / (1 + (γ-1)/2 M²)
func (o *Isentropic) StaticTemperature(m float64) float64 {
	return o.T0 / (1 + (o.Gamma-1)/2*m*m)
}

// RecoveryFactor assumes a turbulent boundary layer upstream of the throat
// and a laminar one downstream.
func RecoveryFactor(branch model.Branch, pr float64) float64 {
	if branch == model.Supersonic {
		return math.Cbrt(pr)
	}
	return math.Sqrt(pr)
}

// AdiabaticWallTemp returns the recovery temperature at Mach m.
func (o *Isentropic) AdiabaticWallTemp(m float64, branch model.Branch, pr float64) float64 {
	r := RecoveryFactor(branch, pr)
	k := (o.Gamma - 1) / 2 * m * m
	return o.T0 * (1 + r*k) / (1 + k)
}

// Local fills the isentropic fields of st. The gas properties may differ
// per region so gamma and Pr come from gas rather than o.
func Local(st *model.Station, throatArea, p0 float64, gas model.GasState) error {
	o, err := NewIsentropic(p0, gas.T0, gas.Gamma)
	if err != nil {
		return err
	}
	st.AreaRatio = st.Area / throatArea
	m, err := o.Mach(st.AreaRatio, st.Branch)
	if err != nil {
		return err
	}
	st.Mach = m
	st.StaticPressure = o.StaticPressure(m)
	st.StaticTemp = o.StaticTemperature(m)
	st.UncooledWallT = o.AdiabaticWallTemp(m, st.Branch, gas.Prandtl)
	st.AdiabaticWallT = st.UncooledWallT
	return nil
}
