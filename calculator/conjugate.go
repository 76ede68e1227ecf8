package calculator

import (
	"fmt"
	"math"

	"regen/flow"
	"regen/model"
	"regen/properties"
)

// Wall is the liner seen by the conduction path. A zero TBC thickness or
// conductivity means no coating.
type Wall struct {
	Conductivity    float64
	TbcThickness    float64
	TbcConductivity float64
}

func (w Wall) tbcResistance() float64 {
	if w.TbcThickness <= 0 || w.TbcConductivity <= 0 {
		return 0
	}
	return w.TbcThickness / w.TbcConductivity
}

// StationInput is everything the conjugate solve needs at one station.
type StationInput struct {
	Station  *model.Station
	Gas      model.GasState
	Coolant  model.CoolantState
	Geometry model.ChannelGeometry
}

// Conjugate iterates gas film, coating, wall and coolant film until the
// hot and cold wall temperatures settle.
type Conjugate struct {
	GasSide *GasSide
	Coolant properties.FluidProvider
	Wall    Wall

	Tol      float64
	MaxIt    int
	InitialT float64 // starting guess for every wall temperature
}

func NewConjugate(gs *GasSide, coolant properties.FluidProvider, wall Wall) *Conjugate {
	return &Conjugate{
		GasSide:  gs,
		Coolant:  coolant,
		Wall:     wall,
		Tol:      1e-6,
		MaxIt:    1000,
		InitialT: 300,
	}
}

// coolantFlow returns velocity and Reynolds number of the bulk coolant in
// the channels described by g.
func coolantFlow(c model.CoolantState, g model.ChannelGeometry) (v, re float64) {
	v = c.MassFlow / (c.Density * g.TotalFlowArea())
	re = c.Density * v * g.HydraulicDiameter() / c.Viscosity
	return v, re
}

// Solve runs the inner fixed point. The iteration always starts from
// InitialT so repeated calls with the same input agree exactly.
func (c *Conjugate) Solve(in StationInput) (model.ThermalState, error) {
	st := in.Station
	dh := in.Geometry.HydraulicDiameter()
	wt := in.Geometry.Wt1
	if dh <= 0 || wt <= 0 || in.Geometry.TotalFlowArea() <= 0 {
		return model.ThermalState{}, model.Infeasible("channel not laid out (dh=%g, wt=%g)", dh, wt)
	}
	k := c.Wall.Conductivity
	rTbc := c.Wall.tbcResistance()
	taw := st.AdiabaticWallT
	tc := in.Coolant.Temperature

	v, re := coolantFlow(in.Coolant, in.Geometry)
	qrad := Radiation(st, in.Gas)

	ts, tw, tcw := c.InitialT, c.InitialT, c.InitialT
	var out model.ThermalState
	for it := 1; ; it++ {
		hg := c.GasSide.Coefficient(st, in.Gas, ts)
		wallFluid, err := c.Coolant.State(tcw, in.Coolant.Pressure)
		if err != nil {
			return out, fmt.Errorf("coolant at wall: %w", err)
		}
		nu := HessKunz(re, in.Coolant.Prandtl, wallFluid.Viscosity, in.Coolant.Viscosity)
		hc := nu * in.Coolant.Conductivity / dh

		q := (taw - tc + qrad/hg) / (1/hg + rTbc + wt/k + 1/hc)
		nextTs := taw - (q-qrad)/hg
		nextTw := nextTs - q*rTbc
		nextTcw := nextTw - q*wt/k
		if math.IsNaN(q) || math.IsNaN(nextTw) || math.IsNaN(nextTcw) {
			return out, fmt.Errorf("wall temperature is NaN at iteration %d: %w", it, model.ErrNonConvergence)
		}

		dw, dc := math.Abs(nextTw-tw), math.Abs(nextTcw-tcw)
		ts, tw, tcw = nextTs, nextTw, nextTcw
		out = model.ThermalState{
			GasCoefficient:     hg,
			CoolantCoefficient: hc,
			Radiation:          qrad,
			WallT:              tw,
			TbcT:               ts,
			CoolantWallT:       tcw,
			HeatFlux:           q,
			Reynolds:           re,
			Nusselt:            nu,
			Velocity:           v,
			Iterations:         it,
		}
		if dw < c.Tol && dc < c.Tol {
			return out, nil
		}
		if it >= c.MaxIt {
			return out, model.NonConvergence("wall temperature", c.MaxIt)
		}
	}
}

// PressureDrop over a section of length l, using the same flow area and
// hydraulic diameter as the coolant film coefficient.
func PressureDrop(c model.CoolantState, g model.ChannelGeometry, l, roughness float64) (float64, error) {
	if l == 0 {
		return 0, nil
	}
	dh := g.HydraulicDiameter()
	v, re := coolantFlow(c, g)
	f, err := flow.Colebrook(re, roughness/dh)
	if err != nil {
		return 0, err
	}
	return flow.DarcyPressureDrop(f, l, dh, c.Density, v), nil
}

// Advance returns the coolant after absorbing heat flux q over a section of
// length l at radius y and losing dp of pressure.
func Advance(provider properties.FluidProvider, c model.CoolantState, q, y, l, dp float64) (model.CoolantState, error) {
	t := c.Temperature + q*2*math.Pi*y*l/(c.MassFlow*c.Cp)
	p := c.Pressure - dp
	if p <= 0 {
		return c, fmt.Errorf("coolant pressure exhausted (%.4g Pa after a %.4g Pa drop)", p, dp)
	}
	s, err := provider.State(t, p)
	if err != nil {
		return c, err
	}
	return model.CoolantState{FluidState: s, MassFlow: c.MassFlow}, nil
}
