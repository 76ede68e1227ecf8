package channel

import (
	"fmt"
	"math"

	"regen/flow"
	"regen/material"
	"regen/model"
)

// sub-solve limits
const (
	heightTol   = 1e-12
	heightMaxIt = 200
	wallTol     = 1e-10
	wallMaxIt   = 100
)

// fillet corrections: each corner of radius r removes (1-π/4)r² of area and
// (2-π/2)r of perimeter; every channel has two corners of each radius.
func filletArea(rf1, rf2 float64) float64 {
	return (4 - math.Pi) * (rf1*rf1 + rf2*rf2) / 2
}

func filletPerimeter(rf1, rf2 float64) float64 {
	return (4 - math.Pi) * (rf1 + rf2)
}

// Load is the thermal and pressure loading seen by the channel wall.
type Load struct {
	WallT              float64 // hot-wall metal temperature
	CoolantWallT       float64
	HeatFlux           float64
	CoolantCoefficient float64
	GasPressure        float64 // local static pressure of the hot gas
}

// Solver sizes milled channels in a liner of radius r.
type Solver struct {
	Metal     *material.Metal
	Roughness float64
}

func NewSolver(metal *material.Metal, roughness float64) *Solver {
	if roughness <= 0 {
		roughness = flow.DefaultRoughness
	}
	return &Solver{Metal: metal, Roughness: roughness}
}

// Validate checks the nominal inputs that do not depend on the station.
func Validate(g model.ChannelGeometry) error {
	switch {
	case g.N <= 0:
		return model.InvalidConfig("channel count must be positive, got %d", g.N)
	case g.FlowArea <= 0:
		return model.InvalidConfig("channel flow area must be positive")
	case g.T <= 0 || g.Wt1 <= 0 || g.Wt2 <= 0:
		return model.InvalidConfig("land and wall thicknesses must be positive")
	case g.Rf1 < 0 || g.Rf2 < 0:
		return model.InvalidConfig("fillet radii must not be negative")
	}
	return nil
}

// height solves A = w_m h - fillets with w_m = 2π(r+wt1+h/2)/N - t.
func height(r float64, g model.ChannelGeometry, wt1 float64) (float64, error) {
	n := float64(g.N)
	target := g.FlowArea + filletArea(g.Rf1, g.Rf2)
	h := g.Height
	if h <= 0 {
		h = math.Sqrt(g.FlowArea)
	}
	for it := 0; it < heightMaxIt; it++ {
		wm := 2*math.Pi*(r+wt1+h/2)/n - g.T
		if wm <= 0 || math.IsNaN(wm) {
			return 0, model.Infeasible("mean channel width %.3g m at radius %.4g m", wm, r)
		}
		next := target / wm
		if math.Abs(next-h) < heightTol*math.Max(1, next) {
			return next, nil
		}
		h = next
	}
	return 0, model.Infeasible("channel height: %v", model.NonConvergence("height sub-solve", heightMaxIt))
}

// Nominal lays out the channels at radius r without any stress sizing. It
// is used to seed the first station.
func Nominal(r float64, g model.ChannelGeometry) (model.ChannelGeometry, error) {
	g.Wt1Min = minWall(g)
	h, err := height(r, g, g.Wt1)
	if err != nil {
		return g, err
	}
	g.Height = h
	if err := widths(r, &g); err != nil {
		return g, err
	}
	g.Wto = g.Wt2
	return g, nil
}

func widths(r float64, g *model.ChannelGeometry) error {
	n := float64(g.N)
	g.WidthInner = 2*math.Pi*(r+g.Wt1)/n - g.T
	g.WidthOuter = 2*math.Pi*(r+g.Wt1+g.Height)/n - g.T
	if g.WidthInner <= 0 {
		return model.Infeasible("channel base width %.3g m at radius %.4g m", g.WidthInner, r)
	}
	fp := filletPerimeter(g.Rf1, g.Rf2)
	g.Dhi = 4 * g.FlowArea / (2*(g.WidthInner+g.Height) - fp)
	g.Dho = 4 * g.FlowArea / (2*(g.WidthOuter+g.Height) - fp)
	return nil
}

func minWall(g model.ChannelGeometry) float64 {
	if g.Wt1Min > 0 {
		return g.Wt1Min
	}
	return g.Wt1
}

// Solve sizes the channel at radius r for the given coolant and load. Wt1Min
// (or Wt1 on a fresh geometry) bounds the hot wall from below; a solved
// geometry passed back in only seeds the iteration.
func (s *Solver) Solve(r float64, g model.ChannelGeometry, coolant model.CoolantState, load Load) (model.ChannelGeometry, error) {
	m := s.Metal
	tw := load.WallT
	dp := math.Abs(coolant.Pressure - load.GasPressure)
	allow := m.Allowable(tw)
	thermal := m.Modulus(tw) * m.Expansion * load.HeatFlux / (2 * m.Conductivity * (1 - m.Poisson))

	out := g
	nominal := minWall(g)
	out.Wt1Min = nominal
	wt1 := math.Max(g.Wt1, nominal)
	converged := false
	for it := 0; it < wallMaxIt; it++ {
		h, err := height(r, out, wt1)
		if err != nil {
			return g, err
		}
		out.Height = h
		out.Wt1 = wt1
		if err := widths(r, &out); err != nil {
			return g, err
		}
		sigmaT := thermal * wt1
		if sigmaT >= allow {
			return g, model.Infeasible("thermal stress %.4g MPa exceeds allowable %.4g MPa", sigmaT/1e6, allow/1e6)
		}
		next := math.Max(nominal, out.WidthInner*math.Sqrt(dp/(2*(allow-sigmaT))))
		if math.Abs(next-wt1) < wallTol {
			wt1 = next
			converged = true
			break
		}
		wt1 = next
	}
	if !converged {
		return g, model.Infeasible("hot wall thickness: %v", model.NonConvergence("wall sub-solve", wallMaxIt))
	}
	if out.Wt1 != wt1 {
		out.Wt1 = wt1
		h, err := height(r, out, wt1)
		if err != nil {
			return g, err
		}
		out.Height = h
		if err := widths(r, &out); err != nil {
			return g, err
		}
	}

	sigmaP := dp / 2 * math.Pow(out.WidthInner/out.Wt1, 2)
	sigmaT := thermal * out.Wt1
	out.StressRatio = (sigmaP + sigmaT) / m.Yield(tw)

	// coolant side
	perChannel := coolant.MassFlow / float64(out.N)
	v := perChannel / (coolant.Density * out.FlowArea)
	out.Vi, out.Vo = v, v
	out.Rei = coolant.Density * v * out.Dhi / coolant.Viscosity
	out.Reo = coolant.Density * v * out.Dho / coolant.Viscosity
	dh := out.HydraulicDiameter()
	f, err := flow.Colebrook(coolant.Density*v*dh/coolant.Viscosity, s.Roughness/dh)
	if err != nil {
		return g, model.Infeasible("channel friction: %v", err)
	}
	out.Friction = f
	out.PressureGrad = f / dh * coolant.Density * v * v / 2
	out.Hi = dittusBoelter(out.Rei, coolant.Prandtl) * coolant.Conductivity / out.Dhi
	out.Ho = dittusBoelter(out.Reo, coolant.Prandtl) * coolant.Conductivity / out.Dho

	// lands act as fins between the hot wall and the closeout
	hc := load.CoolantCoefficient
	if hc <= 0 {
		hc = out.Hi
	}
	mh := math.Sqrt(2*hc/(m.Conductivity*out.T)) * out.Height
	out.FinEfficiency = 1
	if mh > 0 {
		out.FinEfficiency = math.Tanh(mh) / mh
	}

	ro := r + out.Wt1 + out.Height
	out.Wto = math.Max(out.Wt2, coolant.Pressure*ro/m.Allowable(coolant.Temperature))

	if bad := firstNaN(out); bad != "" {
		return g, model.Infeasible("%s is not a number", bad)
	}
	return out, nil
}

func dittusBoelter(re, pr float64) float64 {
	return 0.023 * math.Pow(re, 0.8) * math.Pow(pr, 0.4)
}

func firstNaN(g model.ChannelGeometry) string {
	fields := []struct {
		name string
		v    float64
	}{
		{"height", g.Height}, {"dhi", g.Dhi}, {"dho", g.Dho}, {"wt1", g.Wt1},
		{"wto", g.Wto}, {"friction", g.Friction}, {"fin efficiency", g.FinEfficiency},
		{"stress ratio", g.StressRatio}, {"hi", g.Hi}, {"ho", g.Ho},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return f.name
		}
	}
	return ""
}

// Shrink reduces the flow area so the mean hydraulic diameter drops by
// about dec, keeping the channel shape. It fails once the diameter would
// fall below floor.
func Shrink(g model.ChannelGeometry, dec, floor float64) (model.ChannelGeometry, error) {
	dh := g.HydraulicDiameter()
	if dh <= 0 {
		return g, fmt.Errorf("shrink unsolved channel: %w", model.ErrInfeasibleGeometry)
	}
	next := dh - dec
	if next < floor || next <= 0 {
		return g, model.Infeasible("hydraulic diameter %.4g mm reached the %.4g mm floor", next*1e3, floor*1e3)
	}
	k := next / dh
	g.FlowArea *= k * k
	g.Height *= k
	return g, nil
}
