// Package injector sizes single injector elements for a design mass flow
// and pressure drop. Each element iterates its discharge coefficient to a
// fixed point.
package injector

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"regen/flow"
	"regen/model"
	"regen/numeric"
	"regen/properties"
)

const (
	MaxIt = 100
	Tol   = 1e-6

	// annulusInletLoss is fitted to cryogenic cold-flow data.
	annulusInletLoss = 1.359
	// sonicStep is the pressure drop given up each time a gas element
	// goes sonic.
	sonicStep = 0.05e5
)

// Result of an element sizing.
type Result struct {
	Diameter     float64 // orifice diameter, or gap width for annular elements
	MeanDiameter float64 // annulus mean diameter, 0 for orifices
	Velocity     float64
	Discharge    float64
	Reynolds     float64
	PressureDrop float64 // design drop actually used
	Iterations   int
}

// Sizer is implemented by every element type.
type Sizer interface {
	Size() (Result, error)
}

func inletLoss(angle float64) float64 {
	return 0.5 + 1.2/math.Pi*angle
}

// blasius friction factor for smooth tubes.
func blasius(re float64) float64 {
	return 0.3164 * math.Pow(re, -0.25)
}

// Liquid is a plain orifice fed with liquid. InletAngle is the feed angle
// relative to the faceplate in radians.
type Liquid struct {
	Fluid        properties.FluidProvider
	Temperature  float64
	Pressure     float64
	Length       float64
	MassFlow     float64
	PressureDrop float64
	InletAngle   float64
}

// inletEfficiency is a curve fit of the orifice entry loss against
// Reynolds number.
func inletEfficiency(re float64) float64 {
	return 3.55378*math.Exp(-math.Log10(re)*0.647016) - 0.103358
}

func (l Liquid) Size() (Result, error) {
	if l.MassFlow <= 0 || l.PressureDrop <= 0 || l.Length < 0 {
		return Result{}, model.InvalidConfig("liquid injector: mass flow %g, pressure drop %g, length %g", l.MassFlow, l.PressureDrop, l.Length)
	}
	s, err := l.Fluid.State(l.Temperature, l.Pressure)
	if err != nil {
		return Result{}, fmt.Errorf("liquid injector: %w", err)
	}
	entry := inletLoss(l.InletAngle)
	xi := entry
	r := Result{PressureDrop: l.PressureDrop}
	for diff := 1.0; diff > Tol; {
		mu := 1 / math.Sqrt(1+xi)
		d := 0.95 * math.Sqrt(l.MassFlow) / math.Sqrt(mu) * math.Pow(s.Density*l.PressureDrop, -0.25)
		v := 4 / math.Pi * l.MassFlow / (s.Density * d * d)
		re := s.Density * v * d / s.Viscosity
		xi = entry + inletEfficiency(re) + blasius(re)*l.Length/d

		r.Iterations++
		if r.Iterations > MaxIt {
			return r, model.NonConvergence("liquid injector", MaxIt)
		}
		diff = math.Abs(mu - 1/math.Sqrt(1+xi))
		r.Diameter, r.Velocity, r.Discharge, r.Reynolds = d, v, mu, re
	}
	return r, nil
}

// Gas is a plain orifice fed with gas at Temperature and Pressure
// upstream. GasConstant is the specific gas constant of the feed.
type Gas struct {
	Fluid            properties.FluidProvider
	GasConstant      float64
	Temperature      float64
	Pressure         float64
	Length           float64
	MassFlow         float64
	PressureDrop     float64
	UpstreamDiameter float64
	InletAngle       float64
}

func (g Gas) Size() (Result, error) {
	s, err := g.Fluid.State(g.Temperature, g.Pressure)
	if err != nil {
		return Result{}, fmt.Errorf("gas injector: %w", err)
	}
	if s.Phase == model.Liquid {
		return Result{}, model.InvalidConfig("gas injector: feed is liquid at T=%g p=%g", g.Temperature, g.Pressure)
	}
	if g.GasConstant <= 0 || s.Cp <= g.GasConstant {
		return Result{}, model.InvalidConfig("gas injector: gas constant %g with cp %g", g.GasConstant, s.Cp)
	}
	if g.MassFlow <= 0 || g.PressureDrop <= 0 || g.PressureDrop >= g.Pressure || g.UpstreamDiameter <= 0 {
		return Result{}, model.InvalidConfig("gas injector: mass flow %g, pressure drop %g of %g, upstream diameter %g",
			g.MassFlow, g.PressureDrop, g.Pressure, g.UpstreamDiameter)
	}

	gamma := s.Cp / (s.Cp - g.GasConstant)
	rt := g.GasConstant * g.Temperature
	a := math.Sqrt(gamma * rt)
	cstar := a / (gamma * math.Sqrt(math.Pow(2/(gamma+1), (gamma+1)/(gamma-1))))
	dp := g.PressureDrop
	mu := 0.9
	r := Result{}
	for diff := 1.0; diff > Tol; {
		expansion := 1 - math.Pow((g.Pressure-dp)/g.Pressure, (gamma-1)/gamma)
		lambda := math.Sqrt((gamma + 1) / (gamma - 1) * expansion)
		flux := math.Pow((gamma+1)/2, 1/(gamma-1)) * lambda * math.Pow(1-(gamma-1)/(gamma+1)*lambda*lambda, 1/(gamma-1))
		d := math.Sqrt(4 / math.Pi * g.MassFlow * cstar / (mu * g.Pressure * flux))
		v := lambda * math.Sqrt(2*gamma/(gamma+1)*rt)
		re := s.Density * v * d / s.Viscosity
		xi := blasius(re)*g.Length/d + inletLoss(g.InletAngle)*(1-d*d/(g.UpstreamDiameter*g.UpstreamDiameter))
		next := 1 / math.Sqrt(1+xi)

		if v > a && dp > sonicStep {
			dp -= sonicStep
			log.WithFields(log.Fields{
				"velocity":      v,
				"sound_speed":   a,
				"pressure_drop": dp,
			}).Warn("gas injector sonic, reducing design pressure drop")
		}

		r.Iterations++
		if r.Iterations > MaxIt {
			return r, model.NonConvergence("gas injector", MaxIt)
		}
		diff = math.Abs(mu - next)
		r.Diameter, r.Velocity, r.Discharge, r.Reynolds = d, v, mu, re
		mu = next
	}
	r.Discharge = mu
	r.PressureDrop = dp
	return r, nil
}

// AnnularOrifice sizes the outer radius of a laminar annular gap around a
// post of radius InnerRadius from the Poiseuille annulus flow rate.
type AnnularOrifice struct {
	Fluid        properties.FluidProvider
	Temperature  float64
	Pressure     float64
	Length       float64
	PressureDrop float64
	MassFlow     float64
	InnerRadius  float64
}

func (o AnnularOrifice) Size() (Result, error) {
	if o.MassFlow <= 0 || o.PressureDrop <= 0 || o.Length <= 0 || o.InnerRadius <= 0 {
		return Result{}, model.InvalidConfig("annular orifice: mass flow %g, pressure drop %g, length %g, inner radius %g",
			o.MassFlow, o.PressureDrop, o.Length, o.InnerRadius)
	}
	s, err := o.Fluid.State(o.Temperature, o.Pressure)
	if err != nil {
		return Result{}, fmt.Errorf("annular orifice: %w", err)
	}
	q := o.MassFlow / s.Density
	grad := o.PressureDrop / o.Length
	ri := o.InnerRadius
	f := func(ro float64) float64 {
		gap := ro*ro - ri*ri
		return math.Pi*grad/(8*s.Viscosity)*(math.Pow(ro, 4)-math.Pow(ri, 4)-gap*gap/math.Log(ro/ri)) - q
	}
	lo, hi, err := numeric.Expand(f, ri*(1+1e-6), ri*1.01, 2, 60)
	if err != nil {
		return Result{}, fmt.Errorf("annular orifice: %w", err)
	}
	ro, err := numeric.Brent(f, lo, hi, 1e-15, 0)
	if err != nil {
		return Result{}, fmt.Errorf("annular orifice: %w", err)
	}
	area := math.Pi * (ro*ro - ri*ri)
	r := Result{
		Diameter:     ro - ri,
		MeanDiameter: ro + ri,
		Velocity:     q / area,
		Discharge:    o.MassFlow / (area * math.Sqrt(2*s.Density*o.PressureDrop)),
		PressureDrop: o.PressureDrop,
		Iterations:   1,
	}
	r.Reynolds = s.Density * r.Velocity * 2 * r.Diameter / s.Viscosity
	return r, nil
}

// Annulus sizes the gap width of a turbulent annular element with a given
// mean diameter, using the smooth-wall Colebrook friction factor.
type Annulus struct {
	Fluid        properties.FluidProvider
	Temperature  float64
	Pressure     float64
	Length       float64
	MeanDiameter float64
	MassFlow     float64
	PressureDrop float64
}

func (a Annulus) Size() (Result, error) {
	if a.MassFlow <= 0 || a.PressureDrop <= 0 || a.MeanDiameter <= 0 || a.Length < 0 {
		return Result{}, model.InvalidConfig("annulus: mass flow %g, pressure drop %g, mean diameter %g, length %g",
			a.MassFlow, a.PressureDrop, a.MeanDiameter, a.Length)
	}
	s, err := a.Fluid.State(a.Temperature, a.Pressure)
	if err != nil {
		return Result{}, fmt.Errorf("annulus: %w", err)
	}
	mu := 1 / math.Sqrt(1+annulusInletLoss)
	gap := 1e-3
	r := Result{PressureDrop: a.PressureDrop}
	for diff := 1.0; diff > Tol; {
		d := a.MeanDiameter + gap
		v := mu * math.Sqrt(2*a.PressureDrop/s.Density)
		re := s.Density * v * gap / s.Viscosity
		gap = a.MassFlow / (s.Density * math.Pi * d * v)
		f, err := flow.Colebrook(re, 0)
		if err != nil {
			return r, fmt.Errorf("annulus: %w", err)
		}
		next := 1 / math.Sqrt(1+f*a.Length/gap+annulusInletLoss)

		r.Iterations++
		if r.Iterations > MaxIt {
			return r, model.NonConvergence("annulus injector", MaxIt)
		}
		diff = math.Abs(mu - next)
		mu = next
		r.Diameter, r.MeanDiameter, r.Velocity, r.Reynolds = gap, d, v, re
	}
	r.Discharge = mu
	return r, nil
}

// Ohnesorge number of the injected jet for a liquid surface tension sigma.
func Ohnesorge(s model.FluidState, r Result, sigma float64) float64 {
	we := s.Density * r.Velocity * r.Velocity * r.Diameter / sigma
	re := s.Density * r.Velocity * r.Diameter / s.Viscosity
	return math.Sqrt(we) / re
}
