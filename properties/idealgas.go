package properties

import (
	"fmt"
	"math"
	"strings"

	"regen/model"
)

// UniversalGasConstant in J/mol/K.
const UniversalGasConstant = 8.314462618

// IdealGas is a calorically perfect gas with Sutherland viscosity. It is
// used for pressurants and gaseous injector feeds, never as coolant.
type IdealGas struct {
	Name      string
	MolarMass float64 // kg/mol
	Gamma     float64

	MuRef float64 // viscosity at TRef
	TRef  float64
	S     float64 // Sutherland constant
	Kref  float64 // conductivity at TRef

	// Condensation is the normal boiling point; colder states report a
	// liquid phase.
	Condensation float64
}

func Oxygen() *IdealGas {
	return &IdealGas{Name: "O2", MolarMass: 31.999e-3, Gamma: 1.395, MuRef: 20.18e-6, TRef: 293.15, S: 127, Kref: 0.0263, Condensation: 90.2}
}

func Nitrogen() *IdealGas {
	return &IdealGas{Name: "N2", MolarMass: 28.013e-3, Gamma: 1.400, MuRef: 17.57e-6, TRef: 293.15, S: 111, Kref: 0.0257, Condensation: 77.4}
}

func Helium() *IdealGas {
	return &IdealGas{Name: "He", MolarMass: 4.0026e-3, Gamma: 1.667, MuRef: 19.6e-6, TRef: 293.15, S: 79.4, Kref: 0.152, Condensation: 4.2}
}

// GasByName resolves a pressurant or injector gas from the configuration.
func GasByName(name string) (*IdealGas, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "oxygen", "o2":
		return Oxygen(), nil
	case "nitrogen", "n2":
		return Nitrogen(), nil
	case "helium", "he":
		return Helium(), nil
	}
	return nil, model.InvalidConfig("unknown gas %q", name)
}

// SpecificGasConstant R/M in J/kg/K.
func (g *IdealGas) SpecificGasConstant() float64 {
	return UniversalGasConstant / g.MolarMass
}

func (g *IdealGas) State(t, p float64) (model.FluidState, error) {
	if t <= 0 || p <= 0 || math.IsNaN(t) || math.IsNaN(p) {
		return model.FluidState{}, fmt.Errorf("%s: invalid state T=%g p=%g", g.Name, t, p)
	}
	r := g.SpecificGasConstant()
	ratio := (g.TRef + g.S) / (t + g.S) * math.Pow(t/g.TRef, 1.5)
	s := model.FluidState{
		Temperature:  t,
		Pressure:     p,
		Density:      p / (r * t),
		Viscosity:    g.MuRef * ratio,
		Cp:           g.Gamma * r / (g.Gamma - 1),
		Conductivity: g.Kref * ratio,
		Phase:        model.Gas,
	}
	if t < g.Condensation {
		s.Phase = model.Liquid
	}
	s.Prandtl = s.Cp * s.Viscosity / s.Conductivity
	return s, nil
}
