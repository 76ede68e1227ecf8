// Package feed sizes the pressurant and tanks of a pressure-fed propellant
// supply.
package feed

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"regen/model"
	"regen/properties"
)

// tankFactor is the pressure-volume product per kilogram of tank
// structure, Pa m^3/kg, from subsystem mass statistics.
const tankFactor = 6.43e4

// System is a blowdown-free pressure-fed supply: both propellant tanks are
// held at TankPressure by a pressurant stored at StoragePressure.
type System struct {
	Oxidiser   properties.FluidProvider
	Fuel       properties.FluidProvider
	Pressurant *properties.IdealGas

	OxidiserMassFlow float64
	FuelMassFlow     float64
	TankPressure     float64
	StoragePressure  float64

	OxidiserT   float64
	FuelT       float64
	PressurantT float64
	BurnTime    float64
}

// Pressurant sizing result. Mass is for a pressurant cooled to the mean
// propellant temperature; CoolingFactor relates it to a pressurant that
// stays at storage temperature.
type Pressurant struct {
	Mass          float64
	TankVolume    float64
	CoolingFactor float64
}

// Tanks holds structural tank masses.
type Tanks struct {
	Propellant float64
	Pressurant float64
}

func (s *System) Validate() error {
	switch {
	case s.Oxidiser == nil || s.Fuel == nil || s.Pressurant == nil:
		return model.InvalidConfig("feed: oxidiser, fuel and pressurant are required")
	case s.OxidiserMassFlow <= 0 || s.FuelMassFlow <= 0:
		return model.InvalidConfig("feed: mass flows must be positive, got %g and %g", s.OxidiserMassFlow, s.FuelMassFlow)
	case s.BurnTime <= 0:
		return model.InvalidConfig("feed: burn time %g", s.BurnTime)
	case s.TankPressure <= 0 || s.StoragePressure <= s.TankPressure:
		return model.InvalidConfig("feed: storage pressure %g must exceed tank pressure %g", s.StoragePressure, s.TankPressure)
	}
	return nil
}

// PropellantVolume with a fractional margin.
func (s *System) PropellantVolume(margin float64) (float64, error) {
	ox, err := s.Oxidiser.State(s.OxidiserT, s.TankPressure)
	if err != nil {
		return 0, fmt.Errorf("oxidiser: %w", err)
	}
	fu, err := s.Fuel.State(s.FuelT, s.TankPressure)
	if err != nil {
		return 0, fmt.Errorf("fuel: %w", err)
	}
	v := s.OxidiserMassFlow*s.BurnTime/ox.Density + s.FuelMassFlow*s.BurnTime/fu.Density
	return v * (1 + margin), nil
}

func (s *System) meanPropellantT() float64 {
	return (s.FuelMassFlow*s.FuelT + s.OxidiserMassFlow*s.OxidiserT) / (s.OxidiserMassFlow + s.FuelMassFlow)
}

// PressurantMass for an adiabatic expansion of the stored gas.
func (s *System) PressurantMass(margin float64) (Pressurant, error) {
	return s.size(margin, func(t float64, v float64) float64 {
		g := s.Pressurant.Gamma
		ratio := s.TankPressure / s.StoragePressure
		r := s.Pressurant.SpecificGasConstant()
		return s.TankPressure * v / (r * t / 2 * (1 + math.Pow(ratio, (g-1)/g))) / (1 - math.Pow(ratio, 1/g))
	})
}

// PressurantMassSutton uses the simplified adiabatic relation found in
// Sutton's rocket propulsion text.
func (s *System) PressurantMassSutton(margin float64) (Pressurant, error) {
	return s.size(margin, func(t float64, v float64) float64 {
		r := s.Pressurant.SpecificGasConstant()
		return s.TankPressure * v / (r * t) * s.Pressurant.Gamma / (1 - s.TankPressure/s.StoragePressure)
	})
}

func (s *System) size(margin float64, mass func(t, v float64) float64) (Pressurant, error) {
	if err := s.Validate(); err != nil {
		return Pressurant{}, err
	}
	v, err := s.PropellantVolume(margin)
	if err != nil {
		return Pressurant{}, err
	}
	warm := mass(s.PressurantT, v)
	cooled := mass(s.meanPropellantT(), v)
	p := Pressurant{
		Mass:          cooled,
		TankVolume:    warm * s.Pressurant.SpecificGasConstant() * s.PressurantT / s.StoragePressure,
		CoolingFactor: cooled / warm,
	}
	log.WithFields(log.Fields{
		"pressurant":  s.Pressurant.Name,
		"mass":        p.Mass,
		"tank_volume": p.TankVolume,
	}).Debug("pressurant sized")
	return p, nil
}

// TankMasses for the propellant tanks with the given ullage and the
// pressurant bottle sized by PressurantMassSutton.
func (s *System) TankMasses(ullage float64) (Tanks, error) {
	p, err := s.PressurantMassSutton(0.05)
	if err != nil {
		return Tanks{}, err
	}
	v, err := s.PropellantVolume(ullage)
	if err != nil {
		return Tanks{}, err
	}
	return Tanks{
		Propellant: v * s.TankPressure / tankFactor,
		Pressurant: p.TankVolume * s.StoragePressure / tankFactor,
	}, nil
}
