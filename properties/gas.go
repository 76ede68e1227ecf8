package properties

import (
	"strings"

	"regen/model"
)

// Region of the thrust chamber used to pick a gas property set.
type Region int

const (
	Chamber Region = iota
	Throat
	Exit
)

func (r Region) String() string {
	switch r {
	case Chamber:
		return "chamber"
	case Exit:
		return "exit"
	}
	return "throat"
}

// ParseRegion accepts "chamber", "throat" or "exit".
func ParseRegion(name string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chamber":
		return Chamber, nil
	case "throat":
		return Throat, nil
	case "exit":
		return Exit, nil
	}
	return Throat, model.InvalidConfig("unknown gas region %q, use \"chamber\", \"throat\" or \"exit\"", name)
}

// GasQuery identifies the combustion state being asked for.
type GasQuery struct {
	MixtureRatio    float64
	ChamberPressure float64
	Region          Region
}

// GasProvider returns combustion gas properties. Implementations must be
// pure.
type GasProvider interface {
	Gas(q GasQuery) (model.GasState, error)
}

// ConstantGas returns the same property set everywhere, e.g. equilibrium
// properties frozen at the throat.
type ConstantGas struct {
	State model.GasState
}

func (c ConstantGas) Gas(GasQuery) (model.GasState, error) {
	return c.State, nil
}

// RegionalGas holds one set per region. Missing regions fall back to the
// throat set.
type RegionalGas struct {
	Sets map[Region]model.GasState

	// area ratios separating the regions
	ChamberAreaRatio float64
	ExitAreaRatio    float64
}

func (r RegionalGas) Gas(q GasQuery) (model.GasState, error) {
	if s, ok := r.Sets[q.Region]; ok {
		return s, nil
	}
	if s, ok := r.Sets[Throat]; ok {
		return s, nil
	}
	return model.GasState{}, model.InvalidConfig("no gas properties for region %s", q.Region)
}

// RegionOf classifies a station by branch and area ratio.
func (r RegionalGas) RegionOf(branch model.Branch, areaRatio float64) Region {
	switch {
	case branch == model.Subsonic && r.ChamberAreaRatio > 0 && areaRatio >= r.ChamberAreaRatio:
		return Chamber
	case branch == model.Supersonic && r.ExitAreaRatio > 0 && areaRatio >= r.ExitAreaRatio:
		return Exit
	}
	return Throat
}

// Regioner is implemented by providers that vary along the contour.
type Regioner interface {
	RegionOf(branch model.Branch, areaRatio float64) Region
}

// Validate checks a gas property set before it is used in a march.
func Validate(s model.GasState) error {
	switch {
	case s.T0 <= 0:
		return model.InvalidConfig("gas T0 must be positive")
	case s.Gamma <= 1:
		return model.InvalidConfig("gas gamma must exceed 1")
	case s.Prandtl <= 0 || s.Viscosity <= 0 || s.Cp <= 0 || s.Conductivity <= 0:
		return model.InvalidConfig("gas transport properties must be positive")
	case s.XCO2 < 0 || s.XH2O < 0 || s.XCO2+s.XH2O > 1:
		return model.InvalidConfig("gas mole fractions out of range")
	}
	return nil
}
