package calculator

import (
	"math"
	"strings"

	"regen/model"
)

// Method selects the gas-side heat transfer correlation.
type Method int

const (
	StandardBartz Method = iota
	ModifiedBartz
	Cinjarew
)

func (m Method) String() string {
	switch m {
	case ModifiedBartz:
		return "modified-bartz"
	case Cinjarew:
		return "cinjarew"
	}
	return "standard-bartz"
}

func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "standard-bartz", "bartz":
		return StandardBartz, nil
	case "modified-bartz":
		return ModifiedBartz, nil
	case "cinjarew":
		return Cinjarew, nil
	}
	return StandardBartz, model.InvalidConfig("invalid heat transfer method %q, select \"standard-bartz\", \"modified-bartz\" or \"cinjarew\"", name)
}

// GasSide evaluates the hot-gas film coefficient. Chamber-wide quantities
// are fixed for a run; the local state comes from the station.
type GasSide struct {
	Method          Method
	ThroatDiameter  float64
	ChamberPressure float64
	MassFlow        float64 // total propellant mass flow

	// radius of curvature at the throat, 0 disables the Bartz correction
	ThroatCurvature float64
	// combustion efficiency used by Cinjarew
	Efficiency float64
}

func (g *GasSide) throatArea() float64 {
	return math.Pi * g.ThroatDiameter * g.ThroatDiameter / 4
}

// Coefficient returns h_g at the station for a gas-facing surface
// temperature ts.
func (g *GasSide) Coefficient(st *model.Station, gas model.GasState, ts float64) float64 {
	k := 1 + (gas.Gamma-1)/2*st.Mach*st.Mach
	switch g.Method {
	case ModifiedBartz:
		tf := 0.5*ts + 0.28*st.StaticTemp + 0.22*st.AdiabaticWallT
		mass := g.MassFlow / st.Area
		return 0.026 * math.Pow(mass, 0.8) / math.Pow(g.ThroatDiameter, 0.2) *
			math.Pow(gas.Viscosity, 0.2) * gas.Cp / math.Pow(gas.Prandtl, 0.6) *
			math.Pow(gas.T0/tf, 0.68)
	case Cinjarew:
		eta := g.Efficiency
		if eta <= 0 {
			eta = 0.95
		}
		thg := st.StaticTemp + 0.8*(gas.T0*eta*eta-st.StaticTemp)
		return 0.01975 * math.Pow(gas.Conductivity, 0.18) * math.Pow(g.MassFlow*gas.Cp, 0.82) /
			math.Pow(2*st.Y, 1.82) * math.Pow(thg/ts, 0.35)
	}
	cstar := gas.CStar
	if cstar <= 0 {
		cstar = g.ChamberPressure * g.throatArea() / g.MassFlow
	}
	sigma := math.Pow(0.5*ts/gas.T0*k+0.5, -0.68) * math.Pow(k, -0.12)
	curvature := 1.0
	if g.ThroatCurvature > 0 {
		curvature = math.Pow(g.ThroatDiameter/g.ThroatCurvature, 0.1)
	}
	return 0.026 / math.Pow(g.ThroatDiameter, 0.2) *
		math.Pow(gas.Viscosity, 0.2) * gas.Cp / math.Pow(gas.Prandtl, 0.6) *
		math.Pow(g.ChamberPressure/cstar, 0.8) * curvature *
		math.Pow(g.throatArea()/st.Area, 0.9) * sigma
}

// Radiation is the CO2 + H2O gas radiation flux at the station, W/m^2.
func Radiation(st *model.Station, gas model.GasState) float64 {
	pco2 := gas.XCO2 * st.StaticPressure
	ph2o := gas.XH2O * st.StaticPressure
	t := math.Pow(st.StaticTemp/100, 3.5)
	return 4*math.Pow(pco2/1e5*st.Y, 0.3)*t + 5.74*math.Pow(ph2o/1e5*st.Y, 0.3)*t
}

// HessKunz is the coolant Nusselt number with a wall-to-bulk viscosity
// correction.
func HessKunz(re, pr, muWall, muBulk float64) float64 {
	return 0.0208 * math.Pow(re, 0.8) * math.Pow(pr, 0.4) * (1 + 0.01457*muWall/muBulk)
}
