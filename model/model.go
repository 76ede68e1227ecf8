package model

// Units are SI throughout: m, Pa, K, kg/s, W/m^2, W/m^2/K.

// Branch selects the root of the area-Mach relation.
type Branch int

const (
	Subsonic   Branch = iota // converging section and cylindrical chamber
	Supersonic               // diverging nozzle
)

func (b Branch) String() string {
	if b == Supersonic {
		return "supersonic"
	}
	return "subsonic"
}

// Phase of a fluid as reported by a property provider.
type Phase int

const (
	Liquid Phase = iota
	Gas
	Supercritical
)

func (p Phase) String() string {
	switch p {
	case Gas:
		return "gas"
	case Supercritical:
		return "supercritical"
	}
	return "liquid"
}

// Station is one contour point. X, Y, Area and Branch are fixed once the
// contour is built, the rest is filled in by the marcher.
type Station struct {
	Index         int
	X             float64
	Y             float64
	Area          float64
	Branch        Branch
	SectionLength float64

	Mach           float64
	AdiabaticWallT float64
	UncooledWallT  float64 // adiabatic wall temperature before any film override
	StaticPressure float64
	StaticTemp     float64
	AreaRatio      float64
}

// FluidState is the thermophysical state returned by a fluid provider.
type FluidState struct {
	Temperature  float64 `json:"temperature"`
	Pressure     float64 `json:"pressure"`
	Density      float64 `json:"density"`
	Viscosity    float64 `json:"viscosity"`
	Cp           float64 `json:"cp"`
	Conductivity float64 `json:"conductivity"`
	Prandtl      float64 `json:"prandtl"`
	Phase        Phase   `json:"phase"`
	Clamped      bool    `json:"clamped,omitempty"` // T outside the provider's range, properties taken at the nearest bound
}

// GasState holds combustion gas properties for one flow region.
type GasState struct {
	T0           float64 // combustion (stagnation) temperature
	Gamma        float64
	Prandtl      float64
	Viscosity    float64
	Conductivity float64
	Cp           float64
	CStar        float64 // characteristic velocity, 0 when it must be derived
	XCO2         float64 // mole fractions used by the radiation model
	XH2O         float64
}

// CoolantState is the bulk coolant at the current axial position. The
// marcher owns it and is the only writer.
type CoolantState struct {
	FluidState
	MassFlow float64
}

// ChannelGeometry holds nominal inputs and the values solved at a station.
type ChannelGeometry struct {
	// nominal / warm-start values
	N        int     // channels around the circumference
	FlowArea float64 // flow area of a single channel
	T        float64 // land (rib) thickness
	Wt1      float64 // hot wall thickness
	Wt1Min   float64 // lower bound for Wt1, the configured thickness when 0
	Wt2      float64 // minimum closeout thickness
	Rf1      float64 // fillet radius at the channel base
	Rf2      float64 // fillet radius at the channel top

	// solved
	Height        float64
	WidthInner    float64
	WidthOuter    float64
	Dhi           float64
	Dho           float64
	Wto           float64
	FinEfficiency float64
	Friction      float64
	PressureGrad  float64 // Pa/m
	Vi            float64
	Vo            float64
	Rei           float64
	Reo           float64
	Hi            float64
	Ho            float64
	StressRatio   float64
}

// HydraulicDiameter is the mean of the inner and outer values.
func (g *ChannelGeometry) HydraulicDiameter() float64 {
	return (g.Dhi + g.Dho) / 2
}

// TotalFlowArea over all channels.
func (g *ChannelGeometry) TotalFlowArea() float64 {
	return float64(g.N) * g.FlowArea
}

// ThermalState is one inner-iteration result of the conjugate solve.
type ThermalState struct {
	GasCoefficient     float64
	CoolantCoefficient float64
	Radiation          float64
	WallT              float64 // metal hot face
	TbcT               float64 // coating outer face, equals WallT without coating
	CoolantWallT       float64
	HeatFlux           float64
	Reynolds           float64
	Nusselt            float64
	Velocity           float64
	Iterations         int
}

// Row is one line of the per-station output table.
type Row struct {
	Station         int     `json:"station"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Mach            float64 `json:"mach"`
	AdiabaticWallT  float64 `json:"adiabatic_wall_temperature"`
	GasCoefficient  float64 `json:"gas_coefficient"`
	HeatFlux        float64 `json:"heat_flux"`
	Radiation       float64 `json:"radiation"`
	WallT           float64 `json:"wall_temperature"`
	TbcT            float64 `json:"tbc_temperature"`
	CoolantT        float64 `json:"coolant_temperature"`
	CoolantP        float64 `json:"coolant_pressure"`
	Rei             float64 `json:"re_inner"`
	Reo             float64 `json:"re_outer"`
	PressureDrop    float64 `json:"pressure_drop"`
	SectionLength   float64 `json:"section_length"`
	Dhi             float64 `json:"dh_inner"`
	Dho             float64 `json:"dh_outer"`
	Wt1             float64 `json:"wt1"`
	Wto             float64 `json:"wto"`
	Rf1             float64 `json:"rf1"`
	Rf2             float64 `json:"rf2"`
	T               float64 `json:"t"`
	Hi              float64 `json:"h_inner"`
	Ho              float64 `json:"h_outer"`
	FinEfficiency   float64 `json:"fin_efficiency"`
	StressRatio     float64 `json:"stress_ratio"`
	OuterIterations int     `json:"outer_iterations"`
	OuterConverged  bool    `json:"outer_converged"`
}

// Msg is the websocket message envelope.
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
