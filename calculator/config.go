package calculator

import (
	"fmt"
	"math"
	"strings"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"regen/chamber"
	"regen/channel"
	"regen/feed"
	"regen/film"
	"regen/injector"
	"regen/material"
	"regen/model"
	"regen/properties"
)

// DefaultConfigPath is used when no -config flag is given.
const DefaultConfigPath = "conf/config.ini"

// EnvOverrides win over the ini file.
type EnvOverrides struct {
	LogLevel   string `env:"REGEN_LOG_LEVEL"`
	LogFormat  string `env:"REGEN_LOG_FORMAT"`
	OutputDir  string `env:"REGEN_OUTPUT_DIR"`
	DBPath     string `env:"REGEN_DB_PATH"`
	ServerAddr string `env:"REGEN_SERVER_ADDR"`
}

// ParseEnv fills target from the process environment.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

type LogConfig struct {
	Level  string
	Format string
}

// ChamberConfig describes the contour and the chamber operating point.
// Without a contour file the Conical generator is used.
type ChamberConfig struct {
	Contour string
	Scale   float64
	Conical chamber.Conical

	Pressure        float64
	MassFlow        float64
	MixtureRatio    float64
	ThroatCurvature float64
	Efficiency      float64
}

type GasConfig struct {
	Sets             map[properties.Region]model.GasState
	ChamberAreaRatio float64
	ExitAreaRatio    float64
}

type CoolantConfig struct {
	Fluid       string
	Table       string
	Temperature float64
	Pressure    float64
	MassFlow    float64
	CacheLimit  int
}

type MaterialConfig struct {
	Name string
	Path string
}

type FilmConfig struct {
	Path  string
	Start int
	End   int
}

type OutputConfig struct {
	Dir     string
	Formats []string
	DBPath  string
}

type ServerConfig struct {
	Addr string
}

// SweepConfig lists the variants run by the sweep command. Empty lists
// keep the base case value.
type SweepConfig struct {
	Methods  []Method
	Channels []int
	Workers  int
}

type InjectorConfig struct {
	Name             string
	Type             string
	Fluid            string
	Table            string
	Temperature      float64
	Pressure         float64
	Length           float64
	MassFlow         float64
	PressureDrop     float64
	InletAngle       float64 // radians
	UpstreamDiameter float64
	InnerRadius      float64
	MeanDiameter     float64
}

type FeedConfig struct {
	Oxidiser      string
	OxidiserTable string
	Fuel          string
	FuelTable     string
	Pressurant    string

	OxidiserMassFlow float64
	FuelMassFlow     float64
	TankPressure     float64
	StoragePressure  float64
	OxidiserT        float64
	FuelT            float64
	PressurantT      float64
	BurnTime         float64
	Margin           float64
	Ullage           float64
}

// Config is the whole run description. LoadConfig resolves the contour,
// material, coolant and film files so that a loaded Config is ready to
// build marchers from.
type Config struct {
	Name   string
	Method Method
	Log    LogConfig

	Chamber  ChamberConfig
	Gas      GasConfig
	Coolant  CoolantConfig
	Channel  model.ChannelGeometry
	Wall     Wall
	Material MaterialConfig

	Solver     Options
	InnerTol   float64
	InnerMaxIt int

	Film   FilmConfig
	Output OutputConfig
	Server ServerConfig
	Sweep  SweepConfig

	Injectors []InjectorConfig
	Feed      *FeedConfig

	contour *chamber.Contour
	metal   *material.Metal
	coolant properties.FluidProvider
	film    film.Provider
}

// LoadConfig reads an ini file path or raw ini bytes, applies the
// environment overrides and validates the result.
func LoadConfig(source any) (*Config, error) {
	file, err := ini.Load(source)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c, err := loadCfg(file)
	if err != nil {
		return nil, err
	}
	var ov EnvOverrides
	if err := ParseEnv(&ov); err != nil {
		return nil, err
	}
	c.apply(ov)
	if err := c.resolve(); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"name":     c.Name,
		"method":   c.Method,
		"contour":  c.contour.Name,
		"stations": c.contour.Len(),
		"coolant":  c.Coolant.Fluid,
		"material": c.metal.Name,
		"channels": c.Channel.N,
	}).Info("configuration loaded")
	return c, nil
}

func loadCfg(file *ini.File) (*Config, error) {
	run := file.Section("run")
	method, err := ParseMethod(run.Key("method").MustString("cinjarew"))
	if err != nil {
		return nil, err
	}
	c := &Config{
		Name:   run.Key("name").MustString("regen"),
		Method: method,
		Log: LogConfig{
			Level:  run.Key("log_level").MustString("info"),
			Format: run.Key("log_format").MustString("text"),
		},
	}

	ch := file.Section("chamber")
	c.Chamber = ChamberConfig{
		Contour: ch.Key("contour").String(),
		Scale:   ch.Key("scale").MustFloat64(1e-3),
		Conical: chamber.Conical{
			ChamberRadius:  ch.Key("chamber_radius").MustFloat64(0.04),
			ChamberLength:  ch.Key("chamber_length").MustFloat64(0.08),
			ThroatRadius:   ch.Key("throat_radius").MustFloat64(0.015),
			ConvergeAngle:  ch.Key("converge_angle").MustFloat64(30),
			DivergeAngle:   ch.Key("diverge_angle").MustFloat64(15),
			ExpansionRatio: ch.Key("expansion_ratio").MustFloat64(6),
			Points:         ch.Key("points").MustInt(50),
		},
		Pressure:        ch.Key("pressure").MustFloat64(50e5),
		MassFlow:        ch.Key("mass_flow").MustFloat64(2.1),
		MixtureRatio:    ch.Key("mixture_ratio").MustFloat64(1.1),
		ThroatCurvature: ch.Key("throat_curvature").MustFloat64(0),
		Efficiency:      ch.Key("efficiency").MustFloat64(0.95),
	}

	c.Gas = GasConfig{
		Sets:             map[properties.Region]model.GasState{properties.Throat: gasState(file.Section("gas"))},
		ChamberAreaRatio: file.Section("gas").Key("chamber_area_ratio").MustFloat64(0),
		ExitAreaRatio:    file.Section("gas").Key("exit_area_ratio").MustFloat64(0),
	}
	for _, r := range []properties.Region{properties.Chamber, properties.Throat, properties.Exit} {
		name := "gas." + r.String()
		if file.HasSection(name) {
			c.Gas.Sets[r] = gasState(file.Section(name))
		}
	}

	co := file.Section("coolant")
	c.Coolant = CoolantConfig{
		Fluid:       co.Key("fluid").MustString("ethanol"),
		Table:       co.Key("table").String(),
		Temperature: co.Key("temperature").MustFloat64(290),
		Pressure:    co.Key("pressure").MustFloat64(80e5),
		MassFlow:    co.Key("mass_flow").MustFloat64(1.0),
		CacheLimit:  co.Key("cache_limit").MustInt(0),
	}

	cn := file.Section("channel")
	c.Channel = model.ChannelGeometry{
		N:        cn.Key("count").MustInt(42),
		FlowArea: cn.Key("flow_area").MustFloat64(1.5e-6),
		T:        cn.Key("land_thickness").MustFloat64(1e-3),
		Wt1:      cn.Key("wall_thickness").MustFloat64(0.6e-3),
		Wt2:      cn.Key("closeout_thickness").MustFloat64(0.6e-3),
		Rf1:      cn.Key("fillet_base").MustFloat64(0.1e-3),
		Rf2:      cn.Key("fillet_top").MustFloat64(0.1e-3),
	}

	w := file.Section("wall")
	c.Wall = Wall{
		Conductivity:    w.Key("conductivity").MustFloat64(24),
		TbcThickness:    w.Key("tbc_thickness").MustFloat64(0),
		TbcConductivity: w.Key("tbc_conductivity").MustFloat64(0),
	}
	c.Material = MaterialConfig{
		Name: file.Section("material").Key("name").MustString("inconel718"),
		Path: file.Section("material").Key("path").String(),
	}

	so := file.Section("solver")
	policy, err := ParsePolicy(so.Key("on_outer_cap").MustString("abort"))
	if err != nil {
		return nil, err
	}
	def := DefaultOptions()
	c.Solver = Options{
		OuterTol:             so.Key("outer_tolerance").MustFloat64(def.OuterTol),
		OuterMaxIt:           so.Key("outer_max_iterations").MustInt(def.OuterMaxIt),
		OnOuterCap:           policy,
		TargetWallT:          so.Key("target_wall_temperature").MustFloat64(0),
		OptimiseMaxRadius:    so.Key("optimise_max_radius").MustFloat64(0),
		DiameterDecrement:    so.Key("diameter_decrement").MustFloat64(def.DiameterDecrement),
		MinHydraulicDiameter: so.Key("min_hydraulic_diameter").MustFloat64(def.MinHydraulicDiameter),
		Roughness:            so.Key("roughness").MustFloat64(def.Roughness),
		InitialWallT:         so.Key("initial_wall_temperature").MustFloat64(def.InitialWallT),
	}
	c.InnerTol = so.Key("inner_tolerance").MustFloat64(1e-6)
	c.InnerMaxIt = so.Key("inner_max_iterations").MustInt(1000)

	fi := file.Section("film")
	c.Film = FilmConfig{
		Path:  fi.Key("override").String(),
		Start: fi.Key("start").MustInt(0),
		End:   fi.Key("end").MustInt(-1),
	}

	out := file.Section("output")
	c.Output = OutputConfig{
		Dir:     out.Key("dir").MustString("out"),
		Formats: out.Key("formats").Strings(","),
		DBPath:  out.Key("db_path").MustString("regen.db"),
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = []string{"csv"}
	}
	c.Server = ServerConfig{Addr: file.Section("server").Key("addr").MustString(":9000")}

	sw := file.Section("sweep")
	for _, name := range sw.Key("methods").Strings(",") {
		m, err := ParseMethod(name)
		if err != nil {
			return nil, err
		}
		c.Sweep.Methods = append(c.Sweep.Methods, m)
	}
	c.Sweep.Channels = sw.Key("channels").Ints(",")
	c.Sweep.Workers = sw.Key("workers").MustInt(0)

	for _, s := range file.ChildSections("injector") {
		c.Injectors = append(c.Injectors, injectorConfig(s))
	}
	if file.HasSection("feed") {
		c.Feed = feedConfig(file.Section("feed"))
	}
	return c, nil
}

// gasState reads one property set. Region sections inherit missing keys
// from [gas].
func gasState(s *ini.Section) model.GasState {
	return model.GasState{
		T0:           s.Key("t0").MustFloat64(3200),
		Gamma:        s.Key("gamma").MustFloat64(1.21),
		Prandtl:      s.Key("prandtl").MustFloat64(0.525),
		Viscosity:    s.Key("viscosity").MustFloat64(1e-4),
		Conductivity: s.Key("conductivity").MustFloat64(0.4),
		Cp:           s.Key("cp").MustFloat64(2100),
		CStar:        s.Key("cstar").MustFloat64(0),
		XCO2:         s.Key("x_co2").MustFloat64(0.1),
		XH2O:         s.Key("x_h2o").MustFloat64(0.35),
	}
}

func injectorConfig(s *ini.Section) InjectorConfig {
	name := s.Name()
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return InjectorConfig{
		Name:             name,
		Type:             s.Key("type").MustString("liquid"),
		Fluid:            s.Key("fluid").MustString("ethanol"),
		Table:            s.Key("table").String(),
		Temperature:      s.Key("temperature").MustFloat64(290),
		Pressure:         s.Key("pressure").MustFloat64(60e5),
		Length:           s.Key("length").MustFloat64(2e-3),
		MassFlow:         s.Key("mass_flow").MustFloat64(0),
		PressureDrop:     s.Key("pressure_drop").MustFloat64(10e5),
		InletAngle:       s.Key("inlet_angle").MustFloat64(90) * math.Pi / 180,
		UpstreamDiameter: s.Key("upstream_diameter").MustFloat64(0),
		InnerRadius:      s.Key("inner_radius").MustFloat64(0),
		MeanDiameter:     s.Key("mean_diameter").MustFloat64(0),
	}
}

func feedConfig(s *ini.Section) *FeedConfig {
	return &FeedConfig{
		Oxidiser:         s.Key("oxidiser").MustString("lox"),
		OxidiserTable:    s.Key("oxidiser_table").String(),
		Fuel:             s.Key("fuel").MustString("ethanol"),
		FuelTable:        s.Key("fuel_table").String(),
		Pressurant:       s.Key("pressurant").MustString("nitrogen"),
		OxidiserMassFlow: s.Key("oxidiser_mass_flow").MustFloat64(0),
		FuelMassFlow:     s.Key("fuel_mass_flow").MustFloat64(0),
		TankPressure:     s.Key("tank_pressure").MustFloat64(30e5),
		StoragePressure:  s.Key("storage_pressure").MustFloat64(300e5),
		OxidiserT:        s.Key("oxidiser_temperature").MustFloat64(90),
		FuelT:            s.Key("fuel_temperature").MustFloat64(290),
		PressurantT:      s.Key("pressurant_temperature").MustFloat64(290),
		BurnTime:         s.Key("burn_time").MustFloat64(0),
		Margin:           s.Key("margin").MustFloat64(0.05),
		Ullage:           s.Key("ullage").MustFloat64(0.05),
	}
}

func (c *Config) apply(ov EnvOverrides) {
	if ov.LogLevel != "" {
		c.Log.Level = ov.LogLevel
	}
	if ov.LogFormat != "" {
		c.Log.Format = ov.LogFormat
	}
	if ov.OutputDir != "" {
		c.Output.Dir = ov.OutputDir
	}
	if ov.DBPath != "" {
		c.Output.DBPath = ov.DBPath
	}
	if ov.ServerAddr != "" {
		c.Server.Addr = ov.ServerAddr
	}
}

// Validate checks the values that do not need any file.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return model.InvalidConfig("log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return model.InvalidConfig("log format %q, use \"text\" or \"json\"", c.Log.Format)
	}
	if c.Chamber.Pressure <= 0 || c.Chamber.MassFlow <= 0 {
		return model.InvalidConfig("chamber pressure %g and mass flow %g must be positive", c.Chamber.Pressure, c.Chamber.MassFlow)
	}
	if c.Coolant.MassFlow <= 0 || c.Coolant.Temperature <= 0 || c.Coolant.Pressure <= 0 {
		return model.InvalidConfig("coolant inlet T=%g p=%g mdot=%g must be positive", c.Coolant.Temperature, c.Coolant.Pressure, c.Coolant.MassFlow)
	}
	if c.Wall.Conductivity <= 0 {
		return model.InvalidConfig("wall conductivity %g", c.Wall.Conductivity)
	}
	if (c.Wall.TbcThickness > 0) != (c.Wall.TbcConductivity > 0) {
		return model.InvalidConfig("coating needs both thickness and conductivity, got %g and %g", c.Wall.TbcThickness, c.Wall.TbcConductivity)
	}
	for r, s := range c.Gas.Sets {
		if err := properties.Validate(s); err != nil {
			return fmt.Errorf("gas %s: %w", r, err)
		}
	}
	if err := channel.Validate(c.Channel); err != nil {
		return err
	}
	for _, n := range c.Sweep.Channels {
		if n <= 0 {
			return model.InvalidConfig("sweep channel count %d", n)
		}
	}
	if c.Solver.OuterMaxIt <= 0 || c.InnerMaxIt <= 0 || c.Solver.OuterTol <= 0 || c.InnerTol <= 0 {
		return model.InvalidConfig("solver tolerances and iteration caps must be positive")
	}
	if c.Solver.TargetWallT > 0 && (c.Solver.DiameterDecrement <= 0 || c.Solver.MinHydraulicDiameter <= 0) {
		return model.InvalidConfig("optimisation needs a positive diameter decrement and floor")
	}
	return nil
}

// resolve validates and loads every file the configuration points at.
func (c *Config) resolve() error {
	if err := c.Validate(); err != nil {
		return err
	}
	var err error
	if c.Chamber.Contour != "" {
		c.contour, err = chamber.Load(c.Chamber.Contour, c.Chamber.Scale)
	} else {
		c.contour, err = c.Chamber.Conical.Contour()
	}
	if err != nil {
		return err
	}
	if c.metal, err = material.ByName(c.Material.Name, c.Material.Path, c.Wall.Conductivity); err != nil {
		return err
	}
	base, err := fluidProvider(c.Coolant.Fluid, c.Coolant.Table)
	if err != nil {
		return err
	}
	c.coolant = properties.NewCached(base, c.Coolant.CacheLimit)

	c.film = film.Uncooled{}
	if c.Film.Path != "" {
		end := c.Film.End
		if end < 0 {
			end = c.contour.Len() - 1
		}
		if c.film, err = film.LoadOverride(c.Film.Path, c.Film.Start, end); err != nil {
			return err
		}
	}
	return nil
}

func fluidProvider(name, table string) (properties.FluidProvider, error) {
	if table != "" {
		f, err := properties.LoadTableFluid(name, table)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	if l, err := properties.LiquidByName(name); err == nil {
		return l, nil
	}
	if g, err := properties.GasByName(name); err == nil {
		return g, nil
	}
	return nil, model.InvalidConfig("unknown fluid %q", name)
}

// SetupLogging applies the configured level and formatter.
func (c *Config) SetupLogging() error {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return model.InvalidConfig("log level %q", c.Log.Level)
	}
	log.SetLevel(level)
	if strings.EqualFold(c.Log.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// Contour returns the resolved chamber contour.
func (c *Config) Contour() *chamber.Contour {
	return c.contour
}

func (c *Config) gasProvider() properties.GasProvider {
	if len(c.Gas.Sets) == 1 {
		return properties.ConstantGas{State: c.Gas.Sets[properties.Throat]}
	}
	return properties.RegionalGas{
		Sets:             c.Gas.Sets,
		ChamberAreaRatio: c.Gas.ChamberAreaRatio,
		ExitAreaRatio:    c.Gas.ExitAreaRatio,
	}
}

// Case builds the configured design point.
func (c *Config) Case() (Case, error) {
	return c.buildCase(c.Name, c.Method, c.Channel)
}

// Cases builds every combination of sweep methods and channel counts.
func (c *Config) Cases() ([]Case, error) {
	methods := c.Sweep.Methods
	if len(methods) == 0 {
		methods = []Method{c.Method}
	}
	counts := c.Sweep.Channels
	if len(counts) == 0 {
		counts = []int{c.Channel.N}
	}
	var cases []Case
	for _, m := range methods {
		for _, n := range counts {
			nominal := c.Channel
			nominal.N = n
			cs, err := c.buildCase(fmt.Sprintf("%s/%s/N%d", c.Name, m, n), m, nominal)
			if err != nil {
				return nil, err
			}
			cases = append(cases, cs)
		}
	}
	return cases, nil
}

func (c *Config) buildCase(name string, method Method, nominal model.ChannelGeometry) (Case, error) {
	if c.contour == nil {
		return Case{}, model.InvalidConfig("configuration not resolved")
	}
	gs := &GasSide{
		Method:          method,
		ThroatDiameter:  2 * c.contour.ThroatRadius(),
		ChamberPressure: c.Chamber.Pressure,
		MassFlow:        c.Chamber.MassFlow,
		ThroatCurvature: c.Chamber.ThroatCurvature,
		Efficiency:      c.Chamber.Efficiency,
	}
	conj := NewConjugate(gs, c.coolant, c.Wall)
	conj.Tol = c.InnerTol
	conj.MaxIt = c.InnerMaxIt

	s, err := c.coolant.State(c.Coolant.Temperature, c.Coolant.Pressure)
	if err != nil {
		return Case{}, model.InvalidConfig("coolant inlet: %v", err)
	}
	m := &Marcher{
		Stations:        c.contour.Stations(),
		ThroatArea:      c.contour.ThroatArea(),
		ChamberPressure: c.Chamber.Pressure,
		Gas:             c.gasProvider(),
		GasQuery: properties.GasQuery{
			MixtureRatio:    c.Chamber.MixtureRatio,
			ChamberPressure: c.Chamber.Pressure,
			Region:          properties.Throat,
		},
		Coolant:   c.coolant,
		Film:      c.film,
		Conjugate: conj,
		Channel:   channel.NewSolver(c.metal, c.Solver.Roughness),
		Options:   c.Solver,
	}
	return Case{
		Name:    name,
		Marcher: m,
		Inlet:   model.CoolantState{FluidState: s, MassFlow: c.Coolant.MassFlow},
		Nominal: nominal,
	}, nil
}

// NamedSizer is a configured injector element.
type NamedSizer struct {
	Name string
	injector.Sizer
}

// InjectorSizers builds the [injector.*] elements in file order.
func (c *Config) InjectorSizers() ([]NamedSizer, error) {
	var out []NamedSizer
	for _, ic := range c.Injectors {
		fluid, err := fluidProvider(ic.Fluid, ic.Table)
		if err != nil {
			return nil, fmt.Errorf("injector %s: %w", ic.Name, err)
		}
		var s injector.Sizer
		switch strings.ToLower(ic.Type) {
		case "liquid":
			s = injector.Liquid{Fluid: fluid, Temperature: ic.Temperature, Pressure: ic.Pressure, Length: ic.Length,
				MassFlow: ic.MassFlow, PressureDrop: ic.PressureDrop, InletAngle: ic.InletAngle}
		case "gas":
			g, ok := fluid.(*properties.IdealGas)
			if !ok {
				return nil, model.InvalidConfig("injector %s: gas element fed with %q", ic.Name, ic.Fluid)
			}
			s = injector.Gas{Fluid: g, GasConstant: g.SpecificGasConstant(), Temperature: ic.Temperature, Pressure: ic.Pressure,
				Length: ic.Length, MassFlow: ic.MassFlow, PressureDrop: ic.PressureDrop,
				UpstreamDiameter: ic.UpstreamDiameter, InletAngle: ic.InletAngle}
		case "annular-orifice":
			s = injector.AnnularOrifice{Fluid: fluid, Temperature: ic.Temperature, Pressure: ic.Pressure, Length: ic.Length,
				PressureDrop: ic.PressureDrop, MassFlow: ic.MassFlow, InnerRadius: ic.InnerRadius}
		case "annulus":
			s = injector.Annulus{Fluid: fluid, Temperature: ic.Temperature, Pressure: ic.Pressure, Length: ic.Length,
				MeanDiameter: ic.MeanDiameter, MassFlow: ic.MassFlow, PressureDrop: ic.PressureDrop}
		default:
			return nil, model.InvalidConfig("injector %s: unknown type %q", ic.Name, ic.Type)
		}
		out = append(out, NamedSizer{Name: ic.Name, Sizer: s})
	}
	return out, nil
}

// FeedSystem builds the [feed] section.
func (c *Config) FeedSystem() (*feed.System, error) {
	f := c.Feed
	if f == nil {
		return nil, model.InvalidConfig("no [feed] section")
	}
	ox, err := fluidProvider(f.Oxidiser, f.OxidiserTable)
	if err != nil {
		return nil, fmt.Errorf("oxidiser: %w", err)
	}
	fu, err := fluidProvider(f.Fuel, f.FuelTable)
	if err != nil {
		return nil, fmt.Errorf("fuel: %w", err)
	}
	p, err := properties.GasByName(f.Pressurant)
	if err != nil {
		return nil, fmt.Errorf("pressurant: %w", err)
	}
	s := &feed.System{
		Oxidiser:         ox,
		Fuel:             fu,
		Pressurant:       p,
		OxidiserMassFlow: f.OxidiserMassFlow,
		FuelMassFlow:     f.FuelMassFlow,
		TankPressure:     f.TankPressure,
		StoragePressure:  f.StoragePressure,
		OxidiserT:        f.OxidiserT,
		FuelT:            f.FuelT,
		PressurantT:      f.PressurantT,
		BurnTime:         f.BurnTime,
	}
	return s, s.Validate()
}
