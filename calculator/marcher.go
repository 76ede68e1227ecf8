package calculator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"regen/channel"
	"regen/deque"
	"regen/film"
	"regen/flow"
	"regen/model"
	"regen/properties"
)

// Policy decides what happens when a station's outer iteration hits its cap.
type Policy int

const (
	Abort Policy = iota
	Continue
)

func (p Policy) String() string {
	if p == Continue {
		return "continue"
	}
	return "abort"
}

func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "abort":
		return Abort, nil
	case "continue":
		return Continue, nil
	}
	return Abort, model.InvalidConfig("unknown outer cap policy %q, use \"abort\" or \"continue\"", name)
}

// Options for the outer iteration and the diameter optimisation.
type Options struct {
	OuterTol   float64
	OuterMaxIt int
	OnOuterCap Policy

	// optimisation runs when TargetWallT > 0, on stations with a radius
	// below OptimiseMaxRadius
	TargetWallT          float64
	OptimiseMaxRadius    float64
	DiameterDecrement    float64
	MinHydraulicDiameter float64

	Roughness float64

	// starting guesses before the first station is solved
	InitialWallT float64
}

func DefaultOptions() Options {
	return Options{
		OuterTol:             1e-2,
		OuterMaxIt:           100,
		OnOuterCap:           Abort,
		DiameterDecrement:    0.05e-3,
		MinHydraulicDiameter: 0.2e-3,
		Roughness:            flow.DefaultRoughness,
		InitialWallT:         400,
	}
}

// RowSink receives every converged station in march order.
type RowSink interface {
	Write(row model.Row) error
}

// SinkFunc adapts a function to RowSink.
type SinkFunc func(row model.Row) error

func (f SinkFunc) Write(row model.Row) error {
	return f(row)
}

// Marcher walks the contour from nozzle exit to injector, solving each
// station and carrying the coolant state upstream.
type Marcher struct {
	Stations        []model.Station // contour order
	ThroatArea      float64
	ChamberPressure float64

	Gas      properties.GasProvider
	GasQuery properties.GasQuery
	Coolant  properties.FluidProvider
	Film     film.Provider

	Conjugate *Conjugate
	Channel   *channel.Solver
	Options   Options

	Sink RowSink
}

// Result of a complete march.
type Result struct {
	Rows      []model.Row // march order
	Stations  []model.Station
	Outlet    model.CoolantState
	PeakWallT float64
	PeakIndex int
	Skipped   int // geometry iterations skipped as infeasible
	Unsettled int // outer iterations that hit the cap under Continue
	Floored   int // stations whose optimisation stopped at the diameter floor
	Elapsed   time.Duration
}

// settled is the outcome of one station's outer iteration.
type settled struct {
	geometry   model.ChannelGeometry
	thermal    model.ThermalState
	iterations int
	converged  bool
}

// Prepare fills in the isentropic and film fields of every station.
func (m *Marcher) Prepare() ([]model.Station, []model.GasState, error) {
	stations := make([]model.Station, len(m.Stations))
	gases := make([]model.GasState, len(m.Stations))
	regioner, _ := m.Gas.(properties.Regioner)
	provider := m.Film
	if provider == nil {
		provider = film.Uncooled{}
	}
	for i, st := range m.Stations {
		q := m.GasQuery
		if regioner != nil {
			q.Region = regioner.RegionOf(st.Branch, st.Area/m.ThroatArea)
		}
		gas, err := m.Gas.Gas(q)
		if err != nil {
			return nil, nil, err
		}
		if err := flow.Local(&st, m.ThroatArea, m.ChamberPressure, gas); err != nil {
			return nil, nil, &model.StationError{Station: st.Index, Stage: model.StageIsentropic, Err: err}
		}
		st.AdiabaticWallT = provider.AdiabaticWallTemp(&st)
		stations[i] = st
		gases[i] = gas
	}
	return stations, gases, nil
}

// Run marches the whole contour. The inlet coolant state enters at the
// nozzle exit; nominal is the channel layout before any sizing.
func (m *Marcher) Run(ctx context.Context, inlet model.CoolantState, nominal model.ChannelGeometry) (*Result, error) {
	start := time.Now()
	opt := m.Options
	stations, gases, err := m.Prepare()
	if err != nil {
		return nil, err
	}
	n := len(stations)
	log.WithFields(log.Fields{
		"stations":     n,
		"method":       m.Conjugate.GasSide.Method,
		"coolant_T":    inlet.Temperature,
		"coolant_p":    inlet.Pressure,
		"coolant_mdot": inlet.MassFlow,
		"channels":     nominal.N,
		"on_outer_cap": opt.OnOuterCap,
	}).Info("march started")

	res := &Result{Rows: make([]model.Row, 0, n), PeakIndex: -1}
	coolant := inlet
	var geometry model.ChannelGeometry
	load := channel.Load{WallT: opt.InitialWallT, CoolantWallT: opt.InitialWallT}
	prevWallT := opt.InitialWallT
	var prev *model.Station

	for i := n - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		st := &stations[i]
		if prev != nil {
			st.SectionLength = math.Hypot(st.X-prev.X, st.Y-prev.Y)
		}
		// lay the warm-started channel out at this radius; optimisation
		// starts every station from the nominal flow area
		seed := nominal
		if prev != nil {
			seed = geometry
			seed.FlowArea = nominal.FlowArea
		}
		if geometry, err = channel.Nominal(st.Y, seed); err != nil {
			return res, &model.StationError{Station: st.Index, Stage: model.StageGeometry, Err: err}
		}
		in := StationInput{Station: st, Gas: gases[i], Coolant: coolant}
		load.GasPressure = st.StaticPressure

		s, err := m.settle(in, geometry, load, prevWallT, res)
		if err != nil {
			return res, err
		}
		if err := m.checkCap(st, s, res); err != nil {
			return res, err
		}

		if opt.TargetWallT > 0 && st.Y < m.optimiseRadius() {
			if s, err = m.optimise(in, s, load, res); err != nil {
				return res, err
			}
		}

		dp, err := PressureDrop(coolant, s.geometry, st.SectionLength, opt.Roughness)
		if err != nil {
			return res, &model.StationError{Station: st.Index, Stage: model.StagePressure, Err: err}
		}
		next, err := Advance(m.Coolant, coolant, s.thermal.HeatFlux, st.Y, st.SectionLength, dp)
		if err != nil {
			return res, &model.StationError{Station: st.Index, Stage: model.StageCoolant, Err: err}
		}
		coolant = next

		row := newRow(st, s, coolant, dp)
		res.Rows = append(res.Rows, row)
		if s.thermal.WallT > res.PeakWallT {
			res.PeakWallT = s.thermal.WallT
			res.PeakIndex = st.Index
		}
		if m.Sink != nil {
			if err := m.Sink.Write(row); err != nil {
				return res, fmt.Errorf("write station %d: %w", st.Index, err)
			}
		}

		geometry = s.geometry
		prevWallT = s.thermal.WallT
		load = channel.Load{
			WallT:              s.thermal.WallT,
			CoolantWallT:       s.thermal.CoolantWallT,
			HeatFlux:           s.thermal.HeatFlux,
			CoolantCoefficient: s.thermal.CoolantCoefficient,
		}
		prev = st
	}

	res.Stations = stations
	res.Outlet = coolant
	res.Elapsed = time.Since(start)
	log.WithFields(log.Fields{
		"peak_wall_temperature": res.PeakWallT,
		"peak_station":          res.PeakIndex,
		"outlet_T":              coolant.Temperature,
		"outlet_p":              coolant.Pressure,
		"skipped":               res.Skipped,
		"unsettled":             res.Unsettled,
		"floored":               res.Floored,
		"elapsed":               res.Elapsed,
	}).Info("march finished")
	return res, nil
}

// checkCap applies the outer cap policy to a settled station.
func (m *Marcher) checkCap(st *model.Station, s settled, res *Result) error {
	if s.converged {
		return nil
	}
	if m.Options.OnOuterCap == Abort {
		return &model.StationError{Station: st.Index, Stage: model.StageOuter,
			Err: model.NonConvergence("outer wall temperature", m.Options.OuterMaxIt)}
	}
	res.Unsettled++
	log.WithFields(log.Fields{
		"station":    st.Index,
		"iterations": s.iterations,
	}).Warn("outer iteration cap reached, continuing")
	return nil
}

// optimise shrinks the channel until the hot wall meets the target. When
// the diameter floor or an infeasible layout stops it, the smallest
// feasible channel solved so far is kept.
func (m *Marcher) optimise(in StationInput, s settled, load channel.Load, res *Result) (settled, error) {
	opt := m.Options
	st := in.Station
	for s.thermal.WallT > opt.TargetWallT {
		shrunk, err := channel.Shrink(s.geometry, opt.DiameterDecrement, opt.MinHydraulicDiameter)
		if err == nil {
			shrunk, err = channel.Nominal(st.Y, shrunk)
		}
		if errors.Is(err, model.ErrInfeasibleGeometry) {
			res.Floored++
			log.WithFields(log.Fields{
				"station":            st.Index,
				"hydraulic_diameter": s.geometry.HydraulicDiameter(),
				"wall_temperature":   s.thermal.WallT,
				"reason":             err,
			}).Warn("optimisation stopped, keeping smallest feasible channel")
			return s, nil
		}
		if err != nil {
			return s, &model.StationError{Station: st.Index, Stage: model.StageOptimise, Err: err}
		}
		next, err := m.settle(in, shrunk, load, s.thermal.WallT, res)
		if err != nil {
			return s, err
		}
		if err := m.checkCap(st, next, res); err != nil {
			return s, err
		}
		s = next
		log.WithFields(log.Fields{
			"station":            st.Index,
			"hydraulic_diameter": s.geometry.HydraulicDiameter(),
			"wall_temperature":   s.thermal.WallT,
		}).Debug("channel shrunk")
	}
	return s, nil
}

func (m *Marcher) optimiseRadius() float64 {
	if m.Options.OptimiseMaxRadius > 0 {
		return m.Options.OptimiseMaxRadius
	}
	if len(m.Stations) > 0 {
		return m.Stations[0].Y
	}
	return 0
}

// settle alternates the geometry and conjugate solves until the hot wall
// temperature stops moving. An infeasible geometry keeps the previous one.
func (m *Marcher) settle(in StationInput, geometry model.ChannelGeometry, load channel.Load, wallT float64, res *Result) (settled, error) {
	opt := m.Options
	st := in.Station
	residuals := deque.NewWindow(8)
	s := settled{geometry: geometry}
	for it := 1; it <= opt.OuterMaxIt; it++ {
		g, err := m.Channel.Solve(st.Y, s.geometry, in.Coolant, load)
		switch {
		case errors.Is(err, model.ErrInfeasibleGeometry):
			res.Skipped++
			log.WithFields(log.Fields{
				"station":   st.Index,
				"iteration": it,
				"reason":    err,
			}).Warn("skipped iteration due to infeasible geometry")
		case err != nil:
			return s, &model.StationError{Station: st.Index, Stage: model.StageGeometry, Err: err}
		default:
			s.geometry = g
		}

		in.Geometry = s.geometry
		th, err := m.Conjugate.Solve(in)
		if err != nil {
			return s, &model.StationError{Station: st.Index, Stage: model.StageConjugate, Err: err}
		}
		s.thermal = th
		s.iterations = it

		delta := math.Abs(th.WallT - wallT)
		residuals.Push(delta)
		log.WithFields(log.Fields{
			"station":          st.Index,
			"iteration":        it,
			"delta":            delta,
			"wall_temperature": th.WallT,
			"stress_ratio":     s.geometry.StressRatio,
		}).Debug("outer iteration")

		wallT = th.WallT
		load.WallT = th.WallT
		load.CoolantWallT = th.CoolantWallT
		load.HeatFlux = th.HeatFlux
		load.CoolantCoefficient = th.CoolantCoefficient
		if delta < opt.OuterTol {
			s.converged = true
			return s, nil
		}
	}
	log.WithFields(log.Fields{
		"station":   st.Index,
		"residuals": residuals.Values(),
	}).Debug("last outer residuals")
	return s, nil
}

func newRow(st *model.Station, s settled, c model.CoolantState, dp float64) model.Row {
	g, th := s.geometry, s.thermal
	return model.Row{
		Station:         st.Index,
		X:               st.X,
		Y:               st.Y,
		Mach:            st.Mach,
		AdiabaticWallT:  st.AdiabaticWallT,
		GasCoefficient:  th.GasCoefficient,
		HeatFlux:        th.HeatFlux,
		Radiation:       th.Radiation,
		WallT:           th.WallT,
		TbcT:            th.TbcT,
		CoolantT:        c.Temperature,
		CoolantP:        c.Pressure,
		Rei:             g.Rei,
		Reo:             g.Reo,
		PressureDrop:    dp,
		SectionLength:   st.SectionLength,
		Dhi:             g.Dhi,
		Dho:             g.Dho,
		Wt1:             g.Wt1,
		Wto:             g.Wto,
		Rf1:             g.Rf1,
		Rf2:             g.Rf2,
		T:               g.T,
		Hi:              g.Hi,
		Ho:              g.Ho,
		FinEfficiency:   g.FinEfficiency,
		StressRatio:     g.StressRatio,
		OuterIterations: s.iterations,
		OuterConverged:  s.converged,
	}
}
