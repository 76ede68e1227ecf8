package calculator

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	log "github.com/sirupsen/logrus"

	"regen/chamber"
	"regen/channel"
	"regen/material"
	"regen/model"
	"regen/properties"
)

func init() {
	log.SetLevel(log.WarnLevel)
}

const (
	chamberPressure = 50e5
	totalMassFlow   = 2.1
)

func testGas() model.GasState {
	return model.GasState{
		T0:           3200,
		Gamma:        1.21,
		Prandtl:      0.525,
		Viscosity:    1e-4,
		Conductivity: 0.4,
		Cp:           2100,
		XCO2:         0.1,
		XH2O:         0.35,
	}
}

func testContour(tst *testing.T) *chamber.Contour {
	c, err := chamber.Conical{
		ChamberRadius:  0.04,
		ChamberLength:  0.08,
		ThroatRadius:   0.015,
		ConvergeAngle:  30,
		DivergeAngle:   15,
		ExpansionRatio: 6,
		Points:         50,
	}.Contour()
	if err != nil {
		tst.Fatalf("contour: %v", err)
	}
	return c
}

func testNominal() model.ChannelGeometry {
	return model.ChannelGeometry{
		N:        42,
		FlowArea: 1.5e-6,
		T:        1e-3,
		Wt1:      0.6e-3,
		Wt2:      0.6e-3,
		Rf1:      0.1e-3,
		Rf2:      0.1e-3,
	}
}

func testInlet(tst *testing.T, coolant properties.FluidProvider) model.CoolantState {
	s, err := coolant.State(290, 80e5)
	if err != nil {
		tst.Fatal(err)
	}
	return model.CoolantState{FluidState: s, MassFlow: 1.0}
}

func testMarcher(tst *testing.T, method Method) *Marcher {
	c := testContour(tst)
	coolant := properties.NewCached(properties.Ethanol(), 0)
	metal := material.Inconel718(24)
	gs := &GasSide{
		Method:          method,
		ThroatDiameter:  2 * c.ThroatRadius(),
		ChamberPressure: chamberPressure,
		MassFlow:        totalMassFlow,
	}
	return &Marcher{
		Stations:        c.Stations(),
		ThroatArea:      c.ThroatArea(),
		ChamberPressure: chamberPressure,
		Gas:             properties.ConstantGas{State: testGas()},
		Coolant:         coolant,
		Conjugate: NewConjugate(gs, coolant, Wall{
			Conductivity:    metal.Conductivity,
			TbcThickness:    0.1e-3,
			TbcConductivity: 0.8,
		}),
		Channel: channel.NewSolver(metal, 0),
		Options: DefaultOptions(),
	}
}

func TestMarchConicalCinjarew(tst *testing.T) {
	chk.PrintTitle("conical chamber, ethanol, cinjarew")

	m := testMarcher(tst, Cinjarew)
	var streamed []model.Row
	m.Sink = SinkFunc(func(row model.Row) error {
		streamed = append(streamed, row)
		return nil
	})
	inlet := testInlet(tst, m.Coolant)
	res, err := m.Run(context.Background(), inlet, testNominal())
	if err != nil {
		tst.Fatalf("march failed: %v", err)
	}
	if len(res.Rows) != 50 || len(streamed) != 50 {
		tst.Fatalf("expected 50 rows, got %d (streamed %d)", len(res.Rows), len(streamed))
	}

	// nozzle exit first
	if res.Rows[0].Station != 49 || res.Rows[49].Station != 0 {
		tst.Errorf("march order: first %d last %d", res.Rows[0].Station, res.Rows[49].Station)
	}
	chk.Float64(tst, "first section length", 0, res.Rows[0].SectionLength, 0)

	prevT, prevP := inlet.Temperature, inlet.Pressure
	for _, r := range res.Rows {
		if r.CoolantT < prevT {
			tst.Errorf("station %d: coolant temperature fell %g -> %g", r.Station, prevT, r.CoolantT)
		}
		if r.CoolantP > prevP {
			tst.Errorf("station %d: coolant pressure rose %g -> %g", r.Station, prevP, r.CoolantP)
		}
		if r.HeatFlux <= 0 || r.WallT <= r.CoolantT || r.TbcT < r.WallT {
			tst.Errorf("station %d: q=%g Tw=%g Ttbc=%g Tc=%g", r.Station, r.HeatFlux, r.WallT, r.TbcT, r.CoolantT)
		}
		if !r.OuterConverged {
			tst.Errorf("station %d did not settle", r.Station)
		}
		prevT, prevP = r.CoolantT, r.CoolantP
	}

	metal := material.Inconel718(24)
	if res.PeakWallT >= metal.MeltingPoint {
		tst.Errorf("peak wall temperature %g K at station %d exceeds melting point", res.PeakWallT, res.PeakIndex)
	}
	if res.Outlet.Pressure >= inlet.Pressure || res.Outlet.Temperature <= inlet.Temperature {
		tst.Errorf("outlet %+v", res.Outlet)
	}
}

func TestMarchAllMethods(tst *testing.T) {
	for _, method := range []Method{StandardBartz, ModifiedBartz} {
		m := testMarcher(tst, method)
		res, err := m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
		if err != nil {
			tst.Fatalf("%v: %v", method, err)
		}
		if len(res.Rows) != 50 {
			tst.Errorf("%v: %d rows", method, len(res.Rows))
		}
	}
}

func TestMarchOuterCap(tst *testing.T) {
	chk.PrintTitle("outer cap policy")

	m := testMarcher(tst, Cinjarew)
	m.Options.OuterMaxIt = 1
	_, err := m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
	var se *model.StationError
	if !errors.As(err, &se) || !errors.Is(err, model.ErrNonConvergence) {
		tst.Fatalf("expected outer non-convergence, got %v", err)
	}
	if se.Station != 49 || se.Stage != model.StageOuter {
		tst.Errorf("failure reported at station %d, stage %q", se.Station, se.Stage)
	}

	m.Options.OnOuterCap = Continue
	res, err := m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
	if err != nil {
		tst.Fatalf("continue policy failed: %v", err)
	}
	if res.Unsettled == 0 || res.Rows[0].OuterConverged {
		tst.Errorf("unsettled stations %d", res.Unsettled)
	}
}

func TestMarchOptimise(tst *testing.T) {
	chk.PrintTitle("hydraulic diameter optimisation")

	base := testMarcher(tst, Cinjarew)
	ref, err := base.Run(context.Background(), testInlet(tst, base.Coolant), testNominal())
	if err != nil {
		tst.Fatal(err)
	}

	m := testMarcher(tst, Cinjarew)
	target := ref.PeakWallT - 20
	m.Options.TargetWallT = target
	m.Options.MinHydraulicDiameter = 0.1e-3
	res, err := m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
	if err != nil {
		tst.Fatalf("optimised march failed: %v", err)
	}
	chamberRadius := m.Stations[0].Y
	for i, r := range res.Rows {
		if r.Y < chamberRadius && r.WallT > target {
			tst.Errorf("station %d: Tw %g above target %g", r.Station, r.WallT, target)
		}
		if r.Station == ref.PeakIndex && (r.Dhi+r.Dho)/2 >= (ref.Rows[i].Dhi+ref.Rows[i].Dho)/2 {
			tst.Errorf("peak station channel was not shrunk")
		}
	}

	// an unreachable target runs into the diameter floor and keeps the
	// smallest feasible channel
	m = testMarcher(tst, Cinjarew)
	m.Options.TargetWallT = 350
	res, err = m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
	if err != nil {
		tst.Fatalf("floored optimisation aborted: %v", err)
	}
	if len(res.Rows) != 50 || res.Floored == 0 {
		tst.Fatalf("%d rows, %d floored stations", len(res.Rows), res.Floored)
	}
	for i, r := range res.Rows {
		if r.Y < chamberRadius && r.WallT > 350 && (r.Dhi+r.Dho)/2 >= (ref.Rows[i].Dhi+ref.Rows[i].Dho)/2 {
			tst.Errorf("station %d: floored channel not shrunk", r.Station)
		}
	}
}

func TestMarchOptimiseCapped(tst *testing.T) {
	chk.PrintTitle("outer cap during optimisation")

	m := testMarcher(tst, Cinjarew)
	m.Options.TargetWallT = 350
	m.Options.OuterMaxIt = 1
	m.Options.OnOuterCap = Continue
	res, err := m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
	if err != nil {
		tst.Fatal(err)
	}
	// every shrink step is capped too
	if res.Unsettled <= len(res.Rows) {
		tst.Errorf("unsettled %d for %d rows", res.Unsettled, len(res.Rows))
	}

	m = testMarcher(tst, Cinjarew)
	m.Options.TargetWallT = 350
	m.Options.OuterMaxIt = 1
	_, err = m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
	if !errors.Is(err, model.ErrNonConvergence) {
		tst.Errorf("expected outer non-convergence, got %v", err)
	}
}

func TestMarchSkipsInfeasible(tst *testing.T) {
	chk.PrintTitle("infeasible geometry keeps the previous channel")

	m := testMarcher(tst, Cinjarew)
	// thermal stress exceeds the allowable wherever heat flows
	m.Channel.Metal.Expansion = 1e-3
	res, err := m.Run(context.Background(), testInlet(tst, m.Coolant), testNominal())
	if err != nil {
		tst.Fatalf("march failed: %v", err)
	}
	if len(res.Rows) != 50 {
		tst.Fatalf("expected 50 rows, got %d", len(res.Rows))
	}
	if res.Skipped < len(res.Rows)-1 {
		tst.Errorf("skipped %d iterations", res.Skipped)
	}

	// only the first solve at the nozzle exit succeeds; later stations lay
	// that channel out at their own radius
	first := res.Rows[0]
	kept := testNominal()
	kept.Wt1 = first.Wt1
	for _, r := range res.Rows[1:] {
		chk.Float64(tst, "wt1", 0, r.Wt1, first.Wt1)
		g, err := channel.Nominal(r.Y, kept)
		if err != nil {
			tst.Fatal(err)
		}
		chk.Float64(tst, "dhi", 1e-9*g.Dhi, r.Dhi, g.Dhi)
	}
}

func TestMarchCancelled(tst *testing.T) {
	m := testMarcher(tst, Cinjarew)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Run(ctx, testInlet(tst, m.Coolant), testNominal()); !errors.Is(err, context.Canceled) {
		tst.Errorf("expected cancellation, got %v", err)
	}
}

func TestPrepareStations(tst *testing.T) {
	m := testMarcher(tst, Cinjarew)
	st, _, err := m.Prepare()
	if err != nil {
		tst.Fatal(err)
	}
	c := testContour(tst)
	chk.Float64(tst, "throat mach", 0, st[c.Throat].Mach, 1)
	if st[0].Mach >= 1 || st[len(st)-1].Mach <= 1 {
		tst.Errorf("branches: inlet M=%g exit M=%g", st[0].Mach, st[len(st)-1].Mach)
	}
	for _, s := range st {
		if math.IsNaN(s.AdiabaticWallT) || s.AdiabaticWallT > testGas().T0 {
			tst.Errorf("station %d: T_aw %g", s.Index, s.AdiabaticWallT)
		}
	}
}
