package calculator

import (
	"errors"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"regen/model"
	"regen/properties"
)

const testIni = `
[run]
name   = unit
method = standard-bartz

[chamber]
pressure  = 40e5
mass_flow = 1.8

[gas]
gamma              = 1.22
chamber_area_ratio = 4

[gas.chamber]
t0 = 3100

[coolant]
fluid       = water
temperature = 300

[wall]
tbc_thickness    = 0.1e-3
tbc_conductivity = 0.8

[solver]
on_outer_cap = continue

[sweep]
methods  = cinjarew, modified-bartz
channels = 36, 48

[injector.fuel]
type          = liquid
fluid         = ethanol
mass_flow     = 0.1
pressure_drop = 10e5

[injector.ox]
type              = gas
fluid             = nitrogen
pressure          = 26e5
mass_flow         = 0.04
pressure_drop     = 6e5
upstream_diameter = 20e-3

[feed]
oxidiser_mass_flow = 1.1
fuel_mass_flow     = 1.0
burn_time          = 10
`

func TestLoadConfig(tst *testing.T) {
	chk.PrintTitle("configuration")

	tst.Setenv("REGEN_OUTPUT_DIR", "/tmp/regen-out")
	c, err := LoadConfig([]byte(testIni))
	if err != nil {
		tst.Fatalf("LoadConfig failed: %v", err)
	}
	if c.Name != "unit" || c.Method != StandardBartz || c.Solver.OnOuterCap != Continue {
		tst.Errorf("run section: %q %v %v", c.Name, c.Method, c.Solver.OnOuterCap)
	}
	chk.Float64(tst, "pc", 0, c.Chamber.Pressure, 40e5)
	chk.Float64(tst, "default coolant pressure", 0, c.Coolant.Pressure, 80e5)
	if c.Output.Dir != "/tmp/regen-out" {
		tst.Errorf("env override ignored: %q", c.Output.Dir)
	}

	// region sections inherit from [gas]
	ch := c.Gas.Sets[properties.Chamber]
	chk.Float64(tst, "chamber T0", 0, ch.T0, 3100)
	chk.Float64(tst, "inherited gamma", 0, ch.Gamma, 1.22)
	if _, ok := c.gasProvider().(properties.RegionalGas); !ok {
		tst.Errorf("two gas sets should give a regional provider")
	}

	cs, err := c.Case()
	if err != nil {
		tst.Fatal(err)
	}
	if len(cs.Marcher.Stations) != 50 || cs.Nominal.N != 42 {
		tst.Errorf("case: %d stations, %d channels", len(cs.Marcher.Stations), cs.Nominal.N)
	}
	chk.Float64(tst, "inlet T", 0, cs.Inlet.Temperature, 300)
	chk.Float64(tst, "inner tol", 0, cs.Marcher.Conjugate.Tol, 1e-6)

	cases, err := c.Cases()
	if err != nil {
		tst.Fatal(err)
	}
	if len(cases) != 4 {
		tst.Fatalf("expected 4 sweep cases, got %d", len(cases))
	}
	if cases[3].Name != "unit/modified-bartz/N48" || cases[3].Nominal.N != 48 {
		tst.Errorf("last case %q with %d channels", cases[3].Name, cases[3].Nominal.N)
	}
	if cases[0].Marcher == cases[1].Marcher || cases[0].Marcher.Conjugate == cases[1].Marcher.Conjugate {
		tst.Errorf("sweep cases share solver state")
	}

	sizers, err := c.InjectorSizers()
	if err != nil {
		tst.Fatal(err)
	}
	if len(sizers) != 2 || sizers[0].Name != "fuel" || sizers[1].Name != "ox" {
		tst.Fatalf("injectors %+v", sizers)
	}
	for _, s := range sizers {
		if _, err := s.Size(); err != nil {
			tst.Errorf("injector %s: %v", s.Name, err)
		}
	}

	sys, err := c.FeedSystem()
	if err != nil {
		tst.Fatal(err)
	}
	if _, err := sys.TankMasses(0.05); err != nil {
		tst.Errorf("feed: %v", err)
	}
}

func TestConfigInvalid(tst *testing.T) {
	for name, edit := range map[string][2]string{
		"method":  {"method = standard-bartz", "method = colburn"},
		"policy":  {"on_outer_cap = continue", "on_outer_cap = retry"},
		"coating": {"tbc_conductivity = 0.8", "tbc_conductivity = 0"},
		"coolant": {"fluid       = water", "fluid       = mercury"},
		"sweep":   {"channels = 36, 48", "channels = 36, x"},
		"flow":    {"mass_flow = 1.8", "mass_flow = -1"},
	} {
		src := strings.Replace(testIni, edit[0], edit[1], 1)
		if src == testIni {
			tst.Fatalf("%s: edit did not apply", name)
		}
		if _, err := LoadConfig([]byte(src)); !errors.Is(err, model.ErrInvalidConfiguration) {
			tst.Errorf("%s: expected invalid configuration, got %v", name, err)
		}
	}

	c, err := LoadConfig([]byte(strings.Replace(testIni, "type              = gas\nfluid             = nitrogen", "type              = gas\nfluid             = ethanol", 1)))
	if err != nil {
		tst.Fatal(err)
	}
	if _, err := c.InjectorSizers(); !errors.Is(err, model.ErrInvalidConfiguration) {
		tst.Errorf("liquid gas injector accepted: %v", err)
	}
}

func TestSampleConfig(tst *testing.T) {
	c, err := LoadConfig("../" + DefaultConfigPath)
	if err != nil {
		tst.Fatalf("sample configuration: %v", err)
	}
	if len(c.Gas.Sets) != 3 || len(c.Injectors) != 2 || c.Feed == nil {
		tst.Errorf("sample: %d gas sets, %d injectors, feed %v", len(c.Gas.Sets), len(c.Injectors), c.Feed != nil)
	}
}
