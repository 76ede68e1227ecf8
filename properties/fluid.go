package properties

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"regen/model"
	"regen/numeric"
)

// FluidProvider returns the coolant state at a temperature and pressure.
// Implementations must be pure.
type FluidProvider interface {
	State(t, p float64) (model.FluidState, error)
}

const atmosphere = 101325.0

// Liquid is a correlation-based liquid: linear density, specific heat and
// conductivity, Andrade viscosity, Clausius-Clapeyron saturation curve.
// Properties are evaluated with T clamped to [TMin, TMax].
type Liquid struct {
	Name string

	TRef   float64
	RhoRef float64
	DRhoDT float64
	CpRef  float64
	DCpDT  float64
	KRef   float64
	DKDT   float64
	MuA    float64 // ln(mu) = MuA + MuB/T
	MuB    float64

	TMin float64
	TMax float64

	TBoil   float64 // normal boiling point
	LatentR float64 // latent heat over gas constant, K
	TCrit   float64
	PCrit   float64
}

// Ethanol returns correlations for liquid C2H5OH.
func Ethanol() *Liquid {
	return &Liquid{
		Name:    "C2H5OH",
		TRef:    293.15,
		RhoRef:  789.0,
		DRhoDT:  -1.05,
		CpRef:   2440.0,
		DCpDT:   8.5,
		KRef:    0.167,
		DKDT:    -2.3e-4,
		MuA:     -13.160,
		MuB:     1885.5,
		TMin:    200,
		TMax:    480,
		TBoil:   351.4,
		LatentR: 4638,
		TCrit:   514.0,
		PCrit:   61.4e5,
	}
}

// Water returns correlations for liquid H2O.
func Water() *Liquid {
	return &Liquid{
		Name:    "H2O",
		TRef:    293.15,
		RhoRef:  998.2,
		DRhoDT:  -0.5,
		CpRef:   4182.0,
		DCpDT:   0.5,
		KRef:    0.598,
		DKDT:    1.2e-3,
		MuA:     -13.000,
		MuB:     1785.0,
		TMin:    274,
		TMax:    600,
		TBoil:   373.15,
		LatentR: 4889,
		TCrit:   647.1,
		PCrit:   220.6e5,
	}
}

// LiquidOxygen returns correlations for saturated LOX near its boiling
// point, for tank sizing.
func LiquidOxygen() *Liquid {
	return &Liquid{
		Name:    "LOX",
		TRef:    90.19,
		RhoRef:  1141.0,
		DRhoDT:  -4.8,
		CpRef:   1699.0,
		DCpDT:   3.0,
		KRef:    0.151,
		DKDT:    -1.3e-3,
		MuA:     -10.80,
		MuB:     201.0,
		TMin:    55,
		TMax:    150,
		TBoil:   90.19,
		LatentR: 820,
		TCrit:   154.6,
		PCrit:   50.4e5,
	}
}

// LiquidByName resolves a coolant name from the configuration.
func LiquidByName(name string) (*Liquid, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ethanol", "c2h5oh":
		return Ethanol(), nil
	case "water", "h2o":
		return Water(), nil
	case "lox", "liquid-oxygen":
		return LiquidOxygen(), nil
	}
	return nil, model.InvalidConfig("unknown coolant %q", name)
}

// SaturationPressure from the Clausius-Clapeyron relation anchored at the
// normal boiling point.
func (l *Liquid) SaturationPressure(t float64) float64 {
	return atmosphere * math.Exp(l.LatentR*(1/l.TBoil-1/t))
}

// PhaseAt classifies the state against the saturation curve.
func (l *Liquid) PhaseAt(t, p float64) model.Phase {
	if t >= l.TCrit && p >= l.PCrit {
		return model.Supercritical
	}
	if t >= l.TCrit || p < l.SaturationPressure(t) {
		return model.Gas
	}
	return model.Liquid
}

func (l *Liquid) State(t, p float64) (model.FluidState, error) {
	if t <= 0 || p <= 0 || math.IsNaN(t) || math.IsNaN(p) {
		return model.FluidState{}, fmt.Errorf("%s: invalid state T=%g p=%g", l.Name, t, p)
	}
	tc := math.Min(math.Max(t, l.TMin), l.TMax)
	if tc != t {
		log.WithFields(log.Fields{"fluid": l.Name, "temperature": t, "bound": tc}).Debug("temperature outside correlation range, clamped")
	}
	s := model.FluidState{
		Temperature:  t,
		Pressure:     p,
		Density:      l.RhoRef + l.DRhoDT*(tc-l.TRef),
		Viscosity:    math.Exp(l.MuA + l.MuB/tc),
		Cp:           l.CpRef + l.DCpDT*(tc-l.TRef),
		Conductivity: l.KRef + l.DKDT*(tc-l.TRef),
		Phase:        l.PhaseAt(t, p),
		Clamped:      tc != t,
	}
	s.Prandtl = s.Cp * s.Viscosity / s.Conductivity
	return s, nil
}

// TableRow is one record of a tabulated fluid file.
type TableRow struct {
	Temperature  float64 `json:"temperature"`
	Density      float64 `json:"density"`
	Viscosity    float64 `json:"viscosity"`
	Cp           float64 `json:"cp"`
	Conductivity float64 `json:"conductivity"`
	Phase        string  `json:"phase"`
}

// TableFluid interpolates pressure-independent properties in temperature.
type TableFluid struct {
	Name  string
	temps []float64
	phase []model.Phase

	density      *numeric.Table
	viscosity    *numeric.Table
	cp           *numeric.Table
	conductivity *numeric.Table
}

// NewTableFluid builds a provider from rows in any order.
func NewTableFluid(name string, rows []TableRow) (*TableFluid, error) {
	if len(rows) == 0 {
		return nil, model.InvalidConfig("fluid table %q is empty", name)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Temperature < rows[j].Temperature
	})
	n := len(rows)
	t, rho, mu, cp, k := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	f := &TableFluid{Name: name, phase: make([]model.Phase, n)}
	for i, r := range rows {
		if r.Density <= 0 || r.Viscosity <= 0 || r.Cp <= 0 || r.Conductivity <= 0 {
			return nil, model.InvalidConfig("fluid table %q: non-positive property at T=%g", name, r.Temperature)
		}
		t[i], rho[i], mu[i], cp[i], k[i] = r.Temperature, r.Density, r.Viscosity, r.Cp, r.Conductivity
		switch strings.ToLower(r.Phase) {
		case "gas", "g":
			f.phase[i] = model.Gas
		case "supercritical":
			f.phase[i] = model.Supercritical
		default:
			f.phase[i] = model.Liquid
		}
	}
	var err error
	if f.density, err = numeric.NewTable(t, rho); err != nil {
		return nil, model.InvalidConfig("fluid table %q: %v", name, err)
	}
	f.viscosity, _ = numeric.NewTable(t, mu)
	f.cp, _ = numeric.NewTable(t, cp)
	f.conductivity, _ = numeric.NewTable(t, k)
	f.temps = t
	return f, nil
}

// LoadTableFluid reads a JSON array of TableRow.
func LoadTableFluid(name, path string) (*TableFluid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fluid table: %w", err)
	}
	var rows []TableRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, model.InvalidConfig("parse fluid table %s: %v", path, err)
	}
	return NewTableFluid(name, rows)
}

func (f *TableFluid) State(t, p float64) (model.FluidState, error) {
	if t <= 0 || math.IsNaN(t) {
		return model.FluidState{}, fmt.Errorf("%s: invalid temperature %g", f.Name, t)
	}
	i := sort.SearchFloat64s(f.temps, t)
	if i >= len(f.temps) {
		i = len(f.temps) - 1
	}
	s := model.FluidState{
		Temperature:  t,
		Pressure:     p,
		Density:      f.density.At(t),
		Viscosity:    f.viscosity.At(t),
		Cp:           f.cp.At(t),
		Conductivity: f.conductivity.At(t),
		Phase:        f.phase[i],
		Clamped:      t < f.temps[0] || t > f.temps[len(f.temps)-1],
	}
	s.Prandtl = s.Cp * s.Viscosity / s.Conductivity
	return s, nil
}

type stateKey struct {
	t, p float64
}

// Cached memoises a FluidProvider. The cache is dropped once it holds
// Limit entries.
type Cached struct {
	Provider FluidProvider
	Limit    int

	mu     sync.Mutex
	states map[stateKey]model.FluidState
	hits   int
	misses int
}

func NewCached(p FluidProvider, limit int) *Cached {
	if limit <= 0 {
		limit = 1 << 16
	}
	return &Cached{Provider: p, Limit: limit, states: make(map[stateKey]model.FluidState)}
}

func (c *Cached) State(t, p float64) (model.FluidState, error) {
	key := stateKey{t, p}
	c.mu.Lock()
	if s, ok := c.states[key]; ok {
		c.hits++
		c.mu.Unlock()
		return s, nil
	}
	c.misses++
	c.mu.Unlock()

	s, err := c.Provider.State(t, p)
	if err != nil {
		return s, err
	}

	c.mu.Lock()
	if len(c.states) >= c.Limit {
		c.states = make(map[stateKey]model.FluidState)
	}
	c.states[key] = s
	c.mu.Unlock()
	return s, nil
}

// Stats returns cache hits and misses.
func (c *Cached) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
