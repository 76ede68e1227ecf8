// Package output writes march results as they stream out of the marcher.
package output

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"regen/calculator"
	"regen/model"
)

// Writer is a row sink that is told how the run ended.
type Writer interface {
	calculator.RowSink
	Close(res *calculator.Result, runErr error) error
}

// Settings shared by every format.
type Settings struct {
	Dir     string
	DBPath  string
	Run     string
	Method  string
	Contour string
}

// fileKey turns a run name into a file name stem.
func (s Settings) fileKey() string {
	r := strings.NewReplacer("/", "_", " ", "_", "\\", "_")
	if s.Run == "" {
		return "regen"
	}
	return r.Replace(s.Run)
}

// Factory opens a writer for one run.
type Factory func(s Settings) (Writer, error)

var registry = map[string]Factory{
	"csv":    newCSV,
	"sqlite": newSQLite,
	"plot":   newPlot,
}

// Register adds or replaces a format.
func Register(name string, f Factory) {
	registry[strings.ToLower(name)] = f
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Multi fans rows out to several writers.
type Multi struct {
	writers []Writer
	names   []string
}

// New opens one writer per format. Unknown formats are a configuration
// error and nothing is left open.
func New(formats []string, s Settings) (*Multi, error) {
	for _, f := range formats {
		if _, ok := registry[strings.ToLower(f)]; !ok {
			return nil, model.InvalidConfig("unknown output format %q, have %v", f, Formats())
		}
	}
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	m := &Multi{}
	for _, f := range formats {
		w, err := registry[strings.ToLower(f)](s)
		if err != nil {
			m.Close(nil, err)
			return nil, fmt.Errorf("open %s output: %w", f, err)
		}
		m.writers = append(m.writers, w)
		m.names = append(m.names, f)
	}
	log.WithFields(log.Fields{"formats": m.names, "dir": s.Dir, "run": s.Run}).Debug("output opened")
	return m, nil
}

func (m *Multi) Write(row model.Row) error {
	for i, w := range m.writers {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("%s output: %w", m.names[i], err)
		}
	}
	return nil
}

// Close closes every writer and joins their errors.
func (m *Multi) Close(res *calculator.Result, runErr error) error {
	var errs []error
	for i, w := range m.writers {
		if err := w.Close(res, runErr); err != nil {
			errs = append(errs, fmt.Errorf("%s output: %w", m.names[i], err))
		}
	}
	return errors.Join(errs...)
}

// column is one numeric field of the station table.
type column struct {
	name string
	get  func(r *model.Row) float64
}

var columns = []column{
	{"x", func(r *model.Row) float64 { return r.X }},
	{"y", func(r *model.Row) float64 { return r.Y }},
	{"mach", func(r *model.Row) float64 { return r.Mach }},
	{"adiabatic_wall_temperature", func(r *model.Row) float64 { return r.AdiabaticWallT }},
	{"gas_coefficient", func(r *model.Row) float64 { return r.GasCoefficient }},
	{"heat_flux", func(r *model.Row) float64 { return r.HeatFlux }},
	{"radiation", func(r *model.Row) float64 { return r.Radiation }},
	{"wall_temperature", func(r *model.Row) float64 { return r.WallT }},
	{"tbc_temperature", func(r *model.Row) float64 { return r.TbcT }},
	{"coolant_temperature", func(r *model.Row) float64 { return r.CoolantT }},
	{"coolant_pressure", func(r *model.Row) float64 { return r.CoolantP }},
	{"re_inner", func(r *model.Row) float64 { return r.Rei }},
	{"re_outer", func(r *model.Row) float64 { return r.Reo }},
	{"pressure_drop", func(r *model.Row) float64 { return r.PressureDrop }},
	{"section_length", func(r *model.Row) float64 { return r.SectionLength }},
	{"dh_inner", func(r *model.Row) float64 { return r.Dhi }},
	{"dh_outer", func(r *model.Row) float64 { return r.Dho }},
	{"wt1", func(r *model.Row) float64 { return r.Wt1 }},
	{"wto", func(r *model.Row) float64 { return r.Wto }},
	{"rf1", func(r *model.Row) float64 { return r.Rf1 }},
	{"rf2", func(r *model.Row) float64 { return r.Rf2 }},
	{"t", func(r *model.Row) float64 { return r.T }},
	{"h_inner", func(r *model.Row) float64 { return r.Hi }},
	{"h_outer", func(r *model.Row) float64 { return r.Ho }},
	{"fin_efficiency", func(r *model.Row) float64 { return r.FinEfficiency }},
	{"stress_ratio", func(r *model.Row) float64 { return r.StressRatio }},
}
