package output

import (
	"fmt"

	"github.com/cpmech/gosl/plt"
	log "github.com/sirupsen/logrus"

	"regen/calculator"
	"regen/deque"
	"regen/model"
)

// plotWriter collects rows and draws temperature, heat flux and channel
// profiles along the axis when the run finishes. Rows arrive from the
// nozzle exit and are pushed to the front, so the deque holds contour order.
type plotWriter struct {
	dir  string
	key  string
	rows *deque.ListDeque[model.Row]
}

func newPlot(s Settings) (Writer, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	return &plotWriter{dir: dir, key: s.fileKey(), rows: deque.NewListDeque[model.Row](0)}, nil
}

func (p *plotWriter) Write(row model.Row) error {
	p.rows.AddFirst(row)
	return nil
}

// series maps the rows through f in contour order.
func (p *plotWriter) series(f func(r *model.Row) float64) []float64 {
	out := make([]float64, 0, p.rows.Size())
	p.rows.Traverse(func(_ int, r *model.Row) {
		out = append(out, f(r))
	})
	return out
}

func (p *plotWriter) Close(_ *calculator.Result, runErr error) (err error) {
	if runErr != nil || p.rows.IsEmpty() {
		return nil
	}
	// plt shells out to python and panics when that fails
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plot %s: %v", p.key, r)
		}
	}()

	x := p.series(func(r *model.Row) float64 { return r.X * 1e3 })

	plt.Reset(false, nil)
	plt.Subplot(3, 1, 1)
	plt.Plot(x, p.series(func(r *model.Row) float64 { return r.TbcT }), &plt.A{C: "r", Ls: "-", L: "coating"})
	plt.Plot(x, p.series(func(r *model.Row) float64 { return r.WallT }), &plt.A{C: "k", Ls: "-", L: "wall"})
	plt.Plot(x, p.series(func(r *model.Row) float64 { return r.CoolantT }), &plt.A{C: "b", Ls: "-", L: "coolant"})
	plt.Gll("$x$ [mm]", "$T$ [K]", nil)

	plt.Subplot(3, 1, 2)
	plt.Plot(x, p.series(func(r *model.Row) float64 { return r.HeatFlux / 1e6 }), &plt.A{C: "r", Ls: "-", L: "total"})
	plt.Plot(x, p.series(func(r *model.Row) float64 { return r.Radiation / 1e6 }), &plt.A{C: "grey", Ls: "--", L: "radiation"})
	plt.Gll("$x$ [mm]", "$q$ [MW/m$^2$]", nil)

	plt.Subplot(3, 1, 3)
	plt.Plot(x, p.series(func(r *model.Row) float64 { return r.Dhi * 1e3 }), &plt.A{C: "k", Ls: "-", L: "$d_{h,i}$"})
	plt.Plot(x, p.series(func(r *model.Row) float64 { return r.Dho * 1e3 }), &plt.A{C: "k", Ls: "--", L: "$d_{h,o}$"})
	plt.Gll("$x$ [mm]", "$d_h$ [mm]", nil)

	plt.Save(p.dir, p.key)
	log.WithFields(log.Fields{"dir": p.dir, "key": p.key}).Info("plot written")
	return nil
}
