package output

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"regen/calculator"
	"regen/feed"
	"regen/injector"
	"regen/model"
)

func testRows() []model.Row {
	return []model.Row{
		{Station: 2, X: 0.2, Y: 0.03, WallT: 700, CoolantT: 295, CoolantP: 79e5, HeatFlux: 5e6, OuterIterations: 2, OuterConverged: true},
		{Station: 1, X: 0.1, Y: 0.015, WallT: 900, CoolantT: 300, CoolantP: 78e5, HeatFlux: 9e6, OuterIterations: 2, OuterConverged: true},
		{Station: 0, X: 0.0, Y: 0.04, WallT: 650, CoolantT: 310, CoolantP: 77e5, HeatFlux: 3e6, OuterIterations: 3, OuterConverged: false},
	}
}

func testResult(rows []model.Row) *calculator.Result {
	return &calculator.Result{
		Rows:      rows,
		PeakWallT: 900,
		PeakIndex: 1,
		Outlet:    model.CoolantState{FluidState: model.FluidState{Temperature: 310, Pressure: 77e5}},
		Unsettled: 1,
		Elapsed:   12 * time.Millisecond,
	}
}

func TestCSV(t *testing.T) {
	dir := t.TempDir()
	m, err := New([]string{"csv"}, Settings{Dir: dir, Run: "case/a"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	rows := testRows()
	for _, r := range rows {
		if err := m.Write(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Close(testResult(rows), nil); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "case_a.csv"))
	if err != nil {
		t.Fatalf("csv not written: %v", err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 4 {
		t.Fatalf("expected header and 3 rows, got %d lines", len(recs))
	}
	if recs[0][0] != "station" || recs[0][len(recs[0])-1] != "outer_converged" || len(recs[0]) != len(columns)+3 {
		t.Errorf("header %v", recs[0])
	}
	if recs[2][0] != "1" || recs[3][len(recs[3])-1] != "false" {
		t.Errorf("rows out of order: %v", recs[1:])
	}
}

func TestSQLite(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "regen_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)
	dbPath := filepath.Join(tmpDir, "runs", "test.db")

	rows := testRows()
	for i, runErr := range []error{nil, errors.New("station 0: outer iteration: boom")} {
		m, err := New([]string{"sqlite"}, Settings{DBPath: dbPath, Run: "demo", Method: "cinjarew"})
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		for _, r := range rows[:3-i] {
			if err := m.Write(r); err != nil {
				t.Fatal(err)
			}
		}
		var res *calculator.Result
		if runErr == nil {
			res = testResult(rows)
		}
		if err := m.Close(res, runErr); err != nil {
			t.Fatal(err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	defer db.Close()

	var status string
	var peak float64
	var stations int
	err = db.QueryRow("SELECT status, peak_wall_temperature, stations FROM runs WHERE id = 1").Scan(&status, &peak, &stations)
	if err != nil {
		t.Fatalf("Failed to query run: %v", err)
	}
	if status != "finished" || peak != 900 || stations != 3 {
		t.Errorf("run 1: %s, peak %g, %d stations", status, peak, stations)
	}
	var msg string
	if err := db.QueryRow("SELECT status, error FROM runs WHERE id = 2").Scan(&status, &msg); err != nil {
		t.Fatal(err)
	}
	if status != "failed" || !strings.Contains(msg, "boom") {
		t.Errorf("run 2: %s %q", status, msg)
	}

	var count int
	var wall float64
	if err := db.QueryRow("SELECT COUNT(*) FROM stations WHERE run_id = 2").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 stored stations for the failed run, got %d", count)
	}
	err = db.QueryRow("SELECT wall_temperature FROM stations WHERE run_id = 1 AND march_order = 1").Scan(&wall)
	if err != nil || wall != 900 {
		t.Errorf("second marched station: %g, %v", wall, err)
	}
}

func TestUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	if _, err := New([]string{"csv", "xlsx"}, Settings{Dir: dir}); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Errorf("unknown format accepted: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("files left behind: %d", len(entries))
	}
}

func TestRegister(t *testing.T) {
	var got []model.Row
	Register("memory", func(Settings) (Writer, error) {
		return &memWriter{rows: &got}, nil
	})
	defer delete(registry, "memory")

	m, err := New([]string{"memory"}, Settings{})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range testRows() {
		m.Write(r)
	}
	if err := m.Close(nil, nil); err != nil || len(got) != 3 {
		t.Errorf("memory sink: %d rows, %v", len(got), err)
	}
}

type memWriter struct {
	rows *[]model.Row
}

func (w *memWriter) Write(r model.Row) error {
	*w.rows = append(*w.rows, r)
	return nil
}

func (w *memWriter) Close(*calculator.Result, error) error { return nil }

func TestSummary(t *testing.T) {
	s := Summary("demo", testResult(testRows()), nil)
	for _, want := range []string{"demo", "900.0 K at station 1", "77.00 bar", "0 / 1"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary lacks %q:\n%s", want, s)
		}
	}
	failed := Summary("demo", nil, errors.New("station 4: channel geometry: infeasible"))
	if !strings.Contains(failed, "infeasible") {
		t.Errorf("failure not shown:\n%s", failed)
	}

	sweep := SweepSummary([]calculator.CaseResult{
		{Name: "a", Result: testResult(testRows())},
		{Name: "b", Err: errors.New("diverged")},
	})
	if !strings.Contains(sweep, "diverged") || !strings.Contains(sweep, "900.0") {
		t.Errorf("sweep summary:\n%s", sweep)
	}
}

func TestInjectorAndFeedSummary(t *testing.T) {
	inj := InjectorSummary([]InjectorRow{
		{Name: "fuel", Result: injector.Result{Diameter: 1.2e-3, Velocity: 30, Discharge: 0.7, Reynolds: 4e4, PressureDrop: 8e5}},
	})
	if !strings.Contains(inj, "fuel") || !strings.Contains(inj, "1.200") || !strings.Contains(inj, "8.00") {
		t.Errorf("injector summary:\n%s", inj)
	}
	fs := FeedSummary(FeedReport{
		PropellantVolume: 0.025,
		Sutton:           feed.Pressurant{Mass: 0.512, TankVolume: 0.004, CoolingFactor: 1.2},
		Tanks:            feed.Tanks{Propellant: 1.5, Pressurant: 0.9},
	})
	for _, want := range []string{"25.0 l", "0.512 kg in 4.0 l", "1.50 kg propellant"} {
		if !strings.Contains(fs, want) {
			t.Errorf("feed summary lacks %q:\n%s", want, fs)
		}
	}
}

func TestPlotOrder(t *testing.T) {
	w, err := newPlot(Settings{Dir: t.TempDir(), Run: "order"})
	if err != nil {
		t.Fatal(err)
	}
	p := w.(*plotWriter)
	for _, r := range testRows() {
		p.Write(r)
	}
	x := p.series(func(r *model.Row) float64 { return r.X })
	if len(x) != 3 || x[0] != 0 || x[1] != 0.1 || x[2] != 0.2 {
		t.Errorf("series not in contour order: %v", x)
	}
	// a failed run draws nothing
	if err := p.Close(nil, errors.New("boom")); err != nil {
		t.Errorf("failed run: %v", err)
	}
}
