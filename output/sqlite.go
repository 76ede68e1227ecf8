package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"regen/calculator"
	"regen/model"
)

func stationsDDL() string {
	var b strings.Builder
	b.WriteString(`CREATE TABLE IF NOT EXISTS stations (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			station INTEGER NOT NULL,
			march_order INTEGER NOT NULL,
`)
	for _, col := range columns {
		fmt.Fprintf(&b, "\t\t\t%s REAL NOT NULL,\n", col.name)
	}
	b.WriteString(`			outer_iterations INTEGER NOT NULL,
			outer_converged INTEGER NOT NULL,
			PRIMARY KEY (run_id, station)
		);`)
	return b.String()
}

// EnsureSchema creates the runs and stations tables if they are missing.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			method TEXT,
			contour TEXT,
			status TEXT NOT NULL DEFAULT 'running',
			error TEXT,
			stations INTEGER NOT NULL DEFAULT 0,
			peak_wall_temperature REAL,
			peak_station INTEGER,
			outlet_temperature REAL,
			outlet_pressure REAL,
			skipped INTEGER,
			unsettled INTEGER,
			elapsed_ms INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	`)
	if err != nil {
		return fmt.Errorf("creating runs table: %w", err)
	}
	if _, err := db.Exec(stationsDDL()); err != nil {
		return fmt.Errorf("creating stations table: %w", err)
	}
	return nil
}

// sqliteWriter stores one run and its station rows.
type sqliteWriter struct {
	db     *sql.DB
	insert *sql.Stmt
	runID  int64
	order  int
}

func newSQLite(s Settings) (Writer, error) {
	path := s.DBPath
	if path == "" {
		path = filepath.Join(s.Dir, "regen.db")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// sweep cases share the file
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	res, err := db.Exec(`INSERT INTO runs (name, method, contour) VALUES (?, ?, ?)`, s.Run, s.Method, s.Contour)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		db.Close()
		return nil, err
	}

	names := []string{"run_id", "station", "march_order"}
	for _, col := range columns {
		names = append(names, col.name)
	}
	names = append(names, "outer_iterations", "outer_converged")
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	stmt, err := db.Prepare(fmt.Sprintf("INSERT INTO stations (%s) VALUES (%s)", strings.Join(names, ", "), marks))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing station insert: %w", err)
	}
	return &sqliteWriter{db: db, insert: stmt, runID: id}, nil
}

func (w *sqliteWriter) Write(row model.Row) error {
	args := make([]any, 0, len(columns)+5)
	args = append(args, w.runID, row.Station, w.order)
	for _, col := range columns {
		args = append(args, col.get(&row))
	}
	converged := 0
	if row.OuterConverged {
		converged = 1
	}
	args = append(args, row.OuterIterations, converged)
	if _, err := w.insert.Exec(args...); err != nil {
		return fmt.Errorf("inserting station %d: %w", row.Station, err)
	}
	w.order++
	return nil
}

func (w *sqliteWriter) Close(res *calculator.Result, runErr error) error {
	defer w.db.Close()
	defer w.insert.Close()

	var err error
	switch {
	case runErr != nil:
		_, err = w.db.Exec(`UPDATE runs SET status = 'failed', error = ?, stations = ? WHERE id = ?`,
			runErr.Error(), w.order, w.runID)
	case res != nil:
		_, err = w.db.Exec(`UPDATE runs SET status = 'finished', stations = ?, peak_wall_temperature = ?,
			peak_station = ?, outlet_temperature = ?, outlet_pressure = ?, skipped = ?, unsettled = ?,
			elapsed_ms = ? WHERE id = ?`,
			w.order, res.PeakWallT, res.PeakIndex, res.Outlet.Temperature, res.Outlet.Pressure,
			res.Skipped, res.Unsettled, res.Elapsed.Milliseconds(), w.runID)
	}
	if err != nil {
		return fmt.Errorf("updating run %d: %w", w.runID, err)
	}
	log.WithFields(log.Fields{"run_id": w.runID, "stations": w.order}).Info("run stored")
	return nil
}
