package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"

	"regen/calculator"
	"regen/model"
)

// csvWriter writes one line per station in march order.
type csvWriter struct {
	path string
	file *os.File
	w    *csv.Writer
	rows int
}

func newCSV(s Settings) (Writer, error) {
	path := filepath.Join(s.Dir, s.fileKey()+".csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	c := &csvWriter{path: path, file: f, w: csv.NewWriter(f)}
	header := []string{"station"}
	for _, col := range columns {
		header = append(header, col.name)
	}
	header = append(header, "outer_iterations", "outer_converged")
	if err := c.w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func (c *csvWriter) Write(row model.Row) error {
	rec := make([]string, 0, len(columns)+3)
	rec = append(rec, strconv.Itoa(row.Station))
	for _, col := range columns {
		rec = append(rec, strconv.FormatFloat(col.get(&row), 'g', 10, 64))
	}
	rec = append(rec, strconv.Itoa(row.OuterIterations), strconv.FormatBool(row.OuterConverged))
	c.rows++
	return c.w.Write(rec)
}

func (c *csvWriter) Close(_ *calculator.Result, _ error) error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return fmt.Errorf("flush %s: %w", c.path, err)
	}
	log.WithFields(log.Fields{"path": c.path, "rows": c.rows}).Info("csv written")
	return c.file.Close()
}
