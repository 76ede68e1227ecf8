package film

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"regen/model"
)

// Provider returns the adiabatic wall temperature driving heat into the wall
// at a station. The station arrives with its uncooled value filled in.
type Provider interface {
	AdiabaticWallTemp(st *model.Station) float64
}

// Uncooled keeps the isentropic recovery temperature.
type Uncooled struct{}

func (Uncooled) AdiabaticWallTemp(st *model.Station) float64 {
	return st.UncooledWallT
}

// Override replaces T_aw with externally computed film-cooled values on
// contour stations Start..End inclusive.
type Override struct {
	Start  int
	End    int
	Values map[int]float64
}

func (o *Override) AdiabaticWallTemp(st *model.Station) float64 {
	if st.Index < o.Start || st.Index > o.End {
		return st.UncooledWallT
	}
	if v, ok := o.Values[st.Index]; ok {
		return v
	}
	return st.UncooledWallT
}

// ReadOverride parses "station,T_aw" records. Lines starting with '#' and a
// non-numeric header are skipped.
func ReadOverride(r io.Reader, start, end int) (*Override, error) {
	if end < start {
		return nil, model.InvalidConfig("film range [%d, %d] is empty", start, end)
	}
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	o := &Override{Start: start, End: end, Values: make(map[int]float64)}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.InvalidConfig("film table: %v", err)
		}
		line++
		if len(rec) < 2 {
			return nil, model.InvalidConfig("film table line %d: want station,T_aw", line)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, model.InvalidConfig("film table line %d: %v", line, err)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil || t <= 0 {
			return nil, model.InvalidConfig("film table line %d: bad temperature %q", line, rec[1])
		}
		o.Values[idx] = t
	}
	return o, nil
}

// LoadOverride reads a film table from disk.
func LoadOverride(path string, start, end int) (*Override, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open film table: %w", err)
	}
	defer f.Close()
	o, err := ReadOverride(f, start, end)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"path":    path,
		"start":   start,
		"end":     end,
		"entries": len(o.Values),
	}).Info("film cooling table loaded")
	return o, nil
}
