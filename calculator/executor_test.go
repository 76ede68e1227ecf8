package calculator

import (
	"context"
	"errors"
	"testing"

	"regen/model"
)

func TestSweep(t *testing.T) {
	var cases []Case
	for i, method := range []Method{Cinjarew, StandardBartz, ModifiedBartz} {
		m := testMarcher(t, method)
		c := Case{Name: method.String(), Marcher: m, Inlet: testInlet(t, m.Coolant), Nominal: testNominal()}
		if i == 1 {
			// one broken case must not disturb the others
			c.Marcher.Options.OuterMaxIt = 1
		}
		cases = append(cases, c)
	}
	results := Sweep(context.Background(), cases, 2)
	if len(results) != 3 {
		t.Fatalf("got %d results", len(results))
	}
	for i, r := range results {
		if r.Name != cases[i].Name {
			t.Errorf("result %d is %q, want %q", i, r.Name, cases[i].Name)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy cases failed: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, model.ErrNonConvergence) {
		t.Errorf("expected non-convergence, got %v", results[1].Err)
	}
	if err := Errors(results); !errors.Is(err, model.ErrNonConvergence) {
		t.Errorf("joined error lost the cause: %v", err)
	}
	if results[0].Result.PeakWallT == results[2].Result.PeakWallT {
		t.Errorf("different correlations gave identical peaks")
	}
}

func TestCalcHub(t *testing.T) {
	h := NewCalcHub(1)
	sink := h.Sink(3)
	go func() {
		for i := 0; i < 3; i++ {
			if err := sink.Write(model.Row{Station: i}); err != nil {
				h.FinishSignal(err)
				return
			}
		}
		h.FinishSignal(nil)
	}()
	n := 0
	for p := range h.Rows {
		if p.Row.Station != n || p.Done != n+1 || p.Total != 3 {
			t.Errorf("progress %+v", p)
		}
		n++
	}
	if err := <-h.Finished; err != nil || n != 3 {
		t.Errorf("finished with %v after %d rows", err, n)
	}

	h = NewCalcHub(0)
	h.StopSignal()
	h.StopSignal()
	if err := h.Sink(1).Write(model.Row{}); !errors.Is(err, ErrStopped) {
		t.Errorf("write after stop: %v", err)
	}
}
