package numeric

import (
	"fmt"
	"sort"
)

// Table is a piecewise-linear function of one variable. Lookups outside
// the tabulated range return the end values.
type Table struct {
	X []float64
	Y []float64
}

// NewTable sorts the points by x and checks the shape.
func NewTable(x, y []float64) (*Table, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("table has %d abscissae and %d ordinates", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("table is empty")
	}
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return x[idx[i]] < x[idx[j]] })
	t := &Table{X: make([]float64, len(x)), Y: make([]float64, len(y))}
	for i, k := range idx {
		t.X[i] = x[k]
		t.Y[i] = y[k]
	}
	for i := 1; i < len(t.X); i++ {
		if t.X[i] == t.X[i-1] {
			return nil, fmt.Errorf("duplicate abscissa %g", t.X[i])
		}
	}
	return t, nil
}

// Constant returns a one-point table.
func Constant(v float64) *Table {
	return &Table{X: []float64{0}, Y: []float64{v}}
}

// At interpolates linearly, clamping to the end values.
func (t *Table) At(x float64) float64 {
	n := len(t.X)
	if n == 1 || x <= t.X[0] {
		return t.Y[0]
	}
	if x >= t.X[n-1] {
		return t.Y[n-1]
	}
	// first index with X[i] > x
	i := sort.Search(n, func(i int) bool { return t.X[i] > x })
	left := i - 1
	return t.Y[left] + (t.Y[i]-t.Y[left])/(t.X[i]-t.X[left])*(x-t.X[left])
}
