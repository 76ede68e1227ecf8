package deque

// Window keeps the last n values pushed, dropping the oldest.
type Window struct {
	n    int
	ring *ArrDeque[float64]
}

func NewWindow(n int) *Window {
	if n <= 0 {
		n = 1
	}
	return &Window{n: n, ring: NewArrDeque[float64](n)}
}

func (w *Window) Push(v float64) {
	if w.ring.Size() >= w.n {
		w.ring.RemoveFirst()
	}
	w.ring.AddLast(v)
}

func (w *Window) Len() int {
	return w.ring.Size()
}

// Values returns the window front to back.
func (w *Window) Values() []float64 {
	out := make([]float64, 0, w.ring.Size())
	w.ring.Traverse(func(_ int, item *float64) {
		out = append(out, *item)
	})
	return out
}
