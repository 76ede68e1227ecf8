package calculator

import (
	"errors"
	"sync"

	"regen/model"
)

// ErrStopped is returned to the marcher when the consumer stopped the hub.
var ErrStopped = errors.New("calculation stopped")

// CalcHub hands converged rows from a running march to a consumer such as a
// websocket connection. Marchers write to it through Sink.
type CalcHub struct {
	Stop     chan struct{}
	Rows     chan Progress
	Finished chan error

	stopOnce sync.Once
}

// Progress is one streamed row with the station count of the run.
type Progress struct {
	Row   model.Row
	Done  int
	Total int
}

func NewCalcHub(buffer int) *CalcHub {
	return &CalcHub{
		Stop:     make(chan struct{}),
		Rows:     make(chan Progress, buffer),
		Finished: make(chan error, 1),
	}
}

// PushSignal blocks until the consumer takes the row or the hub is stopped.
func (ch *CalcHub) PushSignal(p Progress) error {
	select {
	case <-ch.Stop:
		return ErrStopped
	default:
	}
	select {
	case ch.Rows <- p:
		return nil
	case <-ch.Stop:
		return ErrStopped
	}
}

// StopSignal may be called more than once.
func (ch *CalcHub) StopSignal() {
	ch.stopOnce.Do(func() { close(ch.Stop) })
}

// FinishSignal reports the end of the march and closes Rows.
func (ch *CalcHub) FinishSignal(err error) {
	close(ch.Rows)
	ch.Finished <- err
}

// Sink returns a RowSink feeding the hub for a march of total stations.
func (ch *CalcHub) Sink(total int) RowSink {
	done := 0
	return SinkFunc(func(row model.Row) error {
		done++
		return ch.PushSignal(Progress{Row: row, Done: done, Total: total})
	})
}
