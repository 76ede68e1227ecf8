package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"regen/calculator"
	"regen/model"
	"regen/output"
)

// Message types.
const (
	TypeEnv      = "env"
	TypeEnvSet   = "envSet"
	TypeStart    = "start"
	TypeStarted  = "started"
	TypeStation  = "station"
	TypeFinished = "finished"
	TypeStop     = "stop"
	TypeStopped  = "stopped"
	TypeError    = "error"
)

// Hub serves one connection: requests come in on msg, every reply leaves
// through reply so that only handleResponse writes to the socket.
type Hub struct {
	conn *websocket.Conn
	cfg  *calculator.Config

	msg   chan model.Msg
	reply chan model.Msg
	done  chan struct{}

	mu      sync.Mutex
	calc    *calculator.CalcHub
	cancel  context.CancelFunc
	last    *calculator.Result
	closing sync.Once
}

func NewHub(conn *websocket.Conn, cfg *calculator.Config) *Hub {
	return &Hub{
		conn:  conn,
		cfg:   cfg,
		msg:   make(chan model.Msg, 10),
		reply: make(chan model.Msg, 64),
		done:  make(chan struct{}),
	}
}

// Envelope is the content of envSet replies.
type Envelope struct {
	Name     string `json:"name"`
	Method   string `json:"method"`
	Stations int    `json:"stations"`
	Channels int    `json:"channels"`
	Coolant  string `json:"coolant"`
}

// Outcome is the content of finished replies.
type Outcome struct {
	Stations  int     `json:"stations"`
	PeakWallT float64 `json:"peak_wall_temperature"`
	PeakIndex int     `json:"peak_station"`
	OutletT   float64 `json:"outlet_temperature"`
	OutletP   float64 `json:"outlet_pressure"`
	Skipped   int     `json:"skipped"`
	Unsettled int     `json:"unsettled"`
	Floored   int     `json:"floored"`
}

func (h *Hub) send(typ string, v any) {
	m := model.Msg{Type: typ}
	switch c := v.(type) {
	case nil:
	case string:
		m.Content = c
	default:
		data, err := json.Marshal(c)
		if err != nil {
			log.WithError(err).Error("encode reply")
			return
		}
		m.Content = string(data)
	}
	select {
	case h.reply <- m:
	case <-h.done:
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case m := <-h.reply:
			if err := h.conn.WriteJSON(&m); err != nil {
				log.WithError(err).Debug("write failed")
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case msg := <-h.msg:
			switch msg.Type {
			case TypeEnv:
				h.env()
			case TypeStart:
				h.start()
			case TypeStop:
				h.stop()
			default:
				h.send(TypeError, "no such type "+msg.Type)
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) env() {
	c := h.cfg
	h.send(TypeEnvSet, Envelope{
		Name:     c.Name,
		Method:   c.Method.String(),
		Stations: c.Contour().Len(),
		Channels: c.Channel.N,
		Coolant:  c.Coolant.Fluid,
	})
}

func (h *Hub) start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.calc != nil {
		h.send(TypeError, "a march is already running")
		return
	}
	cs, err := h.cfg.Case()
	if err != nil {
		h.send(TypeError, err.Error())
		return
	}
	out, err := output.New(h.cfg.Output.Formats, output.Settings{
		Dir:     h.cfg.Output.Dir,
		DBPath:  h.cfg.Output.DBPath,
		Run:     cs.Name,
		Method:  cs.Marcher.Conjugate.GasSide.Method.String(),
		Contour: h.cfg.Contour().Name,
	})
	if err != nil {
		h.send(TypeError, err.Error())
		return
	}

	calc := calculator.NewCalcHub(16)
	ctx, cancel := context.WithCancel(context.Background())
	h.calc, h.cancel = calc, cancel
	hubSink := calc.Sink(len(cs.Marcher.Stations))
	cs.Marcher.Sink = calculator.SinkFunc(func(row model.Row) error {
		if err := out.Write(row); err != nil {
			return err
		}
		return hubSink.Write(row)
	})

	h.send(TypeStarted, nil)
	go func() {
		res, err := cs.Marcher.Run(ctx, cs.Inlet, cs.Nominal)
		if err != nil {
			res = nil
		}
		if cerr := out.Close(res, err); cerr != nil {
			log.WithError(cerr).Warn("closing output")
		}
		h.finish(res)
		calc.FinishSignal(err)
	}()
	go h.forward(calc)
}

// finish keeps the last result for the finished reply.
func (h *Hub) finish(res *calculator.Result) {
	if res == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = res
}

// forward relays streamed rows until the march ends.
func (h *Hub) forward(calc *calculator.CalcHub) {
	for p := range calc.Rows {
		h.send(TypeStation, p)
	}
	err := <-calc.Finished

	h.mu.Lock()
	res := h.last
	h.calc, h.last = nil, nil
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.mu.Unlock()

	switch {
	case errors.Is(err, calculator.ErrStopped):
		h.send(TypeStopped, "stopped")
	case err != nil:
		h.send(TypeError, err.Error())
	default:
		h.send(TypeFinished, Outcome{
			Stations:  len(res.Rows),
			PeakWallT: res.PeakWallT,
			PeakIndex: res.PeakIndex,
			OutletT:   res.Outlet.Temperature,
			OutletP:   res.Outlet.Pressure,
			Skipped:   res.Skipped,
			Unsettled: res.Unsettled,
			Floored:   res.Floored,
		})
	}
}

func (h *Hub) stop() {
	h.mu.Lock()
	calc := h.calc
	h.mu.Unlock()
	if calc == nil {
		h.send(TypeStopped, "nothing running")
		return
	}
	calc.StopSignal()
}

// close stops any running march and the hub goroutines.
func (h *Hub) close() {
	h.closing.Do(func() {
		h.mu.Lock()
		if h.calc != nil {
			h.calc.StopSignal()
			h.cancel()
		}
		h.mu.Unlock()
		close(h.done)
	})
}
