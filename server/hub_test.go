package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"regen/calculator"
	"regen/model"
)

const testIni = `
[run]
name   = ws
method = cinjarew

[coolant]
fluid = ethanol

[solver]
on_outer_cap = continue
`

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	cfg, err := calculator.LoadConfig([]byte(testIni))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.Output.Formats = nil

	s := NewServer(":0", websocket.Upgrader{}, cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, typ string) model.Msg {
	t.Helper()
	if err := conn.WriteJSON(&model.Msg{Type: typ}); err != nil {
		t.Fatal(err)
	}
	return read(t, conn)
}

func read(t *testing.T, conn *websocket.Conn) model.Msg {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var m model.Msg
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatalf("read: %v", err)
	}
	return m
}

func TestEnvAndUnknown(t *testing.T) {
	conn := dial(t)

	m := exchange(t, conn, TypeEnv)
	if m.Type != TypeEnvSet {
		t.Fatalf("got %s", m.Type)
	}
	var env Envelope
	if err := json.Unmarshal([]byte(m.Content), &env); err != nil {
		t.Fatal(err)
	}
	if env.Name != "ws" || env.Method != "cinjarew" || env.Stations != 50 || env.Coolant != "ethanol" {
		t.Errorf("envelope %+v", env)
	}

	if m := exchange(t, conn, "reset"); m.Type != TypeError || !strings.Contains(m.Content, "reset") {
		t.Errorf("unknown type: %+v", m)
	}
	if m := exchange(t, conn, TypeStop); m.Type != TypeStopped {
		t.Errorf("idle stop: %+v", m)
	}
}

func TestStreamMarch(t *testing.T) {
	conn := dial(t)

	if m := exchange(t, conn, TypeStart); m.Type != TypeStarted {
		t.Fatalf("got %+v", m)
	}
	rows := 0
	for {
		m := read(t, conn)
		switch m.Type {
		case TypeStation:
			var p calculator.Progress
			if err := json.Unmarshal([]byte(m.Content), &p); err != nil {
				t.Fatal(err)
			}
			rows++
			if p.Done != rows || p.Total != 50 {
				t.Errorf("progress %d/%d at row %d", p.Done, p.Total, rows)
			}
		case TypeFinished:
			var o Outcome
			if err := json.Unmarshal([]byte(m.Content), &o); err != nil {
				t.Fatal(err)
			}
			if o.Stations != rows || o.PeakWallT <= 290 {
				t.Errorf("outcome %+v after %d rows", o, rows)
			}
			return
		case TypeError:
			t.Fatalf("march failed after %d rows: %s", rows, m.Content)
		default:
			t.Fatalf("unexpected %+v", m)
		}
	}
}

func TestStopMarch(t *testing.T) {
	conn := dial(t)

	if m := exchange(t, conn, TypeStart); m.Type != TypeStarted {
		t.Fatalf("got %+v", m)
	}
	if err := conn.WriteJSON(&model.Msg{Type: TypeStop}); err != nil {
		t.Fatal(err)
	}
	for {
		m := read(t, conn)
		switch m.Type {
		case TypeStation:
		case TypeStopped, TypeFinished:
			// a short march may finish before the stop lands
			return
		default:
			t.Fatalf("unexpected %+v", m)
		}
	}
}
