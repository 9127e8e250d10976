package canon_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"

	"github.com/nasa-jpl/canon-mc/cm"
	"github.com/nasa-jpl/canon-mc/cycle"
	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/generichttp/canon"
	"github.com/nasa-jpl/canon-mc/planner"
)

func newTestController(t *testing.T) (*canon.Controller, *cm.Machine) {
	t.Helper()
	var axes [gcm.AxisCount]gcm.AxisConfig
	for i := range axes {
		axes[i] = gcm.DefaultAxisConfig()
	}
	m := cm.New(planner.NewMock(8), axes)
	sensor := cycle.NewMockSensor()
	seq := cycle.New(m, sensor, &m.Axes, 1000)
	return canon.NewController(m, seq), m
}

func newTestRouter(t *testing.T) (*httptest.Server, *cm.Machine) {
	t.Helper()
	c, m := newTestController(t)
	r := chi.NewRouter()
	c.RT().Bind(r)
	return httptest.NewServer(r), m
}

func TestPostProgramBlockExecutesBlock(t *testing.T) {
	srv, m := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/program/block", "application/json", strings.NewReader(`{"str":"G0 X10"}`))
	if err != nil {
		t.Fatalf("POST /program/block: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := m.Store.GMX().Position[gcm.AxisX]; got != 10 {
		t.Errorf("Position[X] = %v, want 10", got)
	}
}

func TestPostProgramStopsAtFirstError(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	body := "G0 X1\nQ5\nG0 X2\n"
	resp, err := http.Post(srv.URL+"/program", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /program: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
}

func TestPostCycleFeedholdRequestsHold(t *testing.T) {
	c, m := newTestController(t)
	r := chi.NewRouter()
	c.RT().Bind(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	m.State.Init()
	m.State.CycleStart()
	// a queued move keeps the cycle open; with an empty queue the
	// sequencer ends the cycle before the feedhold request arrives.
	if err := m.MoveAbs("X", 10); err != nil {
		t.Fatalf("MoveAbs: %v", err)
	}
	c.Sequencer.Run()
	defer c.Sequencer.Stop()

	resp, err := http.Post(srv.URL+"/cycle/feedhold", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /cycle/feedhold: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	deadline := time.After(2 * time.Second)
	for m.State.Hold() == gcm.HoldOff {
		select {
		case <-deadline:
			t.Fatal("Hold() never left HoldOff after POST /cycle/feedhold")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestGetReportReturnsJSON(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/report")
	if err != nil {
		t.Fatalf("GET /report: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestGetFieldUnknownTokenReturns404(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/report/not-a-real-field")
	if err != nil {
		t.Fatalf("GET /report/{token}: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
