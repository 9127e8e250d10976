// Package canon is the HTTP façade over the canonical machine: it wires
// cm.Machine's command surface, cycle.Sequencer's request latches, and
// cm.Machine's reporting adapter behind chi routes, one file per concern
// in the same split generichttp/motion uses. Grounded on
// cmd/multiserver/lib.go's BuildMux, which mounts one HTTPer's RouteTable2
// per configured node behind a chi.Router submux.
package canon

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/nasa-jpl/canon-mc/cm"
	"github.com/nasa-jpl/canon-mc/cycle"
	"github.com/nasa-jpl/canon-mc/gcm"
	"github.com/nasa-jpl/canon-mc/gcodeio"
	"github.com/nasa-jpl/canon-mc/generichttp"
	"github.com/nasa-jpl/canon-mc/generichttp/motion"
)

// Controller is the generichttp.HTTPer for a canonical machine: manual/jog
// control over the Mover/Enabler/Speeder/Stopper/SynchronizationController/
// InPositionQueryer/Initializer interfaces cm.Machine implements, G-code
// program streaming, cycle control, and reporting.
type Controller struct {
	Machine   *cm.Machine
	Sequencer *cycle.Sequencer
}

// NewController returns a Controller wrapping machine and sequencer.
func NewController(m *cm.Machine, seq *cycle.Sequencer) *Controller {
	return &Controller{Machine: m, Sequencer: seq}
}

// RT implements generichttp.HTTPer.
func (c *Controller) RT() generichttp.RouteTable2 {
	table := generichttp.RouteTable2{}
	motion.HTTPMove(c.Machine, table)
	motion.HTTPEnable(c.Machine, table)
	motion.HTTPSpeed(c.Machine, table)
	motion.HTTPStop(c.Machine, table)
	motion.HTTPSync(c.Machine, table)
	motion.HTTPInPosition(c.Machine, table)
	motion.HTTPInitialize(c.Machine, table)

	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/program/block"}] = c.postBlock()
	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/program"}] = c.postProgram()

	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/cycle/feedhold"}] = c.postFeedhold()
	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/cycle/flush"}] = c.postFlush()
	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/cycle/start"}] = c.postCycleStart()
	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/axis/{axis}/home-cycle"}] = c.postHomingCycle()
	table[generichttp.MethodPath{Method: http.MethodPost, Path: "/probe"}] = c.postProbe()

	table[generichttp.MethodPath{Method: http.MethodGet, Path: "/report"}] = c.getReport()
	table[generichttp.MethodPath{Method: http.MethodGet, Path: "/report/{token}"}] = c.getField()

	return table
}

// postBlock accepts a single line of G-code text as the request body and
// runs it through the tokenizer and ExecuteBlock.
func (c *Controller) postBlock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := generichttp.StrT{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		if err := c.runLine(body.Str, 0); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// postProgram accepts a full multi-line G-code program as the request
// body and executes it block by block, stopping at the first error.
func (c *Controller) postProgram() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		lr := gcodeio.NewLineReader(r.Body)
		for {
			line, n, err := lr.Next()
			if err != nil {
				break
			}
			if err := c.runLine(line, n); err != nil {
				http.Error(w, fmt.Sprintf("line %d: %v", n, err), http.StatusUnprocessableEntity)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}

func (c *Controller) runLine(line string, n int) error {
	gn, gf, err := gcodeio.Tokenize(line, n)
	if err != nil {
		return err
	}
	return c.Machine.ExecuteBlock(gn, gf)
}

func (c *Controller) postFeedhold() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Sequencer.RequestFeedhold()
		w.WriteHeader(http.StatusOK)
	}
}

func (c *Controller) postFlush() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Sequencer.RequestQueueFlush()
		w.WriteHeader(http.StatusOK)
	}
}

func (c *Controller) postCycleStart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.Sequencer.RequestCycleStart()
		w.WriteHeader(http.StatusOK)
	}
}

func (c *Controller) postHomingCycle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		axis, err := gcm.AxisFromLetter(chi.URLParam(r, "axis"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c.Sequencer.RequestHoming(axis)
		w.WriteHeader(http.StatusOK)
	}
}

// probeRequest is the JSON body /probe accepts: a target vector, which
// axes it applies to, and the maximum travel before giving up.
type probeRequest struct {
	Target    gcm.Vector `json:"target"`
	Flags     gcm.Flags  `json:"flags"`
	MaxTravel float64    `json:"maxTravel"`
}

func (c *Controller) postProbe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req probeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer r.Body.Close()
		c.Sequencer.RequestProbe(req.Target, req.Flags, req.MaxTravel)
		w.WriteHeader(http.StatusOK)
	}
}

func (c *Controller) getReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(c.Machine.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func (c *Controller) getField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		v, ok := c.Machine.Field(token)
		if !ok {
			http.Error(w, fmt.Sprintf("unrecognized report field %q", token), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
