// Command canonmcsrv runs the canonical machine behind an HTTP interface,
// the same run/mkconf/conf/version command shape as cmd/multiserver/main.go,
// generalized from a multi-instrument lab server to a single canonical
// machine plus its cycle sequencer.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	yml "github.com/go-yaml/yaml"

	"github.com/nasa-jpl/canon-mc/cm"
	"github.com/nasa-jpl/canon-mc/config"
	"github.com/nasa-jpl/canon-mc/cycle"
	"github.com/nasa-jpl/canon-mc/generichttp/canon"
	"github.com/nasa-jpl/canon-mc/planner"
)

// Version is injected via ldflags at build time.
var Version = "dev"

const offsetFileName = "canonmc-offsets.yml"

func root() {
	str := `canonmcsrv runs a canonical G-code machine controller and exposes
an HTTP interface to it: manual/jog axis control, G-code program
streaming, cycle control (feedhold/flush/cycle-start/homing/probe),
and a read-only reporting endpoint.

Usage:
	canonmcsrv <command>

Commands:
	run
	help
	mkconf
	conf
	version`
	fmt.Println(str)
}

func help() {
	str := `canonmcsrv is configured via canonmc.yml. Run mkconf to write the
default configuration file in the current directory, then edit it.
Per-axis travel limits, feedrates, and homing parameters all live there.`
	fmt.Println(str)
}

func mkconf() {
	if err := config.WriteDefault(); err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := yml.NewEncoder(os.Stdout).Encode(c); err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("canonmcsrv version %v\n", Version)
}

func run() {
	c, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	offsets, err := config.LoadOffsetTable(offsetFileName)
	if err != nil {
		log.Fatal(err)
	}

	p := planner.NewMock(c.PlannerDepth)
	m := cm.New(p, c.Axes)
	m.Store.LoadOffsetTable(offsets)
	m.Overrides = c.Overrides

	sensor := cycle.NewMockSensor()
	seq := cycle.New(m, sensor, &m.Axes, c.TickRate)
	seq.Run()
	defer seq.Stop()

	stop := make(chan struct{})
	go config.PersistLoop(m.Store, offsetFileName, time.Second, stop)
	defer close(stop)

	ctl := canon.NewController(m, seq)

	mux := chi.NewRouter()
	mux.Use(middleware.Logger)
	ctl.RT().Bind(mux)

	log.Println("now listening for requests at", c.ListenAddr)
	log.Fatal(http.ListenAndServe(c.ListenAddr, mux))
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	cmd := strings.ToLower(args[1])
	switch cmd {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "run":
		run()
	case "version":
		pversion()
	default:
		log.Fatal("unknown command")
	}
}
