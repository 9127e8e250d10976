// Package config is the persistent configuration layer: per-axis
// configuration, power-on defaults, and the coordinate-offset table,
// loaded from a layered koanf store the way cmd/multiserver/main.go loads
// multiserver.Config, and periodically flushed back to disk whenever the
// canonical machine arms gcm.Store.G10PersistFlag (spec.md §6).
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	yml "github.com/go-yaml/yaml"

	"github.com/nasa-jpl/canon-mc/cm"
	"github.com/nasa-jpl/canon-mc/gcm"
)

// FileName is the default configuration file name, read from and written
// to the working directory.
var FileName = "canonmc.yml"

// Config is the complete on-disk configuration: per-axis parameters, the
// listen address, tick rate, and the override limits the cm.Machine
// enforces.
type Config struct {
	ListenAddr     string               `yaml:"listenAddr" koanf:"listenAddr"`
	TickRate       float64              `yaml:"tickRate" koanf:"tickRate"`
	Axes           [gcm.AxisCount]gcm.AxisConfig `yaml:"axes" koanf:"axes"`
	Overrides      cm.OverrideLimits    `yaml:"-" koanf:"-"`
	PlannerDepth   int                  `yaml:"plannerDepth" koanf:"plannerDepth"`
}

// Default returns the power-on configuration used when no config file is
// present, mirroring gcm.DefaultAxisConfig for every axis.
func Default() Config {
	var axes [gcm.AxisCount]gcm.AxisConfig
	for i := range axes {
		axes[i] = gcm.DefaultAxisConfig()
	}
	return Config{
		ListenAddr:   ":8080",
		TickRate:     100,
		Axes:         axes,
		Overrides:    cm.DefaultOverrideLimits(),
		PlannerDepth: 32,
	}
}

// k is the package-level koanf instance, mirroring cmd/multiserver/main.go's
// package-level k (spec.md's ambient config layer is explicitly modeled on
// that file).
var k = koanf.New(".")

// Load layers Default() under FileName's contents, the same
// structs.Provider-then-file.Provider order cmd/multiserver/main.go uses.
// A missing file is not an error -- defaults apply.
func Load() (Config, error) {
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}
	if err := k.Load(file.Provider(FileName), yaml.Parser()); err != nil {
		if !strings.Contains(err.Error(), "no such") {
			return Config{}, fmt.Errorf("loading %s: %w", FileName, err)
		}
	}
	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if c.Overrides == (cm.OverrideLimits{}) {
		c.Overrides = cm.DefaultOverrideLimits()
	}
	return c, nil
}

// WriteDefault writes Default() to FileName, the mkconf verb from
// cmd/multiserver/main.go generalized to this package.
func WriteDefault() error {
	f, err := os.Create(FileName)
	if err != nil {
		return err
	}
	defer f.Close()
	return yml.NewEncoder(f).Encode(Default())
}

// PersistLoop watches store.G10PersistFlag and writes the offset table
// through to disk whenever it's armed, clearing the flag once written
// (spec.md §6 "the config store polls G10PersistFlag on an idle tick").
// It blocks until stop is closed.
func PersistLoop(store *gcm.Store, offsetFileName string, interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if !store.G10PersistFlag {
				continue
			}
			table := store.OffsetTableSnapshot()
			f, err := os.Create(offsetFileName)
			if err != nil {
				log.Printf("config: persisting offset table: %v", err)
				continue
			}
			if err := yml.NewEncoder(f).Encode(table); err != nil {
				log.Printf("config: encoding offset table: %v", err)
			}
			f.Close()
			store.ClearPersistFlag()
		}
	}
}

// LoadOffsetTable reads a previously persisted offset table, or returns a
// zero-valued table if the file does not exist.
func LoadOffsetTable(offsetFileName string) (gcm.OffsetTable, error) {
	b, err := os.ReadFile(offsetFileName)
	if err != nil {
		if os.IsNotExist(err) {
			return gcm.OffsetTable{}, nil
		}
		return gcm.OffsetTable{}, err
	}
	var table gcm.OffsetTable
	if err := yml.Unmarshal(b, &table); err != nil {
		return gcm.OffsetTable{}, fmt.Errorf("parsing %s: %w", offsetFileName, err)
	}
	return table, nil
}
