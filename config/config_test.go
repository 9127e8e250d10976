package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nasa-jpl/canon-mc/config"
	"github.com/nasa-jpl/canon-mc/gcm"
)

func TestLoadFallsBackToDefaultsWhenFileMissing(t *testing.T) {
	old := config.FileName
	config.FileName = filepath.Join(t.TempDir(), "does-not-exist.yml")
	defer func() { config.FileName = old }()

	c, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := config.Default()
	if c.ListenAddr != want.ListenAddr {
		t.Errorf("ListenAddr = %q, want %q", c.ListenAddr, want.ListenAddr)
	}
	if c.PlannerDepth != want.PlannerDepth {
		t.Errorf("PlannerDepth = %v, want %v", c.PlannerDepth, want.PlannerDepth)
	}
	if c.Overrides != want.Overrides {
		t.Errorf("Overrides = %+v, want defaults %+v", c.Overrides, want.Overrides)
	}
}

func TestLoadOffsetTableReturnsZeroValueWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "offsets.yml")
	table, err := config.LoadOffsetTable(path)
	if err != nil {
		t.Fatalf("LoadOffsetTable: %v", err)
	}
	if table != (gcm.OffsetTable{}) {
		t.Errorf("table = %+v, want zero value", table)
	}
}

func TestPersistLoopWritesOffsetTableWhenFlagArmed(t *testing.T) {
	store := gcm.NewStore()
	store.SetOffset(1, gcm.Vector{7, 0, 0, 0, 0, 0}, gcm.Flags{true, false, false, false, false, false})

	path := filepath.Join(t.TempDir(), "offsets.yml")
	stop := make(chan struct{})
	go config.PersistLoop(store, path, 5*time.Millisecond, stop)

	deadline := time.After(2 * time.Second)
	for {
		table, err := config.LoadOffsetTable(path)
		if err == nil && table[1][gcm.AxisX] == 7 {
			break
		}
		select {
		case <-deadline:
			close(stop)
			t.Fatal("offset table was never persisted to disk")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(stop)
}
