package store

import (
	"context"
	"flag"
	"log"
	"math"
	"path/filepath"
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	t.Parallel()
	s, err := Open(filepath.Join(t.TempDir(), "trials.db"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trials := []Trial{
		{
			Molecule:   "H2",
			Method:     "qcc",
			Entanglers: 1,
			Restarts:   1,
			Energy:     -1.1372,
			Params:     []float64{math.Pi, math.Pi, 0, 0, 0, 0, 0, 0, -0.1133},
			Elapsed:    1274 * time.Millisecond,
		},
		{
			Molecule:   "H2",
			Method:     "qcc",
			Entanglers: 0,
			Restarts:   1,
			Energy:     -1.1166,
			Params:     []float64{math.Pi, math.Pi, 0, 0, 0, 0, 0, 0},
			Elapsed:    311 * time.Millisecond,
		},
		{
			Molecule: "LiH",
			Method:   "qcc",
			Energy:   -7.8823,
		},
	}
	for i, trial := range trials {
		id, err := s.Insert(ctx, trial)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		if id != int64(i+1) {
			t.Fatalf("%d %d", id, i+1)
		}
	}

	best, err := s.Best(ctx, "H2")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if best.ID != 1 || best.Energy != trials[0].Energy {
		t.Fatalf("%#v", best)
	}
	if len(best.Params) != len(trials[0].Params) {
		t.Fatalf("%#v", best.Params)
	}
	for i, p := range best.Params {
		if p != trials[0].Params[i] {
			t.Fatalf("%d %f %f", i, p, trials[0].Params[i])
		}
	}
	if best.Elapsed != trials[0].Elapsed {
		t.Fatalf("%v %v", best.Elapsed, trials[0].Elapsed)
	}

	listed, err := s.List(ctx, "H2")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("%#v", listed)
	}
	if listed[0].ID != 1 || listed[1].ID != 2 {
		t.Fatalf("%#v", listed)
	}
	if len(listed[1].Params) != 8 {
		t.Fatalf("%#v", listed[1].Params)
	}
}

func TestBestEmpty(t *testing.T) {
	t.Parallel()
	s, err := Open(filepath.Join(t.TempDir(), "trials.db"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := s.Best(ctx, "H2"); err == nil {
		t.Fatalf("expect error")
	}
}

func TestReopen(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "trials.db")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err := s.Insert(ctx, Trial{Molecule: "H2", Method: "qcc", Energy: -1}); err != nil {
		t.Fatalf("%+v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("%+v", err)
	}

	s, err = Open(dbPath)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer s.Close()
	listed, err := s.List(ctx, "H2")
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("%#v", listed)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
