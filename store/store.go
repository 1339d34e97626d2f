// Package store persists variational optimization trials in sqlite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const (
	tableTrials = "trials"
)

// Trial is one optimization attempt.
type Trial struct {
	ID         int64
	Molecule   string
	Method     string
	Entanglers int
	Restarts   int
	Energy     float64
	Params     []float64
	Elapsed    time.Duration
}

// Store is a sqlite backed ledger of trials.
type Store struct {
	Path string

	db *sql.DB
}

// Open opens the ledger at dbPath, creating it if needed.
func Open(dbPath string) (*Store, error) {
	s := &Store{Path: dbPath}
	var err error
	s.db, err = sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	if err := prepareDB(s.db); err != nil {
		s.db.Close()
		return nil, errors.Wrap(err, "")
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records a trial and returns its ID.
func (s *Store) Insert(ctx context.Context, t Trial) (int64, error) {
	sqlStr := fmt.Sprintf(`INSERT INTO %s (molecule, method, entanglers, restarts, energy, params, elapsed_us) VALUES (?, ?, ?, ?, ?, ?, ?)`, tableTrials)
	res, err := s.db.ExecContext(ctx, sqlStr, t.Molecule, t.Method, t.Entanglers, t.Restarts, t.Energy, formatParams(t.Params), t.Elapsed.Microseconds())
	if err != nil {
		return -1, errors.Wrap(err, fmt.Sprintf("%#v", t))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return -1, errors.Wrap(err, "")
	}
	return id, nil
}

// Best returns the lowest energy trial for a molecule.
func (s *Store) Best(ctx context.Context, molecule string) (Trial, error) {
	sqlStr := fmt.Sprintf(`SELECT id, molecule, method, entanglers, restarts, energy, params, elapsed_us FROM %s WHERE molecule=? ORDER BY energy ASC, id ASC LIMIT 1`, tableTrials)
	t, err := scanTrial(s.db.QueryRowContext(ctx, sqlStr, molecule))
	if err != nil {
		return Trial{}, errors.Wrap(err, molecule)
	}
	return t, nil
}

// List returns all trials for a molecule in insertion order.
func (s *Store) List(ctx context.Context, molecule string) ([]Trial, error) {
	sqlStr := fmt.Sprintf(`SELECT id, molecule, method, entanglers, restarts, energy, params, elapsed_us FROM %s WHERE molecule=? ORDER BY id ASC`, tableTrials)
	rows, err := s.db.QueryContext(ctx, sqlStr, molecule)
	if err != nil {
		return nil, errors.Wrap(err, molecule)
	}
	defer rows.Close()

	trials := make([]Trial, 0)
	for rows.Next() {
		t, err := scanTrial(rows)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return trials, nil
}

type scanner interface {
	Scan(...any) error
}

func scanTrial(row scanner) (Trial, error) {
	var t Trial
	var params string
	var elapsedUS int64
	if err := row.Scan(&t.ID, &t.Molecule, &t.Method, &t.Entanglers, &t.Restarts, &t.Energy, &params, &elapsedUS); err != nil {
		return Trial{}, errors.Wrap(err, "")
	}
	var err error
	t.Params, err = parseParams(params)
	if err != nil {
		return Trial{}, errors.Wrap(err, "")
	}
	t.Elapsed = time.Duration(elapsedUS) * time.Microsecond
	return t, nil
}

func formatParams(params []float64) string {
	ss := make([]string, 0, len(params))
	for _, p := range params {
		ss = append(ss, strconv.FormatFloat(p, 'g', -1, 64))
	}
	return strings.Join(ss, ",")
}

func parseParams(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	ss := strings.Split(s, ",")
	params := make([]float64, 0, len(ss))
	for _, v := range ss {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%q", s))
		}
		params = append(params, p)
	}
	return params, nil
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id INTEGER PRIMARY KEY AUTOINCREMENT,
molecule TEXT NOT NULL,
method TEXT NOT NULL,
entanglers INTEGER NOT NULL,
restarts INTEGER NOT NULL,
energy REAL NOT NULL,
params TEXT NOT NULL,
elapsed_us INTEGER NOT NULL) STRICT`, tableTrials)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
