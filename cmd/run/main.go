package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"qcc"
	"qcc/krr"
	"qcc/molecule"
	"qcc/store"
	"qcc/vqe"
)

const (
	fnameDone   = "done.txt"
	fnameResult = "result.txt"
	fnameTrials = "trials.sqlite3"
)

var (
	runDir   = flag.String("d", filepath.Join("runs", "qcc"), "run directory")
	cutoff   = flag.Float64("cutoff", 1e-6, "entangler gradient cutoff")
	restarts = flag.Int("restarts", 3, "optimization attempts per ansatz")
)

type result struct {
	Molecule   string
	Entanglers int
	Energy     float64
	HF         float64
	FCI        float64
}

func solve(dir string, st *store.Store, m *molecule.Molecule, k int) error {
	donePath := filepath.Join(dir, fnameDone)
	if _, err := os.Stat(donePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	groups := qcc.Rank(m.H, m.Ref, *cutoff)
	ansatz := qcc.NewAnsatz(m.H.N, m.Ref, qcc.Select(groups, k))

	start := time.Now()
	opt := vqe.NewOptions().Restarts(*restarts).Seed(uint64(k) + 1)
	best, err := vqe.Minimize(m.H, ansatz, ansatz.InitialParams(0), opt)
	if err != nil {
		return errors.Wrap(err, "")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	trial := store.Trial{
		Molecule:   m.Name,
		Method:     "qcc-vqe",
		Entanglers: len(ansatz.Entanglers),
		Restarts:   *restarts,
		Energy:     best.Energy,
		Params:     best.Params,
		Elapsed:    time.Since(start),
	}
	if _, err := st.Insert(ctx, trial); err != nil {
		return errors.Wrap(err, "")
	}

	res := result{Molecule: m.Name, Entanglers: len(ansatz.Entanglers), Energy: best.Energy, HF: m.HF(), FCI: m.FCI()}
	b, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := os.WriteFile(filepath.Join(dir, fnameResult), b, 0644); err != nil {
		return errors.Wrap(err, "")
	}

	if err := os.WriteFile(donePath, nil, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func gather(dir string) ([]result, error) {
	results := make([]result, 0)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	for _, ent := range entries {
		if !ent.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(ent.Name()); err != nil {
			continue
		}

		b, err := os.ReadFile(filepath.Join(dir, ent.Name(), fnameResult))
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", ent))
		}
		var res result
		if err := json.Unmarshal(b, &res); err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", ent))
		}
		results = append(results, res)
	}
	return results, nil
}

// fitCurve fits the dissociation curve on half the dataset and predicts
// the other half.
func fitCurve() error {
	curve := molecule.H2DissociationCurve()
	trainX, trainY := make([][]float64, 0), make([]float64, 0)
	testX, testY := make([][]float64, 0), make([]float64, 0)
	for i, p := range curve {
		if i%2 == 0 {
			trainX, trainY = append(trainX, []float64{p.R}), append(trainY, p.E)
		} else {
			testX, testY = append(testX, []float64{p.R}), append(testY, p.E)
		}
	}

	model := krr.New(krr.Gaussian, 1e-10, 0.5)
	if err := model.Fit(trainX, trainY); err != nil {
		return errors.Wrap(err, "")
	}
	pred, err := model.Predict(testX)
	if err != nil {
		return errors.Wrap(err, "")
	}

	fmt.Printf("r,e_fci,e_krr\n")
	for i, x := range testX {
		fmt.Printf("%f,%f,%f\n", x[0], testY[i], pred[i])
	}
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	m := molecule.H2()
	mDir := filepath.Join(*runDir, m.Name)
	if err := os.MkdirAll(mDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	st, err := store.Open(filepath.Join(*runDir, fnameTrials))
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer st.Close()

	// Solve for increasing numbers of entanglers.
	numCandidates := 0
	for _, g := range qcc.Rank(m.H, m.Ref, *cutoff) {
		numCandidates += len(g.Entanglers)
	}
	for k := 0; k <= numCandidates; k++ {
		dir := filepath.Join(mDir, strconv.Itoa(k))
		if err := solve(dir, st, m, k); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%d", k))
		}
		log.Printf("%s %d", m.Name, k)
	}

	// Gather results and print them.
	results, err := gather(mDir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	fmt.Printf("molecule,entanglers,energy,hf,fci,corr\n")
	for _, r := range results {
		fmt.Printf("%s,%d,%f,%f,%f,%f\n", r.Molecule, r.Entanglers, r.Energy, r.HF, r.FCI, r.Energy-r.FCI)
	}

	if err := fitCurve(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
