package bench

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/LynnColeArt/nnops/compute"
)

func TestRunAndLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.json")
	logger := NewLogger(path)

	cfg := Config{Backend: "blocked", Size: 96, Iters: 3, Seed: 1}
	if err := Run(compute.Blocked{Tile: compute.TileAVX2}, cfg, logger.Log); err != nil {
		t.Fatal(err)
	}
	results := logger.Results()
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Every iteration computes the same product.
	for _, r := range results[1:] {
		if r.Trace != results[0].Trace {
			t.Errorf("iteration %d trace %v != %v", r.Iteration, r.Trace, results[0].Trace)
		}
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(results, loaded, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("round trip (-logged +loaded):\n%s", diff)
	}
}

func TestBackendsSameTrace(t *testing.T) {
	cfg := Config{Size: 64, Iters: 1, Seed: 9}
	var traces []float32
	for _, name := range []string{"naive", "blocked", "gonum"} {
		mm, ok := compute.Backend(name)
		if !ok {
			t.Fatalf("backend %q missing", name)
		}
		logger := NewLogger("")
		if err := Run(mm, cfg, logger.Log); err != nil {
			t.Fatal(err)
		}
		traces = append(traces, logger.Results()[0].Trace)
	}
	if diff := cmp.Diff(traces[0], traces[1], cmpopts.EquateApprox(1e-4, 0)); diff != "" {
		t.Errorf("blocked trace differs:\n%s", diff)
	}
	if diff := cmp.Diff(traces[0], traces[2], cmpopts.EquateApprox(1e-4, 0)); diff != "" {
		t.Errorf("gonum trace differs:\n%s", diff)
	}
}

func TestCheck(t *testing.T) {
	for _, mm := range []compute.Matmul{compute.Blocked{Tile: compute.DefaultTile()}, compute.Gonum{}} {
		if r := Check(mm, 96, 3, compute.RelaxedTolerance()); !r.OK() {
			t.Errorf("%T: %v", mm, r)
		}
	}
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, []Result{
		{Name: "sgemm/96", Backend: "naive", Status: "pass", GFLOPS: 1},
		{Name: "sgemm/96", Backend: "naive", Status: "pass", GFLOPS: 3},
		{Name: "sgemm/96", Backend: "naive", Status: "fail", Error: "boom"},
	})
	out := buf.String()
	for _, want := range []string{"FAILED: boom", "Passed: 2", "Best: 3.00", "Mean: 2.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

// skewed computes the right product and then corrupts its first element.
type skewed struct{ compute.Naive }

func (s skewed) Gemm(a, b, c []float32, n, k, m int) {
	s.Naive.Gemm(a, b, c, n, k, m)
	c[0] += 1e3
}

func TestRunWrongProduct(t *testing.T) {
	cfg := Config{Size: 16, Iters: 2, Seed: 5}

	good := NewLogger("")
	cfg.Backend = "naive"
	if err := Run(compute.Naive{}, cfg, good.Log); err != nil {
		t.Fatal(err)
	}
	if failed := Failed(good.Results()); len(failed) != 0 {
		t.Fatalf("naive run failed: %+v", failed)
	}

	bad := NewLogger("")
	if err := Run(skewed{}, cfg, bad.Log); err != nil {
		t.Fatal(err)
	}
	failed := Failed(bad.Results())
	if len(failed) != 2 {
		t.Fatalf("got %d failed iterations, want 2", len(failed))
	}
	for _, r := range failed {
		if r.Status != "fail" || r.GFLOPS != 0 || !strings.Contains(r.Error, "trace") {
			t.Errorf("unexpected failed result %+v", r)
		}
	}

	var buf bytes.Buffer
	Summary(&buf, bad.Results())
	if out := buf.String(); !strings.Contains(out, "FAILED: trace") || !strings.Contains(out, "Passed: 0") {
		t.Errorf("summary does not report the failure:\n%s", out)
	}

	comps := Compare(good.Results(), bad.Results(), 1e-4, 1.1)
	if len(comps) != 1 {
		t.Fatalf("got %d comparisons, want 1", len(comps))
	}
	if c := comps[0]; c.Status != StatusFail || !strings.Contains(c.Message, "failed in current results: trace") {
		t.Errorf("comparison = %+v, want a failure carrying the trace error", c)
	}
}
