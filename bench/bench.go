// Package bench times the matrix-multiply backends and records the results
// as JSON.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/LynnColeArt/nnops/compute"
)

// Result captures one timed matrix product.
type Result struct {
	Name      string        `json:"name"`
	Backend   string        `json:"backend"`
	Status    string        `json:"status"` // "pass" or "fail"
	Size      int           `json:"size"`
	Iteration int           `json:"iteration"`
	GFLOPS    float64       `json:"gflops,omitempty"`
	Trace     float32       `json:"trace"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// Config describes a benchmark session.
type Config struct {
	Backend  string
	Size     int // n = k = m
	Iters    int
	Seed     uint64
	TraceTol float64 // relative trace tolerance; zero means DefaultTraceTol
}

// DefaultTraceTol is the relative difference between an iteration's trace
// and the exact trace above which Run marks the iteration failed.
const DefaultTraceTol = 1e-3

// Run times cfg.Iters square products of cfg.Size through mm and passes each
// result to log. The output is cleared before every iteration and its trace
// is checked against the trace of a·b computed in float64; an iteration
// outside cfg.TraceTol is logged with status "fail".
func Run(mm compute.Matmul, cfg Config, log func(Result) error) error {
	n := cfg.Size
	a := compute.GenerateFloat32Range(n*n, cfg.Seed, 0, 1)
	b := compute.GenerateFloat32Range(n*n, cfg.Seed+1, 0, 1)
	c := make([]float32, n*n)
	flop := 2 * float64(n) * float64(n) * float64(n)

	tol := cfg.TraceTol
	if tol == 0 {
		tol = DefaultTraceTol
	}
	want := productTrace(a, b, n)

	for it := 0; it < cfg.Iters; it++ {
		clear(c)
		start := time.Now()
		mm.Gemm(a, b, c, n, n, n)
		elapsed := time.Since(start)

		r := Result{
			Name:      fmt.Sprintf("sgemm/%d", n),
			Backend:   cfg.Backend,
			Status:    "pass",
			Size:      n,
			Iteration: it,
			Trace:     trace(c, n),
			Duration:  elapsed,
		}
		if d := relDiff(float64(r.Trace), want); d > tol {
			r.Status = "fail"
			r.Error = fmt.Sprintf("trace %.6e, want %.6e (relative error %.2e)", r.Trace, want, d)
		} else if s := elapsed.Seconds(); s > 0 {
			r.GFLOPS = flop / s / 1e9
		}
		if err := log(r); err != nil {
			return err
		}
	}
	return nil
}

// Failed returns the results whose status is not "pass".
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Status != "pass" {
			failed = append(failed, r)
		}
	}
	return failed
}

// Check compares mm against the naive backend on a product of the given
// size.
func Check(mm compute.Matmul, size int, seed uint64, tol compute.ToleranceConfig) compute.VerificationResult {
	a := compute.GenerateFloat32Range(size*size, seed, -1, 1)
	b := compute.GenerateFloat32Range(size*size, seed+1, -1, 1)
	want := make([]float32, size*size)
	compute.Naive{}.Gemm(a, b, want, size, size, size)
	got := make([]float32, size*size)
	mm.Gemm(a, b, got, size, size, size)
	return compute.Verify(want, got, tol)
}

func trace(c []float32, n int) float32 {
	var t float32
	for i := 0; i < n; i++ {
		t += c[i*n+i]
	}
	return t
}

// productTrace returns Σi (a·b)[i,i] without forming the product.
func productTrace(a, b []float32, n int) float64 {
	var t float64
	for i := 0; i < n; i++ {
		for p := 0; p < n; p++ {
			t += float64(a[i*n+p]) * float64(b[p*n+i])
		}
	}
	return t
}

func relDiff(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

// Logger collects results and, when it has a path, rewrites the JSON file
// after every result so a crash keeps what was measured.
type Logger struct {
	mu      sync.Mutex
	results []Result
	path    string
}

// NewLogger returns a logger that writes to path, or keeps results in
// memory only when path is empty.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Log records r, stamping it with the current time.
func (l *Logger) Log(r Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r.Timestamp = time.Now()
	l.results = append(l.results, r)
	return l.flush()
}

// Results returns a copy of the recorded results.
func (l *Logger) Results() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Result(nil), l.results...)
}

func (l *Logger) flush() error {
	if l.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	return os.WriteFile(l.path, data, 0o644)
}

// Load reads results written by a Logger.
func Load(path string) ([]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return results, nil
}

// Summary prints one line per result and the best and mean throughput.
func Summary(w io.Writer, results []Result) {
	fmt.Fprintln(w, strings.Repeat("=", 62))
	var best, total float64
	passed := 0
	for _, r := range results {
		if r.Status != "pass" {
			fmt.Fprintf(w, "✗ %-20s %-10s FAILED: %s\n", r.Name, r.Backend, r.Error)
			continue
		}
		passed++
		total += r.GFLOPS
		best = max(best, r.GFLOPS)
		fmt.Fprintf(w, "✓ %-20s %-10s %8.2f GFLOPS  trace %.4e\n", r.Name, r.Backend, r.GFLOPS, r.Trace)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
	mean := 0.0
	if passed > 0 {
		mean = total / float64(passed)
	}
	fmt.Fprintf(w, "Total: %d | Passed: %d | Best: %.2f GFLOPS | Mean: %.2f GFLOPS\n",
		len(results), passed, best, mean)
}
