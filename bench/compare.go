package bench

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
)

// Comparison statuses.
const (
	StatusPass   = "PASS"
	StatusFail   = "FAIL"
	StatusSlower = "SLOWER"
	StatusFaster = "FASTER"
)

// Comparison relates the best run of one benchmark in a baseline session to
// the best run of the same benchmark in a current session.
type Comparison struct {
	Key           string // name and backend
	Status        string
	BaselineGFLOP float64
	CurrentGFLOP  float64
	Speedup       float64 // current over baseline throughput
	TraceRelDiff  float64
	Message       string
}

// Compare matches results by name and backend. A benchmark fails when it has
// no passing run in current or its trace differs from the baseline by more than
// the relative tolerance tol. Otherwise it is SLOWER when throughput dropped
// by more than the factor regress (1.1 means 10%), FASTER when it rose by
// more than 20%, and PASS otherwise.
func Compare(baseline, current []Result, tol, regress float64) []Comparison {
	base := best(baseline)
	curr := best(current)
	failed := make(map[string]Result)
	for _, r := range Failed(current) {
		failed[r.Name+" "+r.Backend] = r
	}

	keys := make([]string, 0, len(base))
	for k := range base {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	comps := make([]Comparison, 0, len(keys))
	for _, k := range keys {
		b := base[k]
		c := Comparison{Key: k, BaselineGFLOP: b.GFLOPS}

		cr, ok := curr[k]
		if !ok {
			c.Status = StatusFail
			c.Message = "missing in current results"
			if f, ok := failed[k]; ok {
				c.Message = "failed in current results: " + f.Error
			}
			comps = append(comps, c)
			continue
		}
		c.CurrentGFLOP = cr.GFLOPS
		if b.GFLOPS > 0 {
			c.Speedup = cr.GFLOPS / b.GFLOPS
		}
		if b.Trace != 0 {
			c.TraceRelDiff = math.Abs(float64(cr.Trace-b.Trace)) / math.Abs(float64(b.Trace))
		} else {
			c.TraceRelDiff = math.Abs(float64(cr.Trace))
		}

		switch {
		case c.TraceRelDiff > tol:
			c.Status = StatusFail
			c.Message = fmt.Sprintf("trace differs: %.4e vs %.4e", b.Trace, cr.Trace)
		case c.Speedup > 0 && c.Speedup < 1/regress:
			c.Status = StatusSlower
			c.Message = fmt.Sprintf("%.2fx slower", 1/c.Speedup)
		case c.Speedup > 1.2:
			c.Status = StatusFaster
			c.Message = fmt.Sprintf("%.2fx faster", c.Speedup)
		default:
			c.Status = StatusPass
		}
		comps = append(comps, c)
	}
	return comps
}

// best keeps the fastest passing run per name and backend.
func best(results []Result) map[string]Result {
	m := make(map[string]Result)
	for _, r := range results {
		if r.Status != "pass" {
			continue
		}
		k := r.Name + " " + r.Backend
		if prev, ok := m[k]; !ok || r.GFLOPS > prev.GFLOPS {
			m[k] = r
		}
	}
	return m
}

// PrintComparisons writes a status count and one row per comparison.
func PrintComparisons(w io.Writer, comps []Comparison) {
	count := make(map[string]int)
	for _, c := range comps {
		count[c.Status]++
	}
	fmt.Fprintf(w, "Total: %d | PASS: %d | FAIL: %d | SLOWER: %d | FASTER: %d\n",
		len(comps), count[StatusPass], count[StatusFail], count[StatusSlower], count[StatusFaster])

	fmt.Fprintf(w, "%-30s %-6s %10s %10s %8s %12s\n", "Benchmark", "Status", "Baseline", "Current", "Speedup", "Trace Δ")
	fmt.Fprintln(w, strings.Repeat("-", 82))
	for _, c := range comps {
		fmt.Fprintf(w, "%-30s %-6s %10.2f %10.2f %8.2f %12.2e", c.Key, c.Status,
			c.BaselineGFLOP, c.CurrentGFLOP, c.Speedup, c.TraceRelDiff)
		if c.Message != "" {
			fmt.Fprintf(w, "  %s", c.Message)
		}
		fmt.Fprintln(w)
	}
}
