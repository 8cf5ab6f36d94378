package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LynnColeArt/nnops/bench"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestXorCommand(t *testing.T) {
	out, err := run(t, "xor", "--table", "or", "--log-every", "0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "or converged after") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "xor", "--table", "nand"); err == nil {
		t.Error("unknown table accepted")
	}
	if _, err := run(t, "xor", "--steps", "1", "--log-every", "0"); err == nil {
		t.Error("one step should not be enough to learn xor")
	}
}

func TestBenchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.json")
	out, err := run(t, "bench", "--backend", "gonum", "--size", "32", "--iters", "2", "--check", "--out", path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(out, "GFLOPS, trace") != 2 {
		t.Errorf("expected two timing lines:\n%s", out)
	}

	results, err := bench.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Backend != "gonum" || results[0].Size != 32 {
		t.Errorf("results = %+v", results)
	}

	out, err = run(t, "bench", "--backend", "tuned", "--size", "48", "--iters", "1", "--trace-tol", "1e-4")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Passed: 1") {
		t.Errorf("tuned run did not pass:\n%s", out)
	}

	if _, err := run(t, "bench", "--backend", "cuda"); err == nil {
		t.Error("unknown backend accepted")
	}
}

func writeIDX(t *testing.T, dir, name string, header []uint32, body []byte) string {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, header)
	buf.Write(body)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMnistCommand(t *testing.T) {
	dir := t.TempDir()
	const n = 4
	images := writeIDX(t, dir, "images", []uint32{2051, n, 28, 28}, make([]byte, n*28*28))
	labels := writeIDX(t, dir, "labels", []uint32{2049, n}, []byte{0, 1, 2, 3})

	out, err := run(t, "mnist", "--images", images, "--labels", labels,
		"--epochs", "2", "--batch", "2",
		"--test-images", images, "--test-labels", labels)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"epoch 0", "epoch 1", "test loss"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	badMagic := writeIDX(t, dir, "bad", []uint32{2049, n}, make([]byte, n))
	if _, err := run(t, "mnist", "--images", badMagic, "--labels", labels); err == nil {
		t.Error("label file accepted as images")
	}
	if _, err := run(t, "mnist"); err == nil {
		t.Error("missing required flags accepted")
	}
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "base.json")
	curr := filepath.Join(dir, "curr.json")
	for _, path := range []string{base, curr} {
		if _, err := run(t, "bench", "--backend", "naive", "--size", "16", "--iters", "1", "--out", path); err != nil {
			t.Fatal(err)
		}
	}

	// Timing noise may flag the run as faster or slower, but the traces
	// are identical.
	out, err := run(t, "compare", "--baseline", base, "--current", curr)
	if err != nil {
		t.Fatalf("%v\n%s", err, out)
	}
	if !strings.Contains(out, "FAIL: 0") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "compare", "--baseline", filepath.Join(dir, "missing.json"), "--current", curr); err == nil {
		t.Error("missing baseline accepted")
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "nnops version ") {
		t.Errorf("unexpected output: %q", out)
	}
}
