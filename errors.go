package nnops

import "fmt"

// Precondition failures panic with a message naming the operator and the
// offending buffer.

func checkLen(op, name string, buf []float32, want int) {
	if len(buf) != want {
		panic(fmt.Sprintf("nnops: %s: len(%s) = %d, want %d", op, name, len(buf), want))
	}
}

func checkSameLen(op string, a, b []float32) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("nnops: %s: length mismatch %d != %d", op, len(a), len(b)))
	}
}

func checkDim(op string, dims ...int) {
	for _, d := range dims {
		if d < 0 {
			panic(fmt.Sprintf("nnops: %s: negative dimension %d", op, d))
		}
	}
}
