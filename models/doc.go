// Package models assembles the nnops operators into the two small networks
// used by the command line tools: a 2-2-1 sigmoid network for boolean truth
// tables and a single-layer sigmoid perceptron for MNIST digits.
package models
