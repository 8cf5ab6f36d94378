package compute

import (
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
	"k8s.io/klog/v2"
)

// CPUFeatures records the instruction set extensions of the host. The
// kernels are plain Go, so they are reported alongside benchmark results
// rather than used to pick a code path.
type CPUFeatures struct {
	HasAVX2     bool
	HasFMA      bool
	HasAVX512F  bool
	HasAVX512VL bool
	HasASIMD    bool
}

var (
	cpuFeatures CPUFeatures
	detectOnce  sync.Once
)

func detect() {
	detectOnce.Do(func() {
		cpuFeatures = CPUFeatures{
			HasAVX2:     cpu.X86.HasAVX2,
			HasFMA:      cpu.X86.HasFMA,
			HasAVX512F:  cpu.X86.HasAVX512F,
			HasAVX512VL: cpu.X86.HasAVX512VL,
			HasASIMD:    cpu.ARM64.HasASIMD,
		}
		klog.V(2).Infof("compute: %s", describe(cpuFeatures))
	})
}

// Features returns the detected CPU features.
func Features() CPUFeatures {
	detect()
	return cpuFeatures
}

// CPUInfo returns a string describing the detected features.
func CPUInfo() string {
	detect()
	return describe(cpuFeatures)
}

func describe(f CPUFeatures) string {
	var features []string
	if f.HasAVX2 {
		features = append(features, "AVX2")
	}
	if f.HasFMA {
		features = append(features, "FMA")
	}
	if f.HasAVX512F {
		features = append(features, "AVX512F")
	}
	if f.HasAVX512VL {
		features = append(features, "AVX512VL")
	}
	if f.HasASIMD {
		features = append(features, "ASIMD")
	}
	if len(features) == 0 {
		return "no SIMD extensions detected"
	}
	return "CPU features: " + strings.Join(features, ", ")
}
