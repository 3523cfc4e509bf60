package rf

import (
	"os"
	"strconv"
	"unsafe"
)

// DispatchLevel represents the instruction set the kernels are tuned for.
// The engines are written in portable Go; the level only selects the
// block width of the unrolled inner loops.
type DispatchLevel int

const (
	// DispatchScalar indicates no SIMD was detected (or it was disabled).
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates the x86-64 baseline (128-bit).
	DispatchSSE2

	// DispatchAVX2 indicates AVX2 (256-bit).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512 (512-bit).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON (128-bit).
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// currentLevel and currentWidth are set by init() in dispatch_*.go files.
var (
	currentLevel DispatchLevel
	currentWidth int
)

// CurrentLevel returns the detected dispatch level.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the vector register width in bytes.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns the name of the current level, e.g. "avx2".
func CurrentName() string {
	return currentLevel.String()
}

// NoSimdEnv checks the RF_NO_SIMD environment variable. When set, kernels
// use the scalar block width regardless of CPU capabilities.
func NoSimdEnv() bool {
	val := os.Getenv("RF_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16 // keep 16-byte blocks so loop shapes stay identical
}

// MaxLanes returns how many samples of type T fit in one vector register.
//
// For example, with AVX2 (32 bytes): float32 → 8, float64 → 4.
func MaxLanes[T Floats]() int {
	var dummy T
	size := int(unsafe.Sizeof(dummy))
	if size == 0 || currentWidth < size {
		return 1
	}
	return currentWidth / size
}
