// Package distance provides the distance metrics used by fixture indexes.
package distance

import (
	"fmt"
	"math"
	"slices"
)

// Metric selects the distance function governing nearest-neighbor geometry.
type Metric int

const (
	// Angular ranks by cosine distance over L2-normalized vectors.
	Angular Metric = iota
	// Euclidean ranks by squared L2 distance (rank-equivalent to L2).
	Euclidean
)

// Metrics returns all supported metrics in canonical build order.
func Metrics() []Metric {
	return []Metric{Angular, Euclidean}
}

func (m Metric) String() string {
	switch m {
	case Angular:
		return "angular"
	case Euclidean:
		return "euclidean"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Code returns the single-character metric selector recorded in persisted
// index headers: 'a' for angular, 'e' for euclidean. The convention comes
// from the annoy tooling this repo generates fixtures for and must stay
// stable across versions.
func (m Metric) Code() byte {
	switch m {
	case Angular:
		return 'a'
	case Euclidean:
		return 'e'
	default:
		return 0
	}
}

// ParseMetric parses a full metric name as used on the command line.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "angular":
		return Angular, nil
	case "euclidean":
		return Euclidean, nil
	default:
		return 0, fmt.Errorf("unknown metric %q (want angular or euclidean)", s)
	}
}

// ParseCode parses a single-character metric selector from an index header.
func ParseCode(c byte) (Metric, error) {
	switch c {
	case 'a':
		return Angular, nil
	case 'e':
		return Euclidean, nil
	default:
		return 0, fmt.Errorf("unknown metric code %q", string(c))
	}
}

// Func is a function type for distance calculation.
// Smaller values mean closer vectors.
type Func func(a, b []float32) float32

// Func returns the distance function for the metric.
// Angular assumes both arguments are L2-normalized.
func (m Metric) Func() (Func, error) {
	switch m {
	case Angular:
		return CosineDistance, nil
	case Euclidean:
		return SquaredL2, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}

// Dot calculates the dot product of two vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// CosineDistance calculates 1 - dot(a, b).
// Assumes both vectors are L2-normalized, so the result is 1 - cos(a, b).
func CosineDistance(a, b []float32) float32 {
	return 1 - Dot(a, b)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := Dot(v, v)
	if norm2 == 0 {
		return false
	}
	inv := 1 / float32(math.Sqrt(float64(norm2)))
	for i := range v {
		v[i] *= inv
	}
	return true
}

// NormalizeL2Copy returns a normalized copy of src.
// Returns false if src has zero L2 norm.
func NormalizeL2Copy(src []float32) ([]float32, bool) {
	dst := slices.Clone(src)
	if !NormalizeL2InPlace(dst) {
		return nil, false
	}
	return dst, true
}
