// Package index defines the capability interface fixture tooling expects from
// a nearest-neighbor index, plus the error types shared by implementations.
package index

import (
	"errors"
	"fmt"
	"io"

	"github.com/annlab/annfix/distance"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrAlreadyBuilt is returned when items are added after Build.
	ErrAlreadyBuilt = errors.New("index is already built")

	// ErrNotBuilt is returned when an index is queried or saved before Build.
	ErrNotBuilt = errors.New("index is not built")
)

// ErrDimensionMismatch indicates a vector/index dimensionality mismatch.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid configured dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrMetricMismatch indicates that a persisted index was built with a
// different metric than the one requested at load time.
type ErrMetricMismatch struct {
	Expected distance.Metric
	Actual   distance.Metric
}

func (e *ErrMetricMismatch) Error() string {
	return fmt.Sprintf("metric mismatch: expected %v, got %v", e.Expected, e.Actual)
}

// ErrItemNotFound indicates a query for an item ID that is not in the index.
type ErrItemNotFound struct {
	ID uint32
}

func (e *ErrItemNotFound) Error() string {
	return fmt.Sprintf("item %d not found in index", e.ID)
}

// ErrDuplicateItem indicates that an item ID was added twice.
type ErrDuplicateItem struct {
	ID uint32
}

func (e *ErrDuplicateItem) Error() string {
	return fmt.Sprintf("item %d already added", e.ID)
}

// Index is the narrow capability set the fixture procedures consume.
//
// An index is write-once: items are added, Build seals it, and afterwards it
// is read-only. WriteTo persists a built index in the repo's binary format.
type Index interface {
	io.WriterTo

	// AddItem inserts a vector under an explicit item ID.
	// IDs may be sparse; adding the same ID twice is an error.
	AddItem(id uint32, vector []float32) error

	// Build seals the index. No items can be added afterwards.
	Build() error

	// NearestByItem returns the IDs of the k nearest neighbors of the given
	// item, nearest first. The item itself is included (distance zero).
	NearestByItem(id uint32, k int) ([]uint32, error)

	// Len returns the number of items in the index.
	Len() int

	// Dimension returns the configured vector dimensionality.
	Dimension() int

	// Metric returns the distance metric the index was created with.
	Metric() distance.Metric
}
