// Package exact provides an exact (brute-force) scan index behind the
// index.Index capability set.
//
// Exact scan trades query speed for fully deterministic results, which is
// what golden test fixtures need: the same point set always produces the
// same neighbor lists, independent of build parameters or library version.
package exact

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/index"
	"github.com/annlab/annfix/persistence"
)

// Compile-time check that Index satisfies the capability interface.
var _ index.Index = (*Index)(nil)

// Options contains the configuration of an exact index.
type Options struct {
	// Dimension is the fixed vector dimensionality. Must be > 0.
	Dimension int

	// Metric selects the distance function.
	Metric distance.Metric
}

// Index is a write-once exact scan index.
//
// Item IDs may be sparse. Angular indexes store L2-normalized copies of the
// input vectors and rank by cosine distance; euclidean indexes rank by
// squared L2, which is rank-equivalent to L2.
type Index struct {
	opts        Options
	dist        distance.Func
	vectors     [][]float32     // slot per item ID, nil for gaps
	items       *roaring.Bitmap // populated item IDs
	built       bool
	compression persistence.CompressionType
}

// New creates an empty exact index.
func New(dimension int, metric distance.Metric) (*Index, error) {
	if dimension <= 0 {
		return nil, &index.ErrInvalidDimension{Dimension: dimension}
	}
	dist, err := metric.Func()
	if err != nil {
		return nil, err
	}
	return &Index{
		opts:  Options{Dimension: dimension, Metric: metric},
		dist:  dist,
		items: roaring.New(),
	}, nil
}

// AddItem inserts a vector under an explicit item ID.
func (x *Index) AddItem(id uint32, vector []float32) error {
	if x.built {
		return index.ErrAlreadyBuilt
	}
	if len(vector) != x.opts.Dimension {
		return &index.ErrDimensionMismatch{Expected: x.opts.Dimension, Actual: len(vector)}
	}
	if x.items.Contains(id) {
		return &index.ErrDuplicateItem{ID: id}
	}

	stored := slices.Clone(vector)
	if x.opts.Metric == distance.Angular {
		if !distance.NormalizeL2InPlace(stored) {
			return fmt.Errorf("item %d: cannot normalize zero vector for angular metric", id)
		}
	}

	if int(id) >= len(x.vectors) {
		x.vectors = append(x.vectors, make([][]float32, int(id)+1-len(x.vectors))...)
	}
	x.vectors[id] = stored
	x.items.Add(id)
	return nil
}

// Build seals the index. Exact scan has no construction parameters, so this
// only flips the index into its read-only state.
func (x *Index) Build() error {
	if x.built {
		return index.ErrAlreadyBuilt
	}
	x.built = true
	return nil
}

// NearestByItem returns the IDs of the k nearest neighbors of the given item,
// nearest first. The item itself is included at rank one (distance zero).
func (x *Index) NearestByItem(id uint32, k int) ([]uint32, error) {
	if !x.built {
		return nil, index.ErrNotBuilt
	}
	if !x.items.Contains(id) {
		return nil, &index.ErrItemNotFound{ID: id}
	}
	return x.nearest(x.vectors[id], k)
}

// NearestByVector returns the IDs of the k nearest neighbors of an arbitrary
// query vector, nearest first.
func (x *Index) NearestByVector(query []float32, k int) ([]uint32, error) {
	if !x.built {
		return nil, index.ErrNotBuilt
	}
	if len(query) != x.opts.Dimension {
		return nil, &index.ErrDimensionMismatch{Expected: x.opts.Dimension, Actual: len(query)}
	}

	q := query
	if x.opts.Metric == distance.Angular {
		norm, ok := distance.NormalizeL2Copy(query)
		if !ok {
			return nil, fmt.Errorf("cannot normalize zero query vector for angular metric")
		}
		q = norm
	}
	return x.nearest(q, k)
}

func (x *Index) nearest(q []float32, k int) ([]uint32, error) {
	if k <= 0 {
		return nil, index.ErrInvalidK
	}

	top := newTopK(k)
	it := x.items.Iterator()
	for it.HasNext() {
		id := it.Next()
		top.push(id, x.dist(q, x.vectors[id]))
	}
	return top.ids(), nil
}

// Vector returns the stored vector of an item. For angular indexes this is
// the normalized copy, as used for ranking.
func (x *Index) Vector(id uint32) ([]float32, error) {
	if !x.items.Contains(id) {
		return nil, &index.ErrItemNotFound{ID: id}
	}
	return slices.Clone(x.vectors[id]), nil
}

// Len returns the number of items in the index.
func (x *Index) Len() int {
	return int(x.items.GetCardinality())
}

// Dimension returns the configured vector dimensionality.
func (x *Index) Dimension() int {
	return x.opts.Dimension
}

// Metric returns the distance metric the index was created with.
func (x *Index) Metric() distance.Metric {
	return x.opts.Metric
}
