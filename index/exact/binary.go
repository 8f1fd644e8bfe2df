package exact

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/annlab/annfix/distance"
	"github.com/annlab/annfix/index"
	"github.com/annlab/annfix/internal/mmap"
	"github.com/annlab/annfix/persistence"
)

// WriteTo writes the index to w in the annfix binary format.
// The index must be built first.
func (x *Index) WriteTo(w io.Writer) (int64, error) {
	if !x.built {
		return 0, index.ErrNotBuilt
	}

	bitmapBytes, err := x.items.ToBytes()
	if err != nil {
		return 0, err
	}

	count := x.Len()
	payload := make([]byte, 0, 4+len(bitmapBytes)+count*x.opts.Dimension*4)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(bitmapBytes)))
	payload = append(payload, bitmapBytes...)

	// Vectors in ascending item-ID order, one slot per populated ID.
	it := x.items.Iterator()
	for it.HasNext() {
		for _, f := range x.vectors[it.Next()] {
			payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(f))
		}
	}

	h := persistence.FileHeader{
		MetricCode: x.opts.Metric.Code(),
		Dimension:  uint32(x.opts.Dimension),
		ItemCount:  uint64(count),
	}
	if count > 0 {
		h.MaxID = x.items.Maximum()
	}

	return persistence.WriteIndex(w, h, payload, x.compression)
}

// SetCompression selects the payload compression used by WriteTo.
// Default is no compression.
func (x *Index) SetCompression(ct persistence.CompressionType) {
	x.compression = ct
}

// Load reads a persisted index from r and validates it against the expected
// dimensionality and metric.
func Load(r io.Reader, opts Options) (*Index, error) {
	h, payload, err := persistence.ReadIndex(r)
	if err != nil {
		return nil, err
	}

	metric, err := distance.ParseCode(h.MetricCode)
	if err != nil {
		return nil, err
	}
	if metric != opts.Metric {
		return nil, &index.ErrMetricMismatch{Expected: opts.Metric, Actual: metric}
	}
	if int(h.Dimension) != opts.Dimension {
		return nil, &index.ErrDimensionMismatch{Expected: opts.Dimension, Actual: int(h.Dimension)}
	}

	x, err := New(opts.Dimension, opts.Metric)
	if err != nil {
		return nil, err
	}

	if len(payload) < 4 {
		return nil, persistence.ErrTruncated
	}
	bitmapLen := binary.LittleEndian.Uint32(payload)
	payload = payload[4:]
	if uint64(len(payload)) < uint64(bitmapLen) {
		return nil, persistence.ErrTruncated
	}

	x.items = roaring.New()
	if err := x.items.UnmarshalBinary(payload[:bitmapLen]); err != nil {
		return nil, fmt.Errorf("decode item bitmap: %w", err)
	}
	payload = payload[bitmapLen:]

	count := x.items.GetCardinality()
	if count != h.ItemCount {
		return nil, fmt.Errorf("item bitmap has %d items, header says %d", count, h.ItemCount)
	}

	vecBytes := int(count) * opts.Dimension * 4
	if len(payload) != vecBytes {
		return nil, fmt.Errorf("%w: vector section is %d bytes, want %d", persistence.ErrTruncated, len(payload), vecBytes)
	}

	if count > 0 {
		x.vectors = make([][]float32, int(x.items.Maximum())+1)
	}
	it := x.items.Iterator()
	for it.HasNext() {
		id := it.Next()
		vec := make([]float32, opts.Dimension)
		for i := range vec {
			vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload))
			payload = payload[4:]
		}
		x.vectors[id] = vec
	}

	x.built = true
	return x, nil
}

// LoadFromFile memory-maps filename and loads the index from it.
func LoadFromFile(filename string, opts Options) (*Index, error) {
	m, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	x, err := Load(bytes.NewReader(m.Bytes()), opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return x, nil
}
