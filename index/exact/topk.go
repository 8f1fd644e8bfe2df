package exact

import (
	"container/heap"
	"sort"
)

type candidate struct {
	id   uint32
	dist float32
}

// worseThan orders candidates for eviction: larger distance is worse, ties
// broken by larger ID so the result set is deterministic.
func (c candidate) worseThan(o candidate) bool {
	if c.dist != o.dist {
		return c.dist > o.dist
	}
	return c.id > o.id
}

// topK keeps the k best candidates seen so far in a bounded max-heap.
type topK struct {
	k     int
	items candidateHeap
}

func newTopK(k int) *topK {
	return &topK{k: k, items: make(candidateHeap, 0, k)}
}

func (t *topK) push(id uint32, dist float32) {
	c := candidate{id: id, dist: dist}
	if len(t.items) < t.k {
		heap.Push(&t.items, c)
		return
	}
	if t.items[0].worseThan(c) {
		t.items[0] = c
		heap.Fix(&t.items, 0)
	}
}

// ids returns the collected candidates as item IDs, nearest first.
func (t *topK) ids() []uint32 {
	sorted := make([]candidate, len(t.items))
	copy(sorted, t.items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[j].worseThan(sorted[i])
	})

	out := make([]uint32, len(sorted))
	for i, c := range sorted {
		out[i] = c.id
	}
	return out
}

// candidateHeap is a max-heap: the worst candidate sits at the root.
type candidateHeap []candidate

func (h candidateHeap) Len() int            { return len(h) }
func (h candidateHeap) Less(i, j int) bool  { return h[i].worseThan(h[j]) }
func (h candidateHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	c := old[n-1]
	*h = old[:n-1]
	return c
}
