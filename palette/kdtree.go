package palette

import (
	"container/heap"

	"github.com/lutgen-go/lutgen/colorspace"
)

// KDTree is a 3-dimensional spatial index over Oklab palette points
// (spec.md C3/§3). It is built once from an immutable point set and never
// mutated afterwards (invariant I4).
type KDTree struct {
	points []colorspace.Oklab
	root   *kdNode
}

type kdNode struct {
	index       int
	left, right *kdNode
	axis        int
}

// BuildKDTree indexes points (already Oklab, with L pre-scaled by the
// caller's lum_factor per spec.md §4.3) for k-nearest and unbounded
// queries. The order of points is preserved for tie-breaking.
func BuildKDTree(points []colorspace.Oklab) *KDTree {
	t := &KDTree{points: points}
	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	t.root = t.build(idx, 0)
	return t
}

func (t *KDTree) build(idx []int, depth int) *kdNode {
	if len(idx) == 0 {
		return nil
	}
	axis := depth % 3
	sortByAxis(t.points, idx, axis)
	mid := len(idx) / 2
	node := &kdNode{index: idx[mid], axis: axis}
	node.left = t.build(idx[:mid], depth+1)
	node.right = t.build(idx[mid+1:], depth+1)
	return node
}

func sortByAxis(points []colorspace.Oklab, idx []int, axis int) {
	// insertion sort: palette sizes are small (typically 8-32, at most a
	// few hundred from the extract path), so O(n^2) here is not worth
	// pulling in sort.Slice's reflection overhead or complicating the
	// tie-break-by-original-index contract.
	coord := func(i int) float32 {
		p := points[i]
		switch axis {
		case 0:
			return p.L
		case 1:
			return p.A
		default:
			return p.B
		}
	}
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && coord(idx[j]) < coord(idx[j-1]); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

func axisCoord(p colorspace.Oklab, axis int) float32 {
	switch axis {
	case 0:
		return p.L
	case 1:
		return p.A
	default:
		return p.B
	}
}

// candidate is one entry in the bounded max-heap used during a k-nearest
// search: the heap root is always the current *worst* kept candidate, so
// that it is the one evicted when a better point is found.
type candidate struct {
	index int
	dist  float32
}

type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].dist != h[j].dist {
		return h[i].dist > h[j].dist // max-heap on distance
	}
	// Tie-break: spec.md §4.4 says palette (original caller) order wins,
	// i.e. lower original index is preferred to survive. So among equal
	// distances the *higher* index is considered "worse" and sorts first
	// (it will be evicted first).
	return h[i].index > h[j].index
}
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Nearest returns the indices (into the original palette) of the k nearest
// points to query. query must already have its L channel scaled by the same
// lumFactor the tree's own points were built with (palette.Prepare does
// this once for both), since the tree compares coordinates directly rather
// than re-deriving the weighted metric per call. k == 0 means "all points",
// returned in original palette order. Results are always returned sorted by
// original index for deterministic accumulation order downstream.
func (t *KDTree) Nearest(query colorspace.Oklab, k int) []int {
	if k <= 0 || k >= len(t.points) {
		all := make([]int, len(t.points))
		for i := range all {
			all[i] = i
		}
		return all
	}
	h := make(candidateHeap, 0, k)
	t.search(t.root, query, k, &h)
	out := make([]int, len(h))
	for i, c := range h {
		out[i] = c.index
	}
	insertionSortInts(out)
	return out
}

func insertionSortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func (t *KDTree) search(node *kdNode, query colorspace.Oklab, k int, h *candidateHeap) {
	if node == nil {
		return
	}
	// lumFactor=1: query and every stored point already carry the weighted
	// L scaling from palette.Prepare, so the metric here is plain squared
	// Euclidean over already-weighted coordinates.
	d := colorspace.Distance(query, t.points[node.index], 1)
	cand := candidate{index: node.index, dist: d}
	if h.Len() < k {
		heap.Push(h, cand)
	} else if worse((*h)[0], cand) {
		heap.Pop(h)
		heap.Push(h, cand)
	}

	qc := axisCoord(query, node.axis)
	nc := axisCoord(t.points[node.index], node.axis)
	var near, far *kdNode
	if qc < nc {
		near, far = node.left, node.right
	} else {
		near, far = node.right, node.left
	}
	t.search(near, query, k, h)

	// Only descend into the far side if it could still hold a point
	// closer than the current worst kept candidate.
	axisDist := qc - nc
	axisDistSq := axisDist * axisDist
	if h.Len() < k || axisDistSq < (*h)[0].dist {
		t.search(far, query, k, h)
	}
}

// worse reports whether current is a strictly worse kept candidate than
// challenger, i.e. challenger should replace it.
func worse(current, challenger candidate) bool {
	if challenger.dist != current.dist {
		return challenger.dist < current.dist
	}
	return challenger.index < current.index
}
