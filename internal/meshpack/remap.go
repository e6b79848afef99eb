package meshpack

import "sort"

// VertexRemapAndWeights collapses positionally-equal vertices, returning
// for every vertex the index of the lowest-indexed vertex sharing its
// position (the spatial remap) and a per-vertex weight equal to the L2
// distance in attribute-space between the vertex and its representative
// (used to prioritize which collapses are cheapest during simplification).
func VertexRemapAndWeights(positions []Vec3, attrs [][]float32) (remap []uint32, weight []float32) {
	n := len(positions)
	remap = make([]uint32, n)
	weight = make([]float32, n)

	type key struct{ x, y, z float32 }
	first := make(map[key]int, n)
	rep := make([]int, n)
	for i := range rep {
		rep[i] = i
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for _, i := range order {
		k := key{positions[i].X, positions[i].Y, positions[i].Z}
		if j, ok := first[k]; ok {
			rep[i] = j
		} else {
			first[k] = i
			rep[i] = i
		}
	}

	for i := 0; i < n; i++ {
		remap[i] = uint32(rep[i])
		if rep[i] == i || attrs == nil {
			weight[i] = 0
			continue
		}
		var sumSq float32
		a, b := attrs[i], attrs[rep[i]]
		for c := 0; c < len(a) && c < len(b); c++ {
			d := a[c] - b[c]
			sumSq += d * d
		}
		weight[i] = sqrtf32(sumSq)
	}
	return remap, weight
}

func sqrtf32(v float32) float32 {
	if v <= 0 {
		return 0
	}
	// Newton's method avoids pulling in math.Sqrt's float64 round trip
	// dependency for this hot, tiny computation.
	x := v
	for i := 0; i < 8; i++ {
		x = 0.5 * (x + v/x)
	}
	return x
}

// QuantizeFloat2 snaps 2-component vectors to a minDelta grid in place,
// collapsing duplicates to the first representative encountered so that
// downstream code observes the *original* float value of the
// representative rather than a lossy rewrite of every vertex.
func QuantizeFloat2(values []Vec2, minDelta float32) {
	type key struct{ x, y int64 }
	seen := make(map[key]int, len(values))
	for i, v := range values {
		k := key{quantKey(v.X, minDelta), quantKey(v.Y, minDelta)}
		if j, ok := seen[k]; ok {
			values[i] = values[j]
			continue
		}
		seen[k] = i
	}
}

// QuantizeFloat3 is QuantizeFloat2's 3-component counterpart.
func QuantizeFloat3(values []Vec3, minDelta float32) {
	type key struct{ x, y, z int64 }
	seen := make(map[key]int, len(values))
	for i, v := range values {
		k := key{quantKey(v.X, minDelta), quantKey(v.Y, minDelta), quantKey(v.Z, minDelta)}
		if j, ok := seen[k]; ok {
			values[i] = values[j]
			continue
		}
		seen[k] = i
	}
}

func quantKey(v, minDelta float32) int64 {
	if minDelta <= 0 {
		minDelta = 1e-6
	}
	return int64(v / minDelta)
}

// edgeKey canonicalizes a directed edge by its sorted endpoint pair,
// applying the optional spatial remap first.
type edgeKey struct{ a, b uint32 }

func canonicalEdge(a, b uint32, remap []uint32) edgeKey {
	if remap != nil {
		a, b = remap[a], remap[b]
	}
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// LockBorderVertices enumerates the directed triangle edges of indices,
// canonicalizes each under the optional remap, and counts occurrences.
// Every edge appearing exactly once is a boundary edge; both of its
// endpoints (in original, unremapped index space) are marked locked in
// locked. It returns the number of boundary edges found.
func LockBorderVertices(indices []uint32, remap []uint32, locked []byte) int {
	count := make(map[edgeKey]int)
	type rawEdge struct {
		a, b uint32
		key  edgeKey
	}
	var edges []rawEdge
	for t := 0; t+3 <= len(indices); t += 3 {
		tri := indices[t : t+3]
		for e := 0; e < 3; e++ {
			a, b := tri[e], tri[(e+1)%3]
			k := canonicalEdge(a, b, remap)
			count[k]++
			edges = append(edges, rawEdge{a, b, k})
		}
	}
	boundary := 0
	seenBoundary := make(map[edgeKey]bool)
	for _, e := range edges {
		if count[e.key] == 1 {
			if !seenBoundary[e.key] {
				seenBoundary[e.key] = true
				boundary++
			}
			locked[e.a] = 1
			locked[e.b] = 1
		}
	}
	return boundary
}

// IndexMerge is one collapse candidate produced when a cluster's spatial
// remap differs from the identity mapping for a given index.
type IndexMerge struct {
	From, To uint32
	Error    float32
}

// CollectIndexMerges builds the sorted (descending by error) list of
// collapse candidates for every index in indices whose remap target
// differs from itself.
func CollectIndexMerges(indices []uint32, remap []uint32, weight []float32) []IndexMerge {
	var merges []IndexMerge
	seen := make(map[uint32]bool)
	for _, idx := range indices {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		if remap[idx] != idx {
			merges = append(merges, IndexMerge{From: idx, To: remap[idx], Error: weight[idx]})
		}
	}
	sort.Slice(merges, func(i, j int) bool { return merges[i].Error > merges[j].Error })
	return merges
}
