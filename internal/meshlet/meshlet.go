// Package meshlet builds the multi-level LOD DAG: meshlet clustering via
// an external mesh-optimizer collaborator, METIS-style grouping via a
// graph-partitioner collaborator, and the pure-Go iterative simplification
// driver that ties levels together with monotone error propagation.
package meshlet

import (
	"github.com/konstatoivanen/pkassetc/internal/meshpack"
)

const (
	MaxVertices  = 64
	MaxTriangles = 124
	coneWeight   = 0.5

	TargetGroupSize           = 6
	MaxGroupSize              = 12
	UFactor                   = 200
	DecimateFactor            = 2
	MaxLevels                 = 5
	MinSimplificationMeshlet  = 0.9
	MinSimplificationLevel    = 0.9
)

// Meshlet is one bounded triangle cluster plus its LOD linkage.
type Meshlet struct {
	VertexOffset, VertexCount     int
	TriangleOffset, TriangleCount int
	Vertices  []uint32 // global vertex indices this meshlet references
	Triangles []byte   // packed local-index triples, 1 byte per local vertex ref

	Current LODState
	Parent  LODState
}

// LODState is a (center, error) pair used for runtime screen-space-error
// LOD selection.
type LODState struct {
	Center meshpack.Vec3
	Error  float32
	HasParent bool
}

// leafError is the sentinel current.error value assigned to the initial
// (finest) meshlet set before any simplification has occurred.
const leafError = -1

// MeshOptimizer is the external collaborator that clusters an index
// stream into bounded meshlets and performs per-meshlet vertex
// cache/triangle reorder optimisation.
type MeshOptimizer interface {
	BuildMeshlets(indices []uint32, positions []meshpack.Vec3, maxVertices, maxTriangles int, coneWeight float32) []Meshlet
}

// GraphPartitioner is the external METIS-style collaborator.
type GraphPartitioner interface {
	// Partition splits an undirected graph of n nodes (given as an
	// adjacency list) into targetParts balanced parts, honoring ufactor
	// as the imbalance tolerance in METIS's percent-of-average units.
	// It returns, for each node, its assigned part index.
	Partition(adjacency [][]int, targetParts int, ufactor int) []int
}

// buildMeshletEdges returns, for each meshlet, the set of canonical
// (remapped) edges its triangles introduce, used to detect adjacency
// between meshlets in groupMeshlets.
func buildMeshletEdges(m Meshlet, remap []uint32) map[[2]uint32]struct{} {
	edges := make(map[[2]uint32]struct{})
	tris := m.Triangles
	for t := 0; t+3 <= len(tris); t += 3 {
		local := [3]byte{tris[t], tris[t+1], tris[t+2]}
		for e := 0; e < 3; e++ {
			a := m.Vertices[local[e]]
			b := m.Vertices[local[(e+1)%3]]
			if remap != nil {
				a, b = remap[a], remap[b]
			}
			if a > b {
				a, b = b, a
			}
			edges[[2]uint32{a, b}] = struct{}{}
		}
	}
	return edges
}

// groupMeshlets partitions meshlets into groups of up to MaxGroupSize,
// using the graph partitioner to balance cut quality, or a single group
// when the target part count collapses to <= 1.
func groupMeshlets(meshlets []Meshlet, remap []uint32, partitioner GraphPartitioner) [][]int {
	n := len(meshlets)
	if n == 0 {
		return nil
	}
	targetParts := (n + TargetGroupSize - 1) / TargetGroupSize
	if targetParts <= 1 {
		return [][]int{allIndices(n)}
	}

	edgeSets := make([]map[[2]uint32]struct{}, n)
	for i, m := range meshlets {
		edgeSets[i] = buildMeshletEdges(m, remap)
	}
	adjacency := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sharesEdge(edgeSets[i], edgeSets[j]) {
				adjacency[i] = append(adjacency[i], j)
				adjacency[j] = append(adjacency[j], i)
			}
		}
	}

	parts := partitioner.Partition(adjacency, targetParts, UFactor)
	groups := make(map[int][]int)
	for i, p := range parts {
		groups[p] = append(groups[p], i)
	}
	var out [][]int
	for _, g := range groups {
		for len(g) > MaxGroupSize {
			out = append(out, g[:MaxGroupSize])
			g = g[MaxGroupSize:]
		}
		out = append(out, g)
	}
	return out
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func sharesEdge(a, b map[[2]uint32]struct{}) bool {
	for e := range a {
		if _, ok := b[e]; ok {
			return true
		}
	}
	return false
}

// BuildLeaves constructs the finest meshlet level from a full-precision
// index/position stream via optimizer, initializing each leaf's LOD
// state per the leaf convention: error = -1, center = its own cluster
// center, no parent.
func BuildLeaves(indices []uint32, positions []meshpack.Vec3, optimizer MeshOptimizer) []Meshlet {
	meshlets := optimizer.BuildMeshlets(indices, positions, MaxVertices, MaxTriangles, coneWeight)
	for i := range meshlets {
		b := meshpack.ComputeBounds(positions, meshlets[i].Vertices)
		meshlets[i].Current = LODState{Center: b.Center(), Error: leafError}
	}
	return meshlets
}

// DAG is the output of the level-refinement loop: every meshlet produced
// across all levels, with Current/Parent linkage set per §4.7.3.
type DAG struct {
	Levels [][]Meshlet
}

// Build runs the level-refinement loop for up to MaxLevels iterations,
// grouping the current level's meshlets, simplifying each group of size
// > 1, and emitting a coarser level until the simplification-ratio gate
// or triangle-exhaustion stop condition triggers.
func Build(
	leaves []Meshlet,
	positions []meshpack.Vec3,
	remap []uint32,
	weight []float32,
	partitioner GraphPartitioner,
	optimizer MeshOptimizer,
	simplifier meshpack.Simplifier,
) DAG {
	dag := DAG{Levels: [][]Meshlet{leaves}}
	current := leaves

	for level := 0; level < MaxLevels; level++ {
		if len(current) <= 1 {
			break
		}
		groups := groupMeshlets(current, remap, partitioner)

		var next []Meshlet
		totalOriginal, totalSimplified := 0, 0
		anyProcessed := false

		for _, group := range groups {
			if len(group) <= 1 {
				continue
			}
			groupMeshlets := make([]Meshlet, len(group))
			for gi, idx := range group {
				groupMeshlets[gi] = current[idx]
			}
			clusterIndices, clusterPositions := concatenateTriangles(groupMeshlets, positions)
			if len(clusterIndices) == 0 {
				continue
			}
			anyProcessed = true
			targetCount := 3 * ((len(clusterIndices) / DecimateFactor) / 3)

			simplified, errScalar := meshpack.SimplifyCluster(clusterIndices, clusterPositions, remap, weight, targetCount, simplifier)

			ratio := float32(len(simplified)) / float32(len(clusterIndices))
			totalOriginal += len(clusterIndices)
			totalSimplified += len(simplified)
			if ratio > MinSimplificationMeshlet {
				// Unsimplifiable: children remain as leaves of this level.
				next = append(next, groupMeshlets...)
				continue
			}

			bounds := meshpack.ComputeBounds(clusterPositions, simplified)
			scaledErr := errScalar * bounds.MaxExtent()
			maxChildErr := float32(0)
			for _, c := range groupMeshlets {
				if c.Current.Error > maxChildErr {
					maxChildErr = c.Current.Error
				}
			}
			parentError := scaledErr + maxChildErr
			parentState := LODState{Center: bounds.Center(), Error: parentError, HasParent: true}
			for i := range groupMeshlets {
				groupMeshlets[i].Parent = parentState
			}
			// Write back into current so the caller's slice records the
			// parent linkage for this level's children.
			for gi, idx := range group {
				current[idx].Parent = groupMeshlets[gi].Parent
			}

			newMeshlets := optimizer.BuildMeshlets(simplified, clusterPositions, MaxVertices, MaxTriangles, coneWeight)
			for i := range newMeshlets {
				newMeshlets[i].Current = LODState{Center: bounds.Center(), Error: parentError}
			}
			next = append(next, newMeshlets...)
		}

		if !anyProcessed || len(next) == 0 {
			break
		}
		if totalOriginal > 0 {
			levelRatio := float32(totalSimplified) / float32(totalOriginal)
			if levelRatio > MinSimplificationLevel {
				break
			}
		}

		dag.Levels = append(dag.Levels, next)
		current = next
	}
	return dag
}

// concatenateTriangles flattens a group's meshlets into one index list
// (in the meshlet->global vertex space) plus the position array it
// indexes into (identical to the caller's full position array; returned
// for call-site symmetry with SimplifyCluster's signature).
func concatenateTriangles(group []Meshlet, positions []meshpack.Vec3) ([]uint32, []meshpack.Vec3) {
	var indices []uint32
	for _, m := range group {
		tris := m.Triangles
		for t := 0; t+3 <= len(tris); t += 3 {
			indices = append(indices,
				m.Vertices[tris[t]],
				m.Vertices[tris[t+1]],
				m.Vertices[tris[t+2]],
			)
		}
	}
	return indices, positions
}
