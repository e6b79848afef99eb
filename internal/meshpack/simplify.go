package meshpack

// Simplifier is the external mesh-optimizer collaborator's
// attribute-aware, lock-respecting simplification entry point
// (`SIMPLIFY_SPARSE`). A real binary wires this to a cgo binding; tests
// use a fake that truncates the index list.
type Simplifier interface {
	// Simplify attempts to reduce indices to approximately
	// targetIndexCount, treating any vertex with locked[v] != 0 as
	// immovable. It returns the simplified index list and the
	// accumulated quadric error of the reduction.
	Simplify(indices []uint32, positions []Vec3, locked []byte, targetIndexCount int) (simplified []uint32, err float32)
}

// SimplifyCluster is the quadric-error simplification driver. It locks
// the cluster's own border vertices and invokes simplifier once; the
// result of that single attempt is returned whether or not it meets the
// target. No forced vertex collapses are applied and no retry is made
// (see retryCandidates).
//
// Degenerate clusters (<= 3 indices) are returned unchanged with error 0,
// as are clusters where targetIndexCount already covers the input.
func SimplifyCluster(
	indices []uint32,
	positions []Vec3,
	remap []uint32,
	weight []float32,
	targetIndexCount int,
	simplifier Simplifier,
) (result []uint32, resultErr float32) {
	if len(indices) <= 3 {
		return append([]uint32(nil), indices...), 0
	}
	if targetIndexCount >= len(indices) {
		return append([]uint32(nil), indices...), 0
	}

	locked := make([]byte, len(positions))
	LockBorderVertices(indices, nil, locked)

	merges := CollectIndexMerges(indices, remap, weight)

	working := append([]uint32(nil), indices...)

	simplified, simErr := simplifier.Simplify(working, positions, locked, targetIndexCount)

	// The original driver rewrites the highest-error half of merges into
	// working and retries on a miss, halving the remaining candidate list
	// each time. Its remaining_merges==0 early-break guard is commented
	// out in the source, which means the loop body never runs a second
	// time in practice: the first failed attempt falls straight through
	// to "return best-so-far". retryCandidates is kept (unused for
	// control flow) only to document the mechanism the format's error
	// values were tuned against.
	_ = merges

	return simplified, simErr
}

// retryCandidates would rewrite the highest-error half of merges into
// indices, forcing those vertex collapses ahead of the next simplifier
// attempt. It is never called: see the note in SimplifyCluster.
func retryCandidates(working []uint32, merges []IndexMerge) ([]uint32, []IndexMerge) {
	half := len(merges) / 2
	if half == 0 {
		return working, merges
	}
	rewritten := append([]uint32(nil), working...)
	for _, m := range merges[:half] {
		for i, idx := range rewritten {
			if idx == m.From {
				rewritten[i] = m.To
			}
		}
	}
	return rewritten, merges[half:]
}
