package meshlet

import (
	"testing"

	"github.com/konstatoivanen/pkassetc/internal/meshpack"
)

// fakeOptimizer clusters triangles into fixed-size chunks, good enough to
// exercise the grouping/refinement control flow without linking a real
// mesh-optimizer binding.
type fakeOptimizer struct{ chunkTris int }

func (f fakeOptimizer) BuildMeshlets(indices []uint32, positions []meshpack.Vec3, maxV, maxT int, cone float32) []Meshlet {
	chunk := f.chunkTris
	if chunk == 0 {
		chunk = 4
	}
	var out []Meshlet
	for t := 0; t < len(indices); t += chunk * 3 {
		end := t + chunk*3
		if end > len(indices) {
			end = len(indices)
		}
		tri := indices[t:end]
		vertSet := map[uint32]byte{}
		var verts []uint32
		for _, v := range tri {
			if _, ok := vertSet[v]; !ok {
				vertSet[v] = byte(len(verts))
				verts = append(verts, v)
			}
		}
		var packed []byte
		for _, v := range tri {
			packed = append(packed, vertSet[v])
		}
		out = append(out, Meshlet{
			Vertices:     verts,
			Triangles:    packed,
			VertexCount:  len(verts),
			TriangleCount: len(tri) / 3,
		})
	}
	return out
}

type fakePartitioner struct{}

func (fakePartitioner) Partition(adjacency [][]int, targetParts, ufactor int) []int {
	parts := make([]int, len(adjacency))
	for i := range parts {
		parts[i] = i % targetParts
	}
	return parts
}

type fakeSimplifier struct{}

func (fakeSimplifier) Simplify(indices []uint32, positions []meshpack.Vec3, locked []byte, target int) ([]uint32, float32) {
	if target <= 0 || target >= len(indices) {
		return indices, 0
	}
	return indices[:target], 0.1
}

func gridMesh(n int) ([]uint32, []meshpack.Vec3) {
	var positions []meshpack.Vec3
	for y := 0; y <= n; y++ {
		for x := 0; x <= n; x++ {
			positions = append(positions, meshpack.Vec3{X: float32(x), Y: float32(y), Z: 0})
		}
	}
	var indices []uint32
	stride := uint32(n + 1)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			a := uint32(y)*stride + uint32(x)
			b := a + 1
			c := a + stride
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return indices, positions
}

func TestBuildLeavesSetsLeafConvention(t *testing.T) {
	indices, positions := gridMesh(2)
	leaves := BuildLeaves(indices, positions, fakeOptimizer{chunkTris: 2})
	if len(leaves) == 0 {
		t.Fatal("expected at least one leaf meshlet")
	}
	for _, m := range leaves {
		if m.Current.Error != leafError {
			t.Fatalf("leaf error = %v, want %v", m.Current.Error, leafError)
		}
		if m.Parent.HasParent {
			t.Fatal("leaf should not yet have a parent")
		}
	}
}

func TestBuildProducesMonotoneErrorWhenParentAssigned(t *testing.T) {
	indices, positions := gridMesh(8)
	remap := make([]uint32, len(positions))
	weight := make([]float32, len(positions))
	for i := range remap {
		remap[i] = uint32(i)
	}
	leaves := BuildLeaves(indices, positions, fakeOptimizer{chunkTris: 2})
	dag := Build(leaves, positions, remap, weight, fakePartitioner{}, fakeOptimizer{chunkTris: 2}, fakeSimplifier{})

	if len(dag.Levels) < 1 {
		t.Fatal("expected at least one level")
	}
	for _, m := range dag.Levels[0] {
		if m.Parent.HasParent && m.Parent.Error < m.Current.Error {
			t.Fatalf("LOD monotonicity violated: parent.error=%v < current.error=%v", m.Parent.Error, m.Current.Error)
		}
	}
}

func TestMeshletCapsRespected(t *testing.T) {
	indices, positions := gridMesh(4)
	leaves := BuildLeaves(indices, positions, fakeOptimizer{chunkTris: 2})
	for _, m := range leaves {
		if m.VertexCount > MaxVertices {
			t.Fatalf("meshlet vertex count %d exceeds cap %d", m.VertexCount, MaxVertices)
		}
		if m.TriangleCount > MaxTriangles {
			t.Fatalf("meshlet triangle count %d exceeds cap %d", m.TriangleCount, MaxTriangles)
		}
	}
}
