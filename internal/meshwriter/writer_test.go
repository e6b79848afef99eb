package meshwriter

import (
	"encoding/binary"
	"testing"

	"github.com/konstatoivanen/pkassetc/internal/container"
	"github.com/konstatoivanen/pkassetc/internal/meshpack"
)

type fakeParser struct{ mesh *ObjMesh }

func (f fakeParser) Parse(path string) (*ObjMesh, error) { return f.mesh, nil }

func singleTriangleMesh() *ObjMesh {
	return &ObjMesh{
		Positions: []meshpack.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Shapes: []ObjShape{{
			Name: "tri",
			Faces: []ObjFace{{
				PositionIdx: [3]int{0, 1, 2},
				NormalIdx:   [3]int{-1, -1, -1},
				TexcoordIdx: [3]int{-1, -1, -1},
			}},
		}},
	}
}

func TestBuildSingleTriangle(t *testing.T) {
	buf, err := Build("triangle.obj", fakeParser{mesh: singleTriangleMesh()}, Meta{}, Collaborators{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hdr, err := buf.Header()
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if hdr.Type != container.AssetTypeMesh {
		t.Fatalf("header type = %v", hdr.Type)
	}

	root := buf.Bytes()[container.HeaderSize : container.HeaderSize+meshRootSize]
	indexType := binary.LittleEndian.Uint32(root[0:4])
	vertexCount := binary.LittleEndian.Uint32(root[12:16])
	indexCount := binary.LittleEndian.Uint32(root[16:20])

	if IndexType(indexType) != IndexType16 {
		t.Fatalf("indexType = %v, want 16-bit", indexType)
	}
	if vertexCount != 3 {
		t.Fatalf("vertexCount = %d, want 3", vertexCount)
	}
	if indexCount != 3 {
		t.Fatalf("indexCount = %d, want 3", indexCount)
	}
}

func TestBuildRejectsEmptyMesh(t *testing.T) {
	_, err := Build("empty.obj", fakeParser{mesh: &ObjMesh{}}, Meta{}, Collaborators{})
	if err == nil {
		t.Fatal("expected error for empty vertex list")
	}
}

func TestBuildLayoutTangentsOnlyWithNormalsAndUVs(t *testing.T) {
	l := BuildLayout(true, false)
	if indexOfSemantic(l.Attributes, SemanticTangent) >= 0 {
		t.Fatal("expected no tangent attribute without UVs")
	}
	l2 := BuildLayout(true, true)
	if indexOfSemantic(l2.Attributes, SemanticTangent) < 0 {
		t.Fatal("expected tangent attribute with both normals and UVs")
	}
}

func TestApplyHalfPrecisionPreservesAlignment(t *testing.T) {
	l := BuildLayout(true, true)
	half := ApplyHalfPrecision(l, true, true, true)
	if half.Stride(0)%4 != 0 {
		t.Fatalf("stride %d not 4-byte aligned after half conversion", half.Stride(0))
	}
}

func TestLoadMetaMissingFileIsZeroValue(t *testing.T) {
	m, err := LoadMeta("/nonexistent/path.pkmeta")
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if m.SplitPositionStream || m.UseHalfPrecisionNormals {
		t.Fatal("expected zero-value Meta for missing sidecar")
	}
}
