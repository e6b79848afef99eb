// Package meshwriter implements the .obj -> .pkmesh pipeline: vertex
// dedup, submesh bounds, the mesh-optimizer cache/overdraw/fetch passes,
// optional half-precision attribute conversion and position-stream
// splitting, and meshlet-DAG construction over the pre-quantization mesh.
package meshwriter

import "github.com/konstatoivanen/pkassetc/internal/meshpack"

// ObjShape is one named group of indexed triangles from a parsed .obj
// file. Vertex/normal/texcoord index triples follow .obj's 0-based
// convention once the collaborator has resolved negative/relative
// indices.
type ObjShape struct {
	Name   string
	Faces  []ObjFace
}

// ObjFace is a single triangle's three (position, normal, texcoord)
// index triples. TexcoordIdx/NormalIdx are -1 when absent.
type ObjFace struct {
	PositionIdx [3]int
	NormalIdx   [3]int
	TexcoordIdx [3]int
}

// ObjMesh is the parsed result handed back by the external .obj
// collaborator.
type ObjMesh struct {
	Positions []meshpack.Vec3
	Normals   []meshpack.Vec3
	Texcoords []meshpack.Vec2
	Shapes    []ObjShape
}

// ObjParser is the external raw-.obj-parser collaborator.
type ObjParser interface {
	Parse(path string) (*ObjMesh, error)
}

// TangentGenerator is the external MikkTSpace collaborator, run only
// when both normals and UVs are present and tangents are requested.
type TangentGenerator interface {
	// Generate computes one tangent (and bitangent sign packed into .W)
	// per vertex of the already-optimized mesh.
	Generate(positions []meshpack.Vec3, normals []meshpack.Vec3, uvs []meshpack.Vec2, indices []uint32) []Vec4
}

// Vec4 is a float32 4-vector, used for tangent+handedness.
type Vec4 struct{ X, Y, Z, W float32 }

// MeshOptimizerPipeline is the external mesh-optimizer collaborator's
// vertex-cache / overdraw / fetch optimization passes.
type MeshOptimizerPipeline interface {
	OptimizeVertexCache(indices []uint32, vertexCount int) []uint32
	OptimizeOverdraw(indices []uint32, positions []meshpack.Vec3, threshold float32) []uint32
	OptimizeVertexFetch(indices []uint32, vertexCount int) (newIndices []uint32, remap []uint32)
}
