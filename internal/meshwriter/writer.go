package meshwriter

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/konstatoivanen/pkassetc/internal/container"
	"github.com/konstatoivanen/pkassetc/internal/meshlet"
	"github.com/konstatoivanen/pkassetc/internal/meshpack"
)

// IndexType mirrors the mesh root's 16- vs 32-bit index selection.
type IndexType uint32

const (
	IndexType16 IndexType = iota
	IndexType32
)

// Collaborators bundles the external pipeline pieces a Build call needs.
// Optimizer, TangentGen, Partitioner and MeshletOptimizer may be nil; a
// nil Optimizer skips the cache/overdraw/fetch passes (vertices are
// written in dedup order), a nil TangentGen skips tangent generation
// even when the layout calls for tangents.
type Collaborators struct {
	Optimizer        MeshOptimizerPipeline
	TangentGen       TangentGenerator
	Partitioner      meshlet.GraphPartitioner
	MeshletOptimizer meshlet.MeshOptimizer
	Simplifier       meshpack.Simplifier
}

// Build parses objPath, deduplicates and optimizes its vertex/index
// streams, and assembles the full .pkmesh container, including the
// meshlet DAG built from the pre-quantization full-precision geometry.
func Build(objPath string, parser ObjParser, meta Meta, collab Collaborators) (*container.Buffer, error) {
	obj, err := parser.Parse(objPath)
	if err != nil {
		return nil, fmt.Errorf("meshwriter: parse %s: %w", objPath, err)
	}
	if len(obj.Positions) == 0 {
		return nil, fmt.Errorf("meshwriter: %s has no vertices", objPath)
	}

	built := Dedup(obj)
	layout := BuildLayout(built.HasNormals, built.HasUVs)
	hasTangents := built.HasNormals && built.HasUVs

	indices := built.Indices
	positions := built.Positions
	vertexCount := len(positions)

	var vertexFetchRemap []uint32
	if collab.Optimizer != nil {
		var perSubmesh []uint32
		for _, sm := range built.Submeshes {
			sub := indices[sm.IndexOffset : sm.IndexOffset+sm.IndexCount]
			opt := collab.Optimizer.OptimizeVertexCache(sub, vertexCount)
			perSubmesh = append(perSubmesh, opt...)
		}
		indices = collab.Optimizer.OptimizeOverdraw(perSubmesh, positions, 1.05)
		indices, vertexFetchRemap = collab.Optimizer.OptimizeVertexFetch(indices, vertexCount)
	}

	indexType := IndexType16
	if vertexCount > 65535 {
		indexType = IndexType32
	}

	var tangents []Vec4
	if hasTangents && collab.TangentGen != nil {
		tangents = collab.TangentGen.Generate(positions, built.Normals, built.Texcoords, indices)
	}

	// Meshlets are always built from the full-precision, pre-quantization
	// geometry, independent of the output vertex layout's precision.
	meshletPositions := append([]meshpack.Vec3(nil), positions...)
	meshletIndices := append([]uint32(nil), indices...)
	remap, weight := meshpack.VertexRemapAndWeights(meshletPositions, nil)

	var dag meshlet.DAG
	if collab.MeshletOptimizer != nil && collab.Partitioner != nil && collab.Simplifier != nil {
		leaves := meshlet.BuildLeaves(meshletIndices, meshletPositions, collab.MeshletOptimizer)
		dag = meshlet.Build(leaves, meshletPositions, remap, weight, collab.Partitioner, collab.MeshletOptimizer, collab.Simplifier)
	}

	finalLayout := ApplyHalfPrecision(layout, meta.UseHalfPrecisionNormals, meta.UseHalfPrecisionTangents, meta.UseHalfPrecisionUVs)
	if meta.SplitPositionStream {
		finalLayout = SplitPositionStream(finalLayout)
	}

	return assemble(built, indices, positions, tangents, vertexFetchRemap, indexType, finalLayout, dag)
}

func assemble(
	built BuiltMesh,
	indices []uint32,
	positions []meshpack.Vec3,
	tangents []Vec4,
	vertexFetchRemap []uint32,
	indexType IndexType,
	layout Layout,
	dag meshlet.DAG,
) (*container.Buffer, error) {
	buf := container.NewBuffer(container.AssetTypeMesh, "")

	root := buf.Allocate(meshRootSize)

	binary.LittleEndian.PutUint32(root.Bytes()[0:4], uint32(indexType))
	binary.LittleEndian.PutUint32(root.Bytes()[4:8], uint32(len(built.Submeshes)))
	binary.LittleEndian.PutUint32(root.Bytes()[8:12], uint32(len(layout.Attributes)))
	binary.LittleEndian.PutUint32(root.Bytes()[12:16], uint32(len(positions)))
	binary.LittleEndian.PutUint32(root.Bytes()[16:20], uint32(len(indices)))

	attrWP := buf.Write(encodeAttributes(layout.Attributes))
	container.PutRelativePointer(buf, root.Offset()+20, attrWP)

	submeshWP := buf.Write(encodeSubmeshes(built.Submeshes))
	container.PutRelativePointer(buf, root.Offset()+24, submeshWP)

	vertexBytes, err := encodeVertices(built, layout, tangents)
	if err != nil {
		return nil, err
	}
	vertexWP := buf.Write(vertexBytes)
	container.PutRelativePointer(buf, root.Offset()+28, vertexWP)

	indexBytes := encodeIndices(indices, indexType)
	indexWP := buf.Write(indexBytes)
	container.PutRelativePointer(buf, root.Offset()+32, indexWP)

	if len(dag.Levels) > 0 {
		meshletMeshWP := encodeMeshletMesh(buf, dag, built.Submeshes)
		container.PutRelativePointer(buf, root.Offset()+36, meshletMeshWP)
	}

	return buf, nil
}

// meshRootSize: indexType(4)+submeshCount(4)+attrCount(4)+vertexCount(4)
// +indexCount(4)+attrPtr(4)+submeshPtr(4)+vertexPtr(4)+indexPtr(4)
// +meshletMeshPtr(4) = 40 bytes.
const meshRootSize = 40

func encodeAttributes(attrs []AttributeDescriptor) []byte {
	out := make([]byte, len(attrs)*16)
	for i, a := range attrs {
		o := i * 16
		binary.LittleEndian.PutUint32(out[o:o+4], uint32(a.Semantic))
		binary.LittleEndian.PutUint32(out[o+4:o+8], uint32(a.Format))
		binary.LittleEndian.PutUint32(out[o+8:o+12], uint32(a.Stream))
		binary.LittleEndian.PutUint32(out[o+12:o+16], uint32(a.Offset))
	}
	return out
}

func encodeSubmeshes(subs []Submesh) []byte {
	const recSize = 32
	out := make([]byte, len(subs)*recSize)
	for i, s := range subs {
		o := i * recSize
		binary.LittleEndian.PutUint32(out[o:o+4], uint32(s.IndexOffset))
		binary.LittleEndian.PutUint32(out[o+4:o+8], uint32(s.IndexCount))
		putFloat32(out[o+8:o+12], s.Bounds.Min.X)
		putFloat32(out[o+12:o+16], s.Bounds.Min.Y)
		putFloat32(out[o+16:o+20], s.Bounds.Min.Z)
		putFloat32(out[o+20:o+24], s.Bounds.Max.X)
		putFloat32(out[o+24:o+28], s.Bounds.Max.Y)
		putFloat32(out[o+28:o+32], s.Bounds.Max.Z)
	}
	return out
}

func encodeVertices(built BuiltMesh, layout Layout, tangents []Vec4) ([]byte, error) {
	// Two streams are supported; stream sizes are concatenated with
	// stream 0 first, stream 1 (split positions, if any) as a contiguous
	// tail.
	vertexCount := len(built.Positions)
	stride0 := layout.Stride(0)
	stride1 := layout.Stride(1)
	out := make([]byte, vertexCount*(stride0+stride1))

	for v := 0; v < vertexCount; v++ {
		for _, a := range layout.Attributes {
			base := v*layout.Stride(a.Stream) + a.Offset
			if a.Stream == 1 {
				base += vertexCount * stride0
			}
			dst := out[base : base+a.Size()]
			switch a.Semantic {
			case SemanticPosition:
				writeComponents(dst, a.Format, built.Positions[v].X, built.Positions[v].Y, built.Positions[v].Z)
			case SemanticNormal:
				n := built.Normals[v]
				writeComponents(dst, a.Format, n.X, n.Y, n.Z)
			case SemanticTangent:
				if v < len(tangents) {
					tg := tangents[v]
					writeComponents(dst, a.Format, tg.X, tg.Y, tg.Z, tg.W)
				}
			case SemanticUV0:
				uv := built.Texcoords[v]
				writeComponents(dst, a.Format, uv.X, uv.Y)
			}
		}
	}
	return out, nil
}

func writeComponents(dst []byte, format Format, values ...float32) {
	switch format {
	case FormatFloat16:
		for i, v := range values {
			h := meshpack.PackHalf(v)
			binary.LittleEndian.PutUint16(dst[i*2:i*2+2], h)
		}
	default:
		for i, v := range values {
			putFloat32(dst[i*4:i*4+4], v)
		}
	}
}

func putFloat32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

func encodeIndices(indices []uint32, indexType IndexType) []byte {
	if indexType == IndexType16 {
		out := make([]byte, len(indices)*2)
		for i, idx := range indices {
			binary.LittleEndian.PutUint16(out[i*2:i*2+2], uint16(idx))
		}
		// Pad to 4 bytes for 16-bit form.
		if len(out)%4 != 0 {
			out = append(out, 0, 0)
		}
		return out
	}
	out := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], idx)
	}
	return out
}

func encodeMeshletMesh(buf *container.Buffer, dag meshlet.DAG, submeshes []Submesh) container.WritePointer {
	var allMeshlets []meshletRecordInputs
	triangleCount := 0
	vertexCount := 0
	for _, level := range dag.Levels {
		for _, m := range level {
			triangleCount += m.TriangleCount
			vertexCount += len(m.Vertices)
			allMeshlets = append(allMeshlets, meshletRecordInputs{m})
		}
	}

	root := buf.Allocate(meshletMeshRootSize)
	binary.LittleEndian.PutUint32(root.Bytes()[0:4], uint32(triangleCount))
	binary.LittleEndian.PutUint32(root.Bytes()[4:8], uint32(vertexCount))
	binary.LittleEndian.PutUint32(root.Bytes()[8:12], uint32(len(submeshes)))
	binary.LittleEndian.PutUint32(root.Bytes()[12:16], uint32(len(allMeshlets)))

	meshletsWP := buf.Write(encodeMeshlets(allMeshlets))
	container.PutRelativePointer(buf, root.Offset()+16, meshletsWP)

	var packedVerts []byte
	var packedTris []byte
	for _, m := range allMeshlets {
		for _, v := range m.m.Vertices {
			packedVerts = binary.LittleEndian.AppendUint32(packedVerts, v)
		}
		packedTris = append(packedTris, m.m.Triangles...)
	}
	vertsWP := buf.Write(packedVerts)
	container.PutRelativePointer(buf, root.Offset()+20, vertsWP)
	trisWP := buf.Write(packedTris)
	container.PutRelativePointer(buf, root.Offset()+24, trisWP)

	return root
}

// meshletMeshRootSize: triCount(4)+vertCount(4)+submeshCount(4)
// +meshletCount(4)+meshletsPtr(4)+vertsPtr(4)+trisPtr(4) = 28 bytes.
const meshletMeshRootSize = 28

type meshletRecordInputs struct{ m meshlet.Meshlet }

// meshletRecordSize: currentCenter(12)+currentError(4)+hasParent(4)
// +parentCenter(12)+parentError(4)+vertexOffset(4)+vertexCount(4)
// +triangleOffset(4)+triangleCount(4) = 52 bytes.
const meshletRecordSize = 52

func encodeMeshlets(ms []meshletRecordInputs) []byte {
	out := make([]byte, len(ms)*meshletRecordSize)
	vOff, tOff := 0, 0
	for i, mi := range ms {
		m := mi.m
		o := i * meshletRecordSize
		putFloat32(out[o:o+4], m.Current.Center.X)
		putFloat32(out[o+4:o+8], m.Current.Center.Y)
		putFloat32(out[o+8:o+12], m.Current.Center.Z)
		putFloat32(out[o+12:o+16], m.Current.Error)
		hasParent := uint32(0)
		if m.Parent.HasParent {
			hasParent = 1
		}
		binary.LittleEndian.PutUint32(out[o+16:o+20], hasParent)
		putFloat32(out[o+20:o+24], m.Parent.Center.X)
		putFloat32(out[o+24:o+28], m.Parent.Center.Y)
		putFloat32(out[o+28:o+32], m.Parent.Center.Z)
		putFloat32(out[o+32:o+36], m.Parent.Error)
		binary.LittleEndian.PutUint32(out[o+36:o+40], uint32(vOff))
		binary.LittleEndian.PutUint32(out[o+40:o+44], uint32(len(m.Vertices)))
		binary.LittleEndian.PutUint32(out[o+44:o+48], uint32(tOff))
		binary.LittleEndian.PutUint32(out[o+48:o+52], uint32(m.TriangleCount))
		vOff += len(m.Vertices)
		tOff += m.TriangleCount
	}
	return out
}
