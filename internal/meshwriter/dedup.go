package meshwriter

import "github.com/konstatoivanen/pkassetc/internal/meshpack"

// vertexKey is the dedup key for one shape's (position, normal,
// texcoord) index triple.
type vertexKey struct{ p, n, t int }

// Submesh is one shape's index range plus its local bounds.
type Submesh struct {
	Name         string
	IndexOffset  int
	IndexCount   int
	Bounds       meshpack.Bounds
}

// BuiltMesh is the deduplicated vertex/index stream assembled from an
// ObjMesh, ready for optimization and layout packing.
type BuiltMesh struct {
	Positions []meshpack.Vec3
	Normals   []meshpack.Vec3
	Texcoords []meshpack.Vec2
	HasNormals, HasUVs bool
	Indices   []uint32
	Submeshes []Submesh
	Bounds    meshpack.Bounds
}

// Dedup iterates every shape's indexed triangles, deduplicating vertices
// by the (position_idx, normal_idx, texcoord_idx) tuple, and accumulates
// per-submesh and mesh-wide bounds.
func Dedup(obj *ObjMesh) BuiltMesh {
	hasNormals := len(obj.Normals) > 0
	hasUVs := len(obj.Texcoords) > 0

	built := BuiltMesh{HasNormals: hasNormals, HasUVs: hasUVs}
	keyToIndex := make(map[vertexKey]uint32)

	emit := func(p, n, t int) uint32 {
		k := vertexKey{p, n, t}
		if idx, ok := keyToIndex[k]; ok {
			return idx
		}
		idx := uint32(len(built.Positions))
		built.Positions = append(built.Positions, obj.Positions[p])
		if hasNormals {
			nv := meshpack.Vec3{}
			if n >= 0 {
				nv = obj.Normals[n]
			}
			built.Normals = append(built.Normals, nv)
		}
		if hasUVs {
			tv := meshpack.Vec2{}
			if t >= 0 {
				tv = obj.Texcoords[t]
			}
			built.Texcoords = append(built.Texcoords, tv)
		}
		keyToIndex[k] = idx
		return idx
	}

	for _, shape := range obj.Shapes {
		indexOffset := len(built.Indices)
		var subIndices []uint32
		for _, face := range shape.Faces {
			for c := 0; c < 3; c++ {
				n := -1
				if hasNormals {
					n = face.NormalIdx[c]
				}
				t := -1
				if hasUVs {
					t = face.TexcoordIdx[c]
				}
				idx := emit(face.PositionIdx[c], n, t)
				built.Indices = append(built.Indices, idx)
				subIndices = append(subIndices, idx)
			}
		}
		bounds := meshpack.ComputeBounds(built.Positions, subIndices)
		built.Submeshes = append(built.Submeshes, Submesh{
			Name:        shape.Name,
			IndexOffset: indexOffset,
			IndexCount:  len(built.Indices) - indexOffset,
			Bounds:      bounds,
		})
	}

	built.Bounds = meshpack.ComputeBounds(built.Positions, built.Indices)
	return built
}
