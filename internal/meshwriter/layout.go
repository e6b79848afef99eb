package meshwriter

// Semantic tags a vertex attribute by purpose so a loader can bind shader
// inputs by name rather than by raw offset, per the original tool's
// attribute enumeration.
type Semantic uint32

const (
	SemanticPosition Semantic = iota
	SemanticNormal
	SemanticTangent
	SemanticUV0
	SemanticUV1
	SemanticColor
)

// Format tags a vertex attribute's on-disk component type.
type Format uint32

const (
	FormatFloat32 Format = iota
	FormatFloat16
)

// AttributeDescriptor describes one vertex attribute's stream, offset,
// component count and format.
type AttributeDescriptor struct {
	Semantic   Semantic
	Format     Format
	Components int
	Stream     int
	Offset     int
}

// Size returns the attribute's byte footprint given its format.
func (a AttributeDescriptor) Size() int {
	switch a.Format {
	case FormatFloat16:
		// Each converted attribute occupies ceil(components/2)*2 16-bit
		// slots to preserve 4-byte alignment.
		slots := (a.Components + 1) / 2 * 2
		return slots * 2
	default:
		return a.Components * 4
	}
}

// Layout is the ordered set of attributes a mesh's vertex buffer(s)
// carry, plus the per-stream stride.
type Layout struct {
	Attributes []AttributeDescriptor
}

// Stride returns the total byte stride of the given stream.
func (l Layout) Stride(stream int) int {
	total := 0
	for _, a := range l.Attributes {
		if a.Stream == stream {
			total += a.Size()
		}
	}
	return total
}

// BuildLayout chooses the vertex layout per §4.8.3: positions always at
// offset 0; normals, tangents, uvs appended when the source supplies
// them; tangents only when both normals and uvs exist.
func BuildLayout(hasNormals, hasUVs bool) Layout {
	var l Layout
	offset := 0
	add := func(sem Semantic, components int) {
		l.Attributes = append(l.Attributes, AttributeDescriptor{
			Semantic: sem, Format: FormatFloat32, Components: components, Stream: 0, Offset: offset,
		})
		offset += components * 4
	}
	add(SemanticPosition, 3)
	if hasNormals {
		add(SemanticNormal, 3)
	}
	hasTangents := hasNormals && hasUVs
	if hasTangents {
		add(SemanticTangent, 4)
	}
	if hasUVs {
		add(SemanticUV0, 2)
	}
	return l
}

// ApplyHalfPrecision rewrites the layout to move the named semantics to
// FormatFloat16, in the declared conversion order (normals, tangents,
// uvs); each conversion shifts subsequent attribute offsets by the
// resulting stride delta, preserving 4-byte alignment throughout.
func ApplyHalfPrecision(l Layout, normals, tangents, uvs bool) Layout {
	order := []Semantic{SemanticNormal, SemanticTangent, SemanticUV0}
	enabled := map[Semantic]bool{SemanticNormal: normals, SemanticTangent: tangents, SemanticUV0: uvs}

	out := make([]AttributeDescriptor, len(l.Attributes))
	copy(out, l.Attributes)

	for _, sem := range order {
		if !enabled[sem] {
			continue
		}
		idx := indexOfSemantic(out, sem)
		if idx < 0 {
			continue
		}
		before := out[idx].Size()
		out[idx].Format = FormatFloat16
		after := out[idx].Size()
		delta := after - before
		for j := range out {
			if out[j].Stream == out[idx].Stream && out[j].Offset > out[idx].Offset {
				out[j].Offset += delta
			}
		}
	}
	return Layout{Attributes: out}
}

func indexOfSemantic(attrs []AttributeDescriptor, sem Semantic) int {
	for i, a := range attrs {
		if a.Semantic == sem {
			return i
		}
	}
	return -1
}

// SplitPositionStream moves the position attribute to stream 1, leaving
// the remaining attributes packed at the start of stream 0 with offsets
// recomputed.
func SplitPositionStream(l Layout) Layout {
	var out []AttributeDescriptor
	offset0 := 0
	for _, a := range l.Attributes {
		if a.Semantic == SemanticPosition {
			a.Stream = 1
			a.Offset = 0
			out = append(out, a)
			continue
		}
		a.Stream = 0
		a.Offset = offset0
		offset0 += a.Size()
		out = append(out, a)
	}
	// Keep position first in the returned slice for readability; stream
	// assignment, not slice order, determines on-disk placement.
	return Layout{Attributes: out}
}
