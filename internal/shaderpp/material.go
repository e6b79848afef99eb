package shaderpp

import (
	"bufio"
	"strings"
)

// MaterialProperty is one `#pk_material_prop T NAME` declaration.
type MaterialProperty struct {
	Type string
	Name string
}

// std140Align returns a property type's std140 alignment and size in
// bytes, per the layout rules PKShaderInstancing.cpp packs against:
// scalars/vec2 align to their own size (4/8), vec3/vec4/mat* align to 16.
func std140Align(glslType string) (align, size int) {
	switch glslType {
	case "float", "int", "uint", "bool":
		return 4, 4
	case "vec2", "ivec2", "uvec2":
		return 8, 8
	case "vec3", "ivec3", "uvec3":
		return 16, 12
	case "vec4", "ivec4", "uvec4":
		return 16, 16
	case "mat3":
		return 16, 48
	case "mat4":
		return 16, 64
	default:
		return 16, 16
	}
}

// PackMaterialProperties assigns std140-compatible byte offsets to props
// in declaration order, returning each property's offset alongside it.
type PackedProperty struct {
	MaterialProperty
	Offset int
}

func PackMaterialProperties(props []MaterialProperty) (packed []PackedProperty, blockSize int) {
	offset := 0
	for _, p := range props {
		align, size := std140Align(p.Type)
		if rem := offset % align; rem != 0 {
			offset += align - rem
		}
		packed = append(packed, PackedProperty{MaterialProperty: p, Offset: offset})
		offset += size
	}
	if rem := offset % 16; rem != 0 {
		offset += 16 - rem
	}
	return packed, offset
}

// ExtractMaterialProperties scans src for `#pk_material_prop T NAME`
// lines, removing them and returning the declared properties in source
// order.
func ExtractMaterialProperties(src string) (remaining string, props []MaterialProperty) {
	var kept []string
	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#pk_material_prop ") {
			fields := strings.Fields(strings.TrimPrefix(trimmed, "#pk_material_prop "))
			if len(fields) >= 2 {
				props = append(props, MaterialProperty{Type: fields[0], Name: fields[1]})
				continue
			}
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), props
}

// EmitMaterialBlock renders the PK_MaterialPropertyBlock GLSL struct for
// the packed properties.
func EmitMaterialBlock(packed []PackedProperty) string {
	var sb strings.Builder
	sb.WriteString("struct PK_MaterialPropertyBlock {\n")
	for _, p := range packed {
		sb.WriteString("    ")
		sb.WriteString(p.Type)
		sb.WriteByte(' ')
		sb.WriteString(p.Name)
		sb.WriteString(";\n")
	}
	sb.WriteString("};\n")
	return sb.String()
}

// instancingBlock is the minimal standalone instancing declaration
// injected when no material properties exist but #pk_instancing is
// present.
const instancingBlock = "layout(std430, set = 0, binding = 0) readonly buffer pk_InstanceMatrices { mat4 data[]; } pk_Instancing;\n"

// InjectMaterialOrInstancing returns the GLSL text to prepend at source
// start: the material block + bindless texture arrays when props is
// non-empty, otherwise the minimal instancing block when instancingOnly
// is true, otherwise nothing.
func InjectMaterialOrInstancing(props []MaterialProperty, instancingOnly bool) string {
	if len(props) > 0 {
		packed, _ := PackMaterialProperties(props)
		return EmitMaterialBlock(packed) +
			"layout(set = 0, binding = 1) uniform texture2D pk_BindlessTextures[];\n" +
			"layout(set = 0, binding = 2) uniform sampler pk_BindlessSamplers[];\n"
	}
	if instancingOnly {
		return instancingBlock
	}
	return ""
}
