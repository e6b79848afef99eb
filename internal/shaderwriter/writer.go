// Package shaderwriter ties the preprocessor, compiler and reflection
// stages together into a finished .pkshader container, the way
// meshwriter assembles meshpack and meshlet output into a .pkmesh.
package shaderwriter

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/konstatoivanen/pkassetc/internal/container"
	"github.com/konstatoivanen/pkassetc/internal/shadercompile"
	"github.com/konstatoivanen/pkassetc/internal/shaderpp"
	"github.com/konstatoivanen/pkassetc/internal/shaderreflect"
)

// Collaborators bundles the external pieces a Build call needs: the
// SPIR-V compiler and the optional descriptor-access oracle (nil treats
// every reflected binding as accessed).
type Collaborators struct {
	Compiler shadercompile.Compiler
	Oracle   shaderreflect.AccessOracle
	DebugInfo bool
}

// variantOutput is one compiled, reflected variant, keyed by its
// per-stage release SPIR-V and merged reflection data.
type variantOutput struct {
	stageWords  map[shaderpp.Stage][]uint32
	descriptors []shaderreflect.Descriptor
	pushConsts  []shaderreflect.MergedPushConstant
	vertexAttrs []shaderreflect.VertexAttribute
	groupSize   [3]uint32
}

// Build runs the full shader pipeline over already include-expanded
// source text and assembles the .pkshader container: fixed-state
// attributes, keyword table, material-property table, and one record
// per multi-compile variant holding per-stage SPIR-V plus reflection
// data.
func Build(src string, collab Collaborators) (*container.Buffer, error) {
	base := shaderpp.PreprocessBase(src)
	variantCount := base.MultiCompile.VariantCount
	if variantCount < 1 {
		variantCount = 1
	}

	variants := make([]variantOutput, 0, variantCount)
	for v := 0; v < variantCount; v++ {
		defines := shaderpp.ActiveDefines(base.MultiCompile, v)
		stageSources := shaderpp.AssembleVariant(base, defines)

		out := variantOutput{stageWords: make(map[shaderpp.Stage][]uint32)}
		writeSets := make(map[shaderreflect.Stage]map[uint32]bool)
		var rawDescs []shaderreflect.RawDescriptor

		for _, stage := range base.StageOrder {
			source, ok := stageSources[stage]
			if !ok {
				continue
			}
			result, err := shadercompile.CompileVariant(collab.Compiler, source, collab.DebugInfo)
			if err != nil {
				return nil, fmt.Errorf("shaderwriter: variant %d stage %d: %w", v, stage, err)
			}
			out.stageWords[stage] = result.Release

			mod, err := shaderreflect.ParseModule(result.Reflection)
			if err != nil {
				return nil, fmt.Errorf("shaderwriter: variant %d stage %d: reflect: %w", v, stage, err)
			}
			reflStage := shaderreflect.Stage(stage)

			writeSets[reflStage] = mergeWriteSets(mod)
			for _, dv := range mod.ResourceVariables() {
				rawDescs = append(rawDescs, shaderreflect.RawDescriptor{
					Name:       descriptorName(dv),
					Kind:       descriptorKind(dv),
					Set:        dv.Set,
					Binding:    dv.Binding,
					VariableID: dv.ResultID,
					Stage:      reflStage,
				})
			}

			if stage == shaderpp.StageCompute {
				if x, y, z, ok := mod.GroupSize(); ok {
					out.groupSize = [3]uint32{x, y, z}
				}
			}
			if stage == shaderpp.StageVertex {
				out.vertexAttrs = vertexAttributesFromNames(mod)
			}
		}

		out.descriptors = shaderreflect.MergeDescriptors(rawDescs, collab.Oracle, writeSets)
		_ = shaderreflect.CompactBindings(out.descriptors) // remap is not applied: descriptor records and SPIR-V keep the original set/binding numbers
		out.pushConsts = mergedPushConstantsFromPreprocess(base.PushConstants)
		variants = append(variants, out)
	}

	return assemble(base, variants)
}

// mergedPushConstantsFromPreprocess carries shaderpp's already-merged
// push-constant fields (resolved from the GLSL source during
// preprocessing, before compilation) into the reflection record shape,
// since the fields are identical across every multi-compile variant.
func mergedPushConstantsFromPreprocess(fields []shaderpp.PushConstantField) []shaderreflect.MergedPushConstant {
	out := make([]shaderreflect.MergedPushConstant, len(fields))
	for i, f := range fields {
		out[i] = shaderreflect.MergedPushConstant{Name: f.Name, TypeName: f.Format, StageMask: f.StageMask}
	}
	return out
}

func mergeWriteSets(mod *shaderreflect.Module) map[uint32]bool {
	merged := mod.ImageWriteVariables()
	for id, w := range mod.BufferWriteVariables() {
		if w {
			merged[id] = true
		}
	}
	return merged
}

func descriptorName(dv shaderreflect.DecoratedVariable) string {
	if dv.Name != "" {
		return dv.Name
	}
	return fmt.Sprintf("anon_%d", dv.ResultID)
}

func descriptorKind(dv shaderreflect.DecoratedVariable) shaderreflect.DescriptorKind {
	switch dv.StorageClass {
	case 12: // StorageBuffer
		return shaderreflect.DescriptorStorageBuffer
	case 2: // Uniform
		return shaderreflect.DescriptorUniformBuffer
	default: // UniformConstant: always reported as a sampled image; storage images are not told apart
		return shaderreflect.DescriptorSampledImage
	}
}

// vertexAttributesFromNames recovers vertex-stage input variables by
// name from the StorageClass-agnostic name table, capped per §4.11.
// Built-ins (names beginning "gl_") are skipped.
func vertexAttributesFromNames(mod *shaderreflect.Module) []shaderreflect.VertexAttribute {
	var attrs []shaderreflect.VertexAttribute
	location := uint32(0)
	for _, dv := range mod.ResourceVariables() {
		if dv.Name == "" || len(dv.Name) >= 3 && dv.Name[:3] == "gl_" {
			continue
		}
		if len(attrs) >= shaderreflect.MaxVertexAttributes {
			break
		}
		attrs = append(attrs, shaderreflect.VertexAttribute{Name: dv.Name, Location: location})
		location++
	}
	return attrs
}

// assemble writes the fixed-state, keyword table, material-property
// table, and variant table into a fresh container.Buffer.
func assemble(base shaderpp.Base, variants []variantOutput) (*container.Buffer, error) {
	buf := container.NewBuffer(container.AssetTypeShader, "")

	root := buf.Allocate(shaderRootSize)
	encodeFixedState(root.Bytes()[0:stateSize], base.State)

	keywordWP := buf.Write(encodeKeywords(base.MultiCompile.KeywordTable))
	container.PutRelativePointer(buf, root.Offset()+stateSize, keywordWP)
	binary.LittleEndian.PutUint32(root.Bytes()[stateSize+4:stateSize+8], uint32(len(base.MultiCompile.KeywordTable)))

	binary.LittleEndian.PutUint32(root.Bytes()[stateSize+8:stateSize+12], uint32(len(variants)))

	variantWPs := make([]container.WritePointer, 0, len(variants))
	for _, v := range variants {
		wp, err := encodeVariant(buf, v)
		if err != nil {
			return nil, err
		}
		variantWPs = append(variantWPs, wp)
	}

	// The variant table is an array of relative pointers, one per
	// variant, so variant records themselves need no fixed stride.
	table := buf.Allocate(len(variantWPs) * 4)
	for i, wp := range variantWPs {
		container.PutRelativePointer(buf, table.Offset()+i*4, wp)
	}
	container.PutRelativePointer(buf, root.Offset()+stateSize+12, table)

	return buf, nil
}

// shaderRootSize: fixedState(stateSize) + keywordTablePtr(4) +
// keywordCount(4) + variantCount(4) + variantTablePtr(4).
const shaderRootSize = stateSize + 16

// stateSize matches FixedState's encoded form: zwrite,ztest,blendColorSrc,
// blendColorDst,blendAlphaSrc,blendAlphaDst,colorMask,cull,offsetFactor,
// offsetUnits,rasterMode,overEstimation = 12 uint32-sized fields.
const stateSize = 12 * 4

func encodeFixedState(dst []byte, s shaderpp.FixedState) {
	zwrite := uint32(0)
	if s.ZWrite {
		zwrite = 1
	}
	over := uint32(0)
	if s.Overestimation {
		over = 1
	}
	fields := []uint32{
		zwrite, uint32(s.ZTest),
		uint32(s.BlendColorSrc), uint32(s.BlendColorDst),
		uint32(s.BlendAlphaSrc), uint32(s.BlendAlphaDst),
		uint32(s.ColorMask), uint32(s.Cull),
		math.Float32bits(s.OffsetFactor), math.Float32bits(s.OffsetUnits),
		uint32(s.Raster), over,
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], f)
	}
}

func encodeKeywords(kws []shaderpp.Keyword) []byte {
	const recSize = 8
	out := make([]byte, len(kws)*recSize)
	for i, k := range kws {
		o := i * recSize
		binary.LittleEndian.PutUint32(out[o:o+4], k.EncodedOffset)
		binary.LittleEndian.PutUint32(out[o+4:o+8], k.Hash)
	}
	return out
}

// encodeVariant writes one variant's per-stage SPIR-V blobs, descriptor
// sets, push constants and vertex attributes into buf, then writes and
// returns the write-pointer to the variant record that references them.
func encodeVariant(buf *container.Buffer, v variantOutput) (container.WritePointer, error) {
	rec := make([]byte, variantRecordSize)

	stageOrder := make([]int, 0, len(v.stageWords))
	for s := range v.stageWords {
		stageOrder = append(stageOrder, int(s))
	}
	sort.Ints(stageOrder)

	for _, s := range stageOrder {
		words := v.stageWords[shaderpp.Stage(s)]
		bytesOut := make([]byte, len(words)*4)
		for i, w := range words {
			binary.LittleEndian.PutUint32(bytesOut[i*4:i*4+4], w)
		}
		wp := buf.Write(bytesOut)
		slotOffset := s * stageSlotSize
		binary.LittleEndian.PutUint32(rec[slotOffset:slotOffset+4], uint32(len(bytesOut)))
		// Relative pointer field lives inside rec, but rec has not been
		// written into buf yet; defer pointer resolution by writing rec
		// itself after all blobs, then patch offsets relative to its
		// final placement. Two-pass: first record blob offsets, patch once
		// rec is allocated.
		binary.LittleEndian.PutUint32(rec[slotOffset+4:slotOffset+8], uint32(wp.Offset()))
	}

	binary.LittleEndian.PutUint32(rec[stagesSize:stagesSize+4], v.groupSize[0])
	binary.LittleEndian.PutUint32(rec[stagesSize+4:stagesSize+8], v.groupSize[1])
	binary.LittleEndian.PutUint32(rec[stagesSize+8:stagesSize+12], v.groupSize[2])

	descBytes := encodeDescriptors(v.descriptors)
	descWP := buf.Write(descBytes)
	binary.LittleEndian.PutUint32(rec[stagesSize+12:stagesSize+16], uint32(len(v.descriptors)))

	pcBytes := encodePushConstants(v.pushConsts)
	pcWP := buf.Write(pcBytes)
	binary.LittleEndian.PutUint32(rec[stagesSize+20:stagesSize+24], uint32(len(v.pushConsts)))

	vaBytes := encodeVertexAttrs(v.vertexAttrs)
	vaWP := buf.Write(vaBytes)
	binary.LittleEndian.PutUint32(rec[stagesSize+28:stagesSize+32], uint32(len(v.vertexAttrs)))

	// Allocate the record itself now that its blob offsets are known, then
	// convert every absolute offset recorded above into a proper relative
	// pointer anchored at the record's final field addresses.
	recWP := buf.Write(rec)
	for _, s := range stageOrder {
		slotOffset := s * stageSlotSize
		target := binary.LittleEndian.Uint32(rec[slotOffset+4 : slotOffset+8])
		fieldOffset := recWP.Offset() + slotOffset + 4
		patchRelative(buf, fieldOffset, int(target))
	}
	patchRelative(buf, recWP.Offset()+stagesSize+16, descWP.Offset())
	patchRelative(buf, recWP.Offset()+stagesSize+24, pcWP.Offset())
	patchRelative(buf, recWP.Offset()+stagesSize+32, vaWP.Offset())

	return recWP, nil
}

// patchRelative stores target_offset - field_offset as the persisted
// relative pointer at fieldOffset, matching container.PutRelativePointer
// but accepting a raw target offset instead of a WritePointer (needed
// here because the target was written before the record that contains
// the field existed).
func patchRelative(buf *container.Buffer, fieldOffset, target int) {
	rel := int32(target - fieldOffset)
	binary.LittleEndian.PutUint32(buf.Bytes()[fieldOffset:fieldOffset+4], uint32(rel))
}

// stageSlotSize: spirvSize(4)+spirvPtr(4) per stage.
const stageSlotSize = 8

// stagesSize reserves one slot per fixed stage ordinal.
const stagesSize = 13 * stageSlotSize

// variantRecordSize: 13 stage slots + groupSize(12) + descCount(4)
// +descPtr(4, padded by patch)+pcCount(4)+pcPtr(4)+vaCount(4)+vaPtr(4).
const variantRecordSize = stagesSize + 12 + 4 + 4 + 4 + 4 + 4 + 4

func encodeDescriptors(descs []shaderreflect.Descriptor) []byte {
	const recSize = 24
	out := make([]byte, len(descs)*recSize)
	for i, d := range descs {
		o := i * recSize
		binary.LittleEndian.PutUint32(out[o:o+4], uint32(d.Kind))
		binary.LittleEndian.PutUint32(out[o+4:o+8], d.Set)
		binary.LittleEndian.PutUint32(out[o+8:o+12], d.Binding)
		binary.LittleEndian.PutUint32(out[o+12:o+16], uint32(d.Count))
		binary.LittleEndian.PutUint32(out[o+16:o+20], d.StageMask)
		write := uint32(0)
		if d.Write {
			write = 1
		}
		binary.LittleEndian.PutUint32(out[o+20:o+24], write)
	}
	return out
}

func encodePushConstants(fields []shaderreflect.MergedPushConstant) []byte {
	const recSize = 4
	out := make([]byte, len(fields)*recSize)
	for i, f := range fields {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], f.StageMask)
	}
	return out
}

func encodeVertexAttrs(attrs []shaderreflect.VertexAttribute) []byte {
	const recSize = 4
	out := make([]byte, len(attrs)*recSize)
	for i, a := range attrs {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], a.Location)
	}
	return out
}
