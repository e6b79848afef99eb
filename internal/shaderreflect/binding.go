package shaderreflect

import "sort"

// AccessOracle answers whether a reflected binding is actually accessed
// by the module. This legitimately depends on a reflection library's
// usage analysis, unlike the write-detection walks in spirv.go, so it is the
// one seam left as a collaborator interface.
type AccessOracle interface {
	Accessed(stage Stage, set, binding uint32) bool
}

// Stage identifies which compiled variant a descriptor was reflected
// from, for per-stage merging.
type Stage uint32

// DescriptorKind distinguishes the write-detection rule applied to a
// binding.
type DescriptorKind int

const (
	DescriptorSampledImage DescriptorKind = iota
	DescriptorStorageImage
	DescriptorUniformBuffer
	DescriptorStorageBuffer
)

// RawDescriptor is one binding as reflected from a single stage's
// module, before cross-stage merging.
type RawDescriptor struct {
	Name       string
	Kind       DescriptorKind
	Set        uint32
	Binding    uint32
	VariableID uint32
	Stage      Stage
}

// Descriptor is a descriptor merged across every stage that references
// it by name.
type Descriptor struct {
	Name         string
	Kind         DescriptorKind
	Set          uint32
	Binding      uint32
	FirstStage   Stage
	StageMask    uint32
	Count        int
	Write        bool
	PerStageBind map[Stage]uint32
}

// MergeDescriptors folds per-stage RawDescriptor lists into one list per
// unique name, keeping only bindings the oracle reports as accessed and
// tracking which stages write to each (via the image/buffer write sets
// computed per-module).
func MergeDescriptors(raws []RawDescriptor, oracle AccessOracle, writeSets map[Stage]map[uint32]bool) []Descriptor {
	order := make([]string, 0)
	byName := make(map[string]*Descriptor)

	for _, r := range raws {
		if oracle != nil && !oracle.Accessed(r.Stage, r.Set, r.Binding) {
			continue
		}
		d, ok := byName[r.Name]
		if !ok {
			d = &Descriptor{
				Name:         r.Name,
				Kind:         r.Kind,
				Set:          r.Set,
				Binding:      r.Binding,
				FirstStage:   r.Stage,
				PerStageBind: make(map[Stage]uint32),
			}
			byName[r.Name] = d
			order = append(order, r.Name)
		}
		d.Count++
		d.StageMask |= uint32(1) << uint(r.Stage)
		d.PerStageBind[r.Stage] = r.Binding
		if r.Binding > d.Binding {
			d.Binding = r.Binding
		}
		if ws, ok := writeSets[r.Stage]; ok && ws[r.VariableID] {
			d.Write = true
		}
	}

	out := make([]Descriptor, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// VertexAttribute is one vertex-stage input, enumerated only from the
// vertex stage and excluding built-ins.
type VertexAttribute struct {
	Name     string
	Location uint32
	Format   string
}

// MaxVertexAttributes caps the enumerated attribute count per §4.11.
const MaxVertexAttributes = 16

// CompactBindings computes a dense renumbering: sets in first-seen order
// and, within each set, bindings by ascending original binding number,
// giving a 0..N-1 layout regardless of gaps left by per-stage
// auto-binding. It returns the new (set, binding) per descriptor name and
// does not modify descs or any module.
func CompactBindings(descs []Descriptor) map[string]struct{ Set, Binding uint32 } {
	setOrder := make([]uint32, 0)
	seenSet := make(map[uint32]bool)
	bySet := make(map[uint32][]Descriptor)

	for _, d := range descs {
		if !seenSet[d.Set] {
			seenSet[d.Set] = true
			setOrder = append(setOrder, d.Set)
		}
		bySet[d.Set] = append(bySet[d.Set], d)
	}

	remap := make(map[string]struct{ Set, Binding uint32 })
	for newSet, origSet := range setOrder {
		members := bySet[origSet]
		sort.SliceStable(members, func(i, j int) bool { return members[i].Binding < members[j].Binding })
		for newBinding, d := range members {
			remap[d.Name] = struct{ Set, Binding uint32 }{Set: uint32(newSet), Binding: uint32(newBinding)}
		}
	}
	return remap
}

// MergePushConstantsByType folds reflected push-constant members across
// stages by type name, OR-ing the stage mask for members that appear in
// more than one stage's block.
func MergePushConstantsByType(perStage map[Stage][]RawPushConstant) []MergedPushConstant {
	order := make([]string, 0)
	byType := make(map[string]*MergedPushConstant)

	stages := make([]Stage, 0, len(perStage))
	for s := range perStage {
		stages = append(stages, s)
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i] < stages[j] })

	for _, stage := range stages {
		for _, m := range perStage[stage] {
			d, ok := byType[m.TypeName]
			if !ok {
				d = &MergedPushConstant{Name: m.Name, TypeName: m.TypeName}
				byType[m.TypeName] = d
				order = append(order, m.TypeName)
			}
			d.StageMask |= uint32(1) << uint(stage)
		}
	}

	out := make([]MergedPushConstant, 0, len(order))
	for _, t := range order {
		out = append(out, *byType[t])
	}
	return out
}

// RawPushConstant is one push-constant member as reflected from a
// single stage's module.
type RawPushConstant struct {
	Name     string
	TypeName string
}

// MergedPushConstant is a push-constant member merged by type name
// across stages.
type MergedPushConstant struct {
	Name      string
	TypeName  string
	StageMask uint32
}
