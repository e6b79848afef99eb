package shaderpp

import (
	"math/bits"
	"sort"
	"strings"
)

// PushConstantField is one primitive field of a merged push-constant
// block, with the OR of every stage mask that declared it.
type PushConstantField struct {
	Name      string
	Format    string
	StageMask uint32
}

// ExtractPushConstants scans a single stage's source for `uniform T
// NAME;` lines or a `layout(push_constant) uniform { ... };` block,
// removes them, and returns the remaining source plus the discovered
// fields tagged with the given stage's bit.
func ExtractPushConstants(src string, stageBit uint32) (remaining string, fields []PushConstantField) {
	lines := strings.Split(src, "\n")
	var kept []string
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "layout(push_constant) uniform"):
			end := i
			for end < len(lines) && !strings.Contains(lines[end], "};") {
				end++
			}
			for _, bodyLine := range lines[i+1 : min(end, len(lines))] {
				if f, ok := parseField(bodyLine, stageBit); ok {
					fields = append(fields, f)
				}
			}
			i = end + 1
			continue
		case strings.HasPrefix(trimmed, "uniform ") && strings.HasSuffix(trimmed, ";"):
			if f, ok := parseField(strings.TrimPrefix(trimmed, "uniform "), stageBit); ok {
				fields = append(fields, f)
				i++
				continue
			}
			kept = append(kept, line)
		default:
			kept = append(kept, line)
		}
		i++
	}
	return strings.Join(kept, "\n"), fields
}

func parseField(line string, stageBit uint32) (PushConstantField, bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(line, ";")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return PushConstantField{}, false
	}
	format := fields[0]
	name := strings.TrimSuffix(fields[1], ";")
	if format == "" || name == "" {
		return PushConstantField{}, false
	}
	return PushConstantField{Name: name, Format: format, StageMask: stageBit}, true
}

// MergePushConstants merges per-stage field lists by name, OR-ing stage
// masks. A format mismatch for the same name is reported via mismatched
// but the first-seen format wins in the merged result (callers log the
// warning; the build does not fail).
func MergePushConstants(perStage [][]PushConstantField) (merged []PushConstantField, mismatched []string) {
	index := make(map[string]int)
	for _, fields := range perStage {
		for _, f := range fields {
			if idx, ok := index[f.Name]; ok {
				merged[idx].StageMask |= f.StageMask
				if merged[idx].Format != f.Format {
					mismatched = append(mismatched, f.Name)
				}
				continue
			}
			index[f.Name] = len(merged)
			merged = append(merged, f)
		}
	}
	return merged, mismatched
}

// SortPushConstants stable-sorts merged by descending popcount of
// StageMask, matching the persisted table's ordering rule.
func SortPushConstants(fields []PushConstantField) {
	sort.SliceStable(fields, func(i, j int) bool {
		return bits.OnesCount32(fields[i].StageMask) > bits.OnesCount32(fields[j].StageMask)
	})
}

// EmitPushConstantBlock renders the single merged push-constant block's
// GLSL text.
func EmitPushConstantBlock(fields []PushConstantField) string {
	var sb strings.Builder
	sb.WriteString("layout(push_constant) uniform pk_global_push_constant_block {\n")
	for _, f := range fields {
		sb.WriteString("    ")
		sb.WriteString(f.Format)
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		sb.WriteString(";\n")
	}
	sb.WriteString("};\n")
	return sb.String()
}
