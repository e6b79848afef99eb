// Package shaderpp implements the GLSL/HLSL-dialect shader preprocessor:
// multi-compile variant expansion, fixed-state attribute parsing,
// material/instancing injection, HLSL->GLSL type rewriting, stage
// splitting, and push-constant extraction/merging.
package shaderpp

import (
	"bufio"
	"hash/fnv"
	"strings"
)

// Keyword is one non-"_" token of a #multi_compile directive, with its
// encoded variant-table offset and a diagnostic hash.
type Keyword struct {
	Name          string
	DirectiveIdx  int
	LocalIdx      int
	Stride        int
	EncodedOffset uint32
	Hash          uint32
}

// Directive is one #multi_compile line's keyword list.
type Directive struct {
	Keywords []string
}

// MultiCompileResult is the outcome of scanning a source for
// #multi_compile directives.
type MultiCompileResult struct {
	Directives  []Directive
	KeywordTable []Keyword
	VariantCount int
}

// encodeOffset packs (directive_index<<28)|(local_index<<24)|stride, the
// layout a runtime variant lookup decodes to find a keyword's bit in the
// combined variant index.
func encodeOffset(directiveIdx, localIdx, stride int) uint32 {
	return uint32(directiveIdx)<<28 | uint32(localIdx)<<24 | uint32(stride)
}

func fnv1a(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// ExtractMultiCompile scans src line by line for `#multi_compile A B C
// ...` directives. The variant count is the product of each directive's
// keyword count. Every non-"_" keyword is emitted into the keyword table
// with an encoded offset whose stride is the product of all earlier
// directives' sizes.
func ExtractMultiCompile(src string) (remaining string, result MultiCompileResult) {
	var kept []string
	stride := 1
	result.VariantCount = 1

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#multi_compile ") {
			kept = append(kept, line)
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(trimmed, "#multi_compile "))
		if len(fields) < 2 {
			kept = append(kept, line)
			continue
		}
		directiveIdx := len(result.Directives)
		result.Directives = append(result.Directives, Directive{Keywords: fields})
		for local, kw := range fields {
			if kw == "_" {
				continue
			}
			enc := encodeOffset(directiveIdx, local, stride)
			result.KeywordTable = append(result.KeywordTable, Keyword{
				Name:          kw,
				DirectiveIdx:  directiveIdx,
				LocalIdx:      local,
				Stride:        stride,
				EncodedOffset: enc,
				Hash:          fnv1a(kw),
			})
		}
		result.VariantCount *= len(fields)
		stride *= len(fields)
	}
	return strings.Join(kept, "\n"), result
}
