package shaderpp

import (
	"regexp"
	"strings"
)

// Base is the outcome of every preprocessing step up to, but not
// including, per-variant assembly: stage bodies are cleaned (descriptor
// set qualifiers stripped, numthreads converted, printf converted, push
// constants extracted) but do not yet carry a #version/#define header,
// since that header depends on which multi-compile variant is being
// assembled.
type Base struct {
	MultiCompile      MultiCompileResult
	State             FixedState
	PushConstants     []PushConstantField
	Mismatched        []string
	PushConstantBlock string
	Prelude           string
	StageBodies       map[Stage]string
	StageOrder        []Stage
}

// PreprocessBase runs multi-compile extraction, fixed-state parsing,
// material/instancing injection, HLSL->GLSL rewriting, stage splitting,
// and per-stage cleanup/push-constant extraction over already
// include-expanded source text.
func PreprocessBase(src string) Base {
	src, mc := ExtractMultiCompile(src)
	src, state := ParseFixedState(src)
	src, props := ExtractMaterialProperties(src)

	hasInstancing := strings.Contains(src, "#pk_instancing")
	injected := InjectMaterialOrInstancing(props, hasInstancing)

	if strings.Contains(src, "#pk_atomicCounter") {
		injected += atomicCounterBlock
		src = strings.ReplaceAll(src, "#pk_atomicCounter", "")
	}

	src = injected + src
	src = RewriteHLSL(src)

	split, _ := SplitStages(src)

	var perStageFields [][]PushConstantField
	stageBodies := make(map[Stage]string)
	for _, stage := range split.Order {
		body := split.Stages[stage]
		body = stripDescriptorSetQualifiers(body)
		body = convertNumThreads(body)
		body = convertPrintf(body)

		bit := uint32(1) << uint(stage)
		remaining, fields := ExtractPushConstants(body, bit)
		perStageFields = append(perStageFields, fields)
		stageBodies[stage] = remaining
	}

	merged, mismatched := MergePushConstants(perStageFields)
	SortPushConstants(merged)

	return Base{
		MultiCompile:      mc,
		State:             state,
		PushConstants:     merged,
		Mismatched:        mismatched,
		PushConstantBlock: EmitPushConstantBlock(merged),
		Prelude:           split.Prelude,
		StageBodies:       stageBodies,
		StageOrder:        split.Order,
	}
}

// AssembleVariant renders one concrete variant's per-stage sources: each
// non-empty stage gets the shared prelude, required extensions, stage
// define, the given variant's active keyword defines, and finally the
// merged push-constant block inserted after the version pragma.
func AssembleVariant(base Base, variantDefines []string) map[Stage]string {
	out := make(map[Stage]string, len(base.StageOrder))
	for _, stage := range base.StageOrder {
		body := base.StageBodies[stage]
		if strings.TrimSpace(body) == "" {
			continue
		}
		assembled := AssembleStage(base.Prelude, body, stage, stageDefine(stage), variantDefines)
		out[stage] = insertAfterVersion(assembled, base.PushConstantBlock)
	}
	return out
}

// ActiveDefines returns the keyword names active for variant index v,
// i.e. those whose directive-local index matches (v / stride) % size
// for the keyword's own multi-compile directive.
func ActiveDefines(mc MultiCompileResult, variant int) []string {
	var defs []string
	for _, kw := range mc.KeywordTable {
		size := len(mc.Directives[kw.DirectiveIdx].Keywords)
		if size == 0 {
			continue
		}
		if (variant/kw.Stride)%size == kw.LocalIdx {
			defs = append(defs, kw.Name)
		}
	}
	return defs
}

// Result is the output of Preprocess: the resolved fixed-state, keyword
// table, merged push constants, and one final assembled source string
// per stage actually present in the input, with every multi-compile
// keyword defined (a superset of every variant's defines rather than any
// one real variant; useful for a single
// non-variant-aware caller; shaderwriter calls PreprocessBase/
// AssembleVariant directly to render one source per real variant).
type Result struct {
	MultiCompile  MultiCompileResult
	State         FixedState
	PushConstants []PushConstantField
	Mismatched    []string
	StageSources  map[Stage]string
	StageOrder    []Stage
}

// Preprocess runs the full pipeline and assembles a single representative
// source per stage with every keyword defined.
func Preprocess(src string) Result {
	base := PreprocessBase(src)
	allDefines := multiCompileDefines(base.MultiCompile)
	return Result{
		MultiCompile:  base.MultiCompile,
		State:         base.State,
		PushConstants: base.PushConstants,
		Mismatched:    base.Mismatched,
		StageSources:  AssembleVariant(base, allDefines),
		StageOrder:    base.StageOrder,
	}
}

const atomicCounterBlock = "layout(binding = 15) buffer pk_AtomicCounterBlock { uint pk_AtomicCounter; };\nuint pk_AtomicCounterIncrement() { return atomicAdd(pk_AtomicCounter, 1u); }\n"

func stageDefine(s Stage) string {
	names := [...]string{
		"SHADER_STAGE_VERTEX", "SHADER_STAGE_FRAGMENT", "SHADER_STAGE_GEOMETRY",
		"SHADER_STAGE_TESC", "SHADER_STAGE_TESE", "SHADER_STAGE_COMPUTE",
		"SHADER_STAGE_MESH", "SHADER_STAGE_AMPLIFICATION",
		"SHADER_STAGE_RAY_GENERATION", "SHADER_STAGE_RAY_INTERSECTION",
		"SHADER_STAGE_RAY_ANY_HIT", "SHADER_STAGE_RAY_CLOSEST_HIT", "SHADER_STAGE_RAY_MISS",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "SHADER_STAGE_UNKNOWN"
}

func multiCompileDefines(mc MultiCompileResult) []string {
	var defs []string
	for _, kw := range mc.KeywordTable {
		defs = append(defs, kw.Name)
	}
	return defs
}

// stripDescriptorSetQualifiers removes user-declared `set = N` layout
// qualifiers so the compiler auto-binds resources, leaving `binding`
// qualifiers intact.
func stripDescriptorSetQualifiers(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "layout(") || !strings.Contains(line, "set") {
			continue
		}
		lines[i] = removeSetQualifier(line)
	}
	return strings.Join(lines, "\n")
}

var (
	setQualifierRe  = regexp.MustCompile(`\bset\s*=\s*\d+\s*(,\s*)?`)
	danglingCommaRe = regexp.MustCompile(`,\s*\)`)
)

func removeSetQualifier(line string) string {
	// Remove "set = N" (with flexible spacing) and a trailing comma if
	// the qualifier list continues; a comma left before ")" is dropped.
	cleaned := setQualifierRe.ReplaceAllString(line, "")
	if cleaned == line {
		return line
	}
	return danglingCommaRe.ReplaceAllString(cleaned, ")")
}

// convertNumThreads rewrites `[pk_numthreads(x,y,z)]` into the GLSL
// compute local-size layout declaration.
func convertNumThreads(src string) string {
	const prefix = "[pk_numthreads("
	for {
		idx := strings.Index(src, prefix)
		if idx < 0 {
			break
		}
		end := strings.Index(src[idx:], ")]")
		if end < 0 {
			break
		}
		end += idx
		args := src[idx+len(prefix) : end]
		parts := strings.Split(args, ",")
		if len(parts) != 3 {
			break
		}
		replacement := "layout(local_size_x=" + strings.TrimSpace(parts[0]) +
			",local_size_y=" + strings.TrimSpace(parts[1]) +
			",local_size_z=" + strings.TrimSpace(parts[2]) + ") in;"
		src = src[:idx] + replacement + src[end+2:]
	}
	return src
}

// convertPrintf rewrites `printf(...)` calls into `debugPrintfEXT(...)`.
func convertPrintf(src string) string {
	if !strings.Contains(src, "printf(") {
		return src
	}
	rewritten := strings.ReplaceAll(src, "printf(", "debugPrintfEXT(")
	return "#extension GL_EXT_debug_printf : enable\n" + rewritten
}

func insertAfterVersion(src, block string) string {
	idx := strings.Index(src, "\n")
	if idx < 0 {
		return src + "\n" + block
	}
	return src[:idx+1] + block + src[idx+1:]
}
