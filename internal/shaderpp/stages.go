package shaderpp

import "strings"

// Stage is a shader pipeline stage, in the fixed slot ordering the
// variant record's per-stage arrays are indexed by.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageGeometry
	StageTessControl
	StageTessEvaluation
	StageCompute
	StageMesh
	StageAmplification
	StageRayGeneration
	StageRayIntersection
	StageRayAnyHit
	StageRayClosestHit
	StageRayMiss
	stageCount
)

var stagePragma = map[string]Stage{
	"PROGRAM_VERTEX":        StageVertex,
	"PROGRAM_FRAGMENT":      StageFragment,
	"PROGRAM_GEOMETRY":      StageGeometry,
	"PROGRAM_TESC":          StageTessControl,
	"PROGRAM_TESE":          StageTessEvaluation,
	"PROGRAM_COMPUTE":       StageCompute,
	"PROGRAM_MESH":          StageMesh,
	"PROGRAM_AMPLIFICATION": StageAmplification,
	"PROGRAM_RAY_GENERATION": StageRayGeneration,
	"PROGRAM_RAY_INTERSECTION": StageRayIntersection,
	"PROGRAM_RAY_ANY_HIT":   StageRayAnyHit,
	"PROGRAM_RAY_CLOSEST_HIT": StageRayClosestHit,
	"PROGRAM_RAY_MISS":      StageRayMiss,
}

// StageCount is the fixed number of stage slots every variant record
// reserves, regardless of how many the source actually defines.
const StageCount = int(stageCount)

// SplitResult is the shared prelude plus one source blob per stage that
// appeared in the source, in source-appearance order.
type SplitResult struct {
	Prelude string
	Stages  map[Stage]string
	Order   []Stage
}

// SplitStages cuts src at each `#pragma PROGRAM_X` line. Text before the
// first such pragma is the shared prelude, prepended verbatim to every
// stage's source during assembly.
func SplitStages(src string) (SplitResult, error) {
	lines := strings.Split(src, "\n")
	result := SplitResult{Stages: make(map[Stage]string)}

	firstPragma := -1
	for i, line := range lines {
		if isProgramPragma(line) {
			firstPragma = i
			break
		}
	}
	if firstPragma < 0 {
		result.Prelude = src
		return result, nil
	}
	result.Prelude = strings.Join(lines[:firstPragma], "\n")

	var current Stage
	var body []string
	haveCurrent := false
	flush := func() {
		if haveCurrent {
			if _, exists := result.Stages[current]; !exists {
				result.Order = append(result.Order, current)
			}
			result.Stages[current] += strings.Join(body, "\n")
		}
		body = nil
	}
	for _, line := range lines[firstPragma:] {
		if isProgramPragma(line) {
			flush()
			name := pragmaName(line)
			stage, ok := stagePragma[name]
			if !ok {
				haveCurrent = false
				continue
			}
			current = stage
			haveCurrent = true
			continue
		}
		if haveCurrent {
			body = append(body, line)
		}
	}
	flush()
	return result, nil
}

func isProgramPragma(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "#pragma PROGRAM_")
}

func pragmaName(line string) string {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "#pragma ")
	return strings.TrimSpace(t)
}

// requiredExtensions returns the GLSL #extension lines a stage needs:
// common extensions always, plus mesh-shading or ray-tracing extensions
// when the stage requires them.
func requiredExtensions(stage Stage) []string {
	ext := []string{
		"#extension GL_GOOGLE_include_directive : require",
		"#extension GL_EXT_samplerless_texture_functions : require",
	}
	switch stage {
	case StageMesh, StageAmplification:
		ext = append(ext, "#extension GL_EXT_mesh_shader : require")
	case StageRayGeneration, StageRayIntersection, StageRayAnyHit, StageRayClosestHit, StageRayMiss:
		ext = append(ext, "#extension GL_EXT_ray_tracing : require")
	}
	return ext
}

// AssembleStage builds one stage's final source: the version pragma,
// required extensions, the stage #define, the variant #define block, the
// shared prelude, then the stage's own body.
func AssembleStage(prelude, body string, stage Stage, stageDefine string, variantDefines []string) string {
	var sb strings.Builder
	sb.WriteString("#version 460\n")
	for _, e := range requiredExtensions(stage) {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	sb.WriteString("#define ")
	sb.WriteString(stageDefine)
	sb.WriteByte('\n')
	for _, d := range variantDefines {
		sb.WriteString("#define ")
		sb.WriteString(d)
		sb.WriteByte('\n')
	}
	sb.WriteString(prelude)
	sb.WriteByte('\n')
	sb.WriteString(body)
	return sb.String()
}
