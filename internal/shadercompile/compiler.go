// Package shadercompile orchestrates per-(variant, stage) SPIR-V
// compilation through an external compiler collaborator (a real binary
// wires this to glslang/shaderc via cgo) and pretty-prints compile
// diagnostics with source context.
package shadercompile

import (
	"fmt"
	"strings"
)

// Target is the fixed compile target this tool always requests.
const Target = "vulkan1.3-spirv1.6"

// Diagnostic is one compiler-reported issue, with the line range it
// applies to.
type Diagnostic struct {
	Message   string
	LineStart int
	LineEnd   int
	IsWarning bool
}

// Compiler is the external SPIR-V compiler collaborator.
type Compiler interface {
	// Compile returns SPIR-V bytecode for source, or a non-nil error
	// carrying Diagnostics when compilation fails.
	Compile(source string, optimize bool, debugInfo bool) ([]uint32, error)
}

// CompileError wraps a compile failure with its diagnostics so callers
// can render contextualized source excerpts.
type CompileError struct {
	Diagnostics []Diagnostic
	Err         error
}

func (e *CompileError) Error() string { return fmt.Sprintf("shadercompile: %v", e.Err) }
func (e *CompileError) Unwrap() error { return e.Err }

// VariantResult holds both SPIR-V forms produced for one (variant, stage)
// pair: the reflection module (auto-bind, unoptimized) and the release
// module (optimized, persisted to disk).
type VariantResult struct {
	Reflection []uint32
	Release    []uint32
}

// CompileVariant compiles source twice per §4.10: once targeting
// reflection (auto-bind uniforms, auto-map locations, no optimization)
// and once targeting release (performance-optimized, optional debug
// info). Both must succeed.
func CompileVariant(c Compiler, source string, debugInfo bool) (VariantResult, error) {
	reflection, err := c.Compile(source, false, false)
	if err != nil {
		return VariantResult{}, fmt.Errorf("shadercompile: reflection pass: %w", err)
	}
	release, err := c.Compile(source, true, debugInfo)
	if err != nil {
		return VariantResult{}, fmt.Errorf("shadercompile: release pass: %w", err)
	}
	return VariantResult{Reflection: reflection, Release: release}, nil
}

// FormatContext renders the ±5 lines of source surrounding a
// diagnostic's reported range, matching the compiler's line-pretty-print
// behavior. Terminal highlighting is omitted; callers that detect a TTY
// can post-process the returned lines.
func FormatContext(source string, d Diagnostic) string {
	lines := strings.Split(source, "\n")
	start := d.LineStart - 5
	if start < 0 {
		start = 0
	}
	end := d.LineEnd + 5
	if end > len(lines) {
		end = len(lines)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", d.Message)
	for i := start; i < end; i++ {
		marker := "  "
		if i+1 >= d.LineStart && i+1 <= d.LineEnd {
			marker = "> "
		}
		fmt.Fprintf(&sb, "%s%4d | %s\n", marker, i+1, lines[i])
	}
	return sb.String()
}
