package shadercompile

import (
	"errors"
	"strings"
	"testing"
)

type fakeCompiler struct {
	failOptimized bool
}

func (f fakeCompiler) Compile(source string, optimize, debugInfo bool) ([]uint32, error) {
	if optimize && f.failOptimized {
		return nil, errors.New("boom")
	}
	return []uint32{1, 2, 3}, nil
}

func TestCompileVariantBothPasses(t *testing.T) {
	res, err := CompileVariant(fakeCompiler{}, "void main() {}", false)
	if err != nil {
		t.Fatalf("CompileVariant: %v", err)
	}
	if len(res.Reflection) == 0 || len(res.Release) == 0 {
		t.Fatal("expected both reflection and release modules populated")
	}
}

func TestCompileVariantPropagatesFailure(t *testing.T) {
	_, err := CompileVariant(fakeCompiler{failOptimized: true}, "void main() {}", false)
	if err == nil {
		t.Fatal("expected error when release pass fails")
	}
}

func TestFormatContextWindow(t *testing.T) {
	src := strings.Repeat("line\n", 20)
	out := FormatContext(src, Diagnostic{Message: "bad", LineStart: 10, LineEnd: 10})
	if !strings.Contains(out, "bad") {
		t.Fatal("expected message present")
	}
	if !strings.Contains(out, "> ") {
		t.Fatal("expected marked line present")
	}
}
