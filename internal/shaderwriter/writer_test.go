package shaderwriter

import (
	"testing"

	"github.com/konstatoivanen/pkassetc/internal/container"
)

type fakeCompiler struct{}

func (fakeCompiler) Compile(source string, optimize, debugInfo bool) ([]uint32, error) {
	// A minimal but structurally valid module: 5-word header, no
	// instructions. Good enough to exercise ParseModule/reflection without
	// asserting on descriptor contents.
	return []uint32{0x07230203, 0x00010600, 0, 1, 0}, nil
}

func TestBuildSingleVariantNoMultiCompile(t *testing.T) {
	src := "void main() {}\n#pragma PROGRAM_VERTEX\nvoid main() { gl_Position = vec4(0); }\n#pragma PROGRAM_FRAGMENT\nvoid main() { }\n"

	buf, err := Build(src, Collaborators{Compiler: fakeCompiler{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hdr, err := buf.Header()
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if hdr.Type != container.AssetTypeShader {
		t.Fatalf("Type = %v, want AssetTypeShader", hdr.Type)
	}
}

func TestBuildExpandsMultiCompileVariants(t *testing.T) {
	src := "#multi_compile A B\n#pragma PROGRAM_VERTEX\nvoid main() {}\n"

	buf, err := Build(src, Collaborators{Compiler: fakeCompiler{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty buffer")
	}
}

type failingCompiler struct{}

func (failingCompiler) Compile(source string, optimize, debugInfo bool) ([]uint32, error) {
	return nil, errCompile
}

var errCompile = &compileErr{}

type compileErr struct{}

func (*compileErr) Error() string { return "boom" }

func TestBuildPropagatesCompileFailure(t *testing.T) {
	src := "#pragma PROGRAM_VERTEX\nvoid main() {}\n"
	if _, err := Build(src, Collaborators{Compiler: failingCompiler{}}); err == nil {
		t.Fatal("expected error from failing compiler")
	}
}
