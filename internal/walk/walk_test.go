package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/konstatoivanen/pkassetc/internal/assetio"
	"github.com/konstatoivanen/pkassetc/internal/shaderwriter"
)

type fakeCompiler struct{}

func (fakeCompiler) Compile(source string, optimize, debugInfo bool) ([]uint32, error) {
	return []uint32{0x07230203, 0x00010600, 0, 1, 0}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunBuildsShaderAndSkipsUnrecognisedFiles(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "lit.shader"), "#pragma PROGRAM_VERTEX\nvoid main() {}\n")
	writeFile(t, filepath.Join(srcDir, "readme.txt"), "not an asset")

	collab := Collaborators{Shader: shaderwriter.Collaborators{Compiler: fakeCompiler{}}}

	var results []Result
	err := Run(context.Background(), srcDir, dstDir, collab, assetio.Writer{}, func(r Result) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (only the .shader file)", len(results))
	}
	if results[0].Status != assetio.Written {
		t.Fatalf("status = %v, want Written: %v", results[0].Status, results[0].Err)
	}
	if _, err := os.Stat(results[0].DstPath); err != nil {
		t.Fatalf("expected output at %s: %v", results[0].DstPath, err)
	}
}

func TestRunSkipsUpToDateOutput(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	srcPath := filepath.Join(srcDir, "lit.shader")
	writeFile(t, srcPath, "#pragma PROGRAM_VERTEX\nvoid main() {}\n")

	collab := Collaborators{Shader: shaderwriter.Collaborators{Compiler: fakeCompiler{}}}

	var first []Result
	if err := Run(context.Background(), srcDir, dstDir, collab, assetio.Writer{}, func(r Result) {
		first = append(first, r)
	}); err != nil {
		t.Fatalf("Run (first pass): %v", err)
	}
	if first[0].Status != assetio.Written {
		t.Fatalf("first pass status = %v, want Written", first[0].Status)
	}

	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(first[0].DstPath, future, future); err != nil {
		t.Fatal(err)
	}

	var second []Result
	if err := Run(context.Background(), srcDir, dstDir, collab, assetio.Writer{}, func(r Result) {
		second = append(second, r)
	}); err != nil {
		t.Fatalf("Run (second pass): %v", err)
	}
	if second[0].Status != assetio.UpToDate {
		t.Fatalf("second pass status = %v, want UpToDate", second[0].Status)
	}
}

func TestRunReportsBuildFailure(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	writeFile(t, filepath.Join(srcDir, "broken.obj"), "this is not a valid obj shape descriptor")

	var results []Result
	err := Run(context.Background(), srcDir, dstDir, Collaborators{}, assetio.Writer{}, func(r Result) {
		results = append(results, r)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 || results[0].Status != assetio.Failed {
		t.Fatalf("expected a single Failed result, got %+v", results)
	}
}
