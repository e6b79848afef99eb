// Package walk implements the directory mirror: it walks a source tree,
// classifies each file by extension, dispatches it to the matching
// writer, and persists the result into the parallel destination tree,
// skipping files that are already up to date.
package walk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/konstatoivanen/pkassetc/internal/assetio"
	"github.com/konstatoivanen/pkassetc/internal/container"
	"github.com/konstatoivanen/pkassetc/internal/fontwriter"
	"github.com/konstatoivanen/pkassetc/internal/meshwriter"
	"github.com/konstatoivanen/pkassetc/internal/shaderwriter"
	"github.com/konstatoivanen/pkassetc/internal/texturewriter"
	"github.com/konstatoivanen/pkassetc/text"
)

// Collaborators bundles every external-library seam the writers need.
// Any nil field disables the dependent feature the way the writer
// itself already tolerates (e.g. a nil MeshOptimizer skips cache/
// overdraw/fetch optimization).
type Collaborators struct {
	Shader shaderwriter.Collaborators
	Mesh   meshwriter.Collaborators
	Obj    meshwriter.ObjParser
	Ktx2   texturewriter.Ktx2Reader
	Font   fontwriter.Config
}

// extensionRoute pairs a recognised source extension with its output
// extension and build function.
type extensionRoute struct {
	outExt string
	build  func(srcPath string, collab Collaborators) (*container.Buffer, error)
}

var routes = map[string]extensionRoute{
	".shader": {outExt: ".pkshader", build: buildShader},
	".obj":    {outExt: ".pkmesh", build: buildMesh},
	".ttf":    {outExt: ".pkfont", build: buildFont},
	".ktx2":   {outExt: ".pktexture", build: buildTexture},
}

func buildShader(srcPath string, collab Collaborators) (*container.Buffer, error) {
	if collab.Shader.Compiler == nil {
		return nil, fmt.Errorf("walk: no shader compiler configured for %s", srcPath)
	}
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("walk: read %s: %w", srcPath, err)
	}
	return shaderwriter.Build(string(src), collab.Shader)
}

func buildMesh(srcPath string, collab Collaborators) (*container.Buffer, error) {
	if collab.Obj == nil {
		return nil, fmt.Errorf("walk: no .obj parser configured for %s", srcPath)
	}
	meta, err := meshwriter.LoadMeta(srcPath + ".pkmeta")
	if err != nil {
		return nil, fmt.Errorf("walk: load sidecar for %s: %w", srcPath, err)
	}
	return meshwriter.Build(srcPath, collab.Obj, meta, collab.Mesh)
}

func buildFont(srcPath string, collab Collaborators) (*container.Buffer, error) {
	source, err := text.NewFontSourceFromFile(srcPath)
	if err != nil {
		return nil, fmt.Errorf("walk: load font %s: %w", srcPath, err)
	}
	defer source.Close()
	return fontwriter.Build(source, collab.Font)
}

func buildTexture(srcPath string, collab Collaborators) (*container.Buffer, error) {
	if collab.Ktx2 == nil {
		return nil, fmt.Errorf("walk: no KTX2 reader configured for %s", srcPath)
	}
	return texturewriter.Build(srcPath, collab.Ktx2)
}

// Result reports the outcome of a single file build.
type Result struct {
	SrcPath string
	DstPath string
	Status  assetio.PersistResult
	Err     error
}

// Run walks srcDir, mirroring every recognised file into dstDir, and
// invokes onResult once per visited file in directory-traversal order.
// A build or persist failure aborts only the current file; the walk
// continues with the rest of the tree.
func Run(ctx context.Context, srcDir, dstDir string, collab Collaborators, writer assetio.Writer, onResult func(Result)) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		route, ok := routes[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dstDir, rel)
		dstPath = dstPath[:len(dstPath)-len(filepath.Ext(dstPath))] + route.outExt

		if !assetio.FileOutOfDate(path, dstPath) {
			onResult(Result{SrcPath: path, DstPath: dstPath, Status: assetio.UpToDate})
			return nil
		}

		buf, buildErr := route.build(path, collab)
		if buildErr != nil {
			onResult(Result{SrcPath: path, DstPath: dstPath, Status: assetio.Failed, Err: buildErr})
			return nil
		}

		status := writer.Persist(ctx, dstPath, buf)
		onResult(Result{SrcPath: path, DstPath: dstPath, Status: status})
		return nil
	})
}
