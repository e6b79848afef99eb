package pkassetc

import (
	"context"
	"log/slog"

	"github.com/konstatoivanen/pkassetc/internal/assetio"
	"github.com/konstatoivanen/pkassetc/internal/meshwriter"
	"github.com/konstatoivanen/pkassetc/internal/shaderwriter"
	"github.com/konstatoivanen/pkassetc/internal/walk"
)

// Builder mirrors a source asset tree into a compiled destination tree.
// A Builder is safe to reuse across multiple Build calls but not for
// concurrent use from multiple goroutines, matching the single-threaded,
// sequential-per-file build model.
type Builder struct {
	opts buildOptions
}

// NewBuilder constructs a Builder from the given options.
func NewBuilder(opts ...BuildOption) *Builder {
	o := defaultBuildOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{opts: o}
}

// Build walks srcDir, compiling every recognised asset into its mirror
// under dstDir. Per-file failures are logged and skipped; Build itself
// only returns an error for a fatal problem with the walk (e.g. srcDir
// does not exist), matching the exit-code-always-0-per-file status model.
func (b *Builder) Build(ctx context.Context, srcDir, dstDir string) error {
	collab := walk.Collaborators{
		Shader: shaderwriter.Collaborators{
			Compiler:  b.opts.shaderCompiler,
			Oracle:    b.opts.accessOracle,
			DebugInfo: b.opts.shaderDebug,
		},
		Mesh: meshwriter.Collaborators{
			Optimizer:        b.opts.meshOptimizer,
			TangentGen:       b.opts.tangentGen,
			Partitioner:      b.opts.graphPartitioner,
			MeshletOptimizer: b.opts.meshletOptimizer,
			Simplifier:       b.opts.simplifier,
		},
		Obj:  b.opts.objParser,
		Ktx2: b.opts.ktx2Reader,
		Font: b.opts.fontConfig,
	}

	writer := assetio.Writer{
		ForceNoCompression: b.opts.forceNoCompression,
		DebugRoundtrip:     b.opts.debugRoundtrip,
	}

	return walk.Run(ctx, srcDir, dstDir, collab, writer, func(r walk.Result) {
		b.logResult(r)
	})
}

func (b *Builder) logResult(r walk.Result) {
	switch r.Status {
	case assetio.Failed:
		b.opts.logger.Error("asset build failed", slog.String("src", r.SrcPath), slog.Any("err", r.Err))
	case assetio.UpToDate:
		b.opts.logger.Info("asset up to date", slog.String("src", r.SrcPath))
	case assetio.Written:
		b.opts.logger.Info("asset compiled", slog.String("src", r.SrcPath), slog.String("dst", r.DstPath))
	}
}
