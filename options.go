package pkassetc

import (
	"log/slog"

	"github.com/konstatoivanen/pkassetc/internal/fontwriter"
	"github.com/konstatoivanen/pkassetc/internal/meshlet"
	"github.com/konstatoivanen/pkassetc/internal/meshpack"
	"github.com/konstatoivanen/pkassetc/internal/meshwriter"
	"github.com/konstatoivanen/pkassetc/internal/shadercompile"
	"github.com/konstatoivanen/pkassetc/internal/shaderreflect"
	"github.com/konstatoivanen/pkassetc/internal/texturewriter"
)

// BuildOption configures a Builder during construction.
//
// Example:
//
//	b := pkassetc.NewBuilder(
//		pkassetc.WithForceNoCompression(),
//		pkassetc.WithLogger(slog.Default()),
//		pkassetc.WithShaderCompiler(myGlslangWrapper),
//	)
type BuildOption func(*buildOptions)

// buildOptions holds optional configuration for Builder construction.
// The collaborator fields stand in for native libraries this module
// deliberately does not vendor (a SPIR-V compiler, a raw .obj parser,
// MikkTSpace, a mesh optimizer, METIS, a KTX2 reader); a caller wires
// its own implementation in, and any left nil disables the writer path
// that needs it.
type buildOptions struct {
	logger             *slog.Logger
	forceNoCompression bool
	debugRoundtrip     bool

	shaderCompiler shadercompile.Compiler
	accessOracle   shaderreflect.AccessOracle
	shaderDebug    bool

	objParser        meshwriter.ObjParser
	tangentGen       meshwriter.TangentGenerator
	meshOptimizer    meshwriter.MeshOptimizerPipeline
	graphPartitioner meshlet.GraphPartitioner
	meshletOptimizer meshlet.MeshOptimizer
	simplifier       meshpack.Simplifier

	ktx2Reader texturewriter.Ktx2Reader
	fontConfig fontwriter.Config
}

// defaultBuildOptions returns the default builder options.
func defaultBuildOptions() buildOptions {
	return buildOptions{
		logger:     Logger(),
		fontConfig: fontwriter.DefaultConfig(),
	}
}

// WithLogger sets the logger used by this Builder, overriding the
// package-level logger configured via SetLogger.
func WithLogger(l *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithForceNoCompression disables the Huffman compression envelope for
// every asset this Builder writes, regardless of the compression-ratio
// gate. Useful when debugging a container's layout by hand.
func WithForceNoCompression() BuildOption {
	return func(o *buildOptions) {
		o.forceNoCompression = true
	}
}

// WithDebugRoundtrip makes the Builder decode every asset it just wrote
// and compare it against the in-memory buffer before persisting, failing
// the build on mismatch. Intended for catching relative-pointer bugs
// during development; adds a full decode pass per asset.
func WithDebugRoundtrip() BuildOption {
	return func(o *buildOptions) {
		o.debugRoundtrip = true
	}
}

// WithShaderCompiler wires the SPIR-V compiler collaborator used to turn
// preprocessed GLSL/HLSL-dialect source into SPIR-V words. Without one,
// shader assets fail to build.
func WithShaderCompiler(c shadercompile.Compiler) BuildOption {
	return func(o *buildOptions) { o.shaderCompiler = c }
}

// WithAccessOracle wires the descriptor-usage collaborator
// (typically backed by a SPIR-V reflection library) that decides
// whether a declared descriptor binding is actually read in the
// compiled module. Without one, every declared binding is kept.
func WithAccessOracle(a shaderreflect.AccessOracle) BuildOption {
	return func(o *buildOptions) { o.accessOracle = a }
}

// WithShaderDebugInfo requests that the SPIR-V compiler collaborator
// retain debug info (names, line numbers) in compiled modules.
func WithShaderDebugInfo() BuildOption {
	return func(o *buildOptions) { o.shaderDebug = true }
}

// WithObjParser wires the raw Wavefront .obj parsing collaborator.
// Without one, mesh assets fail to build.
func WithObjParser(p meshwriter.ObjParser) BuildOption {
	return func(o *buildOptions) { o.objParser = p }
}

// WithTangentGenerator wires the MikkTSpace tangent-generation
// collaborator. Without one, tangent attributes are left zeroed.
func WithTangentGenerator(g meshwriter.TangentGenerator) BuildOption {
	return func(o *buildOptions) { o.tangentGen = g }
}

// WithMeshOptimizer wires the vertex cache/overdraw/fetch optimization
// collaborator. Without one, vertices and indices are written in
// dedup order with no reordering.
func WithMeshOptimizer(p meshwriter.MeshOptimizerPipeline) BuildOption {
	return func(o *buildOptions) { o.meshOptimizer = p }
}

// WithGraphPartitioner wires the METIS-backed meshlet graph
// partitioning collaborator. Without one (together with
// WithMeshletOptimizer and WithSimplifier), no meshlet DAG is emitted.
func WithGraphPartitioner(p meshlet.GraphPartitioner) BuildOption {
	return func(o *buildOptions) { o.graphPartitioner = p }
}

// WithMeshletOptimizer wires the native meshlet-building collaborator.
func WithMeshletOptimizer(m meshlet.MeshOptimizer) BuildOption {
	return func(o *buildOptions) { o.meshletOptimizer = m }
}

// WithSimplifier wires the iterative quadric mesh simplification
// collaborator used between meshlet DAG levels.
func WithSimplifier(s meshpack.Simplifier) BuildOption {
	return func(o *buildOptions) { o.simplifier = s }
}

// WithKtx2Reader wires the KTX2 container parsing collaborator.
// Without one, texture assets fail to build.
func WithKtx2Reader(r texturewriter.Ktx2Reader) BuildOption {
	return func(o *buildOptions) { o.ktx2Reader = r }
}

// WithFontConfig overrides the default ASCII/ink-trap/MTSDF font atlas
// configuration.
func WithFontConfig(cfg fontwriter.Config) BuildOption {
	return func(o *buildOptions) { o.fontConfig = cfg }
}
