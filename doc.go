// Package pkassetc mirrors a source tree of authoring-format assets (GLSL/HLSL
// shaders, Wavefront meshes, TrueType fonts, KTX2 textures) into a parallel
// tree of packed binary runtime assets.
//
// # Overview
//
// pkassetc is an offline asset compiler. A directory walk classifies each
// source file by extension and dispatches it to the matching writer
// (internal/shaderwriter, internal/meshwriter, internal/fontwriter,
// internal/texturewriter). Every writer builds a self-contained,
// endian-native, optionally Huffman-compressed blob using internal/container
// and internal/codec, and persists it with internal/assetio.
//
// # Quick Start
//
//	import "github.com/konstatoivanen/pkassetc"
//
//	b := pkassetc.NewBuilder(pkassetc.WithLogger(slog.Default()))
//	err := b.Build(context.Background(), "assets/src", "assets/compiled")
//
// # Architecture
//
// The module is organized into:
//   - Public API: Builder, functional options, SetLogger/Logger
//   - internal/container: the asset header, arena buffer and relative-pointer
//     primitives every writer builds into
//   - internal/codec: the Huffman compression envelope
//   - internal/assetio: atomic persistence and mtime-based freshness checks
//   - internal/strutil: shared text utilities (include expansion, scope
//     scanning, whole-identifier replace)
//   - internal/meshpack, internal/meshlet, internal/meshwriter: the mesh and
//     meshlet-DAG pipeline
//   - internal/shaderpp, internal/shadercompile, internal/shaderreflect,
//     internal/shaderwriter: the shader preprocessing/compile/reflect
//     pipeline
//   - internal/fontwriter, internal/texturewriter: thin adapters over the
//     in-tree MTSDF atlas generator (text/msdf) and an external KTX2 reader
//   - cmd/assetbuilder: the CLI entry point
//
// # Non-goals
//
// Runtime rendering, hot reload, incremental patching of existing assets,
// cross-endian output, asset signing/encryption, and shader source authoring
// tools are all out of scope.
package pkassetc
