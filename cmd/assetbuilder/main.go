// Command assetbuilder mirrors a source asset tree into a compiled
// destination tree.
//
// Usage:
//
//	assetbuilder <srcdir> <dstdir>
//	assetbuilder <cwd> <srcdir> <dstdir>
//
// Paths may be wrapped in single quotes; a trailing path separator is
// appended if missing. The process always exits 0 — per-file status is
// reported on stdout instead.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/konstatoivanen/pkassetc/internal/assetio"
	"github.com/konstatoivanen/pkassetc/internal/walk"
)

func main() {
	srcDir, dstDir, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}

	collab := walk.Collaborators{}
	writer := assetio.Writer{}

	err = walk.Run(context.Background(), srcDir, dstDir, collab, writer, func(r walk.Result) {
		printResult(r)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
}

// parseArgs accepts either "<srcdir> <dstdir>" or a leading working
// directory "<cwd> <srcdir> <dstdir>" (the cwd argument is otherwise
// unused; it exists for parity with the original invocation form).
// Each argument may be single-quoted and is normalised to carry a
// trailing separator.
func parseArgs(args []string) (srcDir, dstDir string, err error) {
	cleaned := make([]string, len(args))
	for i, a := range args {
		cleaned[i] = withTrailingSeparator(unquote(a))
	}

	switch len(cleaned) {
	case 2:
		return cleaned[0], cleaned[1], nil
	case 3:
		return cleaned[1], cleaned[2], nil
	default:
		return "", "", fmt.Errorf("usage: assetbuilder <srcdir> <dstdir> | assetbuilder <cwd> <srcdir> <dstdir>")
	}
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

func withTrailingSeparator(path string) string {
	if path == "" || strings.HasSuffix(path, string(filepath.Separator)) {
		return path
	}
	return path + string(filepath.Separator)
}

func printResult(r walk.Result) {
	switch r.Status {
	case assetio.Failed:
		fmt.Printf("Failed to asset: %s (%v)\n", r.SrcPath, r.Err)
	case assetio.UpToDate:
		fmt.Printf("Asset was up to date: %s\n", r.SrcPath)
	case assetio.Written:
		fmt.Printf("Compiled asset: %s -> %s\n", r.SrcPath, r.DstPath)
	}
}
