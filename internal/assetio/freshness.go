package assetio

import (
	"os"
	"path/filepath"
	"time"
)

// FileOutOfDate reports whether dst is missing or older than src.
func FileOutOfDate(src, dst string) bool {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return true
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return true
	}
	return srcInfo.ModTime().After(dstInfo.ModTime())
}

// AnyOutOfDate reports whether any path in paths exists and was modified
// after referenceTime.
func AnyOutOfDate(paths []string, referenceTime time.Time) bool {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.ModTime().After(referenceTime) {
			return true
		}
	}
	return false
}

// DirectoryOutOfDate reports whether dstDir is missing or srcDir's
// recursive max mtime exceeds dstDir's. Only entries with a file
// extension participate in the max; extensionless names are treated as
// subdirectories and recursed into.
func DirectoryOutOfDate(srcDir, dstDir string) bool {
	if _, err := os.Stat(dstDir); err != nil {
		return true
	}
	srcMax, srcErr := maxMtimeRecursive(srcDir)
	dstMax, dstErr := maxMtimeRecursive(dstDir)
	if srcErr != nil {
		return true
	}
	if dstErr != nil {
		return true
	}
	return srcMax.After(dstMax)
}

func maxMtimeRecursive(dir string) (time.Time, error) {
	var maxT time.Time
	entries, err := os.ReadDir(dir)
	if err != nil {
		return maxT, err
	}
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if e.IsDir() || filepath.Ext(e.Name()) == "" {
			sub, err := maxMtimeRecursive(full)
			if err != nil {
				continue
			}
			if sub.After(maxT) {
				maxT = sub
			}
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(maxT) {
			maxT = info.ModTime()
		}
	}
	return maxT, nil
}
