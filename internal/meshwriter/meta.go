package meshwriter

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// Meta is the parsed contents of a mesh's companion .pkmeta sidecar
// file: a flat, order-insensitive key=value list.
type Meta struct {
	SplitPositionStream      bool
	UseHalfPrecisionNormals  bool
	UseHalfPrecisionTangents bool
	UseHalfPrecisionUVs      bool
}

// LoadMeta reads path's key=value pairs. A missing file yields the zero
// Meta (all options off) rather than an error, matching the optional
// nature of the sidecar.
func LoadMeta(path string) (Meta, error) {
	var m Meta
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		b, _ := strconv.ParseBool(strings.TrimSpace(value))
		switch key {
		case "mesh_splitPositionStream":
			m.SplitPositionStream = b
		case "mesh_useHalfPrecisionNormals":
			m.UseHalfPrecisionNormals = b
		case "mesh_useHalfPrecisionTangents":
			m.UseHalfPrecisionTangents = b
		case "mesh_useHalfPrecisionUVs":
			m.UseHalfPrecisionUVs = b
		}
	}
	return m, scanner.Err()
}
