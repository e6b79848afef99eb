// Package strutil provides the text utilities shared by the shader and
// mesh-metadata front ends: recursive #include expansion, token
// extraction, balanced-scope scanning, and whole-identifier-safe replace.
package strutil

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// inMask reports whether c is in the character class that disqualifies a
// ReplaceAll match when found adjacent to it: alphanumerics, underscore,
// and dot.
func inMask(c byte) bool {
	return c == '_' || c == '.' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ExpandIncludes reads path and recursively inlines `#include "rel/path"`
// lines, resolving each include relative to the file that contains it.
// `#pragma once` is honored: once a path has been fully expanded it is
// never expanded again, though its line is simply dropped on repeat
// encounters. Every path visited (including the root) is returned for
// downstream freshness tracking, in visitation order.
func ExpandIncludes(path string) (text string, visited []string, err error) {
	seen := make(map[string]bool)
	onceGuard := make(map[string]bool)
	var sb strings.Builder
	var walk func(p string) error
	walk = func(p string) error {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if onceGuard[abs] {
			return nil
		}
		if !seen[abs] {
			seen[abs] = true
			visited = append(visited, abs)
		}
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("strutil: open %s: %w", p, err)
		}
		defer f.Close()

		pragmaOnce := false
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			trimmed := strings.TrimSpace(line)
			if trimmed == "#pragma once" {
				pragmaOnce = true
				continue
			}
			if strings.HasPrefix(trimmed, "#include ") {
				inc, ok := parseIncludeTarget(trimmed)
				if !ok {
					sb.WriteString(line)
					sb.WriteByte('\n')
					continue
				}
				incPath := filepath.Join(filepath.Dir(p), inc)
				if err := walk(incPath); err != nil {
					return err
				}
				continue
			}
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		if pragmaOnce {
			onceGuard[abs] = true
		}
		return scanner.Err()
	}
	if err := walk(path); err != nil {
		return "", nil, err
	}
	return sb.String(), visited, nil
}

func parseIncludeTarget(trimmed string) (string, bool) {
	rest := strings.TrimPrefix(trimmed, "#include ")
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 {
		return "", false
	}
	if rest[0] == '"' {
		end := strings.IndexByte(rest[1:], '"')
		if end < 0 {
			return "", false
		}
		return rest[1 : 1+end], true
	}
	if rest[0] == '<' {
		end := strings.IndexByte(rest[1:], '>')
		if end < 0 {
			return "", false
		}
		return rest[1 : 1+end], true
	}
	return "", false
}

// ExtractToken removes the first line containing token from src and
// returns the remaining source plus the extracted text. If includeToken
// is true the extracted text is the whole line; if false it is only the
// text after the token (the whole line is removed from src in both
// cases).
func ExtractToken(src, token string, trim bool, includeToken bool) (remaining, extracted string, found bool) {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		idx := strings.Index(line, token)
		if idx < 0 {
			continue
		}
		extracted = line
		if !includeToken {
			extracted = line[idx+len(token):]
		}
		if trim {
			extracted = strings.TrimSpace(extracted)
		}
		rest := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		return strings.Join(rest, "\n"), extracted, true
	}
	return src, "", false
}

// FindScope returns the index in s (starting the scan at from) of the
// close rune that matches the open rune assumed to have just been
// consumed, honoring nesting depth. It returns -1 if the region is
// unbalanced.
func FindScope(s string, from int, open, close byte) int {
	depth := 1
	for i := from; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ReplaceAll performs a whole-identifier-safe replacement of every
// occurrence of from with to in s: a match is rejected (left untouched)
// if either neighboring character belongs to the identifier mask
// (alphanumerics, underscore, dot).
func ReplaceAll(s, from, to string) string {
	if from == "" {
		return s
	}
	var sb strings.Builder
	i := 0
	for {
		idx := strings.Index(s[i:], from)
		if idx < 0 {
			sb.WriteString(s[i:])
			break
		}
		start := i + idx
		end := start + len(from)
		sb.WriteString(s[i:start])

		leftOK := start == 0 || !inMask(s[start-1])
		rightOK := end == len(s) || !inMask(s[end])
		if leftOK && rightOK {
			sb.WriteString(to)
		} else {
			sb.WriteString(from)
		}
		i = end
	}
	return sb.String()
}

// ReplaceAllTable applies ReplaceAll for every (from, to) pair in table,
// in the table's iteration order. Callers that need deterministic
// replacement order (e.g. the HLSL->GLSL type table) should pass an
// ordered slice of pairs instead of a map.
type Pair struct{ From, To string }

func ReplaceAllTable(s string, table []Pair) string {
	for _, p := range table {
		s = ReplaceAll(s, p.From, p.To)
	}
	return s
}
