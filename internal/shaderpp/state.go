package shaderpp

import (
	"bufio"
	"strconv"
	"strings"
)

// CompareOp mirrors the depth/stencil comparison functions.
type CompareOp int

const (
	CompareLessEqual CompareOp = iota
	CompareLess
	CompareGreater
	CompareGreaterEqual
	CompareEqual
	CompareNotEqual
	CompareAlways
	CompareNever
)

// BlendFactor mirrors the subset of blend factors the fixed-state
// attributes can select.
type BlendFactor int

const (
	BlendOne BlendFactor = iota
	BlendZero
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

// CullMode mirrors the triangle face-culling modes.
type CullMode int

const (
	CullOff CullMode = iota
	CullFront
	CullBack
)

// RasterMode selects the fill/overestimation behavior.
type RasterMode int

const (
	RasterDefault RasterMode = iota
	RasterWireframe
	RasterOverestimate
)

// FixedState is the shader's non-programmable pipeline state, parsed
// from its #ZWrite/#ZTest/... pragma lines. Every field is optional with
// a permissive default: writes on, less-equal depth test, blending off,
// all-channel color mask, no cull.
type FixedState struct {
	ZWrite       bool
	ZTest        CompareOp
	BlendColorSrc, BlendColorDst BlendFactor
	BlendAlphaSrc, BlendAlphaDst BlendFactor
	ColorMask    uint8 // bit0=R,1=G,2=B,3=A
	Cull         CullMode
	OffsetFactor, OffsetUnits float32
	Raster       RasterMode
	Overestimation bool
}

// DefaultFixedState returns the permissive defaults applied before any
// pragma overrides them.
func DefaultFixedState() FixedState {
	return FixedState{
		ZWrite:        true,
		ZTest:         CompareLessEqual,
		BlendColorSrc: BlendOne,
		BlendColorDst: BlendZero,
		BlendAlphaSrc: BlendOne,
		BlendAlphaDst: BlendZero,
		ColorMask:     0b1111,
		Cull:          CullOff,
		Raster:        RasterDefault,
	}
}

// ParseFixedState scans src's pragma lines and overrides DefaultFixedState
// accordingly, returning the resolved state and the source with those
// lines stripped.
func ParseFixedState(src string) (remaining string, state FixedState) {
	state = DefaultFixedState()
	var kept []string

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#ZWrite "):
			state.ZWrite = parseOnOff(arg(trimmed, "#ZWrite "))
		case strings.HasPrefix(trimmed, "#ZTest "):
			state.ZTest = parseCompareOp(arg(trimmed, "#ZTest "))
		case strings.HasPrefix(trimmed, "#BlendColor "):
			state.BlendColorSrc, state.BlendColorDst = parseBlendPair(arg(trimmed, "#BlendColor "))
		case strings.HasPrefix(trimmed, "#BlendAlpha "):
			state.BlendAlphaSrc, state.BlendAlphaDst = parseBlendPair(arg(trimmed, "#BlendAlpha "))
		case strings.HasPrefix(trimmed, "#ColorMask "):
			state.ColorMask = parseColorMask(arg(trimmed, "#ColorMask "))
		case strings.HasPrefix(trimmed, "#Cull "):
			state.Cull = parseCullMode(arg(trimmed, "#Cull "))
		case strings.HasPrefix(trimmed, "#Offset "):
			state.OffsetFactor, state.OffsetUnits = parseOffset(arg(trimmed, "#Offset "))
		case strings.HasPrefix(trimmed, "#RasterMode "):
			state.Raster = parseRasterMode(arg(trimmed, "#RasterMode "))
		default:
			kept = append(kept, line)
			continue
		}
	}
	return strings.Join(kept, "\n"), state
}

func arg(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}

func parseOnOff(s string) bool {
	return strings.EqualFold(s, "On") || s == "1" || strings.EqualFold(s, "true")
}

func parseCompareOp(s string) CompareOp {
	switch strings.ToLower(s) {
	case "less":
		return CompareLess
	case "greater":
		return CompareGreater
	case "greaterequal":
		return CompareGreaterEqual
	case "equal":
		return CompareEqual
	case "notequal":
		return CompareNotEqual
	case "always":
		return CompareAlways
	case "never":
		return CompareNever
	default:
		return CompareLessEqual
	}
}

func parseBlendFactor(s string) BlendFactor {
	switch strings.ToLower(s) {
	case "zero":
		return BlendZero
	case "srcalpha":
		return BlendSrcAlpha
	case "oneminussrcalpha":
		return BlendOneMinusSrcAlpha
	case "dstalpha":
		return BlendDstAlpha
	case "oneminusdstalpha":
		return BlendOneMinusDstAlpha
	default:
		return BlendOne
	}
}

func parseBlendPair(s string) (src, dst BlendFactor) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return BlendOne, BlendZero
	}
	return parseBlendFactor(fields[0]), parseBlendFactor(fields[1])
}

func parseColorMask(s string) uint8 {
	s = strings.ToUpper(s)
	if s == "" || s == "0" {
		return 0
	}
	var mask uint8
	if strings.Contains(s, "R") {
		mask |= 1 << 0
	}
	if strings.Contains(s, "G") {
		mask |= 1 << 1
	}
	if strings.Contains(s, "B") {
		mask |= 1 << 2
	}
	if strings.Contains(s, "A") {
		mask |= 1 << 3
	}
	return mask
}

func parseCullMode(s string) CullMode {
	switch strings.ToLower(s) {
	case "front":
		return CullFront
	case "back":
		return CullBack
	default:
		return CullOff
	}
}

func parseOffset(s string) (factor, units float32) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return 0, 0
	}
	f, _ := strconv.ParseFloat(fields[0], 32)
	u, _ := strconv.ParseFloat(fields[1], 32)
	return float32(f), float32(u)
}

func parseRasterMode(s string) RasterMode {
	switch strings.ToLower(s) {
	case "wireframe":
		return RasterWireframe
	case "overestimate":
		return RasterOverestimate
	default:
		return RasterDefault
	}
}
