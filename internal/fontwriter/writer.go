// Package fontwriter adapts a parsed TTF/OTF font into an MTSDF atlas
// asset: it renders each glyph in a fixed charset through text/msdf's
// ink-trap, 4-channel generator, packs the results into a square atlas,
// and writes the whole thing as a .pkfont container.
package fontwriter

import (
	"fmt"
	"math"
	"unicode"

	"github.com/konstatoivanen/pkassetc/internal/container"
	"github.com/konstatoivanen/pkassetc/text"
	"github.com/konstatoivanen/pkassetc/text/msdf"
)

// CharsetStart and CharsetEnd bound the default ASCII charset (space
// through tilde, inclusive).
const (
	CharsetStart = 0x20
	CharsetEnd   = 0x7E
)

// FontMSDFUnit is the pixel distance range baked into every glyph cell,
// carried over from the original tool's PK_FONT_MSDF_UNIT constant.
const FontMSDFUnit = 4.0

// MaxCornerAngle is the corner-detection threshold in radians; above
// this angle an edge pair is not considered sharp enough to split colors.
const MaxCornerAngle = 3.0

// LoadEmSize is the ppem glyphs are extracted and rendered at before
// being baked into their fixed-size MSDF cell.
const LoadEmSize = 16

// Config configures atlas generation. Zero value uses the package
// defaults (ASCII charset, ink-trap coloring, 32px cells).
type Config struct {
	CharsetStart, CharsetEnd rune
	CellSize                 int
	LoadEmSize               float64
	PixelRange               float64
	MaxCornerAngle           float64
}

// DefaultConfig returns the standard ASCII/ink-trap/MTSDF configuration.
func DefaultConfig() Config {
	return Config{
		CharsetStart:   CharsetStart,
		CharsetEnd:     CharsetEnd,
		CellSize:       32,
		LoadEmSize:     LoadEmSize,
		PixelRange:     FontMSDFUnit,
		MaxCornerAngle: MaxCornerAngle,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CharsetStart == 0 && c.CharsetEnd == 0 {
		c.CharsetStart, c.CharsetEnd = d.CharsetStart, d.CharsetEnd
	}
	if c.CellSize == 0 {
		c.CellSize = d.CellSize
	}
	if c.LoadEmSize == 0 {
		c.LoadEmSize = d.LoadEmSize
	}
	if c.PixelRange == 0 {
		c.PixelRange = d.PixelRange
	}
	if c.MaxCornerAngle == 0 {
		c.MaxCornerAngle = d.MaxCornerAngle
	}
	return c
}

// glyphEntry is one packed glyph: its source metrics plus its atlas cell.
type glyphEntry struct {
	unicode      rune
	advance      float64
	rect         text.Rect
	cellX, cellY int
	isWhitespace bool
}

// Build renders source's glyphs over cfg's charset into a square MTSDF
// atlas and assembles the .pkfont container.
func Build(source *text.FontSource, cfg Config) (*container.Buffer, error) {
	cfg = cfg.withDefaults()

	parsed := source.Parsed()
	extractor := text.NewOutlineExtractor()
	gen := msdf.NewGenerator(msdf.Config{
		Size:           cfg.CellSize,
		Range:          cfg.PixelRange,
		AngleThreshold: math.Pi - cfg.MaxCornerAngle,
		EdgeThreshold:  1.001,
		Coloring:       msdf.ColoringInkTrap,
	})

	charset := make([]rune, 0, cfg.CharsetEnd-cfg.CharsetStart+1)
	for r := cfg.CharsetStart; r <= cfg.CharsetEnd; r++ {
		charset = append(charset, r)
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(charset)))))
	if cols == 0 {
		cols = 1
	}
	rows := int(math.Ceil(float64(len(charset)) / float64(cols)))
	atlasW := cols * cfg.CellSize
	atlasH := rows * cfg.CellSize

	packer := msdf.NewGridAllocator(atlasW, atlasH, cfg.CellSize, 0)
	atlas := make([]byte, atlasW*atlasH*4)
	entries := make([]glyphEntry, 0, len(charset))

	for _, r := range charset {
		gid := parsed.GlyphIndex(r)
		outline, err := extractor.ExtractOutline(parsed, text.GlyphID(gid), cfg.LoadEmSize)
		if err != nil {
			return nil, fmt.Errorf("fontwriter: extract outline for %q: %w", r, err)
		}

		mt, err := gen.GenerateMTSDF(outline)
		if err != nil {
			return nil, fmt.Errorf("fontwriter: generate MTSDF for %q: %w", r, err)
		}

		cellX, cellY, ok := packer.Allocate()
		if !ok {
			return nil, fmt.Errorf("fontwriter: atlas grid exhausted at %q", r)
		}
		blit(atlas, atlasW, cellX, cellY, mt)

		advance := parsed.GlyphAdvance(gid, cfg.LoadEmSize)
		var rect text.Rect
		if outline != nil {
			rect = outline.Bounds
		}

		entries = append(entries, glyphEntry{
			unicode:      r,
			advance:      advance,
			rect:         rect,
			cellX:        cellX,
			cellY:        cellY,
			isWhitespace: unicode.IsSpace(r) || outline == nil || outline.IsEmpty(),
		})
	}

	return assemble(entries, atlas, atlasW, atlasH, cfg.CellSize)
}

// blit copies mt's RGBA data into atlas at the glyph's cell origin.
func blit(atlas []byte, atlasW, originX, originY int, mt *msdf.MTSDF) {
	for y := 0; y < mt.Height; y++ {
		srcRowOff := y * mt.Width * 4
		dstRowOff := ((originY+y)*atlasW + originX) * 4
		copy(atlas[dstRowOff:dstRowOff+mt.Width*4], mt.Data[srcRowOff:srcRowOff+mt.Width*4])
	}
}
