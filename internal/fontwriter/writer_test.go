package fontwriter

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/konstatoivanen/pkassetc/internal/container"
	"github.com/konstatoivanen/pkassetc/text"
)

func TestBuildProducesFontAsset(t *testing.T) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFontSource: %v", err)
	}

	cfg := DefaultConfig()
	cfg.CharsetStart = 'A'
	cfg.CharsetEnd = 'D'
	cfg.CellSize = 16

	buf, err := Build(source, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hdr, err := buf.Header()
	if err != nil {
		t.Fatalf("Header: %v", err)
	}
	if hdr.Type != container.AssetTypeFont {
		t.Fatalf("Type = %v, want AssetTypeFont", hdr.Type)
	}
	if buf.Len() <= fontRootSize {
		t.Fatal("expected glyph/atlas payload beyond the root record")
	}
}

func TestBuildWhitespaceFlag(t *testing.T) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewFontSource: %v", err)
	}

	cfg := DefaultConfig()
	cfg.CharsetStart = ' '
	cfg.CharsetEnd = 'A'
	cfg.CellSize = 16

	entries, _, _, err := buildEntries(source, cfg)
	if err != nil {
		t.Fatalf("buildEntries: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one glyph entry")
	}
	if !entries[0].isWhitespace {
		t.Errorf("entry for %q should be flagged whitespace", entries[0].unicode)
	}
}

// buildEntries exposes Build's intermediate glyph layout for tests that
// want to assert on per-glyph metadata without decoding the container.
func buildEntries(source *text.FontSource, cfg Config) ([]glyphEntry, int, int, error) {
	cfg = cfg.withDefaults()
	parsed := source.Parsed()
	extractor := text.NewOutlineExtractor()

	charset := make([]rune, 0, cfg.CharsetEnd-cfg.CharsetStart+1)
	for r := cfg.CharsetStart; r <= cfg.CharsetEnd; r++ {
		charset = append(charset, r)
	}

	entries := make([]glyphEntry, 0, len(charset))
	for _, r := range charset {
		gid := parsed.GlyphIndex(r)
		outline, err := extractor.ExtractOutline(parsed, text.GlyphID(gid), cfg.LoadEmSize)
		if err != nil {
			return nil, 0, 0, err
		}
		entries = append(entries, glyphEntry{
			unicode:      r,
			isWhitespace: outline == nil || outline.IsEmpty(),
		})
	}
	return entries, cfg.CellSize, len(charset), nil
}
