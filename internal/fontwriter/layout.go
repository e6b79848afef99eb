package fontwriter

import (
	"encoding/binary"
	"math"

	"github.com/konstatoivanen/pkassetc/internal/container"
)

// fontRootSize: atlasWidth(4)+atlasHeight(4)+cellSize(4)+glyphCount(4)
// +glyphsPtr(4)+atlasPtr(4) = 24 bytes.
const fontRootSize = 24

// glyphRecordSize: advance(4)+rect(16)+texrect(16)+unicode(4)
// +isWhitespace(4) = 44 bytes.
const glyphRecordSize = 44

func assemble(entries []glyphEntry, atlas []byte, atlasW, atlasH, cellSize int) (*container.Buffer, error) {
	buf := container.NewBuffer(container.AssetTypeFont, "")

	root := buf.Allocate(fontRootSize)
	binary.LittleEndian.PutUint32(root.Bytes()[0:4], uint32(atlasW))
	binary.LittleEndian.PutUint32(root.Bytes()[4:8], uint32(atlasH))
	binary.LittleEndian.PutUint32(root.Bytes()[8:12], uint32(cellSize))
	binary.LittleEndian.PutUint32(root.Bytes()[12:16], uint32(len(entries)))

	glyphsWP := buf.Write(encodeGlyphs(entries, atlasW, atlasH, cellSize))
	container.PutRelativePointer(buf, root.Offset()+16, glyphsWP)

	atlasWP := buf.Write(atlas)
	container.PutRelativePointer(buf, root.Offset()+20, atlasWP)

	return buf, nil
}

func encodeGlyphs(entries []glyphEntry, atlasW, atlasH, cellSize int) []byte {
	out := make([]byte, len(entries)*glyphRecordSize)
	for i, e := range entries {
		o := i * glyphRecordSize
		putFloat32(out[o:o+4], float32(e.advance))
		putFloat32(out[o+4:o+8], float32(e.rect.MinX))
		putFloat32(out[o+8:o+12], float32(e.rect.MinY))
		putFloat32(out[o+12:o+16], float32(e.rect.MaxX))
		putFloat32(out[o+16:o+20], float32(e.rect.MaxY))

		u0 := float32(e.cellX) / float32(atlasW)
		v0 := float32(e.cellY) / float32(atlasH)
		u1 := float32(e.cellX+cellSize) / float32(atlasW)
		v1 := float32(e.cellY+cellSize) / float32(atlasH)
		putFloat32(out[o+20:o+24], u0)
		putFloat32(out[o+24:o+28], v0)
		putFloat32(out[o+28:o+32], u1)
		putFloat32(out[o+32:o+36], v1)

		binary.LittleEndian.PutUint32(out[o+36:o+40], uint32(e.unicode))
		isWhitespace := uint32(0)
		if e.isWhitespace {
			isWhitespace = 1
		}
		binary.LittleEndian.PutUint32(out[o+40:o+44], isWhitespace)
	}
	return out
}

func putFloat32(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}
