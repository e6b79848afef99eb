package texturewriter

import (
	"encoding/binary"
	"fmt"

	"github.com/konstatoivanen/pkassetc/internal/container"
)

// Build reads path through reader and assembles the .pktexture
// container: mip-level offsets/dimensions and the pixel buffer are
// copied verbatim, the Vulkan format is mapped to the internal tag, and
// the texture type is inferred from the file's layer/face/depth counts.
func Build(path string, reader Ktx2Reader) (*container.Buffer, error) {
	f, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("texturewriter: read %s: %w", path, err)
	}
	if len(f.Levels) == 0 {
		return nil, fmt.Errorf("texturewriter: %s has no mip levels", path)
	}

	format := MapVkFormat(f.VkFormat)
	texType := InferType(f)

	return assemble(f, format, texType)
}

// textureRootSize: format(4)+type(4)+width(4)+height(4)+depth(4)
// +layerCount(4)+faceCount(4)+levelCount(4)+levelsPtr(4)+pixelsPtr(4)
// +pixelsLen(4) = 44 bytes.
const textureRootSize = 44

// mipLevelRecordSize: offset(8)+length(8)+width(4)+height(4)+depth(4)
// = 28 bytes.
const mipLevelRecordSize = 28

func assemble(f *Ktx2File, format Format, texType TextureType) (*container.Buffer, error) {
	buf := container.NewBuffer(container.AssetTypeTexture, "")

	root := buf.Allocate(textureRootSize)
	binary.LittleEndian.PutUint32(root.Bytes()[0:4], uint32(format))
	binary.LittleEndian.PutUint32(root.Bytes()[4:8], uint32(texType))
	binary.LittleEndian.PutUint32(root.Bytes()[8:12], f.PixelWidth)
	binary.LittleEndian.PutUint32(root.Bytes()[12:16], f.PixelHeight)
	binary.LittleEndian.PutUint32(root.Bytes()[16:20], f.PixelDepth)
	binary.LittleEndian.PutUint32(root.Bytes()[20:24], f.LayerCount)
	binary.LittleEndian.PutUint32(root.Bytes()[24:28], f.FaceCount)
	binary.LittleEndian.PutUint32(root.Bytes()[28:32], uint32(len(f.Levels)))

	levelsWP := buf.Write(encodeLevels(f.Levels))
	container.PutRelativePointer(buf, root.Offset()+32, levelsWP)

	pixelsWP := buf.Write(f.PixelData)
	container.PutRelativePointer(buf, root.Offset()+36, pixelsWP)
	binary.LittleEndian.PutUint32(root.Bytes()[40:44], uint32(len(f.PixelData)))

	return buf, nil
}

func encodeLevels(levels []MipLevel) []byte {
	out := make([]byte, len(levels)*mipLevelRecordSize)
	for i, lvl := range levels {
		o := i * mipLevelRecordSize
		binary.LittleEndian.PutUint64(out[o:o+8], lvl.Offset)
		binary.LittleEndian.PutUint64(out[o+8:o+16], lvl.Length)
		binary.LittleEndian.PutUint32(out[o+16:o+20], lvl.Width)
		binary.LittleEndian.PutUint32(out[o+20:o+24], lvl.Height)
		binary.LittleEndian.PutUint32(out[o+24:o+28], lvl.Depth)
	}
	return out
}
