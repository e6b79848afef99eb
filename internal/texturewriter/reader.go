// Package texturewriter adapts a parsed KTX2 container into a
// .pktexture asset: mip offsets and the pixel buffer are copied
// verbatim, the Vulkan format code is mapped to an internal format tag,
// and the texture type is inferred from the KTX2 layer/face/depth
// counts.
package texturewriter

// MipLevel describes one mip level's placement inside PixelData.
type MipLevel struct {
	Offset uint64
	Length uint64
	Width  uint32
	Height uint32
	Depth  uint32
}

// Ktx2File is the parsed result handed back by the external KTX2 reader
// collaborator. Fields mirror the subset of the KTX2 container header
// this pipeline needs; everything else (key/value metadata, supercompression)
// is the reader's concern, not this package's.
type Ktx2File struct {
	VkFormat    uint32
	PixelWidth  uint32
	PixelHeight uint32
	PixelDepth  uint32
	LayerCount  uint32
	FaceCount   uint32
	Levels      []MipLevel
	PixelData   []byte
}

// Ktx2Reader is the external KTX2-container-parsing collaborator.
type Ktx2Reader interface {
	Read(path string) (*Ktx2File, error)
}

// TextureType is the internal texture dimensionality tag, inferred from
// a Ktx2File's layer/face/depth counts.
type TextureType uint32

const (
	TextureType2D TextureType = iota
	TextureType2DArray
	TextureTypeCube
	TextureTypeCubeArray
	TextureType3D
)

// InferType derives the texture's dimensionality from KTX2's layer
// count (0 or 1 means "no array"), face count (6 means a cubemap), and
// pixel depth (>1 means a 3D volume).
func InferType(f *Ktx2File) TextureType {
	isArray := f.LayerCount > 1
	isCube := f.FaceCount == 6

	switch {
	case isCube && isArray:
		return TextureTypeCubeArray
	case isCube:
		return TextureTypeCube
	case f.PixelDepth > 1:
		return TextureType3D
	case isArray:
		return TextureType2DArray
	default:
		return TextureType2D
	}
}
