package texturewriter

// Format is the internal pixel-format tag a renderer's texture upload
// path switches on. Naming follows the Vulkan format it was mapped
// from, without every compression/swizzle variant Vulkan defines.
type Format uint32

const (
	FormatUnknown Format = iota
	FormatR8Unorm
	FormatRG8Unorm
	FormatRGBA8Unorm
	FormatRGBA8Srgb
	FormatBGRA8Unorm
	FormatBGRA8Srgb
	FormatR16Float
	FormatRG16Float
	FormatRGBA16Float
	FormatR32Float
	FormatRG32Float
	FormatRGBA32Float
	FormatBC1Unorm
	FormatBC1Srgb
	FormatBC3Unorm
	FormatBC3Srgb
	FormatBC4Unorm
	FormatBC5Unorm
	FormatBC7Unorm
	FormatBC7Srgb
)

// Vulkan VkFormat codes this pipeline knows how to map. Values match
// the Vulkan 1.3 spec's VkFormat enumeration.
const (
	vkFormatR8Unorm            = 9
	vkFormatR8G8Unorm          = 16
	vkFormatR8G8B8A8Unorm      = 37
	vkFormatR8G8B8A8Srgb       = 43
	vkFormatB8G8R8A8Unorm      = 44
	vkFormatB8G8R8A8Srgb       = 50
	vkFormatR16Sfloat          = 76
	vkFormatR16G16Sfloat       = 83
	vkFormatR16G16B16A16Sfloat = 97
	vkFormatR32Sfloat          = 100
	vkFormatR32G32Sfloat       = 103
	vkFormatR32G32B32A32Sfloat = 109
	vkFormatBC1RgbUnormBlock   = 131
	vkFormatBC1RgbSrgbBlock    = 132
	vkFormatBC3UnormBlock      = 137
	vkFormatBC3SrgbBlock       = 138
	vkFormatBC4UnormBlock      = 139
	vkFormatBC5UnormBlock      = 141
	vkFormatBC7UnormBlock      = 145
	vkFormatBC7SrgbBlock       = 146
)

var vkFormatToInternal = map[uint32]Format{
	vkFormatR8Unorm:            FormatR8Unorm,
	vkFormatR8G8Unorm:          FormatRG8Unorm,
	vkFormatR8G8B8A8Unorm:      FormatRGBA8Unorm,
	vkFormatR8G8B8A8Srgb:       FormatRGBA8Srgb,
	vkFormatB8G8R8A8Unorm:      FormatBGRA8Unorm,
	vkFormatB8G8R8A8Srgb:       FormatBGRA8Srgb,
	vkFormatR16Sfloat:          FormatR16Float,
	vkFormatR16G16Sfloat:       FormatRG16Float,
	vkFormatR16G16B16A16Sfloat: FormatRGBA16Float,
	vkFormatR32Sfloat:          FormatR32Float,
	vkFormatR32G32Sfloat:       FormatRG32Float,
	vkFormatR32G32B32A32Sfloat: FormatRGBA32Float,
	vkFormatBC1RgbUnormBlock:   FormatBC1Unorm,
	vkFormatBC1RgbSrgbBlock:    FormatBC1Srgb,
	vkFormatBC3UnormBlock:      FormatBC3Unorm,
	vkFormatBC3SrgbBlock:       FormatBC3Srgb,
	vkFormatBC4UnormBlock:      FormatBC4Unorm,
	vkFormatBC5UnormBlock:      FormatBC5Unorm,
	vkFormatBC7UnormBlock:      FormatBC7Unorm,
	vkFormatBC7SrgbBlock:       FormatBC7Srgb,
}

// MapVkFormat translates a KTX2 file's Vulkan format code to the
// internal format tag. Unrecognised codes map to FormatUnknown rather
// than failing the build; a renderer encountering FormatUnknown can
// reject the asset at load time with the original code still visible
// in the KTX2 source file for debugging.
func MapVkFormat(vkFormat uint32) Format {
	if f, ok := vkFormatToInternal[vkFormat]; ok {
		return f
	}
	return FormatUnknown
}
