package shaderpp

import "github.com/konstatoivanen/pkassetc/internal/strutil"

// TypeTable is the whole-identifier-safe HLSL->GLSL primitive type and
// builtin rewrite table, applied entry by entry by ReplaceAllTable.
// Longer identifiers are listed before their prefixes (e.g. "float3x4"
// before "float3"), but ReplaceAll only matches whole identifiers, so
// "float3" never matches inside "float3x4" whichever entry runs first.
var TypeTable = []strutil.Pair{
	// Matrix types, longest-suffix forms first.
	{"float4x4", "mat4"}, {"float3x4", "mat3x4"}, {"float2x4", "mat2x4"},
	{"float4x3", "mat4x3"}, {"float3x3", "mat3"}, {"float2x3", "mat2x3"},
	{"float4x2", "mat4x2"}, {"float3x2", "mat3x2"}, {"float2x2", "mat2"},
	// Vector types.
	{"float4", "vec4"}, {"float3", "vec3"}, {"float2", "vec2"},
	{"int4", "ivec4"}, {"int3", "ivec3"}, {"int2", "ivec2"},
	{"uint4", "uvec4"}, {"uint3", "uvec3"}, {"uint2", "uvec2"},
	{"bool4", "bvec4"}, {"bool3", "bvec3"}, {"bool2", "bvec2"},
	{"half4", "vec4"}, {"half3", "vec3"}, {"half2", "vec2"}, {"half", "float"},
	{"double4", "dvec4"}, {"double3", "dvec3"}, {"double2", "dvec2"},
	// Scalars and texture/sampler objects.
	{"float1", "float"}, {"int1", "int"}, {"uint1", "uint"},
	{"Texture2DArray", "sampler2DArray"}, {"Texture2D", "sampler2D"},
	{"TextureCubeArray", "samplerCubeArray"}, {"TextureCube", "samplerCube"},
	{"Texture3D", "sampler3D"}, {"RWTexture2D", "image2D"}, {"RWTexture3D", "image3D"},
	{"SamplerState", "sampler"}, {"SamplerComparisonState", "samplerShadow"},
	// Function renames.
	{"lerp", "mix"}, {"frac", "fract"}, {"rsqrt", "inversesqrt"},
	{"fmod", "mod"}, {"ddx", "dFdx"}, {"ddy", "dFdy"},
	{"mul", "pk_hlsl_mul"}, {"asuint", "floatBitsToUint"}, {"asfloat", "uintBitsToFloat"},
	{"atan2", "atan"}, {"saturate", "clamp01"},
}

// RewriteHLSL applies TypeTable over src in order, whole-identifier-safe.
func RewriteHLSL(src string) string {
	return strutil.ReplaceAllTable(src, TypeTable)
}
