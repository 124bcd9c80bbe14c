package videoframe

type PixelFormat uint8

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatB8G8R8A8UNorm
	PixelFormatB8G8R8X8UNorm
	PixelFormatB8G8R8A8Typeless
	PixelFormatB8G8R8A8UNormSRGB
	PixelFormatB8G8R8X8Typeless
	PixelFormatB8G8R8X8UNormSRGB
	PixelFormatR8G8B8A8UNorm
	PixelFormatR8G8B8X8UNorm
	PixelFormatB8G8R8
	PixelFormatGray8
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatUnknown:           "UNKNOWN",
	PixelFormatB8G8R8A8UNorm:     "B8G8R8A8_UNORM",
	PixelFormatB8G8R8X8UNorm:     "B8G8R8X8_UNORM",
	PixelFormatB8G8R8A8Typeless:  "B8G8R8A8_TYPELESS",
	PixelFormatB8G8R8A8UNormSRGB: "B8G8R8A8_UNORM_SRGB",
	PixelFormatB8G8R8X8Typeless:  "B8G8R8X8_TYPELESS",
	PixelFormatB8G8R8X8UNormSRGB: "B8G8R8X8_UNORM_SRGB",
	PixelFormatR8G8B8A8UNorm:     "R8G8B8A8_UNORM",
	PixelFormatR8G8B8X8UNorm:     "R8G8B8X8_UNORM",
	PixelFormatB8G8R8:            "B8G8R8",
	PixelFormatGray8:             "GRAY8",
}

func (p PixelFormat) String() string {
	if s, ok := pixelFormatNames[p]; ok {
		return s
	}
	return pixelFormatNames[PixelFormatUnknown]
}

// Accepted reports whether p is one of the 32-bit BGR(A) layouts the
// encoders can consume directly.
func (p PixelFormat) Accepted() bool {
	switch p {
	case PixelFormatB8G8R8A8UNorm,
		PixelFormatB8G8R8X8UNorm,
		PixelFormatB8G8R8A8Typeless,
		PixelFormatB8G8R8A8UNormSRGB,
		PixelFormatB8G8R8X8Typeless,
		PixelFormatB8G8R8X8UNormSRGB:
		return true
	}
	return false
}
