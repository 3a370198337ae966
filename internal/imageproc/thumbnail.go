package imageproc

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// ThumbnailSize is the edge length of the box thumbnails are fitted into.
	ThumbnailSize = 256

	// ThumbnailQuality is the JPEG quality used for thumbnails.
	ThumbnailQuality = 80
)

// ErrImageDecode is returned when the input is not a decodable raster image.
var ErrImageDecode = errors.New("image decode failed")

// DetectFormat inspects the raw bytes and returns the image format:
// "jpeg", "png", "gif", "bmp", "tiff", or "" if unknown.
func DetectFormat(data []byte) string {
	// JPEG: starts with FF D8 FF
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "jpeg"
	}
	// PNG: starts with 89 50 4E 47 0D 0A 1A 0A
	if len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}) {
		return "png"
	}
	// GIF: starts with GIF87a or GIF89a
	if len(data) >= 6 && data[0] == 'G' && data[1] == 'I' && data[2] == 'F' {
		return "gif"
	}
	// BMP: starts with BM
	if len(data) >= 2 && data[0] == 'B' && data[1] == 'M' {
		return "bmp"
	}
	// TIFF: II*\0 or MM\0*
	if len(data) >= 4 && (bytes.Equal(data[:4], []byte{'I', 'I', 0x2A, 0x00}) ||
		bytes.Equal(data[:4], []byte{'M', 'M', 0x00, 0x2A})) {
		return "tiff"
	}
	return ""
}

// Thumbnail decodes data, scales it to fit within ThumbnailSize x
// ThumbnailSize preserving aspect ratio and re-encodes it as JPEG.
// Images already inside the box are re-encoded at their original size.
func Thumbnail(data []byte) ([]byte, error) {
	if DetectFormat(data) == "" {
		return nil, fmt.Errorf("%w: unsupported or unrecognized image format", ErrImageDecode)
	}

	// Phone cameras store rotation in EXIF; apply it before resizing.
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(ThumbnailQuality)); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
