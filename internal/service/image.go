// Package service provides image loading and metadata extraction services.
package service

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// DefaultMaxTextureSize caps the longest side of a loaded texture.
const DefaultMaxTextureSize = 2048

// ImageInfo holds metadata about an image. Width and Height are the
// displayed size, after the EXIF orientation is applied.
type ImageInfo struct {
	Width       int
	Height      int
	Format      string
	Size        int64
	ModTime     time.Time
	Orientation int // EXIF orientation, 1 when absent
}

// ImageService provides methods for loading and decoding images.
type ImageService struct {
	// MaxTextureSize bounds decoded images; 0 disables downscaling.
	MaxTextureSize int
	// PreferThumbnails loads the embedded EXIF thumbnail when one exists.
	PreferThumbnails bool
}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{MaxTextureSize: DefaultMaxTextureSize}
}

// GetImageInfo reads an image file and extracts metadata without decoding the full image,
// which is significantly more performant.
func (is *ImageService) GetImageInfo(path string) (*ImageInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	config, format, err := image.DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("decoding image config: %w", err)
	}

	// Reset file pointer to read EXIF data
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("seeking file for exif: %w", err)
	}

	exifData, _ := exif.Decode(file) // Ignore error, EXIF might not be present

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("getting file stats: %w", err)
	}

	info := &ImageInfo{
		Width:       config.Width,
		Height:      config.Height,
		Format:      format,
		Size:        fileInfo.Size(),
		ModTime:     fileInfo.ModTime(),
		Orientation: orientation(exifData),
	}
	if info.Orientation >= 5 {
		// Orientations 5-8 turn the image on its side.
		info.Width, info.Height = info.Height, info.Width
	}

	return info, nil
}

// GetEmbeddedThumbnail attempts to read an embedded EXIF thumbnail from an image file.
// It returns the decoded thumbnail image or an error if one is not found or cannot be decoded.
func (is *ImageService) GetEmbeddedThumbnail(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file for thumbnail: %w", err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		return nil, errors.New("no EXIF data found")
	}

	thumbBytes, err := x.JpegThumbnail()
	if err != nil {
		return nil, fmt.Errorf("no JPEG thumbnail in EXIF: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(thumbBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding thumbnail: %w", err)
	}
	return Orient(img, orientation(x)), nil
}

// LoadImage decodes the full image and downscales it to MaxTextureSize.
func (is *ImageService) LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	// Reset file pointer to read EXIF data
	o := 1
	if _, err := file.Seek(0, io.SeekStart); err == nil {
		x, _ := exif.Decode(file) // Ignore error, EXIF might not be present
		o = orientation(x)
	}
	return Fit(Orient(img, o), is.MaxTextureSize), nil
}

// LoadTexture returns the image a gallery plane should display: the embedded
// thumbnail when PreferThumbnails is set and one exists, else the full image.
func (is *ImageService) LoadTexture(path string) (image.Image, error) {
	if is.PreferThumbnails {
		if img, err := is.GetEmbeddedThumbnail(path); err == nil {
			return img, nil
		}
	}
	return is.LoadImage(path)
}

// Fit scales img down so that neither side exceeds maxSize, keeping its
// aspect ratio. Images already small enough are returned unchanged.
func Fit(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	nw, nh := maxSize, maxSize
	if w >= h {
		nh = max(1, h*maxSize/w)
	} else {
		nw = max(1, w*maxSize/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// orientation returns the EXIF orientation tag, or 1 when it is missing or
// out of range.
func orientation(x *exif.Exif) int {
	if x == nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// Orient returns img rotated and flipped so that it displays upright for the
// given EXIF orientation. Orientation 1 and unknown values return img as is.
func Orient(img image.Image, o int) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())

	// Each matrix maps source pixel space onto the upright image.
	var m f64.Aff3
	switch o {
	case 2: // mirrored horizontally
		m = f64.Aff3{-1, 0, w, 0, 1, 0}
	case 3: // rotated 180
		m = f64.Aff3{-1, 0, w, 0, -1, h}
	case 4: // mirrored vertically
		m = f64.Aff3{1, 0, 0, 0, -1, h}
	case 5: // transposed
		m = f64.Aff3{0, 1, 0, 1, 0, 0}
	case 6: // rotated 90 clockwise
		m = f64.Aff3{0, -1, h, 1, 0, 0}
	case 7: // transversed
		m = f64.Aff3{0, -1, h, -1, 0, w}
	case 8: // rotated 90 counter-clockwise
		m = f64.Aff3{0, 1, 0, -1, 0, w}
	default:
		return img
	}

	// Move the source origin to zero first.
	minX, minY := float64(b.Min.X), float64(b.Min.Y)
	m[2] -= m[0]*minX + m[1]*minY
	m[5] -= m[3]*minX + m[4]*minY

	dw, dh := b.Dx(), b.Dy()
	if o >= 5 {
		dw, dh = dh, dw
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.NearestNeighbor.Transform(dst, m, img, b, draw.Src, nil)
	return dst
}
