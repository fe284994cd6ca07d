package service

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nicky-ayoub/ebitgallery/internal/scan"
)

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGetImageInfo(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 64, 32)
	info, err := NewImageService().GetImageInfo(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 64 || info.Height != 32 || info.Format != "png" {
		t.Fatalf("info = %+v", info)
	}
	if info.Size <= 0 {
		t.Fatalf("size = %d", info.Size)
	}
	if info.Orientation != 1 {
		t.Fatalf("orientation = %d, want 1", info.Orientation)
	}
}

func TestGetImageInfoErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewImageService().GetImageInfo(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewImageService().GetImageInfo(bad); err == nil {
		t.Fatal("expected error for garbage file")
	}
}

func TestLoadImageDownscales(t *testing.T) {
	path := writePNG(t, t.TempDir(), "wide.png", 300, 100)
	svc := &ImageService{MaxTextureSize: 60}
	img, err := svc.LoadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 20 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestLoadTextureFallsBackWithoutThumbnail(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 10, 20)
	svc := &ImageService{PreferThumbnails: true}
	if _, err := svc.GetEmbeddedThumbnail(path); err == nil {
		t.Fatal("png has no exif thumbnail")
	}
	img, err := svc.LoadTexture(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 20 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, max int
		ww, wh    int
	}{
		{100, 50, 200, 100, 50},
		{100, 50, 0, 100, 50},
		{400, 100, 100, 100, 25},
		{100, 400, 100, 25, 100},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		img := Fit(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.max)
		if b := img.Bounds(); b.Dx() != tt.ww || b.Dy() != tt.wh {
			t.Errorf("Fit(%dx%d, %d) = %v, want %dx%d", tt.w, tt.h, tt.max, b, tt.ww, tt.wh)
		}
	}
}

type stubScanner struct {
	items scan.FileItems
}

func (s stubScanner) Run(string, scan.LoggerFunc) <-chan scan.FileItem {
	ch := make(chan scan.FileItem, len(s.items))
	for _, it := range s.items {
		ch <- it
	}
	close(ch)
	return ch
}

func TestCollect(t *testing.T) {
	svc := NewScannerService(stubScanner{items: scan.FileItems{
		{Path: "a.jpg"}, {Path: "b.txt"}, {Path: "c.png"},
	}})
	items, err := svc.Collect("dir", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].Path != "a.jpg" || items[1].Path != "c.png" {
		t.Fatalf("items = %+v", items)
	}

	empty := NewScannerService(stubScanner{})
	if _, err := empty.Collect("dir", nil); err == nil {
		t.Fatal("expected error for empty scan")
	}
}

// exifOrientation is an APP1 segment holding a little endian TIFF header and
// one IFD entry: Orientation (0x0112), SHORT, count 1, value 6.
var exifOrientation = []byte{
	0xff, 0xe1, 0x00, 0x22,
	'E', 'x', 'i', 'f', 0, 0,
	'I', 'I', 0x2a, 0x00, 0x08, 0x00, 0x00, 0x00,
	0x01, 0x00,
	0x12, 0x01, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x06, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00,
}

// writeRotatedJPEG writes a 64x32 JPEG, red on the left and blue on the right,
// tagged to be shown rotated 90 degrees clockwise.
func writeRotatedJPEG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			c := color.RGBA{R: 0xff, A: 0xff}
			if x >= 32 {
				c = color.RGBA{B: 0xff, A: 0xff}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	// Splice the EXIF segment in right after SOI.
	out := append([]byte{}, data[:2]...)
	out = append(out, exifOrientation...)
	out = append(out, data[2:]...)

	path := filepath.Join(dir, "rotated.jpg")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRotatedJPEGIsUpright(t *testing.T) {
	path := writeRotatedJPEG(t, t.TempDir())
	svc := NewImageService()

	info, err := svc.GetImageInfo(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Orientation != 6 || info.Width != 32 || info.Height != 64 {
		t.Fatalf("info = %+v, want orientation 6 at 32x64", info)
	}

	img, err := svc.LoadTexture(path)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 64 {
		t.Fatalf("texture bounds = %v, want 32x64", b)
	}
	// The stored left half ends up on top.
	if r, _, b, _ := img.At(16, 8).RGBA(); r>>8 < 0xc0 || b>>8 > 0x40 {
		t.Errorf("top pixel = %v, want red", img.At(16, 8))
	}
	if r, _, b, _ := img.At(16, 56).RGBA(); b>>8 < 0xc0 || r>>8 > 0x40 {
		t.Errorf("bottom pixel = %v, want blue", img.At(16, 56))
	}
}

func TestOrient(t *testing.T) {
	marker := color.RGBA{R: 0xff, A: 0xff}
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, marker)

	tests := []struct {
		orientation int
		w, h        int
		x, y        int
	}{
		{1, 3, 2, 0, 0},
		{2, 3, 2, 2, 0},
		{3, 3, 2, 2, 1},
		{4, 3, 2, 0, 1},
		{5, 2, 3, 0, 0},
		{6, 2, 3, 1, 0},
		{7, 2, 3, 1, 2},
		{8, 2, 3, 0, 2},
		{9, 3, 2, 0, 0},
	}
	for _, tt := range tests {
		got := Orient(src, tt.orientation)
		if b := got.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("orientation %d: bounds %v, want %dx%d", tt.orientation, b, tt.w, tt.h)
			continue
		}
		if c := color.RGBAModel.Convert(got.At(tt.x, tt.y)); c != marker {
			t.Errorf("orientation %d: (%d,%d) = %v, want marker", tt.orientation, tt.x, tt.y, c)
		}
	}
}

func TestOrientOffsetBounds(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 10, 10))
	full.Set(4, 2, color.RGBA{G: 0xff, A: 0xff})
	sub := full.SubImage(image.Rect(4, 2, 7, 4))

	got := Orient(sub, 6)
	if b := got.Bounds(); b != image.Rect(0, 0, 2, 3) {
		t.Fatalf("bounds = %v", b)
	}
	if _, g, _, _ := got.At(1, 0).RGBA(); g>>8 != 0xff {
		t.Fatalf("(1,0) = %v, want green", got.At(1, 0))
	}
}
