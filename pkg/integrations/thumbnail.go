package integrations

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ThumbnailSettings controls how album images are scaled and encoded.
type ThumbnailSettings struct {
	MaxWidth  int
	MaxHeight int
	Grayscale bool
	Contrast  float64
	Format    string // jpeg or png
	Quality   int    // JPEG quality
}

func DefaultThumbnailSettings() ThumbnailSettings {
	return ThumbnailSettings{
		MaxWidth:  1200,
		MaxHeight: 1600,
		Contrast:  1.0,
		Format:    "jpeg",
		Quality:   85,
	}
}

// Thumbnailer scales images down to fit a bounding box.
type Thumbnailer struct {
	settings ThumbnailSettings
}

func NewThumbnailer(settings ThumbnailSettings) *Thumbnailer {
	return &Thumbnailer{settings: settings}
}

// Extension returns the file extension of encoded output.
func (p *Thumbnailer) Extension() string {
	if p.settings.Format == "png" {
		return ".png"
	}
	return ".jpg"
}

// Process decodes, resizes and re-encodes an image.
func (p *Thumbnailer) Process(input io.Reader) ([]byte, error) {
	img, _, err := image.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := p.calculateDimensions(bounds.Dx(), bounds.Dy())

	var processed image.Image = img
	if newWidth != bounds.Dx() || newHeight != bounds.Dy() {
		processed = p.resize(img, newWidth, newHeight)
	}
	if p.settings.Grayscale {
		processed = p.toGrayscale(processed)
	}
	if p.settings.Contrast != 0 && p.settings.Contrast != 1.0 {
		processed = p.adjustContrast(processed, p.settings.Contrast)
	}

	return p.encode(processed)
}

// ProcessFile is Process over the file at path.
func (p *Thumbnailer) ProcessFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Process(f)
}

// calculateDimensions fits width x height into the bounding box keeping the
// aspect ratio. Images never grow.
func (p *Thumbnailer) calculateDimensions(width, height int) (int, int) {
	if p.settings.MaxWidth <= 0 || p.settings.MaxHeight <= 0 {
		return width, height
	}
	if width <= p.settings.MaxWidth && height <= p.settings.MaxHeight {
		return width, height
	}

	widthScale := float64(p.settings.MaxWidth) / float64(width)
	heightScale := float64(p.settings.MaxHeight) / float64(height)
	scale := widthScale
	if heightScale < widthScale {
		scale = heightScale
	}

	return max(1, int(float64(width)*scale)), max(1, int(float64(height)*scale))
}

func (p *Thumbnailer) resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func (p *Thumbnailer) toGrayscale(img image.Image) image.Image {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

func (p *Thumbnailer) adjustContrast(img image.Image, factor float64) image.Image {
	bounds := img.Bounds()
	adjusted := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			adjusted.SetRGBA(x, y, color.RGBA{
				R: adjustChannel(uint8(r>>8), factor),
				G: adjustChannel(uint8(g>>8), factor),
				B: adjustChannel(uint8(b>>8), factor),
				A: uint8(a >> 8),
			})
		}
	}
	return adjusted
}

// adjustChannel stretches value away from middle gray.
func adjustChannel(value uint8, factor float64) uint8 {
	adjusted := (float64(value)-128)*factor + 128
	if adjusted < 0 {
		return 0
	}
	if adjusted > 255 {
		return 255
	}
	return uint8(adjusted)
}

func (p *Thumbnailer) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer

	switch p.settings.Format {
	case "jpeg", "jpg", "":
		quality := p.settings.Quality
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", p.settings.Format)
	}

	return buf.Bytes(), nil
}
