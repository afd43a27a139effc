// Package picture post-processes generated images: decoding, upscaling to a
// target resolution, placeholder rendering and PNG encoding.
package picture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// Size is a width × height in pixels.
type Size struct {
	Width  int
	Height int
}

// String renders s as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Megapixels returns the pixel count in millions, rounded to one decimal.
func (s Size) Megapixels() float64 {
	return math.Round(float64(s.Width)*float64(s.Height)/1e5) / 10
}

// SizeOf returns the size of img.
func SizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{Width: b.Dx(), Height: b.Dy()}
}

// Decode decodes a PNG, JPEG, GIF or WebP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("picture: decode: %w", err)
	}

	return img, nil
}

// Upscale resizes img to target when target is larger than img in either
// dimension. It reports whether a resize happened; smaller targets leave
// the image untouched.
func Upscale(img image.Image, target Size) (image.Image, bool) {
	src := SizeOf(img)
	if target.Width <= src.Width && target.Height <= src.Height {
		return img, false
	}

	dst := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	return dst, true
}

var (
	placeholderBackground = color.RGBA{R: 20, G: 30, B: 60, A: 255}
	placeholderForeground = color.RGBA{R: 100, G: 200, B: 255, A: 255}
)

// Placeholder renders a solid canvas of the given size with text centred on
// it. Lines are separated by "\n" and left-aligned inside the text block.
func Placeholder(size Size, text string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	lines := strings.Split(text, "\n")
	lineHeight := face.Metrics().Height.Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderForeground),
		Face: face,
	}

	blockWidth := 0
	for _, line := range lines {
		blockWidth = max(blockWidth, d.MeasureString(line).Ceil())
	}
	blockHeight := lineHeight * len(lines)

	left := (size.Width - blockWidth) / 2
	top := (size.Height - blockHeight) / 2
	ascent := face.Metrics().Ascent.Ceil()

	for i, line := range lines {
		d.Dot = fixed.P(left, top+ascent+i*lineHeight)
		d.DrawString(line)
	}

	return img
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("picture: encode png: %w", err)
	}

	return nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (image.Image, error) {
	return Decode(bytes.NewReader(data))
}
