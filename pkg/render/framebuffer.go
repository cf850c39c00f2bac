// Package render draws point-cloud frames and commits them to animation sinks.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/nfnt/resize"
)

// Framebuffer is a 2D array of pixels. Frames are drawn into it at a
// supersampled size and reduced with Downscale.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// FramebufferFromImage copies img into a new framebuffer.
func FramebufferFromImage(img image.Image) *Framebuffer {
	b := img.Bounds()
	fb := NewFramebuffer(b.Dx(), b.Dy())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.Pixels[y*fb.Width+x] = color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
		}
	}
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawThickLine draws a line w pixels wide by stamping a square brush along
// it.
func (fb *Framebuffer) DrawThickLine(x0, y0, x1, y1, w int, c color.RGBA) {
	if w <= 1 {
		fb.DrawLine(x0, y0, x1, y1, c)
		return
	}
	lo := -(w - 1) / 2
	hi := lo + w - 1
	for oy := lo; oy <= hi; oy++ {
		for ox := lo; ox <= hi; ox++ {
			fb.DrawLine(x0+ox, y0+oy, x1+ox, y1+oy, c)
		}
	}
}

// FillCircle draws a filled disc centered at (cx, cy). Pixels whose centers
// fall inside the radius are painted.
func (fb *Framebuffer) FillCircle(cx, cy, r float64, c color.RGBA) {
	if r <= 0 {
		return
	}
	minX := int(math.Floor(cx - r))
	maxX := int(math.Ceil(cx + r))
	minY := int(math.Floor(cy - r))
	maxY := int(math.Ceil(cy + r))
	rSq := r * r

	for y := max(minY, 0); y <= min(maxY, fb.Height-1); y++ {
		dy := float64(y) + 0.5 - cy
		for x := max(minX, 0); x <= min(maxX, fb.Width-1); x++ {
			dx := float64(x) + 0.5 - cx
			if dx*dx+dy*dy <= rSq {
				fb.Pixels[y*fb.Width+x] = c
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// Downscale returns the framebuffer resized to width x height with bilinear
// filtering. A framebuffer already at that size is converted directly.
func (fb *Framebuffer) Downscale(width, height int) *image.RGBA {
	img := fb.ToImage()
	if fb.Width == width && fb.Height == height {
		return img
	}
	out := resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	if rgba, ok := out.(*image.RGBA); ok {
		return rgba
	}
	return FramebufferFromImage(out).ToImage()
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
