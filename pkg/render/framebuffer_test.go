package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           [][2]int
	}{
		{"horizontal", 1, 2, 4, 2, [][2]int{{1, 2}, {2, 2}, {3, 2}, {4, 2}}},
		{"vertical", 3, 0, 3, 2, [][2]int{{3, 0}, {3, 1}, {3, 2}}},
		{"diagonal", 0, 0, 3, 3, [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"reversed", 4, 2, 1, 2, [][2]int{{1, 2}, {2, 2}, {3, 2}, {4, 2}}},
		{"single pixel", 2, 2, 2, 2, [][2]int{{2, 2}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fb := NewFramebuffer(6, 6)
			fb.Clear(ColorWhite)
			fb.DrawLine(tc.x0, tc.y0, tc.x1, tc.y1, ColorBlack)

			painted := 0
			for _, px := range fb.Pixels {
				if px == ColorBlack {
					painted++
				}
			}
			if painted != len(tc.want) {
				t.Errorf("painted %d pixels, want %d", painted, len(tc.want))
			}
			for _, p := range tc.want {
				if got := fb.GetPixel(p[0], p[1]); got != ColorBlack {
					t.Errorf("pixel %v = %v, want black", p, got)
				}
			}
		})
	}
}

func TestSetPixelOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.SetPixel(-1, 0, ColorBlack)
	fb.SetPixel(0, 5, ColorBlack)
	for i, px := range fb.Pixels {
		if px != (Color{}) {
			t.Errorf("pixel %d was painted", i)
		}
	}
	if got := fb.GetPixel(9, 9); got != (Color{}) {
		t.Errorf("GetPixel out of bounds = %v, want zero", got)
	}
}

func TestFillCircle(t *testing.T) {
	fb := NewFramebuffer(11, 11)
	fb.Clear(ColorWhite)
	fb.FillCircle(5.5, 5.5, 3, ColorBlue)

	if fb.GetPixel(5, 5) != ColorBlue {
		t.Error("center not painted")
	}
	if fb.GetPixel(0, 0) != ColorWhite || fb.GetPixel(10, 5) != ColorWhite {
		t.Error("pixels outside the radius were painted")
	}
	// The disc is symmetric about its center.
	for y := range 11 {
		for x := range 11 {
			if fb.GetPixel(x, y) != fb.GetPixel(10-x, 10-y) {
				t.Fatalf("asymmetric at (%d, %d)", x, y)
			}
		}
	}

	// Circles hanging off the edge are clipped, not wrapped.
	fb.Clear(ColorWhite)
	fb.FillCircle(0, 0, 2, ColorBlue)
	if fb.GetPixel(10, 0) != ColorWhite || fb.GetPixel(0, 10) != ColorWhite {
		t.Error("clipped circle wrapped around")
	}
}

func TestDownscale(t *testing.T) {
	fb := NewFramebuffer(40, 20)
	fb.Clear(ColorWhite)
	for y := range 20 {
		fb.DrawLine(0, y, 19, y, ColorBlack)
	}

	img := fb.Downscale(20, 10)
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("Downscale size = %v, want 20x10", b)
	}
	if c := img.RGBAAt(2, 5); c.R > 10 {
		t.Errorf("left half = %v, want black", c)
	}
	if c := img.RGBAAt(17, 5); c.R < 245 {
		t.Errorf("right half = %v, want white", c)
	}

	same := fb.Downscale(40, 20)
	if same.RGBAAt(39, 0) != ColorWhite {
		t.Error("same-size downscale changed pixels")
	}
}

func TestSavePNG(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(ColorBlue)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := savePNG(path, fb.ToImage()); err != nil {
		t.Fatalf("savePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded size = %v", b)
	}
	back := FramebufferFromImage(img)
	if back.GetPixel(2, 1) != ColorBlue {
		t.Errorf("round trip pixel = %v", back.GetPixel(2, 1))
	}
}

func TestMix(t *testing.T) {
	tests := []struct {
		name  string
		alpha float64
		want  Color
	}{
		{"opaque", 1, ColorBlack},
		{"transparent", 0, ColorWhite},
		{"fifteen percent", 0.15, Color{R: 217, G: 217, B: 217, A: 255}},
		{"clamped", 2, ColorBlack},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Mix(ColorBlack, ColorWhite, tc.alpha); got != tc.want {
				t.Errorf("Mix = %v, want %v", got, tc.want)
			}
		})
	}
}

func BenchmarkFillCircle(b *testing.B) {
	fb := NewFramebuffer(1200, 800)
	for b.Loop() {
		for i := range 1000 {
			fb.FillCircle(float64(i%1200), float64(i%800), 2.4, ColorBlue)
		}
	}
}
