package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row holds two framebuffer rows.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := row * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col < r.Width; col++ {
			topColor := r.GetPixel(col, topY)
			botColor := r.GetPixel(col, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(topColor),
					Bg: rgbaToColor(botColor),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// RenderANSI returns the framebuffer as styled half-block text.
func RenderANSI(fb *Framebuffer) string {
	scr := uv.NewScreenBuffer(fb.Width, (fb.Height+1)/2)
	fb.Draw(scr, scr.Bounds())
	return scr.Render()
}

// Preview renders one frame sized for a terminal of cols x rows cells.
func Preview(cols, rows int, axes [3]viewport.AxisRange, proj Projection, cloud sampling.PointCloud) (string, error) {
	style := DefaultStyle()
	style.Caption = ""
	style.Labels = false
	style.PointRadius = 0.6

	chart, err := NewChart(cols, rows*2, style)
	if err != nil {
		return "", err
	}
	img, err := chart.Render(axes, proj, cloud)
	if err != nil {
		return "", err
	}
	return RenderANSI(FramebufferFromImage(img)), nil
}
