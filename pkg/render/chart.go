package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"slices"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/taigrr/meshcloud/pkg/math3d"
	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

var (
	ErrRenderFailure = errors.New("render failure")
	ErrSinkClosed    = errors.New("sink closed")
)

const (
	captionHeight = 24 // Output pixels reserved above the plot
	plotMargin    = 10 // Output pixels around the plot
	lightLines    = 3  // Light grid lines between major ticks
)

// Style controls the look of a chart.
type Style struct {
	Caption     string
	Background  Color
	Point       Color
	Grid        Color
	LightGrid   Color
	Edge        Color
	Label       Color
	PointRadius float64 // Output pixels
	Supersample int
	Labels      bool
}

// DefaultStyle returns blue points on white with a faint grid.
func DefaultStyle() Style {
	return Style{
		Caption:     "mesh-rand test",
		Background:  ColorWhite,
		Point:       ColorBlue,
		Grid:        Mix(ColorBlack, ColorWhite, 0.15),
		LightGrid:   Mix(ColorBlack, ColorWhite, 0.05),
		Edge:        Mix(ColorBlack, ColorWhite, 0.5),
		Label:       ColorBlack,
		PointRadius: 1.2,
		Supersample: 2,
		Labels:      true,
	}
}

// Chart renders frames of a point cloud inside the viewing cube. A Chart
// reuses its buffers between frames and is not safe for concurrent use.
type Chart struct {
	width, height int
	style         Style

	fb     *Framebuffer
	order  []int
	screen []math3d.Vec3 // x, y, depth per point
}

// NewChart creates a chart that produces width x height images.
func NewChart(width, height int, style Style) (*Chart, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid frame size %dx%d", ErrRenderFailure, width, height)
	}
	if style.Supersample < 1 {
		style.Supersample = 1
	}
	s := style.Supersample
	return &Chart{
		width:  width,
		height: height,
		style:  style,
		fb:     NewFramebuffer(width*s, height*s),
	}, nil
}

// Size returns the output image size.
func (c *Chart) Size() (width, height int) {
	return c.width, c.height
}

// Style returns the chart style.
func (c *Chart) Style() Style {
	return c.style
}

// plotArea is the output-pixel rectangle the cube is drawn into.
func (c *Chart) plotArea() image.Rectangle {
	top := plotMargin
	if c.style.Caption != "" {
		top += captionHeight
	}
	r := image.Rect(plotMargin, top, c.width-plotMargin, c.height-plotMargin)
	if r.Empty() {
		return image.Rect(0, 0, c.width, c.height)
	}
	return r
}

// Render draws one frame and returns it at output size.
func (c *Chart) Render(axes [3]viewport.AxisRange, proj Projection, cloud sampling.PointCloud) (*image.RGBA, error) {
	for i, r := range axes {
		if !(r.Span() > 0) || math.IsInf(r.Span(), 0) {
			return nil, fmt.Errorf("%w: axis %d has empty range [%v, %v]", ErrRenderFailure, i, r.Min, r.Max)
		}
	}
	if !finite(proj.Yaw, proj.Pitch, proj.Scale) || proj.Scale <= 0 {
		return nil, fmt.Errorf("%w: invalid projection %+v", ErrRenderFailure, proj)
	}

	s := c.style.Supersample
	area := c.plotArea()
	v := newViewer(proj, image.Rect(area.Min.X*s, area.Min.Y*s, area.Max.X*s, area.Max.Y*s))

	c.fb.Clear(c.style.Background)
	c.drawGrid(v, axes)
	newWireframe(v, c.fb, s).DrawCube(c.style.Edge)
	c.drawPoints(v, axes, cloud)

	img := c.fb.Downscale(c.width, c.height)
	if c.style.Caption != "" {
		drawText(img, c.style.Caption, c.width/2, plotMargin+captionHeight/2, c.style.Label)
	}
	if c.style.Labels {
		c.drawLabels(img, newViewer(proj, area), axes)
	}
	return img, nil
}

// drawGrid draws the grid on the three cube faces behind the cloud.
func (c *Chart) drawGrid(v viewer, axes [3]viewport.AxisRange) {
	w := newWireframe(v, c.fb, 1)
	for axis := range 3 {
		side := backSide(v, axis)

		// Every axis shares one span and step, so one tick list serves both
		// in-plane axes.
		major := unitTicks(axes[(axis+1)%3])
		w.DrawGridPlane(axis, side, lightTicks(major), c.style.LightGrid)
		w.DrawGridPlane(axis, side, major, c.style.Grid)
	}
}

// backSide returns the side (-1 or 1) of the cube face normal to axis that
// faces away from the viewer.
func backSide(v viewer, axis int) float64 {
	if v.facing(math3d.Zero3().WithAxis(axis, 1)) > 0 {
		return -1
	}
	return 1
}

// unitTicks returns r's ticks mapped into [-1, 1].
func unitTicks(r viewport.AxisRange) []float64 {
	ticks := r.Ticks()
	out := make([]float64, len(ticks))
	for i, t := range ticks {
		out[i] = toUnit(t, r)
	}
	return out
}

func toUnit(t float64, r viewport.AxisRange) float64 {
	return 2*(t-r.Min)/r.Span() - 1
}

func lightTicks(major []float64) []float64 {
	var out []float64
	for i := 1; i < len(major); i++ {
		step := (major[i] - major[i-1]) / (lightLines + 1)
		for j := 1; j <= lightLines; j++ {
			out = append(out, major[i-1]+float64(j)*step)
		}
	}
	return out
}

// lightDir is the view-space light direction.
var lightDir = math3d.V3(0.3, 0.5, 1).Normalize()

// drawPoints draws the cloud back to front.
func (c *Chart) drawPoints(v viewer, axes [3]viewport.AxisRange, cloud sampling.PointCloud) {
	n := len(cloud.Points)
	c.screen = slices.Grow(c.screen[:0], n)[:n]
	c.order = slices.Grow(c.order[:0], n)[:n]

	for i, p := range cloud.Points {
		u := math3d.V3(
			toUnit(p.Position.X, axes[0]),
			toUnit(p.Position.Y, axes[1]),
			toUnit(p.Position.Z, axes[2]),
		)
		x, y, d := v.project(u)
		c.screen[i] = math3d.V3(x, y, d)
		c.order[i] = i
	}

	slices.SortStableFunc(c.order, func(a, b int) int {
		da, db := c.screen[a].Z, c.screen[b].Z
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})

	r := c.style.PointRadius * float64(c.style.Supersample)
	for _, i := range c.order {
		col := c.style.Point
		if nrm := cloud.Points[i].Normal; nrm.LenSq() > 0 {
			lit := math.Abs(v.view.MulVec3Dir(nrm).Normalize().Dot(lightDir))
			col = MultiplyColor(col, 0.45+0.55*lit)
		}
		sp := c.screen[i]
		c.fb.FillCircle(sp.X, sp.Y, r, col)
	}
}

// drawLabels writes major tick values next to one edge per axis, thinning
// them until neighbouring labels no longer overlap on screen.
func (c *Chart) drawLabels(img *image.RGBA, v viewer, axes [3]viewport.AxisRange) {
	face := basicfont.Face7x13
	for axis := range 3 {
		edge := labelEdge(v, axis)
		ticks := axes[axis].Ticks()
		texts := make([]string, len(ticks))
		pts := make([]image.Point, len(ticks))
		width := 0
		for i, t := range ticks {
			texts[i] = formatTick(t)
			width = max(width, font.MeasureString(face, texts[i]).Ceil())
			x, y, _ := v.project(edge.WithAxis(axis, toUnit(t, axes[axis])).Scale(1.12))
			pts[i] = image.Pt(round(x), round(y))
		}
		stride := labelStride(pts, image.Pt(width+labelGap, face.Height+labelGap))
		for i := 0; i < len(ticks); i += stride {
			drawText(img, texts[i], pts[i].X, pts[i].Y, c.style.Label)
		}
	}
}

const labelGap = 4

// labelStrides are the tick strides tried in order, as in 1-2-5 axis labelling.
var labelStrides = []int{1, 2, 5, 10, 20}

// labelStride returns the smallest stride from labelStrides at which every
// pair of consecutive labels centered on pts, each a box of size box, stays
// apart. When none fits, only the first label is kept.
func labelStride(pts []image.Point, box image.Point) int {
	for _, stride := range labelStrides {
		if stride >= len(pts) {
			break
		}
		fits := true
		for i := stride; i < len(pts); i += stride {
			dx, dy := abs(pts[i].X-pts[i-stride].X), abs(pts[i].Y-pts[i-stride].Y)
			if dx < box.X && dy < box.Y {
				fits = false
				break
			}
		}
		if fits {
			return stride
		}
	}
	return max(len(pts), 1)
}

// labelEdge picks the cube edge parallel to axis whose midpoint sits lowest
// and, for the vertical axis, furthest left on screen.
func labelEdge(v viewer, axis int) math3d.Vec3 {
	var best math3d.Vec3
	bestScore := math.Inf(-1)
	a, b := (axis+1)%3, (axis+2)%3
	for _, sa := range []float64{-1, 1} {
		for _, sb := range []float64{-1, 1} {
			p := math3d.Zero3().WithAxis(a, sa).WithAxis(b, sb)
			x, y, _ := v.project(p)
			score := y
			if axis == 1 {
				score = -x
			}
			if score > bestScore {
				best, bestScore = p, score
			}
		}
	}
	return best
}

func formatTick(t float64) string {
	if math.Abs(t) < 1e-12 {
		t = 0
	}
	return strconv.FormatFloat(t, 'g', 3, 64)
}

// drawText draws s centered on (x, y).
func drawText(img *image.RGBA, s string, x, y int, c color.RGBA) {
	face := basicfont.Face7x13
	x -= font.MeasureString(face, s).Ceil() / 2
	y += (face.Ascent - face.Descent) / 2
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
