package render

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"sync"

	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

const gifTrailer = 0x3B

// netscapeLoop is the application extension that makes the animation loop
// forever.
var netscapeLoop = []byte{
	0x21, 0xFF, 0x0B,
	'N', 'E', 'T', 'S', 'C', 'A', 'P', 'E', '2', '.', '0',
	0x03, 0x01, 0x00, 0x00,
	0x00,
}

// GIFSink streams frames into an animated GIF. OpenGIF writes the header,
// every RenderFrame appends one image block and flushes it to the file, and
// Finalize writes the trailer. A file that was never finalized holds every
// committed frame and lacks only the trailer byte.
type GIFSink struct {
	path   string
	file   *os.File
	w      *bufio.Writer
	chart  *Chart
	delay  int
	width  int
	height int
	screen []byte // header, screen descriptor and global color table
	enc    bytes.Buffer
	frames int
	closed bool
}

// OpenGIF creates the output file, writes the GIF header and returns a sink
// producing width x height frames shown for delay hundredths of a second
// each.
func OpenGIF(path string, width, height, delay int, opts ...Option) (*GIFSink, error) {
	if delay < 0 {
		return nil, fmt.Errorf("%w: negative frame delay %d", ErrRenderFailure, delay)
	}
	chart, err := newChart(width, height, opts)
	if err != nil {
		return nil, err
	}

	s := &GIFSink{
		path:   path,
		chart:  chart,
		delay:  delay,
		width:  width,
		height: height,
	}

	// The stdlib encoder only writes whole files, so the shared prefix is
	// taken from the encoding of a blank frame.
	blank := image.NewPaletted(image.Rect(0, 0, width, height), framePalette)
	if err := s.encode(blank); err != nil {
		return nil, err
	}
	s.screen = bytes.Clone(s.enc.Bytes()[:13+3*len(framePalette)])

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	s.file = f
	s.w = bufio.NewWriter(f)
	s.w.Write(s.screen)
	s.w.Write(netscapeLoop)
	if err := s.w.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: write %s: %w", ErrRenderFailure, path, err)
	}
	return s, nil
}

// Path returns the output path.
func (s *GIFSink) Path() string {
	return s.path
}

// RenderFrame renders one frame and appends it to the file. The frame is on
// disk when RenderFrame returns nil.
func (s *GIFSink) RenderFrame(ctx context.Context, axes [3]viewport.AxisRange, proj Projection, cloud sampling.PointCloud) error {
	if s.closed {
		return ErrSinkClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := s.chart.Render(axes, proj, cloud)
	if err != nil {
		return err
	}

	pal := image.NewPaletted(img.Bounds(), framePalette)
	quantize(pal, img)
	if err := s.encode(pal); err != nil {
		return err
	}

	// Strip the shared prefix and the trailer, keeping the image block.
	b := s.enc.Bytes()
	if !bytes.HasPrefix(b, s.screen) || b[len(b)-1] != gifTrailer {
		return fmt.Errorf("%w: unexpected GIF encoding for frame %d", ErrRenderFailure, s.frames)
	}
	s.w.Write(b[len(s.screen) : len(b)-1])
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrRenderFailure, s.path, err)
	}
	s.frames++
	return nil
}

// encode writes pm as a single-frame GIF into s.enc.
func (s *GIFSink) encode(pm *image.Paletted) error {
	s.enc.Reset()
	err := gif.EncodeAll(&s.enc, &gif.GIF{
		Image: []*image.Paletted{pm},
		Delay: []int{s.delay},
		Config: image.Config{
			ColorModel: framePalette,
			Width:      s.width,
			Height:     s.height,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: encode frame: %w", ErrRenderFailure, err)
	}
	return nil
}

// Frames returns the number of committed frames.
func (s *GIFSink) Frames() int {
	return s.frames
}

// Finalize writes the trailer and closes the file.
func (s *GIFSink) Finalize() error {
	if s.closed {
		return ErrSinkClosed
	}
	s.closed = true

	s.w.WriteByte(gifTrailer)
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return fmt.Errorf("%w: write %s: %w", ErrRenderFailure, s.path, err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrRenderFailure, s.path, err)
	}
	if s.frames == 0 {
		return fmt.Errorf("%w: no frames written to %s", ErrRenderFailure, s.path)
	}
	return nil
}

// framePalette holds 64 grays followed by 192 blues with a gray cast, which
// covers white backgrounds, grid lines, text and shaded points.
var framePalette = func() color.Palette {
	p := make(color.Palette, 0, 256)
	for i := range 64 {
		v := uint8(i * 255 / 63)
		p = append(p, color.RGBA{v, v, v, 255})
	}
	for i := range 12 {
		v := uint8(i * 255 / 11)
		for j := range 16 {
			b := uint8(64 + j*191/15)
			p = append(p, color.RGBA{v, v, max(b, v), 255})
		}
	}
	return p
}()

// paletteLUT maps a color reduced to 5 bits per channel to its nearest
// framePalette index.
var paletteLUT = sync.OnceValue(func() *[1 << 15]uint8 {
	var lut [1 << 15]uint8
	for i := range lut {
		c := color.RGBA{expand5(i >> 10), expand5(i >> 5), expand5(i), 255}
		lut[i] = uint8(framePalette.Index(c))
	}
	return &lut
})

// expand5 widens the low 5 bits of v to 8 bits so 0 and 31 map to 0 and 255.
func expand5(v int) uint8 {
	v &= 31
	return uint8(v<<3 | v>>2)
}

// quantize maps the opaque image src onto dst's palette through paletteLUT.
// Both images must share the same bounds.
func quantize(dst *image.Paletted, src *image.RGBA) {
	lut := paletteLUT()
	r := dst.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		si := src.PixOffset(r.Min.X, y)
		di := dst.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			p := src.Pix[si : si+3 : si+3]
			dst.Pix[di] = lut[int(p[0]>>3)<<10|int(p[1]>>3)<<5|int(p[2]>>3)]
			si += 4
			di++
		}
	}
}
