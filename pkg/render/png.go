package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

// PNGSequenceSink writes each frame to its own numbered PNG file as soon as
// it is rendered.
type PNGSequenceSink struct {
	dir    string
	chart  *Chart
	frames int
	closed bool
}

// OpenPNGSequence creates dir if needed and returns a sink writing
// frame_0000.png, frame_0001.png, ... into it.
func OpenPNGSequence(dir string, width, height int, opts ...Option) (*PNGSequenceSink, error) {
	chart, err := newChart(width, height, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	return &PNGSequenceSink{dir: dir, chart: chart}, nil
}

// FramePath returns the file name of frame i.
func (s *PNGSequenceSink) FramePath(i int) string {
	return filepath.Join(s.dir, fmt.Sprintf("frame_%04d.png", i))
}

// RenderFrame renders one frame and writes it. The file appears under its
// final name only once fully written.
func (s *PNGSequenceSink) RenderFrame(ctx context.Context, axes [3]viewport.AxisRange, proj Projection, cloud sampling.PointCloud) error {
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

	path := s.FramePath(s.frames)
	tmp := path + ".tmp"
	if err := savePNG(tmp, img); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrRenderFailure, err)
	}
	s.frames++
	return nil
}

// Frames returns the number of frames written.
func (s *PNGSequenceSink) Frames() int {
	return s.frames
}

// Finalize closes the sink.
func (s *PNGSequenceSink) Finalize() error {
	if s.closed {
		return ErrSinkClosed
	}
	s.closed = true
	return nil
}
