package render

import (
	"context"

	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

// Sink renders frames and commits them to an output. Frames are committed in
// call order; a frame is committed once RenderFrame returns nil.
type Sink interface {
	RenderFrame(ctx context.Context, axes [3]viewport.AxisRange, proj Projection, cloud sampling.PointCloud) error
	// Frames returns the number of committed frames.
	Frames() int
	// Finalize flushes the output. The sink rejects further frames.
	Finalize() error
}

// Option adjusts the chart style of a sink.
type Option func(*Style)

// WithStyle replaces the whole style.
func WithStyle(s Style) Option {
	return func(dst *Style) { *dst = s }
}

// WithCaption sets the caption. An empty caption hides it.
func WithCaption(caption string) Option {
	return func(s *Style) { s.Caption = caption }
}

// WithSupersample sets the supersampling factor.
func WithSupersample(n int) Option {
	return func(s *Style) { s.Supersample = n }
}

func newChart(width, height int, opts []Option) (*Chart, error) {
	style := DefaultStyle()
	for _, opt := range opts {
		opt(&style)
	}
	return NewChart(width, height, style)
}
