// Package orbit drives the turntable animation: a fixed number of frames,
// each a camera pose around the normalized viewing cube.
package orbit

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

var ErrInvalidOptions = errors.New("invalid orbit options")

// Options configures the orbit.
type Options struct {
	Frames         int     // Frames per full revolution
	PitchAmplitude float64 // Pitch swing, radians
	PitchBias      float64 // Pitch offset, radians
	Scale          float64 // Zoom applied to the viewing cube

	// IntroFrames eases the zoom from IntroScale to Scale over the first
	// frames of the orbit. Zero disables the intro.
	IntroFrames int
	IntroScale  float64
}

// DefaultOptions returns a 360-frame orbit with a gentle pitch wobble.
func DefaultOptions() Options {
	return Options{
		Frames:         360,
		PitchAmplitude: 0.2,
		PitchBias:      0.25,
		Scale:          0.9,
	}
}

// Frame is one camera pose.
type Frame struct {
	Step  int
	Total int
	Yaw   float64
	Pitch float64
	Scale float64
}

// RenderFunc renders and commits one frame. It must not return until the
// frame is committed to the output.
type RenderFunc func(ctx context.Context, axes [3]viewport.AxisRange, frame Frame, cloud sampling.PointCloud) error

// Animator produces orbit frames.
type Animator struct {
	opts   Options
	scales []float64 // Intro zoom per step, len == IntroFrames
}

// New validates opts and precomputes the intro zoom curve.
func New(opts Options) (*Animator, error) {
	if opts.Frames < 0 {
		return nil, fmt.Errorf("%w: frame count must not be negative, got %d", ErrInvalidOptions, opts.Frames)
	}
	if !(opts.Scale > 0) {
		return nil, fmt.Errorf("%w: scale must be positive, got %v", ErrInvalidOptions, opts.Scale)
	}
	if opts.IntroFrames < 0 || opts.IntroFrames > opts.Frames {
		return nil, fmt.Errorf("%w: intro frames must be within [0, %d], got %d", ErrInvalidOptions, opts.Frames, opts.IntroFrames)
	}
	if opts.IntroFrames > 0 && !(opts.IntroScale > 0) {
		return nil, fmt.Errorf("%w: intro scale must be positive, got %v", ErrInvalidOptions, opts.IntroScale)
	}

	a := &Animator{opts: opts}
	if opts.IntroFrames > 0 {
		a.scales = introCurve(opts.IntroScale, opts.Scale, opts.IntroFrames)
	}
	return a, nil
}

// introCurve runs a critically damped spring from start toward target, one
// update per frame.
func introCurve(start, target float64, n int) []float64 {
	// Settle within roughly the intro length regardless of frame count.
	freq := 8.0 * 60.0 / float64(max(n, 1))
	spring := harmonica.NewSpring(harmonica.FPS(60), freq, 1.0)

	out := make([]float64, n)
	pos, vel := start, 0.0
	for i := range out {
		out[i] = pos
		pos, vel = spring.Update(pos, vel, target)
	}
	return out
}

// Options returns the animator's options.
func (a *Animator) Options() Options {
	return a.opts
}

// Len returns the number of frames.
func (a *Animator) Len() int {
	return a.opts.Frames
}

// FrameAt returns the pose for step i.
func (a *Animator) FrameAt(i int) Frame {
	angle := float64(i) * 2 * math.Pi / float64(a.opts.Frames)

	scale := a.opts.Scale
	if i >= 0 && i < len(a.scales) {
		scale = a.scales[i]
	}

	return Frame{
		Step:  i,
		Total: a.opts.Frames,
		Yaw:   angle,
		Pitch: math.Sin(angle)*a.opts.PitchAmplitude + a.opts.PitchBias,
		Scale: scale,
	}
}

// Frames yields every frame in order.
func (a *Animator) Frames() iter.Seq[Frame] {
	return func(yield func(Frame) bool) {
		for i := range a.opts.Frames {
			if !yield(a.FrameAt(i)) {
				return
			}
		}
	}
}

// Run renders every frame in order with render. It stops at the first error
// or when ctx is cancelled, returning the number of committed frames.
func (a *Animator) Run(ctx context.Context, plan viewport.Plan, cloud sampling.PointCloud, render RenderFunc) (int, error) {
	axes := plan.Axes()
	done := 0
	for frame := range a.Frames() {
		if err := ctx.Err(); err != nil {
			return done, fmt.Errorf("frame %d/%d: %w", frame.Step, frame.Total, err)
		}
		if err := render(ctx, axes, frame, cloud); err != nil {
			return done, fmt.Errorf("frame %d/%d: %w", frame.Step, frame.Total, err)
		}
		done++
	}
	return done, nil
}
