// Package pipeline runs the whole mesh-to-animation flow: bounds, viewing
// cube, surface sampling and the orbit animation into a render sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/meshcloud/pkg/models"
	"github.com/taigrr/meshcloud/pkg/orbit"
	"github.com/taigrr/meshcloud/pkg/render"
	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

// Options configures a run.
type Options struct {
	Sampling sampling.Config
	Orbit    orbit.Options
	Viewport []viewport.Option
	Rand     *rand.Rand

	// OnSampled is called once the cloud is ready, before any frame.
	OnSampled func(sampling.PointCloud)
	// Progress is called after each committed frame.
	Progress func(done, total int)
}

// Result describes a finished run.
type Result struct {
	Plan   viewport.Plan
	Cloud  sampling.PointCloud
	Frames int
}

// OpenFunc opens the sink the orbit is rendered into.
type OpenFunc func() (render.Sink, error)

// Run computes the viewing plan and point cloud for mesh and renders the
// orbit into the sink returned by open. open is called only once bounds,
// viewport and sampling have succeeded, so a failed run before rendering
// leaves no output behind. The sink is finalized even when a frame fails, so
// frames committed before the failure are kept. A nil logger discards logs.
func Run(ctx context.Context, mesh *models.Mesh, opts Options, open OpenFunc, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var res Result

	start := time.Now()
	bounds, err := mesh.Bounds()
	if err != nil {
		return res, fmt.Errorf("bounds: %w", err)
	}
	log.Debug("bounds computed",
		zap.Float64s("min", []float64{bounds[0].Min, bounds[1].Min, bounds[2].Min}),
		zap.Float64s("max", []float64{bounds[0].Max, bounds[1].Max, bounds[2].Max}),
		zap.Duration("elapsed", time.Since(start)),
	)

	res.Plan, err = viewport.New(bounds, opts.Viewport...)
	if err != nil {
		return res, fmt.Errorf("viewport: %w", err)
	}
	log.Debug("viewport planned",
		zap.Float64("half_extent", res.Plan.HalfExtent),
		zap.Float64("tick_step", res.Plan.TickStep),
	)

	rng := opts.Rand
	if rng == nil {
		rng = sampling.NewRand(uint64(time.Now().UnixNano()))
	}
	start = time.Now()
	res.Cloud, err = sampling.Sample(mesh, opts.Sampling, rng)
	if err != nil {
		return res, fmt.Errorf("sampling: %w", err)
	}
	log.Info("surface sampled",
		zap.String("strategy", res.Cloud.Strategy),
		zap.Int("points", res.Cloud.Len()),
		zap.Int("requested", res.Cloud.Requested),
		zap.Int("candidates", res.Cloud.Stats.Candidates),
		zap.Bool("exhausted", res.Cloud.Stats.Exhausted),
		zap.Float64("surface_area", mesh.SurfaceArea()),
		zap.Duration("elapsed", time.Since(start)),
	)
	if opts.OnSampled != nil {
		opts.OnSampled(res.Cloud)
	}

	anim, err := orbit.New(opts.Orbit)
	if err != nil {
		return res, fmt.Errorf("render: %w", err)
	}
	sink, err := open()
	if err != nil {
		return res, fmt.Errorf("render: %w", err)
	}

	start = time.Now()
	total := anim.Len()
	res.Frames, err = anim.Run(ctx, res.Plan, res.Cloud, func(ctx context.Context, axes [3]viewport.AxisRange, f orbit.Frame, cloud sampling.PointCloud) error {
		proj := render.Projection{Yaw: f.Yaw, Pitch: f.Pitch, Scale: f.Scale}
		if err := sink.RenderFrame(ctx, axes, proj, cloud); err != nil {
			return err
		}
		if opts.Progress != nil {
			opts.Progress(f.Step+1, total)
		}
		return nil
	})
	if ferr := sink.Finalize(); ferr != nil {
		err = errors.Join(err, ferr)
	}
	if err != nil {
		log.Warn("render stopped", zap.Int("committed", res.Frames), zap.Error(err))
		return res, fmt.Errorf("render: %w", err)
	}
	log.Info("frames rendered",
		zap.Int("frames", res.Frames),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}
