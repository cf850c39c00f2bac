// meshcloud - point-cloud turntable renderer
// Samples points on the surface of a triangle mesh and renders an animated
// orbit around them.
//
// Usage:
//
//	meshcloud [options] <mesh.obj|mesh.stl|mesh.glb>
//	meshcloud -example
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/taigrr/meshcloud/internal/config"
	"github.com/taigrr/meshcloud/internal/logger"
	"github.com/taigrr/meshcloud/pkg/models"
	"github.com/taigrr/meshcloud/pkg/pipeline"
	"github.com/taigrr/meshcloud/pkg/render"
	"github.com/taigrr/meshcloud/pkg/sampling"
	"github.com/taigrr/meshcloud/pkg/viewport"
)

var (
	useExample = flag.Bool("example", false, "Use the built-in tetrahedron instead of a mesh file")
	preview    = flag.Bool("preview", false, "Print the first frame to the terminal before rendering")
	noProgress = flag.Bool("quiet", false, "Hide the progress bar")
	saveConfig = flag.String("save-config", "", "Write the effective config to this path and exit")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "meshcloud - point-cloud turntable renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: meshcloud [options] <mesh.obj|mesh.stl|mesh.glb>\n")
		fmt.Fprintf(os.Stderr, "       meshcloud [options] -example\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	config.ParseFlags()

	if flag.NArg() < 1 && !*useExample && *saveConfig == "" {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(meshPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *saveConfig != "" {
		if err := cfg.SaveTo(*saveConfig); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("Config written to %s\n", *saveConfig)
		return nil
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Named("meshcloud")

	var mesh *models.Mesh
	if *useExample {
		mesh = models.Tetrahedron()
	} else {
		mesh, err = models.Load(meshPath)
		if err != nil {
			return err
		}
	}
	fmt.Printf("verts: %d, faces: %d\n", mesh.VertexCount(), mesh.TriangleCount())

	sampleCfg, err := cfg.Sampling.Build()
	if err != nil {
		return err
	}
	seed := cfg.Sampling.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.Debug("seeded", zap.Uint64("seed", seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bar *progressbar.ProgressBar
	opts := pipeline.Options{
		Sampling: sampleCfg,
		Orbit:    cfg.Animation.Options(),
		Rand:     sampling.NewRand(seed),
		OnSampled: func(cloud sampling.PointCloud) {
			fmt.Printf("point count: %d\n", cloud.Len())
			if cloud.Stats.Exhausted {
				log.Warn("trial budget ran out before the target count",
					zap.Int("points", cloud.Len()),
					zap.Int("requested", cloud.Requested),
				)
			}
		},
		Progress: func(done, total int) {
			if *noProgress {
				return
			}
			if bar == nil {
				bar = progressbar.Default(int64(total), "rendering")
			}
			_ = bar.Add(1)
		},
	}

	output := cfg.Output.Path
	if cfg.Output.PNGDir != "" {
		output = filepath.Join(cfg.Output.PNGDir, "frame_*.png")
	}
	open := func() (render.Sink, error) {
		sink, err := openSink(cfg)
		if err != nil || !*preview {
			return sink, err
		}
		return &previewSink{Sink: sink}, nil
	}

	res, err := pipeline.Run(ctx, mesh, opts, open, log)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	if cfg.Output.ExportCloud != "" {
		if err := models.ExportPointCloudGLB(cfg.Output.ExportCloud, mesh.Name, res.Cloud.Positions()); err != nil {
			return fmt.Errorf("export cloud: %w", err)
		}
		log.Info("point cloud exported", zap.String("path", cfg.Output.ExportCloud))
	}

	fmt.Printf("Result has been saved to %s\n", output)
	return nil
}

// openSink picks the PNG sequence sink when a frame directory is configured
// and the GIF sink otherwise.
func openSink(cfg *config.Config) (render.Sink, error) {
	style := render.WithStyle(cfg.Render.Style())
	if cfg.Output.PNGDir != "" {
		return render.OpenPNGSequence(cfg.Output.PNGDir, cfg.Render.Width, cfg.Render.Height, style)
	}
	return render.OpenGIF(cfg.Output.Path, cfg.Render.Width, cfg.Render.Height, cfg.Render.Delay, style)
}

// previewSink forwards frames to another sink and prints the first one to
// the terminal.
type previewSink struct {
	render.Sink
	printed bool
}

func (s *previewSink) RenderFrame(ctx context.Context, axes [3]viewport.AxisRange, proj render.Projection, cloud sampling.PointCloud) error {
	if !s.printed {
		s.printed = true
		cols, rows := 80, 24
		if w, h, err := uv.DefaultTerminal().GetSize(); err == nil && w > 0 && h > 2 {
			cols, rows = w, h-2
		}
		out, err := render.Preview(cols, rows, axes, proj, cloud)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return s.Sink.RenderFrame(ctx, axes, proj, cloud)
}
