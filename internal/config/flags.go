package config

import (
	"flag"
	"fmt"
)

// Zero values mean "not set" so the file and defaults show through.
var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile     = flag.String("log-file", "", "Also write logs to this file")
	flagOut         = new(string)
	flagPNGDir      = flag.String("png-dir", "", "Write PNG frames to this directory instead of a GIF")
	flagExportCloud = flag.String("export-cloud", "", "Also write the point cloud as a .glb file")
	flagCount       = flag.Int("n", 0, "Target sample count (default 10000)")
	flagFrames      = flag.Int("frames", 0, "Frames per revolution (default 360)")
	flagStrategy    = flag.String("strategy", "", "Sampling strategy: uniform or poisson (default poisson)")
	flagMinDistance = flag.Float64("min-distance", 0, "Poisson minimum point distance (default 0.1)")
	flagCandidates  = flag.Int("candidates", 0, "Max candidate trials (default 10000)")
	flagPlacements  = flag.Int("placements", 0, "Max consecutive placement trials (default 10000)")
	flagSeed        = flag.Uint64("seed", 0, "RNG seed (default time-based)")
	flagSize        = flag.String("size", "", "Frame size WxH (default 600x400)")
	flagDelay       = flag.Int("delay", 0, "Frame delay in 1/100 s (default 2)")
	flagIntro       = flag.Int("intro", 0, "Zoom-in intro length in frames (default off)")
)

func init() {
	flag.StringVar(flagOut, "o", "", "Output GIF path (default 3d-plot.gif)")
	flag.StringVar(flagOut, "out", "", "Output GIF path (default 3d-plot.gif)")
}

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagPNGDir != "" {
		cfg.Output.PNGDir = *flagPNGDir
	}
	if *flagExportCloud != "" {
		cfg.Output.ExportCloud = *flagExportCloud
	}
	if *flagCount > 0 {
		cfg.Sampling.Count = *flagCount
	}
	if *flagFrames > 0 {
		cfg.Animation.Frames = *flagFrames
	}
	if *flagStrategy != "" {
		cfg.Sampling.Strategy = *flagStrategy
	}
	if *flagMinDistance > 0 {
		cfg.Sampling.MinDistance = *flagMinDistance
	}
	if *flagCandidates > 0 {
		cfg.Sampling.MaxCandidateTrials = *flagCandidates
	}
	if *flagPlacements > 0 {
		cfg.Sampling.MaxPlacementTrials = *flagPlacements
	}
	if *flagSeed > 0 {
		cfg.Sampling.Seed = *flagSeed
	}
	if *flagSize != "" {
		w, h, err := parseSize(*flagSize)
		if err != nil {
			return err
		}
		cfg.Render.Width, cfg.Render.Height = w, h
	}
	if *flagDelay > 0 {
		cfg.Render.Delay = *flagDelay
	}
	if *flagIntro > 0 {
		cfg.Animation.IntroFrames = *flagIntro
	}
	return nil
}

// parseSize parses a "WxH" frame size.
func parseSize(s string) (width, height int, err error) {
	var extra string
	n, _ := fmt.Sscanf(s, "%dx%d%s", &width, &height, &extra)
	if n != 2 || width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: size %q is not WxH", ErrInvalid, s)
	}
	return width, height, nil
}
