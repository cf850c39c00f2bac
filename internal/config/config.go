// Package config handles meshcloud configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/taigrr/meshcloud/pkg/orbit"
	"github.com/taigrr/meshcloud/pkg/render"
	"github.com/taigrr/meshcloud/pkg/sampling"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds all run settings.
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Render    RenderConfig    `yaml:"render"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Animation AnimationConfig `yaml:"animation"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// OutputConfig holds output paths.
type OutputConfig struct {
	Path        string `yaml:"path"`         // Animated GIF
	PNGDir      string `yaml:"png_dir"`      // PNG frames instead of a GIF
	ExportCloud string `yaml:"export_cloud"` // Point cloud GLB
}

// RenderConfig holds frame rendering settings.
type RenderConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Delay       int     `yaml:"delay"` // Hundredths of a second per frame
	Supersample int     `yaml:"supersample"`
	Caption     string  `yaml:"caption"`
	PointRadius float64 `yaml:"point_radius"`
}

// SamplingConfig holds point cloud settings.
type SamplingConfig struct {
	Strategy           string  `yaml:"strategy"` // uniform or poisson
	Count              int     `yaml:"count"`
	MinDistance        float64 `yaml:"min_distance"`
	MaxCandidateTrials int     `yaml:"max_candidate_trials"`
	MaxPlacementTrials int     `yaml:"max_placement_trials"`
	Seed               uint64  `yaml:"seed"` // 0 picks a time-based seed
}

// AnimationConfig holds orbit settings.
type AnimationConfig struct {
	Frames         int     `yaml:"frames"`
	PitchAmplitude float64 `yaml:"pitch_amplitude"`
	PitchBias      float64 `yaml:"pitch_bias"`
	Scale          float64 `yaml:"scale"`
	IntroFrames    int     `yaml:"intro_frames"`
	IntroScale     float64 `yaml:"intro_scale"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	orb := orbit.DefaultOptions()
	smp := sampling.DefaultConfig()
	style := render.DefaultStyle()

	return &Config{
		Output: OutputConfig{
			Path: "3d-plot.gif",
		},
		Render: RenderConfig{
			Width:       600,
			Height:      400,
			Delay:       2,
			Supersample: style.Supersample,
			Caption:     style.Caption,
			PointRadius: style.PointRadius,
		},
		Sampling: SamplingConfig{
			Strategy:           "poisson",
			Count:              smp.TargetCount,
			MinDistance:        0.1,
			MaxCandidateTrials: smp.MaxCandidateTrials,
			MaxPlacementTrials: smp.MaxPlacementTrials,
		},
		Animation: AnimationConfig{
			Frames:         orb.Frames,
			PitchAmplitude: orb.PitchAmplitude,
			PitchBias:      orb.PitchBias,
			Scale:          orb.Scale,
			IntroScale:     0.5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings no run could use.
func (c *Config) Validate() error {
	var errs []error
	if c.Output.Path == "" && c.Output.PNGDir == "" {
		errs = append(errs, errors.New("no output path"))
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("frame size %dx%d", c.Render.Width, c.Render.Height))
	}
	if c.Render.Delay < 0 {
		errs = append(errs, fmt.Errorf("negative delay %d", c.Render.Delay))
	}
	if _, err := c.Sampling.Build(); err != nil {
		errs = append(errs, err)
	}
	if _, err := orbit.New(c.Animation.Options()); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log level %q", c.Logging.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// Build converts the settings into a sampling.Config.
func (s SamplingConfig) Build() (sampling.Config, error) {
	strategy, err := sampling.ParseStrategy(s.Strategy, s.MinDistance)
	if err != nil {
		return sampling.Config{}, err
	}
	cfg := sampling.Config{
		TargetCount:        s.Count,
		MaxCandidateTrials: s.MaxCandidateTrials,
		MaxPlacementTrials: s.MaxPlacementTrials,
		Strategy:           strategy,
	}
	return cfg, cfg.Validate()
}

// Options converts the settings into orbit options.
func (a AnimationConfig) Options() orbit.Options {
	return orbit.Options{
		Frames:         a.Frames,
		PitchAmplitude: a.PitchAmplitude,
		PitchBias:      a.PitchBias,
		Scale:          a.Scale,
		IntroFrames:    a.IntroFrames,
		IntroScale:     a.IntroScale,
	}
}

// Style converts the settings into a chart style.
func (r RenderConfig) Style() render.Style {
	style := render.DefaultStyle()
	style.Caption = r.Caption
	style.Supersample = r.Supersample
	if r.PointRadius > 0 {
		style.PointRadius = r.PointRadius
	}
	return style
}
