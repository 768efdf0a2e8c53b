package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/sketchboard/internal/engine"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL" default:""`
	JWTSecret      string `envconfig:"JWT_SECRET" default:"dev-secret-change-in-production"`
	AssetDir       string `envconfig:"ASSET_DIR" default:"./data/assets"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`

	// SessionIdleTimeout evicts sessions without clients that saw no
	// operation for this long.
	SessionIdleTimeout time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`

	Editor EditorConfig
}

// EditorConfig holds the defaults every new editor session starts with.
type EditorConfig struct {
	SurfaceWidth  float64 `envconfig:"SURFACE_WIDTH" default:"800"`
	SurfaceHeight float64 `envconfig:"SURFACE_HEIGHT" default:"600"`

	PlacementStart     float64 `envconfig:"PLACEMENT_START" default:"20"`
	PlacementIncrement float64 `envconfig:"PLACEMENT_INCREMENT" default:"20"`
	PlacementMargin    float64 `envconfig:"PLACEMENT_MARGIN" default:"50"`

	StrokeMode string `envconfig:"STROKE_MODE" default:"scale-invariant"`

	PenFill        string  `envconfig:"PEN_FILL" default:"#ffffff"`
	PenStroke      string  `envconfig:"PEN_STROKE" default:"#000000"`
	PenStrokeWidth float64 `envconfig:"PEN_STROKE_WIDTH" default:"1"`
	PenOpacity     float64 `envconfig:"PEN_OPACITY" default:"1"`
	PenTextFill    string  `envconfig:"PEN_TEXT_FILL" default:"#000000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Editor.Options(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Options converts the editor configuration to engine options.
func (c EditorConfig) Options() (engine.Options, error) {
	mode := engine.StrokeMode(c.StrokeMode)
	switch mode {
	case engine.StrokeModeScaleInvariant, engine.StrokeModeUniform:
	default:
		return engine.Options{}, fmt.Errorf("invalid STROKE_MODE %q", c.StrokeMode)
	}

	return engine.Options{
		Pen: engine.Pen{
			Fill:        c.PenFill,
			Stroke:      c.PenStroke,
			StrokeWidth: c.PenStrokeWidth,
			Opacity:     c.PenOpacity,
			TextFill:    c.PenTextFill,
		},
		Placement:  engine.NewCursor(c.PlacementStart, c.PlacementStart, c.PlacementIncrement, c.PlacementMargin),
		StrokeMode: mode,
	}, nil
}
