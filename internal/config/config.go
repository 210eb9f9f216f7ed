package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ko-stant/battlemap/internal/visibility"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Assets    AssetsConfig    `yaml:"assets"`
	Scenes    ScenesConfig    `yaml:"scenes"`
	Vision    VisionConfig    `yaml:"vision"`
	Layout    LayoutConfig    `yaml:"layout"`
	Pathing   PathingConfig   `yaml:"pathing"`
	Entities  []EntityConfig  `yaml:"entities"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

type ServerConfig struct {
	Port string        `yaml:"port"`
	Tick time.Duration `yaml:"tick"`
	// Observers is "all" or "selected".
	Observers string `yaml:"observers"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AssetsConfig struct {
	Dir        string          `yaml:"dir"`
	TileWidth  int             `yaml:"tile_width"`
	TileHeight int             `yaml:"tile_height"`
	Segments   []SegmentConfig `yaml:"segments"`
}

// SegmentConfig places one asset. Active defaults to true.
type SegmentConfig struct {
	Asset   string `yaml:"asset"`
	Name    string `yaml:"name"`
	OffsetX int    `yaml:"offset_x"`
	OffsetY int    `yaml:"offset_y"`
	Active  *bool  `yaml:"active"`
}

func (s SegmentConfig) IsActive() bool {
	return s.Active == nil || *s.Active
}

type ScenesConfig struct {
	Path    string `yaml:"path"`
	Default string `yaml:"default"`
}

type VisionConfig struct {
	RayStepDegrees float64 `yaml:"ray_step_degrees"`
	Subpixels      int     `yaml:"subpixels"`
}

type LayoutConfig struct {
	SnapTolerance int `yaml:"snap_tolerance"`
}

type PathingConfig struct {
	MaxSteps     int `yaml:"max_steps"`
	RepairRadius int `yaml:"repair_radius"`
}

type EntityConfig struct {
	Name         string   `yaml:"name"`
	X            int      `yaml:"x"`
	Y            int      `yaml:"y"`
	VisionRadius *float64 `yaml:"vision_radius"`
	VisionMode   string   `yaml:"vision_mode"`
}

type ProfilingConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Port           string `yaml:"port"`
	CPUProfilePath string `yaml:"cpu_profile_path"`
	MemProfilePath string `yaml:"mem_profile_path"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{Port: "8080", Tick: 50 * time.Millisecond, Observers: "all"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Assets: AssetsConfig{Dir: "segments", TileWidth: 70, TileHeight: 70},
		Scenes: ScenesConfig{Path: "scenes.json", Default: "VAULT"},
		Vision: VisionConfig{
			RayStepDegrees: visibility.DefaultRayStepDegrees,
			Subpixels:      visibility.DefaultSubpixels,
		},
		Layout:    LayoutConfig{SnapTolerance: 1},
		Pathing:   PathingConfig{MaxSteps: 500},
		Profiling: ProfilingConfig{Port: "42069"},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	envErr := cfg.applyEnv(os.Getenv)
	if err := errors.Join(envErr, cfg.Validate()); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables. Values that fail to parse leave
// the field unchanged and are reported together.
func (c *Config) applyEnv(getenv func(string) string) error {
	var errs []error
	if v := getenv("APP_PORT"); v != "" {
		c.Server.Port = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := getenv("ENABLE_PROFILING"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("ENABLE_PROFILING must be a boolean, got %q", v))
		} else {
			c.Profiling.Enabled = enabled
		}
	}
	if v := getenv("PPROF_PORT"); v != "" {
		c.Profiling.Port = v
	}
	if v := getenv("CPU_PROFILE_PATH"); v != "" {
		c.Profiling.CPUProfilePath = v
	}
	if v := getenv("MEM_PROFILE_PATH"); v != "" {
		c.Profiling.MemProfilePath = v
	}
	if v := getenv("SCENES_PATH"); v != "" {
		c.Scenes.Path = v
	}
	return errors.Join(errs...)
}

// Validate rejects values the core would otherwise have to guard at use.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Tick <= 0 {
		errs = append(errs, fmt.Errorf("server.tick must be positive, got %s", c.Server.Tick))
	}
	if c.Server.Observers != "all" && c.Server.Observers != "selected" {
		errs = append(errs, fmt.Errorf("server.observers must be all or selected, got %q", c.Server.Observers))
	}
	if c.Assets.TileWidth <= 0 || c.Assets.TileHeight <= 0 {
		errs = append(errs, fmt.Errorf("assets tile size must be positive, got %dx%d", c.Assets.TileWidth, c.Assets.TileHeight))
	}
	if c.Vision.RayStepDegrees <= 0 || c.Vision.RayStepDegrees > 45 {
		errs = append(errs, fmt.Errorf("vision.ray_step_degrees must be in (0, 45], got %v", c.Vision.RayStepDegrees))
	}
	if c.Vision.Subpixels <= 0 {
		errs = append(errs, fmt.Errorf("vision.subpixels must be positive, got %d", c.Vision.Subpixels))
	}
	if c.Layout.SnapTolerance < 0 {
		errs = append(errs, fmt.Errorf("layout.snap_tolerance must not be negative, got %d", c.Layout.SnapTolerance))
	}
	if c.Pathing.RepairRadius < 0 {
		errs = append(errs, fmt.Errorf("pathing.repair_radius must not be negative, got %d", c.Pathing.RepairRadius))
	}
	for _, e := range c.Entities {
		if e.VisionRadius != nil && *e.VisionRadius < 0 {
			errs = append(errs, fmt.Errorf("entity %q: vision_radius must not be negative", e.Name))
		}
		if _, err := visibility.ParseMode(e.VisionMode); err != nil {
			errs = append(errs, fmt.Errorf("entity %q: %w", e.Name, err))
		}
	}
	return errors.Join(errs...)
}
