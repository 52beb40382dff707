package marionette

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Region is a fallback tap region in view space. When no figure's named hit
// area matches a tap, the first region containing it selects the motion
// group played on the primary figure.
type Region struct {
	Name  string `yaml:"name"`
	Group string `yaml:"group"`
	Rect  Rect   `yaml:"rect"`
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

// Config is the viewer configuration, normally read from YAML.
type Config struct {
	// Resources is the root holding one directory per scene. It may be a
	// filesystem path or an http(s) URL.
	Resources string `yaml:"resources"`
	// Scenes lists the figure directories; each holds <name>.model3.json.
	Scenes []string `yaml:"scenes"`

	View    ViewConfig   `yaml:"view"`
	Regions []Region     `yaml:"regions"`
	Window  WindowConfig `yaml:"window"`

	ClearColor Color `yaml:"clear_color"`

	LogLevel   LogLevel `yaml:"log_level"`
	Debug      bool     `yaml:"debug"`
	DebugTouch bool     `yaml:"debug_touch"`
	ShowFPS    bool     `yaml:"show_fps"`
	// IdleMotions starts an Idle-group motion whenever a figure has
	// nothing playing.
	IdleMotions bool `yaml:"idle_motions"`

	ScreenshotDir string `yaml:"screenshot_dir"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Resources: "resources",
		Scenes:    []string{"Hiyori"},
		View:      DefaultViewConfig(),
		Regions:   DefaultRegions(),
		Window: WindowConfig{
			Title:     "marionette",
			Width:     800,
			Height:    600,
			Resizable: true,
		},
		ClearColor:    Color{0, 0, 0, 0},
		LogLevel:      LogLevelInfo,
		Debug:         true,
		IdleMotions:   true,
		ScreenshotDir: "screenshots",
	}
}

// DefaultRegions returns the stock head/body fallback rectangles.
func DefaultRegions() []Region {
	return []Region{
		{Name: HitAreaHead, Group: MotionGroupTapHead, Rect: Rect{Left: -0.2, Right: 0.2, Bottom: 0.2, Top: 0.8}},
		{Name: HitAreaBody, Group: MotionGroupTapBody, Rect: Rect{Left: -0.2, Right: 0.2, Bottom: -1.0, Top: 0.1}},
	}
}

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the config for values the view and stage cannot use.
func (c *Config) Validate() error {
	if len(c.Scenes) == 0 {
		return fmt.Errorf("%w: no scenes", ErrInvalidConfig)
	}
	for i, s := range c.Scenes {
		if s == "" {
			return fmt.Errorf("%w: scene %d has an empty directory", ErrInvalidConfig, i)
		}
	}
	v := c.View
	if !(v.LogicalLeft < v.LogicalRight) {
		return fmt.Errorf("%w: logical_left %v must be < logical_right %v", ErrInvalidConfig, v.LogicalLeft, v.LogicalRight)
	}
	if !(v.MinScale > 0) || v.MinScale > v.MaxScale {
		return fmt.Errorf("%w: scale range [%v, %v]", ErrInvalidConfig, v.MinScale, v.MaxScale)
	}
	if v.Max.Left >= v.Max.Right || v.Max.Bottom >= v.Max.Top {
		return fmt.Errorf("%w: max rect %+v", ErrInvalidConfig, v.Max)
	}
	return nil
}

// ManifestPath returns the directory and manifest file name for scene i.
func (c *Config) ManifestPath(i int) (dir, file string) {
	dir = c.Scenes[i]
	return dir, dir + ManifestSuffix
}
