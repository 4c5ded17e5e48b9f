// Package config loads radar host settings from defaults, an optional YAML
// file, a .env file and RADAR_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// EnvPrefix is prepended to every environment override, e.g.
// RADAR_MAP_GRID=staggered.
const EnvPrefix = "RADAR"

// Config is the full host configuration.
type Config struct {
	Radar  RadarConfig  `mapstructure:"radar"`
	Map    MapConfig    `mapstructure:"map"`
	Audio  AudioConfig  `mapstructure:"audio"`
	Log    LogConfig    `mapstructure:"log"`
	Window WindowConfig `mapstructure:"window"`
}

// RadarConfig places and styles the minimap widget.
type RadarConfig struct {
	X               int    `mapstructure:"x"`
	Y               int    `mapstructure:"y"`
	Width           int    `mapstructure:"width"`
	Height          int    `mapstructure:"height"`
	AnimationLength int    `mapstructure:"animation_length"`
	ShroudColor     string `mapstructure:"shroud_color"`
	FogColor        string `mapstructure:"fog_color"`
}

// MapConfig describes the generated demo map.
type MapConfig struct {
	Grid          string  `mapstructure:"grid"`
	Cols          int     `mapstructure:"cols"`
	Rows          int     `mapstructure:"rows"`
	MaxHeight     int     `mapstructure:"max_height"`
	Seed          int64   `mapstructure:"seed"`
	MinBrightness float64 `mapstructure:"min_brightness"`
	MaxBrightness float64 `mapstructure:"max_brightness"`
}

// AudioConfig controls the radar cues.
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// LogConfig selects the log level and the optional rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// WindowConfig sizes the host window.
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("radar.x", 16)
	v.SetDefault("radar.y", 16)
	v.SetDefault("radar.width", 256)
	v.SetDefault("radar.height", 256)
	v.SetDefault("radar.animation_length", 5)
	v.SetDefault("radar.shroud_color", "#000000ff")
	v.SetDefault("radar.fog_color", "#00000080")

	v.SetDefault("map.grid", grid.TypeName(grid.Rectangular))
	v.SetDefault("map.cols", 96)
	v.SetDefault("map.rows", 96)
	v.SetDefault("map.max_height", 4)
	v.SetDefault("map.seed", 1)
	v.SetDefault("map.min_brightness", 0.7)
	v.SetDefault("map.max_brightness", 1.0)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", 0.6)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
	v.SetDefault("log.compress", false)

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 800)
	v.SetDefault("window.title", "Radar")
}

// Load reads the configuration. An empty configFile searches for radar.yaml
// in the working directory and tolerates its absence; a named file must
// exist. An empty envFile means ".env", which may be missing. Variables
// already set in the environment win over the .env file.
func Load(configFile, envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("radar")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: read radar.yaml: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and parses every string-encoded value once.
func (c *Config) Validate() error {
	if c.Radar.Width <= 0 || c.Radar.Height <= 0 {
		return fmt.Errorf("config: radar size %dx%d must be positive", c.Radar.Width, c.Radar.Height)
	}
	if c.Map.Cols <= 0 || c.Map.Rows <= 0 {
		return fmt.Errorf("config: map size %dx%d must be positive", c.Map.Cols, c.Map.Rows)
	}
	if c.Map.MaxHeight < 0 {
		return fmt.Errorf("config: map max_height %d is negative", c.Map.MaxHeight)
	}
	if _, err := c.GridType(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := ParseHexColor(c.Radar.ShroudColor); err != nil {
		return fmt.Errorf("config: radar.shroud_color: %w", err)
	}
	if _, err := ParseHexColor(c.Radar.FogColor); err != nil {
		return fmt.Errorf("config: radar.fog_color: %w", err)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("config: audio.volume %v outside [0,1]", c.Audio.Volume)
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// GridType returns the configured map topology.
func (c *Config) GridType() (grid.Type, error) { return grid.ParseType(c.Map.Grid) }

// RenderBounds is the widget rectangle on screen.
func (c *Config) RenderBounds() image.Rectangle {
	return image.Rect(c.Radar.X, c.Radar.Y, c.Radar.X+c.Radar.Width, c.Radar.Y+c.Radar.Height)
}

// RadarConfig converts the settings into compositor tunables. Call after
// Validate.
func (c *Config) RadarConfig() radar.Config {
	rc := radar.DefaultConfig(c.RenderBounds())
	rc.AnimationLength = c.Radar.AnimationLength
	if col, err := ParseHexColor(c.Radar.ShroudColor); err == nil {
		rc.ShroudColor = col
	}
	if col, err := ParseHexColor(c.Radar.FogColor); err == nil {
		rc.FogColor = col
	}
	return rc
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" (leading # optional) as a
// straight-alpha colour and returns it premultiplied.
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("colour %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	n := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}
