package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"newsCaster/background"
	"newsCaster/overlay"
)

const (
	defaultConfigPath = "config.yaml"
	envConfigPath     = "NEWSCASTER_CONFIG"
	envFontPath       = "NEWSCASTER_FONT"
)

// Config contains optional configuration overrides loaded from disk. Zero
// fields keep their defaults.
type Config struct {
	Paths   PathsConfig `yaml:"paths"`
	Font    string      `yaml:"font"`
	Workers int         `yaml:"workers"`
	Frame   FrameConfig `yaml:"frame"`
	Style   StyleConfig `yaml:"style"`
}

type PathsConfig struct {
	Script      string `yaml:"script"`
	Subtitles   string `yaml:"subtitles"`
	Pictures    string `yaml:"pictures"`
	Backgrounds string `yaml:"backgrounds"`
	Composited  string `yaml:"composited"`
	Audio       string `yaml:"audio"`
	Manifest    string `yaml:"manifest"`
}

type FrameConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// StyleConfig mirrors overlay.Style with colors written as #RRGGBB or
// #RRGGBBAA.
type StyleConfig struct {
	FontSize       float64 `yaml:"font_size"`
	BadgeFontSize  float64 `yaml:"badge_font_size"`
	TextColor      string  `yaml:"text_color"`
	BackdropColor  string  `yaml:"backdrop_color"`
	BadgeColor     string  `yaml:"badge_color"`
	BadgeTextColor string  `yaml:"badge_text_color"`
	LineSpacing    *int    `yaml:"line_spacing"`
	StartX         *int    `yaml:"start_x"`
	StartY         *int    `yaml:"start_y"`
	MaxWidth       int     `yaml:"max_width"`
	Padding        *int    `yaml:"padding"`
	CornerRadius   *int    `yaml:"corner_radius"`
	DateLayout     string  `yaml:"date_layout"`
}

func defaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			Script:      "text/target/latest.txt",
			Subtitles:   "text/subtitle",
			Pictures:    "picture",
			Backgrounds: "picture/resized",
			Composited:  "picture/textAdded",
			Audio:       "audio",
			Manifest:    "manifest.yaml",
		},
		Frame: FrameConfig{Width: background.DefaultWidth, Height: background.DefaultHeight},
	}
}

func configPath(flagValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if env := strings.TrimSpace(os.Getenv(envConfigPath)); env != "" {
		return env
	}
	return defaultConfigPath
}

// loadConfig reads path over the defaults. NEWSCASTER_FONT, when set, wins
// over the font in the file.
func loadConfig(path string) (Config, error) {
	cfg, err := readConfig(path)
	if font := strings.TrimSpace(os.Getenv(envFontPath)); font != "" {
		cfg.Font = font
	}
	return cfg, err
}

func readConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("load config: open %q: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return cfg, fmt.Errorf("load config: read %q: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: parse %q: %w", path, err)
	}

	if cfg.Workers < 0 {
		return cfg, fmt.Errorf("load config: workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.Frame.Width <= 0 || cfg.Frame.Height <= 0 {
		return cfg, fmt.Errorf("load config: frame size must be positive, got %dx%d", cfg.Frame.Width, cfg.Frame.Height)
	}
	if _, err := cfg.Style.overlayStyle(); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// overlayStyle applies the configured overrides on top of
// overlay.DefaultStyle.
func (c StyleConfig) overlayStyle() (overlay.Style, error) {
	style := overlay.DefaultStyle()
	if c.FontSize != 0 {
		style.FontSize = c.FontSize
	}
	if c.BadgeFontSize != 0 {
		style.BadgeFontSize = c.BadgeFontSize
	}

	colors := []struct {
		name  string
		value string
		dst   *color.NRGBA
	}{
		{"text_color", c.TextColor, &style.TextColor},
		{"backdrop_color", c.BackdropColor, &style.BackdropColor},
		{"badge_color", c.BadgeColor, &style.BadgeColor},
		{"badge_text_color", c.BadgeTextColor, &style.BadgeTextColor},
	}
	for _, entry := range colors {
		if strings.TrimSpace(entry.value) == "" {
			continue
		}
		parsed, err := parseHexColor(entry.value)
		if err != nil {
			return style, fmt.Errorf("%s: %w", entry.name, err)
		}
		*entry.dst = parsed
	}

	setInt(&style.LineSpacing, c.LineSpacing)
	setInt(&style.StartX, c.StartX)
	setInt(&style.StartY, c.StartY)
	setInt(&style.Padding, c.Padding)
	setInt(&style.CornerRadius, c.CornerRadius)
	if c.MaxWidth != 0 {
		style.MaxWidth = c.MaxWidth
	}
	if c.DateLayout != "" {
		style.DateLayout = c.DateLayout
	}
	return style, style.Validate()
}

func setInt(dst *int, value *int) {
	if value != nil {
		*dst = *value
	}
}

// parseHexColor accepts #RGB, #RRGGBB and #RRGGBBAA.
func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	alpha := uint8(0xff)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
