package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/devbush/vidtrans/internal/logger"
)

// Config represents the application configuration
type Config struct {
	Library   LibraryConfig   `yaml:"library"`
	Whisper   WhisperConfig   `yaml:"whisper"`
	FFmpeg    FFmpegConfig    `yaml:"ffmpeg"`
	Render    RenderConfig    `yaml:"render"`
	Search    SearchConfig    `yaml:"search"`
	Subtitles SubtitlesConfig `yaml:"subtitles"`
	Report    ReportConfig    `yaml:"report"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LibraryConfig locates the videos and the evidence output
type LibraryConfig struct {
	Folder      string `yaml:"folder"`
	Screenshots string `yaml:"screenshots"` // empty means <folder>/screenshots
}

// WhisperConfig holds speech-to-text settings
type WhisperConfig struct {
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
	Binary   string `yaml:"binary"`
}

// FFmpegConfig holds custom path overrides
type FFmpegConfig struct {
	Binary string `yaml:"binary"`
}

// RenderConfig controls the evidence image overlay
type RenderConfig struct {
	FontPath    string `yaml:"font_path"` // empty uses the bundled Go font
	FontSize    int    `yaml:"font_size"`
	MinFontSize int    `yaml:"min_font_size"`
	FrameOffset string `yaml:"frame_offset"`
}

// SearchConfig holds search defaults
type SearchConfig struct {
	Evidence bool `yaml:"evidence"`
}

// SubtitlesConfig holds subtitle writer options
type SubtitlesConfig struct {
	VTTLegacySeparator bool `yaml:"vtt_legacy_separator"`
}

// ReportConfig holds report options
type ReportConfig struct {
	Open bool `yaml:"open"`
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			Folder: ".",
		},
		Whisper: WhisperConfig{
			Model: "base",
		},
		Render: RenderConfig{
			FontSize:    20,
			MinFontSize: 10,
			FrameOffset: "100ms",
		},
		Search: SearchConfig{
			Evidence: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// AppDir returns the application directory (~/.vidtrans)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vidtrans"
	}
	return filepath.Join(home, ".vidtrans")
}

// ModelsDir returns the models directory
func ModelsDir() string {
	return filepath.Join(AppDir(), "models")
}

// BinDir returns the bin directory
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{AppDir(), ModelsDir(), BinDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads a .env file from the working directory if present, then
// the config file from the default path, then applies environment overrides.
func LoadDefault() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(ConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides config values from environment variables
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("VIDTRANS_FOLDER"); v != "" {
		c.Library.Folder = v
	}
	if v := getenv("VIDTRANS_SCREENSHOTS"); v != "" {
		c.Library.Screenshots = v
	}
	if v := getenv("FFMPEG_BINARY"); v != "" {
		c.FFmpeg.Binary = v
	}
	if v := getenv("WHISPER_BINARY"); v != "" {
		c.Whisper.Binary = v
	}
	if v := getenv("VIDTRANS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate fills in missing defaults and rejects impossible values
func (c *Config) Validate() error {
	if c.Library.Folder == "" {
		c.Library.Folder = "."
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = "base"
	}
	if c.Render.FontSize == 0 {
		c.Render.FontSize = 20
	}
	if c.Render.MinFontSize == 0 {
		c.Render.MinFontSize = 10
	}
	if c.Render.FrameOffset == "" {
		c.Render.FrameOffset = "100ms"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	if c.Render.FontSize < 0 || c.Render.MinFontSize < 0 {
		return fmt.Errorf("render font sizes must be positive")
	}
	if c.Render.MinFontSize > c.Render.FontSize {
		return fmt.Errorf("render.min_font_size (%d) exceeds render.font_size (%d)", c.Render.MinFontSize, c.Render.FontSize)
	}
	if _, err := c.GetFrameOffset(); err != nil {
		return err
	}
	if !logger.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveDefault saves config to default path
func (c *Config) SaveDefault() error {
	return c.Save(ConfigPath())
}

// ScreenshotDir returns the evidence output directory
func (c *Config) ScreenshotDir() string {
	if c.Library.Screenshots != "" {
		return c.Library.Screenshots
	}
	return filepath.Join(c.Library.Folder, "screenshots")
}

// GetFrameOffset returns the forward bias applied when grabbing a frame
func (c *Config) GetFrameOffset() (time.Duration, error) {
	return ParseDuration(c.Render.FrameOffset)
}

var durationPattern = regexp.MustCompile(`^(\d+)(ms|s|m|h|d)$`)

// ParseDuration parses duration strings like "100ms", "2s", "24h", "7d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 100ms, 2s, 24h)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "ms":
		return time.Duration(value) * time.Millisecond, nil
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}
