package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no config path is given.
const DefaultFile = "datsys.yaml"

// Config is the runtime configuration. It is built once in the CLI layer and passed down
// explicitly.
type Config struct {
	ClientsDir      string        `yaml:"clients_dir"`
	DataDir         string        `yaml:"data_dir"`
	ExportsDir      string        `yaml:"exports_dir"`
	DownloadsDir    string        `yaml:"downloads_dir"`
	ExcludedWeekday string        `yaml:"excluded_weekday"`
	Blender         BlenderConfig `yaml:"blender"`
	Slicer          SlicerConfig  `yaml:"slicer"`
	Log             LogConfig     `yaml:"log"`
}

type BlenderConfig struct {
	Exe string `yaml:"exe"`
	// StartupScript runs when a case is opened with the blender action. Empty opens the file only.
	StartupScript string `yaml:"startup_script"`
	// ImportScript imports 3DSlicer/Segmentations meshes into the case file.
	ImportScript string `yaml:"import_script"`
}

type SlicerConfig struct {
	Exe    string `yaml:"exe"`
	Script string `yaml:"script"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when neither a file nor the environment sets a value.
func Default() Config {
	downloads := "Downloads"
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		downloads = filepath.Join(home, "Downloads")
	}
	return Config{
		ClientsDir:      "clients",
		DataDir:         "data",
		ExportsDir:      "exports",
		DownloadsDir:    downloads,
		ExcludedWeekday: "sunday",
		Blender: BlenderConfig{
			Exe:          "blender",
			ImportScript: filepath.Join("tools", "blender_initialization.py"),
		},
		Slicer: SlicerConfig{
			Exe:    "Slicer",
			Script: filepath.Join("tools", "slicer_autoload_volume.py"),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
//
// An explicit path (or DATSYS_CONFIG) must exist. Without one, DefaultFile is used when present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv("DATSYS_CONFIG")
	}
	if path == "" {
		path, explicit = DefaultFile, false
	}
	if err := loadFromFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	overrides := []struct {
		env string
		dst *string
	}{
		{"DATSYS_CLIENTS_DIR", &cfg.ClientsDir},
		{"DATSYS_DATA_DIR", &cfg.DataDir},
		{"DATSYS_EXPORTS_DIR", &cfg.ExportsDir},
		{"DATSYS_DOWNLOADS_DIR", &cfg.DownloadsDir},
		{"DATSYS_EXCLUDED_WEEKDAY", &cfg.ExcludedWeekday},
		{"DATSYS_BLENDER_EXE", &cfg.Blender.Exe},
		{"DATSYS_SLICER_EXE", &cfg.Slicer.Exe},
		{"DATSYS_LOG_LEVEL", &cfg.Log.Level},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.dst = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields that are parsed later so errors surface at startup.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ClientsDir) == "" {
		return errors.New("clients_dir is empty")
	}
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// Weekday is the excluded non-working day used by the deadline countdown.
func (c Config) Weekday() (time.Weekday, error) {
	return ParseWeekday(c.ExcludedWeekday)
}

func (c Config) LogLevel() (slog.Level, error) {
	return ParseLevel(c.Log.Level)
}

// ParseWeekday accepts English weekday names or three-letter abbreviations, any case.
func ParseWeekday(s string) (time.Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid excluded_weekday %q", s)
}

func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
