package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/soocke/obb-label-go/domain/geometry"
	"github.com/soocke/obb-label-go/domain/labels"
)

// FileName is the default config file name in the user's home directory.
const FileName = ".obb_label_tool.json"

// Config holds the session configuration shared with the hosting app.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	Debug   bool     `json:"debug"`
	Classes []string `json:"classes"`

	// Interaction parameters
	HandleTolerance float64 `json:"handle_tolerance"`
	DrawAngle       float64 `json:"draw_angle"`

	// ProgressFile records which images were saved, relative paths resolve
	// against the config file directory.
	ProgressFile string `json:"progress_file"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:           false,
		Classes:         []string{labels.DefaultClass},
		HandleTolerance: geometry.DefaultTolerance,
		DrawAngle:       0,
		ProgressFile:    ".obb_label_tool_progress.json",
	}
}

// DefaultPath returns the config path in the user's home directory, or the
// bare file name when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	names := c.Classes[:0]
	for _, n := range c.Classes {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	c.Classes = names
	if len(c.Classes) == 0 {
		c.Classes = []string{labels.DefaultClass}
	}
	if c.HandleTolerance <= 0 {
		c.HandleTolerance = geometry.DefaultTolerance
	}
	if c.ProgressFile == "" {
		c.ProgressFile = ".obb_label_tool_progress.json"
	}
	return nil
}

// ProgressPath resolves ProgressFile against the directory of cfgPath.
func (c *Config) ProgressPath(cfgPath string) string {
	if filepath.IsAbs(c.ProgressFile) {
		return c.ProgressFile
	}
	return filepath.Join(filepath.Dir(cfgPath), c.ProgressFile)
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist it returns DefaultConfig(). On JSON error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
