package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soocke/obb-label-go/config"
)

// Environment variables read after .env is loaded.
const (
	EnvConfig   = "OBBLABEL_CONFIG"
	EnvLogLevel = "OBBLABEL_LOG_LEVEL"
)

var (
	// Global flags
	verbose bool
	cfgFile string

	// Resolved in PersistentPreRunE
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Replaced by Execute; commands run without it log nowhere.
	newLogger = func(slog.Leveler) *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
)

var rootCmd = &cobra.Command{
	Use:   "obblabel",
	Short: "Oriented bounding box labeling tool",
	Long: `Headless tools for YOLO-OBB label sets: inspect and normalize label files,
track labeling progress, manage the class list and replay pointer-event
scripts through the labeling state machine.

Examples:
  obblabel inspect images/0001.jpg              # Show the labels of one image
  obblabel normalize images/                    # Rewrite label files in canonical form
  obblabel progress images/                     # Show how many images are labeled
  obblabel classes add car                      # Append a class
  obblabel replay images/0001.jpg edits.txt     # Apply a pointer-event script`,
	Version:           "0.3.0",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. mk builds the logger once the level is known.
func Execute(mk func(slog.Leveler) *slog.Logger) {
	if mk != nil {
		newLogger = mk
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"session config file (default $"+EnvConfig+" or ~/"+config.FileName+")")
}

func setup(cmd *cobra.Command, args []string) error {
	// A missing .env is normal.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}
	cfgPath = resolveConfigPath()

	var err error
	cfg, err = config.Load(cfgPath)
	logger = newLogger(logLevel(cfg))
	if err != nil {
		logger.Warn("config unreadable, using defaults", "path", cfgPath, "error", err)
	}
	logger.Debug("config loaded", "path", cfgPath, "classes", len(cfg.Classes))
	return nil
}

func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return config.DefaultPath()
}

func logLevel(c *config.Config) slog.Level {
	if verbose || (c != nil && c.Debug) {
		return slog.LevelDebug
	}
	var lvl slog.Level
	if s := strings.TrimSpace(os.Getenv(EnvLogLevel)); s != "" && lvl.UnmarshalText([]byte(s)) == nil {
		return lvl
	}
	return slog.LevelWarn
}
