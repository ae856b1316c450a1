package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ddadvisor/internal/config"
	"ddadvisor/internal/logger"
)

var (
	// Version is set at build time.
	Version = "dev"

	cfgPath        string
	prioritiesFlag string
)

var rootCmd = &cobra.Command{
	Use:           "ddadvisor",
	Short:         "Darkest Dungeon advisor: agent answers with local and wiki fallbacks",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"Path to YAML config file (optional; uses ~/.config/ddadvisor/config.yaml if not provided)")
	rootCmd.PersistentFlags().StringVar(&prioritiesFlag, "priorities", "",
		"Comma-separated fallback tool order (overrides config and "+config.PrioritiesEnv+")")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(wikiCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves the config file and applies the --priorities override.
func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if p := config.ParsePriorities(prioritiesFlag); len(p) > 0 {
		cfg.Fallback.Priorities = p
	}
	return cfg, nil
}

// newLogger builds the process logger. The chat screen owns the terminal,
// so it always logs to a file.
func newLogger(cfg *config.AppConfig, forTUI bool) (*zap.Logger, error) {
	file := cfg.Logging.File
	if forTUI && file == "" {
		file = filepath.Join(os.TempDir(), "ddadvisor.log")
	}
	return logger.NewLogger(cfg.Logging.Env, cfg.Logging.Level, file)
}

func setup(forTUI bool) (*config.AppConfig, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	l, err := newLogger(cfg, forTUI)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l, nil
}
