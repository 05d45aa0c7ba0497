package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/astrocal/internal/astrology"
	"github.com/rewired-gh/astrocal/internal/config"
	"github.com/rewired-gh/astrocal/internal/logger"
	"github.com/rewired-gh/astrocal/internal/projection"
	"github.com/rewired-gh/astrocal/internal/storage"
)

const defaultConfigPath = "configs/config.yaml"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	offline    bool
	output     string

	cfg    *config.Config
	engine *projection.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "astrocal",
		Short: "Project moon phases, planets and horoscopes into the future",
		Long: `astrocal projects the current sky forward in time with a simple cyclic
model: moon phase and sign, planetary signs and degrees, a daily horoscope,
key events and a multi-day astrological calendar.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "path to configuration file")
	root.PersistentFlags().BoolVar(&a.offline, "offline", false, "use the built-in reference sky instead of the astrology API")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "output format: text, json or yaml")

	root.AddCommand(
		newProjectCmd(a),
		newHorizonsCmd(a),
		newCalendarCmd(a),
		newRunCmd(a),
	)
	return root
}

// setup loads configuration, initializes logging and builds the engine.
// A missing config file is only an error when --config was given explicitly.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	switch a.output {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q (want text, json or yaml)", a.output)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		if cmd.Flags().Changed("config") || !configMissing(a.configPath) {
			return err
		}
		cfg, err = config.Default()
		if err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	lc := cfg.GetLoggingConfig()
	logger.Init(lc.Level, lc.Format)

	a.engine = projection.New(a.provider(), projection.WithCache(storage.New(cfg.GetProjectionConfig().CacheSize)))
	return nil
}

func (a *app) provider() projection.Provider {
	if a.offline {
		logger.Debug("Using offline reference sky")
		return astrology.NewStatic()
	}
	ac := a.cfg.GetAstrologyConfig()
	return astrology.NewClient(ac.APIBaseURL, ac.APIKey, ac.Timeout, astrology.ClientConfig{
		MaxRetries:          ac.MaxRetries,
		RetryDelayBase:      ac.RetryDelayBase,
		MaxIdleConns:        ac.MaxIdleConns,
		MaxIdleConnsPerHost: ac.MaxIdleConnsPerHost,
		IdleConnTimeout:     ac.IdleConnTimeout,
	})
}

func configMissing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, fs.ErrNotExist)
}
