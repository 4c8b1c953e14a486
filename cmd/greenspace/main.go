package main

import (
	"errors"
	"os"

	"github.com/urbanatlas/greenspace/internal/config"
	"github.com/urbanatlas/greenspace/internal/logger"
	"github.com/urbanatlas/greenspace/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"    env:"CONFIG_FILE" description:"Path to configuration file"                 default:"config.yaml"`
	Workspace  string `short:"w" long:"workspace" env:"WORKSPACE"   description:"Workspace directory with input shapefiles"`
	ExportDir  string `short:"e" long:"export"    env:"EXPORT_DIR"  description:"Directory for exported maps"`
	City       string `long:"city"                env:"CITY"        description:"City name used in titles and file names"`
	NoPreview  bool   `long:"no-preview" description:"Skip the WebP preview export"`
	NoGeoJSON  bool   `long:"no-geojson" description:"Skip the GeoJSON summary export"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", opts.ConfigFile).Msg("No configuration file, using defaults")
			cfg = &config.Config{}
		} else {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	// Flags override the file.
	if opts.Workspace != "" {
		cfg.Workspace = opts.Workspace
	}
	if opts.ExportDir != "" {
		cfg.ExportDir = opts.ExportDir
	}
	if opts.City != "" {
		cfg.City = opts.City
	}
	cfg.Defaults()

	if cfg.City == "" {
		log.Fatal().Msg("City name is required (--city or the config file)")
	}

	log.Info().
		Str("city", cfg.City).
		Str("workspace", cfg.Workspace).
		Str("export", cfg.ExportDir).
		Msg("Starting analysis")

	if err := processor.Run(cfg, !opts.NoPreview, !opts.NoGeoJSON); err != nil {
		// The run fails soft: report what happened and exit cleanly so a
		// scheduled batch does not trip on a missing input.
		log.Error().Err(err).Msg("An error occurred")
		log.Error().Msg("Please ensure that all required shapefiles are in the workspace and are not being used by other applications.")
		return
	}

	log.Info().Msg("Analysis finished successfully")
}
