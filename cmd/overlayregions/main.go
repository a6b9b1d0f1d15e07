package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"overlayregions/pkg/config"
	"overlayregions/pkg/logging"
	"overlayregions/pkg/mask"
	"overlayregions/pkg/regions"
	"overlayregions/pkg/visualization"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "overlayregions: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("overlayregions", flag.ContinueOnError)
	inputFile := fs.String("input", "", "Overlay mask image (PNG or JPEG)")
	configFile := fs.String("config", "overlayregions.yaml", "YAML configuration file")
	writeConfig := fs.String("write-config", "", "Write the default configuration to this path and exit")
	pow2 := fs.Bool("pow2", false, "Also fuse regions when one power-of-two texture is not larger than two")
	closeDistance := fs.Int("close", -1, "Fuse regions closer than this distance (overrides config)")
	threshold := fs.Float64("threshold", -1, "Foreground luminance threshold in [0, 1) (overrides config)")
	outputFile := fs.String("output", "", "Write the rendered overlay to this PNG or JPEG file (overrides config)")
	regionsDir := fs.String("regions-dir", "", "Save one texture image per region in this directory (overrides config)")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Default configuration written to %s\n", *writeConfig)
		return nil
	}

	if *inputFile == "" {
		fs.Usage()
		return fmt.Errorf("missing -input")
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return err
	}

	// Command line flags override the configuration file. Boolean flags
	// apply only when given, so -pow2=false can switch a configured default off.
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "pow2":
			cfg.Finder.OptimizeForPowersOfTwo = *pow2
		case "verbose":
			cfg.Output.Verbose = *verbose
		}
	})
	if *closeDistance >= 0 {
		cfg.Finder.CloseDistance = *closeDistance
	}
	if *threshold >= 0 {
		cfg.Mask.Threshold = *threshold
	}
	if *outputFile != "" {
		cfg.Output.OverlayFile = *outputFile
	}
	if *regionsDir != "" {
		cfg.Output.RegionsDir = *regionsDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, done := logging.New(logging.Config{
		File:    cfg.Log.File,
		MaxSize: cfg.Log.MaxSize,
		MaxAge:  cfg.Log.MaxAge,
		Verbose: cfg.Output.Verbose,
	})
	defer done()

	grid, err := mask.Load(*inputFile, cfg.Mask.Threshold)
	if err != nil {
		logger.Error("loading mask failed", zap.String("input", *inputFile), zap.Error(err))
		return err
	}
	logger.Info("mask loaded",
		zap.String("input", *inputFile),
		zap.Int("width", grid.Width()),
		zap.Int("height", grid.Height()),
		zap.Int("foreground", grid.Count()))

	finder := regions.NewFinder(grid, append(cfg.FinderOptions(), regions.WithLogger(logger))...)

	startTime := time.Now()
	finder.FindRegions(cfg.Finder.OptimizeForPowersOfTwo)
	found := finder.Regions()
	logger.Info("region search completed",
		zap.Int("regions", len(found)),
		zap.Duration("elapsed", time.Since(startTime)))

	summary := regions.Summarize(grid, found)
	fmt.Fprintf(stdout, "Regions (%d):\n", len(found))
	for i, r := range found {
		fmt.Fprintf(stdout, "  %3d  x=%d y=%d w=%d h=%d  texture=%d\n",
			i, r.X, r.Y, r.Width, r.Height, regions.TextureCost(r))
	}
	fmt.Fprintf(stdout, "Foreground pixels: %d\n", summary.Foreground)
	fmt.Fprintf(stdout, "Covered area: %d\n", summary.CoveredArea)
	fmt.Fprintf(stdout, "Texture cost: %d\n", summary.TextureCost)
	fmt.Fprintf(stdout, "Fill ratio: %.3f (std dev %.3f)\n", summary.MeanFill, summary.StdDevFill)

	if !summary.Complete {
		logger.Error("regions do not cover every foreground pixel")
		return fmt.Errorf("incomplete region coverage")
	}

	if cfg.Output.OverlayFile == "" && cfg.Output.RegionsDir == "" {
		return nil
	}

	viewer := visualization.NewViewer(grid, found, cfg.Output.Scale)
	if cfg.Output.OverlayFile != "" {
		if err := visualization.SaveImage(viewer.Render(), cfg.Output.OverlayFile); err != nil {
			return fmt.Errorf("failed to save overlay: %w", err)
		}
		fmt.Fprintf(stdout, "Overlay saved to: %s\n", cfg.Output.OverlayFile)
	}
	if cfg.Output.RegionsDir != "" {
		if err := viewer.SaveRegionSequence(cfg.Output.RegionsDir, cfg.Finder.OptimizeForPowersOfTwo); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Region textures saved to: %s\n", cfg.Output.RegionsDir)
	}

	return nil
}
