package main

import (
	"flag"
	"fmt"
	"log"

	"ndimage/pkg/config"
	"ndimage/pkg/filter"
	"ndimage/pkg/region"
	"ndimage/pkg/transform"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "ndimage.yaml", "Path to the pipeline configuration file")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration file and exit")
	shift := flag.Float64("shift", 0, "Additive intensity term (overrides config)")
	scale := flag.Float64("scale", 1, "Multiplicative intensity term (overrides config)")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Load configuration, falling back to defaults when the file is absent
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *shift != 0 {
		cfg.Filter.Shift = *shift
	}
	if *scale != 1 {
		cfg.Filter.Scale = *scale
	}

	fmt.Println("================================")
	fmt.Println("DEMAND-DRIVEN N-DIMENSIONAL IMAGE PIPELINE")
	fmt.Println("gradient source -> shift/scale -> resample -> statistics")
	fmt.Println("================================")

	const dim = 3
	size := region.Size{cfg.Volume.Width, cfg.Volume.Height, cfg.Volume.Depth}

	// Head producer: defines the dataset geometry
	source := filter.NewGradientImageSource(dim)
	source.SetSize(size)
	source.SetSpacing(cfg.Volume.Spacing)

	// Pointwise intensity mapping
	shiftScale := filter.NewShiftScale(dim)
	shiftScale.SetInput(source.GetOutput())
	shiftScale.SetShift(cfg.Filter.Shift)
	shiftScale.SetScale(cfg.Filter.Scale)

	// Geometric resampling through a translation
	resample := filter.NewResample(dim)
	resample.SetInput(shiftScale.GetOutput())
	resample.SetSize(size)
	resample.SetOutputSpacing(cfg.Volume.Spacing)
	resample.SetTransform(transform.NewTranslationWithOffset(cfg.Resample.Offset))
	resample.SetDefaultPixelValue(cfg.Resample.DefaultValue)

	// Terminal consumer computing intensity statistics
	stats := filter.NewStatistics(dim)
	stats.SetInput(resample.GetOutput())

	if cfg.Output.Verbose {
		progress := func(completed, total int, message string) {
			fmt.Printf("  [%d/%d] %s\n", completed, total, message)
		}
		source.SetProgressCallback(progress)
		shiftScale.SetProgressCallback(progress)
		resample.SetProgressCallback(progress)
		stats.SetProgressCallback(progress)
	}

	// Request only the central sub-window; upstream stages compute no more
	// than this demand requires
	start := region.Index{cfg.Volume.Width / 4, cfg.Volume.Height / 4, cfg.Volume.Depth / 4}
	window := region.Size{cfg.Volume.Width / 2, cfg.Volume.Height / 2, cfg.Volume.Depth / 2}
	requested, err := region.New(start, window)
	if err != nil {
		log.Fatalf("Invalid requested region: %v", err)
	}

	out := stats.GetOutput()
	out.SetRequestedRegion(requested)

	fmt.Printf("Requesting region %v of a %v dataset...\n", requested, size)
	if err := out.Update(); err != nil {
		log.Fatalf("Pipeline update failed: %v", err)
	}

	fmt.Println("\nIntensity statistics over the requested region:")
	fmt.Println("===============================================")
	fmt.Printf("Minimum: %.3f\n", stats.GetMin())
	fmt.Printf("Maximum: %.3f\n", stats.GetMax())
	fmt.Printf("Mean: %.3f\n", stats.GetMean())
	fmt.Printf("Sigma: %.3f\n", stats.GetSigma())
	fmt.Printf("Sum: %.3f\n", stats.GetSum())

	fmt.Println("\nRegion bookkeeping after the update:")
	fmt.Printf("- Largest possible: %v\n", out.GetLargestPossibleRegion())
	fmt.Printf("- Requested:        %v\n", out.GetRequestedRegion())
	fmt.Printf("- Buffered:         %v\n", out.GetBufferedRegion())
}
