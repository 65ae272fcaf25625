package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-photon-mapper/pkg/core"
	"github.com/df07/go-photon-mapper/pkg/integrator"
	"github.com/df07/go-photon-mapper/pkg/renderer"
	"github.com/df07/go-photon-mapper/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene      string
	configPath string
	mode       string
	photons    int
	workers    int
	seed       uint64
	spp        int
	width      int
	height     int
	output     string
}

const (
	modeVisualize = "visualize"
	modePathTrace = "pathtrace"
)

func main() {
	var opts options
	flag.StringVar(&opts.scene, "scene", "cornell", "Built-in scene name or path to a JSON scene file")
	flag.StringVar(&opts.configPath, "config", "", "JSON photon mapping config file (optional)")
	flag.StringVar(&opts.mode, "mode", modeVisualize, "Output: 'visualize' (photon map view) or 'pathtrace' (reference render)")
	flag.IntVar(&opts.photons, "photons", 0, "Number of photons to trace (0 = config value)")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (0 = config value, or all CPUs)")
	flag.Uint64Var(&opts.seed, "seed", 0, "Sampler seed (0 = config value)")
	flag.IntVar(&opts.spp, "spp", 16, "Samples per pixel in pathtrace mode")
	flag.IntVar(&opts.width, "width", 0, "Image width override (0 = scene camera)")
	flag.IntVar(&opts.height, "height", 0, "Image height override (0 = scene camera)")
	flag.StringVar(&opts.output, "output", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Photon Mapper")
		fmt.Println("Usage: photonmapper [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		for _, name := range scene.BuiltinNames() {
			fmt.Printf("  %s\n", name)
		}
		fmt.Println("  <file>.json - scene description file")
		fmt.Println()
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
		return
	}

	if err := run(opts, core.NewDefaultLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the scene, traces photons and writes the requested image
func run(opts options, logger core.Logger) error {
	s, err := createScene(opts.scene)
	if err != nil {
		return err
	}
	if opts.width > 0 {
		s.CameraConfig.Width = opts.width
	}
	if opts.height > 0 {
		s.CameraConfig.Height = opts.height
	}
	if err := s.Build(); err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	logger.Printf("Scene %s: %d primitives, %d lights\n", s.Name, s.PrimitiveCount(), len(s.Lights))

	config, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var img image.Image
	switch opts.mode {
	case modeVisualize:
		pm := integrator.NewPhotonMapping(config, logger)
		if err := pm.Build(s, core.NewPCGSampler(config.Seed)); err != nil {
			return fmt.Errorf("trace photons: %w", err)
		}
		r := renderer.NewRenderer(s, config.NumWorkers, logger)
		if img, err = r.VisualizePhotonMap(pm.PhotonMap(), renderer.DefaultVisualizerConfig()); err != nil {
			return err
		}
	case modePathTrace:
		pt := integrator.NewPathTracing(integrator.DefaultPathTracingConfig())
		if err := pt.Build(s, core.NewPCGSampler(config.Seed)); err != nil {
			return fmt.Errorf("build path tracer: %w", err)
		}
		r := renderer.NewRenderer(s, config.NumWorkers, logger)
		if img, _, err = r.Render(pt, opts.spp, core.NewPCGSampler(config.Seed)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %q (use %s or %s)", opts.mode, modeVisualize, modePathTrace)
	}

	filename := opts.output
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join("output", sceneDirName(opts.scene), fmt.Sprintf("render_%s.png", timestamp))
	}
	if err := savePNG(filename, img); err != nil {
		return err
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// createScene resolves a built-in scene name or a JSON scene file. The
// returned scene is not built.
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, errors.New("no scene given")
	}
	if strings.HasSuffix(name, ".json") {
		return scene.LoadScene(name)
	}
	return scene.NewBuiltinScene(name)
}

// loadConfig reads the config file, if any, and applies the flag overrides
func loadConfig(opts options) (integrator.PhotonMappingConfig, error) {
	config := integrator.DefaultPhotonMappingConfig()
	if opts.configPath != "" {
		var err error
		if config, err = integrator.LoadPhotonMappingConfig(opts.configPath); err != nil {
			return config, err
		}
	}

	if opts.photons > 0 {
		config.NumPhotons = opts.photons
	}
	if opts.workers > 0 {
		config.NumWorkers = opts.workers
	}
	if opts.seed != 0 {
		config.Seed = opts.seed
	}
	return config, config.Validate()
}

// sceneDirName turns a scene argument into an output directory name
func sceneDirName(sceneArg string) string {
	base := filepath.Base(sceneArg)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}
