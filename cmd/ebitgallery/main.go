package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nicky-ayoub/ebitgallery/internal/config"
	"github.com/nicky-ayoub/ebitgallery/internal/gallery"
	"github.com/nicky-ayoub/ebitgallery/internal/layout"
	"github.com/nicky-ayoub/ebitgallery/internal/render/screen"
	"github.com/nicky-ayoub/ebitgallery/internal/render/snapshot"
	"github.com/nicky-ayoub/ebitgallery/internal/scan"
	"github.com/nicky-ayoub/ebitgallery/internal/service"
	"github.com/nicky-ayoub/ebitgallery/internal/viewport"
)

// options holds the command line.
type options struct {
	dir        string
	configPath string
	headless   bool
	frames     uint64
	hz         int
	out        string
	width      int
	height     int
	shuffle    bool
	thumbs     bool
	verbose    bool
	autoscroll bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.dir, "dir", ".", "Directory to scan for images. Can also be provided as a positional argument.")
	flag.StringVar(&o.configPath, "config", "", "JSON file overriding the default settings")
	flag.BoolVar(&o.headless, "headless", false, "Render off-screen and write a PNG instead of opening a window")
	flag.Uint64Var(&o.frames, "frames", 300, "Frames to run in headless mode")
	flag.IntVar(&o.hz, "hz", 0, "Headless tick rate (defaults to the configured TPS)")
	flag.StringVar(&o.out, "out", "gallery.png", "Snapshot path in headless mode")
	flag.IntVar(&o.width, "width", 0, "Window or snapshot width")
	flag.IntVar(&o.height, "height", 0, "Window or snapshot height")
	flag.BoolVar(&o.shuffle, "shuffle", false, "Shuffle the gallery order")
	flag.BoolVar(&o.thumbs, "thumbs", false, "Use embedded EXIF thumbnails as textures when present")
	flag.BoolVar(&o.verbose, "v", false, "Debug logging")
	flag.BoolVar(&o.autoscroll, "autoscroll", true, "Start with autoscroll running")
	flag.Parse()

	// If -dir is not used, check for a positional argument.
	dirFlagIsSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "dir" {
			dirFlagIsSet = true
		}
	})
	if !dirFlagIsSet && flag.NArg() > 0 {
		o.dir = flag.Arg(0)
	}
	return o
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.width > 0 {
		cfg.WindowWidth = o.width
	}
	if o.height > 0 {
		cfg.WindowHeight = o.height
	}
	if o.shuffle {
		cfg.Shuffle = true
	}
	if o.thumbs {
		cfg.PreferThumbnails = true
	}
	return cfg, cfg.Validate()
}

// loadSources scans dir and reads the dimensions of every image found.
// Unreadable images are skipped.
func loadSources(dir string, cfg config.Config, images *service.ImageService) ([]layout.Source, error) {
	scanner := service.NewScannerService(&scan.FileScannerImpl{})
	items, err := scanner.Collect(dir, func(msg string) { log.Println(msg) })
	if err != nil {
		return nil, err
	}
	if cfg.Shuffle {
		items.Shuffle(rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	sources := make([]layout.Source, 0, len(items))
	for _, item := range items {
		info, err := images.GetImageInfo(item.Path)
		if err != nil {
			log.Printf("Skipping %s: %v", item.Path, err)
			continue
		}
		sources = append(sources, layout.Source{Path: item.Path, Width: info.Width, Height: info.Height})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no readable images in %s", dir)
	}
	log.Printf("Loaded %d images from %s", len(sources), dir)
	return sources, nil
}

// runHeadless ticks the gallery on a timer and writes the final frame.
func runHeadless(o options, cfg config.Config, doc *layout.Document, images *service.ImageService) error {
	size := viewport.ScreenSize{Width: float64(cfg.WindowWidth), Height: float64(cfg.WindowHeight)}
	backend := snapshot.New(images, cfg.WindowWidth, cfg.WindowHeight, slog.Default())
	ctrl, err := gallery.New(gallery.FromLayout(doc), backend, cfg.GalleryOptions(size))
	if err != nil {
		return err
	}
	if !o.autoscroll {
		ctrl.ToggleAutoscroll()
	}

	hz := o.hz
	if hz <= 0 {
		hz = cfg.TPS
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	loop := gallery.NewLoop(ctrl.Tick)
	start := time.Now()
	if err := loop.Run(ctx, gallery.LoopConfig{Hz: hz, Frames: o.frames}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Printf("Ran %d frames in %v", loop.Frames(), time.Since(start).Round(time.Millisecond))

	// Let outstanding textures land, then draw one more frame with them.
	backend.Wait()
	loop.Step()
	loop.Stop()

	if err := backend.SavePNG(o.out); err != nil {
		return err
	}
	log.Printf("Wrote %s", o.out)
	return nil
}

func runWindow(o options, cfg config.Config, doc *layout.Document, images *service.ImageService) error {
	size := viewport.ScreenSize{Width: float64(cfg.WindowWidth), Height: float64(cfg.WindowHeight)}
	backend := screen.New(images, 2, slog.Default())
	defer backend.Close()

	ctrl, err := gallery.New(gallery.FromLayout(doc), backend, cfg.GalleryOptions(size))
	if err != nil {
		return err
	}
	if !o.autoscroll {
		ctrl.ToggleAutoscroll()
	}

	ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
	ebiten.SetWindowTitle("ebitgallery")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetTPS(cfg.TPS)

	return ebiten.RunGame(newGame(ctrl, backend, doc, cfg.ShowHUD))
}

func main() {
	o := parseFlags()
	if o.verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	cfg, err := loadConfig(o)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	images := service.NewImageService()
	images.MaxTextureSize = cfg.MaxTextureSize
	images.PreferThumbnails = cfg.PreferThumbnails

	sources, err := loadSources(o.dir, cfg, images)
	if err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}
	doc := layout.New(sources, cfg.Column())
	doc.Reflow(viewport.ScreenSize{Width: float64(cfg.WindowWidth), Height: float64(cfg.WindowHeight)})

	if o.headless {
		err = runHeadless(o, cfg, doc, images)
	} else {
		err = runWindow(o, cfg, doc, images)
	}
	if err != nil {
		log.Fatal(err)
	}
}
