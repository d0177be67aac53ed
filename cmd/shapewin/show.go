package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/platform"
	"github.com/1broseidon/shapewin/internal/window"
)

func runShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/shapewin/config.yaml)")
	modeFlag := fs.String("mode", "", "Shape mode: default, binarize:N, reverse-binarize:N, color-key:#rrggbb (default: from config)")
	invert := fs.Bool("invert", false, "Swap the visible and hidden parts of the mask (default: from config)")
	hidden := fs.Bool("hidden", false, "Create the window without showing it")
	title := fs.String("title", "", "Window title (default: image file name)")
	x := fs.Int("x", platform.PosCentered, "Window x position (default: centered)")
	y := fs.Int("y", platform.PosCentered, "Window y position (default: centered)")
	driver := fs.String("driver", "", "Device to open: x11 or headless (default: from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: shapewin show [options] <image>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a borderless window of the image size, shaped by its mask, and run")
		fmt.Fprintln(os.Stderr, "until the window is closed or the process is interrupted.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	imagePath := fs.Arg(0)

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	logger := newLogger(cfg)

	mode, err := resolveMode(cfg, *modeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	surface, err := pixel.Load(imagePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	name := cfg.Driver
	if *driver != "" {
		name = *driver
	}
	dev, err := platform.Init(name, platform.Options{
		Display:       cfg.Display,
		Strategy:      cfg.X11.Strategy,
		InputShape:    cfg.X11.InputShape,
		CloseKey:      cfg.X11.CloseKey,
		DragButton:    cfg.X11.DragButton,
		Invert:        resolveInvert(fs, cfg, *invert),
		PixelsPerByte: cfg.Headless.PixelsPerByte,
		Logger:        logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s device: %v\n", name, err)
		return 1
	}
	defer func() {
		if err := platform.Quit(); err != nil {
			logger.Warn("device shutdown failed", "error", err)
		}
	}()

	if *title == "" {
		*title = filepath.Base(imagePath)
	}
	win, err := window.Create(dev, platform.WindowConfig{
		Title:  *title,
		X:      *x,
		Y:      *y,
		Width:  surface.Width,
		Height: surface.Height,
		Shown:  !*hidden,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create shaped window: %v (%s)\n", err, window.Code(err))
		return 1
	}
	defer win.Destroy()

	if err := win.SetShape(surface, &mode); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set window shape: %v (%s)\n", err, window.Code(err))
		return 1
	}
	logger.Info("shaped window ready",
		"window", *title,
		"device", dev.Name,
		"width", surface.Width,
		"height", surface.Height,
		"mode", mode.String(),
		"shown", !*hidden,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dev.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Event loop error: %v\n", err)
		return 1
	}
	return 0
}
