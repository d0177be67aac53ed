package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/shapewin/internal/config"
	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/preview"
	"github.com/1broseidon/shapewin/internal/shape"
)

// maskInput is the shared state of the commands that inspect one image.
type maskInput struct {
	cfg     *config.Config
	surface *pixel.Surface
	mode    shape.Mode
	invert  bool
}

// parseMaskArgs parses the flags common to tree, bitmap and preview, then
// loads the config and the image. Extra flags are registered by setup
// before parsing. It returns a non-zero exit code on failure.
func parseMaskArgs(name, usage string, args []string, setup func(fs *flag.FlagSet)) (*maskInput, int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/shapewin/config.yaml)")
	modeFlag := fs.String("mode", "", "Shape mode: default, binarize:N, reverse-binarize:N, color-key:#rrggbb (default: from config)")
	invert := fs.Bool("invert", false, "Swap the visible and hidden parts of the mask (default: from config)")
	if setup != nil {
		setup(fs)
	}
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shapewin %s [options] <image>\n", name)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, 0
		}
		return nil, 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 1
	}
	mode, err := resolveMode(res.Config, *modeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 2
	}
	surface, err := pixel.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, 1
	}
	return &maskInput{
		cfg:     res.Config,
		surface: surface,
		mode:    mode,
		invert:  resolveInvert(fs, res.Config, *invert),
	}, 0
}

type treeLeaf struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
	Class string `json:"class"`
}

type treeReport struct {
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Mode   string          `json:"mode"`
	Invert bool            `json:"invert"`
	Stats  shape.TreeStats `json:"stats"`
	Leaves []treeLeaf      `json:"leaves"`
}

func runTree(args []string) int {
	var asJSON *bool
	in, code := parseMaskArgs("tree", "Print the leaves of the shape quadtree and its statistics.", args, func(fs *flag.FlagSet) {
		asJSON = fs.Bool("json", false, "Print JSON")
	})
	if in == nil {
		return code
	}

	tree, err := shape.BuildTree(in.mode, in.surface, in.invert)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer shape.Free(&tree)

	report := treeReport{
		Width:  in.surface.Width,
		Height: in.surface.Height,
		Mode:   in.mode.String(),
		Invert: in.invert,
		Stats:  shape.Stats(tree),
		Leaves: []treeLeaf{},
	}
	shape.Traverse(tree, func(l *shape.Leaf) {
		report.Leaves = append(report.Leaves, treeLeaf{
			X:     l.Rect.X,
			Y:     l.Rect.Y,
			W:     l.Rect.W,
			H:     l.Rect.H,
			Class: l.Class.String(),
		})
	})

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printTreeReport(os.Stdout, report)
	return 0
}

func printTreeReport(w io.Writer, r treeReport) {
	for _, l := range r.Leaves {
		fmt.Fprintf(w, "%-11s %d,%d %dx%d\n", l.Class, l.X, l.Y, l.W, l.H)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "mode: %s (invert: %v)\n", r.Mode, r.Invert)
	fmt.Fprintln(w, preview.Summary(r.Stats, r.Width, r.Height))
}

func runBitmap(args []string) int {
	var ppb *int
	var out *string
	in, code := parseMaskArgs("bitmap", "Pack the shape mask, least significant bit first, and print a hex dump or write the raw bytes to a file.", args, func(fs *flag.FlagSet) {
		ppb = fs.Int("ppb", 0, "Pixels per byte, 1 to 8 (default: headless.pixels_per_byte from config)")
		out = fs.String("out", "", "Write the raw bitmap to this file instead of printing a hex dump")
	})
	if in == nil {
		return code
	}

	density := *ppb
	if density == 0 {
		density = in.cfg.Headless.PixelsPerByte
	}
	bitmap, err := shape.Bitmap(in.mode, in.surface, density)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if *out != "" {
		if err := os.WriteFile(*out, bitmap, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("wrote %d bytes (%dx%d, %d pixels per byte) to %s\n",
			len(bitmap), in.surface.Width, in.surface.Height, density, *out)
		return 0
	}
	fmt.Printf("# %dx%d, %d pixels per byte, mode %s\n", in.surface.Width, in.surface.Height, density, in.mode)
	fmt.Print(hex.Dump(bitmap))
	return 0
}

func runPreview(args []string) int {
	var width *int
	var plain *bool
	in, code := parseMaskArgs("preview", "Render the visible region of the shape mask with half-block characters.", args, func(fs *flag.FlagSet) {
		width = fs.Int("width", 0, "Maximum width in columns (default: terminal width)")
		plain = fs.Bool("plain", false, "Disable colour and the border")
	})
	if in == nil {
		return code
	}

	mask, stats, err := preview.Build(in.mode, in.surface, in.invert)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cols, rows := preview.TerminalSize()
	if *width > 0 {
		cols = *width
	} else {
		cols -= 2
	}
	lines := preview.Render(mask, preview.Options{
		Columns: max(1, cols),
		Rows:    max(1, rows-4),
		Color:   !*plain,
	})
	if *plain {
		for _, l := range lines {
			fmt.Println(l)
		}
	} else {
		fmt.Println(preview.Frame(lines))
	}
	fmt.Println(preview.Summary(stats, in.surface.Width, in.surface.Height))
	return 0
}
