package main

import (
	"bytes"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/1broseidon/shapewin/internal/config"
	"github.com/1broseidon/shapewin/internal/shape"
)

func TestResolveMode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SetShapeMode(shape.BinarizeAlpha(42))

	tests := []struct {
		flag    string
		want    shape.Mode
		wantErr bool
	}{
		{"", shape.BinarizeAlpha(42), false},
		{"default", shape.Default(), false},
		{"reverse-binarize:7", shape.ReverseBinarizeAlpha(7), false},
		{"color-key:#00ff00", shape.ColorKey(0, 255, 0), false},
		{"sepia", shape.Mode{}, true},
	}
	for _, tt := range tests {
		got, err := resolveMode(cfg, tt.flag)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolveMode(%q) expected error", tt.flag)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveMode(%q): %v", tt.flag, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveMode(%q) = %v, want %v", tt.flag, got, tt.want)
		}
	}
}

func TestResolveInvert(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Shape.Invert = true

	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"config value when flag absent", nil, true},
		{"explicit false wins", []string{"--invert=false"}, false},
		{"explicit true", []string{"--invert"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(io.Discard)
			invert := fs.Bool("invert", false, "")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := resolveInvert(fs, cfg, *invert); got != tt.want {
				t.Fatalf("resolveInvert = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "shape.mode"}, "default:shape.mode"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml"}, "file:/tmp/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml", Line: 3, Column: 9}, "file:/tmp/c.yaml:3:9"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPrintTreeReport(t *testing.T) {
	var buf bytes.Buffer
	printTreeReport(&buf, treeReport{
		Width:  4,
		Height: 2,
		Mode:   "default",
		Stats:  shape.TreeStats{Leaves: 2, Quads: 1, Depth: 1, OpaqueArea: 4, OpaqueRects: 1},
		Leaves: []treeLeaf{
			{X: 0, Y: 0, W: 2, H: 2, Class: "opaque"},
			{X: 2, Y: 0, W: 2, H: 2, Class: "transparent"},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"opaque      0,0 2x2\n",
		"transparent 2,0 2x2\n",
		"mode: default (invert: false)\n",
		"50.0% visible",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
