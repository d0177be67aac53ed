package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/shapewin/internal/pixel"
	"github.com/1broseidon/shapewin/internal/shape"
)

func (s *Server) handleShapeTree(_ context.Context, _ *mcpsdk.CallToolRequest, args ShapeTreeInput) (*mcpsdk.CallToolResult, ShapeTreeOutput, error) {
	surface, err := loadSurface(args.Path, args.Data)
	if err != nil {
		return nil, ShapeTreeOutput{}, err
	}
	mode, err := s.resolveMode(args.Mode)
	if err != nil {
		return nil, ShapeTreeOutput{}, err
	}
	invert := s.config.Shape.Invert
	if args.Invert != nil {
		invert = *args.Invert
	}
	maxLeaves := args.MaxLeaves
	if maxLeaves <= 0 {
		maxLeaves = DefaultMaxLeaves
	}

	tree, err := shape.BuildTree(mode, surface, invert)
	if err != nil {
		return nil, ShapeTreeOutput{}, err
	}
	defer shape.Free(&tree)

	out := ShapeTreeOutput{
		Width:  surface.Width,
		Height: surface.Height,
		Mode:   mode.String(),
		Invert: invert,
		Stats:  shape.Stats(tree),
		Leaves: []LeafInfo{},
	}
	shape.Traverse(tree, func(l *shape.Leaf) {
		if args.Opaque && l.Class != shape.Opaque {
			return
		}
		if len(out.Leaves) >= maxLeaves {
			out.Truncated = true
			return
		}
		out.Leaves = append(out.Leaves, LeafInfo{
			X:     l.Rect.X,
			Y:     l.Rect.Y,
			W:     l.Rect.W,
			H:     l.Rect.H,
			Class: l.Class.String(),
		})
	})

	s.logger.Debug("shape_tree",
		"width", out.Width,
		"height", out.Height,
		"mode", out.Mode,
		"leaves", out.Stats.Leaves,
	)
	return nil, out, nil
}

func (s *Server) handleShapeBitmap(_ context.Context, _ *mcpsdk.CallToolRequest, args ShapeBitmapInput) (*mcpsdk.CallToolResult, ShapeBitmapOutput, error) {
	surface, err := loadSurface(args.Path, args.Data)
	if err != nil {
		return nil, ShapeBitmapOutput{}, err
	}
	mode, err := s.resolveMode(args.Mode)
	if err != nil {
		return nil, ShapeBitmapOutput{}, err
	}
	ppb := args.PixelsPerByte
	if ppb == 0 {
		ppb = 8
	}
	encoding := strings.ToLower(strings.TrimSpace(args.Encoding))
	if encoding == "" {
		encoding = "base64"
	}
	if encoding != "base64" && encoding != "hex" {
		return nil, ShapeBitmapOutput{}, fmt.Errorf("unknown encoding %q (want hex or base64)", args.Encoding)
	}

	bitmap, err := shape.Bitmap(mode, surface, ppb)
	if err != nil {
		return nil, ShapeBitmapOutput{}, err
	}

	included := 0
	for i := 0; i < surface.Width*surface.Height; i++ {
		if shape.BitmapBit(bitmap, i, ppb) {
			included++
		}
	}

	out := ShapeBitmapOutput{
		Width:         surface.Width,
		Height:        surface.Height,
		Mode:          mode.String(),
		PixelsPerByte: ppb,
		Size:          len(bitmap),
		Included:      included,
		Encoding:      encoding,
	}
	if encoding == "hex" {
		out.Data = hex.EncodeToString(bitmap)
	} else {
		out.Data = base64.StdEncoding.EncodeToString(bitmap)
	}

	s.logger.Debug("shape_bitmap",
		"width", out.Width,
		"height", out.Height,
		"mode", out.Mode,
		"bytes", out.Size,
	)
	return nil, out, nil
}

// resolveMode parses a mode argument, falling back to the configured mode.
func (s *Server) resolveMode(arg string) (shape.Mode, error) {
	if strings.TrimSpace(arg) == "" {
		return s.config.ShapeMode()
	}
	return shape.ParseMode(arg)
}

// loadSurface decodes the image named by path or carried inline in data.
func loadSurface(path, data string) (*pixel.Surface, error) {
	switch {
	case path != "" && data != "":
		return nil, fmt.Errorf("path and data are mutually exclusive")
	case path != "":
		return pixel.Load(path)
	case data != "":
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 image data: %w", err)
		}
		s, err := pixel.Read(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("one of path or data is required")
	}
}
