package mcp

import "github.com/1broseidon/shapewin/internal/shape"

// ShapeTreeInput is the input for the shape_tree tool.
type ShapeTreeInput struct {
	Path      string `json:"path,omitempty" jsonschema:"Path of the mask image (PNG, GIF, JPEG, BMP, TIFF or WebP) on the server host"`
	Data      string `json:"data,omitempty" jsonschema:"Base64-encoded image bytes, used instead of path"`
	Mode      string `json:"mode,omitempty" jsonschema:"Shape mode: default, binarize:N, reverse-binarize:N or color-key:#rrggbb (default: configured mode)"`
	Invert    *bool  `json:"invert,omitempty" jsonschema:"Swap opaque and transparent leaves (default: configured shape.invert)"`
	MaxLeaves int    `json:"max_leaves,omitempty" jsonschema:"Maximum number of leaves returned (default: 256). Stats always cover the whole tree."`
	Opaque    bool   `json:"opaque_only,omitempty" jsonschema:"When true, return only the opaque leaves"`
}

// LeafInfo describes one quadtree leaf.
type LeafInfo struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	W     int    `json:"w"`
	H     int    `json:"h"`
	Class string `json:"class"`
}

// ShapeTreeOutput is the output for the shape_tree tool.
type ShapeTreeOutput struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	Mode      string          `json:"mode"`
	Invert    bool            `json:"invert"`
	Stats     shape.TreeStats `json:"stats"`
	Leaves    []LeafInfo      `json:"leaves"`
	Truncated bool            `json:"truncated,omitempty"`
}

// ShapeBitmapInput is the input for the shape_bitmap tool.
type ShapeBitmapInput struct {
	Path          string `json:"path,omitempty" jsonschema:"Path of the mask image (PNG, GIF, JPEG, BMP, TIFF or WebP) on the server host"`
	Data          string `json:"data,omitempty" jsonschema:"Base64-encoded image bytes, used instead of path"`
	Mode          string `json:"mode,omitempty" jsonschema:"Shape mode: default, binarize:N, reverse-binarize:N or color-key:#rrggbb (default: configured mode)"`
	PixelsPerByte int    `json:"pixels_per_byte,omitempty" jsonschema:"Pixels packed into each byte, 1 to 8 (default: 8)"`
	Encoding      string `json:"encoding,omitempty" jsonschema:"Encoding of the returned bitmap: hex or base64 (default: base64)"`
}

// ShapeBitmapOutput is the output for the shape_bitmap tool.
type ShapeBitmapOutput struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Mode          string `json:"mode"`
	PixelsPerByte int    `json:"pixels_per_byte"`
	Size          int    `json:"size"`
	Included      int    `json:"included"`
	Encoding      string `json:"encoding"`
	Data          string `json:"data"`
}
