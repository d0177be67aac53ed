package shape

import (
	"fmt"

	"github.com/1broseidon/shapewin/internal/pixel"
)

// Classification is the uniform value of a leaf.
type Classification int

const (
	// Opaque leaves are part of the visible region.
	Opaque Classification = iota
	// Transparent leaves are cut out of the window.
	Transparent
)

func (c Classification) String() string {
	if c == Transparent {
		return "transparent"
	}
	return "opaque"
}

// Quadrant indexes the children of a Quad.
type Quadrant int

const (
	UpLeft Quadrant = iota
	UpRight
	DownLeft
	DownRight
)

// Node is either a *Leaf or a *Quad.
type Node interface {
	node()
}

// Leaf is a region whose pixels all classify the same way.
type Leaf struct {
	Class Classification
	Rect  Rect
}

// Quad is a region split into four owned children indexed by Quadrant.
type Quad struct {
	Children [4]Node
}

func (*Leaf) node() {}
func (*Quad) node() {}

// BuildTree builds the quadtree for the whole surface.
func BuildTree(c Classifier, s *pixel.Surface, invert bool) (Node, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidArgument)
	}
	return BuildTreeRect(c, s, invert, Rect{W: s.Width, H: s.Height})
}

// BuildTreeRect builds the quadtree for rect. A pixel is opaque when the
// classifier includes it, flipped when invert is set. The surface stays
// locked for the whole build.
func BuildTreeRect(c Classifier, s *pixel.Surface, invert bool, rect Rect) (Node, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !rect.In(s.Width, s.Height) {
		return nil, fmt.Errorf("%w: %s not inside %dx%d", ErrOutOfBounds, rect, s.Width, s.Height)
	}

	unlock, err := s.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	b := builder{classifier: c, surface: s, invert: invert}
	return b.build(rect), nil
}

type builder struct {
	classifier Classifier
	surface    *pixel.Surface
	invert     bool
}

func (b *builder) opaque(x, y int) bool {
	return b.classifier.Classify(pixel.Decode(b.surface, x, y)) != b.invert
}

// build scans rect in row-major order and splits on the first pixel that
// disagrees with the first one. An empty rect is an opaque leaf.
func (b *builder) build(rect Rect) Node {
	if rect.Empty() {
		return &Leaf{Class: Opaque, Rect: rect}
	}

	first := b.opaque(rect.X, rect.Y)
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			if b.opaque(x, y) == first {
				continue
			}
			q := &Quad{}
			for i, sub := range rect.Quadrants() {
				q.Children[i] = b.build(sub)
			}
			return q
		}
	}

	class := Transparent
	if first {
		class = Opaque
	}
	return &Leaf{Class: class, Rect: rect}
}
