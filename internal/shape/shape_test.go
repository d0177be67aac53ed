package shape

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/1broseidon/shapewin/internal/pixel"
)

// fill returns a w x h ARGB8888 surface filled with one colour.
func fill(t *testing.T, w, h int, r, g, b, a uint8) *pixel.Surface {
	t.Helper()
	s, err := pixel.NewSurface(w, h, pixel.ARGB8888)
	if err != nil {
		t.Fatalf("new surface: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			s.SetRGBA(x, y, r, g, b, a)
		}
	}
	return s
}

type lockSpy struct {
	locked   int
	unlocked int
}

func (l *lockSpy) Lock() error { l.locked++; return nil }
func (l *lockSpy) Unlock()     { l.unlocked++ }

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		r, g, b, a uint8
		want       bool
	}{
		{"default alpha 0", Default(), 0, 0, 0, 0, false},
		{"default alpha 1", Default(), 0, 0, 0, 1, true},
		{"binarize below", BinarizeAlpha(128), 0, 0, 0, 127, false},
		{"binarize at cutoff", BinarizeAlpha(128), 0, 0, 0, 128, true},
		{"reverse at cutoff", ReverseBinarizeAlpha(128), 0, 0, 0, 128, true},
		{"reverse above", ReverseBinarizeAlpha(128), 0, 0, 0, 129, false},
		{"key exact match", ColorKey(255, 0, 0), 255, 0, 0, 255, false},
		// Differs in red only: the AND of per-channel differences is false.
		{"key differs in one channel", ColorKey(255, 0, 0), 254, 0, 0, 255, false},
		{"key differs in two channels", ColorKey(255, 0, 0), 254, 1, 0, 255, false},
		{"key differs in every channel", ColorKey(255, 0, 0), 254, 1, 1, 255, true},
		{"key ignores alpha", ColorKey(255, 0, 0), 0, 255, 255, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mode.Classify(tt.r, tt.g, tt.b, tt.a); got != tt.want {
				t.Fatalf("Classify(%d,%d,%d,%d) with %s = %v, want %v", tt.r, tt.g, tt.b, tt.a, tt.mode, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"default", Default(), false},
		{"", Default(), false},
		{"binarize:128", BinarizeAlpha(128), false},
		{"binarize", BinarizeAlpha(1), false},
		{"reverse-binarize:64", ReverseBinarizeAlpha(64), false},
		{"color-key:#ff00ff", ColorKey(255, 0, 255), false},
		{"colorkey:00ff00", ColorKey(0, 255, 0), false},
		{"color-key", Mode{}, true},
		{"binarize:300", Mode{}, true},
		{"default:1", Mode{}, true},
		{"sepia", Mode{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Fatalf("ParseMode(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}

	for _, m := range []Mode{Default(), BinarizeAlpha(9), ReverseBinarizeAlpha(200), ColorKey(1, 2, 3)} {
		back, err := ParseMode(m.String())
		if err != nil || back != m {
			t.Fatalf("ParseMode(%q) = %+v, %v; want %+v", m.String(), back, err, m)
		}
	}
}

func TestPackBitmap_OpaqueAndTransparent(t *testing.T) {
	opaque := fill(t, 5, 3, 0, 0, 0, 255)
	out := make([]byte, BitmapSize(5, 3, 8))
	if err := PackBitmap(Default(), opaque, out, 8); err != nil {
		t.Fatalf("pack: %v", err)
	}
	// 15 pixels: first byte full, second byte has the low 7 bits set.
	if out[0] != 0xff || out[1] != 0x7f {
		t.Fatalf("expected [ff 7f], got % x", out)
	}
	for i := 0; i < 15; i++ {
		if !BitmapBit(out, i, 8) {
			t.Fatalf("pixel %d not set", i)
		}
	}

	empty := fill(t, 5, 3, 0, 0, 0, 0)
	out = make([]byte, BitmapSize(5, 3, 8))
	if err := PackBitmap(Default(), empty, out, 8); err != nil {
		t.Fatalf("pack: %v", err)
	}
	for i, b := range out {
		if b != 0 {
			t.Fatalf("byte %d = %#x, want 0", i, b)
		}
	}
}

func TestPackBitmap_BitPositions(t *testing.T) {
	// 4x1 surface with only pixel 1 included.
	s := fill(t, 4, 1, 0, 0, 0, 0)
	s.SetRGBA(1, 0, 0, 0, 0, 255)

	tests := []struct {
		ppb  int
		want []byte
	}{
		// ppb 8: bit 7 - (7 - 1) = 1.
		{8, []byte{0x02}},
		// ppb 4: byte 0, bit 7 - (3 - 1) = 5.
		{4, []byte{0x20}},
		// ppb 2: byte 0, bit 7 - (1 - 1) = 7.
		{2, []byte{0x80, 0x00}},
		// ppb 1: byte 1, bit 7.
		{1, []byte{0x00, 0x80, 0x00, 0x00}},
	}
	for _, tt := range tests {
		out, err := Bitmap(Default(), s, tt.ppb)
		if err != nil {
			t.Fatalf("ppb %d: %v", tt.ppb, err)
		}
		if !reflect.DeepEqual(out, tt.want) {
			t.Fatalf("ppb %d: got % x, want % x", tt.ppb, out, tt.want)
		}
	}
}

func TestPackBitmap_OrsIntoBuffer(t *testing.T) {
	s := fill(t, 8, 1, 0, 0, 0, 0)
	out := []byte{0x81}
	if err := PackBitmap(Default(), s, out, 8); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if out[0] != 0x81 {
		t.Fatalf("existing bits must be preserved, got %#x", out[0])
	}
}

func TestPackBitmap_RejectsBadArguments(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 255)
	if err := PackBitmap(Default(), s, make([]byte, 1), 8); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("short buffer: expected ErrInvalidArgument, got %v", err)
	}
	if err := PackBitmap(Default(), s, make([]byte, 16), 9); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ppb 9: expected ErrInvalidArgument, got %v", err)
	}
	if err := PackBitmap(Default(), s, make([]byte, 16), 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ppb 0: expected ErrInvalidArgument, got %v", err)
	}
	if err := PackBitmap(Default(), nil, make([]byte, 16), 8); err == nil {
		t.Fatalf("nil surface: expected error")
	}
}

func TestPackBitmap_LocksAndUnlocks(t *testing.T) {
	s := fill(t, 2, 2, 0, 0, 0, 255)
	spy := &lockSpy{}
	s.Locker = spy
	if _, err := Bitmap(Default(), s, 8); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if spy.locked != 1 || spy.unlocked != 1 {
		t.Fatalf("expected one lock/unlock pair, got %d/%d", spy.locked, spy.unlocked)
	}
}

func TestBuildTree_UniformTransparent(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 0)
	tree, err := BuildTree(Default(), s, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	leaf, ok := tree.(*Leaf)
	if !ok {
		t.Fatalf("expected a single leaf, got %T", tree)
	}
	want := Leaf{Class: Transparent, Rect: Rect{X: 0, Y: 0, W: 4, H: 4}}
	if *leaf != want {
		t.Fatalf("got %+v, want %+v", *leaf, want)
	}
}

func TestBuildTree_InvertFlipsClassification(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 0)
	tree, err := BuildTree(Default(), s, true)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if leaf, ok := tree.(*Leaf); !ok || leaf.Class != Opaque {
		t.Fatalf("expected one opaque leaf, got %#v", tree)
	}
}

func TestBuildTree_OneDifferingPixelSplits(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 0)
	s.SetRGBA(3, 3, 0, 0, 0, 255)

	tree, err := BuildTree(Default(), s, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	q, ok := tree.(*Quad)
	if !ok {
		t.Fatalf("expected a quad at the root, got %T", tree)
	}

	wantChildren := [4]Rect{
		UpLeft:    {X: 0, Y: 0, W: 2, H: 2},
		UpRight:   {X: 2, Y: 0, W: 2, H: 2},
		DownLeft:  {X: 0, Y: 2, W: 2, H: 2},
		DownRight: {X: 2, Y: 2, W: 2, H: 2},
	}
	for i := UpLeft; i < DownRight; i++ {
		leaf, ok := q.Children[i].(*Leaf)
		if !ok {
			t.Fatalf("child %d: expected leaf, got %T", i, q.Children[i])
		}
		if leaf.Rect != wantChildren[i] || leaf.Class != Transparent {
			t.Fatalf("child %d: got %+v, want transparent %v", i, *leaf, wantChildren[i])
		}
	}

	// The down-right quadrant holds the odd pixel and splits again.
	dr, ok := q.Children[DownRight].(*Quad)
	if !ok {
		t.Fatalf("expected down-right quad, got %T", q.Children[DownRight])
	}
	last := dr.Children[DownRight].(*Leaf)
	if last.Rect != (Rect{X: 3, Y: 3, W: 1, H: 1}) || last.Class != Opaque {
		t.Fatalf("expected opaque 1x1 at (3,3), got %+v", *last)
	}
	if got := len(Leaves(tree)); got != 7 {
		t.Fatalf("expected 7 leaves, got %d", got)
	}
}

func TestRectQuadrants_OddSizes(t *testing.T) {
	got := Rect{X: 10, Y: 20, W: 5, H: 3}.Quadrants()
	want := [4]Rect{
		{X: 10, Y: 20, W: 2, H: 1},
		{X: 12, Y: 20, W: 3, H: 1},
		{X: 10, Y: 21, W: 2, H: 2},
		{X: 12, Y: 21, W: 3, H: 2},
	}
	if got != want {
		t.Fatalf("Quadrants() = %v, want %v", got, want)
	}
}

func TestBuildTree_NonUniformRegionIsDetectedPastFirstRow(t *testing.T) {
	// The only differing pixel is at the end of the first row, which a
	// scan stopping after the first pixel of the first row would miss.
	s := fill(t, 4, 1, 0, 0, 0, 255)
	s.SetRGBA(3, 0, 0, 0, 0, 0)
	tree, err := BuildTree(Default(), s, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, ok := tree.(*Quad); !ok {
		t.Fatalf("expected the region to split, got %T", tree)
	}
}

func TestBuildTree_EmptyRectIsOpaqueLeaf(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 0)
	for _, r := range []Rect{{X: 1, Y: 1, W: 0, H: 3}, {X: 1, Y: 1, W: 3, H: 0}, {}} {
		tree, err := BuildTreeRect(Default(), s, false, r)
		if err != nil {
			t.Fatalf("build %v: %v", r, err)
		}
		leaf, ok := tree.(*Leaf)
		if !ok || leaf.Class != Opaque || leaf.Rect != r {
			t.Fatalf("rect %v: expected opaque leaf, got %#v", r, tree)
		}
	}
}

func TestBuildTree_RejectsRectOutsideSurface(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 0)
	if _, err := BuildTreeRect(Default(), s, false, Rect{X: 2, Y: 0, W: 4, H: 4}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestBuildTree_RejectsOverflowingSurface(t *testing.T) {
	s := &pixel.Surface{Width: 1 << 62, Height: 1, Format: pixel.ARGB8888}
	if _, err := BuildTreeRect(Default(), s, false, Rect{W: 1, H: 1}); !errors.Is(err, pixel.ErrInvalidSurface) {
		t.Fatalf("expected ErrInvalidSurface, got %v", err)
	}
	if err := PackBitmap(Default(), s, make([]byte, 1), 8); !errors.Is(err, pixel.ErrInvalidSurface) {
		t.Fatalf("expected ErrInvalidSurface from PackBitmap, got %v", err)
	}
}

func TestBuildTree_LocksOnceForWholeBuild(t *testing.T) {
	s := fill(t, 8, 8, 0, 0, 0, 0)
	s.SetRGBA(0, 0, 0, 0, 0, 255)
	s.SetRGBA(7, 7, 0, 0, 0, 255)
	spy := &lockSpy{}
	s.Locker = spy
	if _, err := BuildTree(Default(), s, false); err != nil {
		t.Fatalf("build: %v", err)
	}
	if spy.locked != 1 || spy.unlocked != 1 {
		t.Fatalf("expected one lock/unlock pair, got %d/%d", spy.locked, spy.unlocked)
	}
}

func TestBuildTree_LeavesPartitionSurface(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sizes := [][2]int{{1, 1}, {3, 7}, {16, 16}, {13, 5}, {31, 17}}
	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		s := fill(t, w, h, 0, 0, 0, 0)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if rng.Intn(3) == 0 {
					s.SetRGBA(x, y, 0, 0, 0, 255)
				}
			}
		}

		tree, err := BuildTree(Default(), s, false)
		if err != nil {
			t.Fatalf("%dx%d: build: %v", w, h, err)
		}

		covered := make([]int, w*h)
		area := 0
		Traverse(tree, func(l *Leaf) {
			area += l.Rect.Area()
			for y := l.Rect.Y; y < l.Rect.Y+l.Rect.H; y++ {
				for x := l.Rect.X; x < l.Rect.X+l.Rect.W; x++ {
					covered[y*w+x]++
					_, _, _, a := pixel.Decode(s, x, y)
					if (a >= 1) != (l.Class == Opaque) {
						t.Fatalf("%dx%d: pixel (%d,%d) misclassified in leaf %v", w, h, x, y, l.Rect)
					}
				}
			}
		})
		if area != w*h {
			t.Fatalf("%dx%d: leaf area %d, want %d", w, h, area, w*h)
		}
		for i, n := range covered {
			if n != 1 {
				t.Fatalf("%dx%d: pixel %d covered %d times", w, h, i, n)
			}
		}
	}
}

func TestTraverse_DeterministicOrder(t *testing.T) {
	s := fill(t, 8, 8, 0, 0, 0, 0)
	s.SetRGBA(1, 6, 0, 0, 0, 255)
	s.SetRGBA(6, 1, 0, 0, 0, 255)
	tree, err := BuildTree(Default(), s, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	first := Leaves(tree)
	for i := 0; i < 3; i++ {
		again := Leaves(tree)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("traversal %d differs from the first", i)
		}
	}

	// Up-left quadrant comes first and down-right last.
	if first[0].Rect != (Rect{X: 0, Y: 0, W: 4, H: 4}) {
		t.Fatalf("first leaf = %v, want up-left quadrant", first[0].Rect)
	}
	if last := first[len(first)-1]; last.Rect != (Rect{X: 4, Y: 4, W: 4, H: 4}) {
		t.Fatalf("last leaf = %v, want down-right quadrant", last.Rect)
	}
}

func TestFree_ReleasesTree(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 0)
	s.SetRGBA(0, 0, 0, 0, 0, 255)
	tree, err := BuildTree(Default(), s, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	q := tree.(*Quad)

	Free(&tree)
	if tree != nil {
		t.Fatalf("expected handle to be nil after Free")
	}
	for i, c := range q.Children {
		if c != nil {
			t.Fatalf("child %d still referenced after Free", i)
		}
	}
	Free(&tree)
	Free(nil)
}

func TestStatsAndOpaqueRects(t *testing.T) {
	s := fill(t, 4, 4, 0, 0, 0, 0)
	s.SetRGBA(3, 3, 0, 0, 0, 255)
	tree, err := BuildTree(Default(), s, false)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	st := Stats(tree)
	want := TreeStats{Leaves: 7, Quads: 2, Depth: 2, OpaqueArea: 1, OpaqueRects: 1}
	if st != want {
		t.Fatalf("Stats() = %+v, want %+v", st, want)
	}
	rects := OpaqueRects(tree)
	if len(rects) != 1 || rects[0] != (Rect{X: 3, Y: 3, W: 1, H: 1}) {
		t.Fatalf("OpaqueRects() = %v", rects)
	}
}
