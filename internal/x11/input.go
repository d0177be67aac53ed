package x11

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

var ignoreModsOnce sync.Once

// initInput prepares keyboard and pointer bindings. Lock modifiers are
// ignored so bindings fire with CapsLock or NumLock on.
func (c *Connection) initInput() {
	keybind.Initialize(c.XUtil)
	mousebind.Initialize(c.XUtil)
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(c.XUtil)
	})
}

// BindKey runs fn when keySequence (e.g. "Escape", "control-q") is pressed
// while win has focus.
func (c *Connection) BindKey(win *xwindow.Window, keySequence string, fn func()) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		fn()
	}).Connect(c.XUtil, win.Id, keySequence, false)
	if err != nil {
		return fmt.Errorf("bind key %q: %w", keySequence, err)
	}
	return nil
}

// BindDrag lets the user move win by dragging it with the given pointer
// button. Borderless windows have no title bar to grab.
func (c *Connection) BindDrag(win *xwindow.Window, button int) error {
	if button < 1 || button > 5 {
		return fmt.Errorf("pointer button %d not in 1..5", button)
	}
	var offX, offY int
	begin := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
		offX, offY = eventX, eventY
		return true, 0
	}
	step := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
		win.Move(rootX-offX, rootY-offY)
	}
	end := func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {}

	mousebind.Drag(c.XUtil, win.Id, win.Id, strconv.Itoa(button), true, begin, step, end)
	return nil
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}
	for _, mask := range lockCombinations(base) {
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

// lockCombinations returns the OR of every non-empty subset of masks.
func lockCombinations(masks []uint16) []uint16 {
	var out []uint16
	for subset := 1; subset < (1 << len(masks)); subset++ {
		var mask uint16
		for bit := range masks {
			if subset&(1<<bit) != 0 {
				mask |= masks[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
