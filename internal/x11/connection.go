package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	shapeErr error
	shapeOK  bool
}

// NewConnection connects to display, or to $DISPLAY when display is empty.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if display == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, err
	}

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	c.initInput()
	return c, nil
}

// InitShape initializes the SHAPE extension once and reports whether the
// server supports it.
func (c *Connection) InitShape() error {
	if c.shapeOK || c.shapeErr != nil {
		return c.shapeErr
	}
	if err := shape.Init(c.XUtil.Conn()); err != nil {
		c.shapeErr = fmt.Errorf("shape extension unavailable: %w", err)
		return c.shapeErr
	}
	if _, err := shape.QueryVersion(c.XUtil.Conn()).Reply(); err != nil {
		c.shapeErr = fmt.Errorf("shape version query failed: %w", err)
		return c.shapeErr
	}
	c.shapeOK = true
	return nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes a running EventLoop return.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
