package x11

import (
	"encoding/binary"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

// propertyLength is the GetProperty length in 32-bit units.
const propertyLength = 256

var atomNames = []string{
	"_NET_ACTIVE_WINDOW",
	"_NET_WM_NAME",
	"_NET_WM_PID",
	"WM_NAME",
	"WM_CLASS",
	"UTF8_STRING",
}

// windowProps is what the X server reports about the focused window.
type windowProps struct {
	id       uint32
	title    string
	instance string
	class    string
	pid      uint32
}

// windowSource yields the focused window. found is false when no window has
// focus; a non-nil error means the connection is unusable.
type windowSource interface {
	activeWindow() (props windowProps, found bool, err error)
	close()
}

type client struct {
	conn  *xgb.Conn
	root  xproto.Window
	atoms map[string]xproto.Atom
}

func dial() (windowSource, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to X server")
	}

	c := &client{
		conn:  conn,
		root:  xproto.Setup(conn).DefaultScreen(conn).Root,
		atoms: make(map[string]xproto.Atom, len(atomNames)),
	}

	for _, name := range atomNames {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to intern atom %s", name)
		}
		c.atoms[name] = reply.Atom
	}

	return c, nil
}

func (c *client) close() {
	c.conn.Close()
}

func (c *client) activeWindow() (windowProps, bool, error) {
	id, err := c.focusedWindow()
	if err != nil {
		return windowProps{}, false, err
	}
	if id == 0 {
		return windowProps{}, false, nil
	}

	props := windowProps{
		id:    uint32(id),
		title: c.windowName(id),
	}
	if data, err := c.property(id, c.atoms["WM_CLASS"], xproto.AtomString, propertyLength); err == nil {
		props.instance, props.class = parseWMClass(data)
	}
	if data, err := c.property(id, c.atoms["_NET_WM_PID"], xproto.AtomCardinal, 1); err == nil {
		props.pid, _ = decodeCardinal(data)
	}

	return props, true, nil
}

// focusedWindow prefers _NET_ACTIVE_WINDOW and falls back to the input focus
// walked up to its top-level parent for window managers without EWMH.
func (c *client) focusedWindow() (xproto.Window, error) {
	data, err := c.property(c.root, c.atoms["_NET_ACTIVE_WINDOW"], xproto.AtomWindow, 1)
	if err != nil {
		return 0, err
	}
	if id, ok := decodeCardinal(data); ok && id != 0 {
		return xproto.Window(id), nil
	}

	focus, err := xproto.GetInputFocus(c.conn).Reply()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get input focus")
	}
	if focus.Focus == 0 || focus.Focus == c.root || focus.Focus == xproto.InputFocusPointerRoot {
		return 0, nil
	}

	return c.topLevel(focus.Focus), nil
}

func (c *client) topLevel(window xproto.Window) xproto.Window {
	for {
		reply, err := xproto.QueryTree(c.conn, window).Reply()
		if err != nil || reply.Parent == c.root || reply.Parent == 0 {
			return window
		}
		window = reply.Parent
	}
}

func (c *client) windowName(window xproto.Window) string {
	if data, err := c.property(window, c.atoms["_NET_WM_NAME"], c.atoms["UTF8_STRING"], propertyLength); err == nil && len(data) > 0 {
		return trimProperty(data)
	}
	if data, err := c.property(window, c.atoms["WM_NAME"], xproto.AtomString, propertyLength); err == nil && len(data) > 0 {
		return trimProperty(data)
	}
	return ""
}

func (c *client) property(window xproto.Window, atom, typ xproto.Atom, length uint32) ([]byte, error) {
	reply, err := xproto.GetProperty(c.conn, false, window, atom, typ, 0, length).Reply()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get property")
	}
	return reply.Value, nil
}

// parseWMClass splits a WM_CLASS value into its instance and class parts.
func parseWMClass(data []byte) (instance, class string) {
	parts := strings.Split(trimProperty(data), "\x00")
	if len(parts) >= 1 {
		instance = parts[0]
	}
	if len(parts) >= 2 {
		class = parts[1]
	}
	return instance, class
}

// decodeCardinal reads a 32-bit property value in the client byte order.
func decodeCardinal(data []byte) (uint32, bool) {
	if len(data) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(data), true
}

func trimProperty(data []byte) string {
	return strings.TrimRight(string(data), "\x00")
}
