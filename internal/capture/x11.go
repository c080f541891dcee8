package capture

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

// x11Conn wraps the X connection used for device cursor queries and
// window enumeration.
type x11Conn struct {
	conn *xgb.Conn
	root xproto.Window
}

func dialX11() (*x11Conn, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	root := setup.DefaultScreen(conn).Root
	return &x11Conn{conn: conn, root: root}, nil
}

func (x *x11Conn) close() {
	x.conn.Close()
}

// cursorPosition reads the pointer position relative to the root window,
// which is the global logical origin.
func (x *x11Conn) cursorPosition() (geometry.Point, bool) {
	reply, err := xproto.QueryPointer(x.conn, x.root).Reply()
	if err != nil {
		return geometry.Point{}, false
	}
	return geometry.Pt(int(reply.RootX), int(reply.RootY)), true
}

// windows enumerates mapped top-level windows. QueryTree reports children
// bottom-to-top, so the result is reversed to put the topmost window
// first for hit testing.
func (x *x11Conn) windows() ([]Window, error) {
	tree, err := xproto.QueryTree(x.conn, x.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("query window tree: %w", err)
	}

	windows := make([]Window, 0, len(tree.Children))
	for i := len(tree.Children) - 1; i >= 0; i-- {
		child := tree.Children[i]

		attrs, err := xproto.GetWindowAttributes(x.conn, child).Reply()
		if err != nil || attrs.Class != xproto.WindowClassInputOutput ||
			attrs.MapState != xproto.MapStateViewable {
			continue
		}

		geom, err := xproto.GetGeometry(x.conn, xproto.Drawable(child)).Reply()
		if err != nil || geom.Width == 0 || geom.Height == 0 {
			continue
		}

		windows = append(windows, Window{
			ID: uint32(child),
			Bounds: geometry.Rect{
				X:      int(geom.X),
				Y:      int(geom.Y),
				Width:  int(geom.Width),
				Height: int(geom.Height),
			},
		})
	}
	return windows, nil
}
