package x11

// FrameExtents holds the decoration sizes a reparenting WM adds around a
// client window (_NET_FRAME_EXTENTS).
type FrameExtents struct {
	Left, Right, Top, Bottom int
}

// Zero reports whether the window has no decorations.
func (e FrameExtents) Zero() bool {
	return e.Left == 0 && e.Right == 0 && e.Top == 0 && e.Bottom == 0
}

// Outer converts client geometry to the outer frame geometry.
func (e FrameExtents) Outer(x, y, width, height int) (int, int, int, int) {
	return x - e.Left, y - e.Top, width + e.Left + e.Right, height + e.Top + e.Bottom
}

// Client converts outer frame geometry to the client geometry. The client
// size never drops below 1x1.
func (e FrameExtents) Client(x, y, width, height int) (int, int, int, int) {
	width -= e.Left + e.Right
	height -= e.Top + e.Bottom
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return x + e.Left, y + e.Top, width, height
}
