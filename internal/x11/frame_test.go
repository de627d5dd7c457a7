package x11

import "testing"

func TestFrameExtents_RoundTrip(t *testing.T) {
	ext := FrameExtents{Left: 2, Right: 2, Top: 30, Bottom: 2}

	// Client at (100,80) 800x600 inside a frame with a 30px title bar.
	x, y, w, h := ext.Outer(100, 80, 800, 600)
	if x != 98 || y != 50 || w != 804 || h != 632 {
		t.Fatalf("Outer = (%d,%d %dx%d), want (98,50 804x632)", x, y, w, h)
	}

	cx, cy, cw, ch := ext.Client(x, y, w, h)
	if cx != 100 || cy != 80 || cw != 800 || ch != 600 {
		t.Fatalf("Client(Outer(...)) = (%d,%d %dx%d), want (100,80 800x600)", cx, cy, cw, ch)
	}
}

func TestFrameExtents_ClientFitsCell(t *testing.T) {
	ext := FrameExtents{Left: 1, Right: 1, Top: 24, Bottom: 1}

	// A grid cell is the outer frame; the client must sit inside it.
	cx, cy, cw, ch := ext.Client(853, 720, 853, 720)
	if cx != 854 || cy != 744 || cw != 851 || ch != 695 {
		t.Fatalf("Client = (%d,%d %dx%d), want (854,744 851x695)", cx, cy, cw, ch)
	}
	if ox, oy, ow, oh := ext.Outer(cx, cy, cw, ch); ox != 853 || oy != 720 || ow != 853 || oh != 720 {
		t.Fatalf("Outer = (%d,%d %dx%d), want the cell back", ox, oy, ow, oh)
	}
}

func TestFrameExtents_ClientClampsSize(t *testing.T) {
	ext := FrameExtents{Left: 5, Right: 5, Top: 30, Bottom: 5}
	_, _, w, h := ext.Client(0, 0, 8, 20)
	if w != 1 || h != 1 {
		t.Fatalf("expected 1x1 clamp, got %dx%d", w, h)
	}
}

func TestFrameExtents_Zero(t *testing.T) {
	if !(FrameExtents{}).Zero() {
		t.Fatal("empty extents should be zero")
	}
	if (FrameExtents{Top: 1}).Zero() {
		t.Fatal("extents with a title bar should not be zero")
	}
	x, y, w, h := FrameExtents{}.Outer(10, 20, 30, 40)
	if x != 10 || y != 20 || w != 30 || h != 40 {
		t.Fatalf("zero extents should not change geometry, got (%d,%d %dx%d)", x, y, w, h)
	}
}
