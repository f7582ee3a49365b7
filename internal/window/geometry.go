package window

// Point is a screen position in logical pixels
type Point struct {
	X, Y int
}

// Size is a width and height in logical pixels
type Size struct {
	Width, Height int
}

// Rect is a screen rectangle
type Rect struct {
	X, Y, Width, Height int
}

const (
	menuBarHeight = 24
	taskbarHeight = 40
	trayIconWidth = 48
	trayInset     = 120
)

// TrayCenter returns the top-left corner for a window of size win centred
// horizontally on the tray rectangle. A tray in the upper half of the screen
// gets the window below it, otherwise above it. The result is clamped to the
// screen.
func TrayCenter(trayRect Rect, win Size, screen Size) Point {
	x := trayRect.X + trayRect.Width/2 - win.Width/2

	var y int
	if trayRect.Y+trayRect.Height/2 < screen.Height/2 {
		y = trayRect.Y + trayRect.Height
	} else {
		y = trayRect.Y - win.Height
	}

	return Point{
		X: clamp(x, 0, screen.Width-win.Width),
		Y: clamp(y, 0, screen.Height-win.Height),
	}
}

// DefaultTrayAnchor estimates where the tray icon sits. Neither tray library
// reports icon geometry, so this uses the platform's usual status area:
// the right side of the menu bar on darwin and linux, the right side of the
// taskbar on windows.
func DefaultTrayAnchor(goos string, screen Size) Rect {
	x := screen.Width - trayInset - trayIconWidth
	if x < 0 {
		x = 0
	}

	if goos == "windows" {
		return Rect{X: x, Y: screen.Height - taskbarHeight, Width: trayIconWidth, Height: taskbarHeight}
	}
	return Rect{X: x, Y: 0, Width: trayIconWidth, Height: menuBarHeight}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
