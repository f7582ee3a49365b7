package window

import (
	"testing"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

func TestTrayCenter(t *testing.T) {
	screen := Size{Width: 1440, Height: 900}

	tests := []struct {
		name string
		tray Rect
		win  Size
		want Point
	}{
		{
			name: "menu bar tray puts window below",
			tray: Rect{X: 1200, Y: 0, Width: 40, Height: 24},
			win:  Size{Width: 360, Height: 520},
			want: Point{X: 1040, Y: 24},
		},
		{
			name: "taskbar tray puts window above",
			tray: Rect{X: 1200, Y: 860, Width: 40, Height: 40},
			win:  Size{Width: 360, Height: 520},
			want: Point{X: 1040, Y: 340},
		},
		{
			name: "clamped at right edge",
			tray: Rect{X: 1420, Y: 0, Width: 20, Height: 24},
			win:  Size{Width: 360, Height: 520},
			want: Point{X: 1080, Y: 24},
		},
		{
			name: "clamped at left edge",
			tray: Rect{X: 10, Y: 0, Width: 20, Height: 24},
			win:  Size{Width: 360, Height: 520},
			want: Point{X: 0, Y: 24},
		},
		{
			name: "window larger than screen pins to origin",
			tray: Rect{X: 700, Y: 0, Width: 40, Height: 24},
			win:  Size{Width: 2000, Height: 1200},
			want: Point{X: 0, Y: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrayCenter(tt.tray, tt.win, screen)
			if got != tt.want {
				t.Errorf("TrayCenter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultTrayAnchor(t *testing.T) {
	screen := Size{Width: 1920, Height: 1080}

	mac := DefaultTrayAnchor("darwin", screen)
	if mac.Y != 0 || mac.Height != menuBarHeight {
		t.Errorf("darwin anchor = %+v, want top menu bar", mac)
	}

	win := DefaultTrayAnchor("windows", screen)
	if win.Y != screen.Height-taskbarHeight {
		t.Errorf("windows anchor = %+v, want bottom taskbar", win)
	}

	tiny := DefaultTrayAnchor("linux", Size{Width: 100, Height: 100})
	if tiny.X != 0 {
		t.Errorf("tiny screen anchor X = %d, want 0", tiny.X)
	}
}

func TestPickScreen(t *testing.T) {
	screen := func(w, h int, current, primary bool) wailsRuntime.Screen {
		s := wailsRuntime.Screen{IsCurrent: current, IsPrimary: primary}
		s.Size.Width = w
		s.Size.Height = h
		return s
	}

	tests := []struct {
		name    string
		screens []wailsRuntime.Screen
		want    Size
		wantOK  bool
	}{
		{"none", nil, Size{}, false},
		{"current wins", []wailsRuntime.Screen{screen(1920, 1080, false, true), screen(1440, 900, true, false)}, Size{1440, 900}, true},
		{"primary fallback", []wailsRuntime.Screen{screen(1280, 720, false, false), screen(1920, 1080, false, true)}, Size{1920, 1080}, true},
		{"first fallback", []wailsRuntime.Screen{screen(1280, 720, false, false), screen(800, 600, false, false)}, Size{1280, 720}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickScreen(tt.screens)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("pickScreen() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
