package app

import (
	"context"

	"github.com/ncruces/zenity"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsRuntime is the Runtime backed by the wails runtime and native dialogs
type WailsRuntime struct{}

func (WailsRuntime) OnEvent(ctx context.Context, name string, fn func(data ...interface{})) func() {
	return wailsRuntime.EventsOn(ctx, name, fn)
}

func (WailsRuntime) Quit(ctx context.Context) {
	wailsRuntime.Quit(ctx)
}

// Alert shows a blocking native error dialog
func (WailsRuntime) Alert(title, message string) error {
	return zenity.Error(message, zenity.Title(title), zenity.ErrorIcon)
}
