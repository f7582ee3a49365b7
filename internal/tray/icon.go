package tray

import (
	"bytes"
	"image"
	"image/png"
	"sync"
)

var transparentIcon = sync.OnceValue(func() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic("tray: encode transparent icon: " + err.Error())
	}
	return buf.Bytes()
})

// TransparentIcon returns a 1x1 fully transparent PNG
func TransparentIcon() []byte {
	return transparentIcon()
}
