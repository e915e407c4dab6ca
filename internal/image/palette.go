package imagepkg

import "image/color"

var (
	Transparent = color.NRGBA{}
	Black       = color.NRGBA{A: 0xff}
	Yellow      = color.NRGBA{R: 0xff, G: 0xff, A: 0xff}
	Orange      = color.NRGBA{R: 0xff, G: 0x90, A: 0xff}
	Green       = color.NRGBA{G: 0xff, B: 0x1c, A: 0xff}

	// tile defaults
	DefaultBorderColor             = color.NRGBA{R: 0x2e, G: 0x29, B: 0x21, A: 0xff}
	DefaultInsetColor              = color.NRGBA{R: 0x5a, G: 0x52, B: 0x41, A: 0xff}
	DefaultBackgroundLockedColor   = color.NRGBA{R: 0x3e, G: 0x35, B: 0x29, A: 0xff}
	DefaultBackgroundUnlockedColor = color.NRGBA{R: 0x4f, G: 0x46, B: 0x34, A: 0xff}
)
