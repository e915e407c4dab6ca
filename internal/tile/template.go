package tile

import (
	"image"

	imagepkg "github.com/youruser/boardgen/internal/image"
)

// RenderTemplate draws the empty tile background for a theme: a filled square
// with the border flush to its edge and the inset just inside the border.
func RenderTemplate(size, borderSize, insetSize int, theme Theme) *image.NRGBA {
	img := imagepkg.New(size, size, theme.Background)
	imagepkg.DrawBorder(img, image.Rect(0, 0, size, size), theme.Border, borderSize)
	imagepkg.DrawBorder(img, image.Rect(borderSize, borderSize, size-borderSize, size-borderSize), theme.Inset, insetSize)
	return img
}
