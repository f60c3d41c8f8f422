// Package window shows a rendered frame in a desktop window.
package window

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// DefaultTitle is the window title used by the command line.
const DefaultTitle = "Mandelbrot Set"

// Show opens a window the size of img, draws it every frame and blocks until
// the window is closed or Escape is pressed. A non-empty overlay is printed in
// the top-left corner.
func Show(img *image.RGBA, title, overlay string) error {
	if img == nil {
		return errors.New("no image to show")
	}
	b := img.Bounds()
	if b.Empty() {
		return errors.New("empty image")
	}

	v := &viewer{src: img, overlay: overlay}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(b.Dx(), b.Dy())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetTPS(30)

	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type viewer struct {
	src     *image.RGBA
	frame   *ebiten.Image
	overlay string
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	if v.frame == nil {
		b := v.src.Bounds()
		v.frame = ebiten.NewImage(b.Dx(), b.Dy())
		v.frame.WritePixels(v.src.Pix)
	}
	screen.DrawImage(v.frame, nil)
	if v.overlay != "" {
		ebitenutil.DebugPrint(screen, v.overlay)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := v.src.Bounds()
	return b.Dx(), b.Dy()
}
