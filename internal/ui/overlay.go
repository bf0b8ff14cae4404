//go:build ebiten

package ui

import (
	"image/color"

	"trailforge/internal/core"
	"trailforge/internal/render"
	"trailforge/internal/sim"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type actorProvider interface {
	Actors() []sim.Actor
}

type maskProvider interface {
	Mask(threshold float64) []bool
}

// Overlay draws optional visuals on top of the trail heatmap: actor
// markers and a preview of the layer mask at the capture threshold.
type Overlay struct {
	sim       core.Sim
	scale     int
	threshold float64

	showActors bool
	showMask   bool

	maskPainter *render.GridPainter
	pixel       *ebiten.Image
}

// NewOverlay constructs an overlay for the given view scale and layer
// capture threshold.
func NewOverlay(s core.Sim, scale int, threshold float64) *Overlay {
	o := &Overlay{sim: s, scale: scale, threshold: threshold, showActors: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles overlay features from keyboard input.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		o.showActors = !o.showActors
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.showMask = !o.showMask
	}
}

// Draw renders the enabled overlays onto the screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}

	if o.showMask {
		if provider, ok := o.sim.(maskProvider); ok {
			if o.maskPainter == nil {
				o.maskPainter = render.NewGridPainter(size.W, size.H)
			}
			o.maskPainter.BlitMask(screen, provider.Mask(o.threshold),
				color.RGBA{R: 60, G: 200, B: 90, A: 110}, scale)
		}
	}

	if o.showActors {
		if provider, ok := o.sim.(actorProvider); ok {
			o.drawActors(screen, provider.Actors(), scale)
		}
	}
}

func (o *Overlay) drawActors(screen *ebiten.Image, actors []sim.Actor, scale int) {
	marker := color.RGBA{R: 255, G: 240, B: 120, A: 255}
	for i := range actors {
		a := &actors[i]
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(scale), float64(scale))
		op.GeoM.Translate(a.X*float64(scale), a.Y*float64(scale))
		op.ColorScale.ScaleWithColor(marker)
		screen.DrawImage(o.pixel, op)
	}
}
