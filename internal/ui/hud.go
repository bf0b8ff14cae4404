//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"trailforge/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	panelPadding   = 12
	lineHeight     = 30
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 21
	statSpacing    = 16
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

type statsProvider interface {
	StepCount() int
	ActorCount() int
	TrailStats() (max, mean float64)
}

// HUD renders run statistics and adjustable parameters in a panel to the
// right of the simulation view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int

	controls     []controlState
	setter       core.FloatParameterSetter
	intSetter    core.IntParameterSetter
	panelOffsetX int
}

type controlState struct {
	control  core.ParameterControl
	value    float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD constructs a HUD for the provided simulation and panel width. A
// zero width disables the panel entirely.
func NewHUD(sim core.Sim, width int) *HUD {
	if width <= 0 {
		return nil
	}
	h := &HUD{sim: sim, width: width}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			if ctrl.Type == core.ParamTypeFloat || ctrl.Type == core.ParamTypeInt {
				h.controls = append(h.controls, controlState{control: ctrl})
			}
		}
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.setter = setter
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	h.layoutControls()
	return h
}

// Update refreshes control values from the simulation and handles clicks.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.refreshControlValues()
	h.handleInput()
}

// Draw paints the panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, scale int) {
	if h == nil {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Trail Controls", face, panelPadding, y, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	y += statSpacing

	if stats, ok := h.sim.(statsProvider); ok {
		maxTrail, meanTrail := stats.TrailStats()
		lines := []string{
			fmt.Sprintf("step   %d", stats.StepCount()),
			fmt.Sprintf("actors %d", stats.ActorCount()),
			fmt.Sprintf("trail  max %.2f", maxTrail),
			fmt.Sprintf("       mean %.4f", meanTrail),
		}
		dim := color.RGBA{R: 160, G: 160, B: 170, A: 255}
		for _, line := range lines {
			text.Draw(h.panel, line, face, panelPadding, y, dim)
			y += statSpacing
		}
	}

	h.drawControls(face)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues() {
	if len(h.controls) == 0 {
		return
	}
	provider, ok := h.sim.(parameterProvider)
	if !ok {
		return
	}
	values := map[string]string{}
	for _, group := range provider.Parameters().Groups {
		for _, param := range group.Params {
			values[param.Key] = param.Value
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		raw, ok := values[state.control.Key]
		if !ok {
			state.hasValue = false
			continue
		}
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			state.hasValue = false
			continue
		}
		state.value = parsed
		state.hasValue = true
	}
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || (h.setter == nil && h.intSetter == nil) {
		return
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.adjust(state, -1)
			return
		}
		if pointInRect(px, my, state.plusRect) {
			h.adjust(state, 1)
			return
		}
	}
}

func (h *HUD) adjust(state *controlState, direction int) {
	step := state.control.Step
	if step <= 0 {
		step = 0.05
		if state.control.Type == core.ParamTypeInt {
			step = 1
		}
	}
	target := state.value + float64(direction)*step
	if state.control.HasMin && target < state.control.Min {
		target = state.control.Min
	}
	if state.control.HasMax && target > state.control.Max {
		target = state.control.Max
	}
	if math.Abs(target-state.value) < 1e-9 {
		return
	}
	if state.control.Type == core.ParamTypeInt {
		if h.intSetter != nil && h.intSetter.SetIntParameter(state.control.Key, int(math.Round(target))) {
			state.value = math.Round(target)
		}
		return
	}
	if h.setter != nil && h.setter.SetFloatParameter(state.control.Key, target) {
		state.value = target
	}
}

func (h *HUD) drawControls(face *basicfont.Face) {
	label := color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dim := color.RGBA{R: 160, G: 160, B: 170, A: 255}
	button := color.RGBA{R: 48, G: 48, B: 58, A: 255}

	for i := range h.controls {
		state := &h.controls[i]
		text.Draw(h.panel, state.control.Label, face, panelPadding, state.top+labelBaseline, label)

		value := "--"
		valueColor := dim
		if state.hasValue {
			if state.control.Type == core.ParamTypeInt {
				value = strconv.Itoa(int(math.Round(state.value)))
			} else {
				value = strconv.FormatFloat(state.value, 'f', 3, 64)
			}
			valueColor = label
		}
		valueX := state.minusRect.Min.X - buttonGap - text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, valueX, state.top+labelBaseline, valueColor)

		h.drawButton(face, state.minusRect, "-", button, label)
		h.drawButton(face, state.plusRect, "+", button, label)
	}
}

func (h *HUD) drawButton(face *basicfont.Face, rect image.Rectangle, glyph string, bg, fg color.RGBA) {
	sub := h.panel.SubImage(rect).(*ebiten.Image)
	sub.Fill(bg)
	bounds := text.BoundString(face, glyph)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()+bounds.Dy())/2
	text.Draw(h.panel, glyph, face, x, y, fg)
}

// layoutControls assigns each control a row below the statistics block.
func (h *HUD) layoutControls() {
	if h == nil {
		return
	}
	top := panelPadding + headerBaseline + 5*statSpacing
	for i := range h.controls {
		state := &h.controls[i]
		state.top = top
		buttonY := top + (lineHeight-buttonSize)/2
		state.plusRect = image.Rect(h.width-panelPadding-buttonSize, buttonY,
			h.width-panelPadding, buttonY+buttonSize)
		state.minusRect = image.Rect(state.plusRect.Min.X-buttonGap-buttonSize, buttonY,
			state.plusRect.Min.X-buttonGap, buttonY+buttonSize)
		top += lineHeight
	}
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
