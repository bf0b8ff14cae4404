package render

import "image/color"

// HeatPalette builds a 256-entry gradient for trail intensities: black
// through deep blue and amber up to white.
func HeatPalette() []color.RGBA {
	palette := make([]color.RGBA, 256)
	for i := range palette {
		t := float64(i) / 255
		switch {
		case t < 0.25:
			k := t / 0.25
			palette[i] = color.RGBA{B: uint8(90 * k), A: 255}
		case t < 0.6:
			k := (t - 0.25) / 0.35
			palette[i] = color.RGBA{
				R: uint8(200 * k),
				G: uint8(110 * k),
				B: uint8(90 * (1 - k)),
				A: 255,
			}
		default:
			k := (t - 0.6) / 0.4
			palette[i] = color.RGBA{
				R: uint8(200 + 55*k),
				G: uint8(110 + 145*k),
				B: uint8(255 * k),
				A: 255,
			}
		}
	}
	return palette
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		for i := range cells {
			base := i * 4
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
		}
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillMaskRGBA highlights active mask cells with the given color and leaves
// inactive cells fully transparent.
func fillMaskRGBA(buf []byte, mask []bool, col color.RGBA) {
	for i, on := range mask {
		base := i * 4
		if on {
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
			continue
		}
		buf[base+0] = 0
		buf[base+1] = 0
		buf[base+2] = 0
		buf[base+3] = 0
	}
}
