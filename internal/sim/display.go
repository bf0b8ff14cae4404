package sim

// refreshDisplay maps trail strength into the 0..255 display buffer the
// viewer blits. Intensity is normalized against the current field maximum so
// faint trails stay visible as the absolute scale drifts with decay.
func (w *World) refreshDisplay() {
	cells := w.field.Cells()
	if len(cells) != len(w.display) {
		w.display = make([]uint8, len(cells))
	}
	max, _ := w.field.Stats()
	if max <= 0 {
		for i := range w.display {
			w.display[i] = 0
		}
		return
	}
	scale := 255 / max
	for i, v := range cells {
		val := float64(v) * scale
		if val > 255 {
			val = 255
		}
		w.display[i] = uint8(val)
	}
}
