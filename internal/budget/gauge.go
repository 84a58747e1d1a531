package budget

// RGB is a gauge color for caller-side visualization. Plain uint8
// channels; no formatting or theming here.
type RGB struct {
	R, G, B uint8
}

var (
	gaugeGreen = RGB{46, 204, 113}
	gaugeRed   = RGB{231, 76, 60}
)

// GaugeColor maps a variance ratio onto the pacing gauge: at or under
// pace is green, 1.0 to 1.5 blends green into red, beyond 1.5 is full
// red. Float math is fine here; this is presentation geometry, not money.
func GaugeColor(varianceRatio float64) RGB {
	switch {
	case varianceRatio <= 1.0:
		return gaugeGreen
	case varianceRatio >= 1.5:
		return gaugeRed
	}
	t := (varianceRatio - 1.0) / 0.5
	return RGB{
		R: lerp(gaugeGreen.R, gaugeRed.R, t),
		G: lerp(gaugeGreen.G, gaugeRed.G, t),
		B: lerp(gaugeGreen.B, gaugeRed.B, t),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
