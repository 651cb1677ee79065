package utils

// Clamp01 restricts v to the [0,1] range. Scores and confidences are clamped
// at every computation boundary so no component emits an out-of-range value.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
