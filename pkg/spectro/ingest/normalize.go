package ingest

import "math"

// Magnitude maps a normalized intensity v in [0, 1] to a magnitude in
// [0, 1]: first a contrast stretch around 0.5 (clamped), then the scale.
// Both steps are monotone, so brighter never becomes quieter.
func Magnitude(v float64, scale Scale, contrast float64) float64 {
	if contrast != 1 {
		v = (v-0.5)*contrast + 0.5
	}
	if v <= 0 {
		return 0
	}
	if v > 1 {
		v = 1
	}
	if scale == Log {
		return math.Pow(10, LogRange*(v-1)/20)
	}
	return v
}

// lut precomputes Magnitude for every 8-bit level.
func (o options) lut() *[256]float64 {
	var t [256]float64
	for i := range t {
		t[i] = Magnitude(float64(i)/255, o.scale, o.contrast)
	}
	return &t
}

// grayColumns converts a row-major 8-bit grayscale raster of width w and
// height h (row 0 at the top) into time-major frames with bin 0 at the
// bottom row. Only columns in [from, to) are converted into dst[from:to].
func grayColumns(dst [][]float64, pix []byte, stride, h, from, to int, lut *[256]float64) {
	for t := from; t < to; t++ {
		frame := dst[t]
		for b := 0; b < h; b++ {
			frame[b] = lut[pix[(h-1-b)*stride+t]]
		}
	}
}
