package render

import (
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/LW-54/ARTIVI-4/internal/stft"
)

// phaseEps keeps unit-phase normalization finite where a bin vanished.
const phaseEps = 1e-16

// griffinLim estimates a signal of length samples whose STFT magnitude is
// close to mag (frame-major, one-sided). With momentum > 0 this is the fast
// Griffin-Lim variant of Perraudin et al.
func griffinLim(tr *stft.Transform, dev Device, mag [][]float64, length int, o options) []float64 {
	frames := len(mag)
	angles := initialPhase(frames, tr.Bins, o)

	spec := make([][]complex128, frames)
	for t := range spec {
		spec[t] = make([]complex128, tr.Bins)
	}
	var prev [][]complex128
	alpha := o.momentum / (1 + o.momentum)

	for it := 0; it < o.iterations; it++ {
		applyMagnitude(dev, spec, mag, angles)
		x := tr.Inverse(dev, spec, length)
		rebuilt := tr.Forward(dev, x, frames)

		dev.Run(frames, func(t int) {
			a, r := angles[t], rebuilt[t]
			for k := range a {
				v := r[k]
				if prev != nil {
					v -= complex(alpha, 0) * prev[t][k]
				}
				a[k] = v / complex(cmplx.Abs(v)+phaseEps, 0)
			}
		})
		prev = rebuilt
	}

	applyMagnitude(dev, spec, mag, angles)
	return tr.Inverse(dev, spec, length)
}

func applyMagnitude(dev Device, spec [][]complex128, mag [][]float64, angles [][]complex128) {
	dev.Run(len(spec), func(t int) {
		s, m, a := spec[t], mag[t], angles[t]
		for k := range s {
			s[k] = complex(m[k], 0) * a[k]
		}
	})
}

// initialPhase draws unit phasors frame by frame from a seeded source, or
// returns all-ones when random initialization is off.
func initialPhase(frames, bins int, o options) [][]complex128 {
	angles := make([][]complex128, frames)
	var rng *rand.Rand
	if o.randomInit {
		rng = rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	}
	for t := range angles {
		a := make([]complex128, bins)
		for k := range a {
			if rng == nil {
				a[k] = 1
				continue
			}
			a[k] = cmplx.Rect(1, 2*math.Pi*rng.Float64())
		}
		angles[t] = a
	}
	return angles
}
