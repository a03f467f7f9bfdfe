package spectro

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Data is an immutable magnitude spectrogram. Bin 0 is the lowest frequency;
// frame indices increase with time. Magnitudes are stored frame-major so a
// single time frame is contiguous.
type Data struct {
	settings *Settings
	bins     int
	frames   int
	mag      []float64
}

// New builds Data from bin-major rows: rows[bin][frame]. The row count must
// equal settings.Resolution() and all rows must have the same length.
func New(settings *Settings, rows [][]float64) (*Data, error) {
	if settings == nil {
		return nil, fmt.Errorf("nil settings")
	}
	if len(rows) != settings.Resolution() {
		return nil, fmt.Errorf("%w: got %d rows, want %d", ErrShapeMismatch, len(rows), settings.Resolution())
	}
	frames := len(rows[0])
	d := &Data{
		settings: settings,
		bins:     len(rows),
		frames:   frames,
		mag:      make([]float64, frames*len(rows)),
	}
	for b, row := range rows {
		if len(row) != frames {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShapeMismatch, b, len(row), frames)
		}
		for t, v := range row {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: bin %d frame %d is %v", ErrInvalidMagnitudes, b, t, v)
			}
			d.mag[t*d.bins+b] = v
		}
	}
	return d, nil
}

// NewFromFrames builds Data from time-major frames: frames[t][bin].
func NewFromFrames(settings *Settings, frames [][]float64) (*Data, error) {
	if settings == nil {
		return nil, fmt.Errorf("nil settings")
	}
	bins := settings.Resolution()
	d := &Data{
		settings: settings,
		bins:     bins,
		frames:   len(frames),
		mag:      make([]float64, 0, len(frames)*bins),
	}
	for t, f := range frames {
		if len(f) != bins {
			return nil, fmt.Errorf("%w: frame %d has %d bins, want %d", ErrShapeMismatch, t, len(f), bins)
		}
		for b, v := range f {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: bin %d frame %d is %v", ErrInvalidMagnitudes, b, t, v)
			}
		}
		d.mag = append(d.mag, f...)
	}
	return d, nil
}

// Silence returns all-zero data spanning the given number of frames.
func Silence(settings *Settings, frames int) *Data {
	if frames < 0 {
		frames = 0
	}
	return &Data{
		settings: settings,
		bins:     settings.Resolution(),
		frames:   frames,
		mag:      make([]float64, frames*settings.Resolution()),
	}
}

// Concat appends the time frames of parts in order, inserting gapFrames
// silent frames between consecutive parts. All parts must share settings.
func Concat(gapFrames int, parts ...*Data) (*Data, error) {
	if len(parts) == 0 {
		return nil, ErrNoFrames
	}
	if gapFrames < 0 {
		gapFrames = 0
	}
	settings := parts[0].settings
	total := gapFrames * (len(parts) - 1)
	for i, p := range parts {
		if !p.settings.Equal(settings) {
			return nil, fmt.Errorf("%w: part %d has %v, want %v", ErrSettingsMismatch, i, p.settings, settings)
		}
		total += p.frames
	}

	bins := settings.Resolution()
	out := &Data{
		settings: settings,
		bins:     bins,
		frames:   total,
		mag:      make([]float64, 0, total*bins),
	}
	gap := make([]float64, gapFrames*bins)
	for i, p := range parts {
		if i > 0 {
			out.mag = append(out.mag, gap...)
		}
		out.mag = append(out.mag, p.mag...)
	}
	return out, nil
}

func (d *Data) Settings() *Settings { return d.settings }

// Bins is the frequency bin count; it always equals Settings().Resolution().
func (d *Data) Bins() int { return d.bins }

// Frames is the number of time frames.
func (d *Data) Frames() int { return d.frames }

// Duration is Frames()*hop/sampleRate in seconds.
func (d *Data) Duration() float64 {
	if d.settings == nil {
		return 0
	}
	return d.settings.Duration(d.frames)
}

// At returns the magnitude of a bin at a frame.
func (d *Data) At(bin, frame int) float64 {
	if bin < 0 || bin >= d.bins || frame < 0 || frame >= d.frames {
		panic(fmt.Sprintf("spectro: index (%d, %d) out of range (%d, %d)", bin, frame, d.bins, d.frames))
	}
	return d.mag[frame*d.bins+bin]
}

// Frame returns a copy of the magnitudes of one time frame, lowest bin first.
func (d *Data) Frame(t int) []float64 {
	out := make([]float64, d.bins)
	copy(out, d.mag[t*d.bins:(t+1)*d.bins])
	return out
}

// Matrix returns a copy of the magnitudes as a bins×frames matrix, or nil
// when the data has no frames.
func (d *Data) Matrix() mat.Matrix {
	if d.frames == 0 || d.bins == 0 {
		return nil
	}
	data := make([]float64, len(d.mag))
	copy(data, d.mag)
	return mat.NewDense(d.frames, d.bins, data).T()
}
