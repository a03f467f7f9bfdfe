package ingest

import (
	"errors"
	"fmt"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

// FromArray takes m as magnitudes in canonical orientation: row 0 is the
// lowest frequency bin and columns are time frames. The row count must
// equal settings.Resolution().
func FromArray(m mat.Matrix, settings *spectro.Settings) (*spectro.Data, error) {
	if settings == nil {
		return nil, &spectro.IngestError{Source: "array", Err: errors.New("nil settings")}
	}
	if m == nil {
		return nil, &spectro.IngestError{Source: "array", Err: spectro.ErrNoFrames}
	}
	r, c := m.Dims()
	if r != settings.Resolution() {
		return nil, &spectro.IngestError{
			Source: "array",
			Err:    fmt.Errorf("%w: array has %d rows, settings resolution is %d", spectro.ErrShapeMismatch, r, settings.Resolution()),
		}
	}

	frames := make([][]float64, c)
	for t := range frames {
		f := make([]float64, r)
		mat.Col(f, t, m)
		frames[t] = f
	}
	d, err := spectro.NewFromFrames(settings, frames)
	if err != nil {
		return nil, &spectro.IngestError{Source: "array", Err: err}
	}
	return d, nil
}

// FromNPY loads a 2-D .npy array as written by the painter: row 0 is the
// top of the canvas (highest frequency). Integer arrays hold 0..255 pixel
// levels and are divided by 255; float arrays are used as-is. The array is
// flipped into canonical orientation and passed to FromArray.
func FromNPY(path string, settings *spectro.Settings) (*spectro.Data, error) {
	m, err := readNPY(path)
	if err != nil {
		return nil, &spectro.IngestError{Source: path, Err: err}
	}

	r, c := m.Dims()
	flipped := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		flipped.SetRow(r-1-i, m.RawRowView(i))
	}

	d, err := FromArray(flipped, settings)
	if err != nil {
		var ie *spectro.IngestError
		if errors.As(err, &ie) {
			ie.Source = path
		}
		return nil, err
	}
	return d, nil
}

func readNPY(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %w", err)
	}

	shape := r.Header.Descr.Shape
	if len(shape) != 2 || shape[0] == 0 || shape[1] == 0 {
		return nil, fmt.Errorf("%w: want a non-empty 2-D array, got shape %v", spectro.ErrUnsupportedArray, shape)
	}

	var vals []float64
	switch r.Header.Descr.Type {
	case "|u1", "u1":
		vals, err = readScaled[uint8](r, 1.0/255)
	case "<i4":
		vals, err = readScaled[int32](r, 1.0/255)
	case "<i8":
		vals, err = readScaled[int64](r, 1.0/255)
	case "<f4":
		vals, err = readScaled[float32](r, 1)
	case "<f8":
		vals, err = readScaled[float64](r, 1)
	default:
		return nil, fmt.Errorf("%w: dtype %q", spectro.ErrUnsupportedArray, r.Header.Descr.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("reading npy data: %w", err)
	}

	rows, cols := shape[0], shape[1]
	if r.Header.Descr.Fortran {
		return mat.DenseCopyOf(mat.NewDense(cols, rows, vals).T()), nil
	}
	return mat.NewDense(rows, cols, vals), nil
}

type npyNumber interface {
	~uint8 | ~int32 | ~int64 | ~float32 | ~float64
}

func readScaled[T npyNumber](r *npyio.Reader, scale float64) ([]float64, error) {
	var raw []T
	if err := r.Read(&raw); err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = float64(v) * scale
	}
	return out, nil
}
