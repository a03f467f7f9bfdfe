package ingest

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

// FromImage loads a still image and stretches it over duration seconds:
// settings.Resolution() rows by settings.FramesFor(duration) frames. The
// bottom row of the picture becomes frequency bin 0.
func FromImage(path string, duration float64, settings *spectro.Settings, opts ...Option) (*spectro.Data, error) {
	if settings == nil {
		return nil, &spectro.IngestError{Source: path, Err: errors.New("nil settings")}
	}
	if duration <= 0 {
		return nil, &spectro.IngestError{Source: path, Err: fmt.Errorf("duration must be positive, got %v", duration)}
	}
	return fromImageFrames(path, settings.FramesFor(duration), settings, buildOptions(opts))
}

func fromImageFrames(path string, frames int, settings *spectro.Settings, o options) (*spectro.Data, error) {
	src, err := decodeImage(path)
	if err != nil {
		return nil, &spectro.IngestError{Source: path, Err: err}
	}

	rows := settings.Resolution()
	o.log.Debugf("image %s: %dx%d -> %dx%d", path, src.Bounds().Dx(), src.Bounds().Dy(), frames, rows)

	gray := image.NewGray(image.Rect(0, 0, frames, rows))
	draw.BiLinear.Scale(gray, gray.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := make([][]float64, frames)
	for t := range out {
		out[t] = make([]float64, rows)
	}
	grayColumns(out, gray.Pix, gray.Stride, rows, 0, frames, o.lut())

	d, err := spectro.NewFromFrames(settings, out)
	if err != nil {
		return nil, &spectro.IngestError{Source: path, Err: err}
	}
	return d, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("%s image has no pixels", format)
	}
	return img, nil
}
