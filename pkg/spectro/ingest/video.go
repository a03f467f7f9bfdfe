package ingest

import (
	"context"
	"errors"
	"math"

	"github.com/LW-54/ARTIVI-4/internal/media"
	"github.com/LW-54/ARTIVI-4/pkg/spectro"
)

// sourceFrame is the nearest source frame for output frame t when n source
// frames are spread over total output frames.
func sourceFrame(t, total, n int) int {
	s := int(math.Round(float64(t) / float64(total) * float64(n)))
	if s > n-1 {
		s = n - 1
	}
	return s
}

// FromVideo maps a video onto the audio timeline implied by its duration:
// the result has settings.FramesFor(duration) frames regardless of the
// native frame rate. Output frame t takes column t of the nearest source
// frame, each frame scaled to that width and settings.Resolution() rows.
func FromVideo(ctx context.Context, path string, settings *spectro.Settings, opts ...Option) (*spectro.Data, error) {
	if settings == nil {
		return nil, &spectro.IngestError{Source: path, Err: errors.New("nil settings")}
	}
	o := buildOptions(opts)

	info, err := media.ProbeVideo(ctx, path)
	if err != nil {
		return nil, &spectro.IngestError{Source: path, Err: err}
	}

	total := settings.FramesFor(info.DurationSec)
	rows := settings.Resolution()
	o.log.Infof("video %s: %d frames over %.3fs, resizing to %dx%d", info.Filename, info.FrameCount, info.DurationSec, total, rows)

	src := make([]int, total)
	for t := range src {
		src[t] = sourceFrame(t, total, info.FrameCount)
	}

	out := make([][]float64, total)
	for t := range out {
		out[t] = make([]float64, rows)
	}
	lut := o.lut()

	next := 0
	last := make([]byte, total*rows)
	decoded, err := media.StreamGrayFrames(ctx, path, total, rows, func(i int, pix []byte) error {
		end := next
		for end < total && src[end] <= i {
			end++
		}
		grayColumns(out, pix, total, rows, next, end, lut)
		next = end
		if next == total {
			return media.ErrStopFrames
		}
		copy(last, pix)
		return nil
	})
	if err != nil {
		return nil, &spectro.IngestError{Source: path, Err: err}
	}
	if next < total {
		o.log.Debugf("video %s ended after %d of %d frames, holding last frame", path, decoded, info.FrameCount)
		grayColumns(out, last, total, rows, next, total, lut)
	}

	d, err := spectro.NewFromFrames(settings, out)
	if err != nil {
		return nil, &spectro.IngestError{Source: path, Err: err}
	}
	return d, nil
}
