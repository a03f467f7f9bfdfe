package ingest

import (
	"errors"
	"fmt"

	"github.com/LW-54/ARTIVI-4/pkg/spectro"
	"github.com/LW-54/ARTIVI-4/pkg/utils"
)

// slot is the frame range of one slideshow item.
type slot struct{ start, end int }

// slideshowSlots places k items of d seconds separated by g seconds of
// silence. Boundaries are rounded on the absolute timeline, so rounding
// never accumulates and the total is settings.FramesAt(k*d + (k-1)*g).
func slideshowSlots(settings *spectro.Settings, k int, d, g float64) []slot {
	slots := make([]slot, k)
	for i := range slots {
		at := float64(i) * (d + g)
		slots[i] = slot{start: settings.FramesAt(at), end: settings.FramesAt(at + d)}
		if slots[i].end <= slots[i].start {
			slots[i].end = slots[i].start + 1
		}
	}
	return slots
}

// FromImageList ingests each image for durationPerImage seconds and joins
// them with gap seconds of silence in between. durationPerImage must cover
// at least one frame. Any unreadable image fails the whole list.
func FromImageList(paths []string, durationPerImage float64, settings *spectro.Settings, gap float64, opts ...Option) (*spectro.Data, error) {
	if settings == nil {
		return nil, &spectro.IngestError{Source: "image list", Err: errors.New("nil settings")}
	}
	if len(paths) == 0 {
		return nil, &spectro.IngestError{Source: "image list", Err: spectro.ErrNoImages}
	}
	if durationPerImage <= 0 {
		return nil, &spectro.IngestError{Source: "image list", Err: fmt.Errorf("duration per image must be positive, got %v", durationPerImage)}
	}
	if frames := durationPerImage * float64(settings.SampleRate()) / float64(settings.HopLength()); frames < 1-1e-9 {
		return nil, &spectro.IngestError{Source: "image list", Err: fmt.Errorf("duration per image %vs is shorter than one frame (%vs)", durationPerImage, settings.Duration(1))}
	}
	if gap < 0 {
		gap = 0
	}

	o := buildOptions(opts)
	slots := slideshowSlots(settings, len(paths), durationPerImage, gap)

	parts := make([]*spectro.Data, 0, 2*len(paths)-1)
	for i, p := range paths {
		if i > 0 {
			if silent := slots[i].start - slots[i-1].end; silent > 0 {
				parts = append(parts, spectro.Silence(settings, silent))
			}
		}
		d, err := fromImageFrames(p, slots[i].end-slots[i].start, settings, o)
		if err != nil {
			return nil, err
		}
		parts = append(parts, d)
	}

	out, err := spectro.Concat(0, parts...)
	if err != nil {
		return nil, &spectro.IngestError{Source: "image list", Err: err}
	}
	o.log.Infof("ingested %d images: %d frames (%.3fs)", len(paths), out.Frames(), out.Duration())
	return out, nil
}

// FromImageFolder runs FromImageList over the images directly inside dir,
// in case-insensitive name order. Only ImageExtensions are considered.
func FromImageFolder(dir string, durationPerImage float64, settings *spectro.Settings, gap float64, opts ...Option) (*spectro.Data, error) {
	paths, err := utils.ListFiles(dir, ImageExtensions)
	if err != nil {
		return nil, &spectro.IngestError{Source: dir, Err: err}
	}
	if len(paths) == 0 {
		return nil, &spectro.IngestError{Source: dir, Err: spectro.ErrNoImages}
	}

	o := buildOptions(opts)
	o.log.Infof("found %d images in folder %s", len(paths), dir)

	return FromImageList(paths, durationPerImage, settings, gap, opts...)
}
