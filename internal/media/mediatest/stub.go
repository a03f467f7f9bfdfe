// Package mediatest installs fake ffprobe and ffmpeg executables so video
// ingestion can be tested without the real binaries.
package mediatest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// Clip describes what the fake tools report and emit.
type Clip struct {
	DurationSec float64
	FrameRate   string // ffprobe rational, e.g. "30/1"
	NbFrames    int    // reported by ffprobe; 0 leaves nb_frames empty
	Frames      [][]byte
}

// Uniform returns n frames of size bytes where frame k is filled with
// level(k).
func Uniform(n, size int, level func(k int) byte) [][]byte {
	frames := make([][]byte, n)
	for k := range frames {
		f := make([]byte, size)
		v := level(k)
		for i := range f {
			f[i] = v
		}
		frames[k] = f
	}
	return frames
}

// Install writes fake ffprobe and ffmpeg scripts into a temp dir and puts it
// first on PATH for the duration of the test. ffmpeg ignores its arguments
// and streams the concatenated frames.
func Install(t testing.TB, clip Clip) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub executables need /bin/sh")
	}

	dir := t.TempDir()

	nb := ""
	if clip.NbFrames > 0 {
		nb = strconv.Itoa(clip.NbFrames)
	}
	probe := fmt.Sprintf(`{
  "streams": [{
    "codec_type": "video",
    "codec_name": "h264",
    "width": 64,
    "height": 48,
    "duration": "%s",
    "nb_frames": "%s",
    "avg_frame_rate": "%s",
    "r_frame_rate": "%s"
  }],
  "format": {"filename": "clip.mp4", "duration": "%s", "format_name": "mov,mp4"}
}
`, strconv.FormatFloat(clip.DurationSec, 'f', -1, 64), nb, clip.FrameRate, clip.FrameRate,
		strconv.FormatFloat(clip.DurationSec, 'f', -1, 64))

	probePath := filepath.Join(dir, "probe.json")
	writeFile(t, probePath, []byte(probe), 0o644)

	var raw []byte
	for _, f := range clip.Frames {
		raw = append(raw, f...)
	}
	rawPath := filepath.Join(dir, "frames.raw")
	writeFile(t, rawPath, raw, 0o644)

	writeFile(t, filepath.Join(dir, "ffprobe"), []byte("#!/bin/sh\nexec cat "+strconv.Quote(probePath)+"\n"), 0o755)
	writeFile(t, filepath.Join(dir, "ffmpeg"), []byte("#!/bin/sh\nexec cat "+strconv.Quote(rawPath)+"\n"), 0o755)

	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func writeFile(t testing.TB, path string, data []byte, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, data, perm); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
