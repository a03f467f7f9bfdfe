package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds an ffprobe call when ctx carries no deadline.
const DefaultProbeTimeout = 10 * time.Second

// VideoInfo is the subset of container and stream metadata needed to lay a
// video out on an audio timeline.
type VideoInfo struct {
	Filename    string
	Format      string
	Codec       string
	DurationSec float64
	Width       int
	Height      int
	FrameRate   float64
	FrameCount  int
}

type ffprobeOutput struct {
	Format struct {
		Filename string `json:"filename"`
		Duration string `json:"duration"`
		Format   string `json:"format_name"`
	} `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Duration     string `json:"duration"`
	NbFrames     string `json:"nb_frames"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
}

func (p *ffprobeOutput) firstVideoStream() *ffprobeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

// Available reports whether both ffmpeg and ffprobe are on PATH.
func Available() bool {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return false
		}
	}
	return true
}

// ProbeVideo reads duration, geometry and frame statistics of the first
// video stream in path.
func ProbeVideo(ctx context.Context, path string) (*VideoInfo, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultProbeTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(
		ctx,
		"ffprobe",
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("ffprobe failed: %v (%s)", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbe(out, path)
}

func parseProbe(out []byte, path string) (*VideoInfo, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output: %w", err)
	}

	vs := probe.firstVideoStream()
	if vs == nil {
		return nil, errors.New("no video stream found")
	}

	// stream duration is missing for some containers (mkv, webm)
	duration, _ := strconv.ParseFloat(vs.Duration, 64)
	if duration <= 0 {
		duration, _ = strconv.ParseFloat(probe.Format.Duration, 64)
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, errors.New("video has no usable duration")
	}

	rate := parseRate(vs.AvgFrameRate)
	if rate <= 0 {
		rate = parseRate(vs.RFrameRate)
	}

	frames, _ := strconv.Atoi(vs.NbFrames)
	if frames <= 0 && rate > 0 {
		frames = int(math.Round(duration * rate))
	}
	if frames <= 0 {
		frames = 1
	}

	return &VideoInfo{
		Filename:    filepath.Base(path),
		Format:      probe.Format.Format,
		Codec:       vs.CodecName,
		DurationSec: duration,
		Width:       vs.Width,
		Height:      vs.Height,
		FrameRate:   rate,
		FrameCount:  frames,
	}, nil
}

// parseRate parses ffprobe rationals such as "30000/1001" or "25".
// Unparseable or undefined ("0/0") rates yield 0.
func parseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
