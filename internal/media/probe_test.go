package media

import (
	"math"
	"testing"
)

func TestParseRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30000/1001", 30000.0 / 1001.0},
		{"25/1", 25},
		{"24", 24},
		{"0/0", 0},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := parseRate(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseRate(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestParseProbe(t *testing.T) {
	out := []byte(`{
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "h264", "width": 640, "height": 360,
			 "duration": "2.500000", "nb_frames": "75", "avg_frame_rate": "30/1"}
		],
		"format": {"filename": "clip.mp4", "duration": "2.510000", "format_name": "mov,mp4"}
	}`)

	info, err := parseProbe(out, "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.Filename != "clip.mp4" || info.Codec != "h264" {
		t.Errorf("unexpected identity: %+v", info)
	}
	if info.Width != 640 || info.Height != 360 {
		t.Errorf("expected 640x360, got %dx%d", info.Width, info.Height)
	}
	if info.DurationSec != 2.5 {
		t.Errorf("stream duration should win, got %f", info.DurationSec)
	}
	if info.FrameCount != 75 || info.FrameRate != 30 {
		t.Errorf("expected 75 frames at 30fps, got %d at %f", info.FrameCount, info.FrameRate)
	}
}

func TestParseProbeFallbacks(t *testing.T) {
	// webm-style: no stream duration, no nb_frames
	out := []byte(`{
		"streams": [{"codec_type": "video", "width": 320, "height": 240, "avg_frame_rate": "0/0", "r_frame_rate": "24/1"}],
		"format": {"duration": "3.0"}
	}`)

	info, err := parseProbe(out, "clip.webm")
	if err != nil {
		t.Fatalf("parseProbe failed: %v", err)
	}
	if info.DurationSec != 3 {
		t.Errorf("expected format duration 3, got %f", info.DurationSec)
	}
	if info.FrameCount != 72 {
		t.Errorf("expected frame count from duration*rate = 72, got %d", info.FrameCount)
	}
}

func TestParseProbeErrors(t *testing.T) {
	cases := map[string]string{
		"not json":    `{`,
		"no video":    `{"streams": [{"codec_type": "audio"}], "format": {"duration": "1"}}`,
		"no duration": `{"streams": [{"codec_type": "video"}], "format": {}}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := parseProbe([]byte(in), "x"); err == nil {
				t.Error("expected error")
			}
		})
	}
}
