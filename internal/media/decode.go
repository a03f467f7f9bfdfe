package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// waitDelay bounds how long Wait lingers on ffmpeg's output pipes after the
// process is gone.
const waitDelay = 2 * time.Second

// FrameFunc receives each decoded frame in order. pix holds width*height
// 8-bit luma values, row 0 first, and is reused between calls.
type FrameFunc func(index int, pix []byte) error

// ErrStopFrames may be returned by a FrameFunc to end decoding early
// without error.
var ErrStopFrames = errors.New("stop decoding frames")

// StreamGrayFrames decodes path with ffmpeg, scaled to width x height
// grayscale, and hands each frame to fn. It returns the number of frames
// delivered, including the one whose callback returned ErrStopFrames.
// A trailing partial frame is discarded.
func StreamGrayFrames(ctx context.Context, path string, width, height int, fn FrameFunc) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("invalid frame geometry %dx%d", width, height)
	}

	procCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(
		procCtx,
		"ffmpeg",
		"-v", "error",
		"-nostdin",
		"-i", path,
		"-vf", "scale="+strconv.Itoa(width)+":"+strconv.Itoa(height)+",format=gray",
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"-",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, err
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting ffmpeg: %w", err)
	}

	pix := make([]byte, width*height)
	n := 0
	stopped := false
	var fnErr error
	for {
		if _, err := io.ReadFull(stdout, pix); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				fnErr = err
			}
			break
		}
		err := fn(n, pix)
		if err == nil {
			n++
			continue
		}
		if errors.Is(err, ErrStopFrames) {
			n++
			stopped = true
		} else {
			fnErr = err
		}
		break
	}

	if stopped || fnErr != nil {
		// ffmpeg may still be writing and nobody reads stdout anymore
		cancel()
	}
	waitErr := cmd.Wait()

	if fnErr != nil {
		return n, fnErr
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}
	if n == 0 {
		if waitErr != nil {
			return 0, fmt.Errorf("ffmpeg failed: %v (%s)", waitErr, strings.TrimSpace(stderr.String()))
		}
		return 0, errors.New("ffmpeg produced no frames")
	}
	return n, nil
}
