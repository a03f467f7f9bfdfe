package render

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/LW-54/ARTIVI-4/internal/stft"
)

// Device executes the per-frame transforms of a reconstruction. Every device
// produces identical samples; they differ only in wall-clock time.
type Device interface {
	stft.Executor
	Name() string
}

type cpu struct{}

func (cpu) Run(n int, fn func(i int)) { stft.Serial.Run(n, fn) }
func (cpu) Name() string              { return "cpu" }

// CPU runs every transform on the calling goroutine.
var CPU Device = cpu{}

type parallel struct {
	workers int
}

// Parallel spreads frames over workers goroutines in contiguous chunks.
// workers <= 0 means runtime.NumCPU().
func Parallel(workers int) Device {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return parallel{workers: workers}
}

func (p parallel) Name() string { return fmt.Sprintf("parallel(%d)", p.workers) }

func (p parallel) Run(n int, fn func(i int)) {
	w := min(p.workers, n)
	if w <= 1 {
		stft.Serial.Run(n, fn)
		return
	}

	chunk := (n + w - 1) / w
	var g errgroup.Group
	g.SetLimit(w)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Detect picks Parallel when more than one CPU is available, CPU otherwise.
func Detect(workers int) Device {
	if runtime.NumCPU() > 1 && workers != 1 {
		return Parallel(workers)
	}
	return CPU
}

// ParseDevice resolves "auto", "cpu" or "parallel".
func ParseDevice(name string, workers int) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return Detect(workers), nil
	case "cpu":
		return CPU, nil
	case "parallel":
		return Parallel(workers), nil
	default:
		return nil, fmt.Errorf("unknown device %q: want auto, cpu or parallel", name)
	}
}
