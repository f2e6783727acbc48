// Package imageload decodes layer source images concurrently on a small
// reusable worker pool, so a batch of large wallpaper layers decodes in
// parallel rather than one after another. DecodeAll blocks its caller until
// the whole batch is done; DecodeOne returns a channel instead.
//
// The dispatch shape is lifted from the teacher's per-frame compute
// submission (oxy-go's engine/scene.computePool): a DynamicWorkerPool sized
// to the machine, fed via SubmitTask, with a sync.WaitGroup as the
// completion barrier since the pool itself has no blocking "wait for these
// N tasks" call.
package imageload

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"image/draw"
	"os"
	"runtime"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// Result is one decoded image: straight RGBA pixels in row-major order plus
// its dimensions, or the error that prevented decoding it.
type Result struct {
	Path   string
	Pixels []byte
	Width  int
	Height int
	Err    error
}

// decode reads and decodes a single PNG, JPEG, BMP, or WebP file into RGBA
// bytes, via the format decoders registered by this file's blank imports.
// Adapted from oxy-go's common.ImportedTexture.Decode, minus its
// embedded-bytes branch: layer images here are always on-disk paths.
func decode(path string) ([]byte, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return rgba.Pix, width, height, nil
}

// DecodeBytes decodes an in-memory PNG/JPEG blob, for paths where the image
// arrives over the control socket rather than from disk.
func DecodeBytes(data []byte) ([]byte, int, int, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode embedded image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)

	return rgba.Pix, width, height, nil
}

const (
	defaultQueueSize  = 256
	defaultIdleExpiry = 1 * time.Second
)

// Loader dispatches image decodes onto a bounded, reusable goroutine pool.
// The zero value is not usable; construct with New.
type Loader struct {
	pool worker.DynamicWorkerPool
}

// New builds a Loader. workers <= 0 sizes the pool the same way oxy-go's
// scene sizes its compute pool: all cores but one, minimum one.
func New(workers int) *Loader {
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}
	return &Loader{
		pool: worker.NewDynamicWorkerPool(workers, defaultQueueSize, defaultIdleExpiry),
	}
}

// DecodeAll decodes every path concurrently and returns one Result per
// input path, in input order. A decode failure populates Result.Err for
// that entry rather than aborting the batch, matching the daemon's
// per-layer failure isolation: one bad image shouldn't block the rest of
// the layer stack from loading (spec.md §7).
func (l *Loader) DecodeAll(paths []string) []Result {
	results := make([]Result, len(paths))

	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		idx, path := i, p
		l.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				pix, w, h, err := decode(path)
				results[idx] = Result{Path: path, Pixels: pix, Width: w, Height: h, Err: err}
				return nil, nil
			},
		})
	}
	wg.Wait()

	return results
}

// DecodeOne decodes a single path without blocking the caller until the
// result is needed, for the `hyprlax-ctl add` path where one new layer
// arrives at a time.
func (l *Loader) DecodeOne(path string) <-chan Result {
	out := make(chan Result, 1)
	l.pool.SubmitTask(worker.Task{
		ID: 0,
		Do: func() (any, error) {
			pix, w, h, err := decode(path)
			out <- Result{Path: path, Pixels: pix, Width: w, Height: h, Err: err}
			close(out)
			return nil, nil
		},
	})
	return out
}
