// Package scan decodes barcodes from image files in batches. It owns the
// concerns the decoding core leaves to its callers: a bounded worker pool,
// per-image deadlines, binarizer fallback, result and debug dumps, logging
// and metrics.
package scan

import (
	"fmt"
	"image"
	"runtime"
	"strings"
	"time"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/binarizer"
)

// BinarizerBoth tries the hybrid binarizer first and the global histogram
// binarizer if that fails.
const BinarizerBoth = "both"

// Options configures a Service.
type Options struct {
	// Decode is passed to every MultiFormatReader. It is shared by all
	// workers and must not be modified while a scan runs.
	Decode *zxcore.DecodeOptions

	// Workers bounds the number of images decoded at once. Zero means one
	// per CPU.
	Workers int

	// Timeout is the deadline for one image, covering every binarizer
	// attempt. Zero disables it.
	Timeout time.Duration

	// Binarizer is "hybrid", "global" or "both".
	Binarizer string

	// Crop restricts decoding to a rectangle of each image. The zero
	// rectangle decodes the whole image.
	Crop image.Rectangle

	// DumpResults writes the decoded text next to each input.
	DumpResults bool

	// DumpBlackPoint writes a debug image of the thresholding next to each
	// input.
	DumpBlackPoint bool
}

func (o Options) workers() int {
	if o.Workers < 1 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// Binarizers returns the binarizer kinds tried, in order, for mode.
func Binarizers(mode string) ([]binarizer.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", BinarizerBoth:
		return []binarizer.Kind{binarizer.KindHybrid, binarizer.KindGlobal}, nil
	}
	kind, err := binarizer.ParseKind(mode)
	if err != nil {
		return nil, err
	}
	return []binarizer.Kind{kind}, nil
}

// Outcome classifies how a file scan ended.
type Outcome string

const (
	OutcomeDecoded  Outcome = "decoded"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
	OutcomeTimeout  Outcome = "timeout"
)

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path      string
	Result    *zxcore.Result
	Binarizer binarizer.Kind
	Outcome   Outcome
	Err       error
	Duration  time.Duration
}

// String renders r the way the command line reports it.
func (r FileResult) String() string {
	switch r.Outcome {
	case OutcomeDecoded:
		return fmt.Sprintf("%s: %s %s", r.Path, r.Result.Format, r.Result.Text)
	case OutcomeNotFound:
		return fmt.Sprintf("%s: No barcode found", r.Path)
	case OutcomeTimeout:
		return fmt.Sprintf("%s: timed out after %s", r.Path, r.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s: error: %v", r.Path, r.Err)
}
