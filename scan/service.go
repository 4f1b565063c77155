package scan

import (
	"context"
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/binarizer"
)

// decodeFunc decodes one bitmap. Batch scans build a fresh MultiFormatReader
// per call; the watcher reuses one.
type decodeFunc func(*zxcore.BinaryBitmap) (*zxcore.Result, error)

// Service scans image files. It is safe for concurrent use.
type Service struct {
	opts    Options
	kinds   []binarizer.Kind
	log     *zap.SugaredLogger
	metrics *Metrics
}

// New returns a Service. A nil log discards output and nil metrics records
// nothing.
func New(opts Options, log *zap.SugaredLogger, metrics *Metrics) (*Service, error) {
	kinds, err := Binarizers(opts.Binarizer)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{opts: opts, kinds: kinds, log: log, metrics: metrics}, nil
}

// ScanFiles scans paths with at most Options.Workers images in flight and
// returns one result per path, in order. Cancelling ctx stops dispatching;
// paths never started are reported as errors carrying ctx's error, which is
// also returned.
func (s *Service) ScanFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.workers())
	for i, path := range paths {
		if err := gctx.Err(); err != nil {
			results[i] = FileResult{Path: path, Outcome: OutcomeError, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = s.ScanFile(gctx, path)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return results, errors.Wrap(err, "scan cancelled")
	}
	return results, nil
}

// ScanFile loads and decodes one image, writes any requested dumps, and
// records the outcome.
func (s *Service) ScanFile(ctx context.Context, path string) FileResult {
	return s.scanFile(ctx, path, func(bitmap *zxcore.BinaryBitmap) (*zxcore.Result, error) {
		return zxcore.NewMultiFormatReader().Decode(bitmap, s.opts.Decode)
	})
}

func (s *Service) scanFile(ctx context.Context, path string, decode decodeFunc) FileResult {
	start := time.Now()
	res := FileResult{Path: path}
	defer func() {
		res.Duration = time.Since(start)
		s.metrics.observeImage(res)
	}()

	img, err := LoadImage(path)
	if err != nil {
		s.log.Warnw("load failed", "path", path, "error", err)
		res.Outcome, res.Err = OutcomeError, err
		return res
	}
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	source, err := s.source(img)
	if err != nil {
		s.log.Warnw("crop failed", "path", path, "error", err)
		res.Outcome, res.Err = OutcomeError, err
		return res
	}
	if s.opts.DumpBlackPoint {
		bitmap, err := s.bitmap(s.kinds[0], source)
		if err == nil {
			_, err = WriteBlackPoint(path, bitmap)
		}
		if err != nil {
			s.log.Warnw("debug image failed", "path", path, "error", err)
		}
	}

	res.Result, res.Binarizer, res.Err = s.decode(ctx, source, decode)
	res.Outcome = classify(res.Err)
	switch res.Outcome {
	case OutcomeDecoded:
		s.log.Infow("decoded", "path", path, "format", res.Result.Format.String(), "binarizer", string(res.Binarizer))
		if s.opts.DumpResults {
			if _, err := WriteResult(path, res.Result); err != nil {
				s.log.Warnw("result dump failed", "path", path, "error", err)
			}
		}
	case OutcomeNotFound:
		s.log.Debugw("no barcode", "path", path, "error", res.Err)
	case OutcomeTimeout:
		s.log.Warnw("timed out", "path", path, "timeout", s.opts.Timeout)
	default:
		s.log.Warnw("decode failed", "path", path, "error", res.Err)
	}
	return res
}

func classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeDecoded
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case zxcore.IsDecodeFailure(err):
		return OutcomeNotFound
	}
	return OutcomeError
}

func (s *Service) source(img image.Image) (zxcore.LuminanceSource, error) {
	source := zxcore.NewImageLuminanceSource(img)
	if s.opts.Crop.Empty() {
		return source, nil
	}
	c := s.opts.Crop
	cropped, err := source.Crop(c.Min.X, c.Min.Y, c.Dx(), c.Dy())
	if err != nil {
		return nil, errors.Wrap(err, "crop")
	}
	return cropped, nil
}

func (s *Service) bitmap(kind binarizer.Kind, source zxcore.LuminanceSource) (*zxcore.BinaryBitmap, error) {
	b, err := binarizer.New(kind, source)
	if err != nil {
		return nil, err
	}
	return zxcore.NewBinaryBitmap(b), nil
}

// decode tries each binarizer in turn until one decodes or ctx ends.
func (s *Service) decode(ctx context.Context, source zxcore.LuminanceSource, decode decodeFunc) (*zxcore.Result, binarizer.Kind, error) {
	var lastErr error = zxcore.ErrNotFound
	for _, kind := range s.kinds {
		if err := ctx.Err(); err != nil {
			return nil, kind, err
		}
		bitmap, err := s.bitmap(kind, source)
		if err != nil {
			return nil, kind, err
		}
		start := time.Now()
		res, err := decodeWithin(ctx, bitmap, decode)
		s.metrics.observeDecode(kind, time.Since(start).Seconds())
		if err == nil {
			return res, kind, nil
		}
		if ctx.Err() != nil {
			return nil, kind, err
		}
		lastErr = err
	}
	return nil, "", lastErr
}

type decodeOutcome struct {
	result *zxcore.Result
	err    error
}

// decodeWithin runs decode in its own goroutine and gives up when ctx ends.
// An abandoned decode runs to completion and its result is dropped.
func decodeWithin(ctx context.Context, bitmap *zxcore.BinaryBitmap, decode decodeFunc) (*zxcore.Result, error) {
	done := make(chan decodeOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- decodeOutcome{err: errors.Errorf("decoder panic: %v", r)}
			}
		}()
		res, err := decode(bitmap)
		done <- decodeOutcome{result: res, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		return out.result, out.err
	}
}
