package zxcore_test

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/makiuchi-d/gozxing"
	gzoned "github.com/makiuchi-d/gozxing/oned"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/internal/testutil"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

// dispatchWorld is the per-scenario state of the dispatch feature.
type dispatchWorld struct {
	opts   *zxcore.DecodeOptions
	image  image.Image
	reader *zxcore.MultiFormatReader
	result *zxcore.Result
	err    error
}

func (w *dispatchWorld) noDecodeOptions() error {
	w.opts = nil
	return nil
}

func (w *dispatchWorld) tryHarder() error {
	w.opts = &zxcore.DecodeOptions{TryHarder: true}
	return nil
}

func (w *dispatchWorld) possibleFormats(names string) error {
	formats, err := zxcore.ParseFormats(strings.Split(names, ","))
	if err != nil {
		return err
	}
	w.opts = &zxcore.DecodeOptions{PossibleFormats: formats}
	return nil
}

func (w *dispatchWorld) code128Image(text string) error {
	img, err := testutil.Encoded(gzoned.NewCode128Writer(), text, gozxing.BarcodeFormat_CODE_128, 300, 80, 0)
	w.image = img
	return err
}

func (w *dispatchWorld) pdf417Image(text string) error {
	sym, err := testutil.NewPDF417(testutil.TextCodewords(text), 2, 1)
	if err != nil {
		return err
	}
	w.image = testutil.Image(sym.BitMatrix(symbol.Enumerated(), 3, 3, 2))
	return nil
}

func (w *dispatchWorld) configure() error {
	w.reader = zxcore.NewMultiFormatReader()
	w.reader.SetHints(w.opts)
	return nil
}

func (w *dispatchWorld) decode() error {
	w.reader = zxcore.NewMultiFormatReader()
	w.result, w.err = w.reader.Decode(bitmapOf(w.image), w.opts)
	return nil
}

func (w *dispatchWorld) decodeWithStateTwice() error {
	for i := 0; i < 2; i++ {
		w.result, w.err = w.reader.DecodeWithState(bitmapOf(w.image))
		if w.err != nil {
			return w.err
		}
	}
	return nil
}

func (w *dispatchWorld) readersAre(want string) error {
	if got := strings.Join(kinds(w.reader.Readers()), ","); got != want {
		return fmt.Errorf("readers are %q, want %q", got, want)
	}
	return nil
}

func (w *dispatchWorld) failsNotFound() error {
	if !errors.Is(w.err, zxcore.ErrNotFound) {
		return fmt.Errorf("got error %v, want not found", w.err)
	}
	return nil
}

func (w *dispatchWorld) resultIs(format, text string) error {
	if w.err != nil {
		return w.err
	}
	if w.result.Format.String() != format || w.result.Text != text {
		return fmt.Errorf("got %s %q, want %s %q", w.result.Format, w.result.Text, format, text)
	}
	return nil
}

func initializeDispatchScenario(sc *godog.ScenarioContext) {
	w := &dispatchWorld{}
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*w = dispatchWorld{}
		return ctx, nil
	})

	sc.Step(`^no decode options$`, w.noDecodeOptions)
	sc.Step(`^decode options with try harder$`, w.tryHarder)
	sc.Step(`^decode options with possible formats "([^"]*)"$`, w.possibleFormats)
	sc.Step(`^a Code 128 image of "([^"]*)"$`, w.code128Image)
	sc.Step(`^a PDF417 image of "([^"]*)"$`, w.pdf417Image)
	sc.Step(`^the readers are configured$`, w.configure)
	sc.Step(`^the image is decoded$`, w.decode)
	sc.Step(`^the image is decoded with state twice$`, w.decodeWithStateTwice)
	sc.Step(`^the readers are "([^"]*)"$`, w.readersAre)
	sc.Step(`^decoding fails with not found$`, w.failsNotFound)
	sc.Step(`^the result is (\S+) "([^"]*)"$`, w.resultIs)
}

func TestDispatchFeature(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeDispatchScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/features"},
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
