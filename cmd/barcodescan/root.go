package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ericlevine/zxcore/internal/config"
	"github.com/ericlevine/zxcore/scan"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// flagKeys maps persistent flags to their configuration keys.
var flagKeys = map[string]string{
	"formats":          "decode.formats",
	"try-harder":       "decode.try_harder",
	"pure":             "decode.pure_barcode",
	"also-inverted":    "decode.also_inverted",
	"charset":          "decode.charset",
	"symbol-table":     "decode.symbol_table",
	"workers":          "scan.workers",
	"timeout":          "scan.timeout",
	"binarizer":        "scan.binarizer",
	"crop":             "scan.crop",
	"dump-results":     "scan.dump_results",
	"dump-black-point": "scan.dump_black_point",
	"metrics-addr":     "metrics.addr",
}

type app struct {
	loader     *config.Loader
	configFile string
	debug      bool

	cfg *config.Config
	log *zap.SugaredLogger
}

func newRootCommand() *cobra.Command {
	a := &app{loader: config.NewLoader()}
	root := &cobra.Command{
		Use:   "barcodescan",
		Short: "Detect and decode barcodes in image files",
		Long: `barcodescan decodes PDF417, QR Code, Data Matrix and 1D barcodes in
PNG, JPEG, GIF, BMP, TIFF and WebP images.

Examples:
  barcodescan scan ticket.png
  barcodescan scan --formats PDF_417 --dump-results scans/
  barcodescan watch --metrics-addr :9100 inbox/`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	d := config.DefaultConfig()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./barcodescan.yaml or $HOME/.config/barcodescan/barcodescan.yaml)")
	pf.BoolVar(&a.debug, "debug", false, "log at debug level in development format")
	pf.StringSlice("formats", nil, "formats to look for, such as PDF_417,QR_CODE (default all)")
	pf.Bool("try-harder", false, "spend more time looking for barcodes")
	pf.Bool("pure", false, "hint that the image is a clean barcode render with minimal border")
	pf.Bool("also-inverted", false, "also try the image with black and white swapped")
	pf.String("charset", "", "character set of byte-encoded payloads")
	pf.String("symbol-table", "", "PDF417 symbol table YAML file")
	pf.Int("workers", d.Scan.Workers, "images decoded at once")
	pf.Duration("timeout", d.Scan.Timeout, "deadline for each image")
	pf.String("binarizer", d.Scan.Binarizer, "hybrid, global or both")
	pf.String("crop", "", "only decode the rectangle left,top,width,height")
	pf.Bool("dump-results", false, "write the decoded text to <input>.txt")
	pf.Bool("dump-black-point", false, "write a thresholding debug image to <input>.debug.png")
	pf.String("metrics-addr", "", "serve Prometheus metrics at host:port/metrics")

	root.AddCommand(a.scanCommand(), a.watchCommand(), versionCommand())
	return root
}

// init binds the flags, loads the configuration and builds the logger. Set
// flags override the environment, which overrides the config file.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	pf := cmd.Root().PersistentFlags()
	for flag, key := range flagKeys {
		if err := a.loader.BindPFlag(key, pf.Lookup(flag)); err != nil {
			return err
		}
	}
	cfg, err := a.loader.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.Log.Level = "debug"
	}
	log, err := newLogger(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	if used := a.loader.ConfigFileUsed(); used != "" {
		a.log.Debugw("loaded config", "file", used)
	}
	return nil
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	if strings.EqualFold(level, "debug") {
		l, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// service builds the scan service and starts the metrics listener, if one
// is configured. The caller must stop the returned server.
func (a *app) service() (*scan.Service, *metricsServer, error) {
	opts, err := a.cfg.ScanOptions()
	if err != nil {
		return nil, nil, err
	}
	srv := newMetricsServer(a.cfg.Metrics.Addr, a.log)
	svc, err := scan.New(opts, a.log, scan.NewMetrics(srv.registry))
	if err != nil {
		return nil, nil, err
	}
	srv.start()
	return svc, srv, nil
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "barcodescan %s\n", version)
		},
	}
}
