// Package config loads barcodescan settings from defaults, a YAML file,
// BARCODESCAN_ environment variables and command-line flags.
package config

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/pdf417"
	"github.com/ericlevine/zxcore/pdf417/symbol"
	"github.com/ericlevine/zxcore/scan"
)

// Config is the complete barcodescan configuration.
type Config struct {
	Decode  DecodeConfig  `mapstructure:"decode"`
	Scan    ScanConfig    `mapstructure:"scan"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// DecodeConfig holds the decode hints.
type DecodeConfig struct {
	Formats      []string `mapstructure:"formats"`
	TryHarder    bool     `mapstructure:"try_harder"`
	PureBarcode  bool     `mapstructure:"pure_barcode"`
	AlsoInverted bool     `mapstructure:"also_inverted"`
	CharacterSet string   `mapstructure:"charset"`
	SymbolTable  string   `mapstructure:"symbol_table"`
}

// ScanConfig holds the batch scanning settings.
type ScanConfig struct {
	Workers        int           `mapstructure:"workers"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Binarizer      string        `mapstructure:"binarizer"`
	Crop           string        `mapstructure:"crop"`
	DumpResults    bool          `mapstructure:"dump_results"`
	DumpBlackPoint bool          `mapstructure:"dump_black_point"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// MetricsConfig holds the Prometheus listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Scan: ScanConfig{
			Workers:   4,
			Timeout:   10 * time.Second,
			Binarizer: scan.BinarizerBoth,
		},
		Log: LogConfig{Level: "info"},
	}
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	if c.Scan.Timeout <= 0 {
		return fmt.Errorf("scan.timeout must be positive, got %s", c.Scan.Timeout)
	}
	if _, err := scan.Binarizers(c.Scan.Binarizer); err != nil || c.Scan.Binarizer == "" {
		return fmt.Errorf("scan.binarizer must be hybrid, global or both, got %q", c.Scan.Binarizer)
	}
	if _, err := zxcore.ParseFormats(c.Decode.Formats); err != nil {
		return fmt.Errorf("decode.formats: %w", err)
	}
	if _, err := ParseCrop(c.Scan.Crop); err != nil {
		return fmt.Errorf("scan.crop: %w", err)
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ParseCrop parses "left,top,width,height". The empty string is the zero
// rectangle, meaning no crop.
func ParseCrop(s string) (image.Rectangle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return image.Rectangle{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("crop %q must be left,top,width,height", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return image.Rectangle{}, fmt.Errorf("crop %q: %q is not a non-negative integer", s, p)
		}
		v[i] = n
	}
	if v[2] == 0 || v[3] == 0 {
		return image.Rectangle{}, fmt.Errorf("crop %q has an empty area", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// DecodeOptions builds the decode hints, loading the symbol table file if
// one is set. No formats means every format.
func (c *Config) DecodeOptions() (*zxcore.DecodeOptions, error) {
	formats, err := zxcore.ParseFormats(c.Decode.Formats)
	if err != nil {
		return nil, err
	}
	if len(formats) == 0 {
		formats = zxcore.AllFormats()
	}
	opts := &zxcore.DecodeOptions{
		PossibleFormats: formats,
		TryHarder:       c.Decode.TryHarder,
		PureBarcode:     c.Decode.PureBarcode,
		AlsoInverted:    c.Decode.AlsoInverted,
		CharacterSet:    c.Decode.CharacterSet,
	}
	if c.Decode.SymbolTable != "" {
		table, err := loadSymbolTable(c.Decode.SymbolTable)
		if err != nil {
			return nil, err
		}
		opts.Other = map[string]any{pdf417.SymbolTableHint: table}
	}
	return opts, nil
}

// ScanOptions builds the scan service options.
func (c *Config) ScanOptions() (scan.Options, error) {
	decode, err := c.DecodeOptions()
	if err != nil {
		return scan.Options{}, err
	}
	crop, err := ParseCrop(c.Scan.Crop)
	if err != nil {
		return scan.Options{}, err
	}
	return scan.Options{
		Decode:         decode,
		Workers:        c.Scan.Workers,
		Timeout:        c.Scan.Timeout,
		Binarizer:      c.Scan.Binarizer,
		Crop:           crop,
		DumpResults:    c.Scan.DumpResults,
		DumpBlackPoint: c.Scan.DumpBlackPoint,
	}, nil
}

func loadSymbolTable(path string) (*symbol.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open symbol table")
	}
	defer f.Close()
	table, err := symbol.Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load symbol table %s", path)
	}
	return table, nil
}
