package config

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/pdf417"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

// isolate keeps the loader from finding config files or environment
// variables outside the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, EnvPrefix+"_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	return dir
}

const sampleYAML = `
decode:
  formats: [QR_CODE, PDF_417]
  try_harder: true
scan:
  workers: 8
  timeout: 2s
  binarizer: global
  crop: "1,2,30,40"
log:
  level: debug
metrics:
  addr: ":9100"
`

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	want := DefaultConfig()
	assert.Empty(t, cfg.Decode.Formats)
	assert.Equal(t, want.Scan, cfg.Scan)
	assert.Equal(t, want.Log, cfg.Log)
	assert.Equal(t, want.Metrics, cfg.Metrics)
	assert.False(t, cfg.Decode.TryHarder)
}

func TestLoadSearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "barcodescan.yaml"), []byte(sampleYAML), 0o644))

	l := NewLoader()
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"QR_CODE", "PDF_417"}, cfg.Decode.Formats)
	assert.True(t, cfg.Decode.TryHarder)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, 2*time.Second, cfg.Scan.Timeout)
	assert.Equal(t, "global", cfg.Scan.Binarizer)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
	assert.Equal(t, "barcodescan.yaml", filepath.Base(l.ConfigFileUsed()))
}

func TestLoadPrecedence(t *testing.T) {
	dir := isolate(t)
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte(sampleYAML), 0o644))
	t.Setenv("BARCODESCAN_SCAN_WORKERS", "3")
	t.Setenv("BARCODESCAN_SCAN_TIMEOUT", "500ms")
	t.Setenv("BARCODESCAN_DECODE_FORMATS", "CODE_128,EAN_13")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 1, "")
	fs.Duration("timeout", time.Minute, "")
	require.NoError(t, fs.Parse([]string{"--workers=5"}))

	l := NewLoader()
	require.NoError(t, l.BindPFlag("scan.workers", fs.Lookup("workers")))
	require.NoError(t, l.BindPFlag("scan.timeout", fs.Lookup("timeout")))
	cfg, err := l.Load(file)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Scan.Workers, "a set flag beats the environment")
	assert.Equal(t, 500*time.Millisecond, cfg.Scan.Timeout, "the environment beats an unset flag")
	assert.Equal(t, []string{"CODE_128", "EAN_13"}, cfg.Decode.Formats)
	assert.Equal(t, "global", cfg.Scan.Binarizer, "the file beats defaults")
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	_, err := NewLoader().Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("scan:\n  workers: 0\n"), 0o644))
	_, err = NewLoader().Load(bad)
	assert.ErrorContains(t, err, "scan.workers")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"workers", func(c *Config) { c.Scan.Workers = 0 }, "scan.workers"},
		{"timeout", func(c *Config) { c.Scan.Timeout = 0 }, "scan.timeout"},
		{"binarizer", func(c *Config) { c.Scan.Binarizer = "otsu" }, "scan.binarizer"},
		{"empty binarizer", func(c *Config) { c.Scan.Binarizer = "" }, "scan.binarizer"},
		{"formats", func(c *Config) { c.Decode.Formats = []string{"QR_CODE", "AZTEC"} }, "decode.formats"},
		{"crop", func(c *Config) { c.Scan.Crop = "1,2,3" }, "scan.crop"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestParseCrop(t *testing.T) {
	r, err := ParseCrop("")
	require.NoError(t, err)
	assert.True(t, r.Empty())

	r, err = ParseCrop(" 10, 20,30,40 ")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(10, 20, 40, 60), r)

	for _, bad := range []string{"1,2,3", "a,2,3,4", "1,-2,3,4", "1,2,0,4"} {
		_, err := ParseCrop(bad)
		assert.Error(t, err, bad)
	}
}

func TestDecodeOptions(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "table.yaml")
	f, err := os.Create(tablePath)
	require.NoError(t, err)
	require.NoError(t, symbol.Enumerated().WriteYAML(f))
	require.NoError(t, f.Close())

	cfg := DefaultConfig()
	cfg.Decode.Formats = []string{"pdf417", "QR_CODE"}
	cfg.Decode.AlsoInverted = true
	cfg.Decode.CharacterSet = "ISO-8859-1"
	cfg.Decode.SymbolTable = tablePath
	cfg.Scan.Crop = "0,0,10,10"

	opts, err := cfg.ScanOptions()
	require.NoError(t, err)
	assert.Equal(t, []zxcore.Format{zxcore.FormatPDF417, zxcore.FormatQRCode}, opts.Decode.PossibleFormats)
	assert.True(t, opts.Decode.AlsoInverted)
	assert.Equal(t, "ISO-8859-1", opts.Decode.CharacterSet)
	assert.IsType(t, &symbol.Table{}, opts.Decode.Other[pdf417.SymbolTableHint])
	assert.Equal(t, image.Rect(0, 0, 10, 10), opts.Crop)
	assert.Equal(t, 4, opts.Workers)

	cfg.Decode.Formats = nil
	decode, err := cfg.DecodeOptions()
	require.NoError(t, err)
	assert.Equal(t, zxcore.AllFormats(), decode.PossibleFormats)
	assert.True(t, decode.Allows(zxcore.FormatPDF417))

	cfg.Decode.SymbolTable = filepath.Join(dir, "missing.yaml")
	_, err = cfg.DecodeOptions()
	assert.Error(t, err)
}
