package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is the base name of the config file, without extension.
	FileName = "barcodescan"

	// EnvPrefix prefixes environment overrides, as in
	// BARCODESCAN_SCAN_WORKERS.
	EnvPrefix = "BARCODESCAN"
)

// Loader layers defaults, a config file, the environment and bound flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with its own viper instance.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("decode.formats", []string{})
	v.SetDefault("decode.try_harder", d.Decode.TryHarder)
	v.SetDefault("decode.pure_barcode", d.Decode.PureBarcode)
	v.SetDefault("decode.also_inverted", d.Decode.AlsoInverted)
	v.SetDefault("decode.charset", d.Decode.CharacterSet)
	v.SetDefault("decode.symbol_table", d.Decode.SymbolTable)
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.timeout", d.Scan.Timeout)
	v.SetDefault("scan.binarizer", d.Scan.Binarizer)
	v.SetDefault("scan.crop", d.Scan.Crop)
	v.SetDefault("scan.dump_results", d.Scan.DumpResults)
	v.SetDefault("scan.dump_black_point", d.Scan.DumpBlackPoint)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("metrics.addr", d.Metrics.Addr)
}

// BindPFlag makes flag override key when it is set on the command line.
func (l *Loader) BindPFlag(key string, flag *pflag.Flag) error {
	return errors.Wrapf(l.v.BindPFlag(key, flag), "bind flag for %s", key)
}

// Load reads the config file and returns the validated configuration. With
// an empty file, barcodescan.yaml is searched for in the working directory
// and $HOME/.config/barcodescan; not finding one is not an error. A file
// named explicitly must exist.
func (l *Loader) Load(file string) (*Config, error) {
	if file != "" {
		l.v.SetConfigFile(file)
	} else {
		l.v.SetConfigName(FileName)
		l.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			l.v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the file Load read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}
