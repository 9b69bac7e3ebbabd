// Package config loads the registry service configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"
)

// Output formats of the registry dump.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds the service settings. Unset fields keep their defaults.
type Config struct {
	// ListenAddr is the gRPC listen address.
	ListenAddr string `yaml:"listen_addr"`
	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`
	// LogFile additionally writes JSON logs to a rotated file.
	LogFile string `yaml:"log_file"`
	// LogMaxSize is the file size in megabytes that triggers rotation.
	LogMaxSize int `yaml:"log_max_size"`
	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups int `yaml:"log_max_backups"`
	// LogMaxAge is the number of days rotated files are kept.
	LogMaxAge int `yaml:"log_max_age"`
	// RegistryFile optionally replaces the built-in registry with a
	// JSON or YAML registry document.
	RegistryFile string `yaml:"registry_file"`
	// Format is the default dump format, json or yaml.
	Format string `yaml:"format"`
	// ExtraPrimitives are accepted as leaf types during validation in
	// addition to the built-in primitives.
	ExtraPrimitives []string `yaml:"extra_primitives"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		ListenAddr:    "127.0.0.1:9944",
		LogLevel:      "info",
		LogMaxSize:    8,
		LogMaxBackups: 4,
		LogMaxAge:     30,
		Format:        FormatJSON,
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		errs = append(errs, fmt.Errorf("listen_addr: %w", err))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.Format != FormatJSON && c.Format != FormatYAML {
		errs = append(errs, fmt.Errorf("format: must be %s or %s, got %q", FormatJSON, FormatYAML, c.Format))
	}
	if c.LogFile != "" && (c.LogMaxSize <= 0 || c.LogMaxBackups < 0 || c.LogMaxAge < 0) {
		errs = append(errs, errors.New("log rotation: log_max_size must be positive, backups and age non-negative"))
	}
	for i, p := range c.ExtraPrimitives {
		if p == "" {
			errs = append(errs, fmt.Errorf("extra_primitives[%d]: empty name", i))
		}
	}
	return errors.Join(errs...)
}

// Logger builds a JSON zap logger at the configured level writing to
// stderr and, if LogFile is set, to a rotated log file.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log_level: %w", err)
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level),
	}
	if c.LogFile != "" {
		rw := &lumberjack.Logger{
			Filename:   c.LogFile,
			MaxSize:    c.LogMaxSize, // megabytes
			MaxBackups: c.LogMaxBackups,
			MaxAge:     c.LogMaxAge, // days
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(rw), level))
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}
