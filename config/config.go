package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/byte4ever/file_integrity/digester"
	"github.com/byte4ever/file_integrity/resolver"
)

// DefaultStatusFormat renders one per-file status line.
const DefaultStatusFormat = "Status for {path}: {status}"

// Config holds the checker settings.
type Config struct {
	// RecordName is the base name of the record file.
	RecordName string `yaml:"record_name"`

	// Algorithm selects the digest function ("sha256" or
	// "blake3").
	Algorithm string `yaml:"algorithm"`

	// StatusFormat is the per-file status line template. It
	// accepts {path} and {status} placeholders.
	StatusFormat string `yaml:"status_format"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		RecordName:   resolver.DefaultRecordName,
		Algorithm:    string(digester.SHA256),
		StatusFormat: DefaultStatusFormat,
	}
}

// Load reads the YAML file at path over the defaults. An empty
// path returns Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	const errCtx = "loading config"

	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	fi, err := os.Open(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	defer fi.Close() //nolint:errcheck // read-only

	decoder := yaml.NewDecoder(fi, yaml.DisallowUnknownField())

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf(
			"%s: decoding %s: %w", errCtx, path, err,
		)
	}

	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", errCtx, err)
	}

	return cfg, nil
}

func (cf *Config) fillDefaults() {
	def := Default()

	if cf.RecordName == "" {
		cf.RecordName = def.RecordName
	}

	if cf.Algorithm == "" {
		cf.Algorithm = def.Algorithm
	}

	if cf.StatusFormat == "" {
		cf.StatusFormat = def.StatusFormat
	}
}

// Validate reports settings that cannot be used.
func (cf Config) Validate() error {
	const errCtx = "validating config"

	if _, err := digester.ParseAlgorithm(cf.Algorithm); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	name := cf.RecordName
	if name == "." || name == ".." ||
		strings.ContainsRune(name, filepath.Separator) ||
		strings.ContainsRune(name, '/') {
		return fmt.Errorf(
			"%s: record_name %q must be a plain file name",
			errCtx, name,
		)
	}

	return nil
}

// DigestAlgorithm returns the parsed Algorithm.
func (cf Config) DigestAlgorithm() digester.Algorithm {
	alg, err := digester.ParseAlgorithm(cf.Algorithm)
	if err != nil {
		return digester.SHA256
	}

	return alg
}
