// Package config loads the analyzer's key/value configuration document
// (spec §6 input 5): strict_mode, verbose, check_documentation, and
// max_errors_per_file.
package config

import (
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the analyzer's validated run options.
type Config struct {
	StrictMode         bool
	Verbose            bool
	CheckDocumentation bool
	MaxErrorsPerFile   int
}

const (
	keyStrictMode         = "strict_mode"
	keyVerbose            = "verbose"
	keyCheckDocumentation = "check_documentation"
	keyMaxErrorsPerFile   = "max_errors_per_file"
)

// requiredKeys lists every key the document must define; a missing key is
// a validation error rather than a silently-applied default (spec §6).
var requiredKeys = []string{keyStrictMode, keyVerbose, keyCheckDocumentation, keyMaxErrorsPerFile}

// Load reads path as a key=value document and validates it into a Config.
// Missing required keys and wrong-typed values are both reported as
// validation errors; Load returns as many errors as it finds rather than
// stopping at the first one, so a caller can report the whole document's
// problems at once.
func Load(path string) (*Config, []error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, []error{fmt.Errorf("read config %s: %w", path, err)}
	}
	return parse(values)
}

// Parse validates an already-loaded key/value map, for callers that
// source configuration from somewhere other than a file (tests, an
// embedded default document).
func Parse(values map[string]string) (*Config, []error) {
	return parse(values)
}

func parse(values map[string]string) (*Config, []error) {
	var errs []error
	for _, key := range requiredKeys {
		if _, ok := values[key]; !ok {
			errs = append(errs, fmt.Errorf("missing required key: %s", key))
		}
	}

	cfg := &Config{}
	cfg.StrictMode, errs = parseBool(values, keyStrictMode, errs)
	cfg.Verbose, errs = parseBool(values, keyVerbose, errs)
	cfg.CheckDocumentation, errs = parseBool(values, keyCheckDocumentation, errs)
	cfg.MaxErrorsPerFile, errs = parsePositiveInt(values, keyMaxErrorsPerFile, errs)

	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

func parseBool(values map[string]string, key string, errs []error) (bool, []error) {
	raw, ok := values[key]
	if !ok {
		return false, errs
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, append(errs, fmt.Errorf("%s: expected a boolean, got %q", key, raw))
	}
	return v, errs
}

func parsePositiveInt(values map[string]string, key string, errs []error) (int, []error) {
	raw, ok := values[key]
	if !ok {
		return 0, errs
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, append(errs, fmt.Errorf("%s: expected an integer, got %q", key, raw))
	}
	if v <= 0 {
		return 0, append(errs, fmt.Errorf("%s: must be greater than 0, got %d", key, v))
	}
	return v, errs
}
