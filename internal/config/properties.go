// Package config loads marketroast's configuration: the properties file that
// describes the report to retrieve, and the ambient process settings read
// from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	"marketroast/internal/domain"
)

// Properties is the flat key/value content of a properties file.
type Properties map[string]string

// LoadProperties parses path as a flat key/value property file.
//
// Accepted syntax is `key=value` or `key: value`, one per line, with `#`
// comments, blank lines and optional single or double quotes around values.
// Values are not interpreted with Java properties escape rules: backslashes
// are kept literally and there are no line continuations. Unquoted and
// double-quoted values expand `$VAR`, so a value containing `$` must be
// single-quoted.
// IO and parse failures are returned as *domain.ConfigError.
func LoadProperties(path string) (Properties, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &domain.ConfigError{
			Code: domain.CodeConfigLoad,
			Path: path,
			Err:  errors.New("no configuration file given"),
		}
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, &domain.ConfigError{Code: domain.CodeConfigLoad, Path: path, Err: err}
	}

	if value, ok := values[""]; ok {
		return nil, &domain.ConfigError{
			Code: domain.CodeConfigLoad,
			Path: path,
			Err:  fmt.Errorf("line without key: %q", value),
		}
	}

	return Properties(values), nil
}

// String returns the trimmed value stored under key, or "" when absent.
func (p Properties) String(key string) string {
	return strings.TrimSpace(p[key])
}

// Has reports whether key is present with a non-blank value.
func (p Properties) Has(key string) bool {
	return p.String(key) != ""
}
