package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// JSONC is a koanf provider for JSON files that may contain comments and
// trailing commas. It hands the JSON parser standard JSON.
type JSONC struct {
	path string
}

// JSONCProvider returns a koanf provider for the JSONC file at path.
// Pair it with the JSON parser.
func JSONCProvider(path string) *JSONC {
	return &JSONC{path: path}
}

// ReadBytes reads the file and strips comments and trailing commas.
func (p *JSONC) ReadBytes() ([]byte, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p.path, err)
	}
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, &ValidationError{FilePath: p.path, Message: err.Error()}
	}
	return std, nil
}

// Read is not supported; the provider only returns raw bytes.
func (p *JSONC) Read() (map[string]any, error) {
	return nil, errors.New("jsonc provider does not support this method")
}
