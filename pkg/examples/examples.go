// Package examples loads the read-only list of common things people are
// thankful for, grouped by category.
package examples

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/samber/lo"
)

//go:embed common_thanks.json
var builtin []byte

// NotFoundError is returned when the examples file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("examples file %s not found", e.Path)
}

// DecodeError is returned when the examples file is not a category to
// examples mapping.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode examples %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Catalog maps category names to example strings. It is never written after loading.
type Catalog struct {
	data map[string][]string
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return decode("builtin", builtin)
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("read examples %s: %w", path, err)
	}
	return decode(path, raw)
}

func decode(source string, raw []byte) (*Catalog, error) {
	var data map[string][]string
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &DecodeError{Path: source, Err: err}
	}
	if data == nil {
		return nil, &DecodeError{Path: source, Err: errors.New("expected an object of category to examples")}
	}
	return &Catalog{data: data}, nil
}

// Categories returns every category name, sorted.
func (c *Catalog) Categories() []string {
	keys := lo.Keys(c.data)
	slices.Sort(keys)
	return keys
}

// Examples returns a copy of the examples of category. ok is false for an unknown category.
func (c *Catalog) Examples(category string) (examples []string, ok bool) {
	items, ok := c.data[category]
	if !ok {
		return nil, false
	}
	return slices.Clone(items), true
}
