// Package watchlist maintains the persisted set of watched symbols and
// applies add/remove commands against an allow-list.
package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/seenimoa/marketsnap/pkg/utils"
)

// document is the on-disk format shared by the watchlist and allow-list.
type document struct {
	Symbols []string `json:"symbols"`
}

// File is a JSON symbol list stored at a path.
type File struct {
	path string
}

// NewFile returns a File at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string { return f.path }

// Read returns the normalized symbols in file order. A missing file reads
// as an empty list.
func (f *File) Read() ([]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return utils.NormalizeSymbols(doc.Symbols), nil
}

// Write stores symbols sorted.
func (f *File) Write(symbols []string) error {
	sorted := append([]string{}, symbols...)
	sort.Strings(sorted)

	data, err := json.MarshalIndent(document{Symbols: sorted}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode watchlist: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// Symbols returns the watchlist, or fallback when the file is absent,
// empty or unreadable. An unreadable file is logged and never stops a run.
func Symbols(f *File, fallback []string, log zerolog.Logger) []string {
	syms, err := f.Read()
	if err != nil {
		log.Warn().Err(err).Str("file", f.Path()).Msg("watchlist unreadable, using default symbols")
	}
	if len(syms) == 0 {
		return utils.NormalizeSymbols(fallback)
	}
	return syms
}
