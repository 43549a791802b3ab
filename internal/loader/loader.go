// Package loader implements the program-image loader: raw bytes written to
// memory starting at address 0, with no ELF/HEX parsing layered on top (see
// spec.md §9 design note 5).
package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrImageTooBig is returned when a program image does not fit in the
// configured memory size.
var ErrImageTooBig = errors.New("Program too big.")

// Memory is the subset of internal/memory's API the loader needs.
type Memory interface {
	LoadImage(img []byte) bool
	Size() uint32
}

// LoadFile reads path and writes it into mem starting at address 0.
func LoadFile(path string, mem Memory) error {
	img, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return LoadBytes(img, mem)
}

// LoadBytes writes img into mem starting at address 0, reporting
// ErrImageTooBig if img does not fit.
func LoadBytes(img []byte, mem Memory) error {
	if !mem.LoadImage(img) {
		return ErrImageTooBig
	}
	return nil
}

// ReadAll is a small convenience for callers that already hold an open
// reader rather than a path.
func ReadAll(r io.Reader, mem Memory) error {
	img, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}
	return LoadBytes(img, mem)
}
