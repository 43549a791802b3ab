package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/capatsch/rv32i/internal/loader"
	"github.com/capatsch/rv32i/internal/memory"
)

func TestLoadBytesWritesFromZero(t *testing.T) {
	mem := memory.New(16, nil)
	if err := loader.LoadBytes([]byte{1, 2, 3, 4}, mem); err != nil {
		t.Fatalf("LoadBytes: %v", err)
	}
	if got := mem.Get32(0); got != 0x04030201 {
		t.Errorf("mem[0:4] = %#x, want 0x04030201", got)
	}
}

func TestLoadBytesTooBig(t *testing.T) {
	mem := memory.New(16, nil)
	err := loader.LoadBytes(make([]byte, 17), mem)
	if !errors.Is(err, loader.ErrImageTooBig) {
		t.Errorf("err = %v, want ErrImageTooBig", err)
	}
}

func TestLoadFileReadsDiskImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, []byte{0xde, 0xad, 0xbe, 0xef}, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	mem := memory.New(16, nil)
	if err := loader.LoadFile(path, mem); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := mem.Get32(0); got != 0xefbeadde {
		t.Errorf("mem[0:4] = %#x, want 0xefbeadde", got)
	}
}

func TestLoadFileMissingFile(t *testing.T) {
	mem := memory.New(16, nil)
	if err := loader.LoadFile(filepath.Join(t.TempDir(), "missing.bin"), mem); err == nil {
		t.Error("expected an error loading a nonexistent file")
	}
}
