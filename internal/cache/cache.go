// Package cache stores downloaded search-index payloads on disk,
// zstd-compressed, keyed by crate name and version.
package cache

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

func payloadPath(dir, name, version string) string {
	return filepath.Join(dir, name+"_"+version+".js.zst")
}

// Save compresses and writes a payload. The cache directory is created on
// first use.
func Save(dir string, data []byte, name, version string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating payload cache dir: %w", err)
	}

	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("compressing payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}

	if err := os.WriteFile(payloadPath(dir, name, version), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing payload cache file: %w", err)
	}
	return nil
}

// Load reads and decompresses a cached payload.
func Load(dir, name, version string) ([]byte, error) {
	f, err := os.Open(payloadPath(dir, name, version))
	if err != nil {
		return nil, fmt.Errorf("opening payload cache file: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing payload: %w", err)
	}
	return data, nil
}

// Has checks whether a payload for name@version is cached.
func Has(dir, name, version string) bool {
	_, err := os.Stat(payloadPath(dir, name, version))
	return err == nil
}

// Clear removes all cached payloads.
func Clear(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading payload cache dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".zst" {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("removing cached payload: %w", err)
		}
	}
	return nil
}
