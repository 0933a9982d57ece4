package workdir

import (
	"fmt"
	"io"
	"os"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// HashBytes returns the 64-bit content hash of data as 16 hex digits.
func HashBytes(data []byte) (string, error) {
	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := h.Write(data); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// HashDLL returns the content hash of the file at path. The hash keys the
// work directory, so the same DLL content always maps to the same directory.
func HashDLL(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open DLL: %w", err)
	}
	defer f.Close()

	h, err := highwayhash.New64(hashKey)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash DLL: %w", err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
