package fs

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher fingerprints file contents and configurations with xxhash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashBytes returns the xxhash of data.
func (h *Hasher) HashBytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// HashFile computes the xxhash of a file's content.
func (h *Hasher) HashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}

	return digest.Sum64(), nil
}

// HashConfig hashes the canonical serialization of cfg.
func (h *Hasher) HashConfig(cfg ports.Canonical) (uint64, error) {
	data, err := cfg.CanonicalBytes()
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrConfigHashFailed.Error())
	}
	return xxhash.Sum64(data), nil
}
