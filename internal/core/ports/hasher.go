package ports

// Canonical is implemented by values that can be fingerprinted.
// CanonicalBytes must return identical bytes for structurally equal values.
type Canonical interface {
	CanonicalBytes() ([]byte, error)
}

// Hasher computes fast, non-cryptographic fingerprints.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// HashBytes fingerprints a byte slice.
	HashBytes(data []byte) uint64
	// HashFile fingerprints the content of the file at path.
	HashFile(path string) (uint64, error)
	// HashConfig fingerprints the canonical serialization of cfg.
	HashConfig(cfg Canonical) (uint64, error)
}
