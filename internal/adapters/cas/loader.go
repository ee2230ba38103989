package cas

import "go.trai.ch/forge/internal/core/ports"

var _ ports.CacheLoader = (*Loader)(nil)

// Loader opens build caches for sessions.
type Loader struct {
	hasher ports.Hasher
	opts   []Option
}

// NewLoader creates a Loader whose caches fingerprint files with hasher.
func NewLoader(hasher ports.Hasher, opts ...Option) *Loader {
	return &Loader{hasher: hasher, opts: opts}
}

// Load opens the cache stored in dir. See the package-level Load for the error contract.
func (l *Loader) Load(dir string, trustMtime bool) (ports.BuildCache, error) {
	opts := append([]Option{WithTrustMtime(trustMtime)}, l.opts...)
	return Load(dir, l.hasher, opts...)
}
