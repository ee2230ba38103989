package domain

// CacheSchemaVersion is the version written into the cache sidecar.
// Bump it whenever the shape of CacheRecord changes.
const CacheSchemaVersion = 1

// CacheRecord describes the last successful build of one input path.
type CacheRecord struct {
	InputHash   uint64 `json:"input_hash"`
	ConfigHash  uint64 `json:"config_hash"`
	OutputPath  string `json:"output_path"`
	SourceMtime uint64 `json:"source_mtime"`
	ProcessedAt uint64 `json:"processed_at"`
}

// CacheStats summarizes the records held by a build cache.
type CacheStats struct {
	// Total is the number of records.
	Total int
	// Valid counts records whose input and output both still exist.
	Valid int
	// Stale counts the remaining records.
	Stale int
}
