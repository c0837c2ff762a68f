package storage

import "strings"

// NewStorage builds the cover-cache backend from configuration.
// Parameters:
//   - cfg: storage settings; a blank Type is inferred from the endpoint.
// Returns:
//   - ObjectStorage: initialized cover cache.
//   - error: non-nil if the client cannot be created.
func NewStorage(cfg *S3Config) (ObjectStorage, error) {
	if cfg.Type == "" {
		cfg.Type = detectStorageType(cfg.Endpoint)
	}

	return NewS3Storage(cfg)
}

// detectStorageType infers the storage flavor from the endpoint host, so
// deployments pointing the cache at R2 or AWS need no explicit type.
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
