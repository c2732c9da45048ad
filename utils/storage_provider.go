package utils

import (
	"fmt"
	"os"
	"strings"
)

const (
	StorageProviderLocal = "local"
	StorageProviderGCS   = "gcs"
)

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderLocal
	}
	return provider
}

// NewStorageFromEnv builds the blob store selected by STORAGE_PROVIDER.
func NewStorageFromEnv() (Storage, error) {
	switch provider := GetStorageProvider(); provider {
	case StorageProviderLocal:
		return NewLocalStorage(os.Getenv("UPLOADS_DIR"))
	case StorageProviderGCS:
		return NewGCSStorage()
	default:
		return nil, fmt.Errorf("storage provider %q not supported", provider)
	}
}
