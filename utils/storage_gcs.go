package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage keeps blobs in a Google Cloud Storage bucket. Object names are
// the storage paths prefixed with an optional GCS_PREFIX.
type GCSStorage struct {
	bucket string
	prefix string
}

func NewGCSStorage() (*GCSStorage, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return nil, errors.New("GCS_BUCKET is required")
	}
	return &GCSStorage{
		bucket: bucket,
		prefix: strings.Trim(os.Getenv("GCS_PREFIX"), "/"),
	}, nil
}

// newGCSClient prefers ADC (service account / GOOGLE_APPLICATION_CREDENTIALS).
// For local use, explicit JSON can be passed via GCS_CREDENTIALS_JSON.
func newGCSClient(ctx context.Context) (*storage.Client, error) {
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

func (s *GCSStorage) objectName(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

func (s *GCSStorage) WriteBytes(ctx context.Context, path string, data []byte) error {
	client, err := newGCSClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	wc := client.Bucket(s.bucket).Object(s.objectName(path)).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		return err
	}
	return wc.Close()
}

func (s *GCSStorage) WriteText(ctx context.Context, path string, data string) error {
	return s.WriteBytes(ctx, path, []byte(data))
}

func (s *GCSStorage) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	client, err := newGCSClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	rc, err := client.Bucket(s.bucket).Object(s.objectName(path)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: blob %s", ErrorRecordNotFound, path)
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (s *GCSStorage) Exists(ctx context.Context, path string) (bool, error) {
	client, err := newGCSClient(ctx)
	if err != nil {
		return false, err
	}
	defer client.Close()

	_, err = client.Bucket(s.bucket).Object(s.objectName(path)).Attrs(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	return false, err
}
