package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
)

// GCSStore — реализация Store поверх Google Cloud Storage.
// Обслуживает адреса со схемой gs.
type GCSStore struct {
	client *storage.Client
}

// NewGCSStore создаёт GCSStore. Аутентификация — через Application
// Default Credentials окружения.
func NewGCSStore(ctx context.Context) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	return &GCSStore{client: client}, nil
}

// Download скачивает объект в локальный файл.
func (s *GCSStore) Download(ctx context.Context, addr Address, localPath string) error {
	r, err := s.client.Bucket(addr.Bucket).Object(addr.Key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, addr)
		}
		return fmt.Errorf("open %s: %w", addr, err)
	}
	defer r.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", localPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("read %s: %w", addr, err)
	}

	return nil
}

// Upload загружает локальный файл в объект.
func (s *GCSStore) Upload(ctx context.Context, localPath string, addr Address) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	w := s.client.Bucket(addr.Bucket).Object(addr.Key).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", addr, err)
	}

	// Запись становится видимой только после успешного Close.
	if err := w.Close(); err != nil {
		return fmt.Errorf("commit %s: %w", addr, err)
	}

	return nil
}

// Close закрывает клиент GCS.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
