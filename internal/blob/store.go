package blob

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
)

// Store — шлюз к object storage.
//
// Реализации: GCSStore (production), MemStore (тесты и локальная
// разработка). Вызовы могут блокироваться на сети — pipeline
// выполняет их только в фоновых задачах, не на пути приёма.
type Store interface {
	// Download скачивает объект по адресу в локальный файл.
	Download(ctx context.Context, addr Address, localPath string) error

	// Upload загружает локальный файл по адресу.
	Upload(ctx context.Context, localPath string, addr Address) error
}

// UploadTree рекурсивно загружает все обычные файлы под dir.
// Относительный путь файла становится суффиксом key: файл dir/a/b.flac
// уходит на prefix.Join("a/b.flac"). Порядок загрузки детерминирован.
func UploadTree(ctx context.Context, s Store, dir string, prefix Address) error {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Strings(files)

	for _, path := range files {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("rel %s: %w", path, err)
		}

		addr := prefix.Join(filepath.ToSlash(rel))
		if err := s.Upload(ctx, path, addr); err != nil {
			return fmt.Errorf("upload %s to %s: %w", rel, addr, err)
		}
	}

	return nil
}
