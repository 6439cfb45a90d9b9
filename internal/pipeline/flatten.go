package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// flatten поднимает все обычные файлы из-под dir в сам dir и удаляет
// опустевшие подкаталоги.
//
// Инструменты разделения раскладывают stems по model/track-подкаталогам;
// глубина вложенности заранее неизвестна. flatten — чистая функция над
// найденным множеством файлов: порядок обработки детерминирован
// (сортировка путей), повторное применение к плоскому каталогу — no-op.
func flatten(dir string) error {
	var files, dirs []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
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
		target := filepath.Join(dir, filepath.Base(path))
		if path == target {
			continue
		}
		if err := os.Rename(path, target); err != nil {
			return fmt.Errorf("move %s: %w", path, err)
		}
	}

	// Глубочайшие каталоги первыми — родитель пустеет после детей.
	sort.Slice(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) >
			strings.Count(dirs[j], string(filepath.Separator))
	})

	for _, d := range dirs {
		if err := os.Remove(d); err != nil {
			return fmt.Errorf("remove dir %s: %w", d, err)
		}
	}

	return nil
}
