package blob

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// MemStore — хранилище в памяти для тестов и локальной разработки.
// Объекты живут в map под мьютексом; схема адреса не проверяется.
type MemStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemStore создаёт пустой MemStore.
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

// Put кладёт объект напрямую (подготовка фикстур в тестах).
func (s *MemStore) Put(addr Address, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[addr.Bucket+"/"+addr.Key] = data
}

// Get возвращает объект и признак его наличия.
func (s *MemStore) Get(addr Address) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[addr.Bucket+"/"+addr.Key]
	return data, ok
}

// Len возвращает число объектов в хранилище.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Download копирует объект из map в локальный файл.
func (s *MemStore) Download(_ context.Context, addr Address, localPath string) error {
	data, ok := s.Get(addr)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, addr)
	}

	return os.WriteFile(localPath, data, 0o644)
}

// Upload копирует локальный файл в map.
func (s *MemStore) Upload(_ context.Context, localPath string, addr Address) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", localPath, err)
	}

	s.Put(addr, data)
	return nil
}
