package blob

import "errors"

// Ошибки шлюза object storage.
var (
	// ErrBadAddress — адрес не соответствует форме scheme://bucket/key.
	// Проверяется до любого сетевого вызова.
	ErrBadAddress = errors.New("invalid blob address")

	// ErrNotFound — объект отсутствует в хранилище.
	ErrNotFound = errors.New("object not found")
)
