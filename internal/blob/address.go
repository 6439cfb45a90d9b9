package blob

import (
	"fmt"
	"strings"
)

// Address — разобранный адрес объекта вида scheme://bucket/key.
type Address struct {
	Scheme string
	Bucket string
	Key    string
}

// ParseAddress разбирает строку scheme://bucket/key.
//
// Отклоняет адреса без схемы, без bucket или без key — до любого
// сетевого вызова. Ошибки оборачивают ErrBadAddress.
func ParseAddress(raw string) (Address, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return Address{}, fmt.Errorf("%w: missing scheme in %q", ErrBadAddress, raw)
	}

	bucket, key, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Address{}, fmt.Errorf("%w: missing bucket in %q", ErrBadAddress, raw)
	}

	key = strings.Trim(key, "/")
	if key == "" {
		return Address{}, fmt.Errorf("%w: missing key in %q", ErrBadAddress, raw)
	}

	return Address{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// String возвращает каноническую форму адреса.
func (a Address) String() string {
	return fmt.Sprintf("%s://%s/%s", a.Scheme, a.Bucket, a.Key)
}

// Join возвращает адрес с suffix, дописанным к key через "/".
// Используется при загрузке дерева: suffix — относительный путь файла.
func (a Address) Join(suffix string) Address {
	suffix = strings.Trim(suffix, "/")
	if suffix == "" {
		return a
	}

	return Address{
		Scheme: a.Scheme,
		Bucket: a.Bucket,
		Key:    a.Key + "/" + suffix,
	}
}
