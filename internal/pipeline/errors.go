package pipeline

import "errors"

// Ошибки стадий pipeline. Один вид на стадию: первая же ошибка
// прерывает оставшиеся стадии, частичной загрузки результатов не бывает.
var (
	// ErrDownload — не удалось получить исходный файл
	// (в т.ч. некорректный адрес: оборачивает blob.ErrBadAddress).
	ErrDownload = errors.New("download failed")

	// ErrDecode — транскодирование в эталонную волну завершилось неудачей.
	ErrDecode = errors.New("decode failed")

	// ErrSeparation — инструмент разделения вернул ненулевой код.
	ErrSeparation = errors.New("separation failed")

	// ErrAlign — выравнивание stem под эталонную длину не удалось.
	ErrAlign = errors.New("align failed")

	// ErrEncode — перекодирование stem в целевой формат не удалось.
	ErrEncode = errors.New("encode failed")

	// ErrUpload — загрузка результатов в object storage не удалась.
	ErrUpload = errors.New("upload failed")
)
