// Package blob — шлюз к object storage.
//
// Адреса объектов имеют вид scheme://bucket/key и валидируются
// до любого сетевого вызова. Store — минимальный интерфейс
// get/put; UploadTree поверх него загружает каталог целиком,
// сохраняя относительные пути как суффиксы key.
package blob
