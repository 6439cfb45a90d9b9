// Package domain содержит типы предметной области stemd:
// запрос на обработку, подтверждение приёма и документ метаданных.
//
// Пакет не имеет зависимостей от остальных internal-пакетов —
// его импортируют все слои (api, dispatch, jobs, pipeline, mq).
package domain
