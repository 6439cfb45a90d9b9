// Package api — HTTP-слой сервиса.
//
// Два маршрута: приём задачи (POST /api/v1/jobs, ответ 202 с пустым
// Ack) и снимок состояния (GET /api/v1/state). Ответы — конверты
// DataResponse/ErrorResponse; ошибки диспетчера при остановке
// транслируются в 503.
package api
