// Package telemetry обеспечивает наблюдаемость сервиса.
//
// Включает настройку structured logging через slog:
// единый формат для всех бинарников (LOG_FORMAT, LOG_LEVEL)
// и хелперы для обогащения логгера атрибутами job_id / stage.
//
// Prometheus-метрики живут рядом с тем состоянием, которое они
// считают (см. internal/state), и экспортируются на /metrics.
package telemetry
