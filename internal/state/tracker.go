package state

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Tracker — потокобезопасный учёт жизненного цикла задач.
//
// Хранит счётчики started/finished и append-only журнал событий.
// Это единственная разделяемая мутабельная структура сервиса:
// pipeline пишут в неё конкурентно, API читает snapshot.
// Никакого скрытого глобального состояния — Tracker создаётся
// явно и передаётся по ссылке всем, кому нужен.
//
// Инвариант: finished <= started, оба счётчика монотонны.
type Tracker struct {
	mu       sync.Mutex
	logs     []string
	started  int
	finished int

	logger *slog.Logger
}

// Snapshot — консистентная копия состояния на момент вызова.
type Snapshot struct {
	Logs         []string `json:"logs"`
	StartedJobs  int      `json:"started_jobs"`
	FinishedJobs int      `json:"finished_jobs"`
}

// NewTracker создаёт Tracker.
func NewTracker(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{logger: logger}
}

// JobStarted фиксирует приём задачи. Вызывается ровно один раз
// на принятую задачу, до старта pipeline.
func (t *Tracker) JobStarted(jobID string) {
	jobsStarted.Inc()

	t.mu.Lock()
	t.started++
	t.appendLocked("job.started", "job_id", jobID)
	t.mu.Unlock()

	t.logger.Info("job started", "job_id", jobID)
}

// JobFinished фиксирует терминальное состояние задачи.
// Успех и сбой инкрементируют finished одинаково: журнал —
// единственная поверхность диагностики сбоев.
func (t *Tracker) JobFinished(jobID string, err error) {
	jobsFinished.Inc()

	t.mu.Lock()
	t.finished++
	if err != nil {
		t.appendLocked("job.failed", "job_id", jobID, "error", err)
	} else {
		t.appendLocked("job.succeeded", "job_id", jobID)
	}
	t.mu.Unlock()

	if err != nil {
		jobFailures.Inc()
		t.logger.Error("job failed", "job_id", jobID, "error", err)
		return
	}

	t.logger.Info("job succeeded", "job_id", jobID)
}

// Log добавляет структурированное событие в журнал и дублирует
// его в логгер. args — чередующиеся пары ключ/значение (как slog).
func (t *Tracker) Log(event string, args ...any) {
	t.mu.Lock()
	t.appendLocked(event, args...)
	t.mu.Unlock()

	t.logger.Info(event, args...)
}

// Snapshot возвращает копию состояния, безопасную при конкурентных
// мутациях: журнал копируется целиком.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	logs := make([]string, len(t.logs))
	copy(logs, t.logs)

	return Snapshot{
		Logs:         logs,
		StartedJobs:  t.started,
		FinishedJobs: t.finished,
	}
}

// appendLocked форматирует событие в строку журнала.
// Вызывается только под mu.
func (t *Tracker) appendLocked(event string, args ...any) {
	var b strings.Builder
	b.WriteString(event)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
	}
	t.logs = append(t.logs, b.String())
}
