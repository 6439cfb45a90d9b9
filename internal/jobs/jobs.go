package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/shaiso/stemd/internal/dispatch"
	"github.com/shaiso/stemd/internal/domain"
	"github.com/shaiso/stemd/internal/state"
	"github.com/shaiso/stemd/internal/telemetry"
)

// Manager — диспетчер задач разделения: ограниченный приём запросов
// с открепляемым выполнением.
type Manager = dispatch.Manager[domain.Request, domain.Ack]

// Processor выполняет обработку одной принятой задачи.
type Processor interface {
	Execute(ctx context.Context, jobID string, req domain.Request) error
}

// Notifier публикует событие завершения задачи во внешнюю шину.
type Notifier interface {
	PublishJobCompleted(ctx context.Context, jobID string, req domain.Request, jobErr error) error
}

// Config — конфигурация функции обработки задач.
type Config struct {
	// Processor — конвейер обработки.
	Processor Processor

	// Tracker — учёт состояния задач.
	Tracker *state.Tracker

	// Notifier — публикация событий завершения (опционально; nil — выключено).
	Notifier Notifier

	// Logger
	Logger *slog.Logger
}

// NewJobFunc возвращает функцию приёма задачи для диспетчера.
//
// Приём ограничен слотами диспетчера, выполнение — нет: функция
// присваивает задаче идентификатор, регистрирует старт и сразу
// возвращает Ack, а обработка продолжается в отдельной горутине
// до терминального состояния. Автор запроса о результате не узнаёт —
// итог виден в журнале состояния и в событии завершения.
func NewJobFunc(cfg Config) dispatch.JobFunc[domain.Request, domain.Ack] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(_ context.Context, req domain.Request) (domain.Ack, error) {
		jobID := uuid.NewString()

		cfg.Tracker.Log("job.accepted",
			"job_id", jobID,
			"source", req.SourceAddress,
			"destination", req.DestinationAddress,
		)

		// Старт фиксируется до открепления: счётчик started отражает
		// принятые задачи, а не успевшие начать работу горутины.
		cfg.Tracker.JobStarted(jobID)

		go runDetached(cfg, telemetry.WithJobID(logger, jobID), jobID, req)

		return domain.Ack{}, nil
	}
}

// runDetached доводит задачу до терминального состояния.
// Живёт дольше запроса-родителя, поэтому работает от собственного контекста.
func runDetached(cfg Config, logger *slog.Logger, jobID string, req domain.Request) {
	ctx := context.Background()

	err := executeSafely(ctx, cfg.Processor, logger, jobID, req)

	cfg.Tracker.JobFinished(jobID, err)

	if cfg.Notifier == nil {
		return
	}
	if perr := cfg.Notifier.PublishJobCompleted(ctx, jobID, req, err); perr != nil {
		logger.Error("failed to publish job completion", "error", perr)
	}
}

// executeSafely запускает обработку с перехватом panic: сбой одной
// задачи не должен ронять процесс.
func executeSafely(ctx context.Context, p Processor, logger *slog.Logger, jobID string, req domain.Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("job panicked",
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	return p.Execute(ctx, jobID, req)
}
