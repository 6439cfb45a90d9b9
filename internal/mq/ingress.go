package mq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/stemd/internal/domain"
	"github.com/shaiso/stemd/internal/jobs"
)

// NewSubmitHandler возвращает обработчик очереди jobs.submit:
// заявка из очереди проходит тот же диспетчер, что и заявка по HTTP,
// с тем же ограничением числа одновременных приёмов.
//
// Классификация отказов: непарсящийся или пустой payload — ErrRejected
// (в DLQ, повтор бессмыслен); занятый или закрывающийся диспетчер —
// обычная ошибка (возврат в очередь).
func NewSubmitHandler(manager *jobs.Manager, logger *slog.Logger) Handler {
	return func(ctx context.Context, msg *Delivery) error {
		payload, err := ParsePayload[JobSubmitPayload](&msg.Message)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRejected, err)
		}

		if payload.SourceAddress == "" || payload.DestinationAddress == "" {
			return fmt.Errorf("%w: empty source or destination address", ErrRejected)
		}

		req := domain.Request{
			SourceAddress:      payload.SourceAddress,
			DestinationAddress: payload.DestinationAddress,
		}

		if _, err := manager.Run(ctx, req); err != nil {
			return fmt.Errorf("dispatch submit message: %w", err)
		}

		logger.Info("accepted job from queue",
			"message_id", msg.Message.ID,
			"source", payload.SourceAddress,
		)

		return nil
	}
}
