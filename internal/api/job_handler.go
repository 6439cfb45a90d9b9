package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shaiso/stemd/internal/dispatch"
)

// SubmitJob принимает задачу на обработку.
// POST /api/v1/jobs
//
// Ответ 202 означает только приём: задача продолжает выполняться
// после оборота запроса, её итог виден через GET /api/v1/state.
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var req SubmitJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.SourceAddress == "" {
		BadRequest(w, "source_address is required")
		return
	}
	if req.DestinationAddress == "" {
		BadRequest(w, "destination_address is required")
		return
	}

	ack, err := h.manager.Run(r.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, dispatch.ErrClosed) || errors.Is(err, dispatch.ErrNotInitialized) {
			Unavailable(w, "job dispatcher is not accepting requests")
			return
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// Клиент ушёл, не дождавшись слота.
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Accepted(w, ack)
}
