package api

import (
	"net/http"
)

// GetState возвращает снимок состояния сервиса: журнал событий
// и счётчики начатых/завершённых задач.
// GET /api/v1/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	Success(w, StateFromSnapshot(h.tracker.Snapshot()))
}
