package api

import (
	"log/slog"

	"github.com/shaiso/stemd/internal/jobs"
	"github.com/shaiso/stemd/internal/state"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	manager *jobs.Manager
	tracker *state.Tracker
	logger  *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Manager *jobs.Manager
	Tracker *state.Tracker
	Logger  *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		manager: cfg.Manager,
		tracker: cfg.Tracker,
		logger:  cfg.Logger,
	}
}
