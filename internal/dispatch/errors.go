package dispatch

import "errors"

// Ошибки диспетчера.
var (
	// ErrNotInitialized — Run вызван до того, как Manager был создан.
	ErrNotInitialized = errors.New("manager not initialized")

	// ErrClosed — Manager закрыт и новые запросы не принимает.
	ErrClosed = errors.New("manager closed")
)
