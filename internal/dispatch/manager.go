package dispatch

import (
	"context"
	"sync"
)

// defaultWorkers — число worker-слотов по умолчанию.
const defaultWorkers = 1

// JobFunc — функция обработки одного запроса.
type JobFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Factory создаёт JobFunc. Вызывается лениво, при первом Run:
// конструирование Manager не должно иметь побочных эффектов.
type Factory[Req, Resp any] func() JobFunc[Req, Resp]

// Manager — обобщённый диспетчер запросов с ограниченным пулом слотов.
//
// Run захватывает один из N слотов, вызывает JobFunc и возвращает её
// результат. Слоты ограничивают только конкурентность приёма: JobFunc
// вправе тут же открепить реальную работу в отдельную горутину, и тогда
// общее число одновременно выполняющихся pipeline не ограничено пулом.
// Это осознанное свойство схемы, а не упущение — см. internal/jobs.
type Manager[Req, Resp any] struct {
	factory Factory[Req, Resp]
	slots   chan struct{}

	// job создаётся из factory один раз, при первом Run.
	once sync.Once
	job  JobFunc[Req, Resp]

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New создаёт Manager с factory и числом worker-слотов.
// При workers <= 0 используется defaultWorkers.
func New[Req, Resp any](factory Factory[Req, Resp], workers int) *Manager[Req, Resp] {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Manager[Req, Resp]{
		factory: factory,
		slots:   make(chan struct{}, workers),
	}
}

// Run принимает запрос: захватывает слот, вызывает JobFunc и возвращает
// её результат.
//
// Возвращает ErrNotInitialized, если Manager не был сконструирован,
// и ErrClosed после Close. Ошибка Run — единственная точка, где сбой
// виден вызывающей стороне синхронно; всё, что происходит после
// возврата Ack, наблюдается только через state tracker.
func (m *Manager[Req, Resp]) Run(ctx context.Context, req Req) (Resp, error) {
	var zero Resp

	if m == nil || m.factory == nil {
		return zero, ErrNotInitialized
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return zero, ErrClosed
	}
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	// Захватываем слот (или выходим по отмене контекста).
	select {
	case m.slots <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	defer func() { <-m.slots }()

	m.once.Do(func() { m.job = m.factory() })

	return m.job(ctx, req)
}

// Close прекращает приём новых запросов и дожидается завершения
// уже принятых вызовов Run.
//
// Первый вызов возвращает nil, повторные — ErrClosed.
// Открепившиеся фоновые задачи Close не ждёт — они доживают сами.
func (m *Manager[Req, Resp]) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()
	return nil
}

// Workers возвращает размер пула слотов.
func (m *Manager[Req, Resp]) Workers() int {
	return cap(m.slots)
}
