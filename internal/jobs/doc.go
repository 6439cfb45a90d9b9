// Package jobs связывает диспетчер с конвейером обработки.
//
// Здесь фиксируется асимметрия системы: приём задач ограничен
// слотами диспетчера, выполнение — открепляется в горутину и слот
// не удерживает. Автор запроса получает Ack сразу после регистрации
// старта; терминальное состояние задачи видно только через журнал
// состояния и событие завершения на шине.
package jobs
