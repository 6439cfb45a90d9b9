// Package dispatch реализует обобщённый диспетчер запросов.
//
// Manager[Req, Resp] принимает типизированные запросы, ограничивает
// конкурентность приёма фиксированным пулом слотов и поддерживает
// упорядоченное завершение (Close). JobFunc создаётся отложенно
// через Factory — побочные эффекты происходят при первом Run,
// а не при конструировании.
//
// Пул ограничивает только фазу приёма. Если JobFunc открепляет
// реальную работу в фоновую горутину (как делает internal/jobs),
// суммарное число выполняющихся задач пулом не ограничено.
package dispatch
