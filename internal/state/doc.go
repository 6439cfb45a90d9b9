// Package state ведёт учёт состояния задач: счётчики started/finished
// и append-only журнал структурированных событий всех стадий pipeline.
//
// Вызывающие стороны опрашивают агрегатное состояние через Snapshot;
// адресуемых по ID записей о задачах нет — журнал и счётчики
// и есть вся наблюдаемость.
package state
