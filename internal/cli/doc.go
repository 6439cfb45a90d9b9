// Package cli — команды консольного клиента stemd.
//
// Клиент ходит в HTTP API сервиса; типы ответов продублированы
// локально, чтобы бинарь клиента не тянул серверные пакеты.
package cli
