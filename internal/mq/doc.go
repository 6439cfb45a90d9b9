// Package mq — интеграция с RabbitMQ.
//
// Топология:
//
//	stemd.jobs (direct)
//	├── jobs.submit [routing: submit]
//	│       Consumer: API-процесс (второй вход в диспетчер)
//	│       DLQ: dlq.jobs
//	└── jobs.completed [routing: completed]
//	        Producer: API-процесс, событие на каждую завершённую задачу
//
//	stemd.dlq (direct)
//	└── dlq.jobs [routing: jobs]
//	        Ручной разбор
//
// Connection переподключается сама; Publisher и Consumer работают
// поверх неё и переживают разрывы. Шина опциональна: без MQ_URL
// процесс работает только через HTTP.
package mq
