package state

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-счётчики задач. Дублируют счётчики Tracker'а для
// внешнего мониторинга; источником истины для API остаётся Snapshot.
var (
	jobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stemd_jobs_started_total",
		Help: "Total jobs accepted for processing",
	})

	jobsFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stemd_jobs_finished_total",
		Help: "Total jobs finished, success or failure",
	})

	jobFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stemd_job_failures_total",
		Help: "Total jobs finished with an error",
	})
)
