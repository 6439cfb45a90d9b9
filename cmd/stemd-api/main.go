package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/stemd/internal/api"
	"github.com/shaiso/stemd/internal/blob"
	"github.com/shaiso/stemd/internal/dispatch"
	"github.com/shaiso/stemd/internal/domain"
	"github.com/shaiso/stemd/internal/jobs"
	"github.com/shaiso/stemd/internal/mq"
	"github.com/shaiso/stemd/internal/pipeline"
	"github.com/shaiso/stemd/internal/state"
	"github.com/shaiso/stemd/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stemd_api_http_requests_total",
		Help: "Total HTTP requests handled by stemd_api",
	})
)

func main() {
	// .env — только для локальной разработки, отсутствие файла не ошибка.
	godotenv.Load()

	logger := telemetry.SetupLogger()
	logger.Info("starting stemd-api", "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Object storage
	store, err := blob.NewGCSStore(context.Background())
	if err != nil {
		logger.Error("failed to create storage client", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tracker := state.NewTracker(logger)

	executor := pipeline.New(pipeline.Config{
		Store:         store,
		Tracker:       tracker,
		FFmpegPath:    os.Getenv("FFMPEG_PATH"),
		SeparatorPath: os.Getenv("SEPARATOR_PATH"),
		Logger:        logger,
	})

	// RabbitMQ опциональна: без MQ_URL сервис работает только по HTTP.
	var (
		conn      *mq.Connection
		publisher *mq.Publisher
	)
	if url := os.Getenv("MQ_URL"); url != "" {
		conn, err = mq.NewConnection(url, logger)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", "error", err)
			os.Exit(1)
		}
		defer conn.Close()

		if err := mq.SetupTopology(conn); err != nil {
			logger.Error("failed to setup MQ topology", "error", err)
			os.Exit(1)
		}

		publisher = mq.NewPublisher(conn, logger)
	}

	workers := 1
	if v := os.Getenv("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid WORKERS value, using default", "value", v)
		} else {
			workers = n
		}
	}

	jobCfg := jobs.Config{
		Processor: executor,
		Tracker:   tracker,
		Logger:    logger,
	}
	if publisher != nil {
		jobCfg.Notifier = publisher
	}

	manager := dispatch.New(func() dispatch.JobFunc[domain.Request, domain.Ack] {
		return jobs.NewJobFunc(jobCfg)
	}, workers)
	logger.Info("dispatcher ready", "workers", workers)

	// Второй вход в диспетчер — очередь jobs.submit.
	var consumer *mq.Consumer
	if conn != nil {
		consumer = mq.NewConsumer(conn, logger, mq.ConsumerConfig{
			Queue:    string(mq.QueueJobsSubmit),
			Handler:  mq.NewSubmitHandler(manager, logger),
			Prefetch: workers,
		})
		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("submit consumer error", "error", err)
			}
		}()
	}

	handler := api.NewHandler(api.Config{
		Manager: manager,
		Tracker: tracker,
		Logger:  logger,
	})

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()

		status := "ok"
		if conn != nil && !conn.IsConnected() {
			status = "degraded"
		}

		snap := tracker.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":        status,
			"version":       version,
			"uptime_s":      time.Since(startTime).Seconds(),
			"started_jobs":  snap.StartedJobs,
			"finished_jobs": snap.FinishedJobs,
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	if consumer != nil {
		consumer.Stop()
	}

	// Close ждёт активные обороты Run; открепившиеся задачи процессу
	// не принадлежат и при рестарте теряются.
	if err := manager.Close(); err != nil {
		logger.Error("dispatcher close error", "error", err)
	}

	logger.Info("stopped")
}
