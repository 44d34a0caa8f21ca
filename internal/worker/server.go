// Package worker runs the Asynq server processing background tasks.
package worker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"rpg-sheets/internal/repository"
	"rpg-sheets/internal/tasks"
)

// WorkerServer wraps the Asynq server start and shutdown logic.
type WorkerServer struct {
	server         *asynq.Server
	log            *logrus.Entry
	auditRepo      repository.AuditRepository
	auditRetention time.Duration
}

// NewWorkerServer creates a WorkerServer. auditRetention bounds how long
// audit entries are kept before the periodic purge removes them.
func NewWorkerServer(redisOpt asynq.RedisClientOpt, auditRepo repository.AuditRepository, auditRetention time.Duration, logger *logrus.Logger) *WorkerServer {
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &WorkerServer{
		server:         server,
		log:            logEntry,
		auditRepo:      auditRepo,
		auditRetention: auditRetention,
	}
}

// Start runs the worker server. Call it from its own goroutine.
func (ws *WorkerServer) Start() {
	mux := asynq.NewServeMux()

	auditHandler := NewAuditHandler(ws.auditRepo, ws.auditRetention)
	mux.HandleFunc(tasks.TypeAuditRecord, auditHandler.ProcessRecord)
	mux.HandleFunc(tasks.TypeAuditPurge, auditHandler.ProcessPurge)

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil {
		if !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		} else {
			ws.log.Info("Worker server stopped.")
		}
	}
}

// Shutdown stops the worker server gracefully.
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
