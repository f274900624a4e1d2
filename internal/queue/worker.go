package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fernwell/contact-api/internal/email"
	"github.com/hibiken/asynq"
)

// Worker consumes email jobs from the broker and executes the send side
// effect. It processes one job at a time to completion before polling the
// next; any failure in sending is logged and the job is dropped, never
// retried or re-enqueued.
type Worker struct {
	server *asynq.Server
	sender email.Sender
	from   string
	logger *slog.Logger
}

// WorkerOptions configures a Worker.
type WorkerOptions struct {
	// Queue is the asynq queue name; defaults to "default".
	Queue string
}

// NewWorker creates a new worker bound to the given broker. The from
// address is used as the envelope sender of every notification.
// If logger is nil, a default logger will be used.
func NewWorker(
	redisOpt asynq.RedisClientOpt,
	sender email.Sender,
	from string,
	opts WorkerOptions,
	logger *slog.Logger,
) *Worker {
	q := opts.Queue
	if q == "" {
		q = "default"
	}
	if logger == nil {
		logger = slog.Default()
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		// One job at a time to completion, then poll the next.
		Concurrency: 1,
		Queues:      map[string]int{q: 1},
	})

	return &Worker{
		server: server,
		sender: sender,
		from:   from,
		logger: logger.With(slog.String("component", "email_worker")),
	}
}

// Run starts the worker loop and blocks until Shutdown is called.
func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeEmailDeliver, w.HandleEmailDeliver)

	w.logger.Info("email worker starting")
	return w.server.Run(mux)
}

// Shutdown stops the worker loop, waiting for the in-flight job to finish.
func (w *Worker) Shutdown() {
	w.logger.Info("email worker shutting down")
	w.server.Shutdown()
}

// HandleEmailDeliver executes a single email job. It always returns nil:
// a failed send is logged and the job discarded, so the broker never
// retries or archives it. Correctness of delivery is explicitly not
// guaranteed here.
func (w *Worker) HandleEmailDeliver(ctx context.Context, task *asynq.Task) error {
	var job EmailJob
	if err := json.Unmarshal(task.Payload(), &job); err != nil {
		w.logger.Error("dropping email job with malformed payload",
			slog.String("error", err.Error()))
		return nil
	}

	w.logger.Info("sending contact notification",
		slog.String("from", w.from),
		slog.String("recipient", job.Recipient),
		slog.String("subject", job.Subject))

	msg := email.Message{
		From:    w.from,
		To:      job.Recipient,
		Subject: job.Subject,
		Body:    job.Body,
	}

	if err := w.sender.Send(ctx, msg); err != nil {
		w.logger.Error("email send failed, dropping job",
			slog.String("error", err.Error()),
			slog.String("recipient", job.Recipient),
			slog.String("subject", job.Subject))
		return nil
	}

	w.logger.Info("contact notification sent",
		slog.String("recipient", job.Recipient))
	return nil
}
