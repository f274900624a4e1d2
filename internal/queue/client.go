package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

// Client is the asynq-backed Enqueuer used by the web process.
type Client struct {
	client *asynq.Client
	queue  string
	logger *slog.Logger
}

// ClientOptions configures a Client.
type ClientOptions struct {
	// Queue is the asynq queue name; defaults to "default".
	Queue string
}

// NewClient creates a new broker client. The redis options should come from
// the application config; the client owns the underlying connection pool
// and must be closed by the caller on shutdown.
// If logger is nil, a default logger will be used.
func NewClient(redisOpt asynq.RedisClientOpt, opts ClientOptions, logger *slog.Logger) *Client {
	q := opts.Queue
	if q == "" {
		q = "default"
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client: asynq.NewClient(redisOpt),
		queue:  q,
		logger: logger.With(slog.String("component", "queue_client")),
	}
}

// Ensure Client implements Enqueuer
var _ Enqueuer = (*Client)(nil)

// Enqueue implements Enqueuer. The job payload is JSON encoded and handed
// to Redis with MaxRetry zero: a failed send is logged and dropped by the
// worker, never retried.
func (c *Client) Enqueue(ctx context.Context, job EmailJob) (string, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("marshal email job: %w", err)
	}

	task := asynq.NewTask(TypeEmailDeliver, payload)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.Queue(c.queue),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue email job: %w", err)
	}

	c.logger.Info("email job enqueued",
		slog.String("job_id", info.ID),
		slog.String("queue", info.Queue),
		slog.String("recipient", job.Recipient))
	return info.ID, nil
}

// Close releases the underlying Redis connection pool.
func (c *Client) Close() error {
	return c.client.Close()
}
