// Package queue implements the asynchronous dispatch boundary between the
// web process and the email worker. Jobs are handed to Redis through asynq
// and consumed by a separate worker process; the producer never waits on
// execution.
package queue

import "context"

// TypeEmailDeliver is the task type for contact notification delivery.
const TypeEmailDeliver = "email:deliver"

// EmailJob is the serializable unit of work describing an email to send.
// It is not persisted by the application; durability is delegated entirely
// to the broker.
type EmailJob struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Enqueuer hands jobs to the broker. Implementations must return as soon as
// the broker has accepted the job, without blocking on its execution.
type Enqueuer interface {
	// Enqueue submits the job and returns the broker-assigned job ID.
	Enqueue(ctx context.Context, job EmailJob) (string, error)
}
