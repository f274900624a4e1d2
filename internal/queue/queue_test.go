package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/fernwell/contact-api/internal/email"
	"github.com/fernwell/contact-api/internal/queue"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender records every send and fails according to its script.
type recordingSender struct {
	mu    sync.Mutex
	sent  []email.Message
	fails map[string]error // keyed by recipient
}

func newRecordingSender() *recordingSender {
	return &recordingSender{fails: make(map[string]error)}
}

func (s *recordingSender) Send(ctx context.Context, msg email.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	if err, ok := s.fails[msg.To]; ok {
		return err
	}
	return nil
}

func (s *recordingSender) messages() []email.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]email.Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func startMiniRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func pollUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("condition not met before timeout")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestHandleEmailDeliverSuccess(t *testing.T) {
	sender := newRecordingSender()
	w := queue.NewWorker(asynq.RedisClientOpt{Addr: "localhost:0"}, sender, "noreply@example.com", queue.WorkerOptions{}, nil)

	payload, err := json.Marshal(queue.EmailJob{
		Recipient: "owner@example.com",
		Subject:   "Contact form sent from website",
		Body:      "Name: Ann",
	})
	require.NoError(t, err)

	err = w.HandleEmailDeliver(context.Background(), asynq.NewTask(queue.TypeEmailDeliver, payload))
	require.NoError(t, err)

	sent := sender.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "noreply@example.com", sent[0].From)
	assert.Equal(t, "owner@example.com", sent[0].To)
	assert.Equal(t, "Contact form sent from website", sent[0].Subject)
}

func TestHandleEmailDeliverSwallowsSendFailure(t *testing.T) {
	sender := newRecordingSender()
	sender.fails["owner@example.com"] = errors.New("upstream SMTP timeout")
	w := queue.NewWorker(asynq.RedisClientOpt{Addr: "localhost:0"}, sender, "noreply@example.com", queue.WorkerOptions{}, nil)

	payload, err := json.Marshal(queue.EmailJob{Recipient: "owner@example.com", Subject: "x", Body: "y"})
	require.NoError(t, err)

	// The handler logs and drops; the error never reaches the broker.
	err = w.HandleEmailDeliver(context.Background(), asynq.NewTask(queue.TypeEmailDeliver, payload))
	assert.NoError(t, err)
}

func TestHandleEmailDeliverDropsMalformedPayload(t *testing.T) {
	sender := newRecordingSender()
	w := queue.NewWorker(asynq.RedisClientOpt{Addr: "localhost:0"}, sender, "noreply@example.com", queue.WorkerOptions{}, nil)

	err := w.HandleEmailDeliver(context.Background(), asynq.NewTask(queue.TypeEmailDeliver, []byte("{not json")))
	assert.NoError(t, err)
	assert.Empty(t, sender.messages(), "no send should be attempted for a malformed payload")
}

// TestWorkerIntegration drives the full enqueue → broker → worker path
// against an in-process Redis. A transport failure on the first job must
// not crash the loop, must not be re-enqueued, and the next job must still
// be processed.
func TestWorkerIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping broker integration test in short mode")
	}

	r := startMiniRedis(t)
	redisOpt := asynq.RedisClientOpt{Addr: r.Addr()}

	sender := newRecordingSender()
	sender.fails["fail@example.com"] = errors.New("boom")

	w := queue.NewWorker(redisOpt, sender, "noreply@example.com", queue.WorkerOptions{}, nil)
	go func() { _ = w.Run() }()
	defer w.Shutdown()

	client := queue.NewClient(redisOpt, queue.ClientOptions{}, nil)
	defer func() { _ = client.Close() }()

	ctx := context.Background()

	failID, err := client.Enqueue(ctx, queue.EmailJob{Recipient: "fail@example.com", Subject: "a", Body: "b"})
	require.NoError(t, err)
	require.NotEmpty(t, failID)

	okID, err := client.Enqueue(ctx, queue.EmailJob{Recipient: "ok@example.com", Subject: "c", Body: "d"})
	require.NoError(t, err)
	require.NotEmpty(t, okID)
	assert.NotEqual(t, failID, okID)

	pollUntil(t, 5*time.Second, func() bool {
		return len(sender.messages()) >= 2
	})

	// Give a potential (and incorrect) retry a moment to show up.
	time.Sleep(200 * time.Millisecond)

	sent := sender.messages()
	require.Len(t, sent, 2, "the failed job must be dropped, not retried")
	assert.Equal(t, "fail@example.com", sent[0].To)
	assert.Equal(t, "ok@example.com", sent[1].To)
}

// TestEnqueueDoesNotBlockOnExecution verifies the fire-and-forget contract:
// enqueue returns even when no worker is running.
func TestEnqueueDoesNotBlockOnExecution(t *testing.T) {
	r := startMiniRedis(t)
	client := queue.NewClient(asynq.RedisClientOpt{Addr: r.Addr()}, queue.ClientOptions{}, nil)
	defer func() { _ = client.Close() }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		id, err := client.Enqueue(context.Background(), queue.EmailJob{
			Recipient: "owner@example.com",
			Subject:   "s",
			Body:      "b",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked with no consumer attached")
	}
}
