package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"citycut/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueNotify = "jobs:notify"
	QueueReport = "jobs:report"

	JobNotify = "notify"
	JobReport = "report"

	// MaxAttempts is how many times a job runs before it is dead-lettered.
	MaxAttempts = 3
)

// retryBackoff is the base delay between attempts; attempt n waits n*retryBackoff.
var retryBackoff = 2 * time.Second

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Processor handles one job type. A returned error triggers a retry.
type Processor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueNotification queues the thank-you text for a customer.
func (d *Dispatcher) EnqueueNotification(ctx context.Context, p NotifyPayload) error {
	return d.enqueue(ctx, QueueNotify, JobNotify, p)
}

// EnqueueReport queues the daily summary email.
func (d *Dispatcher) EnqueueReport(ctx context.Context, p ReportPayload) error {
	return d.enqueue(ctx, QueueReport, JobReport, p)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return fmt.Errorf("enqueue %s: %w", jobType, err)
	}
	return nil
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	processors map[string]Processor
	size       int
	queues     []string
}

// NewPool builds a pool; processors is keyed by job type.
func NewPool(rdb *redis.Client, processors map[string]Processor, size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		rdb:        rdb,
		processors: processors,
		size:       size,
		queues:     []string{QueueNotify, QueueReport},
	}
}

// Run blocks until ctx is cancelled and every worker has returned.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runWorker(ctx, id)
		}(i)
	}
	log.Info().Int("workers", p.size).Msg("worker pool started")
	wg.Wait()
	return nil
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		if ctx.Err() != nil {
			log.Debug().Int("worker", id).Msg("worker shutting down")
			return
		}
		// Waits up to 5s then loops to check ctx.
		result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("brpop failed")
				sleep(ctx, time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.processJob(ctx, result[0], result[1])
	}
}

// processJob runs a job up to MaxAttempts times, then dead-letters it.
func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "", json.RawMessage(fmt.Sprintf("%q", raw)), "malformed envelope: "+err.Error(), 0)
		metrics.RecordJob("unknown", "malformed")
		return
	}
	proc, ok := p.processors[job.Type]
	if !ok {
		log.Error().Str("queue", queue).Str("type", job.Type).Msg("no processor for job type")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no processor registered", 0)
		metrics.RecordJob(job.Type, "unroutable")
		return
	}

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if lastErr = proc.Process(ctx, job.Payload); lastErr == nil {
			metrics.RecordJob(job.Type, "ok")
			return
		}
		log.Warn().Err(lastErr).Str("type", job.Type).Int("attempt", attempt).Msg("job failed")
		if attempt < MaxAttempts && !sleep(ctx, time.Duration(attempt)*retryBackoff) {
			p.requeue(ctx, queue, job.Type, raw)
			return
		}
	}
	metrics.RecordJob(job.Type, "dead_letter")
	SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, lastErr.Error(), MaxAttempts)
}

// requeue puts a job interrupted by shutdown back on its queue. The original
// envelope is pushed unchanged, so the next run starts a fresh set of attempts.
func (p *Pool) requeue(ctx context.Context, queue, jobType, raw string) {
	if err := p.rdb.LPush(context.WithoutCancel(ctx), queue, raw).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("type", jobType).Msg("failed to requeue interrupted job")
		return
	}
	log.Info().Str("queue", queue).Str("type", jobType).Msg("job requeued on shutdown")
	metrics.RecordJob(jobType, "requeued")
}

// sleep waits d or until ctx is done; it reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
