package worker

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"citycut/internal/dto"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

type procFunc func(ctx context.Context, raw json.RawMessage) error

func (f procFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

func TestDispatcher_EnqueueNotification(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	d := NewDispatcher(rdb)

	require.NoError(t, d.EnqueueNotification(ctx, NotifyPayload{CustomerName: "Ada", Phone: "08030000001"}))

	raw, err := rdb.RPop(ctx, QueueNotify).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, JobNotify, job.Type)
	var p NotifyPayload
	require.NoError(t, json.Unmarshal(job.Payload, &p))
	assert.Equal(t, "Ada", p.CustomerName)
}

func TestProcessJob_RetriesThenDeadLetters(t *testing.T) {
	retryBackoff = 0
	rdb := newRedis(t)
	ctx := context.Background()

	calls := 0
	pool := NewPool(rdb, map[string]Processor{
		JobNotify: procFunc(func(context.Context, json.RawMessage) error {
			calls++
			return errors.New("twilio down")
		}),
	}, 1)

	raw, _ := json.Marshal(Job{Type: JobNotify, Payload: json.RawMessage(`{"phone":"1"}`)})
	pool.processJob(ctx, QueueNotify, string(raw))

	assert.Equal(t, MaxAttempts, calls)
	entries, err := DLQEntries(ctx, rdb, QueueNotify, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "twilio down", entries[0].Reason)
	assert.Equal(t, MaxAttempts, entries[0].Attempts)
}

func TestProcessJob_SucceedsOnSecondAttempt(t *testing.T) {
	retryBackoff = 0
	rdb := newRedis(t)
	ctx := context.Background()

	calls := 0
	pool := NewPool(rdb, map[string]Processor{
		JobReport: procFunc(func(context.Context, json.RawMessage) error {
			calls++
			if calls == 1 {
				return errors.New("smtp timeout")
			}
			return nil
		}),
	}, 1)

	raw, _ := json.Marshal(Job{Type: JobReport, Payload: json.RawMessage(`{}`)})
	pool.processJob(ctx, QueueReport, string(raw))

	assert.Equal(t, 2, calls)
	n, err := DLQLength(ctx, rdb, QueueReport)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProcessJob_ShutdownMidRetryRequeues(t *testing.T) {
	retryBackoff = time.Hour
	t.Cleanup(func() { retryBackoff = 0 })
	rdb := newRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	pool := NewPool(rdb, map[string]Processor{
		JobNotify: procFunc(func(context.Context, json.RawMessage) error {
			calls++
			cancel()
			return errors.New("twilio down")
		}),
	}, 1)

	raw, _ := json.Marshal(Job{Type: JobNotify, Payload: json.RawMessage(`{"phone":"1"}`)})
	pool.processJob(ctx, QueueNotify, string(raw))

	bg := context.Background()
	assert.Equal(t, 1, calls)
	n, err := DLQLength(bg, rdb, QueueNotify)
	require.NoError(t, err)
	assert.Zero(t, n)

	queued, err := rdb.LRange(bg, QueueNotify, 0, -1).Result()
	require.NoError(t, err)
	assert.Equal(t, []string{string(raw)}, queued)
}

func TestProcessJob_UnknownTypeIsDeadLettered(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	pool := NewPool(rdb, map[string]Processor{}, 1)

	raw, _ := json.Marshal(Job{Type: "mystery", Payload: json.RawMessage(`{}`)})
	pool.processJob(ctx, QueueNotify, string(raw))

	n, err := DLQLength(ctx, rdb, QueueNotify)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestPool_RunDrainsQueue(t *testing.T) {
	rdb := newRedis(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan NotifyPayload, 1)
	pool := NewPool(rdb, map[string]Processor{
		JobNotify: procFunc(func(_ context.Context, raw json.RawMessage) error {
			var p NotifyPayload
			_ = json.Unmarshal(raw, &p)
			done <- p
			return nil
		}),
	}, 2)
	go func() { _ = pool.Run(ctx) }()

	require.NoError(t, NewDispatcher(rdb).EnqueueNotification(ctx, NotifyPayload{CustomerName: "Ada", Phone: "08030000001"}))

	select {
	case p := <-done:
		assert.Equal(t, "08030000001", p.Phone)
	case <-time.After(3 * time.Second):
		t.Fatal("job was not processed")
	}
}

type stubSMS struct {
	to, body string
	err      error
}

func (s *stubSMS) Send(to, body string) (string, error) {
	s.to, s.body = to, body
	return "SM123", s.err
}

func TestNotifyWorker_SendsThankYou(t *testing.T) {
	sms := &stubSMS{}
	w := NewNotifyWorker(sms)

	err := w.Process(context.Background(), json.RawMessage(`{"customer_name":"Ada","phone":"08030000001"}`))
	require.NoError(t, err)
	assert.Equal(t, "+2348030000001", sms.to)
	assert.Equal(t, "Hello Ada, thank you for choosing CityCut BarberShop!", sms.body)
}

func TestNotifyWorker_ProviderErrorIsRetryable(t *testing.T) {
	w := NewNotifyWorker(&stubSMS{err: errors.New("503")})
	err := w.Process(context.Background(), json.RawMessage(`{"customer_name":"Ada","phone":"08030000001"}`))
	assert.Error(t, err)
}

func TestNotifyWorker_DisabledSkips(t *testing.T) {
	w := NewNotifyWorker(nil)
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"customer_name":"Ada","phone":"080"}`)))
}

type stubSummaries struct{ day time.Time }

func (s *stubSummaries) DailySummary(_ context.Context, day time.Time) (*dto.DailySummary, error) {
	s.day = day
	return &dto.DailySummary{Date: day, Revenue: decimal.NewFromInt(8000), Expenses: decimal.NewFromInt(1500), Services: 2}, nil
}

type stubMailer struct {
	enabled bool
	to      []string
	subject string
	body    string
	pdf     string
}

func (m *stubMailer) Enabled() bool { return m.enabled }

func (m *stubMailer) SendReport(to []string, subject, body, pdfPath string) error {
	m.to, m.subject, m.body, m.pdf = to, subject, body, pdfPath
	return nil
}

func TestReportWorker_RendersAndMails(t *testing.T) {
	dir := t.TempDir()
	summaries := &stubSummaries{}
	mailer := &stubMailer{enabled: true}
	w := NewReportWorker(ReportWorkerConfig{
		Summaries:   summaries,
		Mailer:      mailer,
		Recipients:  []string{"owner@citycut.com"},
		StoragePath: dir,
	})

	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{"date":"2024-03-01"}`)))

	assert.Equal(t, "2024-03-01", summaries.day.Format("2006-01-02"))
	assert.Equal(t, []string{"owner@citycut.com"}, mailer.to)
	assert.Contains(t, mailer.subject, "2024-03-01")
	assert.Contains(t, mailer.body, "NGN 8,000.00")
	assert.Contains(t, mailer.body, "NGN 6,500.00")
	assert.Equal(t, filepath.Join(dir, "daily_2024-03-01.pdf"), mailer.pdf)
	_, err := os.Stat(mailer.pdf)
	assert.NoError(t, err)
}

func TestReportWorker_NoMailerKeepsPDF(t *testing.T) {
	dir := t.TempDir()
	w := NewReportWorker(ReportWorkerConfig{Summaries: &stubSummaries{}, StoragePath: dir})
	require.NoError(t, w.Process(context.Background(), json.RawMessage(`{"date":"2024-03-01"}`)))
	_, err := os.Stat(filepath.Join(dir, "daily_2024-03-01.pdf"))
	assert.NoError(t, err)
}

type recordingEnqueuer struct{ ch chan ReportPayload }

func (r recordingEnqueuer) EnqueueReport(_ context.Context, p ReportPayload) error {
	r.ch <- p
	return nil
}

func TestStartScheduler_RejectsBadSpec(t *testing.T) {
	_, err := StartScheduler(context.Background(), "not a cron", time.UTC, recordingEnqueuer{})
	assert.Error(t, err)
}

func TestStartScheduler_EnqueuesToday(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := recordingEnqueuer{ch: make(chan ReportPayload, 1)}

	c, err := StartScheduler(ctx, "* * * * *", time.UTC, q)
	require.NoError(t, err)
	require.Len(t, c.Entries(), 1)

	c.Entries()[0].Job.Run()
	p := <-q.ch
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), p.Date)
}
