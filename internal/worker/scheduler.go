package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ReportEnqueuer is satisfied by *Dispatcher.
type ReportEnqueuer interface {
	EnqueueReport(ctx context.Context, p ReportPayload) error
}

// StartScheduler enqueues a report job for the current day on every tick of
// spec (standard 5-field cron, evaluated in loc). The scheduler stops when
// ctx is cancelled.
func StartScheduler(ctx context.Context, spec string, loc *time.Location, q ReportEnqueuer) (*cron.Cron, error) {
	if loc == nil {
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		day := time.Now().In(loc).Format("2006-01-02")
		if err := q.EnqueueReport(ctx, ReportPayload{Date: day}); err != nil {
			log.Error().Err(err).Str("date", day).Msg("scheduler: enqueue report failed")
			return
		}
		log.Info().Str("date", day).Msg("scheduler: report enqueued")
	})
	if err != nil {
		return nil, fmt.Errorf("scheduler: bad cron spec %q: %w", spec, err)
	}
	c.Start()
	log.Info().Str("spec", spec).Str("tz", loc.String()).Msg("scheduler started")

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		log.Info().Msg("scheduler stopped")
	}()
	return c, nil
}
