package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"citycut/internal/dto"
	"citycut/internal/infra"

	"github.com/rs/zerolog/log"
)

// ReportPayload is the job body on QueueReport. Date is YYYY-MM-DD in the
// shop's timezone.
type ReportPayload struct {
	Date string `json:"date"`
}

// SummaryBuilder is satisfied by service.ReportService.
type SummaryBuilder interface {
	DailySummary(ctx context.Context, day time.Time) (*dto.DailySummary, error)
}

// ReportMailer is satisfied by infra.Mailer.
type ReportMailer interface {
	Enabled() bool
	SendReport(to []string, subject, body, pdfPath string) error
}

type ReportWorkerConfig struct {
	Summaries   SummaryBuilder
	Mailer      ReportMailer
	Recipients  []string
	StoragePath string
	Location    *time.Location
}

// ReportWorker renders the daily summary PDF and mails it to the owners.
type ReportWorker struct {
	cfg    ReportWorkerConfig
	render func(s *dto.DailySummary, dir string) (string, error)
}

func NewReportWorker(cfg ReportWorkerConfig) *ReportWorker {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ReportWorker{cfg: cfg, render: infra.GenerateDailySummaryPDF}
}

func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var p ReportPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload, dropping")
		return nil
	}
	day, err := time.ParseInLocation("2006-01-02", p.Date, w.cfg.Location)
	if err != nil {
		log.Error().Err(err).Str("date", p.Date).Msg("report_worker: bad date, dropping")
		return nil
	}

	summary, err := w.cfg.Summaries.DailySummary(ctx, day)
	if err != nil {
		return fmt.Errorf("report_worker: build summary: %w", err)
	}
	path, err := w.render(summary, w.cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("report_worker: %w", err)
	}

	if w.cfg.Mailer == nil || !w.cfg.Mailer.Enabled() || len(w.cfg.Recipients) == 0 {
		log.Info().Str("pdf", path).Msg("report_worker: mail not configured, PDF kept on disk")
		return nil
	}
	subject := "CityCut daily summary " + p.Date
	body := fmt.Sprintf("Services: %d\nRevenue: %s\nExpenses: %s\nNet: %s\n",
		summary.Services,
		infra.Naira(summary.Revenue),
		infra.Naira(summary.Expenses),
		infra.Naira(summary.Revenue.Sub(summary.Expenses)))
	if err := w.cfg.Mailer.SendReport(w.cfg.Recipients, subject, body, path); err != nil {
		return fmt.Errorf("report_worker: send: %w", err)
	}
	log.Info().Strs("to", w.cfg.Recipients).Str("date", p.Date).Msg("report_worker: summary sent")
	return nil
}
