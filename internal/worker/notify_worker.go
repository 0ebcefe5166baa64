package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"citycut/internal/model"

	"github.com/rs/zerolog/log"
)

// NotifyPayload is the job body on QueueNotify.
type NotifyPayload struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
}

// TextSender is satisfied by infra.SMSSender.
type TextSender interface {
	Send(to, body string) (string, error)
}

// NotifyWorker texts customers the thank-you message after a visit.
type NotifyWorker struct {
	sms TextSender
}

// NewNotifyWorker accepts a nil sender; jobs are then logged and dropped.
func NewNotifyWorker(sms TextSender) *NotifyWorker {
	return &NotifyWorker{sms: sms}
}

func (w *NotifyWorker) Process(_ context.Context, raw json.RawMessage) error {
	var p NotifyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// A payload that never decodes will not decode on retry either.
		log.Error().Err(err).Msg("notify_worker: invalid payload, dropping")
		return nil
	}
	if p.Phone == "" {
		return errors.New("notify_worker: empty phone")
	}
	if w.sms == nil {
		log.Info().Str("phone", p.Phone).Msg("notify_worker: SMS disabled, skipping")
		return nil
	}

	to := model.E164(p.Phone)
	sid, err := w.sms.Send(to, model.ThankYouMessage(p.CustomerName))
	if err != nil {
		return fmt.Errorf("notify_worker: %w", err)
	}
	log.Info().Str("to", to).Str("sid", sid).Msg("notify_worker: thank-you sent")
	return nil
}
