package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"citycut/internal/apierror"
	"citycut/internal/cache"
	"citycut/internal/dto"
	"citycut/internal/model"
	"citycut/internal/repository"
	"citycut/internal/session"
	"citycut/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInvalidFilter wraps a listing filter that cannot be resolved to a range.
var ErrInvalidFilter = errors.New("invalid filter")

type RecordService interface {
	Create(ctx context.Context, p *session.Principal, req dto.CreateServiceRecordRequest) apierror.ActionResult
	Update(ctx context.Context, p *session.Principal, id uuid.UUID, req dto.UpdateServiceRecordRequest) apierror.ActionResult
	Delete(ctx context.Context, p *session.Principal, id uuid.UUID) apierror.ActionResult
	List(ctx context.Context, f dto.PeriodFilter) (*dto.ServiceRecordListResponse, error)
}

type recordService struct {
	customers repository.CustomerRepository
	records   repository.ServiceRecordRepository
	views     cache.Views
	notifier  Notifier
	clock     Clock
}

func NewRecordService(
	customers repository.CustomerRepository,
	records repository.ServiceRecordRepository,
	views cache.Views,
	notifier Notifier,
	clock Clock,
) RecordService {
	return &recordService{
		customers: customers,
		records:   records,
		views:     views,
		notifier:  notifier,
		clock:     clock,
	}
}

// ── Create ───────────────────────────────────────────────────────────────────
// One transaction:
//   1. upsert the customer by phone (visits = 1 on insert, +1 on conflict)
//   2. insert the service record linked to it and to the principal
// After commit: invalidate views, queue the thank-you text.

func (s *recordService) Create(ctx context.Context, p *session.Principal, req dto.CreateServiceRecordRequest) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actRecordService, err)
	}
	pm, err := model.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return conclude(ctx, s.views, actRecordService, apierror.E(apierror.KindConstraintViolation, "record.create", err))
	}
	if !req.Amount.GreaterThan(decimal.Zero) {
		return conclude(ctx, s.views, actRecordService,
			apierror.E(apierror.KindConstraintViolation, "record.create", fmt.Errorf("amount must be positive, got %s", req.Amount)))
	}

	serviceDate := s.clock.now()
	if req.ServiceDate != nil {
		serviceDate = *req.ServiceDate
	}
	name := strings.TrimSpace(req.CustomerName)
	phone := strings.TrimSpace(req.CustomerPhone)

	var (
		customer *model.Customer
		rec      model.ServiceRecord
	)
	err = runTx(ctx, s.customers.DB(), func(tx *gorm.DB) error {
		c, err := s.customers.UpsertVisit(ctx, tx, name, phone)
		if err != nil {
			return err
		}
		customer = c
		rec = model.ServiceRecord{
			ServiceType:   strings.TrimSpace(req.ServiceType),
			BarberName:    strings.TrimSpace(req.BarberName),
			AmountPaid:    req.Amount,
			PaymentMethod: pm,
			ServiceDate:   serviceDate,
			Notes:         req.Notes,
			CustomerID:    c.ID,
			RecordedByID:  p.UserID,
		}
		return s.records.Create(ctx, tx, &rec)
	})

	res := conclude(ctx, s.views, actRecordService, err)
	if !res.Success {
		return res
	}
	res.ID = rec.ID.String()

	if s.notifier != nil {
		payload := worker.NotifyPayload{CustomerName: customer.Name, Phone: customer.Phone}
		if err := s.notifier.EnqueueNotification(ctx, payload); err != nil {
			log.Warn().Err(err).Str("record_id", res.ID).Msg("record: thank-you not queued")
		}
	}
	return res
}

func (s *recordService) Update(ctx context.Context, p *session.Principal, id uuid.UUID, req dto.UpdateServiceRecordRequest) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actUpdateService, err)
	}
	pm, err := model.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return conclude(ctx, s.views, actUpdateService, apierror.E(apierror.KindConstraintViolation, "record.update", err))
	}
	err = s.records.Update(ctx, id, repository.RecordUpdate{
		ServiceType:   strings.TrimSpace(req.ServiceType),
		BarberName:    strings.TrimSpace(req.BarberName),
		AmountPaid:    req.Amount,
		PaymentMethod: pm,
		ServiceDate:   req.ServiceDate,
	})
	return conclude(ctx, s.views, actUpdateService, err)
}

// Delete removes the record only; the customer's visit count is historical and
// stays as is.
func (s *recordService) Delete(ctx context.Context, p *session.Principal, id uuid.UUID) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actDeleteService, err)
	}
	return conclude(ctx, s.views, actDeleteService, s.records.Delete(ctx, id))
}

func (s *recordService) List(ctx context.Context, f dto.PeriodFilter) (*dto.ServiceRecordListResponse, error) {
	from, to, err := f.Range(s.clock.now(), s.clock.loc())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return cache.Fetch(ctx, s.views, ViewAdminSales, f.Key(from), func() (*dto.ServiceRecordListResponse, error) {
		q := repository.RecordQuery{From: from, To: to}
		recs, err := s.records.List(ctx, q)
		if err != nil {
			return nil, err
		}
		total, _, err := s.records.Sum(ctx, q)
		if err != nil {
			return nil, err
		}
		mode := f.Mode
		if mode == "" {
			mode = dto.FilterAll
		}
		return &dto.ServiceRecordListResponse{
			Filter:  mode,
			Date:    f.Date,
			Count:   len(recs),
			Total:   total,
			Records: toRecordResponses(recs),
		}, nil
	})
}
