package service

import (
	"context"
	"fmt"
	"strings"

	"citycut/internal/apierror"
	"citycut/internal/cache"
	"citycut/internal/dto"
	"citycut/internal/model"
	"citycut/internal/repository"
	"citycut/internal/session"

	"github.com/google/uuid"
)

type ExpenseService interface {
	Create(ctx context.Context, p *session.Principal, req dto.CreateExpenseRequest) apierror.ActionResult
	Update(ctx context.Context, p *session.Principal, id uuid.UUID, req dto.UpdateExpenseRequest) apierror.ActionResult
	Delete(ctx context.Context, p *session.Principal, id uuid.UUID) apierror.ActionResult
	List(ctx context.Context, f dto.PeriodFilter) (*dto.ExpenseListResponse, error)
}

type expenseService struct {
	repo  repository.ExpenseRepository
	views cache.Views
	clock Clock
}

func NewExpenseService(repo repository.ExpenseRepository, views cache.Views, clock Clock) ExpenseService {
	return &expenseService{repo: repo, views: views, clock: clock}
}

func (s *expenseService) Create(ctx context.Context, p *session.Principal, req dto.CreateExpenseRequest) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actRecordExpense, err)
	}
	e := model.Expense{
		Category:     strings.ToLower(strings.TrimSpace(req.Category)),
		Amount:       req.Amount,
		Description:  strings.TrimSpace(req.Description),
		ExpenseDate:  s.clock.now(),
		Notes:        req.Notes,
		RecordedByID: p.UserID,
	}
	if req.ExpenseDate != nil {
		e.ExpenseDate = *req.ExpenseDate
	}
	if req.PaymentMethod != nil && *req.PaymentMethod != "" {
		pm, err := model.ParsePaymentMethod(*req.PaymentMethod)
		if err != nil {
			return conclude(ctx, s.views, actRecordExpense, apierror.E(apierror.KindConstraintViolation, "expense.create", err))
		}
		e.PaymentMethod = &pm
	}

	res := conclude(ctx, s.views, actRecordExpense, s.repo.Create(ctx, &e))
	if res.Success {
		res.ID = e.ID.String()
	}
	return res
}

func (s *expenseService) Update(ctx context.Context, p *session.Principal, id uuid.UUID, req dto.UpdateExpenseRequest) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actUpdateExpense, err)
	}
	err := s.repo.Update(ctx, id, repository.ExpenseUpdate{
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		ExpenseDate: req.ExpenseDate,
	})
	return conclude(ctx, s.views, actUpdateExpense, err)
}

func (s *expenseService) Delete(ctx context.Context, p *session.Principal, id uuid.UUID) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actDeleteExpense, err)
	}
	return conclude(ctx, s.views, actDeleteExpense, s.repo.Delete(ctx, id))
}

func (s *expenseService) List(ctx context.Context, f dto.PeriodFilter) (*dto.ExpenseListResponse, error) {
	from, to, err := f.Range(s.clock.now(), s.clock.loc())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}
	return cache.Fetch(ctx, s.views, ViewAdminExpenses, f.Key(from), func() (*dto.ExpenseListResponse, error) {
		q := repository.RecordQuery{From: from, To: to}
		list, err := s.repo.List(ctx, q)
		if err != nil {
			return nil, err
		}
		total, err := s.repo.Sum(ctx, q)
		if err != nil {
			return nil, err
		}
		mode := f.Mode
		if mode == "" {
			mode = dto.FilterAll
		}
		return &dto.ExpenseListResponse{
			Filter:   mode,
			Date:     f.Date,
			Count:    len(list),
			Total:    total,
			Expenses: toExpenseResponses(list),
		}, nil
	})
}
