package service

import (
	"context"
	"strings"

	"citycut/internal/apierror"
	"citycut/internal/cache"
	"citycut/internal/dto"
	"citycut/internal/repository"
	"citycut/internal/session"

	"github.com/google/uuid"
)

type CustomerService interface {
	List(ctx context.Context, query string) (*dto.CustomerListResponse, error)
	Update(ctx context.Context, p *session.Principal, id uuid.UUID, req dto.UpdateCustomerRequest) apierror.ActionResult
	// Delete cascades to the customer's service records.
	Delete(ctx context.Context, p *session.Principal, id uuid.UUID) apierror.ActionResult
}

type customerService struct {
	repo  repository.CustomerRepository
	views cache.Views
}

func NewCustomerService(repo repository.CustomerRepository, views cache.Views) CustomerService {
	return &customerService{repo: repo, views: views}
}

func (s *customerService) List(ctx context.Context, query string) (*dto.CustomerListResponse, error) {
	query = strings.TrimSpace(query)
	return cache.Fetch(ctx, s.views, ViewAdminCustomers, "q="+strings.ToLower(query), func() (*dto.CustomerListResponse, error) {
		rows, err := s.repo.List(ctx, query)
		if err != nil {
			return nil, err
		}
		out := make([]dto.CustomerResponse, len(rows))
		for i := range rows {
			out[i] = toCustomerResponse(&rows[i])
		}
		return &dto.CustomerListResponse{Query: query, Count: len(out), Customers: out}, nil
	})
}

func (s *customerService) Update(ctx context.Context, p *session.Principal, id uuid.UUID, req dto.UpdateCustomerRequest) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actUpdateCustomer, err)
	}
	err := s.repo.Update(ctx, id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	return conclude(ctx, s.views, actUpdateCustomer, err)
}

func (s *customerService) Delete(ctx context.Context, p *session.Principal, id uuid.UUID) apierror.ActionResult {
	if err := requirePrincipal(p); err != nil {
		return conclude(ctx, s.views, actDeleteCustomer, err)
	}
	return conclude(ctx, s.views, actDeleteCustomer, s.repo.Delete(ctx, id))
}
