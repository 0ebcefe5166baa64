package service

import (
	"citycut/internal/dto"
	"citycut/internal/model"
	"citycut/internal/repository"
)

func toRecordResponse(r *model.ServiceRecord) dto.ServiceRecordResponse {
	resp := dto.ServiceRecordResponse{
		ID:            r.ID.String(),
		ServiceType:   r.ServiceType,
		BarberName:    r.BarberName,
		AmountPaid:    r.AmountPaid,
		PaymentMethod: string(r.PaymentMethod),
		ServiceDate:   r.ServiceDate,
		Notes:         r.Notes,
	}
	if r.Customer != nil {
		resp.Customer = &dto.CustomerRef{ID: r.Customer.ID.String(), Name: r.Customer.Name, Phone: r.Customer.Phone}
	}
	if r.RecordedBy != nil {
		resp.RecordedBy = toUserRef(r.RecordedBy)
	}
	return resp
}

func toRecordResponses(rs []model.ServiceRecord) []dto.ServiceRecordResponse {
	out := make([]dto.ServiceRecordResponse, len(rs))
	for i := range rs {
		out[i] = toRecordResponse(&rs[i])
	}
	return out
}

func toExpenseResponse(e *model.Expense) dto.ExpenseResponse {
	resp := dto.ExpenseResponse{
		ID:          e.ID.String(),
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate,
		Notes:       e.Notes,
	}
	if e.PaymentMethod != nil {
		pm := string(*e.PaymentMethod)
		resp.PaymentMethod = &pm
	}
	if e.RecordedBy != nil {
		resp.RecordedBy = toUserRef(e.RecordedBy)
	}
	return resp
}

func toExpenseResponses(es []model.Expense) []dto.ExpenseResponse {
	out := make([]dto.ExpenseResponse, len(es))
	for i := range es {
		out[i] = toExpenseResponse(&es[i])
	}
	return out
}

func toCustomerResponse(c *repository.CustomerStats) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Phone:       c.Phone,
		Visits:      c.Visits,
		LastVisit:   c.LastVisit,
		TotalSpent:  c.TotalSpent,
		WhatsAppURL: model.WhatsAppURL(c.Name, c.Phone),
		CreatedAt:   c.CreatedAt,
	}
}

func toUserRef(u *model.User) *dto.UserRef {
	return &dto.UserRef{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{ID: u.ID.String(), Email: u.Email, Name: u.Name, Role: string(u.Role)}
}
