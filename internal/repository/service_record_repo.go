package repository

import (
	"context"
	"time"

	"citycut/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecordQuery narrows record and expense listings. Zero values mean "no bound".
type RecordQuery struct {
	From       *time.Time
	To         *time.Time // exclusive
	RecordedBy *uuid.UUID
	Limit      int
}

// RecordUpdate is the editable field set of a service record.
type RecordUpdate struct {
	ServiceType   string
	BarberName    string
	AmountPaid    decimal.Decimal
	PaymentMethod model.PaymentMethod
	ServiceDate   time.Time
}

type ServiceRecordRepository interface {
	Create(ctx context.Context, tx *gorm.DB, rec *model.ServiceRecord) error
	Update(ctx context.Context, id uuid.UUID, u RecordUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, q RecordQuery) ([]model.ServiceRecord, error)
	// Sum returns the total amount and number of records matching q.
	Sum(ctx context.Context, q RecordQuery) (decimal.Decimal, int64, error)
}

type serviceRecordRepo struct{ db *gorm.DB }

func NewServiceRecordRepository(db *gorm.DB) ServiceRecordRepository {
	return &serviceRecordRepo{db: db}
}

func (r *serviceRecordRepo) Create(ctx context.Context, tx *gorm.DB, rec *model.ServiceRecord) error {
	return classify("service_record.create", conn(r.db, tx).WithContext(ctx).Omit("Customer", "RecordedBy").Create(rec).Error)
}

func (r *serviceRecordRepo) Update(ctx context.Context, id uuid.UUID, u RecordUpdate) error {
	res := r.db.WithContext(ctx).Model(&model.ServiceRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"service_type":   u.ServiceType,
			"barber_name":    u.BarberName,
			"amount_paid":    u.AmountPaid,
			"payment_method": u.PaymentMethod,
			"service_date":   u.ServiceDate,
		})
	return affected("service_record.update", res)
}

func (r *serviceRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.ServiceRecord{})
	return affected("service_record.delete", res)
}

func (r *serviceRecordRepo) scoped(ctx context.Context, q RecordQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.ServiceRecord{})
	if q.From != nil {
		db = db.Where("service_date >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("service_date < ?", *q.To)
	}
	if q.RecordedBy != nil {
		db = db.Where("recorded_by_id = ?", *q.RecordedBy)
	}
	return db
}

func (r *serviceRecordRepo) List(ctx context.Context, q RecordQuery) ([]model.ServiceRecord, error) {
	var recs []model.ServiceRecord
	db := r.scoped(ctx, q).Preload("Customer").Preload("RecordedBy").Order("service_date DESC")
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	if err := db.Find(&recs).Error; err != nil {
		return nil, classify("service_record.list", err)
	}
	return recs, nil
}

func (r *serviceRecordRepo) Sum(ctx context.Context, q RecordQuery) (decimal.Decimal, int64, error) {
	var out struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.scoped(ctx, q).
		Select("COALESCE(SUM(amount_paid), 0) AS total, COUNT(*) AS count").
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, 0, classify("service_record.sum", err)
	}
	return out.Total, out.Count, nil
}
