package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/silovra/silovra-backend/models"
	"gorm.io/gorm"
)

// PaymentEventRepositoryImpl implements PaymentEventRepository
type PaymentEventRepositoryImpl struct {
	*BaseRepository[models.PaymentEvent, models.PaymentEventFilter]
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &PaymentEventRepositoryImpl{BaseRepository: NewBaseRepository[models.PaymentEvent, models.PaymentEventFilter](db)}
}

func (r *PaymentEventRepositoryImpl) applyFilter(db *gorm.DB, f models.PaymentEventFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ProfileID != nil {
		db = db.Where("profile_id = ?", *f.ProfileID)
	}
	if f.Provider != nil {
		db = db.Where("provider = ?", *f.Provider)
	}
	if f.Reference != nil {
		db = db.Where("reference = ?", *f.Reference)
	}
	if f.EventType != nil {
		db = db.Where("event_type = ?", *f.EventType)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *PaymentEventRepositoryImpl) ByFilter(ctx context.Context, filter models.PaymentEventFilter, orderBy string, limit, offset int) ([]*models.PaymentEvent, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PaymentEvent{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.PaymentEvent
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PaymentEventRepositoryImpl) Count(ctx context.Context, filter models.PaymentEventFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.PaymentEvent{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PaymentEventRepositoryImpl) Exists(ctx context.Context, filter models.PaymentEventFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *PaymentEventRepositoryImpl) ByProviderAndReference(ctx context.Context, provider, reference string) (*models.PaymentEvent, error) {
	filter := models.PaymentEventFilter{Provider: &provider, Reference: &reference}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *PaymentEventRepositoryImpl) UpdateStatus(ctx context.Context, eventID uint, status string) error {
	db := r.getDB(ctx)
	err := db.Model(&models.PaymentEvent{}).
		Where("id = ?", eventID).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update payment event status: %w", err)
	}
	return nil
}

func (r *PaymentEventRepositoryImpl) ListByProfile(ctx context.Context, profileID uint, limit, offset int) ([]*models.PaymentEvent, error) {
	filter := models.PaymentEventFilter{ProfileID: &profileID}
	return r.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
}
