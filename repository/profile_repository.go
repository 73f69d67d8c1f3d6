package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/silovra/silovra-backend/models"
	"gorm.io/gorm"
)

// ProfileRepositoryImpl implements ProfileRepository
type ProfileRepositoryImpl struct {
	*BaseRepository[models.Profile, models.ProfileFilter]
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{BaseRepository: NewBaseRepository[models.Profile, models.ProfileFilter](db)}
}

func (r *ProfileRepositoryImpl) applyFilter(db *gorm.DB, f models.ProfileFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Username != nil {
		db = db.Where("username = ?", *f.Username)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Plan != nil {
		db = db.Where("plan = ?", *f.Plan)
	}
	if f.PaymentCustomerRef != nil {
		db = db.Where("payment_customer_ref = ?", *f.PaymentCustomerRef)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *ProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.ProfileFilter, orderBy string, limit, offset int) ([]*models.Profile, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Profile{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Profile
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProfileRepositoryImpl) Count(ctx context.Context, filter models.ProfileFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Profile{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProfileRepositoryImpl) Exists(ctx context.Context, filter models.ProfileFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *ProfileRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.Profile, error) {
	filter := models.ProfileFilter{Username: &username}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ProfileRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Profile, error) {
	filter := models.ProfileFilter{Email: &email}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ProfileRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	filter := models.ProfileFilter{UUID: &id}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ProfileRepositoryImpl) ByPaymentCustomerRef(ctx context.Context, ref string) (*models.Profile, error) {
	filter := models.ProfileFilter{PaymentCustomerRef: &ref}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ProfileRepositoryImpl) UpdatePassword(ctx context.Context, profileID uint, passwordHash string) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *ProfileRepositoryImpl) UpdatePlan(ctx context.Context, profileID uint, plan string, paymentCustomerRef *string) error {
	db := r.getDB(ctx)
	updates := map[string]any{
		"plan":       plan,
		"updated_at": time.Now().UTC(),
	}
	if paymentCustomerRef != nil {
		updates["payment_customer_ref"] = *paymentCustomerRef
	}
	err := db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

func (r *ProfileRepositoryImpl) UpdateLastLogin(ctx context.Context, profileID uint, at time.Time) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("last_login_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// IncrementTotalViews bumps the view counter in the database so concurrent
// page loads never lose an increment.
func (r *ProfileRepositoryImpl) IncrementTotalViews(ctx context.Context, profileID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("total_views", gorm.Expr("total_views + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment total views: %w", err)
	}
	return nil
}
