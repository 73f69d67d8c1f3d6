package repository

import (
	"context"
	"fmt"

	"github.com/silovra/silovra-backend/models"
	"gorm.io/gorm"
)

// NotificationRepositoryImpl implements NotificationRepository
type NotificationRepositoryImpl struct {
	*BaseRepository[models.Notification, models.NotificationFilter]
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{BaseRepository: NewBaseRepository[models.Notification, models.NotificationFilter](db)}
}

func (r *NotificationRepositoryImpl) applyFilter(db *gorm.DB, f models.NotificationFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ProfileID != nil {
		db = db.Where("profile_id = ?", *f.ProfileID)
	}
	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}
	if f.Message != nil {
		db = db.Where("message = ?", *f.Message)
	}
	if f.IsRead != nil {
		db = db.Where("is_read = ?", *f.IsRead)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *NotificationRepositoryImpl) ByFilter(ctx context.Context, filter models.NotificationFilter, orderBy string, limit, offset int) ([]*models.Notification, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Notification{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Notification
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *NotificationRepositoryImpl) Count(ctx context.Context, filter models.NotificationFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Notification{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NotificationRepositoryImpl) Exists(ctx context.Context, filter models.NotificationFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *NotificationRepositoryImpl) ListByProfile(ctx context.Context, profileID uint, limit, offset int) ([]*models.Notification, error) {
	filter := models.NotificationFilter{ProfileID: &profileID}
	return r.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
}

func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, profileID, notificationID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Notification{}).
		Where("id = ? AND profile_id = ?", notificationID, profileID).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllRead(ctx context.Context, profileID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Notification{}).
		Where("profile_id = ? AND is_read = ?", profileID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, profileID uint) (int64, error) {
	isRead := false
	filter := models.NotificationFilter{ProfileID: &profileID, IsRead: &isRead}
	return r.Count(ctx, filter)
}
