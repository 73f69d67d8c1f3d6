package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/silovra/silovra-backend/models"
	"gorm.io/gorm"
)

// ProfileSessionRepositoryImpl implements ProfileSessionRepository
type ProfileSessionRepositoryImpl struct {
	*BaseRepository[models.ProfileSession, models.ProfileSessionFilter]
}

func NewProfileSessionRepository(db *gorm.DB) ProfileSessionRepository {
	return &ProfileSessionRepositoryImpl{BaseRepository: NewBaseRepository[models.ProfileSession, models.ProfileSessionFilter](db)}
}

func (r *ProfileSessionRepositoryImpl) applyFilter(db *gorm.DB, f models.ProfileSessionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CorrelationID != nil {
		db = db.Where("correlation_id = ?", *f.CorrelationID)
	}
	if f.ProfileID != nil {
		db = db.Where("profile_id = ?", *f.ProfileID)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.IPAddress != nil {
		db = db.Where("ip_address = ?", *f.IPAddress)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	if f.ExpiresAfter != nil {
		db = db.Where("expires_at >= ?", *f.ExpiresAfter)
	}
	if f.ExpiresBefore != nil {
		db = db.Where("expires_at < ?", *f.ExpiresBefore)
	}
	if f.AccessedAfter != nil {
		db = db.Where("last_accessed_at >= ?", *f.AccessedAfter)
	}
	if f.AccessedBefore != nil {
		db = db.Where("last_accessed_at < ?", *f.AccessedBefore)
	}
	return db
}

func (r *ProfileSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.ProfileSessionFilter, orderBy string, limit, offset int) ([]*models.ProfileSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProfileSession{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ProfileSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProfileSessionRepositoryImpl) Count(ctx context.Context, filter models.ProfileSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ProfileSession{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ProfileSessionRepositoryImpl) Exists(ctx context.Context, filter models.ProfileSessionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// BySessionToken retrieves an active, unexpired session by session token
func (r *ProfileSessionRepositoryImpl) BySessionToken(ctx context.Context, token string) (*models.ProfileSession, error) {
	db := r.getDB(ctx)

	var session models.ProfileSession
	err := db.Where("session_token = ? AND is_active = ? AND expires_at > ?",
		token, true, time.Now()).
		Preload("Profile").
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by token: %w", err)
	}

	return &session, nil
}

// ByRefreshToken retrieves an active, unexpired session by refresh token
func (r *ProfileSessionRepositoryImpl) ByRefreshToken(ctx context.Context, token string) (*models.ProfileSession, error) {
	db := r.getDB(ctx)

	var session models.ProfileSession
	err := db.Where("refresh_token = ? AND is_active = ? AND expires_at > ?",
		token, true, time.Now()).
		Preload("Profile").
		First(&session).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session by refresh token: %w", err)
	}

	return &session, nil
}

func (r *ProfileSessionRepositoryImpl) ListActiveSessionsByProfile(ctx context.Context, profileID uint) ([]*models.ProfileSession, error) {
	isActive := true
	now := time.Now()
	filter := models.ProfileSessionFilter{
		ProfileID:    &profileID,
		IsActive:     &isActive,
		ExpiresAfter: &now,
	}
	return r.ByFilter(ctx, filter, "last_accessed_at DESC", 0, 0)
}

func (r *ProfileSessionRepositoryImpl) RevokeSession(ctx context.Context, sessionID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.ProfileSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"is_active":     false,
			"refresh_token": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (r *ProfileSessionRepositoryImpl) RevokeAllProfileSessions(ctx context.Context, profileID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.ProfileSession{}).
		Where("profile_id = ? AND is_active = ?", profileID, true).
		Updates(map[string]any{
			"is_active":     false,
			"refresh_token": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke profile sessions: %w", err)
	}
	return nil
}

// DeleteExpiredBefore removes sessions whose expiry passed before the cutoff
func (r *ProfileSessionRepositoryImpl) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	db := r.getDB(ctx)
	result := db.Where("expires_at < ?", cutoff).Delete(&models.ProfileSession{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ProfileSessionRepositoryImpl) Touch(ctx context.Context, sessionID uint, at time.Time) error {
	db := r.getDB(ctx)
	err := db.Model(&models.ProfileSession{}).
		Where("id = ?", sessionID).
		Update("last_accessed_at", at).Error
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}
