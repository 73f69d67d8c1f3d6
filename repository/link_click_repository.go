package repository

import (
	"context"
	"time"

	"github.com/silovra/silovra-backend/models"
	"gorm.io/gorm"
)

// LinkClickRepositoryImpl implements LinkClickRepository
type LinkClickRepositoryImpl struct {
	*BaseRepository[models.LinkClick, models.LinkClickFilter]
}

func NewLinkClickRepository(db *gorm.DB) LinkClickRepository {
	return &LinkClickRepositoryImpl{BaseRepository: NewBaseRepository[models.LinkClick, models.LinkClickFilter](db)}
}

func (r *LinkClickRepositoryImpl) applyFilter(db *gorm.DB, f models.LinkClickFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.LinkID != nil {
		db = db.Where("link_id = ?", *f.LinkID)
	}
	if f.ProfileID != nil {
		db = db.Where("profile_id = ?", *f.ProfileID)
	}
	if f.DeviceType != nil {
		db = db.Where("device_type = ?", *f.DeviceType)
	}
	if f.Browser != nil {
		db = db.Where("browser = ?", *f.Browser)
	}
	if f.ClickedAfter != nil {
		db = db.Where("clicked_at >= ?", *f.ClickedAfter)
	}
	if f.ClickedBefore != nil {
		db = db.Where("clicked_at < ?", *f.ClickedBefore)
	}
	return db
}

func (r *LinkClickRepositoryImpl) ByFilter(ctx context.Context, filter models.LinkClickFilter, orderBy string, limit, offset int) ([]*models.LinkClick, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LinkClick{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.LinkClick
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LinkClickRepositoryImpl) Count(ctx context.Context, filter models.LinkClickFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LinkClick{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LinkClickRepositoryImpl) Exists(ctx context.Context, filter models.LinkClickFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *LinkClickRepositoryImpl) CountByProfileSince(ctx context.Context, profileID uint, since time.Time) (int64, error) {
	filter := models.LinkClickFilter{ProfileID: &profileID, ClickedAfter: &since}
	return r.Count(ctx, filter)
}

func (r *LinkClickRepositoryImpl) DailyCountsByProfile(ctx context.Context, profileID uint, since time.Time) ([]DailyClickCount, error) {
	db := r.getDB(ctx)
	var rows []DailyClickCount
	err := db.Model(&models.LinkClick{}).
		Select("DATE_TRUNC('day', clicked_at) AS day, COUNT(*) AS count").
		Where("profile_id = ? AND clicked_at >= ?", profileID, since).
		Group("day").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LinkClickRepositoryImpl) CountsByDevice(ctx context.Context, profileID uint, since time.Time) ([]DimensionCount, error) {
	return r.countsByColumn(ctx, profileID, since, "device_type", 0)
}

func (r *LinkClickRepositoryImpl) CountsByBrowser(ctx context.Context, profileID uint, since time.Time) ([]DimensionCount, error) {
	return r.countsByColumn(ctx, profileID, since, "browser", 0)
}

func (r *LinkClickRepositoryImpl) CountsByReferrer(ctx context.Context, profileID uint, since time.Time, limit int) ([]DimensionCount, error) {
	return r.countsByColumn(ctx, profileID, since, "COALESCE(referrer, 'direct')", limit)
}

// DeleteOlderThan removes click rows past the retention window. Aggregated
// counters on links and profiles are unaffected.
func (r *LinkClickRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	db := r.getDB(ctx)
	result := db.Where("clicked_at < ?", cutoff).Delete(&models.LinkClick{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *LinkClickRepositoryImpl) countsByColumn(ctx context.Context, profileID uint, since time.Time, column string, limit int) ([]DimensionCount, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.LinkClick{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where("profile_id = ? AND clicked_at >= ?", profileID, since).
		Group("value").
		Order("count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []DimensionCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
