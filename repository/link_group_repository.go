package repository

import (
	"context"
	"fmt"

	"github.com/silovra/silovra-backend/models"
	"gorm.io/gorm"
)

// LinkGroupRepositoryImpl implements LinkGroupRepository
type LinkGroupRepositoryImpl struct {
	*BaseRepository[models.LinkGroup, models.LinkGroupFilter]
}

func NewLinkGroupRepository(db *gorm.DB) LinkGroupRepository {
	return &LinkGroupRepositoryImpl{BaseRepository: NewBaseRepository[models.LinkGroup, models.LinkGroupFilter](db)}
}

func (r *LinkGroupRepositoryImpl) applyFilter(db *gorm.DB, f models.LinkGroupFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ProfileID != nil {
		db = db.Where("profile_id = ?", *f.ProfileID)
	}
	if f.Title != nil {
		db = db.Where("title = ?", *f.Title)
	}
	return db
}

func (r *LinkGroupRepositoryImpl) ByFilter(ctx context.Context, filter models.LinkGroupFilter, orderBy string, limit, offset int) ([]*models.LinkGroup, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LinkGroup{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.LinkGroup
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LinkGroupRepositoryImpl) Count(ctx context.Context, filter models.LinkGroupFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.LinkGroup{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LinkGroupRepositoryImpl) Exists(ctx context.Context, filter models.LinkGroupFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *LinkGroupRepositoryImpl) ListByProfile(ctx context.Context, profileID uint) ([]*models.LinkGroup, error) {
	filter := models.LinkGroupFilter{ProfileID: &profileID}
	return r.ByFilter(ctx, filter, "position ASC, id ASC", 0, 0)
}

func (r *LinkGroupRepositoryImpl) Delete(ctx context.Context, groupID uint) error {
	db := r.getDB(ctx)
	if err := db.Delete(&models.LinkGroup{}, groupID).Error; err != nil {
		return fmt.Errorf("failed to delete link group: %w", err)
	}
	return nil
}
