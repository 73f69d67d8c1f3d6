package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/silovra/silovra-backend/models"
	"gorm.io/gorm"
)

// LinkRepositoryImpl implements LinkRepository
type LinkRepositoryImpl struct {
	*BaseRepository[models.Link, models.LinkFilter]
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &LinkRepositoryImpl{BaseRepository: NewBaseRepository[models.Link, models.LinkFilter](db)}
}

func (r *LinkRepositoryImpl) applyFilter(db *gorm.DB, f models.LinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ProfileID != nil {
		db = db.Where("profile_id = ?", *f.ProfileID)
	}
	if f.LinkType != nil {
		db = db.Where("link_type = ?", *f.LinkType)
	}
	if f.Category != nil {
		db = db.Where("category = ?", *f.Category)
	}
	if f.GroupID != nil {
		db = db.Where("group_id = ?", *f.GroupID)
	}
	if f.IsVisible != nil {
		db = db.Where("is_visible = ?", *f.IsVisible)
	}
	if f.IsPinned != nil {
		db = db.Where("is_pinned = ?", *f.IsPinned)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *LinkRepositoryImpl) ByFilter(ctx context.Context, filter models.LinkFilter, orderBy string, limit, offset int) ([]*models.Link, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Link
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LinkRepositoryImpl) Count(ctx context.Context, filter models.LinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LinkRepositoryImpl) Exists(ctx context.Context, filter models.LinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// ListByProfile returns all links of a profile in display order
func (r *LinkRepositoryImpl) ListByProfile(ctx context.Context, profileID uint) ([]*models.Link, error) {
	filter := models.LinkFilter{ProfileID: &profileID}
	return r.ByFilter(ctx, filter, "position ASC, id ASC", 0, 0)
}

func (r *LinkRepositoryImpl) MaxPosition(ctx context.Context, profileID uint) (int, error) {
	db := r.getDB(ctx)
	var max sql.NullInt64
	err := db.Model(&models.Link{}).
		Where("profile_id = ?", profileID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

// UpdatePositions rewrites positions to 0..n-1 following the given ID order.
// IDs not owned by the profile are skipped by the WHERE clause.
func (r *LinkRepositoryImpl) UpdatePositions(ctx context.Context, profileID uint, orderedIDs []uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	for pos, id := range orderedIDs {
		err = db.Model(&models.Link{}).
			Where("id = ? AND profile_id = ?", id, profileID).
			Update("position", pos).Error
		if err != nil {
			return fmt.Errorf("failed to update link position: %w", err)
		}
	}

	return nil
}

// IncrementClickCount bumps the click counter in the database so concurrent
// clicks never lose an increment.
func (r *LinkRepositoryImpl) IncrementClickCount(ctx context.Context, linkID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Link{}).
		Where("id = ?", linkID).
		Update("click_count", gorm.Expr("click_count + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}
	return nil
}

// DetachGroup clears group_id on all links of a deleted group
func (r *LinkRepositoryImpl) DetachGroup(ctx context.Context, groupID uint) error {
	db := r.getDB(ctx)
	err := db.Model(&models.Link{}).
		Where("group_id = ?", groupID).
		Update("group_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to detach links from group: %w", err)
	}
	return nil
}

func (r *LinkRepositoryImpl) Delete(ctx context.Context, linkID uint) error {
	db := r.getDB(ctx)
	if err := db.Delete(&models.Link{}, linkID).Error; err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	return nil
}
