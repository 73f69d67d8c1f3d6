package businessflow

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	"gorm.io/gorm"
)

// GroupFlow handles the owner-side link group operations
type GroupFlow interface {
	ListGroups(ctx context.Context, profileID uint) (*dto.ListLinkGroupsResponse, error)
	CreateGroup(ctx context.Context, profileID uint, request *dto.CreateLinkGroupRequest) (*dto.LinkGroupDTO, error)
	UpdateGroup(ctx context.Context, profileID, groupID uint, request *dto.UpdateLinkGroupRequest) (*dto.LinkGroupDTO, error)
	DeleteGroup(ctx context.Context, profileID, groupID uint) error
}

// GroupFlowImpl implements the link group business flow
type GroupFlowImpl struct {
	profileRepo repository.ProfileRepository
	groupRepo   repository.LinkGroupRepository
	linkRepo    repository.LinkRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	db          *gorm.DB
}

// NewGroupFlow creates a new group flow instance
func NewGroupFlow(
	profileRepo repository.ProfileRepository,
	groupRepo repository.LinkGroupRepository,
	linkRepo repository.LinkRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) GroupFlow {
	return &GroupFlowImpl{
		profileRepo: profileRepo,
		groupRepo:   groupRepo,
		linkRepo:    linkRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
		db:          db,
	}
}

// ListGroups returns the profile's groups with their member counts
func (gf *GroupFlowImpl) ListGroups(ctx context.Context, profileID uint) (*dto.ListLinkGroupsResponse, error) {
	groups, err := gf.groupRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("GROUP_LIST_FAILED", "Group list failed", err)
	}

	out := make([]dto.LinkGroupDTO, 0, len(groups))
	for _, g := range groups {
		count, err := gf.linkRepo.Count(ctx, models.LinkFilter{ProfileID: &profileID, GroupID: &g.ID})
		if err != nil {
			return nil, NewBusinessError("GROUP_LIST_FAILED", "Group list failed", err)
		}
		out = append(out, ToLinkGroupDTO(*g, count))
	}
	return &dto.ListLinkGroupsResponse{Groups: out, Total: len(out)}, nil
}

// CreateGroup appends a new group at the end of the profile's group list
func (gf *GroupFlowImpl) CreateGroup(ctx context.Context, profileID uint, request *dto.CreateLinkGroupRequest) (*dto.LinkGroupDTO, error) {
	groups, err := gf.groupRepo.ListByProfile(ctx, profileID)
	if err != nil {
		return nil, NewBusinessError("GROUP_CREATE_FAILED", "Group create failed", err)
	}

	position := 0
	for _, g := range groups {
		if g.Position >= position {
			position = g.Position + 1
		}
	}

	group := &models.LinkGroup{
		ProfileID: profileID,
		Title:     request.Title,
		Position:  position,
	}
	if err := gf.groupRepo.Save(ctx, group); err != nil {
		return nil, NewBusinessError("GROUP_CREATE_FAILED", "Group create failed", err)
	}

	gf.invalidatePage(ctx, profileID)
	result := ToLinkGroupDTO(*group, 0)
	return &result, nil
}

// UpdateGroup applies a partial update to a group owned by the profile
func (gf *GroupFlowImpl) UpdateGroup(ctx context.Context, profileID, groupID uint, request *dto.UpdateLinkGroupRequest) (*dto.LinkGroupDTO, error) {
	group, err := gf.ownedGroup(ctx, profileID, groupID)
	if err != nil {
		return nil, err
	}

	if request.Title != nil {
		group.Title = *request.Title
	}
	if request.Position != nil {
		group.Position = *request.Position
	}
	if request.IsCollapsed != nil {
		group.IsCollapsed = request.IsCollapsed
	}

	if err := gf.groupRepo.Update(ctx, group); err != nil {
		return nil, NewBusinessError("GROUP_UPDATE_FAILED", "Group update failed", err)
	}

	count, _ := gf.linkRepo.Count(ctx, models.LinkFilter{ProfileID: &profileID, GroupID: &group.ID})
	gf.invalidatePage(ctx, profileID)
	result := ToLinkGroupDTO(*group, count)
	return &result, nil
}

// DeleteGroup removes a group. Member links survive and fall back to the
// ungrouped section.
func (gf *GroupFlowImpl) DeleteGroup(ctx context.Context, profileID, groupID uint) error {
	if _, err := gf.ownedGroup(ctx, profileID, groupID); err != nil {
		return err
	}

	err := repository.WithTransaction(ctx, gf.db, func(ctx context.Context) error {
		if err := gf.linkRepo.DetachGroup(ctx, groupID); err != nil {
			return err
		}
		return gf.groupRepo.Delete(ctx, groupID)
	})
	if err != nil {
		return NewBusinessError("GROUP_DELETE_FAILED", "Group delete failed", err)
	}

	gf.invalidatePage(ctx, profileID)
	return nil
}

func (gf *GroupFlowImpl) ownedGroup(ctx context.Context, profileID, groupID uint) (*models.LinkGroup, error) {
	group, err := gf.groupRepo.ByID(ctx, groupID)
	if err != nil {
		return nil, NewBusinessError("GROUP_LOOKUP_FAILED", "Group lookup failed", err)
	}
	if group == nil {
		return nil, NewBusinessError("GROUP_NOT_FOUND", "Link group not found", ErrGroupNotFound)
	}
	if group.ProfileID != profileID {
		return nil, NewBusinessError("GROUP_ACCESS_DENIED", "Link group access denied", ErrGroupAccessDenied)
	}
	return group, nil
}

func (gf *GroupFlowImpl) invalidatePage(ctx context.Context, profileID uint) {
	if profile, err := gf.profileRepo.ByID(ctx, profileID); err == nil && profile != nil {
		invalidatePageCache(ctx, gf.rc, gf.cacheConfig, profile.Username)
	}
}
