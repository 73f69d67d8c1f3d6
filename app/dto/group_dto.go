package dto

// LinkGroupDTO is the owner-facing view of a link group
type LinkGroupDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	IsCollapsed bool   `json:"is_collapsed"`
	LinkCount   int64  `json:"link_count"`
	CreatedAt   string `json:"created_at"`
}

// CreateLinkGroupRequest represents the request to create a link group
type CreateLinkGroupRequest struct {
	Title string `json:"title" validate:"required,min=1,max=120"`
}

// UpdateLinkGroupRequest represents a partial update of a link group
type UpdateLinkGroupRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Position    *int    `json:"position,omitempty" validate:"omitempty,gte=0"`
	IsCollapsed *bool   `json:"is_collapsed,omitempty"`
}

// ListLinkGroupsResponse represents the owner's group list
type ListLinkGroupsResponse struct {
	Groups []LinkGroupDTO `json:"groups"`
	Total  int            `json:"total"`
}
