package businessflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silovra/silovra-backend/app/dto"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/utils"
)

func visibleLink(id uint, title string) *models.Link {
	return &models.Link{
		ID:        id,
		Title:     title,
		URL:       "https://example.com/" + title,
		LinkType:  models.LinkTypeStandard,
		IsVisible: utils.ToPtr(true),
		IsPinned:  utils.ToPtr(false),
	}
}

func sectionTitles(sections []dto.PublicLinkSectionDTO) []string {
	out := make([]string, 0, len(sections))
	for _, s := range sections {
		out = append(out, s.Title)
	}
	return out
}

func linkTitles(section dto.PublicLinkSectionDTO) []string {
	out := make([]string, 0, len(section.Links))
	for _, l := range section.Links {
		out = append(out, l.Title)
	}
	return out
}

func TestFilterVisibleLinks(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	hidden := visibleLink(1, "hidden")
	hidden.IsVisible = utils.ToPtr(false)

	notYet := visibleLink(2, "not-yet")
	notYet.ScheduleStart = utils.ToPtr(now.Add(time.Hour))

	expired := visibleLink(3, "expired")
	expired.ScheduleEnd = utils.ToPtr(now.Add(-time.Hour))

	inWindow := visibleLink(4, "in-window")
	inWindow.ScheduleStart = utils.ToPtr(now.Add(-time.Hour))
	inWindow.ScheduleEnd = utils.ToPtr(now.Add(time.Hour))

	unscheduled := visibleLink(5, "unscheduled")

	visible := FilterVisibleLinks([]*models.Link{hidden, notYet, expired, inWindow, unscheduled}, now)

	require.Len(t, visible, 2)
	assert.Equal(t, "in-window", visible[0].Title)
	assert.Equal(t, "unscheduled", visible[1].Title)
}

func TestArrangeLinks_FlatDefault(t *testing.T) {
	links := []*models.Link{
		visibleLink(1, "first"),
		visibleLink(2, "second"),
	}

	arrangement, sections := ArrangeLinks(links, nil)

	assert.Equal(t, dto.ArrangementFlat, arrangement)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Title)
	assert.Equal(t, []string{"first", "second"}, linkTitles(sections[0]))
}

func TestArrangeLinks_PinnedFloatsFirstKeepingOrder(t *testing.T) {
	a := visibleLink(1, "a")
	b := visibleLink(2, "b")
	b.IsPinned = utils.ToPtr(true)
	c := visibleLink(3, "c")
	d := visibleLink(4, "d")
	d.IsPinned = utils.ToPtr(true)

	_, sections := ArrangeLinks([]*models.Link{a, b, c, d}, nil)

	require.Len(t, sections, 1)
	// Pinned links lead in their original relative order, the rest follow
	// in theirs
	assert.Equal(t, []string{"b", "d", "a", "c"}, linkTitles(sections[0]))
}

func TestArrangeLinks_Grouped(t *testing.T) {
	groups := []*models.LinkGroup{
		{ID: 10, Title: "Music", IsCollapsed: utils.ToPtr(false)},
		{ID: 20, Title: "Merch", IsCollapsed: utils.ToPtr(true)},
		{ID: 30, Title: "Empty", IsCollapsed: utils.ToPtr(false)},
	}

	loose := visibleLink(1, "loose")
	inMusic := visibleLink(2, "in-music")
	inMusic.GroupID = utils.ToPtr(uint(10))
	inMerch := visibleLink(3, "in-merch")
	inMerch.GroupID = utils.ToPtr(uint(20))

	arrangement, sections := ArrangeLinks([]*models.Link{inMerch, loose, inMusic}, groups)

	assert.Equal(t, dto.ArrangementGrouped, arrangement)
	require.Len(t, sections, 3)

	// Ungrouped links lead in an untitled section
	assert.Empty(t, sections[0].Title)
	assert.Nil(t, sections[0].GroupID)
	assert.Equal(t, []string{"loose"}, linkTitles(sections[0]))

	// Group sections follow the groups' own order, empty groups are skipped
	assert.Equal(t, []string{"", "Music", "Merch"}, sectionTitles(sections))
	require.NotNil(t, sections[1].GroupID)
	assert.Equal(t, uint(10), *sections[1].GroupID)
	assert.False(t, sections[1].IsCollapsed)
	assert.True(t, sections[2].IsCollapsed)
	assert.Equal(t, []string{"in-merch"}, linkTitles(sections[2]))
}

func TestArrangeLinks_GroupingWinsOverCategories(t *testing.T) {
	grouped := visibleLink(1, "grouped")
	grouped.GroupID = utils.ToPtr(uint(10))
	categorized := visibleLink(2, "categorized")
	categorized.Category = utils.ToPtr("Videos")

	groups := []*models.LinkGroup{{ID: 10, Title: "Music", IsCollapsed: utils.ToPtr(false)}}

	arrangement, _ := ArrangeLinks([]*models.Link{grouped, categorized}, groups)

	assert.Equal(t, dto.ArrangementGrouped, arrangement)
}

func TestArrangeLinks_UnreferencedGroupStillRendersGrouped(t *testing.T) {
	a := visibleLink(1, "a")
	a.Category = utils.ToPtr("Videos")
	b := visibleLink(2, "b")

	// The group exists but no link belongs to it yet; categories must not
	// take over
	groups := []*models.LinkGroup{{ID: 10, Title: "Music", IsCollapsed: utils.ToPtr(false)}}

	arrangement, sections := ArrangeLinks([]*models.Link{a, b}, groups)

	assert.Equal(t, dto.ArrangementGrouped, arrangement)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Title)
	assert.Equal(t, []string{"a", "b"}, linkTitles(sections[0]))
}

func TestArrangeLinks_Categorized(t *testing.T) {
	v1 := visibleLink(1, "v1")
	v1.Category = utils.ToPtr("Videos")
	plain := visibleLink(2, "plain")
	m1 := visibleLink(3, "m1")
	m1.Category = utils.ToPtr("Music")
	v2 := visibleLink(4, "v2")
	v2.Category = utils.ToPtr("Videos")

	arrangement, sections := ArrangeLinks([]*models.Link{v1, plain, m1, v2}, nil)

	assert.Equal(t, dto.ArrangementCategorized, arrangement)
	require.Len(t, sections, 3)

	// Uncategorized first, then categories in first-appearance order
	assert.Equal(t, []string{"", "Videos", "Music"}, sectionTitles(sections))
	assert.Equal(t, []string{"plain"}, linkTitles(sections[0]))
	assert.Equal(t, []string{"v1", "v2"}, linkTitles(sections[1]))
	assert.Equal(t, []string{"m1"}, linkTitles(sections[2]))
}

func TestArrangeLinks_EmptyInput(t *testing.T) {
	arrangement, sections := ArrangeLinks(nil, nil)

	assert.Equal(t, dto.ArrangementFlat, arrangement)
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Links)
}
