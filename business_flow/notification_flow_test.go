package businessflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businessflow "github.com/silovra/silovra-backend/business_flow"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	testingutil "github.com/silovra/silovra-backend/testing"
	"github.com/silovra/silovra-backend/utils"
)

func TestNotificationFlow(t *testing.T) {
	tdb, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := tdb.TeardownTestDB(); err != nil {
			t.Logf("teardown failed: %v", err)
		}
	})

	ctx := context.Background()
	fx := testingutil.NewTestFixtures(tdb)
	notificationRepo := repository.NewNotificationRepository(tdb.DB)
	flow := businessflow.NewNotificationFlow(notificationRepo)

	profile, err := fx.CreateTestProfile(utils.PlanFree)
	require.NoError(t, err)

	for _, message := range []string{"first", "second", "third"} {
		require.NoError(t, notificationRepo.Save(ctx, &models.Notification{
			ProfileID: profile.ID,
			Type:      models.NotificationTypeSystem,
			Message:   message,
			IsRead:    utils.ToPtr(false),
			CreatedAt: utils.UTCNow(),
		}))
	}

	t.Run("list returns the feed with unread count", func(t *testing.T) {
		resp, err := flow.ListNotifications(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Total)
		assert.Equal(t, int64(3), resp.UnreadCount)
		require.Len(t, resp.Notifications, 3)
	})

	t.Run("mark read", func(t *testing.T) {
		resp, err := flow.ListNotifications(ctx, profile.ID)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Notifications)

		require.NoError(t, flow.MarkRead(ctx, profile.ID, resp.Notifications[0].ID))

		resp, err = flow.ListNotifications(ctx, profile.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.UnreadCount)
	})

	t.Run("mark read rejects foreign notifications", func(t *testing.T) {
		other, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		resp, err := flow.ListNotifications(ctx, profile.ID)
		require.NoError(t, err)
		require.NotEmpty(t, resp.Notifications)

		err = flow.MarkRead(ctx, other.ID, resp.Notifications[0].ID)
		assert.True(t, businessflow.IsNotificationNotFound(err))
	})

	t.Run("mark all read", func(t *testing.T) {
		require.NoError(t, flow.MarkAllRead(ctx, profile.ID))

		resp, err := flow.ListNotifications(ctx, profile.ID)
		require.NoError(t, err)
		assert.Zero(t, resp.UnreadCount)
	})
}
