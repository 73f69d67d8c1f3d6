package businessflow_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/silovra/silovra-backend/app/dto"
	businessflow "github.com/silovra/silovra-backend/business_flow"
	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	testingutil "github.com/silovra/silovra-backend/testing"
	"github.com/silovra/silovra-backend/utils"
)

func withSubscriberFlow(t *testing.T, fn func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures, flow businessflow.SubscriberFlow)) {
	t.Helper()

	tdb, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := tdb.TeardownTestDB(); err != nil {
			t.Logf("teardown failed: %v", err)
		}
	})

	flow := businessflow.NewSubscriberFlow(
		repository.NewProfileRepository(tdb.DB),
		repository.NewSubscriberRepository(tdb.DB),
		repository.NewNotificationRepository(tdb.DB),
	)
	fn(t, tdb, testingutil.NewTestFixtures(tdb), flow)
}

func enableEmailCollection(t *testing.T, tdb *testingutil.TestDB, profileID uint) {
	t.Helper()
	require.NoError(t, tdb.DB.Model(&models.Profile{}).
		Where("id = ?", profileID).
		Update("enable_email_collection", true).Error)
}

func TestSubscribe(t *testing.T) {
	withSubscriberFlow(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures, flow businessflow.SubscriberFlow) {
		ctx := context.Background()

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		t.Run("disabled by default", func(t *testing.T) {
			_, err := flow.Subscribe(ctx, profile.Username, &dto.SubscribeRequest{Email: "fan@example.com"})
			assert.True(t, businessflow.IsEmailCollectionDisabled(err))
		})

		enableEmailCollection(t, tdb, profile.ID)

		t.Run("subscribes and notifies the owner", func(t *testing.T) {
			resp, err := flow.Subscribe(ctx, profile.Username, &dto.SubscribeRequest{Email: "Fan@Example.com"})
			require.NoError(t, err)
			assert.True(t, resp.Subscribed)

			// Email is stored lowercased
			list, err := flow.ListSubscribers(ctx, profile.ID)
			require.NoError(t, err)
			require.Equal(t, 1, list.Total)
			assert.Equal(t, "fan@example.com", list.Subscribers[0].Email)

			notificationRepo := repository.NewNotificationRepository(tdb.DB)
			unread, err := notificationRepo.CountUnread(ctx, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), unread)
		})

		t.Run("duplicate email still reports subscribed", func(t *testing.T) {
			resp, err := flow.Subscribe(ctx, profile.Username, &dto.SubscribeRequest{Email: "fan@example.com"})
			require.NoError(t, err)
			assert.True(t, resp.Subscribed)

			list, err := flow.ListSubscribers(ctx, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, list.Total)
		})

		t.Run("unknown page", func(t *testing.T) {
			_, err := flow.Subscribe(ctx, "no-such-page", &dto.SubscribeRequest{Email: "fan@example.com"})
			assert.True(t, businessflow.IsPageNotFound(err))
		})
	})
}

func TestDeleteSubscriber(t *testing.T) {
	withSubscriberFlow(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures, flow businessflow.SubscriberFlow) {
		ctx := context.Background()

		owner, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)
		stranger, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		sub, err := fx.CreateTestSubscriber(owner.ID, "fan@example.com")
		require.NoError(t, err)

		t.Run("other profiles cannot delete", func(t *testing.T) {
			err := flow.DeleteSubscriber(ctx, stranger.ID, sub.ID)
			assert.True(t, businessflow.IsSubscriberNotFound(err))
		})

		t.Run("owner deletes", func(t *testing.T) {
			require.NoError(t, flow.DeleteSubscriber(ctx, owner.ID, sub.ID))

			list, err := flow.ListSubscribers(ctx, owner.ID)
			require.NoError(t, err)
			assert.Zero(t, list.Total)
		})
	})
}

func TestExportSubscribers(t *testing.T) {
	withSubscriberFlow(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures, flow businessflow.SubscriberFlow) {
		ctx := context.Background()

		profile, err := fx.CreateTestProfile(utils.PlanPro)
		require.NoError(t, err)

		_, err = fx.CreateTestSubscriber(profile.ID, "one@example.com")
		require.NoError(t, err)
		_, err = fx.CreateTestSubscriber(profile.ID, "two@example.com")
		require.NoError(t, err)

		content, filename, err := flow.ExportSubscribers(ctx, profile.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filename, profile.Username+"-subscribers-"))
		assert.True(t, strings.HasSuffix(filename, ".xlsx"))

		workbook, err := excelize.OpenReader(bytes.NewReader(content))
		require.NoError(t, err)
		defer workbook.Close()

		rows, err := workbook.GetRows("Subscribers")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Email", "Subscribed At"}, rows[0][:2])

		emails := []string{rows[1][0], rows[2][0]}
		assert.ElementsMatch(t, []string{"one@example.com", "two@example.com"}, emails)
	})
}
