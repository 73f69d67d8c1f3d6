package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silovra/silovra-backend/models"
	"github.com/silovra/silovra-backend/repository"
	testingutil "github.com/silovra/silovra-backend/testing"
	"github.com/silovra/silovra-backend/utils"
)

// withTestDB provisions a fresh database per test and skips when PostgreSQL
// is not reachable.
func withTestDB(t *testing.T, fn func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures)) {
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

	fn(t, tdb, testingutil.NewTestFixtures(tdb))
}

func TestProfileRepository(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures) {
		ctx := context.Background()
		repo := repository.NewProfileRepository(tdb.DB)

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		t.Run("by username", func(t *testing.T) {
			found, err := repo.ByUsername(ctx, profile.Username)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, profile.ID, found.ID)
			assert.Equal(t, profile.Email, found.Email)
		})

		t.Run("unknown username yields nil", func(t *testing.T) {
			found, err := repo.ByUsername(ctx, "nobody-here")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("by uuid", func(t *testing.T) {
			found, err := repo.ByUUID(ctx, profile.UUID)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, profile.ID, found.ID)
		})

		t.Run("update plan with customer ref", func(t *testing.T) {
			ref := "cus_abc123"
			require.NoError(t, repo.UpdatePlan(ctx, profile.ID, utils.PlanPro, &ref))

			found, err := repo.ByPaymentCustomerRef(ctx, ref)
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, utils.PlanPro, found.Plan)
			assert.True(t, found.IsPro())
		})

		t.Run("increment total views", func(t *testing.T) {
			require.NoError(t, repo.IncrementTotalViews(ctx, profile.ID))
			require.NoError(t, repo.IncrementTotalViews(ctx, profile.ID))

			found, err := repo.ByID(ctx, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), found.TotalViews)
		})
	})
}

func TestLinkRepository(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures) {
		ctx := context.Background()
		repo := repository.NewLinkRepository(tdb.DB)

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		first, err := fx.CreateTestLink(profile.ID, 0)
		require.NoError(t, err)
		second, err := fx.CreateTestLink(profile.ID, 1)
		require.NoError(t, err)
		third, err := fx.CreateTestLink(profile.ID, 2)
		require.NoError(t, err)

		t.Run("list in position order", func(t *testing.T) {
			links, err := repo.ListByProfile(ctx, profile.ID)
			require.NoError(t, err)
			require.Len(t, links, 3)
			assert.Equal(t, first.ID, links[0].ID)
			assert.Equal(t, second.ID, links[1].ID)
			assert.Equal(t, third.ID, links[2].ID)
		})

		t.Run("max position", func(t *testing.T) {
			max, err := repo.MaxPosition(ctx, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, max)
		})

		t.Run("max position for empty profile", func(t *testing.T) {
			other, err := fx.CreateTestProfile(utils.PlanFree)
			require.NoError(t, err)

			max, err := repo.MaxPosition(ctx, other.ID)
			require.NoError(t, err)
			assert.Equal(t, -1, max)
		})

		t.Run("reorder", func(t *testing.T) {
			require.NoError(t, repo.UpdatePositions(ctx, profile.ID, []uint{third.ID, first.ID, second.ID}))

			links, err := repo.ListByProfile(ctx, profile.ID)
			require.NoError(t, err)
			require.Len(t, links, 3)
			assert.Equal(t, third.ID, links[0].ID)
			assert.Equal(t, first.ID, links[1].ID)
			assert.Equal(t, second.ID, links[2].ID)
		})

		t.Run("increment click count", func(t *testing.T) {
			require.NoError(t, repo.IncrementClickCount(ctx, first.ID))

			found, err := repo.ByID(ctx, first.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(1), found.ClickCount)
		})

		t.Run("detach group", func(t *testing.T) {
			group, err := fx.CreateTestGroup(profile.ID, "Music", 0)
			require.NoError(t, err)

			second.GroupID = &group.ID
			require.NoError(t, repo.Update(ctx, second))

			require.NoError(t, repo.DetachGroup(ctx, group.ID))

			found, err := repo.ByID(ctx, second.ID)
			require.NoError(t, err)
			assert.Nil(t, found.GroupID)
		})

		t.Run("delete", func(t *testing.T) {
			require.NoError(t, repo.Delete(ctx, third.ID))

			found, err := repo.ByID(ctx, third.ID)
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	})
}

func TestLinkClickRepository(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures) {
		ctx := context.Background()
		repo := repository.NewLinkClickRepository(tdb.DB)

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)
		link, err := fx.CreateTestLink(profile.ID, 0)
		require.NoError(t, err)

		now := utils.UTCNow()
		_, err = fx.CreateTestClick(link.ID, profile.ID, now.Add(-time.Hour))
		require.NoError(t, err)
		_, err = fx.CreateTestClick(link.ID, profile.ID, now.Add(-2*time.Hour))
		require.NoError(t, err)
		_, err = fx.CreateTestClick(link.ID, profile.ID, now.Add(-40*24*time.Hour))
		require.NoError(t, err)

		t.Run("count since", func(t *testing.T) {
			count, err := repo.CountByProfileSince(ctx, profile.ID, now.Add(-24*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("counts by device", func(t *testing.T) {
			counts, err := repo.CountsByDevice(ctx, profile.ID, now.Add(-24*time.Hour))
			require.NoError(t, err)
			require.Len(t, counts, 1)
			assert.Equal(t, models.DeviceDesktop, counts[0].Value)
			assert.Equal(t, int64(2), counts[0].Count)
		})

		t.Run("counts by browser", func(t *testing.T) {
			counts, err := repo.CountsByBrowser(ctx, profile.ID, now.Add(-24*time.Hour))
			require.NoError(t, err)
			require.Len(t, counts, 1)
			assert.Equal(t, "Chrome", counts[0].Value)
		})

		t.Run("delete older than", func(t *testing.T) {
			removed, err := repo.DeleteOlderThan(ctx, now.Add(-30*24*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(1), removed)

			count, err := repo.CountByProfileSince(ctx, profile.ID, now.Add(-60*24*time.Hour))
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})
	})
}

func TestProfileSessionRepository_DeleteExpiredBefore(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures) {
		ctx := context.Background()
		repo := repository.NewProfileSessionRepository(tdb.DB)

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		live, err := fx.CreateTestSession(profile.ID)
		require.NoError(t, err)

		stale, err := fx.CreateTestSession(profile.ID)
		require.NoError(t, err)
		require.NoError(t, tdb.DB.Model(&models.ProfileSession{}).
			Where("id = ?", stale.ID).
			Update("expires_at", utils.UTCNow().Add(-48*time.Hour)).Error)

		removed, err := repo.DeleteExpiredBefore(ctx, utils.UTCNow().Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		found, err := repo.ByID(ctx, live.ID)
		require.NoError(t, err)
		assert.NotNil(t, found)

		gone, err := repo.ByID(ctx, stale.ID)
		require.NoError(t, err)
		assert.Nil(t, gone)
	})
}

func TestSubscriberRepository(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures) {
		ctx := context.Background()
		repo := repository.NewSubscriberRepository(tdb.DB)

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		sub, err := fx.CreateTestSubscriber(profile.ID, "fan@example.com")
		require.NoError(t, err)

		t.Run("by profile and email", func(t *testing.T) {
			found, err := repo.ByProfileAndEmail(ctx, profile.ID, "fan@example.com")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, sub.ID, found.ID)
		})

		t.Run("duplicate email rejected by constraint", func(t *testing.T) {
			err := repo.Save(ctx, &models.Subscriber{
				ProfileID: profile.ID,
				Email:     "fan@example.com",
				CreatedAt: utils.UTCNow(),
			})
			assert.Error(t, err)
		})

		t.Run("same email allowed on another profile", func(t *testing.T) {
			other, err := fx.CreateTestProfile(utils.PlanFree)
			require.NoError(t, err)

			_, err = fx.CreateTestSubscriber(other.ID, "fan@example.com")
			assert.NoError(t, err)
		})

		t.Run("delete", func(t *testing.T) {
			require.NoError(t, repo.Delete(ctx, sub.ID))

			found, err := repo.ByProfileAndEmail(ctx, profile.ID, "fan@example.com")
			require.NoError(t, err)
			assert.Nil(t, found)
		})
	})
}

func TestNotificationRepository(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures) {
		ctx := context.Background()
		repo := repository.NewNotificationRepository(tdb.DB)

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		for _, message := range []string{"first", "second", "third"} {
			require.NoError(t, repo.Save(ctx, &models.Notification{
				ProfileID: profile.ID,
				Type:      models.NotificationTypeSystem,
				Message:   message,
				IsRead:    utils.ToPtr(false),
				CreatedAt: utils.UTCNow(),
			}))
		}

		t.Run("count unread", func(t *testing.T) {
			count, err := repo.CountUnread(ctx, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(3), count)
		})

		t.Run("mark one read", func(t *testing.T) {
			list, err := repo.ListByProfile(ctx, profile.ID, 10, 0)
			require.NoError(t, err)
			require.NotEmpty(t, list)

			require.NoError(t, repo.MarkRead(ctx, profile.ID, list[0].ID))

			count, err := repo.CountUnread(ctx, profile.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(2), count)
		})

		t.Run("mark all read", func(t *testing.T) {
			require.NoError(t, repo.MarkAllRead(ctx, profile.ID))

			count, err := repo.CountUnread(ctx, profile.ID)
			require.NoError(t, err)
			assert.Zero(t, count)
		})
	})
}

func TestPaymentEventRepository(t *testing.T) {
	withTestDB(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures) {
		ctx := context.Background()
		repo := repository.NewPaymentEventRepository(tdb.DB)

		profile, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		event := &models.PaymentEvent{
			ProfileID: profile.ID,
			Provider:  utils.ProviderStripe,
			Reference: "evt_test_1",
			EventType: "checkout.session.completed",
			Status:    models.PaymentEventStatusCompleted,
			CreatedAt: utils.UTCNow(),
			UpdatedAt: utils.UTCNow(),
		}
		require.NoError(t, repo.Save(ctx, event))

		t.Run("lookup by provider and reference", func(t *testing.T) {
			found, err := repo.ByProviderAndReference(ctx, utils.ProviderStripe, "evt_test_1")
			require.NoError(t, err)
			require.NotNil(t, found)
			assert.Equal(t, event.ID, found.ID)
		})

		t.Run("unknown reference yields nil", func(t *testing.T) {
			found, err := repo.ByProviderAndReference(ctx, utils.ProviderStripe, "evt_missing")
			require.NoError(t, err)
			assert.Nil(t, found)
		})

		t.Run("duplicate reference rejected by constraint", func(t *testing.T) {
			err := repo.Save(ctx, &models.PaymentEvent{
				ProfileID: profile.ID,
				Provider:  utils.ProviderStripe,
				Reference: "evt_test_1",
				EventType: "checkout.session.completed",
				Status:    models.PaymentEventStatusCompleted,
			})
			assert.Error(t, err)
		})

		t.Run("same reference on another provider is fine", func(t *testing.T) {
			err := repo.Save(ctx, &models.PaymentEvent{
				ProfileID: profile.ID,
				Provider:  utils.ProviderPayPal,
				Reference: "evt_test_1",
				EventType: "capture",
				Status:    models.PaymentEventStatusCompleted,
			})
			assert.NoError(t, err)
		})
	})
}
