package businessflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	businessflow "github.com/silovra/silovra-backend/business_flow"
	"github.com/silovra/silovra-backend/config"
	"github.com/silovra/silovra-backend/repository"
	testingutil "github.com/silovra/silovra-backend/testing"
	"github.com/silovra/silovra-backend/utils"
)

func withGroupFlow(t *testing.T, fn func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures, flow businessflow.GroupFlow)) {
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

	flow := businessflow.NewGroupFlow(
		repository.NewProfileRepository(tdb.DB),
		repository.NewLinkGroupRepository(tdb.DB),
		repository.NewLinkRepository(tdb.DB),
		nil,
		&config.CacheConfig{},
		tdb.DB,
	)
	fn(t, tdb, testingutil.NewTestFixtures(tdb), flow)
}

func TestDeleteGroup(t *testing.T) {
	withGroupFlow(t, func(t *testing.T, tdb *testingutil.TestDB, fx *testingutil.TestFixtures, flow businessflow.GroupFlow) {
		ctx := context.Background()
		linkRepo := repository.NewLinkRepository(tdb.DB)
		groupRepo := repository.NewLinkGroupRepository(tdb.DB)

		owner, err := fx.CreateTestProfile(utils.PlanPro)
		require.NoError(t, err)
		stranger, err := fx.CreateTestProfile(utils.PlanFree)
		require.NoError(t, err)

		group, err := fx.CreateTestGroup(owner.ID, "Music", 0)
		require.NoError(t, err)

		member, err := fx.CreateTestLink(owner.ID, 0)
		require.NoError(t, err)
		member.GroupID = &group.ID
		require.NoError(t, linkRepo.Update(ctx, member))

		t.Run("other profiles cannot delete", func(t *testing.T) {
			err := flow.DeleteGroup(ctx, stranger.ID, group.ID)
			assert.True(t, businessflow.IsGroupAccessDenied(err))
		})

		t.Run("delete detaches member links", func(t *testing.T) {
			require.NoError(t, flow.DeleteGroup(ctx, owner.ID, group.ID))

			gone, err := groupRepo.ByID(ctx, group.ID)
			require.NoError(t, err)
			assert.Nil(t, gone)

			// The link survives, back in the ungrouped section
			survivor, err := linkRepo.ByID(ctx, member.ID)
			require.NoError(t, err)
			require.NotNil(t, survivor)
			assert.Nil(t, survivor.GroupID)
		})
	})
}
