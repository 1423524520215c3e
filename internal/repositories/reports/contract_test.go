package reports_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/repositories/reports"
	"github.com/KirkDiggler/fps-hud/internal/standard"
	"github.com/KirkDiggler/fps-hud/internal/testutils"
)

// runRepositoryContract exercises behavior every Repository implementation shares
func runRepositoryContract(t *testing.T, repo reports.Repository) {
	ctx := context.Background()

	t.Run("pool stats keep save order", func(t *testing.T) {
		for i := 1; i <= 3; i++ {
			snapshot := testutils.PoolSnapshotFixture("contract-run", i)
			require.NoError(t, repo.SavePoolStats(ctx, snapshot))
			assert.False(t, snapshot.RecordedAt.IsZero())
		}

		snapshots, err := repo.ListPoolStats(ctx, "contract-run")
		require.NoError(t, err)
		require.Len(t, snapshots, 3)
		for i, snapshot := range snapshots {
			assert.Equal(t, int64((i+1)*1000), snapshot.ElapsedMS)
			assert.Equal(t, snapshot.Stats.Total, snapshot.Stats.Available+snapshot.Stats.InUse)
		}
	})

	t.Run("unknown run is not found", func(t *testing.T) {
		_, err := repo.ListPoolStats(ctx, "never-ran")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("compliance reports round trip", func(t *testing.T) {
		engine, err := standard.NewEngine(nil)
		require.NoError(t, err)

		for _, component := range testutils.ComponentFixtures() {
			report := engine.AnalyzeComponent(component)
			require.NoError(t, repo.SaveComplianceReport(ctx, &report))
		}

		record, err := repo.GetComplianceReport(ctx, "KillFeed")
		require.NoError(t, err)
		assert.Equal(t, 50, record.Report.Compliance)
		assert.False(t, record.SavedAt.IsZero())

		records, err := repo.ListComplianceReports(ctx)
		require.NoError(t, err)
		var names []string
		for _, r := range records {
			names = append(names, r.Report.Component)
		}
		assert.Equal(t, []string{"AmmoCounter", "KillFeed", "Notifications"}, names)
	})

	t.Run("saving again replaces the report", func(t *testing.T) {
		report := &standard.ComponentReport{Component: "KillFeed", Total: 2, StandardCount: 2, Compliance: 100}
		require.NoError(t, repo.SaveComplianceReport(ctx, report))

		record, err := repo.GetComplianceReport(ctx, "KillFeed")
		require.NoError(t, err)
		assert.Equal(t, 100, record.Report.Compliance)
	})

	t.Run("missing report is not found", func(t *testing.T) {
		_, err := repo.GetComplianceReport(ctx, "Radar")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("stored snapshots are not aliased", func(t *testing.T) {
		snapshot := testutils.PoolSnapshotFixture("alias-run", 1)
		require.NoError(t, repo.SavePoolStats(ctx, snapshot))
		snapshot.Stats = pool.Stats{}

		snapshots, err := repo.ListPoolStats(ctx, "alias-run")
		require.NoError(t, err)
		assert.NotZero(t, snapshots[0].Stats.Total)
	})
}
