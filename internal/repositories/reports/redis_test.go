package reports_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/repositories/reports"
	mockreports "github.com/KirkDiggler/fps-hud/internal/repositories/reports/mock"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient   *redis.Client
	mock         redismock.ClientMock
	repo         reports.Repository
	mockCtrl     *gomock.Controller
	timeProvider *mockreports.MockTimeProvider
	now          time.Time
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mockreports.NewMockTimeProvider(s.mockCtrl)
	s.now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	repo, err := reports.NewRedis(&reports.RedisRepoConfig{
		Client:       s.mockClient,
		KeyPrefix:    "hud:",
		TTL:          time.Hour,
		TimeProvider: s.timeProvider,
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *RedisRepoTestSuite) snapshot() *reports.PoolSnapshot {
	return &reports.PoolSnapshot{
		RunID:     "run-1",
		Pool:      "kill_feed",
		Pooled:    true,
		Stats:     pool.Stats{Available: 3, InUse: 2, Total: 5, Created: 5, Acquired: 40, Released: 38},
		Emitted:   40,
		ElapsedMS: 1000,
	}
}

func (s *RedisRepoTestSuite) report() *standard.ComponentReport {
	return &standard.ComponentReport{
		Component:     "KillFeed",
		Total:         2,
		StandardCount: 1,
		Compliance:    50,
		Events: []standard.EventReport{
			{Name: "hit:landed", StandardName: "hit:registered", Category: "combat"},
			{Name: "enemy:killed", StandardName: "enemy:killed", IsStandard: true, Category: "combat"},
		},
		Suggestions: []standard.Suggestion{{From: "hit:landed", To: "hit:registered", Reason: "legacy name"}},
	}
}

func (s *RedisRepoTestSuite) TestSavePoolStats() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now).Times(2)

	expected := s.snapshot()
	expected.RecordedAt = s.now
	data, err := json.Marshal(expected)
	s.Require().NoError(err)

	// Happy path
	s.mock.ExpectRPush("hud:run:run-1:pool_stats", string(data)).SetVal(1)
	s.mock.ExpectSAdd("hud:runs", "run-1").SetVal(1)
	s.mock.ExpectExpire("hud:run:run-1:pool_stats", time.Hour).SetVal(true)

	snapshot := s.snapshot()
	s.NoError(s.repo.SavePoolStats(ctx, snapshot))
	s.Equal(s.now, snapshot.RecordedAt)

	// Dependency error
	s.mock.ExpectRPush("hud:run:run-1:pool_stats", string(data)).SetErr(stderrors.New("redis error"))

	err = s.repo.SavePoolStats(ctx, s.snapshot())
	s.Error(err)

	// Input validation
	s.True(errors.IsInvalidArgument(s.repo.SavePoolStats(ctx, nil)))
	s.True(errors.IsInvalidArgument(s.repo.SavePoolStats(ctx, &reports.PoolSnapshot{})))
}

func (s *RedisRepoTestSuite) TestListPoolStats() {
	ctx := context.Background()

	first := s.snapshot()
	first.RecordedAt = s.now
	second := s.snapshot()
	second.ElapsedMS = 2000
	second.RecordedAt = s.now.Add(time.Second)

	firstData, err := json.Marshal(first)
	s.Require().NoError(err)
	secondData, err := json.Marshal(second)
	s.Require().NoError(err)

	s.mock.ExpectLRange("hud:run:run-1:pool_stats", 0, -1).SetVal([]string{string(firstData), string(secondData)})

	snapshots, err := s.repo.ListPoolStats(ctx, "run-1")
	s.Require().NoError(err)
	s.Require().Len(snapshots, 2)
	s.Equal(int64(1000), snapshots[0].ElapsedMS)
	s.Equal(int64(2000), snapshots[1].ElapsedMS)
	s.Equal(first.Stats, snapshots[0].Stats)
	s.True(second.RecordedAt.Equal(snapshots[1].RecordedAt))
}

func (s *RedisRepoTestSuite) TestListPoolStats_UnknownRun() {
	s.mock.ExpectLRange("hud:run:missing:pool_stats", 0, -1).SetVal([]string{})

	_, err := s.repo.ListPoolStats(context.Background(), "missing")
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestListPoolStats_CorruptValue() {
	s.mock.ExpectLRange("hud:run:run-1:pool_stats", 0, -1).SetVal([]string{"{not json"})

	_, err := s.repo.ListPoolStats(context.Background(), "run-1")
	s.Error(err)
	s.False(errors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestSaveComplianceReport() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	data, err := json.Marshal(reports.ComplianceRecord{Report: s.report(), SavedAt: s.now})
	s.Require().NoError(err)

	s.mock.ExpectSet("hud:compliance:KillFeed", string(data), time.Hour).SetVal("OK")
	s.mock.ExpectSAdd("hud:compliance_components", "KillFeed").SetVal(1)

	s.NoError(s.repo.SaveComplianceReport(ctx, s.report()))

	s.True(errors.IsInvalidArgument(s.repo.SaveComplianceReport(ctx, nil)))
	s.True(errors.IsInvalidArgument(s.repo.SaveComplianceReport(ctx, &standard.ComponentReport{})))
}

func (s *RedisRepoTestSuite) TestGetComplianceReport() {
	ctx := context.Background()
	data, err := json.Marshal(reports.ComplianceRecord{Report: s.report(), SavedAt: s.now})
	s.Require().NoError(err)

	// Happy path
	s.mock.ExpectGet("hud:compliance:KillFeed").SetVal(string(data))

	record, err := s.repo.GetComplianceReport(ctx, "KillFeed")
	s.Require().NoError(err)
	s.Equal(s.report(), record.Report)
	s.True(s.now.Equal(record.SavedAt))

	// Not found
	s.mock.ExpectGet("hud:compliance:Radar").RedisNil()

	_, err = s.repo.GetComplianceReport(ctx, "Radar")
	s.True(errors.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("hud:compliance:KillFeed").SetErr(stderrors.New("redis error"))

	_, err = s.repo.GetComplianceReport(ctx, "KillFeed")
	s.Error(err)
	s.False(errors.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestListComplianceReports() {
	ctx := context.Background()
	s.mock.MatchExpectationsInOrder(false)

	killFeed, err := json.Marshal(reports.ComplianceRecord{Report: s.report(), SavedAt: s.now})
	s.Require().NoError(err)
	ammo := &standard.ComponentReport{Component: "AmmoCounter", Total: 1, StandardCount: 1, Compliance: 100}
	ammoData, err := json.Marshal(reports.ComplianceRecord{Report: ammo, SavedAt: s.now})
	s.Require().NoError(err)

	s.mock.ExpectSMembers("hud:compliance_components").SetVal([]string{"KillFeed", "Expired", "AmmoCounter"})
	s.mock.ExpectGet("hud:compliance:KillFeed").SetVal(string(killFeed))
	s.mock.ExpectGet("hud:compliance:Expired").RedisNil()
	s.mock.ExpectGet("hud:compliance:AmmoCounter").SetVal(string(ammoData))

	records, err := s.repo.ListComplianceReports(ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal("AmmoCounter", records[0].Report.Component)
	s.Equal("KillFeed", records[1].Report.Component)
}

func (s *RedisRepoTestSuite) TestListComplianceReports_DependencyError() {
	s.mock.ExpectSMembers("hud:compliance_components").SetErr(stderrors.New("redis error"))

	_, err := s.repo.ListComplianceReports(context.Background())
	s.Error(err)
}

func TestNewRedis_RequiresClient(t *testing.T) {
	_, err := reports.NewRedis(nil)
	if !errors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
