package reports

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	// KeyPrefix namespaces every key, e.g. "hud:"
	KeyPrefix string
	// TTL of zero keeps records forever
	TTL          time.Duration
	TimeProvider TimeProvider
}

type redisRepo struct {
	client       redis.UniversalClient
	prefix       string
	ttl          time.Duration
	timeProvider TimeProvider
}

// NewRedis creates a Redis-backed repository
func NewRedis(cfg *RedisRepoConfig) (Repository, error) {
	if cfg == nil || cfg.Client == nil {
		return nil, errors.InvalidArgument("redis client is required")
	}

	repo := &redisRepo{
		client:       cfg.Client,
		prefix:       cfg.KeyPrefix,
		ttl:          cfg.TTL,
		timeProvider: cfg.TimeProvider,
	}
	if repo.timeProvider == nil {
		repo.timeProvider = realTimeProvider{}
	}

	return repo, nil
}

func (r *redisRepo) runKey(runID string) string {
	return r.prefix + "run:" + runID + ":pool_stats"
}

func (r *redisRepo) runsKey() string {
	return r.prefix + "runs"
}

func (r *redisRepo) complianceKey(component string) string {
	return r.prefix + "compliance:" + component
}

func (r *redisRepo) componentsKey() string {
	return r.prefix + "compliance_components"
}

func (r *redisRepo) SavePoolStats(ctx context.Context, snapshot *PoolSnapshot) error {
	if snapshot == nil {
		return errors.InvalidArgument("snapshot cannot be nil")
	}
	if snapshot.RunID == "" {
		return errors.InvalidArgument("snapshot run id is required")
	}

	snapshot.RecordedAt = r.timeProvider.Now()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to marshal pool snapshot")
	}

	key := r.runKey(snapshot.RunID)
	pipe := r.client.Pipeline()
	pipe.RPush(ctx, key, string(data))
	pipe.SAdd(ctx, r.runsKey(), snapshot.RunID)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to save pool stats for run %s", snapshot.RunID)
	}

	return nil
}

func (r *redisRepo) ListPoolStats(ctx context.Context, runID string) ([]*PoolSnapshot, error) {
	if runID == "" {
		return nil, errors.InvalidArgument("run id is required")
	}

	values, err := r.client.LRange(ctx, r.runKey(runID), 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list pool stats for run %s", runID)
	}
	if len(values) == 0 {
		return nil, errors.NotFoundf("no pool stats for run %s", runID)
	}

	snapshots := make([]*PoolSnapshot, 0, len(values))
	for _, value := range values {
		var snapshot PoolSnapshot
		if err := json.Unmarshal([]byte(value), &snapshot); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal pool stats for run %s", runID)
		}
		snapshots = append(snapshots, &snapshot)
	}

	return snapshots, nil
}

func (r *redisRepo) SaveComplianceReport(ctx context.Context, report *standard.ComponentReport) error {
	if report == nil {
		return errors.InvalidArgument("report cannot be nil")
	}
	if report.Component == "" {
		return errors.InvalidArgument("report component is required")
	}

	data, err := json.Marshal(ComplianceRecord{
		Report:  report,
		SavedAt: r.timeProvider.Now(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to marshal compliance report")
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.complianceKey(report.Component), string(data), r.ttl)
	pipe.SAdd(ctx, r.componentsKey(), report.Component)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to save compliance report for %s", report.Component)
	}

	return nil
}

func (r *redisRepo) GetComplianceReport(ctx context.Context, component string) (*ComplianceRecord, error) {
	data, err := r.client.Get(ctx, r.complianceKey(component)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no compliance report for %s", component)
		}
		return nil, errors.Wrapf(err, "failed to get compliance report for %s", component)
	}

	var record ComplianceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal compliance report for %s", component)
	}

	return &record, nil
}

// ListComplianceReports skips index entries whose report has expired
func (r *redisRepo) ListComplianceReports(ctx context.Context) ([]*ComplianceRecord, error) {
	components, err := r.client.SMembers(ctx, r.componentsKey()).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list compliance components")
	}
	sort.Strings(components)

	records := make([]*ComplianceRecord, len(components))

	g, gctx := errgroup.WithContext(ctx)
	for i, component := range components {
		i, component := i, component
		g.Go(func() error {
			record, err := r.GetComplianceReport(gctx, component)
			if err != nil {
				if errors.IsNotFound(err) {
					return nil
				}
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*ComplianceRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			out = append(out, record)
		}
	}
	return out, nil
}
