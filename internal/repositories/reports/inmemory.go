package reports

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/KirkDiggler/fps-hud/internal/errors"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

// InMemoryRepository keeps reports in process; the audit and stress tools fall
// back to it when no Redis URL is configured
type InMemoryRepository struct {
	mu           sync.RWMutex
	runs         map[string][]*PoolSnapshot
	compliance   map[string]*ComplianceRecord
	timeProvider TimeProvider
}

// NewInMemory creates an in-memory repository. timeProvider may be nil.
func NewInMemory(timeProvider TimeProvider) *InMemoryRepository {
	if timeProvider == nil {
		timeProvider = realTimeProvider{}
	}
	return &InMemoryRepository{
		runs:         make(map[string][]*PoolSnapshot),
		compliance:   make(map[string]*ComplianceRecord),
		timeProvider: timeProvider,
	}
}

var _ Repository = (*InMemoryRepository)(nil)

func (r *InMemoryRepository) SavePoolStats(_ context.Context, snapshot *PoolSnapshot) error {
	if snapshot == nil {
		return errors.InvalidArgument("snapshot cannot be nil")
	}
	if snapshot.RunID == "" {
		return errors.InvalidArgument("snapshot run id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot.RecordedAt = r.timeProvider.Now()
	stored := *snapshot
	r.runs[snapshot.RunID] = append(r.runs[snapshot.RunID], &stored)

	return nil
}

func (r *InMemoryRepository) ListPoolStats(_ context.Context, runID string) ([]*PoolSnapshot, error) {
	if runID == "" {
		return nil, errors.InvalidArgument("run id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.runs[runID]
	if !ok {
		return nil, errors.NotFoundf("no pool stats for run %s", runID)
	}

	out := make([]*PoolSnapshot, len(stored))
	for i, snapshot := range stored {
		cp := *snapshot
		out[i] = &cp
	}
	return out, nil
}

func (r *InMemoryRepository) SaveComplianceReport(_ context.Context, report *standard.ComponentReport) error {
	if report == nil {
		return errors.InvalidArgument("report cannot be nil")
	}
	if report.Component == "" {
		return errors.InvalidArgument("report component is required")
	}

	cp, err := cloneReport(report)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.compliance[report.Component] = &ComplianceRecord{
		Report:  cp,
		SavedAt: r.timeProvider.Now(),
	}
	return nil
}

func (r *InMemoryRepository) GetComplianceReport(_ context.Context, component string) (*ComplianceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.compliance[component]
	if !ok {
		return nil, errors.NotFoundf("no compliance report for %s", component)
	}
	return r.copyRecord(record)
}

func (r *InMemoryRepository) ListComplianceReports(_ context.Context) ([]*ComplianceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	components := make([]string, 0, len(r.compliance))
	for component := range r.compliance {
		components = append(components, component)
	}
	sort.Strings(components)

	out := make([]*ComplianceRecord, 0, len(components))
	for _, component := range components {
		record, err := r.copyRecord(r.compliance[component])
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func (r *InMemoryRepository) copyRecord(record *ComplianceRecord) (*ComplianceRecord, error) {
	report, err := cloneReport(record.Report)
	if err != nil {
		return nil, err
	}
	return &ComplianceRecord{Report: report, SavedAt: record.SavedAt}, nil
}

// cloneReport round-trips through JSON so stored reports match what Redis returns
func cloneReport(report *standard.ComponentReport) (*standard.ComponentReport, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal compliance report")
	}
	var out standard.ComponentReport
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal compliance report")
	}
	return &out, nil
}
