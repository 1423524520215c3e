package reports

//go:generate mockgen -destination=mock/mock_repository.go -package=mockreports -source=repository.go

import (
	"context"
	"time"

	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/standard"
)

// PoolSnapshot is one sample of an allocator's counters during a stress run
type PoolSnapshot struct {
	RunID      string     `json:"run_id"`
	Pool       string     `json:"pool"`
	Pooled     bool       `json:"pooled"`
	Stats      pool.Stats `json:"stats"`
	Emitted    uint64     `json:"emitted"`
	ElapsedMS  int64      `json:"elapsed_ms"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// ComplianceRecord is the latest stored audit of one component
type ComplianceRecord struct {
	Report  *standard.ComponentReport `json:"report"`
	SavedAt time.Time                 `json:"saved_at"`
}

// Repository stores stress-run pool samples and component compliance reports
type Repository interface {
	// SavePoolStats appends a sample to its run, stamping RecordedAt
	SavePoolStats(ctx context.Context, snapshot *PoolSnapshot) error

	// ListPoolStats returns a run's samples in the order they were saved
	ListPoolStats(ctx context.Context, runID string) ([]*PoolSnapshot, error)

	// SaveComplianceReport replaces the stored report for the component
	SaveComplianceReport(ctx context.Context, report *standard.ComponentReport) error

	// GetComplianceReport returns the stored report for a component
	GetComplianceReport(ctx context.Context, component string) (*ComplianceRecord, error)

	// ListComplianceReports returns every stored report ordered by component name
	ListComplianceReports(ctx context.Context) ([]*ComplianceRecord, error)
}
