package reports

import "time"

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mockreports github.com/KirkDiggler/fps-hud/internal/repositories/reports TimeProvider

type TimeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
