package jobs

import (
	"github.com/rs/zerolog"

	"github.com/thiaworld/buyback-go/internal/modules/rates"
)

// RefreshJob runs the periodic rate refresh
type RefreshJob struct {
	service *rates.Service
	log     zerolog.Logger
}

// NewRefreshJob creates a new rate refresh job
func NewRefreshJob(service *rates.Service, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		service: service,
		log:     log.With().Str("job", "rate_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "rate_refresh"
}

// Run refreshes the rate cache. Upstream failures are absorbed by the
// service, so this only errors on programming mistakes.
func (j *RefreshJob) Run() error {
	return j.service.Refresh()
}
