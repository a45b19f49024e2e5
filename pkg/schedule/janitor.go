package schedule

import (
	"time"

	"github.com/shashiranjanraj/delish/pkg/docstore"
	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/metrics"
)

// Evicter drops idle per-client state, e.g. the rate limiter's visitors.
type Evicter interface {
	Evict() int
}

// Janitor removes temporary files abandoned by interrupted document writes
// and evicts idle rate-limit entries.
type Janitor struct {
	Store   *docstore.Store
	MaxAge  time.Duration
	Limiter Evicter // optional
	Now     func() time.Time
}

// Run performs one sweep. Errors are logged; the next tick retries.
func (j *Janitor) Run() {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	removed, err := j.Store.SweepTemp(j.MaxAge, now())
	if len(removed) > 0 {
		metrics.TempFilesSwept.Add(float64(len(removed)))
		logger.Info("janitor: removed temp files", "count", len(removed), "files", removed)
	}
	if err != nil {
		logger.Warn("janitor: sweep failed", "dir", j.Store.Dir(), "error", err)
	}

	if j.Limiter != nil {
		if n := j.Limiter.Evict(); n > 0 {
			logger.Debug("janitor: evicted idle visitors", "count", n)
		}
	}
}
