package modkit

import (
	"birdspot/internal/modkit/repokit"
	"birdspot/internal/platform/config"
	"birdspot/internal/platform/logger"
	"birdspot/internal/platform/metrics"
	"birdspot/internal/platform/store"
	ptime "birdspot/internal/platform/time"

	"github.com/redis/go-redis/v9"
)

// Deps holds core dependencies passed to modules
// optional backends are nil when not configured
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	RDS     redis.UniversalClient
	Metrics *metrics.Metrics
	Clock   ptime.Clock
}

// FromStore copies the opened backends of s into a Deps
func FromStore(cfg config.Conf, log logger.Logger, s *store.Store, m *metrics.Metrics) Deps {
	d := Deps{Log: log, Cfg: cfg, Metrics: m, Clock: ptime.System()}
	if s != nil {
		d.PG = s.PG
		d.CH = s.CH
		d.RDS = s.RDS
	}
	return d
}
