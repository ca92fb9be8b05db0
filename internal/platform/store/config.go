package store

import (
	"time"

	"birdspot/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
	AutoMigrate bool

	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled     bool
	URL         string
	ClientName  string
	ClientTag   string
	AutoMigrate bool
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled bool
	URL     string
}

// FromConfig reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_*
// Postgres is always on; clickhouse and redis switch on when their URL is set or redis is required
func FromConfig(root config.Conf, role string, needRedis bool) Config {
	pgc := root.Prefix("SERVICE_PGSQL_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")
	rdc := root.Prefix("SERVICE_REDIS_")

	chURL := chc.MayString("DBURL", "")
	rdURL := rdc.MayString("URL", "")
	if needRedis {
		rdURL = rdc.MustString("URL")
	}

	return Config{
		AppName: "birdspot",
		PG: PGConfig{
			Enabled:        true,
			URL:            pgc.MustString("DBURL"),
			MaxConns:       int32(pgc.MayInt("MAX_CONNS", 8)),
			SlowQueryMs:    pgc.MayInt("SLOW_MS", 250),
			LogSQL:         pgc.MayBool("LOG_SQL", false),
			AutoMigrate:    pgc.MayBool("AUTO_MIGRATE", true),
			ConnectRetries: pgc.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pgc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled:     chURL != "",
			URL:         chURL,
			ClientName:  "birdspot",
			ClientTag:   role,
			AutoMigrate: chc.MayBool("AUTO_MIGRATE", true),
		},
		RDS: RedisConfig{
			Enabled: rdURL != "",
			URL:     rdURL,
		},
	}
}
