package store

import "time"

// Config aggregates per-backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20 with exponential backoff
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures the clickhouse audit sink
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientName string
	ClientTag  string
}
