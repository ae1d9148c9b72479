package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "nestbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Archive records and restore windows share the same retention span.
	DefaultRetentionWindow = 14 * 24 * time.Hour

	DefaultBookingLockTTL = 10 * time.Second
	DefaultSweepInterval  = 1 * time.Hour

	DefaultAlertsTopic    = "nestbook.alerts"
	DefaultAlertsDLQTopic = "nestbook.alerts.dlq"
	DefaultAlertsGroupID  = "alerts-inbox"

	DefaultPropertiesServiceURL = "http://localhost:8081"
	DefaultBookingsServiceURL   = "http://localhost:8082"
	DefaultAlertsServiceURL     = "http://localhost:8083"

	DefaultPaginationLimit = 100
)
