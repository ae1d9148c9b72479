package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRetentionWindow = "RETENTION_WINDOW"
	EnvBookingLockTTL  = "BOOKING_LOCK_TTL"
	EnvSweepInterval   = "SWEEP_INTERVAL"

	EnvAlertsTopic    = "ALERTS_TOPIC"
	EnvAlertsDLQTopic = "ALERTS_DLQ_TOPIC"
	EnvAlertsGroupID  = "ALERTS_GROUP_ID"

	EnvSealerKey = "SEALER_KEY"

	EnvPropertiesServiceURL = "PROPERTIES_SERVICE_URL"
	EnvBookingsServiceURL   = "BOOKINGS_SERVICE_URL"
	EnvAlertsServiceURL     = "ALERTS_SERVICE_URL"
)
