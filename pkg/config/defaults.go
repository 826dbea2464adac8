package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "clubhouse"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr        = "localhost:6379"
	DefaultRedisDB          = 0
	DefaultRedisConnTimeout = 5 * time.Second

	DefaultPort = "8080"

	DefaultMembersServiceURL = "http://localhost:8090"

	// Claim TTL is a safety net against claimants that crash between winning
	// the claim and inserting the row. It must outlive any legitimate request.
	DefaultClaimTTL = 2 * time.Minute

	DefaultDefaultBookableSpanDays = 14
	DefaultMaxInviteesPerBooking   = 50

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultLogLevel        = "info"
	DefaultPaginationLimit = 100
)
