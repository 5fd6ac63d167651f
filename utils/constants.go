// File: utils/constants.go
package utils

import "time"

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// ContextLoggerKey is the gin context key holding the request logger.
const ContextLoggerKey = "logger"

// ContextRequestIDKey is the gin context key holding the request ID.
const ContextRequestIDKey = "request_id"

// RedisPingTimeout bounds connection checks against Redis.
const RedisPingTimeout = 2 * time.Second

// HealthCheckInterval is how often the health monitor refreshes.
const HealthCheckInterval = 60 * time.Second
