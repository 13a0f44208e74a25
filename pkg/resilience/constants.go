package resilience

import "time"

// Circuit breaker defaults
const (
	DefaultMaxRequests           uint32 = 3
	DefaultFailureThreshold      uint32 = 5
	DefaultSuccessThreshold      uint32 = 2
	DefaultFailureRatioThreshold        = 0.5
	DefaultMinRequestsToTrip     uint32 = 10

	DefaultInterval = 60 * time.Second
	DefaultTimeout  = 30 * time.Second
)
