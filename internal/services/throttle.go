package services

import (
	"context"
	"strconv"

	"github.com/railops/rake-planner/internal/db"
	"golang.org/x/time/rate"
)

// RateLimiterService throttles how fast planning jobs can be submitted
// through the API, independent of the token-bucket used inside the optimal
// packer's own search loop.
type RateLimiterService struct {
	limiter *rate.Limiter
}

// NewRateLimiterService builds a limiter from the "api_throttle_requests_per_second"
// and "api_throttle_burst_size" settings, defaulting to 5 req/s with a burst
// of 10 when unset.
func NewRateLimiterService(ctx context.Context, queries *db.Queries) (*RateLimiterService, error) {
	requestsPerSec := 5
	burstSize := 10

	settings, err := queries.GetSettings(ctx)
	if err == nil {
		for _, s := range settings {
			switch s.SettingKey {
			case "api_throttle_requests_per_second":
				if v, err := strconv.Atoi(s.SettingValue); err == nil {
					requestsPerSec = v
				}
			case "api_throttle_burst_size":
				if v, err := strconv.Atoi(s.SettingValue); err == nil {
					burstSize = v
				}
			}
		}
	}

	return &RateLimiterService{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), burstSize),
	}, nil
}

// Allow reports whether a request may proceed immediately.
func (s *RateLimiterService) Allow() bool {
	return s.limiter.Allow()
}

// Wait blocks until the request is allowed under the rate limit or ctx is done.
func (s *RateLimiterService) Wait(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}
