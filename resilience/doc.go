// Package resilience guards outbound provider calls. CircuitBreaker fails
// fast after repeated provider failures and RateLimiter paces calls with a
// token bucket from golang.org/x/time/rate. Neither retries: a failed
// provider call is reported to the caller.
package resilience
