// Package ratelimit provides a fixed-window request limiter for the public
// lookup endpoints. Item codes are short; an unthrottled lookup surface
// would make enumeration practical.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter provides rate limit checks.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error)
}

// KeyForClient builds a limiter key for a client address. Empty addresses
// produce an empty key, which disables limiting for the request.
func KeyForClient(addr string) string {
	if addr == "" {
		return ""
	}
	return fmt.Sprintf("ip:%s", addr)
}
