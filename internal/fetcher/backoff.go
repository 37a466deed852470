package fetcher

import (
	"math"
	"time"
)

// Backoff returns the delay to wait before retry number retries, growing
// exponentially as factor * 2^(retries-1) seconds. It is pure and has no
// upper bound; callers cap total wait through the dispatch deadline.
func Backoff(factor float64, retries int) time.Duration {
	return time.Duration(factor * math.Pow(2, float64(retries-1)) * float64(time.Second))
}
