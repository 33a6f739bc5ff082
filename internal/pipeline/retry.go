package pipeline

import (
	"math/rand/v2"
	"time"
)

const (
	backoffBase = 500 * time.Millisecond
	backoffMax  = 8 * time.Second
)

// Backoff returns the wait before retry attempt n (0-indexed): exponential
// from backoffBase, capped at backoffMax, plus up to 50% jitter.
func Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := backoffMax
	if attempt < 5 {
		d = min(backoffBase<<attempt, backoffMax)
	}
	return d + time.Duration(rand.Int64N(int64(d)/2+1))
}
