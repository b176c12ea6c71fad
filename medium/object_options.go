package medium

import "golang.org/x/time/rate"

// DefaultPartSize is the size of one part object.
const DefaultPartSize = 1 << 20

// DefaultFetchConcurrency bounds the parts fetched in parallel by one read.
const DefaultFetchConcurrency = 8

// ObjectOption configures an Object.
type ObjectOption func(*objectOptions)

type objectOptions struct {
	partSize    int
	concurrency int
	limiter     *rate.Limiter
}

// WithPartSize sets the size of each part object. Non-positive values keep the default.
func WithPartSize(n int) ObjectOption {
	return func(o *objectOptions) {
		if n > 0 {
			o.partSize = n
		}
	}
}

// WithFetchConcurrency bounds the number of parts one read fetches in parallel.
func WithFetchConcurrency(n int) ObjectOption {
	return func(o *objectOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithRequestRate limits store requests to r per second with the given burst.
func WithRequestRate(r rate.Limit, burst int) ObjectOption {
	return func(o *objectOptions) {
		o.limiter = rate.NewLimiter(r, burst)
	}
}
