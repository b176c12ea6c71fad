package buffile

// DefaultSlabSize is the slab size used when none is configured.
const DefaultSlabSize = 16 << 10

// DefaultCapacity is the number of resident slabs used when none is configured.
const DefaultCapacity = 16

// EvictionPolicy selects which resident slab is dropped when the cache is full.
type EvictionPolicy int

const (
	// EvictLFU drops the least used slab. Ties go to the slab that has been
	// resident in its cache position longest.
	EvictLFU EvictionPolicy = iota

	// EvictFirstSingleUse drops the first slab that was used exactly once,
	// falling back to EvictLFU. Single-use slabs are typical of a sequential
	// scan, so a scan does not push out frequently used slabs.
	EvictFirstSingleUse
)

func (p EvictionPolicy) String() string {
	switch p {
	case EvictLFU:
		return "lfu"
	case EvictFirstSingleUse:
		return "first-single-use"
	default:
		return "unknown"
	}
}

type options struct {
	slabSize         int
	capacity         int
	policy           EvictionPolicy
	shortReads       bool
	logger           *Logger
	metricsCollector MetricsCollector
}

func defaultOptions() options {
	return options{
		slabSize:         DefaultSlabSize,
		capacity:         DefaultCapacity,
		policy:           EvictLFU,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures Open.
type Option func(*options)

// WithSlabSize sets the slab size in bytes.
//
// size must be a power of two; Open panics otherwise.
func WithSlabSize(size int) Option {
	return func(o *options) {
		o.slabSize = size
	}
}

// WithCapacity sets the maximum number of resident slabs. Open returns
// ErrInvalidCapacity for values below one.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithEvictionPolicy selects the eviction policy.
func WithEvictionPolicy(p EvictionPolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithShortReads makes reads stop at the logical end of the file instead of
// returning zeros past it. A read at or after the end then returns io.EOF.
func WithShortReads() Option {
	return func(o *options) {
		o.shortReads = true
	}
}

// WithLogger configures a structured logger for cache events.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector.
//
// If nil is passed, metrics are discarded.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}
