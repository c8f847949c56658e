package packet

import (
	"github.com/hupe1980/packet/internal/alloc"
)

type options struct {
	allocator        Allocator
	oracle           LengthOracle
	controller       *Controller
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures how packets are allocated, measured and observed.
type Option func(*options)

func defaultOptions() options {
	return options{
		allocator:        alloc.Heap{},
		oracle:           NativeOracle,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

func applyOptions(base options, opts []Option) options {
	o := base
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolveAllocator returns the configured allocator, wrapped with the controller's
// limits when one is set.
func (o *options) resolveAllocator() Allocator {
	if o.controller == nil {
		return o.allocator
	}
	return alloc.NewBudgeted(o.allocator, o.controller)
}

// WithAllocator configures the allocator that backs the packet.
//
// If nil is passed, HeapAllocator is used.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a == nil {
			a = alloc.Heap{}
		}
		o.allocator = a
	}
}

// WithLengthOracle replaces the native length-query primitive.
//
// If nil is passed, NativeOracle is used. Whatever the oracle reports is
// clamped to the packet's allocated capacity.
func WithLengthOracle(oracle LengthOracle) Option {
	return func(o *options) {
		if oracle == nil {
			oracle = NativeOracle
		}
		o.oracle = oracle
	}
}

// WithController applies memory and allocation-rate limits to construction.
// A packet's bytes count against the budget until it is closed.
//
// Example:
//
//	rc := packet.NewController(packet.ControllerConfig{MemoryLimitBytes: 1 << 20})
//	p, err := packet.New(128, packet.WithController(rc))
func WithController(rc *Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithLogger configures structured logging of allocation and release.
// Pass nil to disable logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for allocation and release.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &packet.BasicMetricsCollector{}
//	p, _ := packet.New(16, packet.WithMetricsCollector(metrics))
//	defer p.Close()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}
