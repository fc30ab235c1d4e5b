package mining

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Option configures an Engine or a Miner.
type Option func(*options)

type options struct {
	cacheSize int
	logger    logrus.FieldLogger
}

// WithCacheSize bounds the number of memoized itemset supports.
func WithCacheSize(n int) Option {
	return func(o *options) {
		o.cacheSize = n
	}
}

// WithLogger sets the logger used for per-size progress at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.logger = l
	}
	return o
}

// Engine runs the brute-force enumerator and the rule generator over one
// transaction set. Both share a SupportCounter, so supports counted during
// enumeration are reused when confidences are computed.
type Engine[T comparable] struct {
	counter *SupportCounter[T]
	log     logrus.FieldLogger
}

// NewEngine creates an Engine over transactions.
func NewEngine[T comparable](transactions []Transaction[T], opts ...Option) (*Engine[T], error) {
	o := buildOptions(opts)
	counter, err := NewSupportCounter(transactions, o.cacheSize)
	if err != nil {
		return nil, err
	}
	return &Engine[T]{counter: counter, log: o.logger}, nil
}

// Counter exposes the engine's support counter.
func (e *Engine[T]) Counter() *SupportCounter[T] {
	return e.counter
}
