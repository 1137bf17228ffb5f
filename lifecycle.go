package profiler

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// defaultDrainInterval matches the original implementation's default
// profile_set_output_wait value of 100ms (§4.6).
const defaultDrainInterval = 100 * time.Millisecond

// Config holds the resolved settings an Engine is built from. Build one
// with Option values via resolveOptions; zero value is not meaningful on
// its own.
type Config struct {
	sink          Sink
	logger        Logger
	drainInterval time.Duration
	clock         Clock
	threadSrc     ThreadIDSource
	procSrc       ProcessorIDSource
	tl            ThreadLocal
	registerer    prometheus.Registerer
}

// Option configures a Config; see WithSink, WithDrainInterval, WithLogger,
// WithClock, WithThreadIDSource, WithProcessorIDSource, WithThreadLocal.
type Option func(*Config)

func resolveOptions(opts []Option) Config {
	cfg := Config{
		logger:        getGlobalLogger(),
		drainInterval: defaultDrainInterval,
		clock:         newMonotonicClock(),
		threadSrc:     DefaultThreadIDSource{},
		procSrc:       DefaultProcessorIDSource{},
		tl:            newGoroutineThreadLocal(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSink sets the function that receives completed records (§6.1). An
// Engine started without one silently discards everything it drains.
func WithSink(sink Sink) Option {
	return func(c *Config) { c.sink = sink }
}

// WithDrainInterval overrides the background drain loop's poll period
// (§4.6, profile_set_output_wait). Values <= 0 are floored to 1ms, matching
// the original implementation's "ms ? ms : 1" clamp.
func WithDrainInterval(d time.Duration) Option {
	return func(c *Config) {
		if d <= 0 {
			d = time.Millisecond
		}
		c.drainInterval = d
	}
}

// WithLogger overrides the engine's diagnostic logger (§7). Defaults to the
// package-level logger installed by SetLogger, or a no-op logger if none
// was installed.
func WithLogger(logger Logger) Option {
	return func(c *Config) { c.logger = logger }
}

// WithClock overrides the engine's time source. Mainly useful in tests.
func WithClock(clock Clock) Option {
	return func(c *Config) { c.clock = clock }
}

// WithThreadIDSource overrides how Record.Thread is populated; see package
// sysid for OS-backed implementations.
func WithThreadIDSource(src ThreadIDSource) Option {
	return func(c *Config) { c.threadSrc = src }
}

// WithProcessorIDSource overrides how Record.Processor is populated and
// migration (§4.4) is detected; see package sysid for OS-backed
// implementations.
func WithProcessorIDSource(src ProcessorIDSource) Option {
	return func(c *Config) { c.procSrc = src }
}

// WithThreadLocal overrides the per-thread "current open span" accessor
// (§3.5). Rarely needed outside tests.
func WithThreadLocal(tl ThreadLocal) Option {
	return func(c *Config) { c.tl = tl }
}

// WithMetricsRegisterer registers pool capacity and occupancy metrics
// (package promexport) with registerer at Initialize time. Nil (the
// default) skips metrics entirely.
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(c *Config) { c.registerer = registerer }
}

// Engine is a single profiling instance: one pool, one root list, one
// background drain goroutine, and the collaborators that feed it (§1-§5).
// The zero value is not usable; construct with Initialize.
type Engine struct {
	identifier string

	pool      *pool
	tl        ThreadLocal
	ids       *idGenerator
	clock     Clock
	threadSrc ThreadIDSource
	procSrc   ProcessorIDSource
	groundTime int64

	sink          Sink
	logger        Logger
	drainInterval time.Duration

	enabled   atomic.Bool
	ioExit    chan struct{}
	ioStopped chan struct{}
}

// Initialize allocates a pool of numRecords records (capped at maxSlots)
// and returns a ready, but not yet enabled, Engine (§4.7/§6.3's
// configuration API). identifier is a caller-supplied label carried purely
// for diagnostics; it is never placed on the wire.
func Initialize(identifier string, numRecords int, opts ...Option) (*Engine, error) {
	if numRecords <= 1 {
		return nil, wrapError(fmt.Sprintf("numRecords must be > 1, got %d", numRecords), ErrInvalidBufferSize)
	}
	return InitializeWithBuffer(identifier, make([]Record, numRecords), opts...)
}

// InitializeWithBuffer is Initialize over a caller-provided buffer instead
// of a self-allocated one (§6.3: "Initialize with identifier string,
// buffer pointer, buffer size"), letting a caller control where pool
// memory lives (e.g. a preallocated arena). The buffer's capacity, not its
// length, is irrelevant: only len(buf) records are used, capped at
// maxSlots as §3.2 requires.
func InitializeWithBuffer(identifier string, buf []Record, opts ...Option) (*Engine, error) {
	if len(buf) <= 1 {
		return nil, wrapError(fmt.Sprintf("buffer must hold more than 1 record, got %d", len(buf)), ErrInvalidBufferSize)
	}
	cfg := resolveOptions(opts)

	e := &Engine{
		identifier:    identifier,
		tl:            cfg.tl,
		ids:           newIDGenerator(),
		clock:         cfg.clock,
		threadSrc:     cfg.threadSrc,
		procSrc:       cfg.procSrc,
		sink:          cfg.sink,
		logger:        cfg.logger,
		drainInterval: cfg.drainInterval,
	}

	logger := e.logger
	onExhausted := func(n int) {
		logger.Log(LogEntry{
			Level:      LevelWarn,
			Identifier: identifier,
			Message:    fmt.Sprintf("pool exhausted (%d records), dropping further events until a slot frees", n),
			Err:        ErrExhausted,
		})
	}
	e.pool = newPool(buf, onExhausted)
	e.groundTime = e.clock.Now()

	if cfg.registerer != nil {
		if err := registerPoolMetrics(cfg.registerer, e); err != nil {
			logger.Log(LogEntry{Level: LevelWarn, Identifier: identifier, Message: "failed to register profile metrics: " + err.Error()})
		}
	}

	logger.Log(LogEntry{
		Level:      LevelDebug,
		Identifier: identifier,
		Message:    fmt.Sprintf("initialized profiling engine with %d records (%d KiB)", e.pool.numRecords, e.pool.numRecords*recordSize/1024),
	})

	return e, nil
}

// poolOccupied reports the number of currently-allocated (non-free) slots,
// for metrics export; see promexport.
func (e *Engine) poolOccupied() int {
	free, _ := e.pool.freeListLength()
	return e.pool.numRecords - 1 - free
}

// poolCapacity reports the total allocatable slot count (excluding the
// reserved null slot), for metrics export.
func (e *Engine) poolCapacity() int {
	return e.pool.numRecords - 1
}

// Enable starts or stops the background drain goroutine (§4.7). Enabling
// an already-enabled engine, or disabling an already-disabled one, is a
// no-op. Disable blocks until the drain goroutine has fully drained the
// root list and written a terminator record.
func (e *Engine) Enable(enable bool) {
	wasEnabled := e.enabled.Swap(enable)
	if enable && !wasEnabled {
		e.ioExit = make(chan struct{})
		e.ioStopped = make(chan struct{})
		go e.runIO()
	} else if !enable && wasEnabled {
		close(e.ioExit)
		<-e.ioStopped
	}
}

// Finalize ends any still-open spans on the calling thread (publishing them
// to the root list as End does), disables the engine if still enabled
// (which drains the root list and writes the terminator record last),
// drains and writes out anything still left in the root list, and checks
// pool bookkeeping for consistency, logging an error for any violation
// found (§7, profile_finalize's sanity checks). The Engine must not be
// used again afterward.
func (e *Engine) Finalize() {
	e.finalizeThread()
	e.Enable(false)

	if e.pool.peekRootNonEmpty() {
		e.processRoot()
	}

	free, siblingViolation := e.pool.freeListLength()
	total := free + 1 // slot 0 is always "allocated" (reserved, never freed)
	if total != e.pool.numRecords {
		err := &InconsistentStateError{Message: "lost blocks", Found: total, Expected: e.pool.numRecords}
		e.logger.Log(LogEntry{Level: LevelError, Identifier: e.identifier, Message: err.Error(), Err: err})
	}
	if siblingViolation != 0 {
		err := &InconsistentStateError{Message: fmt.Sprintf("block %d has sibling set", siblingViolation)}
		e.logger.Log(LogEntry{Level: LevelError, Identifier: e.identifier, Message: err.Error(), Err: err})
	}
}

// FinalizeThread ends, one span at a time, any spans still open on the
// calling thread (§6.4); the ended spans are published to the root list and
// written out by the next drain like any other completed tree. A goroutine that holds open spans and is about to
// exit without ending them must call this first, or those slots are leaked
// until Engine.Finalize notices the shortfall. Safe to call from any
// goroutine; Engine.Finalize only ever cleans up its own caller's thread.
func (e *Engine) FinalizeThread() {
	e.finalizeThread()
}

// finalizeThread ends, one span at a time, any spans still open on the
// calling thread (§6.4). Each forcibly-closed span is warned about
// individually, matching _profile_thread_finalize's "Profile thread
// cleanup, free block %u" log per block, so a goroutine that exits without
// ending its spans is diagnosable. Guards against the pathological case
// where previous-pointer corruption would otherwise livelock End() on the
// same slot forever, matching the same function's self-reference check.
func (e *Engine) finalizeThread() {
	last := uint32(0)
	for {
		current := e.tl.Get()
		if current == 0 {
			return
		}
		if current == last {
			err := &SelfReferenceError{Slot: current}
			e.logger.Log(LogEntry{Level: LevelWarn, Identifier: e.identifier, Message: err.Error(), Err: err})
			return
		}
		e.logger.Log(LogEntry{
			Level:      LevelWarn,
			Identifier: e.identifier,
			Message:    fmt.Sprintf("profile thread cleanup, free block %d", current),
		})
		e.end()
		last = current
	}
}
