package reactive

import (
	"log/slog"
	"sync/atomic"
)

type FailMode uint8

const (
	// FailFast stops delivery at the first failing watcher and hands the
	// failure to whoever performed the write.
	FailFast FailMode = iota
	// FailCollect runs every watcher and joins the failures.
	FailCollect
)

func (m FailMode) String() string {
	switch m {
	case FailFast:
		return "fail-fast"
	case FailCollect:
		return "fail-collect"
	default:
		return "unknown"
	}
}

// Hooks observe the store. They are called synchronously on the writer's
// stack, so implementations must not write back into the store.
type Hooks interface {
	Write(path string)
	Notify(path string, watchers int)
	Update(w *Watcher)
}

type nopHooks struct{}

func (nopHooks) Write(string)       {}
func (nopHooks) Notify(string, int) {}
func (nopHooks) Update(*Watcher)    {}

// ReactiveContext is shared by every field, dep and watcher of one store.
// It replaces a process wide "current watcher" slot: two stores built from
// two contexts never see each other's collection windows.
type ReactiveContext struct {
	// The watcher currently collecting dependencies, if any
	active *Watcher

	dedupe   bool
	failMode FailMode
	hooks    Hooks
	logger   *slog.Logger
}

type Option func(*ReactiveContext)

// WithDedupe makes deps ignore a second registration of the same binding.
func WithDedupe(on bool) Option {
	return func(rctx *ReactiveContext) {
		rctx.dedupe = on
	}
}

func WithFailMode(mode FailMode) Option {
	return func(rctx *ReactiveContext) {
		rctx.failMode = mode
	}
}

func WithHooks(hooks Hooks) Option {
	return func(rctx *ReactiveContext) {
		if hooks != nil {
			rctx.hooks = hooks
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(rctx *ReactiveContext) {
		if logger != nil {
			rctx.logger = logger
		}
	}
}

func NewReactiveContext(opts ...Option) *ReactiveContext {
	rctx := &ReactiveContext{
		hooks:  nopHooks{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(rctx)
	}
	return rctx
}

// Active returns the watcher whose construction is in progress, or nil.
func (rctx *ReactiveContext) Active() *Watcher {
	return rctx.active
}

func (rctx *ReactiveContext) FailMode() FailMode {
	return rctx.failMode
}

func (rctx *ReactiveContext) Dedupe() bool {
	return rctx.dedupe
}

func (rctx *ReactiveContext) Logger() *slog.Logger {
	return rctx.logger
}

// begin opens the collection window for w. Only one window may be open at a
// time, a second one would attribute reads to the wrong watcher.
func (rctx *ReactiveContext) begin(w *Watcher) {
	if rctx.active != nil {
		panic(ErrReentrantCollect)
	}
	rctx.active = w
}

func (rctx *ReactiveContext) end() {
	rctx.active = nil
}

var watcherIDs uint64

func nextWatcherID() uint64 {
	return atomic.AddUint64(&watcherIDs, 1)
}
