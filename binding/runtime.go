// Package binding ties a data object, a methods table and a template region
// together: the data becomes an observable store and the region is compiled
// against it.
package binding

import (
	"fmt"
	"log/slog"

	"github.com/delaneyj/vbind/compile"
	"github.com/delaneyj/vbind/host"
	"github.com/delaneyj/vbind/reactive"
)

// Method handles an event directive. rt is the runtime the template was
// mounted with.
type Method func(rt *Runtime, ev *host.Event) error

type Options struct {
	// Selector of the container to compile; empty skips compilation
	El string
	// Plain data; anything but a map[string]any yields an empty store
	Data    any
	Methods map[string]Method

	Dedupe   bool
	FailMode reactive.FailMode
	Hooks    reactive.Hooks
	Logger   *slog.Logger
}

type Runtime struct {
	opts     Options
	logger   *slog.Logger
	store    *reactive.Store
	proxies  map[string]*reactive.Proxy
	compiler *compile.Compiler
}

func New(doc host.Document, opts Options) (*Runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rt := &Runtime{
		opts:    opts,
		logger:  logger,
		proxies: map[string]*reactive.Proxy{},
	}
	rt.store = reactive.NewStore(opts.Data,
		reactive.WithDedupe(opts.Dedupe),
		reactive.WithFailMode(opts.FailMode),
		reactive.WithHooks(opts.Hooks),
		reactive.WithLogger(logger),
	)
	for _, key := range rt.store.Root().Keys() {
		rt.proxies[key] = rt.store.Proxy(key)
	}

	rt.compiler = compile.New(doc, rt, compile.WithLogger(logger))
	if opts.El != "" {
		if err := rt.compiler.Compile(opts.El); err != nil {
			return nil, fmt.Errorf("failed to mount %q: %w", opts.El, err)
		}
	}
	logger.Debug("runtime mounted", "el", opts.El, "bindings", len(rt.compiler.Bindings()))
	return rt, nil
}

// Store implements compile.VM.
func (rt *Runtime) Store() *reactive.Store {
	return rt.store
}

// Method implements compile.VM. The returned listener calls the method with
// rt as its receiver.
func (rt *Runtime) Method(name string) (host.Listener, bool) {
	fn, ok := rt.opts.Methods[name]
	if !ok || fn == nil {
		return nil, false
	}
	return func(ev *host.Event) error {
		return fn(rt, ev)
	}, true
}

// Get reads a top-level field, or a dotted path when no proxy matches.
func (rt *Runtime) Get(key string) any {
	if p, ok := rt.proxies[key]; ok {
		return p.Get()
	}
	v, _ := rt.store.Get(key)
	return v
}

func (rt *Runtime) Set(key string, v any) error {
	if p, ok := rt.proxies[key]; ok {
		return p.Set(v)
	}
	return rt.store.Set(key, v)
}

func (rt *Runtime) Data() map[string]any {
	return rt.store.Root().Raw()
}

func (rt *Runtime) Bindings() []compile.Binding {
	return rt.compiler.Bindings()
}
