// Package compile scans a host tree for directives and interpolations and
// wires each one to a store watcher.
//
// Recognized syntax:
//
//	<p v-text="name"></p>        text binding
//	<div v-html="body"></div>    markup binding, unsanitized
//	<input v-model="name">       two-way binding on the input event
//	<button @click="save">       event listener calling a VM method
//	<span>{{ name }}</span>      text binding, one marker per text node
package compile

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/delaneyj/vbind/host"
	"github.com/delaneyj/vbind/reactive"
)

const (
	DirectivePrefix = "v-"
	EventPrefix     = "@"
)

var interpolation = regexp.MustCompile(`\{\{(.*)\}\}`)

// VM is what a template is compiled against.
type VM interface {
	Store() *reactive.Store
	// Method returns the named handler already bound to the VM.
	Method(name string) (host.Listener, bool)
}

// Binding is one resolved directive or interpolation.
type Binding struct {
	Node    host.Node
	Path    string
	Kind    Kind
	Watcher *reactive.Watcher // nil for event bindings
}

type Compiler struct {
	doc      host.Document
	vm       VM
	logger   *slog.Logger
	bindings []Binding
}

type Option func(*Compiler)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func New(doc host.Document, vm VM, opts ...Option) *Compiler {
	c := &Compiler{
		doc:    doc,
		vm:     vm,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile finds the container for selector, compiles its content off-tree
// and puts it back. A missing container is not an error.
func (c *Compiler) Compile(selector string) error {
	el := c.doc.Query(selector)
	if el == nil {
		c.logger.Debug("container not found, nothing to compile", "selector", selector)
		return nil
	}
	return c.CompileNode(el)
}

// CompileNode compiles the children of el. Nobody else may touch el until it
// returns; its children are detached for the duration.
func (c *Compiler) CompileNode(el host.Node) error {
	frag := c.node2Fragment(el)
	err := c.compile(frag)
	for _, child := range frag.Children() {
		el.AppendChild(child)
	}
	if err != nil {
		return fmt.Errorf("failed to compile template: %w", err)
	}
	return nil
}

func (c *Compiler) Bindings() []Binding {
	return c.bindings
}

func (c *Compiler) node2Fragment(el host.Node) host.Node {
	frag := c.doc.NewFragment()
	for _, child := range el.Children() {
		frag.AppendChild(child)
	}
	return frag
}

func (c *Compiler) compile(container host.Node) error {
	for _, node := range container.Children() {
		switch {
		case node.IsElement():
			if err := c.compileElement(node); err != nil {
				return err
			}
		case node.IsText():
			if m := interpolation.FindStringSubmatch(node.TextContent()); m != nil {
				if err := c.bind(node, strings.TrimSpace(m[1]), KindText); err != nil {
					return err
				}
			}
		}

		if len(node.Children()) > 0 {
			if err := c.compile(node); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) compileElement(node host.Node) error {
	for _, attr := range node.Attributes() {
		switch {
		case strings.HasPrefix(attr.Name, DirectivePrefix):
			dir := attr.Name[len(DirectivePrefix):]
			h, ok := directives[dir]
			if !ok {
				c.logger.Debug("unknown directive skipped", "directive", attr.Name)
				continue
			}
			if err := h(c, node, attr.Value); err != nil {
				return err
			}
		case strings.HasPrefix(attr.Name, EventPrefix):
			c.eventHandler(node, attr.Value, attr.Name[len(EventPrefix):])
		}
	}
	return nil
}

// bind renders the current value right away, then leaves a watcher behind
// that re-renders on every later write.
func (c *Compiler) bind(node host.Node, path string, kind Kind) error {
	update := updaters[kind]
	store := c.vm.Store()

	v, _ := store.Get(path)
	if err := update(node, v); err != nil {
		return fmt.Errorf("initial %s render of %q: %w", kind, path, err)
	}

	w := reactive.NewWatcher(store, path, func(value any) error {
		return update(node, value)
	}, reactive.WithBinding(node, kind.String()))

	c.bindings = append(c.bindings, Binding{Node: node, Path: path, Kind: kind, Watcher: w})
	c.logger.Debug("binding created", "kind", kind, "path", path, "watcher", w.ID())
	return nil
}

func (c *Compiler) eventHandler(node host.Node, method, event string) {
	if event == "" {
		return
	}
	fn, ok := c.vm.Method(method)
	if !ok {
		c.logger.Debug("event handler not found", "event", event, "method", method)
		return
	}
	node.AddEventListener(event, fn)
	c.bindings = append(c.bindings, Binding{Node: node, Path: method, Kind: KindEvent})
}
