package compile

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/delaneyj/vbind/format"
	"github.com/delaneyj/vbind/host"
)

var (
	ErrDuplicateDirective = errors.New("compile: directive already registered")
	ErrUnknownUpdater     = errors.New("compile: no updater for binding kind")
)

// Kind is what a binding does to its node.
type Kind uint8

const (
	KindText  Kind = iota + 1 // replace text content
	KindHTML                  // replace markup, unsanitized
	KindModel                 // set input value, write input back
	KindEvent                 // host event to method, not reactive
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	case KindModel:
		return "model"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Updater writes a value into a host node.
type Updater func(node host.Node, value any) error

var updaters = map[Kind]Updater{
	KindText: func(node host.Node, value any) error {
		node.SetTextContent(format.Value(value))
		return nil
	},
	KindHTML: func(node host.Node, value any) error {
		return node.SetInnerHTML(format.Value(value))
	},
	KindModel: func(node host.Node, value any) error {
		node.SetValue(format.Value(value))
		return nil
	},
}

// handler wires one structural directive found on node.
type handler func(c *Compiler, node host.Node, path string) error

type directiveTable map[string]handler

// register checks the entry up front so lookups during compilation can
// never hit a directive whose updater is missing.
func (t directiveTable) register(name string, kind Kind, h handler) error {
	if _, ok := t[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateDirective, name)
	}
	if _, ok := updaters[kind]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownUpdater, kind)
	}
	t[name] = h
	return nil
}

func (t directiveTable) mustRegister(name string, kind Kind, h handler) {
	if err := t.register(name, kind, h); err != nil {
		panic(err)
	}
}

var directives = func() directiveTable {
	t := directiveTable{}
	t.mustRegister("text", KindText, func(c *Compiler, node host.Node, path string) error {
		return c.bind(node, path, KindText)
	})
	t.mustRegister("html", KindHTML, func(c *Compiler, node host.Node, path string) error {
		return c.bind(node, path, KindHTML)
	})
	t.mustRegister("model", KindModel, func(c *Compiler, node host.Node, path string) error {
		if err := c.bind(node, path, KindModel); err != nil {
			return err
		}
		// echo back into the same node is accepted
		node.AddEventListener("input", func(ev *host.Event) error {
			value := ev.Value
			if value == "" && ev.Target != nil {
				value = node.Value()
			}
			return c.vm.Store().Set(path, value)
		})
		return nil
	})
	return t
}()

// Directives lists the structural directive names the compiler recognizes.
func Directives() []string {
	return slices.Sorted(maps.Keys(directives))
}
