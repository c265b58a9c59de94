// Package dom is an in-memory host tree built on golang.org/x/net/html.
// It stands in for a browser document: templates are parsed from markup,
// bindings mutate the parsed nodes, and events are dispatched by hand.
package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/delaneyj/vbind/host"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNotElement = errors.New("dom: node is not an element")

type Document struct {
	root *html.Node
	// Wrappers are memoized so listeners stay attached to the same node
	nodes map[*html.Node]*Node
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root, nodes: map[*html.Node]*Node{}}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func (d *Document) wrap(n *html.Node) *Node {
	if n == nil {
		return nil
	}
	if w, ok := d.nodes[n]; ok {
		return w
	}
	w := &Node{doc: d, n: n}
	d.nodes[n] = w
	return w
}

// Query implements host.Document.
func (d *Document) Query(selector string) host.Node {
	if n := d.Find(selector); n != nil {
		return n
	}
	return nil
}

// Find supports "#id", ".class" and bare tag selectors and returns the first
// match in document order.
func (d *Document) Find(selector string) *Node {
	match := matcher(strings.TrimSpace(selector))
	if match == nil {
		return nil
	}
	var found *html.Node
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(d.root)
	return d.wrap(found)
}

func (d *Document) NewFragment() host.Node {
	return d.wrap(&html.Node{Type: html.DocumentNode})
}

func (d *Document) Body() *Node {
	return d.Find("body")
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func matcher(selector string) func(*html.Node) bool {
	switch {
	case selector == "":
		return nil
	case strings.HasPrefix(selector, "#"):
		id := selector[1:]
		return func(n *html.Node) bool {
			v, ok := attr(n, "id")
			return ok && v == id
		}
	case strings.HasPrefix(selector, "."):
		class := selector[1:]
		return func(n *html.Node) bool {
			v, ok := attr(n, "class")
			if !ok {
				return false
			}
			for _, c := range strings.Fields(v) {
				if c == class {
					return true
				}
			}
			return false
		}
	default:
		tag := strings.ToLower(selector)
		return func(n *html.Node) bool {
			return n.Data == tag
		}
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Node implements host.Node over an *html.Node.
type Node struct {
	doc       *Document
	n         *html.Node
	listeners map[string][]host.Listener
}

func (n *Node) HTML() *html.Node {
	return n.n
}

func (n *Node) Tag() string {
	if n.n.Type != html.ElementNode {
		return ""
	}
	return n.n.Data
}

func (n *Node) IsElement() bool {
	return n.n.Type == html.ElementNode
}

func (n *Node) IsText() bool {
	return n.n.Type == html.TextNode
}

func (n *Node) Children() []host.Node {
	var children []host.Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, n.doc.wrap(c))
	}
	return children
}

func (n *Node) AppendChild(child host.Node) {
	c, ok := child.(*Node)
	if !ok {
		panic(fmt.Sprintf("dom: cannot append foreign node %T", child))
	}
	if p := c.n.Parent; p != nil {
		p.RemoveChild(c.n)
	}
	n.n.AppendChild(c.n)
}

func (n *Node) Attributes() []host.Attr {
	attrs := make([]host.Attr, 0, len(n.n.Attr))
	for _, a := range n.n.Attr {
		attrs = append(attrs, host.Attr{Name: a.Key, Value: a.Val})
	}
	return attrs
}

func (n *Node) Attr(key string) (string, bool) {
	return attr(n.n, key)
}

func (n *Node) SetAttr(key, val string) {
	for i, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.n.Attr[i].Val = val
			return
		}
	}
	n.n.Attr = append(n.n.Attr, html.Attribute{Key: key, Val: val})
}

func (n *Node) TextContent() string {
	if n.n.Type == html.TextNode {
		return n.n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		if h.Type == html.TextNode {
			sb.WriteString(h.Data)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n.n)
	return sb.String()
}

func (n *Node) SetTextContent(s string) {
	if n.n.Type == html.TextNode {
		n.n.Data = s
		return
	}
	n.removeChildren()
	n.n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		// rendering an in-memory tree only fails on writer errors
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// SetInnerHTML replaces the children with the parsed markup, unsanitized.
func (n *Node) SetInnerHTML(s string) error {
	if n.n.Type != html.ElementNode {
		return ErrNotElement
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), n.n)
	if err != nil {
		return fmt.Errorf("failed to parse inner html: %w", err)
	}
	n.removeChildren()
	for _, c := range nodes {
		n.n.AppendChild(c)
	}
	return nil
}

func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n.n)
	return buf.String()
}

// Value reads the editable value: textarea content, else the value attribute.
func (n *Node) Value() string {
	if n.n.DataAtom == atom.Textarea {
		return n.TextContent()
	}
	v, _ := attr(n.n, "value")
	return v
}

func (n *Node) SetValue(s string) {
	if n.n.DataAtom == atom.Textarea {
		n.SetTextContent(s)
		return
	}
	n.SetAttr("value", s)
}

func (n *Node) AddEventListener(typ string, fn host.Listener) {
	if n.listeners == nil {
		n.listeners = map[string][]host.Listener{}
	}
	n.listeners[typ] = append(n.listeners[typ], fn)
}

func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// Dispatch runs the listeners for ev.Type in attachment order and stops at
// the first error.
func (n *Node) Dispatch(ev *host.Event) error {
	if ev.Target == nil {
		ev.Target = n
	}
	for _, fn := range n.listeners[ev.Type] {
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

// Input sets the node's value the way a user typing would, then fires input.
func (n *Node) Input(value string) error {
	n.SetValue(value)
	return n.Dispatch(&host.Event{Type: "input", Value: value})
}

func (n *Node) Click() error {
	return n.Dispatch(&host.Event{Type: "click", Value: n.Value()})
}

func (n *Node) String() string {
	switch n.n.Type {
	case html.ElementNode:
		if id, ok := attr(n.n, "id"); ok {
			return "<" + n.n.Data + "#" + id + ">"
		}
		return "<" + n.n.Data + ">"
	case html.TextNode:
		return fmt.Sprintf("#text %q", n.n.Data)
	case html.DocumentNode:
		return "#fragment"
	default:
		return "#node"
	}
}

func (n *Node) removeChildren() {
	for c := n.n.FirstChild; c != nil; c = n.n.FirstChild {
		n.n.RemoveChild(c)
		n.doc.forget(c)
	}
}

// forget drops the wrappers of a detached subtree.
func (d *Document) forget(h *html.Node) {
	delete(d.nodes, h)
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		d.forget(c)
	}
}
