// Package host describes the document tree a template is compiled against.
// The compiler only reads and mutates nodes through these interfaces, it never
// creates elements of its own.
package host

// Attr is one name/value pair of an element.
type Attr struct {
	Name  string
	Value string
}

// Event is delivered to listeners attached with Node.AddEventListener.
// Value carries the target's current input value for input events.
type Event struct {
	Type   string
	Target Node
	Value  string
}

// Listener handles an event. A returned error propagates to whoever
// dispatched the event.
type Listener func(ev *Event) error

type Node interface {
	IsElement() bool
	IsText() bool

	Children() []Node
	// AppendChild moves child under this node, detaching it from its
	// current parent first.
	AppendChild(child Node)

	Attributes() []Attr

	TextContent() string
	SetTextContent(s string)
	InnerHTML() string
	SetInnerHTML(s string) error
	Value() string
	SetValue(s string)

	AddEventListener(typ string, fn Listener)
}

type Document interface {
	// Query returns nil when nothing matches.
	Query(selector string) Node
	// NewFragment returns a detached container node.
	NewFragment() Node
}
