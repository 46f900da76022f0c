// Package tei builds per-dataset TEI documents: an element tree type with a
// deterministic renderer, the restricted inline markup converter, the
// exemplar template extractor, and the document synthesizer that ties record
// values and template boilerplate together.
package tei

import (
	"bytes"
	"strings"
)

// Namespace constants for the generated documents.
const (
	NamespaceTEI = "http://www.tei-c.org/ns/1.0"

	schemaReference = `<?xml-model href="histdem.rng" type="application/xml" schematypens="http://relaxng.org/ns/structure/1.0"?>`
	indentUnit      = "   "
)

// Attr is one ordered element attribute. Attribute order is preserved exactly
// as written so two identical inputs render byte-identical documents.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of an output document: a tag, ordered attributes, and
// either scalar text or child elements. Tail carries mixed-content text that
// follows the element inside its parent, which is how emphasis spans are
// interleaved with plain text.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
	Tail     string
}

// NewNode creates an element with optional text content.
func NewNode(tag, text string) *Node {
	return &Node{Tag: tag, Text: text}
}

// WithAttr appends an attribute and returns the node for chaining.
func (n *Node) WithAttr(name, value string) *Node {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// Append adds a child element and returns it.
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// AppendNew creates, attaches and returns a child element.
func (n *Node) AppendNew(tag, text string) *Node {
	return n.Append(NewNode(tag, text))
}

// Render serializes the document tree as indented UTF-8 markup, prefixed with
// the XML declaration and the histdem.rng schema processing instruction. The
// root element carries the TEI namespace. Rendering is deterministic: node
// and attribute order is exactly the order of construction.
func Render(root *Node) string {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	buf.WriteString(schemaReference + "\n")

	clone := *root
	clone.Attrs = append([]Attr{{Name: "xmlns", Value: NamespaceTEI}}, root.Attrs...)
	writeNode(&buf, &clone, 0)
	buf.WriteString("\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	buf.WriteString(indent)
	buf.WriteString("<" + n.Tag)
	for _, attr := range n.Attrs {
		buf.WriteString(" " + attr.Name + `="` + escapeText(attr.Value) + `"`)
	}

	if len(n.Children) == 0 && n.Text == "" {
		buf.WriteString("/>")
		return
	}

	buf.WriteString(">")
	if len(n.Children) == 0 {
		buf.WriteString(escapeText(n.Text))
		buf.WriteString("</" + n.Tag + ">")
		return
	}

	if n.Text != "" {
		buf.WriteString("\n" + indent + indentUnit)
		buf.WriteString(escapeText(n.Text))
	}
	for _, child := range n.Children {
		buf.WriteString("\n")
		writeNode(buf, child, depth+1)
		if child.Tail != "" {
			buf.WriteString("\n" + indent + indentUnit)
			buf.WriteString(escapeText(child.Tail))
		}
	}
	buf.WriteString("\n" + indent + "</" + n.Tag + ">")
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

// escapeText escapes markup-significant characters for element and attribute
// content. Newlines and tabs stay literal regardless of what else the value
// contains, so multi-line notes render the same with and without markup
// characters in them.
func escapeText(s string) string {
	if !strings.ContainsAny(s, `&<>'"`) {
		return s
	}
	return textEscaper.Replace(s)
}
