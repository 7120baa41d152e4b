// Package plcxml locates program organization units (POUs) inside PLCopen
// project XML and extracts their code bodies as diagnosis context.
//
// PLCopen documents are namespaced, but tooling in the wild emits them with
// missing or unexpected prefixes. Traversal therefore matches on local names
// only, over a small generic node tree instead of a query language.
package plcxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// NodeKind discriminates tree node types.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

// Node is a single node of the parsed document tree. Element nodes carry a
// name, attributes and children; text nodes carry only Text.
type Node struct {
	Kind     NodeKind
	Name     xml.Name
	Attrs    []xml.Attr
	Text     string
	Children []*Node
}

// Parse builds a document tree from raw XML text. It returns the root
// element, or an error if the document is not well formed.
func Parse(xmlText string) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlText))

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Kind:  ElementNode,
				Name:  t.Name,
				Attrs: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parsing xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parsing xml: unexpected end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{
				Kind: TextNode,
				Text: string(append([]byte(nil), t...)),
			})
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing xml: no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("parsing xml: unclosed element %s", stack[len(stack)-1].Name.Local)
	}

	return root, nil
}

// Attr returns the value of the named attribute, matching on local name, or
// an empty string when absent.
func (n *Node) Attr(local string) string {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, local) {
			return a.Value
		}
	}
	return ""
}

// FindAll returns every element in the subtree (including n itself) whose
// local name matches, in document order. Namespace prefixes are ignored.
func (n *Node) FindAll(local string) []*Node {
	var out []*Node
	n.walk(func(e *Node) bool {
		if strings.EqualFold(e.Name.Local, local) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// FindFirst returns the first element in the subtree whose local name
// matches, or nil.
func (n *Node) FindFirst(local string) *Node {
	var found *Node
	n.walk(func(e *Node) bool {
		if strings.EqualFold(e.Name.Local, local) {
			found = e
			return false
		}
		return true
	})
	return found
}

// ElementChildren returns the direct element children of n.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// TextContent concatenates the non-blank text nodes of the subtree in
// document order, preserving internal whitespace of each. Whitespace-only
// nodes are formatting between elements and are skipped.
func (n *Node) TextContent() string {
	var parts []string
	n.walkAll(func(e *Node) {
		if e.Kind == TextNode && strings.TrimSpace(e.Text) != "" {
			parts = append(parts, e.Text)
		}
	})
	return strings.Join(parts, "\n")
}

// walk visits element nodes depth-first; the visitor returns false to stop.
func (n *Node) walk(visit func(*Node) bool) bool {
	if n.Kind == ElementNode {
		if !visit(n) {
			return false
		}
	}
	for _, c := range n.Children {
		if !c.walk(visit) {
			return false
		}
	}
	return true
}

// walkAll visits every node depth-first.
func (n *Node) walkAll(visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		c.walkAll(visit)
	}
}
