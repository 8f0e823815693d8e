package manifest

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// AndroidNS is the namespace of android:* attributes.
const AndroidNS = "http://schemas.android.com/apk/res/android"

// Node is one element of a parsed XML document.
type Node struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Node
}

// Attr returns the value of the attribute with the given local name. An
// attribute in the android namespace wins over an unqualified one.
func (n *Node) Attr(local string) (string, bool) {
	var (
		val   string
		found bool
	)
	for _, a := range n.Attrs {
		if a.Name.Local != local {
			continue
		}
		if a.Name.Space == AndroidNS || a.Name.Space == "android" {
			return a.Value, true
		}
		if !found {
			val, found = a.Value, true
		}
	}
	return val, found
}

// Walk visits n and its descendants depth-first in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the descendants of n, excluding n itself, named name.
func (n *Node) Find(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) {
			if d.Name == name {
				out = append(out, d)
			}
		})
	}
	return out
}

// Parse decodes a whole XML document into a node tree and returns its root
// element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && strings.TrimSpace(string(t)) != "" {
				return nil, errors.New("text outside root element")
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}
