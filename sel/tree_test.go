package sel

import (
	"slices"
	"strings"
)

type A = map[string]string

type node struct {
	tag      string
	attrs    A
	parent   *node
	children []*node
}

type tree struct {
	root    *node
	queries int
}

func el(tag string, attrs A, children ...*node) *node {
	n := &node{tag: tag, attrs: attrs, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

func newTree(children ...*node) *tree { return &tree{root: el("", nil, children...)} }

func (n *node) ParentNode() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *node) ID() string      { return n.attrs["id"] }
func (n *node) TagName() string { return n.tag }
func (n *node) HasClass(class string) bool {
	return slices.Contains(strings.Fields(n.attrs["class"]), class)
}
func (n *node) LookupAttribute(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

func (n *node) String() string {
	s := n.tag
	if id := n.ID(); id != "" {
		s += "#" + id
	}
	for _, c := range strings.Fields(n.attrs["class"]) {
		s += "." + c
	}
	return s
}

func (t *tree) Root() Node { return t.root }

func (t *tree) ByID(id string) Node {
	t.queries++
	for _, n := range t.walk(t.root) {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

func (t *tree) ByClass(ctx Node, class string) (ns []Node) {
	t.queries++
	for _, n := range t.walk(ctx.(*node)) {
		if n.HasClass(class) {
			ns = append(ns, n)
		}
	}
	return ns
}

func (t *tree) ByTag(ctx Node, tag string) (ns []Node) {
	t.queries++
	for _, n := range t.walk(ctx.(*node)) {
		if tag == AnyTag || strings.EqualFold(n.tag, tag) {
			ns = append(ns, n)
		}
	}
	return ns
}

func (t *tree) walk(n *node) (ns []*node) {
	for _, c := range n.children {
		ns = append(append(ns, c), t.walk(c)...)
	}
	return ns
}

func (t *tree) all() []*node { return t.walk(t.root) }
