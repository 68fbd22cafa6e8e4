package soup

import (
	"strings"

	"github.com/niklasfasching/qs/sel"
	"golang.org/x/net/html"
)

type tree struct{ root *html.Node }

// Tree returns the sel.Tree of the document containing n.
func Tree(n *Node) sel.Tree {
	root := AsHTMLNode(n)
	for root.Parent != nil {
		root = root.Parent
	}
	return tree{root}
}

func (t tree) Root() sel.Node { return AsNode(t.root) }

func (t tree) ByID(id string) sel.Node {
	if id == "" {
		return nil
	}
	if n := first(t.root, func(n *html.Node) bool { return AsNode(n).ID() == id }); n != nil {
		return AsNode(n)
	}
	return nil
}

func (t tree) ByClass(ctx sel.Node, class string) []sel.Node {
	return descendants(AsHTMLNode(ctx.(*Node)), func(n *html.Node) bool { return AsNode(n).HasClass(class) }, nil)
}

func (t tree) ByTag(ctx sel.Node, tag string) []sel.Node {
	if tag == sel.AnyTag {
		return descendants(AsHTMLNode(ctx.(*Node)), func(*html.Node) bool { return true }, nil)
	}
	return descendants(AsHTMLNode(ctx.(*Node)), func(n *html.Node) bool { return strings.EqualFold(n.Data, tag) }, nil)
}

func (n *Node) ParentNode() sel.Node {
	if p := n.Parent; isElement(p) {
		return AsNode(p)
	}
	return nil
}

func (n *Node) ID() string      { return n.Attribute("id") }
func (n *Node) TagName() string { return n.Data }

func (n *Node) LookupAttribute(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func first(n *html.Node, f func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c) && f(c) {
			return c
		} else if m := first(c, f); m != nil {
			return m
		}
	}
	return nil
}

func descendants(n *html.Node, f func(*html.Node) bool, ns []sel.Node) []sel.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c) && f(c) {
			ns = append(ns, AsNode(c))
		}
		ns = descendants(c, f, ns)
	}
	return ns
}

func isElement(n *html.Node) bool { return n != nil && n.Type == html.ElementNode }
