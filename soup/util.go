package soup

import (
	"regexp"
	"slices"
	"strings"
	"unsafe"

	"github.com/niklasfasching/qs/sel"
	"golang.org/x/net/html"
)

type Node html.Node
type Nodes []*Node

func AsHTMLNode(n *Node) *html.Node  { return (*html.Node)(unsafe.Pointer(n)) }
func AsNode(n *html.Node) *Node      { return (*Node)(unsafe.Pointer(n)) }
func AsNodes(ns *[]*html.Node) Nodes { return *(*[]*Node)(unsafe.Pointer(ns)) }

func asNodes(ns []sel.Node) Nodes {
	out := make(Nodes, len(ns))
	for i, n := range ns {
		out[i] = n.(*Node)
	}
	return out
}

var duplicateWhitespace = regexp.MustCompile(`\s+(\n)\s*|\s*(\n)\s+|(\s)\s+`)

func appendText(out *strings.Builder, n *html.Node) {
	switch {
	case n == nil || n.Type == html.CommentNode:
		return
	case n.Type == html.TextNode:
		out.WriteString(n.Data)
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			appendText(out, c)
		}
	}
}

func trimmed(s string) string {
	return duplicateWhitespace.ReplaceAllString(strings.TrimSpace(s), "$1$2$3")
}

// sortDocumentOrder sorts ns by position in their documents. Documents are
// ordered by their first node in ns.
func sortDocumentOrder(ns Nodes) {
	order := map[*html.Node]int{}
	for _, n := range ns {
		root := AsHTMLNode(n)
		for root.Parent != nil {
			root = root.Parent
		}
		if _, ok := order[root]; !ok {
			indexDocument(root, order)
		}
	}
	slices.SortStableFunc(ns, func(a, b *Node) int { return order[AsHTMLNode(a)] - order[AsHTMLNode(b)] })
}

func indexDocument(n *html.Node, order map[*html.Node]int) {
	order[n] = len(order)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		indexDocument(c, order)
	}
}
