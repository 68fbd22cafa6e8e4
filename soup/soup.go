// soup wraps golang.org/x/net/html documents for querying with sel selectors.
package soup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/niklasfasching/qs/sel"
	"golang.org/x/net/html"
)

func Parse(r io.Reader) (*Node, error) {
	htmlNode, err := html.Parse(r)
	return AsNode(htmlNode), err
}

func MustParse(r io.Reader) *Node {
	n, err := Parse(r)
	if err != nil {
		panic(err)
	}
	return n
}

func Load(client *http.Client, url string) (*Node, error) {
	return LoadContext(context.Background(), client, url)
}

func LoadContext(ctx context.Context, client *http.Client, url string) (*Node, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	return LoadReq(client, req)
}

func LoadReq(client *http.Client, req *http.Request) (*Node, error) {
	res, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: status: %d", req.URL, res.StatusCode)
	}
	return Parse(res.Body)
}

func MustLoad(client *http.Client, url string) *Node {
	n, err := Load(client, url)
	if err != nil {
		panic(err)
	}
	return n
}

// Query resolves s below n using e. Unlike All it reports invalid selectors.
func (n *Node) Query(e sel.Engine, s string) (Nodes, error) {
	compiled, err := sel.Compile(s)
	if err != nil {
		return nil, err
	}
	return n.QuerySel(e, compiled), nil
}

func (n *Node) QuerySel(e sel.Engine, s sel.Selector) Nodes {
	if n == nil {
		return nil
	}
	return asNodes(e.ResolveSelector(s, Tree(n), n))
}

func (n *Node) First(s string) *Node { return n.FirstSel(sel.MustCompile(s)) }
func (n *Node) FirstSel(s sel.Selector) *Node {
	if ns := n.AllSel(s); len(ns) != 0 {
		return ns[0]
	}
	return nil
}

func (n *Node) All(s string) Nodes { return n.AllSel(sel.MustCompile(s)) }
func (n *Node) AllSel(s sel.Selector) Nodes { return n.QuerySel(sel.Engine{}, s) }

func (n *Node) Text() string {
	var out strings.Builder
	appendText(&out, AsHTMLNode(n))
	return out.String()
}

func (n *Node) TrimmedText() string {
	return trimmed(n.Text())
}

func (n *Node) OuterHTML() string {
	if n == nil {
		return ""
	}
	var out strings.Builder
	if err := html.Render(&out, AsHTMLNode(n)); err != nil {
		panic(fmt.Sprintf("Could not render html: %s", err))
	}
	return out.String()
}

func (n *Node) HTML() string {
	if n == nil {
		return ""
	}
	var out strings.Builder
	for n := n.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&out, n); err != nil {
			panic(fmt.Sprintf("Could not render html: %s", err))
		}
	}
	return out.String()
}

func (n *Node) Attribute(key string) string {
	v, _ := n.LookupAttribute(key)
	return v
}

func (ns Nodes) Eq(i int) *Node {
	if i < 0 || i >= len(ns) {
		return nil
	}
	return ns[i]
}

func (ns Nodes) Len() int {
	return len(ns)
}

func (ns Nodes) Text(sep string) string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = n.Text()
	}
	return strings.Join(ss, sep)
}

func (ns Nodes) Attribute(key string) []string {
	as := make([]string, len(ns))
	for i, n := range ns {
		as[i] = n.Attribute(key)
	}
	return as
}

func (ns Nodes) First(s string) *Node { return ns.FirstSel(sel.MustCompile(s)) }
func (ns Nodes) FirstSel(s sel.Selector) *Node {
	for _, n := range ns {
		if f := n.FirstSel(s); f != nil {
			return f
		}
	}
	return nil
}

func (ns Nodes) All(s string) Nodes { return ns.AllSel(sel.MustCompile(s)) }
func (ns Nodes) AllSel(s sel.Selector) Nodes { return ns.QuerySel(sel.Engine{}, s) }

// QuerySel resolves s below each of ns. Duplicates are dropped and the result
// is in document order.
func (ns Nodes) QuerySel(e sel.Engine, s sel.Selector) Nodes {
	all, seen := Nodes{}, map[*Node]bool{}
	for _, n := range ns {
		for _, m := range n.QuerySel(e, s) {
			if !seen[m] {
				all, seen[m] = append(all, m), true
			}
		}
	}
	if len(ns) > 1 {
		sortDocumentOrder(all)
	}
	return all
}

func (ns Nodes) HTML() string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = n.OuterHTML()
	}
	return strings.Join(ss, "\n")
}
