package sel

// Tree is the read-only host document the engine resolves selectors against.
// ByClass and ByTag enumerate strict descendants of ctx in document order.
type Tree interface {
	Root() Node
	ByID(id string) Node
	ByClass(ctx Node, class string) []Node
	ByTag(ctx Node, tag string) []Node
}

// Node is an opaque handle into a Tree. ParentNode returns nil for the top element.
type Node interface {
	ParentNode() Node
	ID() string
	HasClass(class string) bool
	TagName() string
	LookupAttribute(key string) (string, bool)
}

// AnyTag makes Tree.ByTag enumerate every element.
const AnyTag = "*"

func isDescendant(n, ctx Node) bool {
	for p := n.ParentNode(); p != nil; p = p.ParentNode() {
		if p == ctx {
			return true
		}
	}
	return false
}
