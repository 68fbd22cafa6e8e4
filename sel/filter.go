package sel

// filterAncestors narrows candidates right to left: for each part some strict
// ancestor of a candidate has to match it.
func filterAncestors(parts []Part, candidates []Node) []Node {
	for i := len(parts) - 1; i >= 0 && len(candidates) != 0; i-- {
		candidates = filterAncestor(parts[i], candidates)
	}
	return candidates
}

func filterAncestor(p Part, candidates []Node) []Node {
	var out []Node
	for _, n := range candidates {
		if hasAncestor(p, n) {
			out = append(out, n)
		}
	}
	return out
}

func hasAncestor(p Part, n Node) bool {
	for a := n.ParentNode(); a != nil; a = a.ParentNode() {
		if p.match(a) {
			return true
		}
	}
	return false
}
