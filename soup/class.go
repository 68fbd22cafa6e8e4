package soup

import (
	"slices"
	"strings"

	"golang.org/x/net/html"
)

func (n *Node) Classes() []string { return strings.Fields(n.Attribute("class")) }

func (n *Node) HasClass(class string) bool {
	return n != nil && slices.Contains(n.Classes(), class)
}

func (n *Node) AddClass(class string) {
	if class == "" || n.HasClass(class) {
		return
	}
	n.setClasses(append(n.Classes(), class))
}

func (n *Node) RemoveClass(class string) {
	if !n.HasClass(class) {
		return
	}
	n.setClasses(slices.DeleteFunc(n.Classes(), func(c string) bool { return c == class }))
}

// ToggleClass adds or removes class and reports whether n has it afterwards.
func (n *Node) ToggleClass(class string) bool {
	if n.HasClass(class) {
		n.RemoveClass(class)
		return false
	}
	n.AddClass(class)
	return n.HasClass(class)
}

func (n *Node) setClasses(classes []string) {
	v := strings.Join(classes, " ")
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			n.Attr[i].Val = v
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: v})
}

func (ns Nodes) AddClass(class string) Nodes {
	for _, n := range ns {
		n.AddClass(class)
	}
	return ns
}

func (ns Nodes) RemoveClass(class string) Nodes {
	for _, n := range ns {
		n.RemoveClass(class)
	}
	return ns
}

func (ns Nodes) ToggleClass(class string) Nodes {
	for _, n := range ns {
		n.ToggleClass(class)
	}
	return ns
}
