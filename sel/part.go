package sel

import (
	"fmt"
	"regexp"
	"strings"
)

// Part is one simple selector. Exactly one of IDPart, ClassPart, TagPart or
// AttributePart.
type Part interface {
	// find queries the tree below ctx for nodes matching the part.
	find(t Tree, ctx Node, strict bool) []Node
	// match tests a single node, used against ancestors.
	match(n Node) bool
	String() string
}

type IDPart struct{ Name string }

type ClassPart struct{ Name string }

type TagPart struct{ Name string }

// AttributePart matches on an attribute. An empty Tag matches any tag and an empty
// Value only requires Key to be present.
type AttributePart struct {
	Tag   string
	Key   string
	Value string
}

var (
	idRegexp        = regexp.MustCompile(`^#([\w-]+)$`)
	classRegexp     = regexp.MustCompile(`^\.([\w-]+)$`)
	tagRegexp       = regexp.MustCompile(`^\w+$`)
	attributeRegexp = regexp.MustCompile(`^(\w*)\[([\w-]+)(?:=(?:"([^\]"']+)"|'([^\]"']+)'|([^\]"']+)))?\]$`)
)

// Classify turns a whitespace free token into a Part. The first matching grammar
// wins: #id, .class, tag, tag?[key(=value)?].
func Classify(token string) (Part, error) {
	if m := idRegexp.FindStringSubmatch(token); m != nil {
		return &IDPart{m[1]}, nil
	} else if m := classRegexp.FindStringSubmatch(token); m != nil {
		return &ClassPart{m[1]}, nil
	} else if tagRegexp.MatchString(token) {
		return &TagPart{token}, nil
	} else if m := attributeRegexp.FindStringSubmatch(token); m != nil {
		return &AttributePart{m[1], m[2], m[3] + m[4] + m[5]}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidSelectorSyntax, token)
}

func (p *IDPart) find(t Tree, ctx Node, strict bool) []Node {
	n := t.ByID(p.Name)
	if n == nil || (strict && ctx != t.Root() && !isDescendant(n, ctx)) {
		return nil
	}
	return []Node{n}
}

func (p *ClassPart) find(t Tree, ctx Node, _ bool) []Node { return t.ByClass(ctx, p.Name) }
func (p *TagPart) find(t Tree, ctx Node, _ bool) []Node   { return t.ByTag(ctx, p.Name) }

func (p *AttributePart) find(t Tree, ctx Node, _ bool) []Node {
	tag, ns := p.Tag, []Node(nil)
	if tag == "" {
		tag = AnyTag
	}
	for _, n := range t.ByTag(ctx, tag) {
		if p.hasAttribute(n) {
			ns = append(ns, n)
		}
	}
	return ns
}

func (p *IDPart) match(n Node) bool    { return n.ID() == p.Name }
func (p *ClassPart) match(n Node) bool { return n.HasClass(p.Name) }
func (p *TagPart) match(n Node) bool   { return strings.EqualFold(n.TagName(), p.Name) }
func (p *AttributePart) match(n Node) bool {
	return (p.Tag == "" || strings.EqualFold(n.TagName(), p.Tag)) && p.hasAttribute(n)
}

func (p *AttributePart) hasAttribute(n Node) bool {
	v, ok := n.LookupAttribute(p.Key)
	return ok && (p.Value == "" || v == p.Value)
}

func (p *IDPart) String() string    { return "#" + p.Name }
func (p *ClassPart) String() string { return "." + p.Name }
func (p *TagPart) String() string   { return p.Name }
func (p *AttributePart) String() string {
	if p.Value == "" {
		return fmt.Sprintf("%s[%s]", p.Tag, p.Key)
	}
	// values cannot contain quotes, so wrapping them needs no escaping
	return fmt.Sprintf(`%s[%s="%s"]`, p.Tag, p.Key, p.Value)
}
