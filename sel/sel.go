// sel resolves a restricted css-like selector against a host supplied tree.
//
// A selector is a whitespace separated list of simple selectors, each one of
// #id, .class, tag or tag?[key(=value)?]. Whitespace is the descendant combinator;
// there are no other combinators, pseudo classes or compound tokens (ul#list is a
// syntax error). The rightmost part is looked up in the tree, the parts left of it
// must each be matched by some ancestor of a result. Ancestor parts are tested
// independently of each other, their relative order is not checked.
//
// Ids are looked up tree wide, even for ResolveIn - see Engine.StrictIDScope.
package sel

import (
	"errors"
	"fmt"
	"strings"
)

type Selector []Part

// Engine resolves selectors. The zero value resolves ids tree wide.
type Engine struct {
	// StrictIDScope drops an id match that is not a descendant of the search context.
	StrictIDScope bool
}

var ErrInvalidSelectorSyntax = errors.New("invalid selector syntax")

func Compile(selector string) (Selector, error) {
	tokens := strings.Fields(selector)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty selector", ErrInvalidSelectorSyntax)
	}
	s := make(Selector, len(tokens))
	for i, token := range tokens {
		p, err := Classify(token)
		if err != nil {
			return nil, fmt.Errorf("token %d of %q: %w", i, selector, err)
		}
		s[i] = p
	}
	return s, nil
}

func MustCompile(selector string) Selector {
	s, err := Compile(selector)
	if err != nil {
		panic(err)
	}
	return s
}

// Resolve compiles selector and resolves it from the root of t.
func Resolve(selector string, t Tree) ([]Node, error) {
	return Engine{}.Resolve(selector, t)
}

func (e Engine) Resolve(selector string, t Tree) ([]Node, error) {
	return e.ResolveIn(selector, t, t.Root())
}

// ResolveIn looks up the target part below ctx. Ancestor parts may still be matched
// by ancestors of ctx.
func (e Engine) ResolveIn(selector string, t Tree, ctx Node) ([]Node, error) {
	s, err := Compile(selector)
	if err != nil {
		return nil, err
	}
	return e.resolve(s, t, ctx), nil
}

func (e Engine) ResolveSelector(s Selector, t Tree, ctx Node) []Node {
	return e.resolve(s, t, ctx)
}

func (s Selector) Resolve(t Tree) []Node            { return Engine{}.resolve(s, t, t.Root()) }
func (s Selector) ResolveIn(t Tree, ctx Node) []Node { return Engine{}.resolve(s, t, ctx) }

func (e Engine) resolve(s Selector, t Tree, ctx Node) []Node {
	if len(s) == 0 {
		return nil
	}
	target, ancestors := s[len(s)-1], s[:len(s)-1]
	return filterAncestors(ancestors, target.find(t, ctx, e.StrictIDScope))
}

// Target is the rightmost part, i.e. the part results match.
func (s Selector) Target() Part { return s[len(s)-1] }

func (s Selector) String() string {
	ss := make([]string, len(s))
	for i, p := range s {
		ss[i] = p.String()
	}
	return strings.Join(ss, " ")
}
