package soup

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/niklasfasching/qs/sel"
)

type testCase struct {
	Name       string              `yaml:"name"`
	HTML       string              `yaml:"html"`
	Selections map[string][]string `yaml:"selections"`
	Invalid    []string            `yaml:"invalid"`
}

func readCases(t testing.TB) []testCase {
	bs, err := os.ReadFile("testdata/cases.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cases := []testCase{}
	if err := yaml.Unmarshal(bs, &cases); err != nil {
		t.Fatal(err)
	}
	return cases
}

func renderHTML(ns Nodes) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.OuterHTML()
	}
	return out
}

func TestSoup(t *testing.T) {
	d := MustParse(strings.NewReader(`<ul><li>foo</li><li>bar</li></ul>`))
	if actual := d.All("li").Text("\n"); actual != "foo\nbar" {
		t.Errorf("Got %s, expected foo\\nbar", actual)
	}
	if actual := d.First("ul li").Text(); actual != "foo" {
		t.Errorf("Got %s, expected foo", actual)
	}
	if actual := d.First(".nope"); actual != nil {
		t.Errorf("Got %v, expected nil", actual)
	}
}

func TestCases(t *testing.T) {
	for _, c := range readCases(t) {
		t.Run(c.Name, func(t *testing.T) {
			d := MustParse(strings.NewReader(c.HTML))
			for selector, expected := range c.Selections {
				ns, err := d.Query(sel.Engine{}, selector)
				if err != nil {
					t.Errorf("%q: unexpected error: %s", selector, err)
				} else if actual := renderHTML(ns); !slices.Equal(actual, expected) {
					t.Errorf("%q\ngot:\n\t%q\nexpected:\n\t%q", selector, actual, expected)
				}
			}
			for _, selector := range c.Invalid {
				if ns, err := d.Query(sel.Engine{}, selector); !errors.Is(err, sel.ErrInvalidSelectorSyntax) {
					t.Errorf("%q: got %v (%d nodes), expected ErrInvalidSelectorSyntax", selector, err, len(ns))
				}
			}
		})
	}
}

func TestSubtree(t *testing.T) {
	d := MustParse(strings.NewReader(`
      <div id="a"><p id="x" class="c">1</p></div>
      <div id="b"><p class="c">2</p><span><p class="c">3</p></span></div>`))
	b := d.First("#b")
	if actual := b.All(".c").Text(" "); actual != "2 3" {
		t.Errorf("got %q, expected 2 3", actual)
	}
	if actual := b.All("div .c").Text(" "); actual != "2 3" {
		t.Errorf("got %q, expected 2 3", actual)
	}
	if actual := b.All("span p").Text(" "); actual != "3" {
		t.Errorf("got %q, expected 3", actual)
	}
	if actual := b.All("#x").Text(" "); actual != "1" {
		t.Errorf("got %q, expected ids to resolve document wide", actual)
	}
	if ns, err := b.Query(sel.Engine{StrictIDScope: true}, "#x"); err != nil || len(ns) != 0 {
		t.Errorf("got %v %v, expected no nodes with strict id scope", ns, err)
	}
	if actual := d.All("div").All(".c").Text(" "); actual != "1 2 3" {
		t.Errorf("got %q, expected 1 2 3", actual)
	}
	if actual := d.All("div").All("#x").Len(); actual != 1 {
		t.Errorf("got %d, expected duplicates to be dropped", actual)
	}
	if actual := (Nodes{d.First("#b"), d.First("#a")}).All(".c").Text(" "); actual != "1 2 3" {
		t.Errorf("got %q, expected document order across roots", actual)
	}
	if actual := (Nodes{d.First("#b"), d.First("span")}).All("p").Text(" "); actual != "2 3" {
		t.Errorf("got %q, expected nested roots to yield 2 3", actual)
	}
	other := MustParse(strings.NewReader(`<p class="c">4</p>`))
	if actual := (Nodes{other, d.First("#b"), d.First("#a")}).All(".c").Text(" "); actual != "4 1 2 3" {
		t.Errorf("got %q, expected documents in root order", actual)
	}
}

func TestClasses(t *testing.T) {
	d := MustParse(strings.NewReader(`<ul><li class="a">1</li><li class="a b">2</li><li>3</li></ul>`))
	d.All("li").AddClass("x")
	if actual := d.All(".x").Len(); actual != 3 {
		t.Errorf("got %d, expected 3", actual)
	}
	if actual := d.First("li").Attribute("class"); actual != "a x" {
		t.Errorf("got %q, expected a x", actual)
	}
	d.All(".b").RemoveClass("a")
	if actual := d.All(".a").Text(" "); actual != "1" {
		t.Errorf("got %q, expected 1", actual)
	}
	d.All("li").ToggleClass("a")
	if actual := d.All(".a").Text(" "); actual != "2 3" {
		t.Errorf("got %q, expected 2 3", actual)
	}
	if n := d.First("li"); n.ToggleClass("y") != true || n.ToggleClass("y") != false || n.HasClass("y") {
		t.Errorf("bad toggle: %q", n.Attribute("class"))
	}
	if actual := renderHTML(d.All("ul .b")); !slices.Equal(actual, []string{`<li class="b x a">2</li>`}) {
		t.Errorf("got %q", actual)
	}
}
