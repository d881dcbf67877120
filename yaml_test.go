package arbor

import (
	"reflect"
	"slices"
	"testing"
)

func TestParsePropsKeepsOrder(t *testing.T) {
	p, err := ParseProps([]byte(`
src: hero.png
color: "#ff0000"
rotation: 45
parentId: root
`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"src", "color", "rotation", "parentId"}
	if got := p.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
	if p.Value("rotation") != 45 {
		t.Errorf("rotation = %#v, want 45", p.Value("rotation"))
	}
}

func TestParsePropsNested(t *testing.T) {
	p, err := ParseProps([]byte(`
x:
  transition:
    value: 100
    duration: 500
    function: linear
effects: [blur, glow]
show: false
`))
	if err != nil {
		t.Fatal(err)
	}
	tr, ok := transitionOf(p.Value("x"))
	if !ok {
		t.Fatalf("x = %v, want a transition record", p.Value("x"))
	}
	if tr.Value != 100 || tr.Duration != 500 || tr.Function != "linear" {
		t.Errorf("transition = %+v", tr)
	}
	if got := p.Value("effects"); !reflect.DeepEqual(got, []any{"blur", "glow"}) {
		t.Errorf("effects = %#v", got)
	}
	if p.Value("show") != false {
		t.Errorf("show = %#v, want false", p.Value("show"))
	}
}

func TestParsePropsEmpty(t *testing.T) {
	p, err := ParseProps(nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
}

func TestParsePropsErrors(t *testing.T) {
	for _, doc := range []string{"- a\n- b\n", "just text", "a: [unclosed\n"} {
		if _, err := ParseProps([]byte(doc)); err == nil {
			t.Errorf("ParseProps(%q) should fail", doc)
		}
	}
}

func TestParsePropsAnchors(t *testing.T) {
	p, err := ParseProps([]byte(`
base: &red
  value: "#ff0000"
color: *red
`))
	if err != nil {
		t.Fatal(err)
	}
	if got := Unwrap(p.Value("color")); got != "#ff0000" {
		t.Errorf("color = %#v, want the anchored value", got)
	}
}

func TestParsePropsList(t *testing.T) {
	list, err := ParsePropsList([]byte(`
- id: title
  __textnode: true
  text: Hello
- id: box
  w: 32
  h: 32
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].Value("id") != "title" || list[1].Value("w") != 32 {
		t.Errorf("list = %v / %v", list[0].Map(), list[1].Map())
	}
	if got := list[0].Keys(); !slices.Equal(got, []string{"id", TextNodeMarker, "text"}) {
		t.Errorf("Keys = %v", got)
	}
}

func TestParsePropsListErrors(t *testing.T) {
	for _, doc := range []string{"a: 1\n", "- 1\n- 2\n"} {
		if _, err := ParsePropsList([]byte(doc)); err == nil {
			t.Errorf("ParsePropsList(%q) should fail", doc)
		}
	}
}

func TestParsedBagPopulates(t *testing.T) {
	p, err := ParseProps([]byte("parentId: root\ncolor: \"0x00ff00ff\"\nrotation: 180\nw: 10\nh: 10\n"))
	if err != nil {
		t.Fatal(err)
	}
	s := NewScene()
	_, n := populated(t, s, p)
	if n.Color != 0x00ff00ff || n.W != 10 || n.Parent != s.RootNode() {
		t.Errorf("node = color %#x w %v parent %v", n.Color, n.W, n.Parent)
	}
}
