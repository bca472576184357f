package dsl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/textbox/dsl"
	"github.com/ByLCY/textbox/layout"
)

const sampleTBX = `
textbox v1 {
  page {
    title: "Demo"
    width: 320
    background: #fff
  }

  // greeting box
  box greeting {
    x: 10; y: 10
    width: 300
    height: 60
    align: justified
    valign: middle
    tab: 24px
    color: #C50F1F
    plugins: [underliner, caret]
    text: [
      "Hello, \x1b[4mworld\x1b[24m!\n"
      "second line"
    ]
  }

  box footer {
    x: 10
    y: 80
    width: 300
    height: 20
    height-mode: fit
    max-height: 40
    limit: 12
    text: "footer"
  }
}
`

const sampleYAML = `
version: v1
page:
  title: Demo
  width: 320
  background: "#fff"
boxes:
  - name: greeting
    x: 10
    y: 10
    width: 300
    height: 60
    align: justified
    valign: middle
    tab: 24px
    color: "#C50F1F"
    plugins: [underliner, caret]
    text: "Hello, \e[4mworld\e[24m!\nsecond line"
  - name: footer
    x: 10
    y: 80
    width: 300
    height: 20
    heightMode: fit
    maxHeight: 40
    limit: 12
    text: footer
`

type mono struct{}

func (mono) Advance(rune, layout.StyleState) int { return 6 }
func (mono) LineHeight() int                     { return 10 }
func (mono) Baseline() int                       { return 8 }

func parseSample(t *testing.T) *dsl.Spec {
	t.Helper()
	doc, err := dsl.ParseString(sampleTBX)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 3 || doc.Sections[0].Kind() != "page" || doc.Sections[2].Kind() != "box" {
		t.Fatalf("unexpected sections: %+v", doc.Sections)
	}
	spec, err := doc.Spec()
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	return spec
}

func TestParseDocument(t *testing.T) {
	spec := parseSample(t)
	if spec.Page.Title != "Demo" || spec.Page.Background != "#fff" {
		t.Fatalf("unexpected page: %+v", spec.Page)
	}
	if got := spec.Size(); got.X != 320 || got.Y != 100 {
		t.Fatalf("expected page size 320x100, got %v", got)
	}
	if len(spec.Boxes) != 2 {
		t.Fatalf("expected 2 boxes, got %d", len(spec.Boxes))
	}
	greeting := spec.Boxes[0]
	if want := "Hello, \x1b[4mworld\x1b[24m!\nsecond line"; greeting.Text != want {
		t.Fatalf("expected text %q, got %q", want, greeting.Text)
	}
	if diff := cmp.Diff([]string{"underliner", "caret"}, greeting.Plugins); diff != "" {
		t.Fatalf("unexpected plugins (-want +got):\n%s", diff)
	}
	if greeting.Tab != "24px" || greeting.X != 10 || greeting.Y != 10 {
		t.Fatalf("unexpected greeting box: %+v", greeting)
	}
}

func TestYAMLMatchesTBX(t *testing.T) {
	fromTBX := parseSample(t)
	fromYAML, err := dsl.ParseYAML(strings.NewReader(sampleYAML))
	if err != nil {
		t.Fatalf("yaml failed: %v", err)
	}
	if diff := cmp.Diff(fromTBX, fromYAML); diff != "" {
		t.Fatalf("yaml and tbx disagree (-tbx +yaml):\n%s", diff)
	}
}

func TestBuildStyle(t *testing.T) {
	spec := parseSample(t)
	tb, err := spec.Boxes[0].TextBox(mono{})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	s := tb.Style
	if s.Alignment != layout.AlignJustified || s.VerticalAlignment != layout.AlignMiddle {
		t.Fatalf("unexpected alignment: %v %v", s.Alignment, s.VerticalAlignment)
	}
	if s.TabSize != layout.Pixels(24) {
		t.Fatalf("expected 24px tab, got %v", s.TabSize)
	}
	if s.Base.Foreground != layout.RGB(0xC5, 0x0F, 0x1F) {
		t.Fatalf("unexpected color: %+v", s.Base.Foreground)
	}
	if len(s.Plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(s.Plugins))
	}

	footer, err := spec.Boxes[1].Style(mono{}, "extra")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if footer.HeightMode != layout.HeightFitToText || footer.MaxHeight != 40 || len(footer.Plugins) != 2 {
		t.Fatalf("unexpected footer style: %+v", footer)
	}
}

func TestSelect(t *testing.T) {
	spec := parseSample(t)
	boxes, err := spec.Select("footer")
	if err != nil || len(boxes) != 1 || boxes[0].Name != "footer" {
		t.Fatalf("select footer: %v %+v", err, boxes)
	}
	if all, _ := spec.Select(""); len(all) != 2 {
		t.Fatalf("empty name should select every box")
	}
	if _, err := spec.Select("header"); !errors.Is(err, dsl.ErrUnknownBox) {
		t.Fatalf("expected ErrUnknownBox, got %v", err)
	}
}

func TestParseColor(t *testing.T) {
	cases := map[string]layout.Color{
		"#fff":      layout.RGB(255, 255, 255),
		"#0F62FE":   layout.RGB(0x0F, 0x62, 0xFE),
		"#11223380": {R: 0x11, G: 0x22, B: 0x33, A: 0x80},
	}
	for in, want := range cases {
		got, err := dsl.ParseColor(in)
		if err != nil || got != want {
			t.Fatalf("ParseColor(%q) = %+v, %v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"fff", "#ff", "#ggg", ""} {
		if _, err := dsl.ParseColor(bad); err == nil {
			t.Fatalf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestErrors(t *testing.T) {
	cases := []struct {
		name, src, want string
	}{
		{"unknown key", "textbox v1 {\n box a {\n font: big\n }\n}", `unknown key "font"`},
		{"type mismatch", "textbox v1 {\n box a {\n width: wide\n }\n}", "width expects a number"},
		{"duplicate", "textbox v1 {\n box a { x: 1 }\n box a { x: 2 }\n}", `duplicate box "a"`},
		{"page key", "textbox v1 {\n page { margin: 3 }\n}", `unknown page key "margin"`},
	}
	for _, c := range cases {
		doc, err := dsl.ParseString(c.src)
		if err != nil {
			t.Fatalf("%s: parse failed: %v", c.name, err)
		}
		if _, err := doc.Spec(); err == nil || !strings.Contains(err.Error(), c.want) {
			t.Fatalf("%s: expected error containing %q, got %v", c.name, c.want, err)
		}
	}

	if _, err := dsl.ParseString("textbox v1 { box { } }"); err == nil {
		t.Fatalf("expected syntax error for unnamed box")
	}
	if _, err := dsl.ParseYAML(strings.NewReader("boxes:\n  - name: a\n    font: big\n")); err == nil {
		t.Fatalf("expected error for unknown yaml field")
	}
	bad := dsl.BoxSpec{Name: "a", Plugins: []string{"sparkle"}}
	if _, err := bad.Style(mono{}); err == nil || !strings.Contains(err.Error(), "sparkle") {
		t.Fatalf("expected unknown plugin error, got %v", err)
	}
	bad = dsl.BoxSpec{Name: "a", Align: "middle"}
	if _, err := bad.Style(mono{}); err == nil {
		t.Fatalf("expected unknown align error")
	}
}
