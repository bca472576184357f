package plugin_test

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/textbox/layout"
	"github.com/ByLCY/textbox/plugin"
)

type mono struct{}

func (mono) Advance(rune, layout.StyleState) int { return 6 }
func (mono) LineHeight() int                     { return 10 }
func (mono) Baseline() int                       { return 8 }

func render(t *testing.T, text string, bounds image.Rectangle, plugins ...layout.Plugin) []layout.Primitive {
	t.Helper()
	it, err := layout.NewRenderIterator(layout.NewTextBox(text, bounds, layout.NewStyle(mono{}, layout.WithPlugins(plugins...))))
	if err != nil {
		t.Fatalf("创建渲染迭代器失败: %v", err)
	}
	var out []layout.Primitive
	for p := range it.All() {
		out = append(out, p)
	}
	return out
}

func glyphs(ps []layout.Primitive) string {
	var rs []rune
	for _, p := range ps {
		if p.Kind == layout.PrimitiveGlyph {
			rs = append(rs, p.Glyph.Rune)
		}
	}
	return string(rs)
}

func fills(ps []layout.Primitive) []image.Rectangle {
	var out []image.Rectangle
	for _, p := range ps {
		if p.Kind == layout.PrimitiveFill {
			out = append(out, p.Rect)
		}
	}
	return out
}

func TestUnderliner(t *testing.T) {
	bounds := image.Rect(0, 0, 120, 20)
	ps := render(t, "a _bc_ d", bounds, plugin.NewUnderliner())
	if got := glyphs(ps); got != "abcd" {
		t.Fatalf("标记字符不应绘制，实际 %q", got)
	}
	if diff := cmp.Diff([]image.Rectangle{image.Rect(12, 9, 24, 10)}, fills(ps)); diff != "" {
		t.Fatalf("下划线位置不符 (-want +got):\n%s", diff)
	}

	// 每次遍历都从未加下划线的状态开始。
	again := render(t, "a _bc_ d", bounds, plugin.NewUnderliner())
	if diff := cmp.Diff(ps, again); diff != "" {
		t.Fatalf("重复渲染结果不同 (-first +second):\n%s", diff)
	}

	b, err := layout.NewLineBreaker("a _bc_ d", 120, layout.NewStyle(mono{}, layout.WithPlugins(plugin.NewUnderliner())))
	if err != nil {
		t.Fatal(err)
	}
	l, _ := b.Next()
	if l.Text() != "a bc d" || l.Width != 36 {
		t.Fatalf("标记不占宽度，实际 %q 宽 %d", l.Text(), l.Width)
	}
}

// wordUnderlines 断行剩余全部文本，返回每个单词的下划线状态。
func wordUnderlines(b *layout.LineBreaker) []bool {
	var out []bool
	for {
		l, ok := b.Next()
		if !ok {
			return out
		}
		for _, tok := range l.Tokens {
			if tok.Kind == layout.TokenWord {
				out = append(out, tok.Style.Underline)
			}
		}
	}
}

// 从游标续排时，下划线开关沿用游标处的状态，而不是从头开始。
func TestUnderlinerResume(t *testing.T) {
	const text = "aa _bb cc dd ee ff_ gg hh"
	style := layout.NewStyle(mono{}, layout.WithPlugins(plugin.NewUnderliner()))
	want := []bool{false, true, true, true, true, true, false, false}

	b, err := layout.NewLineBreaker(text, 30, style)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, wordUnderlines(b)); diff != "" {
		t.Fatalf("一次断行结果不符 (-want +got):\n%s", diff)
	}

	b, _ = layout.NewLineBreaker(text, 30, style)
	first, _ := b.Next()
	if first.Text() != "aa bb" {
		t.Fatalf("首行应为 \"aa bb\"，实际 %q", first.Text())
	}
	c := b.Cursor()
	// 同一游标可重复使用。
	for i := 0; i < 2; i++ {
		rb, err := layout.ResumeLineBreaker(text, 30, style, c)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want[2:], wordUnderlines(rb)); diff != "" {
			t.Fatalf("第 %d 次续排下划线状态不符 (-want +got):\n%s", i, diff)
		}
	}

	tb := layout.NewTextBox(text, image.Rect(0, 0, 30, 100), style)
	full := render(t, text, tb.Bounds, plugin.NewUnderliner())
	it, err := layout.NewRenderIterator(tb)
	if err != nil {
		t.Fatal(err)
	}
	var got []layout.Primitive
	for lines := 0; lines < 2; {
		p, ok := it.Next()
		if !ok {
			t.Fatalf("渲染提前结束")
		}
		got = append(got, p)
		if it.AtLineBoundary() {
			lines++
		}
	}
	rit, err := layout.ResumeRenderIterator(tb, it.Cursor())
	if err != nil {
		t.Fatal(err)
	}
	for p := range rit.All() {
		got = append(got, p)
	}
	if diff := cmp.Diff(full, got); diff != "" {
		t.Fatalf("续排渲染结果不符 (-want +got):\n%s", diff)
	}
}

func TestUnderlinerKeepsSourceRanges(t *testing.T) {
	rec := &plugin.Recorder{}
	style := layout.NewStyle(mono{}, layout.WithPlugins(plugin.NewUnderliner(), rec))
	if _, err := layout.MeasureHeight("x_y", 120, style); err != nil {
		t.Fatal(err)
	}
	type span struct {
		Kind       string
		Start, End int
	}
	var got []span
	for _, e := range rec.Events() {
		got = append(got, span{e.Kind, e.Start, e.End})
	}
	want := []span{{"word", 0, 1}, {"style", 1, 2}, {"word", 2, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("拆分后的源区间不符 (-want +got):\n%s", diff)
	}
}

func TestCharacterLimiter(t *testing.T) {
	bounds := image.Rect(0, 0, 120, 20)
	cases := map[int]string{0: "", 2: "ab", 3: "ab", 4: "abc", 100: "abcd"}
	for n, want := range cases {
		if got := glyphs(render(t, "ab cd", bounds, plugin.CharacterLimiter{N: n})); got != want {
			t.Fatalf("N=%d 时绘制 %q，期望 %q", n, got, want)
		}
	}
	// 断行不受影响：第二行的位置保持不变。
	ps := render(t, "aaa bbb", image.Rect(0, 0, 18, 40), plugin.CharacterLimiter{N: 4})
	last := ps[len(ps)-1].Glyph
	if last.Rune != 'b' || last.Origin != image.Pt(0, 10) {
		t.Fatalf("第二行首字符位置不符: %+v", last)
	}
}

func TestCaret(t *testing.T) {
	red := layout.RGB(255, 0, 0)
	ps := render(t, "ab\ncd", image.Rect(0, 0, 60, 40), plugin.Caret{Color: red, Width: 2})
	want := []image.Rectangle{image.Rect(12, 10, 14, 20)}
	if diff := cmp.Diff(want, fills(ps)); diff != "" {
		t.Fatalf("光标位置不符 (-want +got):\n%s", diff)
	}
	if ps[len(ps)-1].Color != red {
		t.Fatalf("光标应在最后绘制，实际 %+v", ps[len(ps)-1])
	}
}

func TestRecorder(t *testing.T) {
	rec := &plugin.Recorder{}
	ps := render(t, "ab cd", image.Rect(0, 0, 18, 40), rec)
	if len(ps) == 0 {
		t.Fatal("没有图元")
	}
	var lines []layout.TraceEvent
	phases := map[string]bool{}
	for _, e := range rec.Events() {
		phases[e.Phase] = true
		if e.Kind == "line" {
			lines = append(lines, e)
		}
	}
	if !phases["measure"] || !phases["render"] {
		t.Fatalf("应记录两个阶段: %v", phases)
	}
	want := []layout.TraceEvent{
		{Phase: "render", Kind: "line", Text: "ab", Start: 0, End: 3, Line: 0},
		{Phase: "render", Kind: "line", Text: "cd", Start: 3, End: 5, Line: 1},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("行记录不符 (-want +got):\n%s", diff)
	}
	rec.Reset()
	if n := len(rec.Events()); n != 0 {
		t.Fatalf("Reset 后应为空，实际 %d", n)
	}
}
