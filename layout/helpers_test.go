package layout

import (
	"image"
	"testing"
)

// monoMetrics 是等宽测试字体：每个字符 adv 像素，零宽字符为 0。
type monoMetrics struct {
	adv, height, baseline int
}

func (m monoMetrics) Advance(r rune, _ StyleState) int {
	if r == runeZeroWidthSpace || r == runeSoftHyphen {
		return 0
	}
	return m.adv
}

func (m monoMetrics) LineHeight() int { return m.height }
func (m monoMetrics) Baseline() int   { return m.baseline }

func mono() monoMetrics { return monoMetrics{adv: 6, height: 10, baseline: 8} }

// cols 把字符列数换算为等宽测试字体下的像素。
func cols(n int) int { return n * 6 }

// collectLines 断行全部文本，复制每行的 token 以便断言。
func collectLines(t *testing.T, text string, width int, style *TextBoxStyle) []Line {
	t.Helper()
	b, err := NewLineBreaker(text, width, style)
	if err != nil {
		t.Fatalf("创建断行器失败: %v", err)
	}
	return drain(b)
}

func drain(b *LineBreaker) []Line {
	var out []Line
	for {
		l, ok := b.Next()
		if !ok {
			return out
		}
		l.Tokens = append([]Token(nil), l.Tokens...)
		out = append(out, l)
	}
}

func lineTexts(ls []Line) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Text())
	}
	return out
}

type fillCall struct {
	Rect  image.Rectangle
	Color Color
}

// recordSurface 记录全部绘制调用。
type recordSurface struct {
	fills  []fillCall
	glyphs []Glyph
	calls  int
	failAt int
	err    error
}

func (s *recordSurface) FillRect(r image.Rectangle, c Color) error {
	s.calls++
	if s.err != nil && s.calls == s.failAt {
		return s.err
	}
	s.fills = append(s.fills, fillCall{Rect: r, Color: c})
	return nil
}

func (s *recordSurface) DrawGlyph(g Glyph) error {
	s.calls++
	if s.err != nil && s.calls == s.failAt {
		return s.err
	}
	s.glyphs = append(s.glyphs, g)
	return nil
}

func (s *recordSurface) text() string {
	rs := make([]rune, 0, len(s.glyphs))
	for _, g := range s.glyphs {
		rs = append(rs, g.Rune)
	}
	return string(rs)
}

func primitives(t *testing.T, tb TextBox) []Primitive {
	t.Helper()
	it, err := NewRenderIterator(tb)
	if err != nil {
		t.Fatalf("创建渲染迭代器失败: %v", err)
	}
	var out []Primitive
	for p := range it.All() {
		out = append(out, p)
	}
	return out
}
