package layout

import (
	"fmt"
	"image"
	"iter"
	"unicode"
	"unicode/utf8"
)

// RenderIterator 按阅读顺序惰性产出绘制图元。随时停止迭代都是安全的，无需收尾。
type RenderIterator struct {
	style   *TextBoxStyle
	metrics Metrics
	frame   Frame
	breaker *LineBreaker
	chain   *chain

	width    int
	lh       int
	baseline int
	top      int
	index    int
	done     bool

	queue    []Primitive
	qh       int
	chars    []Character
	gapExtra []int
	collect  func(Character)
	push     func(Primitive)

	onLine func(LineInfo)
}

// NewRenderIterator 为文本框创建渲染迭代器。
func NewRenderIterator(tb TextBox) (*RenderIterator, error) {
	if err := checkStyle(tb.Style); err != nil {
		return nil, err
	}
	return newRenderIterator(tb, Cursor{Style: tb.Style.Base, lexStyle: tb.Style.Base})
}

// ResumeRenderIterator 从 c 处继续渲染 tb。c 应取自同一文本框的 RenderIterator.Cursor，
// 这样续排的行号、纵向位置、字符序号与插件状态都与一次渲染到底相同。
func ResumeRenderIterator(tb TextBox, c Cursor) (*RenderIterator, error) {
	return newRenderIterator(tb, c)
}

func newRenderIterator(tb TextBox, c Cursor) (*RenderIterator, error) {
	frame, err := ResolveFrame(tb)
	if err != nil {
		return nil, err
	}
	style := tb.Style
	ch := restoreChain(style.Plugins, c.plugins, PhaseRender)
	ch.charIndex = c.chars
	it := &RenderIterator{
		style:    style,
		metrics:  style.Metrics,
		frame:    frame,
		chain:    ch,
		width:    frame.Box.Dx(),
		lh:       style.lineHeight(),
		baseline: style.Metrics.Baseline(),
		top:      frame.Box.Min.Y + frame.OffsetY + c.y,
		index:    c.line,
	}
	it.breaker = newLineBreaker(tb.Text, it.width, style, c, ch)
	it.collect = func(c Character) { it.chars = append(it.chars, c) }
	it.push = func(p Primitive) { it.queue = append(it.queue, p) }
	if frame.Box.Dx() <= 0 || frame.Box.Dy() <= 0 {
		it.done = true
	}
	return it, nil
}

// Frame 返回垂直排版结果。
func (it *RenderIterator) Frame() Frame { return it.frame }

// Cursor 返回下一条尚未产出图元的行的游标，交给 ResumeRenderIterator 即可继续。
// 当前行未取完的图元不在游标之内，应在 AtLineBoundary 为真时调用。
func (it *RenderIterator) Cursor() Cursor {
	c := it.breaker.Cursor()
	c.line = it.index
	c.y = it.top - (it.frame.Box.Min.Y + it.frame.OffsetY)
	c.chars = it.chain.charIndex
	return c
}

// AtLineBoundary 报告已产出的图元是否恰好结束于一行末尾。
func (it *RenderIterator) AtLineBoundary() bool { return it.qh >= len(it.queue) }

// Next 返回下一个图元；全部产出后返回 false。
func (it *RenderIterator) Next() (Primitive, bool) {
	for it.qh >= len(it.queue) {
		it.queue, it.qh = it.queue[:0], 0
		if !it.fill() {
			return Primitive{}, false
		}
	}
	p := it.queue[it.qh]
	it.qh++
	return p, true
}

// All 以 range-over-func 形式返回剩余图元。
func (it *RenderIterator) All() iter.Seq[Primitive] {
	return func(yield func(Primitive) bool) {
		for {
			p, ok := it.Next()
			if !ok || !yield(p) {
				return
			}
		}
	}
}

// fill 排版下一条可见行，把它的图元放入队列。
func (it *RenderIterator) fill() bool {
	for !it.done {
		line, ok := it.breaker.Next()
		if !ok {
			it.done = true
			return false
		}
		top := it.top
		it.top += it.style.lineAdvance(line)
		index := it.index
		it.index++

		if it.above(top) {
			continue
		}
		if !it.visible(top) {
			it.done = true
			return false
		}
		last := it.breaker.Done() || !it.visible(it.top)
		if last {
			it.done = true
		}
		it.emitLine(line, index, top, last)
		if len(it.queue) > 0 {
			return true
		}
	}
	return false
}

// above 报告顶部位于 top 的行是否整体处于可见区域之上（滚动时被跳过）。
func (it *RenderIterator) above(top int) bool {
	if it.frame.FullRowsOnly {
		return top < it.frame.Box.Min.Y
	}
	return top+it.lh <= it.frame.Clip.Min.Y
}

// visible 报告顶部位于 top 的行是否还能绘制；后续行只会更靠下。
func (it *RenderIterator) visible(top int) bool {
	if it.frame.FullRowsOnly {
		return top+it.lh <= it.frame.Box.Max.Y
	}
	return top < it.frame.Clip.Max.Y
}

func (it *RenderIterator) emitLine(line Line, index, top int, last bool) {
	align := it.style.Alignment
	justify := Justifies(line, align)
	width := line.Width
	if justify {
		it.gapExtra = JustifySpacing(it.width-line.Width, line.Gaps, it.style.JustifyRemainder, it.gapExtra)
		width = it.width
	}
	x := it.frame.Box.Min.X + HorizontalOffset(line, it.width, align)
	info := LineInfo{
		Index:  index,
		Line:   line,
		Origin: image.Pt(x, top),
		Width:  width,
		Height: it.lh,
		Clip:   it.frame.Clip,
		Last:   last,
	}
	if it.onLine != nil {
		it.onLine(info)
	}
	it.chain.lineStart(info, it.push)

	gap := 0
	for i, tok := range line.Tokens {
		switch tok.Kind {
		case TokenWord:
			for _, r := range tok.Text {
				adv := it.metrics.Advance(r, tok.Style)
				it.character(r, tok.Style, x, top, adv)
				x += adv
			}
		case TokenWhitespace:
			extra := 0
			if justify && gap < len(it.gapExtra) {
				extra = it.gapExtra[gap]
				gap++
			}
			for rest := tok.Text; rest != ""; {
				r, size := utf8.DecodeRuneInString(rest)
				rest = rest[size:]
				adv := it.metrics.Advance(r, tok.Style)
				if rest == "" {
					adv += extra
				}
				it.character(' ', tok.Style, x, top, adv)
				x += adv
			}
		case TokenControl:
			switch tok.Control {
			case ControlNonBreakingSpace:
				it.character(' ', tok.Style, x, top, tok.Width)
			case ControlTab:
				it.character('\t', tok.Style, x, top, tok.Width)
			case ControlSoftHyphen:
				if line.Hyphenated && i == len(line.Tokens)-1 {
					it.character('-', tok.Style, x, top, tok.Width)
				}
			}
			x += tok.Width
		case TokenStyle:
			x += tok.Width
		}
		it.flush()
	}

	it.chain.lineEnd(info, it.push)
}

func (it *RenderIterator) character(r rune, st StyleState, x, top, adv int) {
	it.chain.character(Character{Rune: r, Style: st, Origin: image.Pt(x, top), Advance: adv}, it.collect)
}

// flush 按背景、字形、下划线、删除线的顺序输出一个 token 的图元。
func (it *RenderIterator) flush() {
	if len(it.chars) == 0 {
		return
	}
	clip := it.frame.Clip

	it.runs(background, func(x0, x1, y int) image.Rectangle {
		return image.Rect(x0, y, x1, y+it.lh)
	})

	for _, c := range it.chars {
		if !isVisibleRune(c.Rune) {
			continue
		}
		cell := image.Rect(c.Origin.X, c.Origin.Y, c.Origin.X+max(c.Advance, 1), c.Origin.Y+it.lh)
		if !cell.Overlaps(clip) {
			continue
		}
		it.queue = append(it.queue, Primitive{
			Kind: PrimitiveGlyph,
			Glyph: Glyph{
				Rune:       c.Rune,
				Origin:     c.Origin,
				Baseline:   it.baseline,
				Advance:    c.Advance,
				Foreground: c.Style.Foreground,
				Background: c.Style.Background,
				Clip:       clip,
			},
		})
	}

	it.runs(underlined, func(x0, x1, y int) image.Rectangle {
		return image.Rect(x0, y+it.baseline+1, x1, y+it.baseline+2)
	})
	it.runs(struckThrough, func(x0, x1, y int) image.Rectangle {
		return image.Rect(x0, y+it.lh/2, x1, y+it.lh/2+1)
	})
	it.chars = it.chars[:0]
}

// runs 把颜色相同且水平相接的字符合并为一个矩形。
func (it *RenderIterator) runs(sel func(Character) (Color, bool), rect func(x0, x1, y int) image.Rectangle) {
	var (
		open   bool
		col    Color
		x0, x1 int
		y      int
	)
	emit := func() {
		if !open {
			return
		}
		r := rect(x0, x1, y).Intersect(it.frame.Clip)
		if !r.Empty() {
			it.queue = append(it.queue, FillRect(r, col))
		}
		open = false
	}
	for _, c := range it.chars {
		cc, on := sel(c)
		if !on {
			emit()
			continue
		}
		if open && cc == col && c.Origin.X == x1 && c.Origin.Y == y {
			x1 += c.Advance
			continue
		}
		emit()
		open, col, x0, x1, y = true, cc, c.Origin.X, c.Origin.X+c.Advance, c.Origin.Y
	}
	emit()
}

func background(c Character) (Color, bool) {
	return c.Style.Background, c.Style.Background.IsSet()
}

func underlined(c Character) (Color, bool) {
	return c.Style.Foreground, c.Style.Underline && c.Style.Foreground.IsSet()
}

func struckThrough(c Character) (Color, bool) {
	return c.Style.Foreground, c.Style.Strikethrough && c.Style.Foreground.IsSet()
}

func isVisibleRune(r rune) bool {
	return r != ' ' && r != '\t' && !unicode.IsSpace(r) && unicode.IsPrint(r)
}

// Draw 把文本框绘制到 surface，返回第一个绘制错误。
func Draw(tb TextBox, s Surface) error {
	it, err := NewRenderIterator(tb)
	if err != nil {
		return err
	}
	for p := range it.All() {
		switch p.Kind {
		case PrimitiveFill:
			err = s.FillRect(p.Rect, p.Color)
		case PrimitiveGlyph:
			err = s.DrawGlyph(p.Glyph)
		}
		if err != nil {
			return fmt.Errorf("textbox: draw: %w", err)
		}
	}
	return nil
}
