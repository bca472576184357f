package layout

import "unicode/utf8"

// Cursor 是断行进度的可复制快照。把它交给 ResumeLineBreaker 即可从下一行继续，
// 无需重新推导之前的行。
type Cursor struct {
	// Offset 为下一行在源文本中的起始字节位置。
	Offset int `json:"offset"`
	// Style 为 Offset 处生效的样式。
	Style StyleState `json:"style"`
	// Continued 表示上一行因宽度不足而折行，下一行行首空白会被吃掉。
	Continued bool `json:"continued,omitempty"`
	// AfterNewline 表示上一行以换行符结束。
	AfterNewline bool `json:"afterNewline,omitempty"`

	lexAt    int
	lexStyle StyleState
	// pending 为已读取但属于后续行的 token（至多一个单词单元）。
	pending []Token
	// plugins 为 lexAt 处的插件状态快照。
	plugins []Plugin

	// 以下由 RenderIterator.Cursor 填写，供 ResumeRenderIterator 使用。
	line  int
	y     int
	chars int
}

// breakPoint 记录行内可断开的位置：items[:n] 属于本行。
type breakPoint struct {
	n   int
	shy bool
}

// LineBreaker 按贪心策略逐行断行，每次调用 Next 产出一行。
type LineBreaker struct {
	text    string
	width   int
	style   *TextBoxStyle
	metrics Metrics
	stream  *tokenStream
	tab     int

	items   []Token
	pending []Token
	spare   []Token
	ph      int

	offset       int
	lineStyle    StyleState
	continued    bool
	afterNewline bool
}

// NewLineBreaker 在 width 像素宽的区域内从头断行 text。
func NewLineBreaker(text string, width int, style *TextBoxStyle) (*LineBreaker, error) {
	if err := checkStyle(style); err != nil {
		return nil, err
	}
	return newLineBreaker(text, width, style, Cursor{Style: style.Base, lexStyle: style.Base}, newChain(style.Plugins, PhaseMeasure)), nil
}

// ResumeLineBreaker 从 c 处继续断行。text、width 与 style 必须与产生 c 的断行器一致。
// 有状态插件从 c 保存的状态继续；同一个游标可以多次使用。
func ResumeLineBreaker(text string, width int, style *TextBoxStyle, c Cursor) (*LineBreaker, error) {
	if err := checkStyle(style); err != nil {
		return nil, err
	}
	return newLineBreaker(text, width, style, c, restoreChain(style.Plugins, c.plugins, PhaseMeasure)), nil
}

func checkStyle(style *TextBoxStyle) error {
	if style == nil {
		return ErrNilStyle
	}
	if style.Metrics == nil {
		return ErrNilMetrics
	}
	return nil
}

func newLineBreaker(text string, width int, style *TextBoxStyle, c Cursor, ch *chain) *LineBreaker {
	if c.lexAt < c.Offset {
		c.lexAt, c.lexStyle = c.Offset, c.Style
	}
	b := &LineBreaker{
		text:         text,
		width:        width,
		style:        style,
		metrics:      style.Metrics,
		stream:       newTokenStream(text, c.lexAt, c.lexStyle, style, ch),
		tab:          style.tabWidth(),
		offset:       c.Offset,
		lineStyle:    c.Style,
		continued:    c.Continued,
		afterNewline: c.AfterNewline,
	}
	b.pending = append(b.pending, c.pending...)
	return b
}

// Cursor 返回当前进度，可用于稍后继续。
func (b *LineBreaker) Cursor() Cursor {
	c := Cursor{
		Offset:       b.offset,
		Style:        b.lineStyle,
		Continued:    b.continued,
		AfterNewline: b.afterNewline,
		lexAt:        b.stream.lexer.Offset(),
		lexStyle:     b.stream.state,
		plugins:      b.stream.chain.snapshot(),
	}
	c.pending = append(c.pending, b.pending[b.ph:]...)
	c.pending = append(c.pending, b.stream.buffered()...)
	return c
}

// Done 报告是否已无更多行。
func (b *LineBreaker) Done() bool {
	if b.width <= 0 {
		return true
	}
	return b.ph >= len(b.pending) && b.stream.atEnd() && !b.afterNewline
}

func (b *LineBreaker) take() (Token, bool) {
	if b.ph < len(b.pending) {
		t := b.pending[b.ph]
		b.ph++
		return t, true
	}
	return b.stream.next()
}

// carry 把 toks 放回待处理队列的最前面。
func (b *LineBreaker) carry(toks ...Token) {
	b.spare = append(b.spare[:0], toks...)
	b.spare = append(b.spare, b.pending[b.ph:]...)
	b.pending, b.spare = b.spare, b.pending
	b.ph = 0
}

// Next 产出下一行；文本耗尽时返回 false。返回的 Line.Tokens 在下一次调用前有效。
func (b *LineBreaker) Next() (Line, bool) {
	if b.width <= 0 {
		return Line{}, false
	}
	if b.ph >= len(b.pending) {
		b.pending, b.ph = b.pending[:0], 0
	}

	line := Line{Start: b.offset, Style: b.lineStyle}
	b.items = b.items[:0]
	prevNewline := b.afterNewline
	eatLeading := b.continued || b.style.Alignment != AlignLeft

	var (
		x        int
		content  bool
		consumed bool
		bp       breakPoint
		hasBP    bool
	)
	for {
		t, ok := b.take()
		if !ok {
			break
		}
		consumed = true

		switch t.Kind {
		case TokenStyle:
			if n := t.cursorForward(); n > 0 {
				t.Width = forwardWidth(n, b.metrics.Advance(' ', t.Style), max(b.width-x, 0))
				x += t.Width
				content = true
			}
			b.items = append(b.items, t)
			continue

		case TokenWhitespace:
			if !content && eatLeading {
				continue
			}
			b.items = append(b.items, t)
			x += t.Width
			if content {
				bp, hasBP = breakPoint{n: len(b.items)}, true
			}
			continue

		case TokenControl:
			switch t.Control {
			case ControlNewLine, ControlCarriageReturn:
				line.Paragraph = t.Control == ControlNewLine
				b.continued, b.afterNewline = false, true
				return b.finish(line), true

			case ControlTab:
				w := 0
				if b.tab > 0 {
					w = b.tab - x%b.tab
				}
				if x+w > b.width {
					line.Wrapped = true
					b.continued, b.afterNewline = true, false
					if x > b.width {
						// 行尾空白已越界：在最近的断点处折行，制表符移到下一行。
						if hasBP {
							b.carry(append(b.items[bp.n:len(b.items):len(b.items)], t)...)
							b.items = b.items[:bp.n]
							return b.finish(line), true
						}
						line.Forced = true
					}
					t.Width = max(b.width-x, 0)
					b.items = append(b.items, t)
					return b.finish(line), true
				}
				t.Width = w
				b.items = append(b.items, t)
				x += w
				content = true
				bp, hasBP = breakPoint{n: len(b.items)}, true
				continue

			case ControlZeroWidthSpace:
				b.items = append(b.items, t)
				if content {
					bp, hasBP = breakPoint{n: len(b.items)}, true
				}
				continue

			case ControlSoftHyphen:
				b.items = append(b.items, t)
				if content && x+b.hyphenWidth(t.Style) <= b.width {
					bp, hasBP = breakPoint{n: len(b.items), shy: true}, true
				}
				continue
			}
		}

		// 单词或不可断空格。
		if x+t.Width <= b.width {
			b.items = append(b.items, t)
			x += t.Width
			content = true
			continue
		}

		line.Wrapped = true
		b.continued, b.afterNewline = true, false
		if hasBP {
			b.carry(append(b.items[bp.n:len(b.items):len(b.items)], t)...)
			b.items = b.items[:bp.n]
			if bp.shy {
				last := &b.items[len(b.items)-1]
				last.Width = b.hyphenWidth(last.Style)
				line.Hyphenated = true
			}
			return b.finish(line), true
		}

		line.Forced = true
		if t.Kind != TokenWord {
			if content {
				b.carry(t)
			} else {
				b.items = append(b.items, t)
			}
			return b.finish(line), true
		}
		head, rest, ok := b.split(t, b.width-x, !content)
		if ok {
			b.items = append(b.items, head)
			if rest.Text != "" {
				b.carry(rest)
			}
		} else {
			b.carry(t)
		}
		return b.finish(line), true
	}

	// 文本耗尽。
	if !consumed {
		if !prevNewline {
			return Line{}, false
		}
		b.afterNewline = false
		line.End = line.Start
		line.Tokens = b.items
		return line, true
	}
	b.continued, b.afterNewline = false, false
	return b.finish(line), true
}

// split 在 avail 像素内尽量多地放入 t 的字符。atLeastOne 为真时至少放入一个字符。
func (b *LineBreaker) split(t Token, avail int, atLeastOne bool) (head, rest Token, ok bool) {
	w, cut := 0, 0
	for cut < len(t.Text) {
		r, size := utf8.DecodeRuneInString(t.Text[cut:])
		adv := b.metrics.Advance(r, t.Style)
		if w+adv > avail && !(atLeastOne && cut == 0) {
			break
		}
		w += adv
		cut += size
	}
	if cut == 0 {
		return Token{}, Token{}, false
	}
	at := t.End
	if t.Start >= 0 && t.End <= len(b.text) && b.text[t.Start:t.End] == t.Text {
		at = t.Start + cut
	}
	head, rest = t, t
	head.Text, head.Width, head.End = t.Text[:cut], w, at
	rest.Text, rest.Width, rest.Start = t.Text[cut:], t.Width-w, at
	return head, rest, true
}

// forwardWidth 返回前移 n 列（每列 adv 像素）的宽度，不超过 avail。
func forwardWidth(n, adv, avail int) int {
	if adv <= 0 {
		return 0
	}
	if n > avail/adv {
		return avail
	}
	return n * adv
}

func (b *LineBreaker) hyphenWidth(st StyleState) int {
	return b.metrics.Advance('-', st)
}

// finish 吃掉行尾空白，统计宽度与间隙，并推进游标。
func (b *LineBreaker) finish(line Line) Line {
	end := len(b.items)
	for end > 0 && trailing(b.items[end-1], line.Hyphenated && end == len(b.items)) {
		end--
	}
	kept := end
	for _, t := range b.items[end:] {
		if t.Kind == TokenWhitespace {
			line.Eaten = true
			continue
		}
		b.items[kept] = t
		kept++
	}
	b.items = b.items[:kept]

	for _, t := range b.items {
		line.Width += t.Width
		if t.Kind == TokenWhitespace {
			line.Gaps++
		}
	}
	line.Tokens = b.items
	b.advance()
	line.End = b.offset
	return line
}

// trailing 报告行尾 token 能否越过：空白会被吃掉，零宽 token 保留但不阻止吃空白。
func trailing(t Token, hyphen bool) bool {
	switch t.Kind {
	case TokenWhitespace:
		return true
	case TokenStyle:
		return t.Width == 0
	case TokenControl:
		return !hyphen && (t.Control == ControlZeroWidthSpace || t.Control == ControlSoftHyphen)
	}
	return false
}

// advance 把下一行的起点与样式设为第一个尚未消费的 token。
func (b *LineBreaker) advance() {
	if b.ph < len(b.pending) {
		t := b.pending[b.ph]
		b.offset, b.lineStyle = t.Start, t.Style
		return
	}
	if buf := b.stream.buffered(); len(buf) > 0 {
		b.offset, b.lineStyle = buf[0].Start, buf[0].Style
		return
	}
	b.offset, b.lineStyle = b.stream.lexer.Offset(), b.stream.state
}
