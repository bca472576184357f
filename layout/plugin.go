package layout

import "image"

// Phase 标识插件被调用时所处的遍历。
type Phase int

const (
	// PhaseMeasure 为只测量不绘制的遍历（高度测量、行数统计）。
	PhaseMeasure Phase = iota
	// PhaseRender 为产出绘制图元的遍历。
	PhaseRender
)

func (p Phase) String() string {
	if p == PhaseRender {
		return "render"
	}
	return "measure"
}

// Plugin 是插件的公共类型；具体能力由下列可选接口表达，插件实现其中任意子集。
type Plugin any

// TokenHook 观察或改写分词结果。emit 可调用零次（丢弃）、一次（透传或替换）或多次（注入）。
type TokenHook interface {
	OnToken(phase Phase, t Token, emit func(Token))
}

// CharacterHook 在每个字符绘制前被调用，只在 PhaseRender 中生效。
type CharacterHook interface {
	OnCharacter(c Character, emit func(Character))
}

// LineStartHook 在一行的图元之前被调用，可追加装饰图元，不参与宽度测量。
type LineStartHook interface {
	OnLineStart(info LineInfo, emit func(Primitive))
}

// LineEndHook 在一行的图元之后被调用。
type LineEndHook interface {
	OnLineEnd(info LineInfo, emit func(Primitive))
}

// Cloner 由有状态插件实现；每次遍历开始时使用克隆体，样式本身保持不可变。
// Clone 必须复制当前状态：游标也用它保存断行到某一行时的插件状态。
type Cloner interface {
	Clone() Plugin
}

// Character 是即将绘制的单个字符。
type Character struct {
	Rune  rune
	Style StyleState
	// Origin 为字符单元左上角。
	Origin  image.Point
	Advance int
	// Index 为本次遍历中进入插件链的字符序号，从 0 开始。
	Index int
}

// LineInfo 描述一行在文本框中的位置，供行首/行尾钩子使用。
type LineInfo struct {
	Index int
	Line  Line
	// Origin 为对齐后该行左上角。
	Origin image.Point
	Width  int
	Height int
	Clip   image.Rectangle
	// Last 表示这是本次遍历绘制的最后一行。
	Last bool
}

// chain 是按调用方顺序组合的插件链，每次遍历新建一份。
type chain struct {
	phase      Phase
	links      []Plugin
	tokenHooks []TokenHook
	charHooks  []CharacterHook
	startHooks []LineStartHook
	endHooks   []LineEndHook

	tokenEmit []func(Token)
	charEmit  []func(Character)
	origin    Token

	tokenSink func(Token)
	charSink  func(Character)
	primSink  func(Primitive)
	charIndex int
}

func newChain(plugins []Plugin, phase Phase) *chain {
	return restoreChain(plugins, nil, phase)
}

// restoreChain 与 newChain 相同，但 saved 非空时用游标保存的插件快照代替 plugins。
func restoreChain(plugins, saved []Plugin, phase Phase) *chain {
	if saved != nil && len(saved) == len(plugins) {
		plugins = saved
	}
	c := &chain{phase: phase}
	for _, p := range plugins {
		if cl, ok := p.(Cloner); ok {
			p = cl.Clone()
		}
		c.links = append(c.links, p)
		if h, ok := p.(TokenHook); ok {
			c.tokenHooks = append(c.tokenHooks, h)
		}
		if h, ok := p.(CharacterHook); ok {
			c.charHooks = append(c.charHooks, h)
		}
		if h, ok := p.(LineStartHook); ok {
			c.startHooks = append(c.startHooks, h)
		}
		if h, ok := p.(LineEndHook); ok {
			c.endHooks = append(c.endHooks, h)
		}
	}

	c.tokenEmit = make([]func(Token), len(c.tokenHooks)+1)
	c.tokenEmit[len(c.tokenHooks)] = func(t Token) {
		if t.Start < 0 {
			t.Start, t.End = c.origin.Start, c.origin.End
		}
		c.tokenSink(t)
	}
	for i := len(c.tokenHooks) - 1; i >= 0; i-- {
		h, next := c.tokenHooks[i], c.tokenEmit[i+1]
		c.tokenEmit[i] = func(t Token) { h.OnToken(c.phase, t, next) }
	}

	c.charEmit = make([]func(Character), len(c.charHooks)+1)
	c.charEmit[len(c.charHooks)] = func(ch Character) { c.charSink(ch) }
	for i := len(c.charHooks) - 1; i >= 0; i-- {
		h, next := c.charHooks[i], c.charEmit[i+1]
		c.charEmit[i] = func(ch Character) { h.OnCharacter(ch, next) }
	}
	return c
}

// snapshot 复制链上每个插件的当前状态，供 Cursor 携带。
func (c *chain) snapshot() []Plugin {
	if len(c.links) == 0 {
		return nil
	}
	out := make([]Plugin, len(c.links))
	for i, p := range c.links {
		if cl, ok := p.(Cloner); ok {
			p = cl.Clone()
		}
		out[i] = p
	}
	return out
}

// token 把一个源 token 送入插件链，结果交给 sink。
func (c *chain) token(t Token, sink func(Token)) {
	c.origin = t
	c.tokenSink = sink
	c.tokenEmit[0](t)
}

// character 把一个字符送入插件链，结果交给 sink。
func (c *chain) character(ch Character, sink func(Character)) {
	ch.Index = c.charIndex
	c.charIndex++
	c.charSink = sink
	c.charEmit[0](ch)
}

func (c *chain) lineStart(info LineInfo, sink func(Primitive)) {
	for _, h := range c.startHooks {
		h.OnLineStart(info, sink)
	}
}

func (c *chain) lineEnd(info LineInfo, sink func(Primitive)) {
	for _, h := range c.endHooks {
		h.OnLineEnd(info, sink)
	}
}

// tokenStream 串联分词器、插件链与度量：插件链输出的每个 token 在这里
// 被盖上当前样式并测量一次宽度。
type tokenStream struct {
	lexer   *Tokenizer
	chain   *chain
	metrics Metrics
	base    StyleState
	state   StyleState
	queue   []Token
	head    int
	sink    func(Token)
}

func newTokenStream(text string, offset int, state StyleState, style *TextBoxStyle, c *chain) *tokenStream {
	s := &tokenStream{
		lexer:   NewTokenizer(text, offset),
		chain:   c,
		metrics: style.Metrics,
		base:    style.Base,
		state:   state,
	}
	s.sink = s.accept
	return s
}

func (s *tokenStream) accept(t Token) {
	t.Style = s.state
	if t.Kind == TokenStyle {
		s.state = s.state.ApplyToken(t, s.base)
	}
	t.Width = t.measure(s.metrics, s.metrics.Advance(' ', t.Style))
	s.queue = append(s.queue, t)
}

// next 返回下一个已测量的 token。
func (s *tokenStream) next() (Token, bool) {
	for s.head >= len(s.queue) {
		s.queue, s.head = s.queue[:0], 0
		raw, ok := s.lexer.Next()
		if !ok {
			return Token{}, false
		}
		s.chain.token(raw, s.sink)
	}
	t := s.queue[s.head]
	s.head++
	return t, true
}

// buffered 返回已经过插件链、尚未被取走的 token。
func (s *tokenStream) buffered() []Token {
	return s.queue[s.head:]
}

// atEnd 报告是否再无 token 可取。
func (s *tokenStream) atEnd() bool {
	return s.head >= len(s.queue) && s.lexer.AtEnd()
}
