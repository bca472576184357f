package layout

import (
	"unicode"
	"unicode/utf8"
)

// Tokenizer 把原始文本切分为 token。它只做词法切分，不查询字体度量；
// 宽度与样式在插件链末端统一填写。
type Tokenizer struct {
	text string
	pos  int
}

// NewTokenizer 从 offset 处开始切分 text。
func NewTokenizer(text string, offset int) *Tokenizer {
	if offset < 0 {
		offset = 0
	}
	if offset > len(text) {
		offset = len(text)
	}
	return &Tokenizer{text: text, pos: offset}
}

// Offset 返回下一个 token 的起始字节位置。
func (z *Tokenizer) Offset() int { return z.pos }

// AtEnd 报告文本是否已切分完毕。
func (z *Tokenizer) AtEnd() bool { return z.pos >= len(z.text) }

// Next 返回下一个 token；文本耗尽时返回 false。
func (z *Tokenizer) Next() (Token, bool) {
	if z.pos >= len(z.text) {
		return Token{}, false
	}
	start := z.pos
	r, size := utf8.DecodeRuneInString(z.text[start:])

	switch {
	case r == runeEscape:
		tok, next := parseEscape(z.text, start)
		z.pos = next
		return tok, true
	case r == '\n':
		z.pos += size
		return z.control(ControlNewLine, start), true
	case r == '\r':
		z.pos += size
		if z.pos < len(z.text) && z.text[z.pos] == '\n' {
			z.pos++
			return z.control(ControlNewLine, start), true
		}
		return z.control(ControlCarriageReturn, start), true
	case r == '\t':
		z.pos += size
		return z.control(ControlTab, start), true
	case r == runeSoftHyphen:
		z.pos += size
		return z.control(ControlSoftHyphen, start), true
	case r == runeZeroWidthSpace:
		z.pos += size
		return z.control(ControlZeroWidthSpace, start), true
	case r == runeNBSP:
		z.pos += size
		return z.control(ControlNonBreakingSpace, start), true
	case isSpace(r):
		n := 0
		for z.pos < len(z.text) {
			r, size := utf8.DecodeRuneInString(z.text[z.pos:])
			if !isSpace(r) {
				break
			}
			z.pos += size
			n++
		}
		return Token{Kind: TokenWhitespace, Text: z.text[start:z.pos], Count: n, Start: start, End: z.pos}, true
	}

	for z.pos < len(z.text) {
		r, size := utf8.DecodeRuneInString(z.text[z.pos:])
		if isBoundary(r) {
			break
		}
		z.pos += size
	}
	return Token{Kind: TokenWord, Text: z.text[start:z.pos], Start: start, End: z.pos}, true
}

func (z *Tokenizer) control(c ControlKind, start int) Token {
	return Token{Kind: TokenControl, Control: c, Text: z.text[start:z.pos], Start: start, End: z.pos}
}

// isSpace 判断可断行空白；NBSP 与换行类字符单独处理。
func isSpace(r rune) bool {
	switch r {
	case '\n', '\r', '\t', runeNBSP:
		return false
	}
	return r == ' ' || unicode.IsSpace(r)
}

func isBoundary(r rune) bool {
	switch r {
	case runeEscape, '\n', '\r', '\t', runeSoftHyphen, runeZeroWidthSpace, runeNBSP:
		return true
	}
	return isSpace(r)
}
