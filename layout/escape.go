package layout

import (
	"strconv"
	"strings"
)

// EffectKind 为样式 token 中单个效果的种类。
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectReset
	EffectForeground
	EffectDefaultForeground
	EffectBackground
	EffectDefaultBackground
	EffectUnderline
	EffectUnderlineOff
	EffectStrikethrough
	EffectStrikethroughOff
	EffectCursorForward
)

// Effect 是一次样式变更。Color 用于前景/背景，N 用于光标前移的列数。
type Effect struct {
	Kind  EffectKind
	Color Color
	N     int
}

// ansiPalette 为 16 个标准色（PowerShell 配色）。
var ansiPalette = [16]Color{
	RGB(12, 12, 12),
	RGB(197, 15, 31),
	RGB(19, 161, 14),
	RGB(193, 156, 0),
	RGB(0, 55, 218),
	RGB(136, 23, 152),
	RGB(58, 150, 221),
	RGB(204, 204, 204),
	RGB(118, 118, 118),
	RGB(231, 72, 86),
	RGB(22, 198, 12),
	RGB(249, 241, 165),
	RGB(59, 120, 255),
	RGB(180, 0, 158),
	RGB(97, 214, 214),
	RGB(242, 242, 242),
}

// IndexedColor 返回 256 色表中的颜色：0-15 标准色，16-231 为 6x6x6 色立方，232-255 为灰阶。
func IndexedColor(n uint8) Color {
	switch {
	case n < 16:
		return ansiPalette[n]
	case n < 232:
		i := n - 16
		return RGB(i/36*51, i/6%6*51, i%6*51)
	case n == 255:
		return RGB(255, 255, 255)
	default:
		v := (n - 232) * 11
		return RGB(v, v, v)
	}
}

// maxCursorForward 为单个 `CSI n C` 的列数上限，远超任何一行的宽度。
const maxCursorForward = 1 << 16

// parseEscape 从 text[start]（ESC）开始解析一个转义序列，返回样式 token 与下一个位置。
// 不支持或畸形的序列同样被整体消费，产生不含效果的零宽 token。
func parseEscape(text string, start int) (Token, int) {
	tok := Token{Kind: TokenStyle, Start: start}
	i := start + 1
	if i >= len(text) {
		tok.Text, tok.End = text[start:i], i
		return tok, i
	}
	b := text[i]
	if b != '[' {
		// ESC Fe：两字节序列，只消费不解释。
		if b >= 0x40 && b <= 0x5f {
			i++
		}
		tok.Text, tok.End = text[start:i], i
		return tok, i
	}
	i++
	paramStart := i
	for i < len(text) && text[i] >= 0x30 && text[i] <= 0x3f {
		i++
	}
	params := text[paramStart:i]
	for i < len(text) && text[i] >= 0x20 && text[i] <= 0x2f {
		i++
	}
	if i >= len(text) || text[i] < 0x40 || text[i] > 0x7e {
		// 缺少终止字节，丢弃已读取的部分。
		tok.Text, tok.End = text[start:i], i
		return tok, i
	}
	final := text[i]
	i++
	tok.Text, tok.End = text[start:i], i
	switch final {
	case 'm':
		applySGR(&tok, params)
	case 'C':
		n, ok := singleParam(params)
		if !ok {
			break
		}
		tok.addEffect(Effect{Kind: EffectCursorForward, N: min(max(n, 1), maxCursorForward)})
	}
	return tok, i
}

// splitParams 拆分以 ';' 分隔的参数，空参数视为 0；包含非数字时返回 false。
func splitParams(params string) ([]int, bool) {
	fields := strings.Split(params, ";")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			out = append(out, 0)
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}

func singleParam(params string) (int, bool) {
	ps, ok := splitParams(params)
	if !ok || len(ps) != 1 {
		return 0, false
	}
	return ps[0], true
}

// applySGR 把 SGR 参数翻译为效果，按出现顺序追加。
func applySGR(tok *Token, params string) {
	ps, ok := splitParams(params)
	if !ok {
		return
	}
	for i := 0; i < len(ps); i++ {
		code := ps[i]
		switch {
		case code == 0:
			tok.addEffect(Effect{Kind: EffectReset})
		case code == 4:
			tok.addEffect(Effect{Kind: EffectUnderline})
		case code == 24:
			tok.addEffect(Effect{Kind: EffectUnderlineOff})
		case code == 9:
			tok.addEffect(Effect{Kind: EffectStrikethrough})
		case code == 29:
			tok.addEffect(Effect{Kind: EffectStrikethroughOff})
		case code >= 30 && code <= 37:
			tok.addEffect(Effect{Kind: EffectForeground, Color: ansiPalette[code-30]})
		case code >= 90 && code <= 97:
			tok.addEffect(Effect{Kind: EffectForeground, Color: ansiPalette[code-82]})
		case code == 39:
			tok.addEffect(Effect{Kind: EffectDefaultForeground})
		case code >= 40 && code <= 47:
			tok.addEffect(Effect{Kind: EffectBackground, Color: ansiPalette[code-40]})
		case code >= 100 && code <= 107:
			tok.addEffect(Effect{Kind: EffectBackground, Color: ansiPalette[code-92]})
		case code == 49:
			tok.addEffect(Effect{Kind: EffectDefaultBackground})
		case code == 38 || code == 48:
			c, used, ok := extendedColor(ps[i+1:])
			i += used
			if !ok {
				continue
			}
			kind := EffectForeground
			if code == 48 {
				kind = EffectBackground
			}
			tok.addEffect(Effect{Kind: kind, Color: c})
		}
	}
}

// extendedColor 解析 "5;n" 或 "2;r;g;b"，返回颜色与消耗的参数个数。
func extendedColor(ps []int) (Color, int, bool) {
	if len(ps) == 0 {
		return Color{}, 0, false
	}
	switch ps[0] {
	case 5:
		if len(ps) < 2 {
			return Color{}, len(ps), false
		}
		if ps[1] > 255 {
			return Color{}, 2, false
		}
		return IndexedColor(uint8(ps[1])), 2, true
	case 2:
		if len(ps) < 4 {
			return Color{}, len(ps), false
		}
		if ps[1] > 255 || ps[2] > 255 || ps[3] > 255 {
			return Color{}, 4, false
		}
		return RGB(uint8(ps[1]), uint8(ps[2]), uint8(ps[3])), 4, true
	default:
		return Color{}, 1, false
	}
}
