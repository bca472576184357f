package layout

// 该文件定义排版的配置、中间结果与绘制图元，供断行、测量、对齐与渲染共用。

import (
	"image"
	"image/color"
	"strings"
)

// Color 采用 0-255 的 RGBA 数值；A 为 0 表示未设置（透明）。
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Transparent 表示不绘制。
var Transparent = Color{}

// RGB 构造一个不透明颜色。
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 0xff} }

// IsSet 报告颜色是否需要绘制。
func (c Color) IsSet() bool { return c.A != 0 }

// RGBA 转换为标准库颜色，便于交给 image/draw 等后端。
func (c Color) RGBA() color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

// StyleState 是当前字符样式的快照。它是可比较的值类型，复制即快照。
type StyleState struct {
	Foreground    Color `json:"foreground"`
	Background    Color `json:"background"`
	Underline     bool  `json:"underline,omitempty"`
	Strikethrough bool  `json:"strikethrough,omitempty"`
}

// Alignment 为水平对齐方式。
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
	AlignJustified
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignJustified:
		return "justified"
	default:
		return "unknown"
	}
}

// VerticalAlignment 为垂直对齐方式。
type VerticalAlignment int

const (
	AlignTop VerticalAlignment = iota
	AlignMiddle
	AlignBottom
	AlignScrolling
)

func (v VerticalAlignment) String() string {
	switch v {
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "center"
	case AlignBottom:
		return "bottom"
	case AlignScrolling:
		return "scrolling"
	default:
		return "unknown"
	}
}

// HeightMode 决定文本框的最终高度。
type HeightMode int

const (
	HeightExact HeightMode = iota
	HeightShrinkToText
	HeightFitToText
)

func (h HeightMode) String() string {
	switch h {
	case HeightExact:
		return "exact"
	case HeightShrinkToText:
		return "shrink-to-text"
	case HeightFitToText:
		return "fit-to-text"
	default:
		return "unknown"
	}
}

// Overflow 决定内容高于文本框时的绘制策略，仅在 Exact/FitToText 下有意义。
type Overflow int

const (
	OverflowHidden Overflow = iota
	OverflowVisible
	OverflowFullRowsOnly
)

func (o Overflow) String() string {
	switch o {
	case OverflowHidden:
		return "hidden"
	case OverflowVisible:
		return "visible"
	case OverflowFullRowsOnly:
		return "full-rows-only"
	default:
		return "unknown"
	}
}

// RemainderPolicy 决定两端对齐时余下像素的分配方式。
type RemainderPolicy int

const (
	// RemainderLeftmost 把余数像素依次分给最左侧的间隙。
	RemainderLeftmost RemainderPolicy = iota
	// RemainderSpread 把余数像素尽量均匀地散布到整行。
	RemainderSpread
)

// Rounding 决定垂直居中时奇数像素的取舍。
type Rounding int

const (
	RoundDown Rounding = iota
	RoundUp
)

// TextBoxStyle 是不可变的排版配置，可在测量与渲染之间共享引用。
// 通过 NewStyle 构造，构造后不得修改。
type TextBoxStyle struct {
	Metrics           Metrics
	Base              StyleState
	Alignment         Alignment
	VerticalAlignment VerticalAlignment
	// ScrollOffset 仅在 AlignScrolling 下使用（像素）。
	ScrollOffset int
	HeightMode   HeightMode
	// MaxHeight 仅在 HeightFitToText 下使用；<=0 表示不限制。
	MaxHeight        int
	Overflow         Overflow
	TabSize          Length
	LineSpacing      int
	ParagraphSpacing int
	Plugins          []Plugin
	JustifyRemainder RemainderPolicy
	CenterRounding   Rounding
}

// lineHeight 返回一行字符的高度（不含行距）。
func (s *TextBoxStyle) lineHeight() int {
	if s == nil || s.Metrics == nil {
		return 0
	}
	return s.Metrics.LineHeight()
}

// tabWidth 将 TabSize 换算为像素。
func (s *TextBoxStyle) tabWidth() int {
	return s.TabSize.ToPixels(s.Metrics.Advance(' ', s.Base))
}

// TextBox 表示一次绘制所需的全部输入；它不缓存任何排版结果。
type TextBox struct {
	Bounds image.Rectangle
	Style  *TextBoxStyle
	Text   string
	// Scroll 非空时覆盖样式中的 ScrollOffset。
	Scroll *int
}

// NewTextBox 创建文本框。
func NewTextBox(text string, bounds image.Rectangle, style *TextBoxStyle) TextBox {
	return TextBox{Bounds: bounds.Canon(), Style: style, Text: text}
}

// WithScroll 返回设置了外部滚动位置的副本。
func (tb TextBox) WithScroll(offset int) TextBox {
	tb.Scroll = &offset
	return tb
}

// Line 是断行器单步产出的一行。
type Line struct {
	// Start/End 为该行消费的源文本字节区间；所有行首尾相接地划分整段文本。
	Start int `json:"start"`
	End   int `json:"end"`
	// Tokens 只在下一次调用 Next 之前有效。
	Tokens []Token `json:"-"`
	// Width 为行的测量宽度，不含被吃掉的行尾空白。
	Width int `json:"width"`
	// Gaps 为行内可拉伸的空白段数量。
	Gaps int `json:"gaps"`
	// Style 为行首的样式快照。
	Style StyleState `json:"style"`
	// Forced 表示该行因单个超宽 token 被强制拆分。
	Forced bool `json:"forced,omitempty"`
	// Eaten 表示行尾空白被吃掉（已消费，但不绘制也不计宽）。
	Eaten bool `json:"eaten,omitempty"`
	// Hyphenated 表示该行在软连字符处断开，需要绘制 '-'。
	Hyphenated bool `json:"hyphenated,omitempty"`
	// Wrapped 表示该行因宽度不足而结束（自然或强制断行）。
	Wrapped bool `json:"wrapped,omitempty"`
	// Paragraph 表示该行以换行符结束。
	Paragraph bool `json:"paragraph,omitempty"`
}

// Text 返回该行实际绘制的文本（软连字符断行时包含 '-'）。
func (l Line) Text() string {
	var sb strings.Builder
	for i, tok := range l.Tokens {
		switch tok.Kind {
		case TokenWord:
			sb.WriteString(tok.Text)
		case TokenWhitespace:
			sb.WriteString(strings.Repeat(" ", tok.Count))
		case TokenControl:
			switch tok.Control {
			case ControlNonBreakingSpace:
				sb.WriteByte(' ')
			case ControlTab:
				sb.WriteByte('\t')
			case ControlSoftHyphen:
				if l.Hyphenated && i == len(l.Tokens)-1 {
					sb.WriteByte('-')
				}
			}
		}
	}
	return sb.String()
}

// PrimitiveKind 区分绘制图元。
type PrimitiveKind int

const (
	PrimitiveFill PrimitiveKind = iota
	PrimitiveGlyph
)

// Glyph 描述一次字形绘制。
type Glyph struct {
	Rune rune
	// Origin 为字符单元左上角，Baseline 为基线相对 Origin 的偏移。
	Origin     image.Point
	Baseline   int
	Advance    int
	Foreground Color
	Background Color
	// Clip 为可见区域；字形超出部分不得绘制。
	Clip image.Rectangle
}

// Primitive 是渲染迭代器产出的绘制单元。
type Primitive struct {
	Kind  PrimitiveKind
	Rect  image.Rectangle
	Color Color
	Glyph Glyph
}

// FillRect 构造一个纯色矩形图元，插件绘制装饰时使用。
func FillRect(r image.Rectangle, c Color) Primitive {
	return Primitive{Kind: PrimitiveFill, Rect: r, Color: c}
}
