package layout

import (
	"errors"
	"image"
)

// Metrics 是字体度量接口，由渲染后端实现。
// 每个不同的 token 只在分词时查询一次。
type Metrics interface {
	// Advance 返回字符在给定样式下的步进宽度（像素）。
	Advance(r rune, st StyleState) int
	// LineHeight 返回一行字符的高度（像素）。
	LineHeight() int
	// Baseline 返回基线距行顶的距离（像素）。
	Baseline() int
}

// Surface 是绘制目标，核心从不直接访问像素。
type Surface interface {
	FillRect(r image.Rectangle, c Color) error
	DrawGlyph(g Glyph) error
}

var (
	// ErrNilStyle 在文本框缺少样式时返回。
	ErrNilStyle = errors.New("textbox: style is nil")
	// ErrNilMetrics 在样式缺少字体度量时返回。
	ErrNilMetrics = errors.New("textbox: style has no metrics")
)

// StyleOption 配置 TextBoxStyle。
type StyleOption func(*TextBoxStyle)

// NewStyle 使用默认值构造样式：黑色文字、左对齐、顶部对齐、Exact + FullRowsOnly、制表位 4 个空格。
func NewStyle(metrics Metrics, opts ...StyleOption) *TextBoxStyle {
	s := &TextBoxStyle{
		Metrics:    metrics,
		Base:       StyleState{Foreground: RGB(0, 0, 0)},
		Alignment:  AlignLeft,
		HeightMode: HeightExact,
		Overflow:   OverflowFullRowsOnly,
		TabSize:    Spaces(4),
	}
	for _, opt := range opts {
		opt(s)
	}
	if len(s.Plugins) > 0 {
		// 复制一份，防止调用方之后修改底层数组。
		s.Plugins = append([]Plugin(nil), s.Plugins...)
	}
	return s
}

// WithAlignment sets the horizontal alignment.
func WithAlignment(a Alignment) StyleOption {
	return func(s *TextBoxStyle) { s.Alignment = a }
}

// WithVerticalAlignment sets the vertical alignment. Use WithScrolling for AlignScrolling.
func WithVerticalAlignment(v VerticalAlignment) StyleOption {
	return func(s *TextBoxStyle) { s.VerticalAlignment = v }
}

// WithScrolling selects scrolling vertical alignment with the given pixel offset.
func WithScrolling(offset int) StyleOption {
	return func(s *TextBoxStyle) {
		s.VerticalAlignment = AlignScrolling
		s.ScrollOffset = offset
	}
}

// WithHeightMode sets the height mode. For HeightFitToText use WithFitToText.
func WithHeightMode(h HeightMode) StyleOption {
	return func(s *TextBoxStyle) { s.HeightMode = h }
}

// WithFitToText selects HeightFitToText clamped to max pixels (max <= 0 means unbounded).
func WithFitToText(max int) StyleOption {
	return func(s *TextBoxStyle) {
		s.HeightMode = HeightFitToText
		s.MaxHeight = max
	}
}

// WithOverflow sets the vertical overflow policy.
func WithOverflow(o Overflow) StyleOption {
	return func(s *TextBoxStyle) { s.Overflow = o }
}

// WithTabSize sets the tab stop distance.
func WithTabSize(l Length) StyleOption {
	return func(s *TextBoxStyle) { s.TabSize = l }
}

// WithLineSpacing sets the pixel gap between lines. Negative values overlap lines.
func WithLineSpacing(px int) StyleOption {
	return func(s *TextBoxStyle) { s.LineSpacing = px }
}

// WithParagraphSpacing sets the extra pixel gap after a manual newline.
func WithParagraphSpacing(px int) StyleOption {
	return func(s *TextBoxStyle) { s.ParagraphSpacing = px }
}

// WithBaseStyle sets the character style in effect at the start of the text.
func WithBaseStyle(st StyleState) StyleOption {
	return func(s *TextBoxStyle) { s.Base = st }
}

// WithTextColor sets the base foreground color.
func WithTextColor(c Color) StyleOption {
	return func(s *TextBoxStyle) { s.Base.Foreground = c }
}

// WithBackgroundColor sets the base background color.
func WithBackgroundColor(c Color) StyleOption {
	return func(s *TextBoxStyle) { s.Base.Background = c }
}

// WithUnderline enables or disables underline in the base style.
func WithUnderline(on bool) StyleOption {
	return func(s *TextBoxStyle) { s.Base.Underline = on }
}

// WithStrikethrough enables or disables strikethrough in the base style.
func WithStrikethrough(on bool) StyleOption {
	return func(s *TextBoxStyle) { s.Base.Strikethrough = on }
}

// WithPlugins appends plugins to the chain, in call order.
func WithPlugins(p ...Plugin) StyleOption {
	return func(s *TextBoxStyle) { s.Plugins = append(s.Plugins, p...) }
}

// WithJustifyRemainder selects how leftover pixels are spread on justified lines.
func WithJustifyRemainder(p RemainderPolicy) StyleOption {
	return func(s *TextBoxStyle) { s.JustifyRemainder = p }
}

// WithCenterRounding selects the rounding of odd pixels for vertical centering.
func WithCenterRounding(r Rounding) StyleOption {
	return func(s *TextBoxStyle) { s.CenterRounding = r }
}
