package layout

import (
	"image"
	"math"
)

// Frame 是垂直方向的排版结果：文本框最终尺寸、可见区域与首行偏移。
type Frame struct {
	// Box 为按高度模式确定后的文本框。
	Box image.Rectangle `json:"box"`
	// Clip 为允许绘制的区域。
	Clip image.Rectangle `json:"clip"`
	// OffsetY 为第一行顶部相对 Box.Min.Y 的偏移，滚动时为负。
	OffsetY int `json:"offsetY"`
	// ContentHeight 为参与垂直对齐的内容高度；未测量时为 -1。
	ContentHeight int `json:"contentHeight"`
	// FullRowsOnly 为真时只绘制完全落在 Box 内的行。
	FullRowsOnly bool `json:"fullRowsOnly,omitempty"`
}

// VerticalOffset 计算内容顶部相对文本框顶部的偏移。
func VerticalOffset(boxHeight, contentHeight int, v VerticalAlignment, scroll int, r Rounding) int {
	switch v {
	case AlignBottom:
		return max(boxHeight-contentHeight, 0)
	case AlignMiddle:
		d := boxHeight - contentHeight
		if d <= 0 {
			return 0
		}
		if r == RoundUp {
			return (d + 1) / 2
		}
		return d / 2
	case AlignScrolling:
		return -max(scroll, 0)
	default:
		return 0
	}
}

// HorizontalOffset 计算一行相对文本框左边的偏移。两端对齐的行偏移为 0，
// 多余宽度由 JustifySpacing 分配到空白段。
func HorizontalOffset(l Line, width int, a Alignment) int {
	extra := width - l.Width
	if extra <= 0 {
		return 0
	}
	switch a {
	case AlignRight:
		return extra
	case AlignCenter:
		return extra / 2
	default:
		return 0
	}
}

// Justifies 报告该行在两端对齐时是否被拉伸：只有折行产生且含有空白段的行才拉伸，
// 段落最后一行与单词行按左对齐处理。
func Justifies(l Line, a Alignment) bool {
	return a == AlignJustified && l.Wrapped && l.Gaps > 0
}

// JustifySpacing 把 extra 像素分配给 gaps 个空白段，结果写入 dst 并返回。
// RemainderLeftmost 把余数依次分给最左侧的间隙；RemainderSpread 按比例散布。
func JustifySpacing(extra, gaps int, policy RemainderPolicy, dst []int) []int {
	dst = dst[:0]
	if gaps <= 0 {
		return dst
	}
	if extra < 0 {
		extra = 0
	}
	for i := 0; i < gaps; i++ {
		if policy == RemainderSpread {
			dst = append(dst, extra*(i+1)/gaps-extra*i/gaps)
			continue
		}
		n := extra / gaps
		if i < extra%gaps {
			n++
		}
		dst = append(dst, n)
	}
	return dst
}

// ResolveFrame 按高度模式、溢出策略与垂直对齐确定文本框的绘制框架。
// 仅在需要时运行高度测量。
func ResolveFrame(tb TextBox) (Frame, error) {
	style := tb.Style
	if err := checkStyle(style); err != nil {
		return Frame{}, err
	}
	bounds := tb.Bounds.Canon()
	width := bounds.Dx()
	f := Frame{ContentHeight: -1}

	needFull := style.HeightMode != HeightExact ||
		style.VerticalAlignment == AlignBottom || style.VerticalAlignment == AlignMiddle
	var m Measurement
	if needFull && width > 0 {
		var err error
		if m, err = Measure(tb.Text, width, style, 0); err != nil {
			return Frame{}, err
		}
		f.ContentHeight = m.Height
	}

	boxHeight := bounds.Dy()
	switch style.HeightMode {
	case HeightShrinkToText:
		boxHeight = m.Height
	case HeightFitToText:
		boxHeight = m.Height
		if style.MaxHeight > 0 {
			boxHeight = min(boxHeight, style.MaxHeight)
		}
	}
	f.Box = image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+boxHeight)
	f.Clip = f.Box

	overflow := style.HeightMode != HeightShrinkToText && f.ContentHeight != boxHeight
	if overflow {
		switch style.Overflow {
		case OverflowVisible:
			f.Clip.Max.Y = math.MaxInt32
		case OverflowFullRowsOnly:
			f.FullRowsOnly = true
			if style.VerticalAlignment != AlignScrolling && width > 0 {
				_, rowsHeight, err := CountRows(tb.Text, width, style, boxHeight)
				if err != nil {
					return Frame{}, err
				}
				if f.ContentHeight < 0 || rowsHeight < f.ContentHeight {
					f.ContentHeight = rowsHeight
				}
			}
		}
	}

	scroll := style.ScrollOffset
	if tb.Scroll != nil {
		scroll = *tb.Scroll
	}
	content := max(f.ContentHeight, 0)
	f.OffsetY = VerticalOffset(boxHeight, content, style.VerticalAlignment, scroll, style.CenterRounding)
	return f, nil
}
