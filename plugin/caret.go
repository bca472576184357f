package plugin

import (
	"image"

	"github.com/ByLCY/textbox/layout"
)

// Caret 在最后一条绘制行的末尾画一个竖直光标。
type Caret struct {
	Color layout.Color
	// Width 为光标宽度（像素），<=0 时为 1。
	Width int
}

var _ layout.LineEndHook = Caret{}

// OnLineEnd 只在 info.Last 为真时绘制。
func (c Caret) OnLineEnd(info layout.LineInfo, emit func(layout.Primitive)) {
	if !info.Last {
		return
	}
	w := c.Width
	if w <= 0 {
		w = 1
	}
	x := info.Origin.X + info.Width
	r := image.Rect(x, info.Origin.Y, x+w, info.Origin.Y+info.Height).Intersect(info.Clip)
	if r.Empty() {
		return
	}
	emit(layout.FillRect(r, c.Color))
}
