// Package plugin 提供基于 layout 钩子接口的常用插件。
package plugin

import (
	"strings"

	"github.com/ByLCY/textbox/layout"
)

// Underliner 把 `_文本_` 之间的内容加下划线，标记字符本身不绘制也不占宽度。
// 样式中保存的实例始终处于初始状态，每次遍历使用它的克隆体。
type Underliner struct {
	on bool
}

var (
	_ layout.TokenHook = (*Underliner)(nil)
	_ layout.Cloner    = (*Underliner)(nil)
)

// NewUnderliner 创建下划线插件。
func NewUnderliner() *Underliner { return &Underliner{} }

// Clone 复制当前的开关状态。
func (u *Underliner) Clone() layout.Plugin { return &Underliner{on: u.on} }

// OnToken 在单词内的每个 '_' 处切换下划线。
func (u *Underliner) OnToken(_ layout.Phase, t layout.Token, emit func(layout.Token)) {
	if t.Kind != layout.TokenWord || !strings.Contains(t.Text, "_") {
		emit(t)
		return
	}
	off := 0
	for {
		i := strings.IndexByte(t.Text[off:], '_')
		if i < 0 {
			break
		}
		if i > 0 {
			emit(sub(t, off, off+i))
		}
		u.on = !u.on
		kind := layout.EffectUnderlineOff
		if u.on {
			kind = layout.EffectUnderline
		}
		marker := layout.NewStyleToken(layout.Effect{Kind: kind})
		if t.Start >= 0 {
			marker.Start, marker.End = t.Start+off+i, t.Start+off+i+1
		}
		emit(marker)
		off += i + 1
	}
	if off < len(t.Text) {
		emit(sub(t, off, len(t.Text)))
	}
}

// sub 截取单词的一部分，源区间随之收窄。
func sub(t layout.Token, from, to int) layout.Token {
	w := t
	w.Text = t.Text[from:to]
	if t.Start >= 0 && t.End-t.Start == len(t.Text) {
		w.Start, w.End = t.Start+from, t.Start+to
	}
	return w
}
