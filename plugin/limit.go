package plugin

import "github.com/ByLCY/textbox/layout"

// CharacterLimiter 只绘制前 N 个字符（打字机效果）。它只作用于渲染遍历，
// 测量与断行看到的仍是全文，所以逐步增大 N 时已绘制的文字不会跳动。
type CharacterLimiter struct {
	N int
}

var _ layout.CharacterHook = CharacterLimiter{}

// OnCharacter 丢弃序号不小于 N 的字符。
func (l CharacterLimiter) OnCharacter(c layout.Character, emit func(layout.Character)) {
	if c.Index < l.N {
		emit(c)
	}
}
