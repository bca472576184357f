package layout

// Apply 返回应用效果后的样式；base 为复位时回到的基础样式。
// 光标前移不改变样式。
func (s StyleState) Apply(e Effect, base StyleState) StyleState {
	switch e.Kind {
	case EffectReset:
		return base
	case EffectForeground:
		s.Foreground = e.Color
	case EffectDefaultForeground:
		s.Foreground = base.Foreground
	case EffectBackground:
		s.Background = e.Color
	case EffectDefaultBackground:
		s.Background = base.Background
	case EffectUnderline:
		s.Underline = true
	case EffectUnderlineOff:
		s.Underline = false
	case EffectStrikethrough:
		s.Strikethrough = true
	case EffectStrikethroughOff:
		s.Strikethrough = false
	}
	return s
}

// ApplyToken 依次应用样式 token 的全部效果；其它 token 不改变样式。
func (s StyleState) ApplyToken(t Token, base StyleState) StyleState {
	if t.Kind != TokenStyle {
		return s
	}
	for _, e := range t.EffectList() {
		s = s.Apply(e, base)
	}
	return s
}

// ReplayStyle 从文本开头重放到 offset 处（不含）的全部转义序列，返回此时生效的样式。
// 它不经过插件链，用于校验断行时保存的样式快照。
func ReplayStyle(text string, offset int, base StyleState) StyleState {
	st := base
	z := NewTokenizer(text, 0)
	for {
		tok, ok := z.Next()
		if !ok || tok.Start >= offset {
			return st
		}
		st = st.ApplyToken(tok, base)
	}
}
