package layout

// TokenKind 区分 token 变体。
type TokenKind int

const (
	TokenWord TokenKind = iota
	TokenWhitespace
	TokenControl
	TokenStyle
)

func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenWhitespace:
		return "whitespace"
	case TokenControl:
		return "control"
	case TokenStyle:
		return "style"
	default:
		return "unknown"
	}
}

// ControlKind 为被识别的控制字符。
type ControlKind int

const (
	ControlNone ControlKind = iota
	ControlNewLine
	ControlCarriageReturn
	ControlTab
	ControlSoftHyphen
	ControlZeroWidthSpace
	ControlNonBreakingSpace
)

func (c ControlKind) String() string {
	switch c {
	case ControlNewLine:
		return "newline"
	case ControlCarriageReturn:
		return "carriage-return"
	case ControlTab:
		return "tab"
	case ControlSoftHyphen:
		return "soft-hyphen"
	case ControlZeroWidthSpace:
		return "zero-width-space"
	case ControlNonBreakingSpace:
		return "non-breaking-space"
	default:
		return "none"
	}
}

const (
	runeSoftHyphen     = '\u00ad'
	runeZeroWidthSpace = '\u200b'
	runeNBSP           = '\u00a0'
	runeEscape         = '\x1b'
)

// MaxEffects 是单个样式 token 可携带的最大效果数，多出的参数被忽略。
const MaxEffects = 8

// Token 是排版的最小单元。
//
// Width 在进入断行器前由字体度量计算一次，之后不再重新计算；
// Style 为该 token 之前生效的样式（对样式 token 而言是应用前的状态）。
// Start/End 为来源文本中的字节区间，插件新建的 token 继承其来源 token 的区间。
type Token struct {
	Kind    TokenKind   `json:"kind"`
	Control ControlKind `json:"control,omitempty"`
	Text    string      `json:"text,omitempty"`
	// Count 为空白段中的字符数。
	Count      int                `json:"count,omitempty"`
	Width      int                `json:"width"`
	Style      StyleState         `json:"-"`
	Effects    [MaxEffects]Effect `json:"-"`
	NumEffects int                `json:"-"`
	Start      int                `json:"start"`
	End        int                `json:"end"`
}

// NewWord 构造一个由插件注入的单词 token，宽度在插件链末端测量。
func NewWord(text string) Token {
	return Token{Kind: TokenWord, Text: text, Start: -1, End: -1}
}

// NewWhitespace 构造 n 个空格组成的可断行空白段。
func NewWhitespace(n int) Token {
	if n < 1 {
		n = 1
	}
	text := make([]byte, n)
	for i := range text {
		text[i] = ' '
	}
	return Token{Kind: TokenWhitespace, Text: string(text), Count: n, Start: -1, End: -1}
}

// NewStyleToken 构造一个零宽样式 token。超过 MaxEffects 的效果被丢弃。
func NewStyleToken(effects ...Effect) Token {
	t := Token{Kind: TokenStyle, Start: -1, End: -1}
	for _, e := range effects {
		t.addEffect(e)
	}
	return t
}

// EffectList 返回样式 token 携带的效果。
func (t Token) EffectList() []Effect {
	return t.Effects[:t.NumEffects]
}

func (t *Token) addEffect(e Effect) {
	if t.NumEffects >= MaxEffects {
		return
	}
	t.Effects[t.NumEffects] = e
	t.NumEffects++
}

// cursorForward 返回样式 token 中光标前移的列数合计。
func (t Token) cursorForward() int {
	n := 0
	for _, e := range t.EffectList() {
		if e.Kind == EffectCursorForward && e.N > 0 {
			n += min(e.N, maxCursorForward)
		}
	}
	return n
}

// isControl 判断 token 是否为指定控制字符。
func (t Token) isControl(c ControlKind) bool {
	return t.Kind == TokenControl && t.Control == c
}

// measure 用给定度量计算 token 的宽度。
func (t Token) measure(m Metrics, space int) int {
	switch t.Kind {
	case TokenWord, TokenWhitespace:
		w := 0
		for _, r := range t.Text {
			w += m.Advance(r, t.Style)
		}
		return w
	case TokenControl:
		if t.Control == ControlNonBreakingSpace {
			return space
		}
		return 0
	default:
		return 0
	}
}
