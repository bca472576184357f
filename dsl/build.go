package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/textbox/layout"
	"github.com/ByLCY/textbox/plugin"
)

// ParseColor parses `#rgb`, `#rrggbb` or `#rrggbbaa`.
func ParseColor(s string) (layout.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 || !strings.HasPrefix(s, "#") {
		return layout.Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return layout.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return layout.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// enum matches s against the String() names of first..last.
func enum[T interface {
	~int
	String() string
}](kind, s string, first, last T) (T, error) {
	for v := first; v <= last; v++ {
		if v.String() == s {
			return v, nil
		}
	}
	return first, fmt.Errorf("unknown %s %q", kind, s)
}

var (
	valignAliases     = map[string]string{"middle": "center"}
	heightModeAliases = map[string]string{"shrink": "shrink-to-text", "fit": "fit-to-text"}
	remainders        = map[string]layout.RemainderPolicy{"leftmost": layout.RemainderLeftmost, "spread": layout.RemainderSpread}
	roundings         = map[string]layout.Rounding{"down": layout.RoundDown, "up": layout.RoundUp}
)

func alias(m map[string]string, s string) string {
	if a, ok := m[s]; ok {
		return a
	}
	return s
}

// Style builds the layout style of b. extra plugins run after the box's own.
func (b BoxSpec) Style(m layout.Metrics, extra ...layout.Plugin) (*layout.TextBoxStyle, error) {
	var opts []layout.StyleOption
	fail := func(err error) (*layout.TextBoxStyle, error) {
		return nil, fmt.Errorf("box %s: %w", b.Name, err)
	}

	if b.Align != "" {
		a, err := enum("align", b.Align, layout.AlignLeft, layout.AlignJustified)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, layout.WithAlignment(a))
	}
	switch v := alias(valignAliases, b.VAlign); {
	case v == "scrolling" || (v == "" && b.Scroll != 0):
		opts = append(opts, layout.WithScrolling(b.Scroll))
	case v != "":
		va, err := enum("valign", v, layout.AlignTop, layout.AlignBottom)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, layout.WithVerticalAlignment(va))
	}
	if b.HeightMode != "" {
		h, err := enum("height mode", alias(heightModeAliases, b.HeightMode), layout.HeightExact, layout.HeightFitToText)
		if err != nil {
			return fail(err)
		}
		if h == layout.HeightFitToText {
			opts = append(opts, layout.WithFitToText(b.MaxHeight))
		} else {
			opts = append(opts, layout.WithHeightMode(h))
		}
	}
	if b.Overflow != "" {
		o, err := enum("overflow", b.Overflow, layout.OverflowHidden, layout.OverflowFullRowsOnly)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, layout.WithOverflow(o))
	}
	if b.Tab != "" {
		l, ok := layout.ParseRawLengthStr(b.Tab, layout.UnitSP)
		if !ok || l.Value < 0 {
			return fail(fmt.Errorf("invalid tab size %q", b.Tab))
		}
		opts = append(opts, layout.WithTabSize(l))
	}
	opts = append(opts,
		layout.WithLineSpacing(b.LineSpacing),
		layout.WithParagraphSpacing(b.ParagraphSpacing),
		layout.WithUnderline(b.Underline),
		layout.WithStrikethrough(b.Strikethrough),
	)
	fg := layout.RGB(0, 0, 0)
	if b.Color != "" {
		c, err := ParseColor(b.Color)
		if err != nil {
			return fail(err)
		}
		fg = c
		opts = append(opts, layout.WithTextColor(c))
	}
	if b.Background != "" {
		c, err := ParseColor(b.Background)
		if err != nil {
			return fail(err)
		}
		opts = append(opts, layout.WithBackgroundColor(c))
	}
	if b.Remainder != "" {
		p, ok := remainders[b.Remainder]
		if !ok {
			return fail(fmt.Errorf("unknown remainder policy %q", b.Remainder))
		}
		opts = append(opts, layout.WithJustifyRemainder(p))
	}
	if b.Rounding != "" {
		r, ok := roundings[b.Rounding]
		if !ok {
			return fail(fmt.Errorf("unknown rounding %q", b.Rounding))
		}
		opts = append(opts, layout.WithCenterRounding(r))
	}

	var plugins []layout.Plugin
	for _, name := range b.Plugins {
		switch name {
		case "underliner":
			plugins = append(plugins, plugin.NewUnderliner())
		case "caret":
			plugins = append(plugins, plugin.Caret{Color: fg, Width: 1})
		default:
			return fail(fmt.Errorf("unknown plugin %q", name))
		}
	}
	if b.Limit > 0 {
		plugins = append(plugins, plugin.CharacterLimiter{N: b.Limit})
	}
	plugins = append(plugins, extra...)
	opts = append(opts, layout.WithPlugins(plugins...))

	return layout.NewStyle(m, opts...), nil
}

// TextBox builds the layout text box of b.
func (b BoxSpec) TextBox(m layout.Metrics, extra ...layout.Plugin) (layout.TextBox, error) {
	style, err := b.Style(m, extra...)
	if err != nil {
		return layout.TextBox{}, err
	}
	return layout.NewTextBox(b.Text, b.Bounds(), style), nil
}
