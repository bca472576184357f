package layout

// Measurement 是一次只测量不绘制的遍历结果。
type Measurement struct {
	// Lines 为行数，Rows 为 limit 内完整容纳的行数（不限制时等于 Lines）。
	Lines int `json:"lines"`
	Rows  int `json:"rows"`
	// Height 为全部行的内容高度，RowsHeight 为前 Rows 行的高度。
	Height     int `json:"height"`
	RowsHeight int `json:"rowsHeight"`
	// MaxWidth 为最宽一行的宽度。
	MaxWidth int `json:"maxWidth"`
}

// lineAdvance 返回从一行顶部到下一行顶部的距离。
func (s *TextBoxStyle) lineAdvance(l Line) int {
	d := s.lineHeight() + s.LineSpacing
	if l.Paragraph {
		d += s.ParagraphSpacing
	}
	return d
}

// MeasureHeight 返回 text 在 width 像素宽时的内容高度。
func MeasureHeight(text string, width int, style *TextBoxStyle) (int, error) {
	m, err := Measure(text, width, style, 0)
	if err != nil {
		return 0, err
	}
	return m.Height, nil
}

// Measure 在不绘制的情况下断行全部文本。limit > 0 时同时统计能完整放入 limit 像素高度的行数。
// 多次调用结果相同。
func Measure(text string, width int, style *TextBoxStyle, limit int) (Measurement, error) {
	if err := checkStyle(style); err != nil {
		return Measurement{}, err
	}
	b := newLineBreaker(text, width, style, Cursor{Style: style.Base, lexStyle: style.Base}, newChain(style.Plugins, PhaseMeasure))
	return measureLines(b, style, limit, false), nil
}

// CountRows 只统计能完整放入 limit 像素高度的行数，超出后立即停止断行。
func CountRows(text string, width int, style *TextBoxStyle, limit int) (rows, height int, err error) {
	if err := checkStyle(style); err != nil {
		return 0, 0, err
	}
	b := newLineBreaker(text, width, style, Cursor{Style: style.Base, lexStyle: style.Base}, newChain(style.Plugins, PhaseMeasure))
	m := measureLines(b, style, limit, true)
	return m.Rows, m.RowsHeight, nil
}

func measureLines(b *LineBreaker, style *TextBoxStyle, limit int, stopAtLimit bool) Measurement {
	var m Measurement
	lh := style.lineHeight()
	top := 0
	counting := true
	for {
		l, ok := b.Next()
		if !ok {
			break
		}
		bottom := top + lh
		m.Lines++
		m.Height = bottom
		m.MaxWidth = max(m.MaxWidth, l.Width)
		if counting {
			if limit <= 0 || bottom <= limit {
				m.Rows++
				m.RowsHeight = bottom
			} else {
				counting = false
				if stopAtLimit {
					break
				}
			}
		}
		top += style.lineAdvance(l)
	}
	return m
}
