package layout

import (
	"encoding/json"
	"image"
	"os"
)

// TraceLine 记录一行的断行与定位结果。
type TraceLine struct {
	Index      int    `json:"index"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Width      int    `json:"width"`
	Forced     bool   `json:"forced,omitempty"`
	Wrapped    bool   `json:"wrapped,omitempty"`
	Hyphenated bool   `json:"hyphenated,omitempty"`
	Eaten      bool   `json:"eaten,omitempty"`
	Paragraph  bool   `json:"paragraph,omitempty"`
}

// TraceEvent 是插件观察到的一次事件，由调试插件填写。
type TraceEvent struct {
	Phase string `json:"phase"`
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Line  int    `json:"line"`
}

// Trace 汇总一次渲染遍历，便于调试或可视化。
type Trace struct {
	Bounds      image.Rectangle `json:"bounds"`
	Frame       Frame           `json:"frame"`
	Measurement Measurement     `json:"measurement"`
	Lines       []TraceLine     `json:"lines"`
	Primitives  int             `json:"primitives"`
	Events      []TraceEvent    `json:"events,omitempty"`
}

// TraceLayout 执行一次完整的渲染遍历但不绘制，记录每条可见行。
func TraceLayout(tb TextBox) (*Trace, error) {
	it, err := NewRenderIterator(tb)
	if err != nil {
		return nil, err
	}
	m, err := Measure(tb.Text, it.width, tb.Style, it.frame.Box.Dy())
	if err != nil {
		return nil, err
	}
	tr := &Trace{Bounds: tb.Bounds, Frame: it.frame, Measurement: m}
	it.onLine = func(info LineInfo) {
		tr.Lines = append(tr.Lines, TraceLine{
			Index:      info.Index,
			Start:      info.Line.Start,
			End:        info.Line.End,
			Text:       info.Line.Text(),
			X:          info.Origin.X,
			Y:          info.Origin.Y,
			Width:      info.Width,
			Forced:     info.Line.Forced,
			Wrapped:    info.Line.Wrapped,
			Hyphenated: info.Line.Hyphenated,
			Eaten:      info.Line.Eaten,
			Paragraph:  info.Line.Paragraph,
		})
	}
	for range it.All() {
		tr.Primitives++
	}
	return tr, nil
}

// WriteDebugJSON 将排版记录输出为 JSON，便于调试或可视化。
func WriteDebugJSON(tr *Trace, path string) error {
	if tr == nil {
		return nil
	}
	data, err := json.MarshalIndent(tr, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
