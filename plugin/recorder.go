package plugin

import (
	"sync"

	"github.com/ByLCY/textbox/layout"
)

// Recorder 记录插件链看到的 token 与行，供 layout.Trace 输出。
// 它不修改任何内容；同一个 Recorder 可跨多次遍历累积记录。
type Recorder struct {
	mu     sync.Mutex
	events []layout.TraceEvent
}

var (
	_ layout.TokenHook     = (*Recorder)(nil)
	_ layout.LineStartHook = (*Recorder)(nil)
)

// OnToken 记录 token 后原样传递。
func (r *Recorder) OnToken(phase layout.Phase, t layout.Token, emit func(layout.Token)) {
	r.add(layout.TraceEvent{
		Phase: phase.String(),
		Kind:  t.Kind.String(),
		Text:  t.Text,
		Start: t.Start,
		End:   t.End,
		Line:  -1,
	})
	emit(t)
}

// OnLineStart 记录即将绘制的行。
func (r *Recorder) OnLineStart(info layout.LineInfo, _ func(layout.Primitive)) {
	r.add(layout.TraceEvent{
		Phase: layout.PhaseRender.String(),
		Kind:  "line",
		Text:  info.Line.Text(),
		Start: info.Line.Start,
		End:   info.Line.End,
		Line:  info.Index,
	})
}

func (r *Recorder) add(e layout.TraceEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events 返回目前为止的记录副本。
func (r *Recorder) Events() []layout.TraceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]layout.TraceEvent(nil), r.events...)
}

// Reset 清空记录。
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
