package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/textbox/fonts"
	"github.com/ByLCY/textbox/layout"
	"github.com/ByLCY/textbox/renderer"
)

// DefaultPixelSize is the physical size of one layout pixel in millimetres (96 dpi).
const DefaultPixelSize = 25.4 / 96

// Options configures the canvas renderer.
type Options struct {
	// Font names a TrueType font registered in package fonts. Defaults to goregular.
	Font string
	// Size is the font size in points. Defaults to 12.
	Size float64
	// PixelSize is the size of one layout pixel in millimetres.
	PixelSize float64
}

// Renderer lays text out in integer pixels and draws it as vector output through
// github.com/tdewolff/canvas, written as PDF.
type Renderer struct {
	family  *canvas.FontFamily
	size    float64
	px      float64
	metrics *Metrics

	faceMu sync.Mutex
	faces  map[layout.Color]*canvas.FontFace
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer loads the configured font.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Font == "" {
		opts.Font = "goregular"
	}
	if opts.Size <= 0 {
		opts.Size = 12
	}
	if opts.PixelSize <= 0 {
		opts.PixelSize = DefaultPixelSize
	}
	data, err := fonts.TTF(opts.Font)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(opts.Font)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", opts.Font, err)
	}
	r := &Renderer{
		family: family,
		size:   opts.Size,
		px:     opts.PixelSize,
		faces:  map[layout.Color]*canvas.FontFace{},
	}
	r.metrics = newMetrics(r.face(layout.RGB(0, 0, 0)), r.px)
	return r, nil
}

// Metrics implements renderer.Renderer.
func (r *Renderer) Metrics() layout.Metrics { return r.metrics }

// face returns the font face for col, creating it on first use.
func (r *Renderer) face(col layout.Color) *canvas.FontFace {
	r.faceMu.Lock()
	defer r.faceMu.Unlock()
	if f, ok := r.faces[col]; ok {
		return f
	}
	f := r.family.Face(r.size, toColor(col), canvas.FontRegular, canvas.FontNormal)
	r.faces[col] = f
	return f
}

// Render implements renderer.Renderer and returns PDF bytes.
func (r *Renderer) Render(page renderer.Page) ([]byte, error) {
	if page.Size.X <= 0 || page.Size.Y <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %v", page.Size)
	}
	w, h := float64(page.Size.X)*r.px, float64(page.Size.Y)*r.px

	var buf bytes.Buffer
	writer := pdf.New(&buf, w, h, nil)
	writer.SetInfo(page.Title, "", "", "", "textbox")

	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	s := &Surface{ctx: ctx, r: r}
	if page.Background.IsSet() {
		if err := s.FillRect(image.Rectangle{Max: page.Size}, page.Background); err != nil {
			return nil, err
		}
	}
	if err := renderer.DrawBoxes(s, page.Boxes); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Metrics converts canvas font metrics (millimetres) to layout pixels.
type Metrics struct {
	mu       sync.Mutex
	face     *canvas.FontFace
	px       float64
	advances map[rune]int
	height   int
	ascent   int
}

var _ layout.Metrics = (*Metrics)(nil)

func newMetrics(face *canvas.FontFace, px float64) *Metrics {
	fm := face.Metrics()
	return &Metrics{
		face:     face,
		px:       px,
		advances: map[rune]int{},
		height:   int(math.Ceil(fm.LineHeight / px)),
		ascent:   int(math.Round(fm.Ascent / px)),
	}
}

// Advance implements layout.Metrics.
func (m *Metrics) Advance(r rune, _ layout.StyleState) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if adv, ok := m.advances[r]; ok {
		return adv
	}
	adv := int(math.Round(m.face.TextWidth(string(r)) / m.px))
	m.advances[r] = adv
	return adv
}

func (m *Metrics) LineHeight() int { return m.height }
func (m *Metrics) Baseline() int   { return m.ascent }

// Surface implements layout.Surface on a canvas context.
type Surface struct {
	ctx *canvas.Context
	r   *Renderer
}

var _ layout.Surface = (*Surface)(nil)

// FillRect draws an unstroked rectangle.
func (s *Surface) FillRect(rect image.Rectangle, c layout.Color) error {
	if !c.IsSet() || rect.Empty() {
		return nil
	}
	px := s.r.px
	s.ctx.SetFillColor(toColor(c))
	s.ctx.SetStrokeColor(color.RGBA{})
	s.ctx.DrawPath(float64(rect.Min.X)*px, float64(rect.Min.Y)*px,
		canvas.Rectangle(float64(rect.Dx())*px, float64(rect.Dy())*px))
	return nil
}

// DrawGlyph draws g when its whole cell lies inside the clip rectangle.
// Vector output cannot cut a glyph, so partially visible glyphs are skipped.
func (s *Surface) DrawGlyph(g layout.Glyph) error {
	if !g.Foreground.IsSet() {
		return nil
	}
	h := s.r.metrics.LineHeight()
	cell := image.Rect(g.Origin.X, g.Origin.Y, g.Origin.X+g.Advance, g.Origin.Y+h)
	if !cell.In(g.Clip) {
		return nil
	}
	px := s.r.px
	line := canvas.NewTextLine(s.r.face(g.Foreground), string(g.Rune), canvas.Left)
	s.ctx.DrawText(float64(g.Origin.X)*px, float64(g.Origin.Y+g.Baseline)*px, line)
	return nil
}

func toColor(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}
