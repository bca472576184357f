// Package raster draws text boxes into an image.RGBA through golang.org/x/image/font
// and encodes the result as PNG.
package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ByLCY/textbox/layout"
	"github.com/ByLCY/textbox/renderer"
)

// Metrics measures runes with a font.Face. Advances are cached per rune.
// A font.Face is not safe for concurrent use, so every access is serialized.
type Metrics struct {
	mu       sync.Mutex
	face     font.Face
	advances map[rune]int
	height   int
	ascent   int
}

var _ layout.Metrics = (*Metrics)(nil)

// NewMetrics wraps face.
func NewMetrics(face font.Face) *Metrics {
	m := face.Metrics()
	return &Metrics{
		face:     face,
		advances: map[rune]int{},
		height:   m.Height.Ceil(),
		ascent:   m.Ascent.Ceil(),
	}
}

// Advance implements layout.Metrics. Runes missing from the face measure as '?'.
func (m *Metrics) Advance(r rune, _ layout.StyleState) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if adv, ok := m.advances[r]; ok {
		return adv
	}
	a, ok := m.face.GlyphAdvance(r)
	if !ok {
		a, _ = m.face.GlyphAdvance('?')
	}
	adv := a.Round()
	m.advances[r] = adv
	return adv
}

func (m *Metrics) LineHeight() int { return m.height }
func (m *Metrics) Baseline() int   { return m.ascent }

// Surface implements layout.Surface on top of an RGBA image.
type Surface struct {
	img     *image.RGBA
	metrics *Metrics
}

var _ layout.Surface = (*Surface)(nil)

// NewSurface draws into img with the face behind m.
func NewSurface(img *image.RGBA, m *Metrics) *Surface {
	return &Surface{img: img, metrics: m}
}

// FillRect blends c over r.
func (s *Surface) FillRect(r image.Rectangle, c layout.Color) error {
	if !c.IsSet() {
		return nil
	}
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(c.RGBA()), image.Point{}, draw.Over)
	return nil
}

// DrawGlyph draws g inside g.Clip only.
func (s *Surface) DrawGlyph(g layout.Glyph) error {
	if !g.Foreground.IsSet() {
		return nil
	}
	clip := g.Clip.Intersect(s.img.Bounds())
	if clip.Empty() {
		return nil
	}
	dst, ok := s.img.SubImage(clip).(*image.RGBA)
	if !ok {
		return fmt.Errorf("raster: unexpected sub image type")
	}
	s.metrics.mu.Lock()
	defer s.metrics.mu.Unlock()
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(g.Foreground.RGBA()),
		Face: s.metrics.face,
		Dot:  fixed.P(g.Origin.X, g.Origin.Y+g.Baseline),
	}
	d.DrawString(string(g.Rune))
	return nil
}

// Options configures the raster renderer.
type Options struct {
	// Scale enlarges the final image by an integer factor with nearest-neighbour
	// sampling; values below 2 keep the native size.
	Scale int
}

// Renderer produces PNG images.
type Renderer struct {
	metrics *Metrics
	opts    Options
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a PNG renderer that measures and draws with face.
func NewRenderer(face font.Face, opts Options) *Renderer {
	return &Renderer{metrics: NewMetrics(face), opts: opts}
}

// Metrics implements renderer.Renderer.
func (r *Renderer) Metrics() layout.Metrics { return r.metrics }

// Draw renders page into a new image without encoding it.
func (r *Renderer) Draw(page renderer.Page) (*image.RGBA, error) {
	if page.Size.X <= 0 || page.Size.Y <= 0 {
		return nil, fmt.Errorf("页面尺寸无效: %v", page.Size)
	}
	img := image.NewRGBA(image.Rectangle{Max: page.Size})
	if page.Background.IsSet() {
		draw.Draw(img, img.Bounds(), image.NewUniform(page.Background.RGBA()), image.Point{}, draw.Src)
	}
	if err := renderer.DrawBoxes(NewSurface(img, r.metrics), page.Boxes); err != nil {
		return nil, err
	}
	if r.opts.Scale > 1 {
		scaled := image.NewRGBA(image.Rectangle{Max: page.Size.Mul(r.opts.Scale)})
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = scaled
	}
	return img, nil
}

// Render implements renderer.Renderer and returns PNG bytes.
func (r *Renderer) Render(page renderer.Page) ([]byte, error) {
	img, err := r.Draw(page)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}
