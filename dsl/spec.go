package dsl

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownBox is returned when a box name is not present in a Spec.
var ErrUnknownBox = errors.New("dsl: unknown box")

// Spec is the format-independent description of a page of text boxes.
type Spec struct {
	Version string    `yaml:"version"`
	Page    PageSpec  `yaml:"page"`
	Boxes   []BoxSpec `yaml:"boxes"`
}

// PageSpec describes the output page. A zero size is derived from the boxes.
type PageSpec struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
}

// BoxSpec is a flat, string-typed text box description. Empty fields keep the
// defaults of layout.NewStyle.
type BoxSpec struct {
	Name             string   `yaml:"name"`
	X                int      `yaml:"x"`
	Y                int      `yaml:"y"`
	Width            int      `yaml:"width"`
	Height           int      `yaml:"height"`
	Text             string   `yaml:"text"`
	Align            string   `yaml:"align"`
	VAlign           string   `yaml:"valign"`
	Scroll           int      `yaml:"scroll"`
	HeightMode       string   `yaml:"heightMode"`
	MaxHeight        int      `yaml:"maxHeight"`
	Overflow         string   `yaml:"overflow"`
	Tab              string   `yaml:"tab"`
	LineSpacing      int      `yaml:"lineSpacing"`
	ParagraphSpacing int      `yaml:"paragraphSpacing"`
	Color            string   `yaml:"color"`
	Background       string   `yaml:"background"`
	Underline        bool     `yaml:"underline"`
	Strikethrough    bool     `yaml:"strikethrough"`
	Remainder        string   `yaml:"remainder"`
	Rounding         string   `yaml:"rounding"`
	Plugins          []string `yaml:"plugins"`
	Limit            int      `yaml:"limit"`
}

// Bounds returns the box rectangle.
func (b BoxSpec) Bounds() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Size returns the page size, deriving missing dimensions from the box extents.
func (s *Spec) Size() image.Point {
	size := image.Pt(s.Page.Width, s.Page.Height)
	var ext image.Point
	for _, b := range s.Boxes {
		r := b.Bounds()
		ext.X, ext.Y = max(ext.X, r.Max.X), max(ext.Y, r.Max.Y)
	}
	if size.X <= 0 {
		size.X = ext.X
	}
	if size.Y <= 0 {
		size.Y = ext.Y
	}
	return size
}

// Select returns the named box, or every box when name is empty.
func (s *Spec) Select(name string) ([]BoxSpec, error) {
	if name == "" {
		return s.Boxes, nil
	}
	for _, b := range s.Boxes {
		if b.Name == name {
			return []BoxSpec{b}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBox, name)
}

func (s *Spec) validate() error {
	seen := map[string]bool{}
	for i, b := range s.Boxes {
		if b.Name == "" {
			return fmt.Errorf("box #%d has no name", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate box %q", b.Name)
		}
		seen[b.Name] = true
		if b.Width < 0 || b.Height < 0 {
			return fmt.Errorf("box %q has a negative size", b.Name)
		}
	}
	return nil
}

// Load reads a description file; `.yaml`/`.yml` files use the YAML form,
// everything else the `.tbx` language.
func Load(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		doc, err := Parse(path, f)
		if err != nil {
			return nil, err
		}
		return doc.Spec()
	}
}

// ParseYAML decodes the YAML form. Unknown keys are rejected.
func ParseYAML(r io.Reader) (*Spec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Spec
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Spec converts the AST into a Spec.
func (d *Document) Spec() (*Spec, error) {
	s := &Spec{Version: d.Version}
	for _, sec := range d.Sections {
		switch {
		case sec.Page != nil:
			for _, a := range sec.Page.Block.Statements {
				if err := assignPage(&s.Page, a); err != nil {
					return nil, err
				}
			}
		case sec.Box != nil:
			b := BoxSpec{Name: sec.Box.Name}
			for _, a := range sec.Box.Block.Statements {
				if err := assignBox(&b, a); err != nil {
					return nil, fmt.Errorf("box %s: %w", b.Name, err)
				}
			}
			s.Boxes = append(s.Boxes, b)
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func assignPage(p *PageSpec, a *Assignment) error {
	var err error
	switch a.Key {
	case "title":
		p.Title, err = a.asText()
	case "width":
		p.Width, err = a.asInt()
	case "height":
		p.Height, err = a.asInt()
	case "background":
		p.Background, err = a.asColor()
	default:
		err = fmt.Errorf("%s: unknown page key %q", a.Pos, a.Key)
	}
	return err
}

func assignBox(b *BoxSpec, a *Assignment) error {
	var err error
	switch a.Key {
	case "x":
		b.X, err = a.asInt()
	case "y":
		b.Y, err = a.asInt()
	case "width":
		b.Width, err = a.asInt()
	case "height":
		b.Height, err = a.asInt()
	case "text":
		b.Text, err = a.asText()
	case "align":
		b.Align, err = a.asIdent()
	case "valign":
		b.VAlign, err = a.asIdent()
	case "scroll":
		b.Scroll, err = a.asInt()
	case "height-mode":
		b.HeightMode, err = a.asIdent()
	case "max-height":
		b.MaxHeight, err = a.asInt()
	case "overflow":
		b.Overflow, err = a.asIdent()
	case "tab":
		b.Tab, err = a.asNumber()
	case "line-spacing":
		b.LineSpacing, err = a.asInt()
	case "paragraph-spacing":
		b.ParagraphSpacing, err = a.asInt()
	case "color":
		b.Color, err = a.asColor()
	case "background":
		b.Background, err = a.asColor()
	case "underline":
		b.Underline, err = a.asBool()
	case "strikethrough":
		b.Strikethrough, err = a.asBool()
	case "remainder":
		b.Remainder, err = a.asIdent()
	case "rounding":
		b.Rounding, err = a.asIdent()
	case "plugins":
		b.Plugins, err = a.asIdents()
	case "limit":
		b.Limit, err = a.asInt()
	default:
		err = fmt.Errorf("%s: unknown key %q", a.Pos, a.Key)
	}
	return err
}

func (a *Assignment) mismatch(want string) error {
	return fmt.Errorf("%s: %s expects %s, got %s", a.Pos, a.Key, want, a.Value.Raw())
}

// asText accepts a string or an array of strings, which are concatenated.
func (a *Assignment) asText() (string, error) {
	v := a.Value
	if v.String != nil {
		return string(*v.String), nil
	}
	if v.Array == nil {
		return "", a.mismatch("a string")
	}
	var sb strings.Builder
	for _, item := range v.Array.Values {
		if item.String == nil {
			return "", a.mismatch("strings")
		}
		sb.WriteString(string(*item.String))
	}
	return sb.String(), nil
}

// asNumber returns a number literal with its unit suffix.
func (a *Assignment) asNumber() (string, error) {
	if a.Value.Number == nil {
		return "", a.mismatch("a number")
	}
	return *a.Value.Number, nil
}

func (a *Assignment) asInt() (int, error) {
	raw, err := a.asNumber()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSuffix(raw, "px"))
	if err != nil {
		return 0, a.mismatch("an integer pixel value")
	}
	return n, nil
}

func (a *Assignment) asIdent() (string, error) {
	if a.Value.Ident == nil {
		return "", a.mismatch("a name")
	}
	return *a.Value.Ident, nil
}

func (a *Assignment) asIdents() ([]string, error) {
	if a.Value.Ident != nil {
		return []string{*a.Value.Ident}, nil
	}
	if a.Value.Array == nil {
		return nil, a.mismatch("a list of names")
	}
	out := make([]string, 0, len(a.Value.Array.Values))
	for _, item := range a.Value.Array.Values {
		if item.Ident == nil {
			return nil, a.mismatch("a list of names")
		}
		out = append(out, *item.Ident)
	}
	return out, nil
}

func (a *Assignment) asBool() (bool, error) {
	s, err := a.asIdent()
	if err == nil {
		switch s {
		case "true", "on", "yes":
			return true, nil
		case "false", "off", "no":
			return false, nil
		}
	}
	return false, a.mismatch("true or false")
}

func (a *Assignment) asColor() (string, error) {
	if a.Value.Color == nil {
		return "", a.mismatch("a #rgb color")
	}
	return *a.Value.Color, nil
}
