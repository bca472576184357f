// Package fonts 提供内置字体：一个位图字体与 Go 字体家族的 TrueType 数据。
package fonts

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// ErrUnknownFont 在请求的字体名未注册时返回。
var ErrUnknownFont = errors.New("fonts: unknown font")

// Bitmap 为唯一的位图字体名，字号参数对它无效。
const Bitmap = "7x13"

var ttfs = map[string][]byte{
	"goregular": goregular.TTF,
	"gomono":    gomono.TTF,
	"gobold":    gobold.TTF,
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*truetype.Font{}
)

// Names 返回全部可用字体名。
func Names() []string {
	return []string{Bitmap, "goregular", "gomono", "gobold"}
}

// TTF 返回矢量字体的原始数据，供 PDF 等需要嵌入字体的后端使用。
func TTF(name string) ([]byte, error) {
	data, ok := ttfs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	return data, nil
}

// Face 返回指定字号（pt）与分辨率的字体。位图字体忽略 size 与 dpi。
func Face(name string, size, dpi float64) (font.Face, error) {
	if name == Bitmap {
		return basicfont.Face7x13, nil
	}
	f, err := load(name)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = 72
	}
	return truetype.NewFace(f, &truetype.Options{Size: size, DPI: dpi, Hinting: font.HintingFull}), nil
}

// load 解析并缓存 TrueType 字体。
func load(name string) (*truetype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[name]; ok {
		return f, nil
	}
	data, err := TTF(name)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体 %s 失败: %w", name, err)
	}
	parsed[name] = f
	return f, nil
}
