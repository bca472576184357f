package renderer

import (
	"fmt"
	"image"

	"github.com/ByLCY/textbox/layout"
)

// Page 是一次输出的全部内容：页面尺寸（像素）、背景以及按顺序绘制的文本框。
type Page struct {
	Title      string
	Size       image.Point
	Background layout.Color
	Boxes      []layout.TextBox
}

// Renderer 将页面输出为最终文件，例如 PNG 或 PDF。
// Metrics 返回与输出一致的字体度量，文本框样式必须用它构造。
type Renderer interface {
	Metrics() layout.Metrics
	Render(page Page) ([]byte, error)
}

// DrawBoxes 依次把文本框绘制到 surface，返回第一个错误。
func DrawBoxes(s layout.Surface, boxes []layout.TextBox) error {
	for i, tb := range boxes {
		if err := layout.Draw(tb, s); err != nil {
			return fmt.Errorf("绘制第 %d 个文本框失败: %w", i, err)
		}
	}
	return nil
}
