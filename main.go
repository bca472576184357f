// Command textbox 将 .tbx 或 YAML 描述的文本框排版并输出为 PNG 或 PDF。
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ByLCY/textbox/dsl"
	"github.com/ByLCY/textbox/fonts"
	"github.com/ByLCY/textbox/layout"
	"github.com/ByLCY/textbox/plugin"
	"github.com/ByLCY/textbox/renderer"
	canvasrenderer "github.com/ByLCY/textbox/renderer/canvas"
	"github.com/ByLCY/textbox/renderer/raster"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	box     string
	out     string
	font    string
	size    float64
	scale   int
	scroll  int
	debug   string
	measure bool
}

// run 解析参数并执行一次完整的加载、排版与渲染，返回进程退出码。
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "textbox: ", 0)

	var opts options
	fs := pflag.NewFlagSet("textbox", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.box, "box", "b", "", "只处理指定名称的文本框（默认全部）")
	fs.StringVarP(&opts.out, "out", "o", "", "输出路径，.png 或 .pdf（默认与输入同名的 .png）")
	fs.StringVarP(&opts.font, "font", "f", "goregular", "字体名："+strings.Join(fonts.Names(), ", "))
	fs.Float64VarP(&opts.size, "size", "s", 12, "字号（pt）")
	fs.IntVar(&opts.scale, "scale", 1, "PNG 整数放大倍数")
	fs.IntVar(&opts.scroll, "scroll", 0, "覆盖文本框的滚动偏移（像素）")
	fs.StringVar(&opts.debug, "debug", "", "布局调试 JSON 输出路径")
	fs.BoolVar(&opts.measure, "measure", false, "只输出每个文本框的内容高度")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "用法: textbox [flags] <file.tbx|file.yaml>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	input := fs.Arg(0)
	if opts.out == "" {
		opts.out = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}

	spec, err := dsl.Load(input)
	if err != nil {
		logger.Printf("加载 %s 失败: %v", input, err)
		return 1
	}
	specs, err := spec.Select(opts.box)
	if err != nil {
		logger.Print(err)
		return 1
	}
	r, err := newRenderer(opts)
	if err != nil {
		logger.Printf("创建渲染器失败: %v", err)
		return 1
	}

	var rec *plugin.Recorder
	var extra []layout.Plugin
	if opts.debug != "" {
		rec = &plugin.Recorder{}
		extra = append(extra, rec)
	}
	boxes := make([]layout.TextBox, 0, len(specs))
	for _, b := range specs {
		tb, err := b.TextBox(r.Metrics(), extra...)
		if err != nil {
			logger.Print(err)
			return 1
		}
		if fs.Changed("scroll") {
			tb = tb.WithScroll(opts.scroll)
		}
		boxes = append(boxes, tb)
	}

	if opts.measure {
		for i, tb := range boxes {
			h, err := layout.MeasureHeight(tb.Text, tb.Bounds.Dx(), tb.Style)
			if err != nil {
				logger.Printf("测量 %s 失败: %v", specs[i].Name, err)
				return 1
			}
			fmt.Fprintf(stdout, "%s\t%d\n", specs[i].Name, h)
		}
		return 0
	}

	if opts.debug != "" {
		for i, tb := range boxes {
			path := debugPath(opts.debug, specs[i].Name, len(boxes) > 1)
			if err := writeDebug(tb, rec, path); err != nil {
				logger.Print(err)
				return 1
			}
		}
	}

	page := renderer.Page{Title: spec.Page.Title, Size: spec.Size(), Boxes: boxes}
	if spec.Page.Background != "" {
		if page.Background, err = dsl.ParseColor(spec.Page.Background); err != nil {
			logger.Printf("页面背景: %v", err)
			return 1
		}
	}
	data, err := r.Render(page)
	if err != nil {
		logger.Printf("渲染失败: %v", err)
		return 1
	}
	if dir := filepath.Dir(opts.out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Printf("创建输出目录失败: %v", err)
			return 1
		}
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		logger.Printf("写入 %s 失败: %v", opts.out, err)
		return 1
	}
	fmt.Fprintf(stdout, "已生成：%s\n", opts.out)
	return 0
}

// newRenderer 按输出扩展名选择后端。
func newRenderer(opts options) (renderer.Renderer, error) {
	switch ext := strings.ToLower(filepath.Ext(opts.out)); ext {
	case ".pdf":
		return canvasrenderer.NewRenderer(canvasrenderer.Options{Font: opts.font, Size: opts.size})
	case ".png":
		face, err := fonts.Face(opts.font, opts.size, 72)
		if err != nil {
			return nil, err
		}
		return raster.NewRenderer(face, raster.Options{Scale: opts.scale}), nil
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", ext)
	}
}

// debugPath 在输出多个文本框时为每个框生成独立的文件名。
func debugPath(path, name string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + name + ext
}

func writeDebug(tb layout.TextBox, rec *plugin.Recorder, path string) error {
	rec.Reset()
	tr, err := layout.TraceLayout(tb)
	if err != nil {
		return fmt.Errorf("记录布局失败: %w", err)
	}
	tr.Events = rec.Events()
	rec.Reset()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(tr, path); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
