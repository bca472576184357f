package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const noteTBX = `textbox v1 {
  page { background: #fff }
  box note {
    x: 0; y: 0
    width: 70
    height: 26
    text: "hello world again"
  }
}
`

func writeInput(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "note.tbx")
	if err := os.WriteFile(path, []byte(noteTBX), 0o644); err != nil {
		t.Fatalf("写入输入失败: %v", err)
	}
	return dir, path
}

func TestRunPNG(t *testing.T) {
	dir, in := writeInput(t)
	out := filepath.Join(dir, "out", "note.png")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--font", "7x13", "--scale", "2", "--out", out, in}, &stdout, &stderr); code != 0 {
		t.Fatalf("退出码 %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("读取输出失败: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("输出不是 PNG")
	}
	if !strings.Contains(stdout.String(), out) {
		t.Fatalf("标准输出缺少路径: %q", stdout.String())
	}
}

func TestRunMeasure(t *testing.T) {
	_, in := writeInput(t)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--font", "7x13", "--measure", in}, &stdout, &stderr); code != 0 {
		t.Fatalf("退出码 %d: %s", code, stderr.String())
	}
	// 7x13 字体每字 7 像素，70 像素宽断为三行。
	if got := stdout.String(); got != "note\t39\n" {
		t.Fatalf("期望 note\\t39，得到 %q", got)
	}
}

func TestRunDebug(t *testing.T) {
	dir, in := writeInput(t)
	debug := filepath.Join(dir, "trace.json")
	var stdout, stderr bytes.Buffer
	args := []string{"--font", "7x13", "--debug", debug, "--out", filepath.Join(dir, "note.png"), in}
	if code := run(args, &stdout, &stderr); code != 0 {
		t.Fatalf("退出码 %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(debug)
	if err != nil {
		t.Fatalf("读取调试文件失败: %v", err)
	}
	var tr struct {
		Lines  []map[string]any `json:"lines"`
		Events []map[string]any `json:"events"`
	}
	if err := json.Unmarshal(data, &tr); err != nil {
		t.Fatalf("解析调试 JSON 失败: %v", err)
	}
	if len(tr.Lines) != 2 {
		t.Fatalf("期望两行完整可见，得到 %d", len(tr.Lines))
	}
	if len(tr.Events) == 0 {
		t.Fatalf("缺少插件事件")
	}
}

func TestRunErrors(t *testing.T) {
	dir, in := writeInput(t)
	cases := []struct {
		name string
		args []string
		want int
	}{
		{"无参数", nil, 2},
		{"未知框", []string{"--box", "missing", in}, 1},
		{"未知格式", []string{"--out", filepath.Join(dir, "x.gif"), in}, 1},
		{"未知字体", []string{"--font", "comic", in}, 1},
		{"文件不存在", []string{filepath.Join(dir, "none.tbx")}, 1},
	}
	for _, c := range cases {
		var stdout, stderr bytes.Buffer
		if code := run(c.args, &stdout, &stderr); code != c.want {
			t.Fatalf("%s: 期望退出码 %d，得到 %d", c.name, c.want, code)
		}
	}
}

func TestDebugPath(t *testing.T) {
	if got := debugPath("out/trace.json", "body", false); got != "out/trace.json" {
		t.Fatalf("单个框不应改名: %s", got)
	}
	if got := debugPath("out/trace.json", "body", true); got != "out/trace-body.json" {
		t.Fatalf("多个框应附加框名: %s", got)
	}
}
