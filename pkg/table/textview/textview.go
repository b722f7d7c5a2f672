// Package textview 把表格渲染结果输出为终端文本表格, 中文按双宽字符对齐
package textview

import (
	"fmt"
	"io"
	"strings"

	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

type Options struct {
	MaxColumnWidth int  // 单元格最大显示宽度, 超出截断; 0 表示 32
	HideIndex      bool // 不显示序号列
}

var (
	headerColor = color.New(color.Bold)
	sortedColor = color.New(color.FgCyan, color.Bold)
	emptyColor  = color.New(color.Faint)
	actionColor = color.New(color.FgBlue)
)

// Write 输出表头, 当前页的行, 分页信息
func Write[T any](w io.Writer, r *table.Rendered[T], opts Options) error {
	maxWidth := opts.MaxColumnWidth
	if maxWidth <= 0 {
		maxWidth = 32
	}

	headers := make([]table.Header, 0, len(r.Headers))
	for _, h := range r.Headers {
		if opts.HideIndex && h.Kind == table.HeaderIndex {
			continue
		}
		headers = append(headers, h)
	}

	grid := make([][]string, 0, len(r.Rows)+1)
	head := make([]string, len(headers))
	for i, h := range headers {
		head[i] = h.Label
		if ind := h.Indicator(); ind != "" {
			head[i] += " " + ind
		}
	}
	grid = append(grid, head)
	for _, row := range r.Rows {
		grid = append(grid, rowTexts(row, headers))
	}

	widths := make([]int, len(headers))
	for _, line := range grid {
		for i, s := range line {
			widths[i] = max(widths[i], min(runewidth.StringWidth(s), maxWidth))
		}
	}

	var b strings.Builder
	border(&b, widths, "┌", "┬", "┐")
	line(&b, head, widths, func(i int, s string) string {
		if headers[i].Sorted {
			return sortedColor.Sprint(s)
		}
		return headerColor.Sprint(s)
	})
	border(&b, widths, "├", "┼", "┤")
	if r.Empty {
		total := len(widths)*3 - 1
		for _, w := range widths {
			total += w
		}
		msg := runewidth.FillRight(runewidth.Truncate(r.EmptyMessage, total-2, "…"), total-2)
		b.WriteString("│ " + emptyColor.Sprint(msg) + " │\n")
	}
	for _, texts := range grid[1:] {
		line(&b, texts, widths, func(i int, s string) string {
			if headers[i].Kind == table.HeaderActions {
				return actionColor.Sprint(s)
			}
			return s
		})
	}
	border(&b, widths, "└", "┴", "┘")
	b.WriteString(Footer(r))
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func rowTexts[T any](row table.Row[T], headers []table.Header) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		switch h.Kind {
		case table.HeaderIndex:
			out[i] = fmt.Sprint(row.Ordinal)
		case table.HeaderActions:
			captions := make([]string, 0, len(row.Actions))
			for _, a := range row.Actions {
				if a.Variant == table.ActionButton {
					captions = append(captions, "["+a.Caption+"]")
				} else {
					captions = append(captions, a.Caption)
				}
			}
			out[i] = strings.Join(captions, " ")
		default:
			out[i] = row.Text(h.Key)
		}
	}
	return out
}

func border(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat("─", w+2))
	}
	b.WriteString(right)
	b.WriteString("\n")
}

// 先按宽度截断补齐再着色, 颜色控制符不计入宽度
func line(b *strings.Builder, texts []string, widths []int, paint func(i int, s string) string) {
	b.WriteString("│")
	for i, s := range texts {
		cell := runewidth.FillRight(runewidth.Truncate(s, widths[i], "…"), widths[i])
		b.WriteString(" " + paint(i, cell) + " │")
	}
	b.WriteString("\n")
}

// Footer 例如: 第 2/10 页 · 共 98 条 · 1 … [2] 3 … 10
func Footer[T any](r *table.Rendered[T]) string {
	parts := []string{}
	if r.PageSize > 0 {
		parts = append(parts, fmt.Sprintf("第 %d/%d 页", r.CurrentPage, r.TotalPages))
	}
	if r.Filtered != r.Total {
		parts = append(parts, fmt.Sprintf("共 %d 条 (筛选 %d 条)", r.Total, r.Filtered))
	} else {
		parts = append(parts, fmt.Sprintf("共 %d 条", r.Total))
	}
	if r.PageSize > 0 && r.TotalPages > 1 {
		parts = append(parts, Window(r.Window, r.CurrentPage))
	}
	return strings.Join(parts, " · ")
}

// Window 页码列表, 当前页加方括号, 省略号显示为 …
func Window(items []table.PageItem, current int) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch {
		case it.Ellipsis:
			out = append(out, "…")
		case it.Page == current:
			out = append(out, fmt.Sprintf("[%d]", it.Page))
		default:
			out = append(out, fmt.Sprint(it.Page))
		}
	}
	return strings.Join(out, " ")
}
