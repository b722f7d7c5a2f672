package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

type keyAction struct {
	Key     tcell.Key
	Rune    rune
	KeySlug string
	Name    string
	Action  func()
}

func (b *Browser) setupKeys() {
	b.keyActions = []*keyAction{
		{Key: tcell.KeyRune, Rune: '/', KeySlug: "/", Name: "搜索", Action: func() { b.app.SetFocus(b.search) }},
		{Key: tcell.KeyRune, Rune: 'f', KeySlug: "f", Name: "状态", Action: func() { b.app.SetFocus(b.status) }},
		{Key: tcell.KeyRune, Rune: 's', KeySlug: "s", Name: "排序", Action: b.sortSelected},
		{Key: tcell.KeyRune, Rune: 'n', KeySlug: "n", Name: "下一页", Action: func() { b.cursor.NextPage(); b.refresh() }},
		{Key: tcell.KeyRune, Rune: 'p', KeySlug: "p", Name: "上一页", Action: func() { b.cursor.PrevPage(); b.refresh() }},
		{Key: tcell.KeyRune, Rune: 'r', KeySlug: "r", Name: "刷新", Action: b.reload},
		{Key: tcell.KeyRune, Rune: ']', KeySlug: "]", Name: "下一个表格", Action: func() { b.step(1) }},
		{Key: tcell.KeyRune, Rune: '[', KeySlug: "[", Name: "上一个表格", Action: func() { b.step(-1) }},
		{Key: tcell.KeyRune, Rune: 'q', KeySlug: "q", Name: "退出", Action: b.Stop},
	}

	entries := make([]string, 0, len(b.keyActions)+1)
	entries = append(entries, "[yellow]enter[white] 操作")
	for _, k := range b.keyActions {
		entries = append(entries, fmt.Sprintf("[yellow]%s[white] %s", k.KeySlug, k.Name))
	}
	b.legend.SetText(strings.Join(entries, "  "))
}

// HandleKey 输入框获得焦点时只处理 Esc, 其它按键交给控件
func (b *Browser) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if b.search.HasFocus() || b.status.HasFocus() {
		if event.Key() == tcell.KeyEsc {
			b.app.SetFocus(b.grid)
			return nil
		}
		return event
	}
	if b.pages.HasPage("actions") || b.cursor == nil {
		return event
	}
	for _, k := range b.keyActions {
		if event.Key() == k.Key && (k.Key != tcell.KeyRune || event.Rune() == k.Rune) {
			k.Action()
			return nil
		}
	}
	return event
}
