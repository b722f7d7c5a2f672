// Package tui 终端里浏览已注册的表格: 搜索, 状态过滤, 排序, 翻页和行操作
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/cometwk/erpadmin/pkg/table/textview"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"
)

var xlog = logrus.WithField("module", "tui")

const searchDelay = 300 * time.Millisecond

// Opener 打开一个表格. ac 用于接收行操作的结果
type Opener func(ctx context.Context, e admin.Entry, ac *admin.ActionContext) (admin.Cursor, error)

type Browser struct {
	app      *tview.Application
	pages    *tview.Pages
	title    *tview.TextView
	notifier *tview.TextView
	filters  *tview.Flex
	search   *tview.InputField
	status   *tview.DropDown
	counter  *tview.TextView
	grid     *tview.Table
	pager    *tview.TextView
	legend   *tview.TextView

	ctx     context.Context
	entries []admin.Entry
	open    Opener
	current int

	cursor   admin.Cursor
	ac       *admin.ActionContext
	listing  *admin.Listing
	options  []table.StatusOption
	debounce *table.Debouncer

	keyActions []*keyAction
	// update 在界面线程中执行 f 并重绘
	update func(f func())
}

func New(ctx context.Context, entries []admin.Entry, open Opener) *Browser {
	b := &Browser{
		app:      tview.NewApplication(),
		pages:    tview.NewPages(),
		title:    tview.NewTextView().SetDynamicColors(true),
		notifier: tview.NewTextView().SetTextAlign(tview.AlignRight),
		status:   tview.NewDropDown(),
		counter:  tview.NewTextView().SetTextAlign(tview.AlignRight),
		grid:     tview.NewTable(),
		pager:    tview.NewTextView(),
		legend:   tview.NewTextView().SetDynamicColors(true),
		ctx:      ctx,
		entries:  entries,
		open:     open,
	}
	b.update = func(f func()) { b.app.QueueUpdateDraw(f) }
	b.debounce = table.NewDebouncer(searchDelay, func(term string) {
		b.update(func() {
			if b.cursor == nil {
				return
			}
			b.cursor.SetSearch(term)
			b.refresh()
		})
	})

	b.search = b.newSearch()
	b.status.SetLabel("  状态: ")
	b.status.SetDoneFunc(func(key tcell.Key) { b.app.SetFocus(b.grid) })

	b.grid.SetBorders(false)
	b.grid.SetSelectable(true, true)
	b.grid.SetFixed(1, 1)
	b.grid.SetSelectedFunc(func(row, column int) { b.showActions(row - 1) })

	b.setupKeys()
	b.setupLayout()
	b.app.SetInputCapture(b.HandleKey)
	return b
}

func (b *Browser) setupLayout() {
	header := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(b.title, 0, 1, false).
		AddItem(b.notifier, 0, 1, false)

	b.filters = tview.NewFlex().SetDirection(tview.FlexColumn)
	b.layoutFilters()

	body := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(b.filters, 1, 0, false).
		AddItem(tview.NewFrame(b.grid).SetBorders(1, 0, 0, 0, 1, 1), 0, 1, true).
		AddItem(b.pager, 1, 0, false).
		AddItem(b.legend, 1, 0, false)

	b.pages.AddPage("main", body, true, true)
}

func (b *Browser) newSearch() *tview.InputField {
	search := tview.NewInputField().SetLabel("搜索: ").SetFieldWidth(30)
	search.SetChangedFunc(func(text string) { b.debounce.Trigger(text) })
	search.SetDoneFunc(func(key tcell.Key) { b.app.SetFocus(b.grid) })
	return search
}

func (b *Browser) layoutFilters() {
	b.filters.Clear().
		AddItem(b.search, 0, 2, false).
		AddItem(b.status, 0, 1, false).
		AddItem(b.counter, 0, 1, false)
}

// resetSearch 取消等待中的搜索并换一个空的搜索框
func (b *Browser) resetSearch() {
	b.debounce.Cancel()
	focused := b.search.HasFocus()
	b.search = b.newSearch()
	b.layoutFilters()
	if focused {
		b.app.SetFocus(b.search)
	}
}

// Run 打开第一个表格并阻塞到退出
func (b *Browser) Run() error {
	defer b.debounce.Stop()
	if len(b.entries) == 0 {
		return errors.New("没有可以浏览的表格")
	}
	if err := b.Select(0); err != nil {
		return err
	}
	return b.app.SetRoot(b.pages, true).SetFocus(b.grid).Run()
}

func (b *Browser) Stop() {
	b.debounce.Stop()
	b.app.Stop()
}

// Select 切换到第 i 个表格, 搜索和状态重置
func (b *Browser) Select(i int) error {
	e := b.entries[i]
	ac := &admin.ActionContext{}
	cursor, err := b.open(b.ctx, e, ac)
	if err != nil {
		return errors.Wrapf(err, "打开表格 '%s'", e.Name())
	}
	b.current, b.cursor, b.ac = i, cursor, ac
	b.title.SetText(fmt.Sprintf("[::b]%s[::-] (%d/%d)", e.Title(), i+1, len(b.entries)))
	b.notifier.Clear()

	m := e.Meta()
	b.resetSearch()
	if m.Search != nil && m.Search.Enabled {
		b.search.SetPlaceholder(m.Search.Placeholder)
	}

	b.options = nil
	if m.Status != nil && m.Status.Enabled {
		b.options = m.Status.Options
	}
	if len(b.options) == 0 {
		b.options = []table.StatusOption{{Label: "全部", Value: table.AllStatus()}}
	}
	labels := make([]string, 0, len(b.options))
	for _, o := range b.options {
		labels = append(labels, o.Label)
	}
	b.status.SetOptions(labels, b.selectStatus)
	b.status.SetCurrentOption(0)

	b.refresh()
	xlog.WithField("table", e.Name()).Debug("打开表格")
	return nil
}

func (b *Browser) selectStatus(text string, index int) {
	if b.cursor == nil || index < 0 || index >= len(b.options) {
		return
	}
	b.cursor.SetStatus(b.options[index].Value)
	b.refresh()
}

func (b *Browser) refresh() {
	b.listing = b.cursor.Listing()
	fill(b.grid, b.listing)

	l := b.listing
	b.counter.SetText(fmt.Sprintf("共 %d 条 | 筛选 %d 条", l.Total, l.Filtered))
	if l.PageSize > 0 {
		b.pager.SetText(fmt.Sprintf("第 %d/%d 页  %s", l.CurrentPage, l.TotalPages, textview.Window(l.Window, l.CurrentPage)))
	} else {
		b.pager.Clear()
	}
}

func fill(grid *tview.Table, l *admin.Listing) {
	grid.Clear()
	for c, h := range l.Headers {
		color := tcell.ColorYellow
		if h.Sorted {
			color = tcell.ColorAqua
		}
		grid.SetCell(0, c, tview.NewTableCell(h.Label+h.Indicator()).
			SetTextColor(color).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}
	if l.Empty {
		grid.SetCell(1, 0, tview.NewTableCell(l.EmptyMessage).
			SetTextColor(tcell.ColorGray).
			SetSelectable(false))
		return
	}
	for r, row := range l.Rows {
		for c, h := range l.Headers {
			grid.SetCell(r+1, c, tview.NewTableCell(cellText(row, h)).SetMaxWidth(32))
		}
	}
}

func cellText(row admin.ListingRow, h table.Header) string {
	switch h.Kind {
	case table.HeaderIndex:
		return fmt.Sprint(row.Ordinal)
	case table.HeaderActions:
		captions := make([]string, 0, len(row.Actions))
		for _, a := range row.Actions {
			captions = append(captions, a.Caption)
		}
		return strings.Join(captions, " ")
	}
	for _, cell := range row.Cells {
		if cell.Key == h.Key {
			return cell.Text
		}
	}
	return ""
}

// sortSelected 按选中的列排序
func (b *Browser) sortSelected() {
	_, col := b.grid.GetSelection()
	if b.listing == nil || col < 0 || col >= len(b.listing.Headers) {
		return
	}
	h := b.listing.Headers[col]
	if h.Kind != table.HeaderColumn || !b.cursor.ToggleSort(h.Key) {
		b.showWarning(fmt.Sprintf("'%s' 不能排序", h.Label))
		return
	}
	if err := b.cursor.Err(); err != nil {
		b.showError(err.Error())
	}
	b.refresh()
}

func (b *Browser) showActions(row int) {
	if b.listing == nil || row < 0 || row >= len(b.listing.Rows) {
		return
	}
	actions := b.listing.Rows[row].Actions
	if len(actions) == 0 {
		return
	}
	buttons := make([]string, 0, len(actions)+1)
	for _, a := range actions {
		buttons = append(buttons, a.Caption)
	}
	buttons = append(buttons, "取消")

	modal := tview.NewModal().
		SetText(fmt.Sprintf("第 %d 行", b.listing.Rows[row].Ordinal)).
		AddButtons(buttons).
		SetDoneFunc(func(index int, label string) {
			b.pages.RemovePage("actions")
			b.app.SetFocus(b.grid)
			if index >= 0 && index < len(actions) {
				b.runAction(row, index)
			}
		})
	b.pages.AddPage("actions", modal, true, true)
}

// runAction 执行行操作, 然后重新加载数据
func (b *Browser) runAction(row, index int) {
	b.ac.Result, b.ac.Err = nil, nil
	if !b.cursor.Click(row, index) {
		return
	}
	if b.ac.Err != nil {
		b.showError(b.ac.Err.Error())
		return
	}
	if err := b.cursor.Reload(b.ctx); err != nil {
		b.showError(err.Error())
		return
	}
	b.refresh()
	if b.ac.Result != nil {
		b.showSuccess(fmt.Sprintf("完成: %v", b.ac.Result))
	} else {
		b.showSuccess("完成")
	}
}

func (b *Browser) reload() {
	if err := b.cursor.Reload(b.ctx); err != nil {
		b.showError(err.Error())
		return
	}
	b.refresh()
	b.showSuccess("已刷新")
}

func (b *Browser) step(delta int) {
	n := len(b.entries)
	if n < 2 {
		return
	}
	if err := b.Select((b.current + delta + n) % n); err != nil {
		b.showError(err.Error())
	}
}

func (b *Browser) showSuccess(message string) {
	b.notifier.SetTextColor(tcell.ColorGreen).SetText(message)
}

func (b *Browser) showWarning(message string) {
	b.notifier.SetTextColor(tcell.ColorYellow).SetText(message)
}

func (b *Browser) showError(message string) {
	b.notifier.SetTextColor(tcell.ColorRed).SetText(message)
}
