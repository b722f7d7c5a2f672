// Package admin 把具体实体的表格注册为按名称访问的列表, 供 HTTP 服务, 命令行和终端界面共用
package admin

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/cometwk/erpadmin/pkg/table/textview"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"xorm.io/xorm"
)

var xlog = logrus.WithField("module", "admin")

var (
	ErrNotFound       = errors.New("admin: 表格不存在")
	ErrActionNotFound = errors.New("admin: 操作不存在")
	ErrRowNotFound    = errors.New("admin: 记录不存在")
	ErrUnsupported    = errors.New("admin: 当前环境不支持该操作")
	ErrBadQuery       = errors.New("admin: 查询参数错误")
)

// Query 一次列表请求. Page 从 1 开始, 为 0 时取第一页
type Query struct {
	Search   string
	Status   table.StatusValue
	Sort     table.SortState // Key 为空时使用表格的默认排序
	Page     int
	PageSize int // 0 使用表格定义的每页条数
	Where    map[string]string
}

// DraftSaver 行操作把记录复制为草稿时使用
type DraftSaver interface {
	SaveDraft(entity string, data map[string]any) (int64, error)
}

// ActionContext 行操作执行时的环境. Result/Err 由操作回填
type ActionContext struct {
	Ctx     context.Context
	Session *xorm.Session
	Drafts  DraftSaver // 没有登录会话时为 nil
	Result  any
	Err     error
}

type Entry interface {
	Name() string
	Title() string
	// Roles 允许访问的角色, 为空时任何已登录用户都可以访问
	Roles() []string
	Meta() Meta
	// Open 加载数据并应用查询. where 条件在数据库中执行, 其余在内存中执行
	Open(ctx context.Context, session *xorm.Session, q Query, ac *ActionContext) (Cursor, error)
}

// Cursor 一个打开的表格, 保持搜索/排序/页码状态
type Cursor interface {
	SetSearch(term string)
	SetStatus(value table.StatusValue)
	ToggleSort(key string) bool
	GoToPage(page int)
	NextPage()
	PrevPage()

	Listing() *Listing
	WriteText(w io.Writer, opts textview.Options) error
	// Click 最近一次 Listing 中第 row 行的第 action 个操作
	Click(row, action int) bool
	// Invoke 按记录 id 执行操作
	Invoke(action string, id string) error
	Reload(ctx context.Context) error
	// Err 数据库排序模式下最近一次重新加载的错误
	Err() error
}

var (
	mu       sync.RWMutex
	registry = map[string]Entry{}
)

// Register 同名覆盖
func Register(entries ...Entry) {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range entries {
		if _, ok := registry[e.Name()]; ok {
			xlog.WithField("table", e.Name()).Warn("表格重复注册, 覆盖")
		}
		registry[e.Name()] = e
	}
}

func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(registry, name)
}

func Lookup(name string) (Entry, error) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "'%s'", name)
	}
	return e, nil
}

// Entries 按名称排序
func Entries() []Entry {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
