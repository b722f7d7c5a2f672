// Package appstate 应用状态容器: 登录会话, 角色和草稿. 通过 context 注入, 不使用全局变量
package appstate

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cometwk/erpadmin/pkg/util"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/tevino/abool/v2"
)

var xlog = logrus.WithField("module", "appstate")

var (
	ErrNoSecret      = errors.New("appstate: 未配置 JWT 密钥")
	ErrUnknownRole   = errors.New("appstate: 角色不存在")
	ErrInvalidToken  = errors.New("appstate: TOKEN 无效")
	ErrNoSession     = errors.New("appstate: 会话不存在或已过期")
	ErrDraftNotFound = errors.New("appstate: 草稿不存在")
	ErrStarted       = errors.New("appstate: 已经启动")
)

const (
	DefaultIssuer = "ERPADMIN"
	DefaultTTL    = 12 * time.Hour
	DefaultSweep  = "@every 1m"
)

// Role Super 可以访问全部表格; Tables 中的 "*" 同样表示全部
type Role struct {
	Name   string   `json:"name"`
	Super  bool     `json:"super"`
	Tables []string `json:"tables"`
}

// DefaultRoles 与实体表格的 Roles 对应
func DefaultRoles() []Role {
	return []Role{
		{Name: "admin", Super: true},
		{Name: "editor", Tables: []string{"*"}},
		{Name: "viewer", Tables: []string{"customers", "memberships", "deliveries", "feedbacks"}},
	}
}

type Config struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Roles  []Role
	Sweep  string           // cron 表达式, 定期清理过期会话
	Now    func() time.Time // 测试时替换
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Container struct {
	cfg   Config
	roles map[string]Role

	mu       sync.RWMutex
	sessions map[string]*Session
	drafts   map[string]map[string]map[int64]*Draft // 会话 -> 实体 -> 草稿

	cron    *cron.Cron
	started abool.AtomicBool
}

func New(cfg Config) (*Container, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrNoSecret
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Roles == nil {
		cfg.Roles = DefaultRoles()
	}
	if cfg.Sweep == "" {
		cfg.Sweep = DefaultSweep
	}
	if cfg.Now == nil {
		cfg.Now = util.Now
	}

	c := &Container{
		cfg:      cfg,
		roles:    make(map[string]Role, len(cfg.Roles)),
		sessions: make(map[string]*Session),
		drafts:   make(map[string]map[string]map[int64]*Draft),
	}
	for _, r := range cfg.Roles {
		c.roles[r.Name] = r
	}
	return c, nil
}

func (c *Container) now() time.Time {
	return c.cfg.Now().UTC()
}

func (c *Container) Role(name string) (Role, bool) {
	r, ok := c.roles[name]
	return r, ok
}

// Can 会话的角色能否访问表格
func (c *Container) Can(s *Session, table string) bool {
	if s == nil {
		return false
	}
	r, ok := c.roles[s.Role]
	if !ok {
		return false
	}
	return r.Super || slices.Contains(r.Tables, "*") || slices.Contains(r.Tables, table)
}

// Start 启动过期会话清理
func (c *Container) Start() error {
	if !c.started.SetToIf(false, true) {
		return ErrStarted
	}
	c.cron = cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.cron.AddFunc(c.cfg.Sweep, func() { c.Sweep() }); err != nil {
		c.started.UnSet()
		return errors.Wrapf(err, "清理任务 '%s'", c.cfg.Sweep)
	}
	c.cron.Start()
	xlog.Infof("会话清理已启动: %s", c.cfg.Sweep)
	return nil
}

// Stop 停止清理任务并清空全部状态
func (c *Container) Stop() {
	if c.started.SetToIf(true, false) {
		<-c.cron.Stop().Done()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = make(map[string]*Session)
	c.drafts = make(map[string]map[string]map[int64]*Draft)
}

func (c *Container) Started() bool {
	return c.started.IsSet()
}

// Sweep 删除过期会话及其草稿, 返回删除的会话数
func (c *Container) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for id, s := range c.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(c.sessions, id)
			delete(c.drafts, id)
			n++
		}
	}
	if n > 0 {
		xlog.Infof("清理过期会话 %d 个", n)
	}
	return n
}

type contextKey string

const (
	containerKey contextKey = "appstate"
	sessionKey   contextKey = "session"
)

func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerKey, c)
}

func FromContext(ctx context.Context) (*Container, bool) {
	if ctx == nil {
		return nil, false
	}
	c, ok := ctx.Value(containerKey).(*Container)
	return c, ok && c != nil
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func SessionFrom(ctx context.Context) (*Session, bool) {
	if ctx == nil {
		return nil, false
	}
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
