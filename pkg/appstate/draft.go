package appstate

import (
	"maps"
	"sort"
	"time"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/snowflake"
	"github.com/pkg/errors"
)

// Draft 表单草稿, 只保存在内存中, 会话结束时丢弃
type Draft struct {
	ID      int64          `json:"id,string"`
	Entity  string         `json:"entity"`
	Data    map[string]any `json:"data"`
	SavedAt time.Time      `json:"saved_at"`
}

func (c *Container) checkSession(sessionID string) error {
	if _, ok := c.sessions[sessionID]; !ok {
		return ErrNoSession
	}
	return nil
}

// SaveDraft 新建草稿
func (c *Container) SaveDraft(sessionID, entity string, data map[string]any) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkSession(sessionID); err != nil {
		return 0, err
	}
	byEntity := c.drafts[sessionID]
	if byEntity == nil {
		byEntity = make(map[string]map[int64]*Draft)
		c.drafts[sessionID] = byEntity
	}
	items := byEntity[entity]
	if items == nil {
		items = make(map[int64]*Draft)
		byEntity[entity] = items
	}

	d := &Draft{ID: snowflake.NextID(), Entity: entity, Data: maps.Clone(data), SavedAt: c.now()}
	items[d.ID] = d
	return d.ID, nil
}

// UpdateDraft 覆盖已有草稿的内容
func (c *Container) UpdateDraft(sessionID, entity string, id int64, data map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, err := c.draft(sessionID, entity, id)
	if err != nil {
		return err
	}
	d.Data = maps.Clone(data)
	d.SavedAt = c.now()
	return nil
}

func (c *Container) draft(sessionID, entity string, id int64) (*Draft, error) {
	if err := c.checkSession(sessionID); err != nil {
		return nil, err
	}
	d, ok := c.drafts[sessionID][entity][id]
	if !ok {
		return nil, errors.Wrapf(ErrDraftNotFound, "%s/%d", entity, id)
	}
	return d, nil
}

// Draft 返回副本
func (c *Container) Draft(sessionID, entity string, id int64) (*Draft, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, err := c.draft(sessionID, entity, id)
	if err != nil {
		return nil, err
	}
	out := *d
	out.Data = maps.Clone(d.Data)
	return &out, nil
}

// Drafts 按创建顺序返回
func (c *Container) Drafts(sessionID, entity string) ([]Draft, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.checkSession(sessionID); err != nil {
		return nil, err
	}
	items := c.drafts[sessionID][entity]
	out := make([]Draft, 0, len(items))
	for _, d := range items {
		x := *d
		x.Data = maps.Clone(d.Data)
		out = append(out, x)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Container) DropDraft(sessionID, entity string, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.draft(sessionID, entity, id); err != nil {
		return err
	}
	delete(c.drafts[sessionID][entity], id)
	return nil
}

type sessionDrafts struct {
	c         *Container
	sessionID string
}

func (d sessionDrafts) SaveDraft(entity string, data map[string]any) (int64, error) {
	return d.c.SaveDraft(d.sessionID, entity, data)
}

// DraftSaver 绑定到会话, 供表格的行操作使用
func (c *Container) DraftSaver(sessionID string) admin.DraftSaver {
	return sessionDrafts{c: c, sessionID: sessionID}
}
