package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/cometwk/erpadmin/pkg/admin"
	"github.com/cometwk/erpadmin/pkg/table"
	"github.com/cometwk/erpadmin/pkg/util"
	"github.com/pkg/errors"
)

const pageSize = 10

var (
	allOption      = table.StatusOption{Label: "全部", Value: table.AllStatus()}
	enabledOptions = []table.StatusOption{
		allOption,
		{Label: "启用", Value: table.BoolStatus(true)},
		{Label: "停用", Value: table.BoolStatus(false)},
	}
)

func statusOptions(pairs ...string) []table.StatusOption {
	out := []table.StatusOption{allOption}
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, table.StatusOption{Label: pairs[i+1], Value: table.StringStatus(pairs[i])})
	}
	return out
}

func paged() *table.PaginationConfig {
	return &table.PaginationConfig{Enabled: true, ItemsPerPage: pageSize}
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// rank 按枚举顺序排序, 未知值排在最后
func rank(order ...string) func(s string) int {
	return func(s string) int {
		for i, o := range order {
			if o == s {
				return i
			}
		}
		return len(order)
	}
}

func dateRange(start, end time.Time) string {
	return start.Format(time.DateOnly) + " ~ " + end.Format(time.DateOnly)
}

func updateCols[T any](ac *admin.ActionContext, id int64, bean *T, cols ...string) {
	if ac.Session == nil {
		ac.Err = admin.ErrUnsupported
		return
	}
	n, err := ac.Session.Context(ac.Ctx).ID(id).Cols(cols...).Update(bean)
	if err != nil {
		ac.Err = errors.Wrapf(err, "更新 %d", id)
		return
	}
	ac.Result = map[string]any{"id": id, "updated": n}
}

// saveDraft 把记录复制为当前用户的草稿, 编辑页面从草稿开始
func saveDraft(ac *admin.ActionContext, entity string, row any) {
	if ac.Drafts == nil {
		ac.Err = errors.Wrap(admin.ErrUnsupported, "编辑需要登录会话")
		return
	}
	rec, err := util.ToRecord(row)
	if err != nil {
		ac.Err = err
		return
	}
	id, err := ac.Drafts.SaveDraft(entity, rec)
	if err != nil {
		ac.Err = err
		return
	}
	ac.Result = map[string]any{"draft_id": id}
}

func editAction[T any](ac *admin.ActionContext, entity string) table.Action[T] {
	return table.Action[T]{
		Variant: table.ActionIcon,
		Name:    "edit",
		Icon:    "✎",
		Label:   "编辑",
		OnClick: func(row T) { saveDraft(ac, entity, row) },
	}
}

var EmployeeTable = &admin.Typed[Employee]{
	TableName:  "employees",
	TableTitle: "员工",
	Allow:      []string{"admin"},
	Whitelist:  []string{"role", "active", "created_at"},
	Options: func(ac *admin.ActionContext) table.Options[Employee] {
		return table.Options[Employee]{
			Columns: []table.Column[Employee]{
				{Key: "name", Header: "姓名", Sortable: true},
				{Key: "email", Header: "邮箱", Sortable: true},
				{Key: "role", Header: "角色", Sortable: true, SortValue: func(e Employee) any { return rank(roles...)(e.Role) }},
				{Key: "profile.city", Header: "城市", Sortable: true},
				{Key: "active", Header: "状态", ClassName: "status",
					Accessor:  func(e Employee) any { return yesNo(e.Active, "在职", "离职") },
					SortValue: func(e Employee) any { return e.Active },
					Sortable:  true},
				{Key: "created_at", Header: "创建时间", Sortable: true},
			},
			Search:     &table.SearchConfig{Enabled: true, Placeholder: "搜索姓名/邮箱/城市", Keys: []string{"name", "email", "profile.city"}},
			Status:     &table.StatusConfig{Enabled: true, Accessor: "active", Options: enabledOptions},
			Pagination: paged(),
			Sort:       table.SortInternal{Initial: table.SortState{Key: "name"}},
			Actions:    []table.Action[Employee]{
				editAction[Employee](ac, "employee"),
				{Variant: table.ActionButton, Name: "toggle", Label: "启用/停用", OnClick: func(e Employee) {
					updateCols(ac, e.ID, &Employee{Active: !e.Active}, "active")
				}},
			},
			EmptyMessage: "没有员工",
		}
	},
}

var CustomerTable = &admin.Typed[Customer]{
	TableName:  "customers",
	TableTitle: "客户",
	Whitelist:  []string{"level", "enabled"},
	Options: func(ac *admin.ActionContext) table.Options[Customer] {
		levelRank := rank("gold", "silver", "normal")
		return table.Options[Customer]{
			Columns: []table.Column[Customer]{
				{Key: "name", Header: "名称", Sortable: true},
				{Key: "phone", Header: "电话"},
				{Key: "level", Header: "等级", Sortable: true, SortValue: func(c Customer) any { return levelRank(c.Level) }},
				{Key: "points", Header: "积分", Sortable: true, ClassName: "num"},
				{Key: "address.city", Header: "城市", Sortable: true},
				{Key: "enabled", Header: "启用", Accessor: func(c Customer) any { return yesNo(c.Enabled, "是", "否") }},
			},
			Search:     &table.SearchConfig{Enabled: true, Placeholder: "搜索名称/电话/城市", Keys: []string{"name", "phone", "address.city"}},
			Status:     &table.StatusConfig{Enabled: true, Accessor: "level", Options: statusOptions("gold", "金卡", "silver", "银卡", "normal", "普通")},
			Pagination: paged(),
			Sort:       table.SortInternal{Initial: table.SortState{Key: "points", Direction: table.Desc}},
			Actions:    []table.Action[Customer]{editAction[Customer](ac, "customer")},
		}
	},
}

var BannerTable = &admin.Typed[Banner]{
	TableName:  "banners",
	TableTitle: "横幅",
	Allow:      []string{"admin", "editor"},
	Whitelist:  []string{"enabled"},
	Options: func(ac *admin.ActionContext) table.Options[Banner] {
		return table.Options[Banner]{
			Columns: []table.Column[Banner]{
				{Key: "position", Header: "顺序", Sortable: true},
				{Key: "title", Header: "标题", Sortable: true},
				{Key: "link", Header: "链接"},
				{Key: "period", Header: "投放时间", Sortable: true,
					Accessor:  func(b Banner) any { return dateRange(b.StartAt, b.EndAt) },
					SortValue: func(b Banner) any { return b.StartAt }},
				{Key: "enabled", Header: "启用", Accessor: func(b Banner) any { return yesNo(b.Enabled, "是", "否") }},
			},
			Search:  &table.SearchConfig{Enabled: true, Keys: []string{"title", "link"}},
			Status:  &table.StatusConfig{Enabled: true, Accessor: "enabled", Options: enabledOptions},
			Sort:    table.SortInternal{Initial: table.SortState{Key: "position"}},
			Actions: []table.Action[Banner]{
				editAction[Banner](ac, "banner"),
				{Variant: table.ActionButton, Name: "toggle", Label: "上线/下线", OnClick: func(b Banner) {
					updateCols(ac, b.ID, &Banner{Enabled: !b.Enabled}, "enabled")
				}},
			},
			EmptyMessage: "没有横幅",
		}
	},
}

var CouponTable = &admin.Typed[Coupon]{
	TableName:  "coupons",
	TableTitle: "优惠券",
	Allow:      []string{"admin", "editor"},
	Whitelist:  []string{"status", "amount", "expire_at"},
	Options: func(ac *admin.ActionContext) table.Options[Coupon] {
		return table.Options[Coupon]{
			Columns: []table.Column[Coupon]{
				{Key: "code", Header: "券码", Sortable: true},
				{Key: "title", Header: "名称"},
				{Key: "amount", Header: "面额", Sortable: true, ClassName: "num",
					Accessor:  func(c Coupon) any { return fmt.Sprintf("¥%.2f", c.Amount) },
					SortValue: func(c Coupon) any { return c.Amount }},
				{Key: "min_spend", Header: "门槛", Sortable: true, ClassName: "num"},
				{Key: "status", Header: "状态", Sortable: true},
				{Key: "expire_at", Header: "过期时间", Sortable: true},
			},
			Search:     &table.SearchConfig{Enabled: true, Placeholder: "搜索券码/名称", Keys: []string{"code", "title"}},
			Status:     &table.StatusConfig{Enabled: true, Accessor: "status", Options: statusOptions("active", "可用", "used", "已使用", "expired", "已过期")},
			Pagination: paged(),
			Sort:       table.SortInternal{Initial: table.SortState{Key: "expire_at"}},
			Actions:    []table.Action[Coupon]{
				{Variant: table.ActionButton, Name: "expire", Label: "作废", ClassName: "danger", OnClick: func(c Coupon) {
					updateCols(ac, c.ID, &Coupon{Status: "expired"}, "status")
				}},
			},
		}
	},
}

var OfferTable = &admin.Typed[Offer]{
	TableName:  "offers",
	TableTitle: "促销",
	Allow:      []string{"admin", "editor"},
	Whitelist:  []string{"active"},
	Options: func(ac *admin.ActionContext) table.Options[Offer] {
		return table.Options[Offer]{
			Columns: []table.Column[Offer]{
				{Key: "title", Header: "标题", Sortable: true},
				{Key: "product.name", Header: "商品", Sortable: true},
				{Key: "product.sku", Header: "SKU"},
				{Key: "discount", Header: "折扣", Sortable: true,
					Accessor:  func(o Offer) any { return fmt.Sprintf("%.1f 折", o.Discount*10) },
					SortValue: func(o Offer) any { return o.Discount }},
				{Key: "end_at", Header: "截止", Sortable: true},
			},
			Search:     &table.SearchConfig{Enabled: true, Keys: []string{"title", "product.name", "product.sku"}},
			Status:     &table.StatusConfig{Enabled: true, Accessor: "active", Options: enabledOptions},
			Pagination: paged(),
			Actions:    []table.Action[Offer]{
				editAction[Offer](ac, "offer"),
				{Variant: table.ActionButton, Name: "toggle", Label: "开启/关闭", OnClick: func(o Offer) {
					updateCols(ac, o.ID, &Offer{Active: !o.Active}, "active")
				}},
			},
		}
	},
}

// MembershipTable 条目少, 不分页
var MembershipTable = &admin.Typed[Membership]{
	TableName:  "memberships",
	TableTitle: "会员方案",
	Whitelist:  []string{"tier", "active"},
	Options: func(ac *admin.ActionContext) table.Options[Membership] {
		tierRank := rank("basic", "plus", "pro")
		return table.Options[Membership]{
			Columns: []table.Column[Membership]{
				{Key: "name", Header: "名称"},
				{Key: "tier", Header: "级别", Sortable: true, SortValue: func(m Membership) any { return tierRank(m.Tier) }},
				{Key: "price", Header: "价格", Sortable: true, ClassName: "num"},
				{Key: "duration_days", Header: "天数", Sortable: true},
				{Key: "benefits", Header: "权益", Accessor: func(m Membership) any { return strings.Join(m.Benefits, "/") }},
			},
			Status:  &table.StatusConfig{Enabled: true, Accessor: "active", Options: enabledOptions},
			Sort:    table.SortInternal{Initial: table.SortState{Key: "tier"}},
			Actions: []table.Action[Membership]{editAction[Membership](ac, "membership")},
		}
	},
}

// DeliveryTable 数据量大, 排序在数据库中执行
var DeliveryTable = &admin.Typed[Delivery]{
	TableName:    "deliveries",
	TableTitle:   "配送",
	Whitelist:    []string{"order_no", "status", "shipped_at"},
	ExternalSort: true,
	Options: func(ac *admin.ActionContext) table.Options[Delivery] {
		return table.Options[Delivery]{
			Columns: []table.Column[Delivery]{
				{Key: "order_no", Header: "订单号", Sortable: true},
				{Key: "courier.name", Header: "快递"},
				{Key: "address.city", Header: "城市"},
				{Key: "status", Header: "状态", Sortable: true},
				{Key: "shipped_at", Header: "发货时间", Sortable: true},
			},
			Search:     &table.SearchConfig{Enabled: true, Placeholder: "搜索订单号/城市", Keys: []string{"order_no", "address.city", "courier.name"}},
			Status:     &table.StatusConfig{Enabled: true, Accessor: "status", Options: statusOptions("pending", "待发货", "shipping", "运输中", "delivered", "已送达")},
			Pagination: paged(),
			Sort:       table.SortInternal{Initial: table.SortState{Key: "order_no", Direction: table.Desc}},
			Actions:    []table.Action[Delivery]{
				{Variant: table.ActionButton, Name: "ship", Label: "发货", OnClick: func(d Delivery) {
					if d.Status != "pending" {
						ac.Err = errors.Errorf("订单 %s 状态为 %s, 不能发货", d.OrderNo, d.Status)
						return
					}
					now := time.Now().UTC()
					updateCols(ac, d.ID, &Delivery{Status: "shipping", ShippedAt: &now}, "status", "shipped_at")
				}},
			},
			EmptyMessage: "没有配送记录",
		}
	},
}

var FeedbackTable = &admin.Typed[Feedback]{
	TableName:  "feedbacks",
	TableTitle: "用户反馈",
	Whitelist:  []string{"status", "rating", "created_at"},
	Options: func(ac *admin.ActionContext) table.Options[Feedback] {
		return table.Options[Feedback]{
			Columns: []table.Column[Feedback]{
				{Key: "contact.name", Header: "用户", Sortable: true},
				{Key: "contact.email", Header: "邮箱"},
				{Key: "rating", Header: "评分", Sortable: true,
					Accessor:  func(f Feedback) any { return strings.Repeat("★", f.Rating) },
					SortValue: func(f Feedback) any { return f.Rating }},
				{Key: "content", Header: "内容"},
				{Key: "status", Header: "状态", Sortable: true},
				{Key: "created_at", Header: "时间", Sortable: true},
			},
			Search:     &table.SearchConfig{Enabled: true, Keys: []string{"contact.name", "contact.email", "content"}},
			Status:     &table.StatusConfig{Enabled: true, Accessor: "status", Options: statusOptions("new", "新反馈", "replied", "已回复", "closed", "已关闭")},
			Pagination: paged(),
			Sort:       table.SortInternal{Initial: table.SortState{Key: "created_at", Direction: table.Desc}},
			Actions:    []table.Action[Feedback]{
				{Variant: table.ActionButton, Name: "close", Label: "关闭", OnClick: func(f Feedback) {
					updateCols(ac, f.ID, &Feedback{Status: "closed"}, "status")
				}},
			},
		}
	},
}

// Tables 全部实体表格
func Tables() []admin.Entry {
	return []admin.Entry{
		EmployeeTable,
		CustomerTable,
		BannerTable,
		CouponTable,
		OfferTable,
		MembershipTable,
		DeliveryTable,
		FeedbackTable,
	}
}

// Register 注册到 admin
func Register() {
	admin.Register(Tables()...)
}
