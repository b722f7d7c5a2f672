package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cometwk/erpadmin/pkg/snowflake"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"xorm.io/xorm"
)

var xlog = logrus.WithField("module", "model")

// InitModels 建表 (存在时补齐字段)
func InitModels(engine *xorm.Engine) error {
	if err := engine.Sync(Entities()...); err != nil {
		return errors.Wrap(err, "同步表结构失败")
	}
	return nil
}

var seedBase = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return seedBase.AddDate(0, 0, n)
}

// Seed 写入演示数据. 已有数据的表跳过
func Seed(ctx context.Context, session *xorm.Session) error {
	steps := []struct {
		bean any
		rows func() any
	}{
		{new(Employee), seedEmployees},
		{new(Customer), seedCustomers},
		{new(Banner), seedBanners},
		{new(Coupon), seedCoupons},
		{new(Offer), seedOffers},
		{new(Membership), seedMemberships},
		{new(Delivery), seedDeliveries},
		{new(Feedback), seedFeedbacks},
	}
	for _, s := range steps {
		name := session.Engine().TableName(s.bean)
		n, err := session.Context(ctx).Count(s.bean)
		if err != nil {
			return errors.Wrapf(err, "统计 %s", name)
		}
		if n > 0 {
			xlog.WithField("table", name).Infof("已有 %d 条数据, 跳过", n)
			continue
		}
		rows := s.rows()
		if _, err := session.Context(ctx).Insert(rows); err != nil {
			return errors.Wrapf(err, "写入 %s", name)
		}
		xlog.WithField("table", name).Info("演示数据已写入")
	}
	return nil
}

var (
	cities = []string{"上海", "北京", "杭州", "深圳", "成都"}
	roles  = []string{"admin", "editor", "viewer"}
)

func seedEmployees() any {
	names := []string{"Alice", "Bob", "Carol", "David", "Eve", "Frank", "Grace", "Heidi", "Ivan", "Judy", "Mallory", "Niaj"}
	rows := make([]Employee, 0, len(names))
	for i, name := range names {
		rows = append(rows, Employee{
			ID:      snowflake.NextID(),
			Name:    name,
			Email:   strings.ToLower(name) + "@example.com",
			Role:    roles[i%len(roles)],
			Active:  i%4 != 3,
			Profile: Profile{City: cities[i%len(cities)], Phone: fmt.Sprintf("1380000%04d", i)},
		})
	}
	return rows
}

func seedCustomers() any {
	names := []string{"星河贸易", "远山科技", "蓝海餐饮", "青禾农业", "北辰物流", "南风服饰", "東方书店", "Acme Ltd"}
	levels := []string{"gold", "silver", "normal"}
	rows := make([]Customer, 0, len(names))
	for i, name := range names {
		rows = append(rows, Customer{
			ID:      snowflake.NextID(),
			Name:    name,
			Phone:   fmt.Sprintf("021-5555%04d", i),
			Level:   levels[i%len(levels)],
			Points:  (i*37 + 11) % 500,
			Enabled: i != 5,
			Address: Address{Province: "示例省", City: cities[(i+1)%len(cities)], Street: fmt.Sprintf("%d 号", 100+i)},
		})
	}
	return rows
}

func seedBanners() any {
	titles := []string{"新品上市", "夏季大促", "会员日", "满减活动", "品牌故事"}
	rows := make([]Banner, 0, len(titles))
	for i, title := range titles {
		rows = append(rows, Banner{
			ID:       snowflake.NextID(),
			Title:    title,
			Image:    fmt.Sprintf("/static/banner/%d.png", i+1),
			Link:     fmt.Sprintf("/promo/%d", i+1),
			Position: len(titles) - i,
			Enabled:  i%2 == 0,
			StartAt:  day(i * 7),
			EndAt:    day(i*7 + 30),
		})
	}
	return rows
}

func seedCoupons() any {
	statuses := []string{"active", "used", "expired"}
	rows := make([]Coupon, 0, 9)
	for i := 0; i < 9; i++ {
		rows = append(rows, Coupon{
			ID:       snowflake.NextID(),
			Code:     fmt.Sprintf("CP%04d", 1000+i*7),
			Title:    fmt.Sprintf("满 %d 减 %d", (i+1)*100, (i+1)*10),
			Amount:   float64((i + 1) * 10),
			MinSpend: float64((i + 1) * 100),
			Status:   statuses[i%len(statuses)],
			ExpireAt: day(60 + i*5),
		})
	}
	return rows
}

func seedOffers() any {
	products := []Product{
		{SKU: "SKU-001", Name: "保温杯"},
		{SKU: "SKU-002", Name: "帆布包"},
		{SKU: "SKU-003", Name: "蓝牙耳机"},
		{SKU: "SKU-004", Name: "机械键盘"},
		{SKU: "SKU-005", Name: "台灯"},
	}
	rows := make([]Offer, 0, len(products))
	for i, p := range products {
		rows = append(rows, Offer{
			ID:       snowflake.NextID(),
			Title:    p.Name + "限时折扣",
			Discount: 0.95 - float64(i)*0.05,
			Product:  p,
			Active:   i != 2,
			StartAt:  day(i),
			EndAt:    day(i + 14),
		})
	}
	return rows
}

func seedMemberships() any {
	return []Membership{
		{ID: snowflake.NextID(), Name: "基础会员", Tier: "basic", Price: 9.9, DurationDays: 30, Benefits: []string{"包邮"}, Active: true},
		{ID: snowflake.NextID(), Name: "进阶会员", Tier: "plus", Price: 99, DurationDays: 365, Benefits: []string{"包邮", "生日礼"}, Active: true},
		{ID: snowflake.NextID(), Name: "专业会员", Tier: "pro", Price: 299, DurationDays: 365, Benefits: []string{"包邮", "生日礼", "专属客服"}, Active: true},
		{ID: snowflake.NextID(), Name: "体验会员", Tier: "basic", Price: 0, DurationDays: 7, Benefits: nil, Active: false},
	}
}

func seedDeliveries() any {
	statuses := []string{"pending", "shipping", "delivered"}
	couriers := []Courier{{Name: "顺丰", Phone: "95338"}, {Name: "中通", Phone: "95311"}, {Name: "京东", Phone: "950616"}}
	rows := make([]Delivery, 0, 10)
	for i := 0; i < 10; i++ {
		d := Delivery{
			ID:      snowflake.NextID(),
			OrderNo: fmt.Sprintf("SO%06d", 240001+i),
			Courier: couriers[i%len(couriers)],
			Address: Address{Province: "示例省", City: cities[i%len(cities)], Street: fmt.Sprintf("%d 弄", i+1)},
			Status:  statuses[i%len(statuses)],
		}
		if d.Status != "pending" {
			t := day(i).Add(time.Duration(i) * time.Hour)
			d.ShippedAt = &t
		}
		rows = append(rows, d)
	}
	return rows
}

func seedFeedbacks() any {
	contents := []string{"发货很快", "包装破损", "客服态度好", "希望增加颜色", "价格偏高", "物流太慢"}
	statuses := []string{"new", "replied", "closed"}
	rows := make([]Feedback, 0, len(contents))
	for i, c := range contents {
		rows = append(rows, Feedback{
			ID:      snowflake.NextID(),
			Contact: Contact{Name: fmt.Sprintf("用户%d", i+1), Email: fmt.Sprintf("user%d@example.com", i+1)},
			Rating:  5 - i%5,
			Content: c,
			Status:  statuses[i%len(statuses)],
		})
	}
	return rows
}
