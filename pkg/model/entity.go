package model

import "time"

type Profile struct {
	City  string `json:"city"`
	Phone string `json:"phone"`
}

type Address struct {
	Province string `json:"province"`
	City     string `json:"city"`
	Street   string `json:"street"`
}

type Product struct {
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

type Courier struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Employee struct {
	ID        int64     `xorm:"'id' bigint pk" json:"id"`               // 雪花ID
	Name      string    `xorm:"'name' varchar(64) notnull" json:"name"` // 姓名
	Email     string    `xorm:"'email' varchar(128)" json:"email"`      // 邮箱
	Role      string    `xorm:"'role' varchar(32)" json:"role"`         // admin/editor/viewer
	Active    bool      `xorm:"'active' bool" json:"active"`            // 在职
	Profile   Profile   `xorm:"'profile' json" json:"profile"`          // 联系方式
	CreatedAt time.Time `xorm:"'created_at' created" json:"created_at"` // 创建时间
	UpdatedAt time.Time `xorm:"'updated_at' updated" json:"updated_at"` // 更新时间
}

func (Employee) TableName() string {
	return "employee"
}

type Customer struct {
	ID        int64     `xorm:"'id' bigint pk" json:"id"`
	Name      string    `xorm:"'name' varchar(64) notnull" json:"name"`
	Phone     string    `xorm:"'phone' varchar(32)" json:"phone"`
	Level     string    `xorm:"'level' varchar(16)" json:"level"` // gold/silver/normal
	Points    int       `xorm:"'points' int" json:"points"`       // 积分
	Enabled   bool      `xorm:"'enabled' bool" json:"enabled"`
	Address   Address   `xorm:"'address' json" json:"address"`
	CreatedAt time.Time `xorm:"'created_at' created" json:"created_at"`
}

func (Customer) TableName() string {
	return "customer"
}

type Banner struct {
	ID       int64     `xorm:"'id' bigint pk" json:"id"`
	Title    string    `xorm:"'title' varchar(128) notnull" json:"title"`
	Image    string    `xorm:"'image' varchar(255)" json:"image"`
	Link     string    `xorm:"'link' varchar(255)" json:"link"`
	Position int       `xorm:"'position' int" json:"position"` // 显示顺序, 小的在前
	Enabled  bool      `xorm:"'enabled' bool" json:"enabled"`
	StartAt  time.Time `xorm:"'start_at' datetime" json:"start_at"`
	EndAt    time.Time `xorm:"'end_at' datetime" json:"end_at"`
}

func (Banner) TableName() string {
	return "banner"
}

type Coupon struct {
	ID       int64     `xorm:"'id' bigint pk" json:"id"`
	Code     string    `xorm:"'code' varchar(32) unique" json:"code"` // 券码
	Title    string    `xorm:"'title' varchar(128)" json:"title"`
	Amount   float64   `xorm:"'amount' double" json:"amount"`       // 面额
	MinSpend float64   `xorm:"'min_spend' double" json:"min_spend"` // 满减门槛
	Status   string    `xorm:"'status' varchar(16)" json:"status"`  // active/used/expired
	ExpireAt time.Time `xorm:"'expire_at' datetime" json:"expire_at"`
}

func (Coupon) TableName() string {
	return "coupon"
}

type Offer struct {
	ID       int64     `xorm:"'id' bigint pk" json:"id"`
	Title    string    `xorm:"'title' varchar(128)" json:"title"`
	Discount float64   `xorm:"'discount' double" json:"discount"` // 折扣, 0.8 表示八折
	Product  Product   `xorm:"'product' json" json:"product"`
	Active   bool      `xorm:"'active' bool" json:"active"`
	StartAt  time.Time `xorm:"'start_at' datetime" json:"start_at"`
	EndAt    time.Time `xorm:"'end_at' datetime" json:"end_at"`
}

func (Offer) TableName() string {
	return "offer"
}

type Membership struct {
	ID           int64    `xorm:"'id' bigint pk" json:"id"`
	Name         string   `xorm:"'name' varchar(64)" json:"name"`
	Tier         string   `xorm:"'tier' varchar(16)" json:"tier"` // basic/plus/pro
	Price        float64  `xorm:"'price' double" json:"price"`
	DurationDays int      `xorm:"'duration_days' int" json:"duration_days"`
	Benefits     []string `xorm:"'benefits' json" json:"benefits"`
	Active       bool     `xorm:"'active' bool" json:"active"`
}

func (Membership) TableName() string {
	return "membership"
}

type Delivery struct {
	ID        int64      `xorm:"'id' bigint pk" json:"id"`
	OrderNo   string     `xorm:"'order_no' varchar(32)" json:"order_no"` // 订单号
	Courier   Courier    `xorm:"'courier' json" json:"courier"`
	Address   Address    `xorm:"'address' json" json:"address"`
	Status    string     `xorm:"'status' varchar(16)" json:"status"` // pending/shipping/delivered
	ShippedAt *time.Time `xorm:"'shipped_at' datetime" json:"shipped_at"`
}

func (Delivery) TableName() string {
	return "delivery"
}

type Feedback struct {
	ID        int64     `xorm:"'id' bigint pk" json:"id"`
	Contact   Contact   `xorm:"'contact' json" json:"contact"`
	Rating    int       `xorm:"'rating' int" json:"rating"` // 1..5
	Content   string    `xorm:"'content' text" json:"content"`
	Status    string    `xorm:"'status' varchar(16)" json:"status"` // new/replied/closed
	CreatedAt time.Time `xorm:"'created_at' created" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// Entities 全部实体, 用于建表
func Entities() []any {
	return []any{
		new(Employee),
		new(Customer),
		new(Banner),
		new(Coupon),
		new(Offer),
		new(Membership),
		new(Delivery),
		new(Feedback),
	}
}
