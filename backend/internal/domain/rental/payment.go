package rental

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment 映射 rent_payments 表的一笔租赁付款，是营收报表的原始账本。
type Payment struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	ApartmentID  uint            `gorm:"column:apartment_id;not null;index" json:"apartment_id"`
	VisitorID    uint            `gorm:"column:visitor_id;not null;index" json:"visitor_id"`
	StaffID      uint            `gorm:"column:staff_id;not null;index" json:"staff_id"`
	QuantityDays int             `gorm:"column:quantity_days;not null" json:"quantity_days"`
	Amount       decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	PaidAt       time.Time       `gorm:"column:paid_at;not null;index" json:"paid_at"`
}

// TableName 返回付款表名。
func (Payment) TableName() string {
	return "rent_payments"
}

// PaymentView 是付款列表的联表结果，附带住客与员工姓名。
type PaymentView struct {
	Payment
	VisitorName string `gorm:"column:visitor_name" json:"visitor_name"`
	StaffName   string `gorm:"column:staff_name" json:"staff_name"`
}

// AllModels 返回需要自动建表的全部实体，供启动与测试复用。
func AllModels() []any {
	return []any{
		&ApartmentType{},
		&Condition{},
		&Apartment{},
		&Visitor{},
		&Role{},
		&Staff{},
		&Payment{},
	}
}
