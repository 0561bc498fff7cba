package rental

import "github.com/shopspring/decimal"

// 房间状态名称，与 conditions 表中的预置数据保持一致。
const (
	ConditionClean    = "clean"
	ConditionOccupied = "occupied"
	ConditionDirty    = "dirty"
)

// ApartmentType 映射 apartment_types 表，Cost 为该房型的单日价格。
type ApartmentType struct {
	ID   uint            `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name string          `gorm:"column:name;size:64;not null;uniqueIndex" json:"name"`
	Cost decimal.Decimal `gorm:"column:cost;type:decimal(12,2);not null" json:"cost"`
}

// TableName 返回房型表名。
func (ApartmentType) TableName() string {
	return "apartment_types"
}

// Condition 映射 conditions 表，描述房间当前的清洁/占用状态。
type Condition struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"column:name;size:32;not null;uniqueIndex" json:"name"`
}

// TableName 返回房间状态表名。
func (Condition) TableName() string {
	return "conditions"
}

// Apartment 映射 apartments 表的一间可出租房间。
type Apartment struct {
	ID          uint          `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	TypeID      uint          `gorm:"column:type_id;not null;index" json:"type_id"`
	ConditionID uint          `gorm:"column:condition_id;not null;index" json:"condition_id"`
	Type        ApartmentType `gorm:"foreignKey:TypeID" json:"type"`
	Condition   Condition     `gorm:"foreignKey:ConditionID" json:"condition"`
}

// TableName 返回房间表名。
func (Apartment) TableName() string {
	return "apartments"
}
