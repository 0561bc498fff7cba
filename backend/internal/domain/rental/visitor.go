package rental

// Visitor 映射 visitors 表，仅保存住客姓名。
type Visitor struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	FullName string `gorm:"column:full_name;size:128;not null" json:"full_name"`
}

// TableName 返回住客表名。
func (Visitor) TableName() string {
	return "visitors"
}
