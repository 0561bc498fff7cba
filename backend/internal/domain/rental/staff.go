package rental

// 员工角色名称。
const (
	RoleAdministrator = "administrator"
	RoleHousekeeper   = "housekeeper"
)

// Role 映射 roles 表。
type Role struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"column:name;size:32;not null;uniqueIndex" json:"name"`
}

// TableName 返回角色表名。
func (Role) TableName() string {
	return "roles"
}

// Staff 映射 staff 表，只有管理员角色可以经手租赁。
type Staff struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	FullName     string `gorm:"column:full_name;size:128;not null" json:"full_name"`
	Login        string `gorm:"column:login;size:64;uniqueIndex" json:"login"`
	PasswordHash string `gorm:"column:password_hash;size:255" json:"-"`
	RoleID       uint   `gorm:"column:role_id;not null;index" json:"role_id"`
	Role         Role   `gorm:"foreignKey:RoleID" json:"role"`
}

// TableName 返回员工表名。
func (Staff) TableName() string {
	return "staff"
}

// IsAdministrator 判断员工是否具备管理员角色，需预加载 Role。
func (s Staff) IsAdministrator() bool {
	return s.Role.Name == RoleAdministrator
}
