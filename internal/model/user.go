package model

// 角色
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleViewer  = "viewer"
)

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string  `gorm:"type:varchar(150);not null"                     json:"username"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'teacher'"    json:"role"`
	Alias        *string `gorm:"type:varchar(100)"                              json:"alias,omitempty"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// CanEdit admin 与 teacher 可写，viewer 只读
func (u *User) CanEdit() bool {
	return CanEditRole(u.Role)
}

// DisplayName 优先使用别名
func (u *User) DisplayName() string {
	if u.Alias != nil && *u.Alias != "" {
		return *u.Alias
	}
	return u.Username
}

// CanEditRole 判断角色是否具有写权限
func CanEditRole(role string) bool {
	return role == RoleAdmin || role == RoleTeacher
}
