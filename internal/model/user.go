package model

import "gorm.io/gorm"

// User 用户表 — 对应 users
type User struct {
	UserID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash       string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string `gorm:"type:varchar(20);not null;default:'member'"     json:"role"` // member | admin
	MustChangePassword bool   `gorm:"not null;default:false"                         json:"must_change_password"`
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"              json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid"          json:"deleted_by,omitempty"`
	Version   int            `gorm:"not null;default:1" json:"version"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
