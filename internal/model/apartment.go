package model

// Apartment 公寓表 — 对应 apartments
// 抽签标的，由管理员维护的基础数据
type Apartment struct {
	ApartmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"apartment_id"`
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Location    string `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Description string `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Apartment) TableName() string { return "apartments" }
