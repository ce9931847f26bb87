package model

// Wish 愿望表 — 对应 wishes
// 一条愿望属于 (用户, 抽签) 并指向一个期间；
// priority 数值越小越优先（同一用户内应唯一，重复仅告警不拦截）；
// ApartmentIDs 为用户排序后的公寓列表，索引 0 最优先。
type Wish struct {
	WishID       string    `gorm:"type:uuid;not null;primaryKey;default:gen_random_uuid()" json:"wish_id"`
	DrawingID    string    `gorm:"type:uuid;not null"                                      json:"drawing_id"`
	UserID       string    `gorm:"type:uuid;not null"                                      json:"user_id"`
	PeriodID     string    `gorm:"type:uuid;not null"                                      json:"period_id"`
	Priority     int       `gorm:"not null"                                                json:"priority"`
	ApartmentIDs UUIDArray `gorm:"type:uuid[];not null"                                    json:"apartment_ids"`
	Comment      string    `gorm:"type:varchar(500)"                                       json:"comment,omitempty"`
	VersionedModel

	// 关联
	User   *User   `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	Period *Period `gorm:"foreignKey:PeriodID;references:PeriodID"   json:"period,omitempty"`
}

// TableName 指定表名
func (Wish) TableName() string { return "wishes" }
