package model

import "time"

// DrawRecord 抽签执行记录 — 对应 draw_records
// 持久化种子与汇总计数，同一抽签重抽时整体替换
type DrawRecord struct {
	DrawRecordID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"draw_record_id"`
	DrawingID      string    `gorm:"type:uuid;not null"                             json:"drawing_id"`
	Seed           int64     `gorm:"not null"                                       json:"seed"`
	PeriodCount    int       `gorm:"not null;default:0"                             json:"period_count"`
	WishCount      int       `gorm:"not null;default:0"                             json:"wish_count"`
	AllocatedCount int       `gorm:"not null;default:0"                             json:"allocated_count"`
	UnmetCount     int       `gorm:"not null;default:0"                             json:"unmet_count"`
	DrawnBy        *string   `gorm:"type:uuid"                                      json:"drawn_by,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (DrawRecord) TableName() string { return "draw_records" }

// Allocation 分配结果表 — 对应 allocations
// (用户, 期间, 公寓) 三元组，只由抽签引擎产生，创建后不可修改
type Allocation struct {
	AllocationID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allocation_id"`
	DrawRecordID  string    `gorm:"type:uuid;not null"                             json:"draw_record_id"`
	DrawingID     string    `gorm:"type:uuid;not null"                             json:"drawing_id"`
	UserID        string    `gorm:"type:uuid;not null"                             json:"user_id"`
	PeriodID      string    `gorm:"type:uuid;not null"                             json:"period_id"`
	ApartmentID   string    `gorm:"type:uuid;not null"                             json:"apartment_id"`
	WishID        string    `gorm:"type:uuid;not null"                             json:"wish_id"`
	ApartmentRank int       `gorm:"not null;default:0"                             json:"apartment_rank"` // 在愿望公寓列表中的位置
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	User      *User      `gorm:"foreignKey:UserID;references:UserID"                json:"user,omitempty"`
	Period    *Period    `gorm:"foreignKey:PeriodID;references:PeriodID"            json:"period,omitempty"`
	Apartment *Apartment `gorm:"foreignKey:ApartmentID;references:ApartmentID"      json:"apartment,omitempty"`
}

// TableName 指定表名
func (Allocation) TableName() string { return "allocations" }

// UnmetWish 未满足愿望表 — 对应 unmet_wishes
type UnmetWish struct {
	UnmetWishID  string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unmet_wish_id"`
	DrawRecordID string    `gorm:"type:uuid;not null"                             json:"draw_record_id"`
	DrawingID    string    `gorm:"type:uuid;not null"                             json:"drawing_id"`
	WishID       string    `gorm:"type:uuid;not null"                             json:"wish_id"`
	Reason       string    `gorm:"type:varchar(30);not null"                      json:"reason"` // no_capacity | user_limit_reached | invalid_wish
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Wish *Wish `gorm:"foreignKey:WishID;references:WishID" json:"wish,omitempty"`
}

// TableName 指定表名
func (UnmetWish) TableName() string { return "unmet_wishes" }

// Booking 预订表 — 对应 bookings
// 发布抽签时由分配结果物化，是用户最终可见的预订记录
type Booking struct {
	BookingID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	DrawingID   string    `gorm:"type:uuid;not null"                             json:"drawing_id"`
	UserID      string    `gorm:"type:uuid;not null"                             json:"user_id"`
	ApartmentID string    `gorm:"type:uuid;not null"                             json:"apartment_id"`
	PeriodID    string    `gorm:"type:uuid;not null"                             json:"period_id"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy   *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`

	// 关联
	Apartment *Apartment `gorm:"foreignKey:ApartmentID;references:ApartmentID" json:"apartment,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }
