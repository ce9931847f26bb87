package model

import "time"

// ── 抽签状态机 ──
//
// draft → open → locked → drawn → published
// open/locked/drawn 可回退至 draft（丢弃已有分配结果）

const (
	DrawingStatusDraft     = "draft"
	DrawingStatusOpen      = "open"
	DrawingStatusLocked    = "locked"
	DrawingStatusDrawn     = "drawn"
	DrawingStatusPublished = "published"
)

// Drawing 抽签表 — 对应 drawings（聚合根，一季一轮）
type Drawing struct {
	DrawingID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"drawing_id"`
	Season    string `gorm:"type:varchar(100);not null"                     json:"season"`
	Status    string `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"`
	VersionedModel

	// 关联
	Periods []Period `gorm:"foreignKey:DrawingID" json:"periods,omitempty"`
}

// TableName 指定表名
func (Drawing) TableName() string { return "drawings" }

// Period 期间表 — 对应 periods（抽签内的竞争时段）
type Period struct {
	PeriodID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	DrawingID   string    `gorm:"type:uuid;not null"                             json:"drawing_id"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Description string    `gorm:"type:varchar(200)"                              json:"description,omitempty"`
	SortOrder   int       `gorm:"not null;default:0"                             json:"sort_order"`
	Comment     string    `gorm:"type:varchar(500)"                              json:"comment,omitempty"`
	VersionedModel
}

// TableName 指定表名
func (Period) TableName() string { return "periods" }

// DrawingChangeLog 抽签状态变更日志 — 对应 drawing_change_logs（纯审计）
type DrawingChangeLog struct {
	ChangeLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"change_log_id"`
	DrawingID   string    `gorm:"type:uuid;not null"                             json:"drawing_id"`
	FromStatus  string    `gorm:"type:varchar(20);not null"                      json:"from_status"`
	ToStatus    string    `gorm:"type:varchar(20);not null"                      json:"to_status"`
	Action      string    `gorm:"type:varchar(30);not null"                      json:"action"` // open | lock | draw | redraw | publish | revert
	Reason      string    `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	OperatorID  string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (DrawingChangeLog) TableName() string { return "drawing_change_logs" }
