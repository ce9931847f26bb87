package model

import "time"

// 重复愿望处理策略
const (
	DuplicatePolicyLowestOnly  = "lowest_priority_only" // 同期间重复愿望仅最低 priority 参与
	DuplicatePolicyAllEligible = "all_eligible"         // 全部参与
)

// SystemConfig 抽签策略配置表 — 对应 system_config（单行）
type SystemConfig struct {
	ID                    int       `gorm:"primaryKey;default:1"                                    json:"-"`
	MaxAllocationsPerUser int       `gorm:"not null;default:2"                                      json:"max_allocations_per_user"`
	DuplicateWishPolicy   string    `gorm:"type:varchar(30);not null;default:'lowest_priority_only'" json:"duplicate_wish_policy"`
	StrictValidation      bool      `gorm:"not null;default:false"                                  json:"strict_validation"`
	UpdatedAt             time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                      json:"updated_at"`
	UpdatedBy             *string   `gorm:"type:uuid"                                               json:"updated_by,omitempty"`
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }
