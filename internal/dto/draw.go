package dto

// ── 抽签执行模块 DTO ──

// RunDrawRequest 执行抽签请求
// seed 省略时由系统熵生成；显式传入用于回放或重现历史抽签。
type RunDrawRequest struct {
	Seed *int64 `json:"seed" binding:"omitempty,min=0"`
}

// VerifyDrawRequest 抽签验证请求
// 省略 seed 时使用已持久化的种子回放。
type VerifyDrawRequest struct {
	Seed *int64 `json:"seed" binding:"omitempty,min=0"`
}

// UpdateSystemConfigRequest 抽签策略配置更新请求
type UpdateSystemConfigRequest struct {
	MaxAllocationsPerUser *int    `json:"max_allocations_per_user" binding:"omitempty,min=1,max=20"`
	DuplicateWishPolicy   *string `json:"duplicate_wish_policy"    binding:"omitempty,oneof=lowest_priority_only all_eligible"`
	StrictValidation      *bool   `json:"strict_validation"`
}
