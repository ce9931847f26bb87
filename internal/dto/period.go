package dto

// ── 期间模块 DTO ──

// CreatePeriodRequest 创建期间请求
type CreatePeriodRequest struct {
	StartDate   string `json:"start_date"  binding:"required"` // "2026-07-04"
	EndDate     string `json:"end_date"    binding:"required"` // "2026-07-11"
	Description string `json:"description" binding:"omitempty,max=200"`
	SortOrder   *int   `json:"sort_order"` // 省略时追加到末尾
	Comment     string `json:"comment"     binding:"omitempty,max=500"`
}

// UpdatePeriodRequest 更新期间请求
type UpdatePeriodRequest struct {
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	SortOrder   *int    `json:"sort_order"`
	Comment     *string `json:"comment"     binding:"omitempty,max=500"`
}

// BulkGeneratePeriodsRequest 按周批量生成期间请求
// 从 first_start 起连续生成 count 个时长 days 天的期间。
type BulkGeneratePeriodsRequest struct {
	FirstStart string `json:"first_start" binding:"required"` // 首个期间的起始日期
	Days       int    `json:"days"        binding:"required,min=1,max=31"`
	Count      int    `json:"count"       binding:"required,min=1,max=52"`
}
