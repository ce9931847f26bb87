package dto

// ── 愿望模块 DTO ──

// CreateWishRequest 提交愿望请求
type CreateWishRequest struct {
	PeriodID     string   `json:"period_id"     binding:"required,uuid"`
	Priority     int      `json:"priority"      binding:"required,min=1"`
	ApartmentIDs []string `json:"apartment_ids" binding:"required,min=1,dive,uuid"`
	Comment      string   `json:"comment"       binding:"omitempty,max=500"`
}

// UpdateWishRequest 更新愿望请求
type UpdateWishRequest struct {
	PeriodID     *string  `json:"period_id"     binding:"omitempty,uuid"`
	Priority     *int     `json:"priority"      binding:"omitempty,min=1"`
	ApartmentIDs []string `json:"apartment_ids" binding:"omitempty,min=1,dive,uuid"`
	Comment      *string  `json:"comment"       binding:"omitempty,max=500"`
}
