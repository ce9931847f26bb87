package dto

// ── 抽签模块 DTO ──

// CreateDrawingRequest 创建抽签请求
type CreateDrawingRequest struct {
	Season string `json:"season" binding:"required,min=2,max=100"`
}

// UpdateDrawingRequest 更新抽签请求（仅 draft 状态）
type UpdateDrawingRequest struct {
	Season *string `json:"season" binding:"omitempty,min=2,max=100"`
}

// TransitionDrawingRequest 状态流转请求
// 回退到 draft 时要求填写原因，写入变更日志。
type TransitionDrawingRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

// ListDrawingsQuery 抽签列表查询参数
type ListDrawingsQuery struct {
	Page     int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"               binding:"omitempty,oneof=draft open locked drawn published"`
}
