package dto

// ── 认证模块响应 ──

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"` // Access Token 有效期（秒）
	User         UserResponse `json:"user"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	MustChangePassword bool   `json:"must_change_password"`
	CreatedAt          string `json:"created_at"`
}

// ResetPasswordResponse 重置密码响应
type ResetPasswordResponse struct {
	TempPassword string `json:"temp_password"`
}

// ImportUsersResponse Excel 批量导入结果
type ImportUsersResponse struct {
	SuccessCount int      `json:"success_count"`
	FailedCount  int      `json:"failed_count"`
	Errors       []string `json:"errors,omitempty"` // 每行失败原因，如 "第3行: 邮箱已存在"
}

// ── 公寓模块响应 ──

// ApartmentResponse 公寓信息响应
type ApartmentResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// ── 抽签模块响应 ──

// DrawingResponse 抽签信息响应
type DrawingResponse struct {
	ID        string           `json:"id"`
	Season    string           `json:"season"`
	Status    string           `json:"status"`
	Periods   []PeriodResponse `json:"periods,omitempty"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// PeriodResponse 期间信息响应
type PeriodResponse struct {
	ID          string `json:"id"`
	DrawingID   string `json:"drawing_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
	Comment     string `json:"comment,omitempty"`
}

// ChangeLogResponse 抽签状态变更日志响应
type ChangeLogResponse struct {
	ID         string `json:"id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Action     string `json:"action"`
	Reason     string `json:"reason,omitempty"`
	OperatorID string `json:"operator_id"`
	CreatedAt  string `json:"created_at"`
}

// ── 愿望模块响应 ──

// WishResponse 愿望信息响应
type WishResponse struct {
	ID           string   `json:"id"`
	DrawingID    string   `json:"drawing_id"`
	UserID       string   `json:"user_id"`
	PeriodID     string   `json:"period_id"`
	Priority     int      `json:"priority"`
	ApartmentIDs []string `json:"apartment_ids"`
	Comment      string   `json:"comment,omitempty"`
	Warnings     []string `json:"warnings,omitempty"` // 如同期间重复愿望提示
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ── 抽签执行模块响应 ──

// AllocationResponse 单条分配响应
type AllocationResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name,omitempty"`
	PeriodID      string `json:"period_id"`
	ApartmentID   string `json:"apartment_id"`
	ApartmentName string `json:"apartment_name,omitempty"`
	WishID        string `json:"wish_id"`
	ApartmentRank int    `json:"apartment_rank"`
}

// UnmetWishResponse 未满足愿望响应
type UnmetWishResponse struct {
	WishID string `json:"wish_id"`
	Reason string `json:"reason"`
}

// DrawResultResponse 抽签结果响应
type DrawResultResponse struct {
	DrawRecordID   string               `json:"draw_record_id"`
	DrawingID      string               `json:"drawing_id"`
	Seed           int64                `json:"seed"`
	PeriodCount    int                  `json:"period_count"`
	WishCount      int                  `json:"wish_count"`
	AllocatedCount int                  `json:"allocated_count"`
	UnmetCount     int                  `json:"unmet_count"`
	Allocations    []AllocationResponse `json:"allocations"`
	Unmet          []UnmetWishResponse  `json:"unmet"`
	DrawnAt        string               `json:"drawn_at"`
}

// ValidationIssueResponse 抽签前校验问题响应
type ValidationIssueResponse struct {
	WishID  string `json:"wish_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VerifyDrawResponse 抽签回放验证响应
type VerifyDrawResponse struct {
	Seed  int64 `json:"seed"`
	Match bool  `json:"match"` // 回放结果与持久化结果是否一致
}

// ── 预订模块响应 ──

// BookingResponse 预订信息响应
type BookingResponse struct {
	ID            string `json:"id"`
	DrawingID     string `json:"drawing_id"`
	UserID        string `json:"user_id"`
	ApartmentID   string `json:"apartment_id"`
	ApartmentName string `json:"apartment_name,omitempty"`
	PeriodID      string `json:"period_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// ── 系统配置响应 ──

// SystemConfigResponse 抽签策略配置响应
type SystemConfigResponse struct {
	MaxAllocationsPerUser int    `json:"max_allocations_per_user"`
	DuplicateWishPolicy   string `json:"duplicate_wish_policy"`
	StrictValidation      bool   `json:"strict_validation"`
	UpdatedAt             string `json:"updated_at"`
}
