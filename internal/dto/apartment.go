package dto

// ── 公寓模块 DTO ──

// CreateApartmentRequest 创建公寓请求
type CreateApartmentRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=100"`
	Location    string `json:"location"    binding:"omitempty,max=200"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// UpdateApartmentRequest 更新公寓请求
type UpdateApartmentRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}
