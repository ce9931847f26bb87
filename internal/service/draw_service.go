package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabin-lottery/backend/internal/draw"
	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

// ── 抽签执行模块业务错误 ──

var (
	ErrDrawingNotDrawable = errors.New("仅 locked 或 drawn 状态的抽签可以执行抽签")
	ErrDrawInputEmpty     = errors.New("抽签输入为空：该抽签没有期间或没有启用的公寓")
	ErrDrawBlocked        = errors.New("愿望数据存在阻断性问题，已启用严格校验，请先修正")
	ErrDrawSeedInvalid    = errors.New("随机种子无效")
)

// DrawService 抽签执行业务接口
//
// 设计说明：
//   - 抽签引擎（internal/draw）是纯函数：输入索引 + 种子 → 结果，
//     本服务负责模型转换、策略装配与结果持久化
//   - 重抽允许在 drawn 状态反复执行，结果整体替换并记入变更日志
//   - 持久化种子使任何一次抽签可被完整回放验证（VerifyDraw）
type DrawService interface {
	Validate(ctx context.Context, drawingID string) ([]dto.ValidationIssueResponse, error)
	RunDraw(ctx context.Context, drawingID string, req *dto.RunDrawRequest, callerID string) (*dto.DrawResultResponse, error)
	GetResult(ctx context.Context, drawingID string) (*dto.DrawResultResponse, error)
	GetMyResult(ctx context.Context, drawingID, userID string) ([]dto.AllocationResponse, error)
	VerifyDraw(ctx context.Context, drawingID string, req *dto.VerifyDrawRequest) (*dto.VerifyDrawResponse, error)
}

type drawService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDrawService 创建 DrawService 实例
func NewDrawService(repo *repository.Repository, logger *zap.Logger) DrawService {
	return &drawService{repo: repo, logger: logger}
}

// ────────────────────── Validate ──────────────────────

// Validate 对抽签的愿望数据做一致性预检，返回全部问题
func (s *drawService) Validate(ctx context.Context, drawingID string) ([]dto.ValidationIssueResponse, error) {
	input, err := s.loadDrawInput(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	idx := draw.BuildIndex(input.periods, input.apartments, input.wishes)

	issues := idx.Issues()
	result := make([]dto.ValidationIssueResponse, 0, len(issues))
	for _, is := range issues {
		result = append(result, dto.ValidationIssueResponse{
			WishID:  is.WishID,
			Code:    is.Code,
			Message: is.Message,
		})
	}
	return result, nil
}

// ────────────────────── RunDraw ──────────────────────

func (s *drawService) RunDraw(ctx context.Context, drawingID string, req *dto.RunDrawRequest, callerID string) (*dto.DrawResultResponse, error) {
	drawing, err := s.repo.Drawing.GetByID(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		s.logger.Error("查询抽签失败", zap.String("id", drawingID), zap.Error(err))
		return nil, err
	}
	if drawing.Status != model.DrawingStatusLocked && drawing.Status != model.DrawingStatusDrawn {
		return nil, ErrDrawingNotDrawable
	}

	input, err := s.loadDrawInput(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	idx := draw.BuildIndex(input.periods, input.apartments, input.wishes)

	// 策略装配
	sysCfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		s.logger.Error("读取抽签策略配置失败", zap.Error(err))
		return nil, err
	}
	if sysCfg.StrictValidation && idx.HasBlockingIssues() {
		return nil, ErrDrawBlocked
	}

	src, seed, err := draw.NewSource(req.Seed)
	if err != nil {
		if errors.Is(err, draw.ErrInvalidSeed) {
			return nil, ErrDrawSeedInvalid
		}
		return nil, err
	}

	result, err := draw.Plan(idx, draw.Config{
		MaxAllocationsPerUser: sysCfg.MaxAllocationsPerUser,
		DuplicatePolicy:       sysCfg.DuplicateWishPolicy,
	}, src)
	if err != nil {
		if errors.Is(err, draw.ErrEmptyInput) {
			return nil, ErrDrawInputEmpty
		}
		s.logger.Error("执行抽签失败", zap.Error(err))
		return nil, err
	}

	// 结果整体替换持久化
	record := &model.DrawRecord{
		DrawingID:      drawingID,
		Seed:           seed,
		PeriodCount:    result.Summary.PeriodCount,
		WishCount:      result.Summary.WishCount,
		AllocatedCount: result.Summary.AllocatedCount,
		UnmetCount:     result.Summary.UnmetCount,
		DrawnBy:        &callerID,
	}
	allocations := make([]model.Allocation, 0, len(result.Allocations))
	for _, a := range result.Allocations {
		allocations = append(allocations, model.Allocation{
			DrawingID:     drawingID,
			UserID:        a.UserID,
			PeriodID:      a.PeriodID,
			ApartmentID:   a.ApartmentID,
			WishID:        a.WishID,
			ApartmentRank: a.ApartmentRank,
		})
	}
	unmet := make([]model.UnmetWish, 0, len(result.Unmet))
	for _, u := range result.Unmet {
		unmet = append(unmet, model.UnmetWish{
			DrawingID: drawingID,
			WishID:    u.WishID,
			Reason:    u.Reason,
		})
	}
	if err := s.repo.Allocation.ReplaceDrawResult(ctx, record, allocations, unmet); err != nil {
		s.logger.Error("持久化抽签结果失败", zap.Error(err))
		return nil, err
	}

	// 状态流转与审计
	action := "redraw"
	fromStatus := drawing.Status
	if drawing.Status == model.DrawingStatusLocked {
		action = "draw"
		drawing.Status = model.DrawingStatusDrawn
		drawing.UpdatedBy = &callerID
		if err := s.repo.Drawing.Update(ctx, drawing); err != nil {
			s.logger.Error("更新抽签状态失败", zap.Error(err))
			return nil, err
		}
	}
	if err := s.repo.Drawing.CreateChangeLog(ctx, &model.DrawingChangeLog{
		DrawingID:  drawingID,
		FromStatus: fromStatus,
		ToStatus:   model.DrawingStatusDrawn,
		Action:     action,
		OperatorID: callerID,
	}); err != nil {
		s.logger.Warn("写入变更日志失败", zap.Error(err))
	}

	s.logger.Info("抽签完成",
		zap.String("drawing_id", drawingID),
		zap.Int64("seed", seed),
		zap.String("action", action),
		zap.Int("allocated", result.Summary.AllocatedCount),
		zap.Int("unmet", result.Summary.UnmetCount))

	return s.GetResult(ctx, drawingID)
}

// ────────────────────── GetResult ──────────────────────

func (s *drawService) GetResult(ctx context.Context, drawingID string) (*dto.DrawResultResponse, error) {
	record, err := s.repo.Allocation.GetLatestRecord(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNoResult
		}
		s.logger.Error("查询抽签记录失败", zap.Error(err))
		return nil, err
	}

	allocations, err := s.repo.Allocation.ListAllocations(ctx, record.DrawRecordID)
	if err != nil {
		s.logger.Error("查询分配失败", zap.Error(err))
		return nil, err
	}
	unmet, err := s.repo.Allocation.ListUnmet(ctx, record.DrawRecordID)
	if err != nil {
		s.logger.Error("查询未满足愿望失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.DrawResultResponse{
		DrawRecordID:   record.DrawRecordID,
		DrawingID:      record.DrawingID,
		Seed:           record.Seed,
		PeriodCount:    record.PeriodCount,
		WishCount:      record.WishCount,
		AllocatedCount: record.AllocatedCount,
		UnmetCount:     record.UnmetCount,
		Allocations:    make([]dto.AllocationResponse, 0, len(allocations)),
		Unmet:          make([]dto.UnmetWishResponse, 0, len(unmet)),
		DrawnAt:        record.CreatedAt.Format(time.RFC3339),
	}
	for i := range allocations {
		resp.Allocations = append(resp.Allocations, allocationToResponse(&allocations[i]))
	}
	for _, u := range unmet {
		resp.Unmet = append(resp.Unmet, dto.UnmetWishResponse{WishID: u.WishID, Reason: u.Reason})
	}
	return resp, nil
}

// GetMyResult 返回当前用户在最新抽签结果中的分配
func (s *drawService) GetMyResult(ctx context.Context, drawingID, userID string) ([]dto.AllocationResponse, error) {
	record, err := s.repo.Allocation.GetLatestRecord(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNoResult
		}
		return nil, err
	}
	allocations, err := s.repo.Allocation.ListAllocationsByUser(ctx, record.DrawRecordID, userID)
	if err != nil {
		s.logger.Error("查询用户分配失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AllocationResponse, 0, len(allocations))
	for i := range allocations {
		result = append(result, allocationToResponse(&allocations[i]))
	}
	return result, nil
}

// ────────────────────── VerifyDraw ──────────────────────

// VerifyDraw 用持久化种子回放抽签并与存储结果逐条比对
func (s *drawService) VerifyDraw(ctx context.Context, drawingID string, req *dto.VerifyDrawRequest) (*dto.VerifyDrawResponse, error) {
	record, err := s.repo.Allocation.GetLatestRecord(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNoResult
		}
		return nil, err
	}

	seed := record.Seed
	if req != nil && req.Seed != nil {
		seed = *req.Seed
	}

	input, err := s.loadDrawInput(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	idx := draw.BuildIndex(input.periods, input.apartments, input.wishes)

	sysCfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		return nil, err
	}

	src, _, err := draw.NewSource(&seed)
	if err != nil {
		return nil, ErrDrawSeedInvalid
	}
	replayed, err := draw.Plan(idx, draw.Config{
		MaxAllocationsPerUser: sysCfg.MaxAllocationsPerUser,
		DuplicatePolicy:       sysCfg.DuplicateWishPolicy,
	}, src)
	if err != nil {
		if errors.Is(err, draw.ErrEmptyInput) {
			return nil, ErrDrawInputEmpty
		}
		return nil, err
	}

	stored, err := s.loadStoredResult(ctx, record)
	if err != nil {
		return nil, err
	}

	return &dto.VerifyDrawResponse{
		Seed:  seed,
		Match: replayed.Equal(stored),
	}, nil
}

// ────────────────────── 内部辅助 ──────────────────────

type drawInput struct {
	periods    []draw.Period
	apartments []draw.Apartment
	wishes     []draw.Wish
}

// loadDrawInput 从存储加载并转换为引擎输入
func (s *drawService) loadDrawInput(ctx context.Context, drawingID string) (*drawInput, error) {
	if _, err := s.repo.Drawing.GetByID(ctx, drawingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, err
	}

	periods, err := s.repo.Period.ListByDrawing(ctx, drawingID)
	if err != nil {
		s.logger.Error("加载期间失败", zap.Error(err))
		return nil, err
	}
	apartments, err := s.repo.Apartment.List(ctx, true)
	if err != nil {
		s.logger.Error("加载公寓失败", zap.Error(err))
		return nil, err
	}
	wishes, err := s.repo.Wish.ListByDrawing(ctx, drawingID)
	if err != nil {
		s.logger.Error("加载愿望失败", zap.Error(err))
		return nil, err
	}

	input := &drawInput{
		periods:    make([]draw.Period, 0, len(periods)),
		apartments: make([]draw.Apartment, 0, len(apartments)),
		wishes:     make([]draw.Wish, 0, len(wishes)),
	}
	for _, p := range periods {
		input.periods = append(input.periods, draw.Period{ID: p.PeriodID, SortOrder: p.SortOrder})
	}
	for _, a := range apartments {
		input.apartments = append(input.apartments, draw.Apartment{ID: a.ApartmentID})
	}
	for _, w := range wishes {
		input.wishes = append(input.wishes, draw.Wish{
			ID:           w.WishID,
			UserID:       w.UserID,
			PeriodID:     w.PeriodID,
			Priority:     w.Priority,
			ApartmentIDs: []string(w.ApartmentIDs),
		})
	}
	return input, nil
}

// loadStoredResult 将持久化结果还原为引擎结果用于比对
func (s *drawService) loadStoredResult(ctx context.Context, record *model.DrawRecord) (*draw.Result, error) {
	allocations, err := s.repo.Allocation.ListAllocations(ctx, record.DrawRecordID)
	if err != nil {
		return nil, err
	}
	unmet, err := s.repo.Allocation.ListUnmet(ctx, record.DrawRecordID)
	if err != nil {
		return nil, err
	}

	result := &draw.Result{
		Seed:        record.Seed,
		Allocations: make([]draw.Allocation, 0, len(allocations)),
		Unmet:       make([]draw.UnmetWish, 0, len(unmet)),
		Summary: draw.Summary{
			PeriodCount:    record.PeriodCount,
			WishCount:      record.WishCount,
			AllocatedCount: record.AllocatedCount,
			UnmetCount:     record.UnmetCount,
		},
	}
	for _, a := range allocations {
		result.Allocations = append(result.Allocations, draw.Allocation{
			UserID:        a.UserID,
			PeriodID:      a.PeriodID,
			ApartmentID:   a.ApartmentID,
			WishID:        a.WishID,
			ApartmentRank: a.ApartmentRank,
		})
	}
	for _, u := range unmet {
		result.Unmet = append(result.Unmet, draw.UnmetWish{WishID: u.WishID, Reason: u.Reason})
	}
	return result, nil
}

// allocationToResponse 模型转响应
func allocationToResponse(a *model.Allocation) dto.AllocationResponse {
	resp := dto.AllocationResponse{
		ID:            a.AllocationID,
		UserID:        a.UserID,
		PeriodID:      a.PeriodID,
		ApartmentID:   a.ApartmentID,
		WishID:        a.WishID,
		ApartmentRank: a.ApartmentRank,
	}
	if a.User != nil {
		resp.UserName = a.User.Name
	}
	if a.Apartment != nil {
		resp.ApartmentName = a.Apartment.Name
	}
	return resp
}
