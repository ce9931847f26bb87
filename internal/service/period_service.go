package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

// ── 期间模块业务错误 ──

var (
	ErrPeriodNotFound    = errors.New("期间不存在")
	ErrPeriodDateInvalid = errors.New("期间日期无效：结束日期须晚于开始日期")
	ErrPeriodBadDate     = errors.New("日期格式错误，应为 YYYY-MM-DD")
)

// PeriodService 期间业务接口
// 期间只能在抽签处于 draft 状态时增删改。
type PeriodService interface {
	Create(ctx context.Context, drawingID string, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	BulkGenerate(ctx context.Context, drawingID string, req *dto.BulkGeneratePeriodsRequest, callerID string) ([]dto.PeriodResponse, error)
	ListByDrawing(ctx context.Context, drawingID string) ([]dto.PeriodResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest, callerID string) (*dto.PeriodResponse, error)
	Delete(ctx context.Context, id string) error
}

type periodService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPeriodService 创建 PeriodService 实例
func NewPeriodService(repo *repository.Repository, logger *zap.Logger) PeriodService {
	return &periodService{repo: repo, logger: logger}
}

func (s *periodService) Create(ctx context.Context, drawingID string, req *dto.CreatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	drawing, err := s.requireDraftDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	startDate, endDate, err := parsePeriodDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		count, err := s.repo.Period.CountByDrawing(ctx, drawing.DrawingID)
		if err != nil {
			return nil, err
		}
		sortOrder = int(count) + 1
	}

	period := &model.Period{
		DrawingID:   drawing.DrawingID,
		StartDate:   startDate,
		EndDate:     endDate,
		Description: req.Description,
		SortOrder:   sortOrder,
		Comment:     req.Comment,
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedBy: &callerID},
		},
	}
	if err := s.repo.Period.Create(ctx, period); err != nil {
		s.logger.Error("创建期间失败", zap.Error(err))
		return nil, err
	}
	resp := periodToResponse(period)
	return &resp, nil
}

// BulkGenerate 从首个起始日期连续生成多个等长期间
func (s *periodService) BulkGenerate(ctx context.Context, drawingID string, req *dto.BulkGeneratePeriodsRequest, callerID string) ([]dto.PeriodResponse, error) {
	drawing, err := s.requireDraftDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}

	firstStart, err := time.Parse("2006-01-02", req.FirstStart)
	if err != nil {
		return nil, ErrPeriodBadDate
	}

	count, err := s.repo.Period.CountByDrawing(ctx, drawing.DrawingID)
	if err != nil {
		return nil, err
	}

	periods := make([]model.Period, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		start := firstStart.AddDate(0, 0, i*req.Days)
		periods = append(periods, model.Period{
			DrawingID: drawing.DrawingID,
			StartDate: start,
			EndDate:   start.AddDate(0, 0, req.Days),
			SortOrder: int(count) + i + 1,
			VersionedModel: model.VersionedModel{
				BaseModel: model.BaseModel{CreatedBy: &callerID},
			},
		})
	}
	if err := s.repo.Period.BatchCreate(ctx, periods); err != nil {
		s.logger.Error("批量生成期间失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, periodToResponse(&periods[i]))
	}
	return result, nil
}

func (s *periodService) ListByDrawing(ctx context.Context, drawingID string) ([]dto.PeriodResponse, error) {
	if _, err := s.repo.Drawing.GetByID(ctx, drawingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		return nil, err
	}
	periods, err := s.repo.Period.ListByDrawing(ctx, drawingID)
	if err != nil {
		s.logger.Error("列出期间失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, periodToResponse(&periods[i]))
	}
	return result, nil
}

func (s *periodService) Update(ctx context.Context, id string, req *dto.UpdatePeriodRequest, callerID string) (*dto.PeriodResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询期间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if _, err := s.requireDraftDrawing(ctx, period.DrawingID); err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		t, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			return nil, ErrPeriodBadDate
		}
		period.StartDate = t
	}
	if req.EndDate != nil {
		t, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, ErrPeriodBadDate
		}
		period.EndDate = t
	}
	if !period.EndDate.After(period.StartDate) {
		return nil, ErrPeriodDateInvalid
	}
	if req.Description != nil {
		period.Description = *req.Description
	}
	if req.SortOrder != nil {
		period.SortOrder = *req.SortOrder
	}
	if req.Comment != nil {
		period.Comment = *req.Comment
	}
	period.UpdatedBy = &callerID

	if err := s.repo.Period.Update(ctx, period); err != nil {
		s.logger.Error("更新期间失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := periodToResponse(period)
	return &resp, nil
}

func (s *periodService) Delete(ctx context.Context, id string) error {
	period, err := s.repo.Period.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPeriodNotFound
		}
		s.logger.Error("查询期间失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if _, err := s.requireDraftDrawing(ctx, period.DrawingID); err != nil {
		return err
	}
	return s.repo.Period.Delete(ctx, id)
}

// requireDraftDrawing 校验抽签存在且为 draft 状态
func (s *periodService) requireDraftDrawing(ctx context.Context, drawingID string) (*model.Drawing, error) {
	drawing, err := s.repo.Drawing.GetByID(ctx, drawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		s.logger.Error("查询抽签失败", zap.String("id", drawingID), zap.Error(err))
		return nil, err
	}
	if drawing.Status != model.DrawingStatusDraft {
		return nil, ErrDrawingNotDraft
	}
	return drawing, nil
}

func parsePeriodDates(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrPeriodBadDate
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrPeriodBadDate
	}
	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, ErrPeriodDateInvalid
	}
	return startDate, endDate, nil
}

// periodToResponse 模型转响应
func periodToResponse(p *model.Period) dto.PeriodResponse {
	return dto.PeriodResponse{
		ID:          p.PeriodID,
		DrawingID:   p.DrawingID,
		StartDate:   p.StartDate.Format("2006-01-02"),
		EndDate:     p.EndDate.Format("2006-01-02"),
		Description: p.Description,
		SortOrder:   p.SortOrder,
		Comment:     p.Comment,
	}
}
