package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

// ── 抽签模块业务错误 ──

var (
	ErrDrawingNotFound   = errors.New("抽签不存在")
	ErrDrawingNotDraft   = errors.New("仅 draft 状态的抽签可以修改")
	ErrInvalidTransition = errors.New("非法的状态流转")
	ErrDrawingNoResult   = errors.New("该抽签尚无抽签结果")
)

// 状态机：draft → open → locked → drawn → published
// open/locked/drawn 可回退至 draft。
var drawingTransitions = map[string]map[string]string{
	model.DrawingStatusDraft:  {model.DrawingStatusOpen: "open"},
	model.DrawingStatusOpen:   {model.DrawingStatusLocked: "lock", model.DrawingStatusDraft: "revert"},
	model.DrawingStatusLocked: {model.DrawingStatusDraft: "revert"},
	model.DrawingStatusDrawn:  {model.DrawingStatusPublished: "publish", model.DrawingStatusDraft: "revert"},
}

// DrawingService 抽签生命周期业务接口
type DrawingService interface {
	Create(ctx context.Context, req *dto.CreateDrawingRequest, callerID string) (*dto.DrawingResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DrawingResponse, error)
	List(ctx context.Context, query *dto.ListDrawingsQuery) ([]dto.DrawingResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateDrawingRequest, callerID string) (*dto.DrawingResponse, error)
	Delete(ctx context.Context, id string) error
	Open(ctx context.Context, id string, callerID string) (*dto.DrawingResponse, error)
	Lock(ctx context.Context, id string, callerID string) (*dto.DrawingResponse, error)
	Publish(ctx context.Context, id string, callerID string) (*dto.DrawingResponse, error)
	RevertToDraft(ctx context.Context, id string, reason string, callerID string) (*dto.DrawingResponse, error)
	ListChangeLogs(ctx context.Context, id string) ([]dto.ChangeLogResponse, error)
}

type drawingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDrawingService 创建 DrawingService 实例
func NewDrawingService(repo *repository.Repository, logger *zap.Logger) DrawingService {
	return &drawingService{repo: repo, logger: logger}
}

// ────────────────────── CRUD ──────────────────────

func (s *drawingService) Create(ctx context.Context, req *dto.CreateDrawingRequest, callerID string) (*dto.DrawingResponse, error) {
	drawing := &model.Drawing{
		Season: req.Season,
		Status: model.DrawingStatusDraft,
		VersionedModel: model.VersionedModel{
			BaseModel: model.BaseModel{CreatedBy: &callerID},
		},
	}
	if err := s.repo.Drawing.Create(ctx, drawing); err != nil {
		s.logger.Error("创建抽签失败", zap.Error(err))
		return nil, err
	}
	resp := drawingToResponse(drawing)
	return &resp, nil
}

func (s *drawingService) GetByID(ctx context.Context, id string) (*dto.DrawingResponse, error) {
	drawing, err := s.getDrawing(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := drawingToResponse(drawing)
	return &resp, nil
}

func (s *drawingService) List(ctx context.Context, query *dto.ListDrawingsQuery) ([]dto.DrawingResponse, int64, error) {
	offset := (query.Page - 1) * query.PageSize
	drawings, total, err := s.repo.Drawing.List(ctx, offset, query.PageSize, query.Status)
	if err != nil {
		s.logger.Error("列出抽签失败", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.DrawingResponse, 0, len(drawings))
	for i := range drawings {
		result = append(result, drawingToResponse(&drawings[i]))
	}
	return result, total, nil
}

func (s *drawingService) Update(ctx context.Context, id string, req *dto.UpdateDrawingRequest, callerID string) (*dto.DrawingResponse, error) {
	drawing, err := s.getDrawing(ctx, id)
	if err != nil {
		return nil, err
	}
	if drawing.Status != model.DrawingStatusDraft {
		return nil, ErrDrawingNotDraft
	}

	if req.Season != nil {
		drawing.Season = *req.Season
	}
	drawing.UpdatedBy = &callerID

	if err := s.repo.Drawing.Update(ctx, drawing); err != nil {
		s.logger.Error("更新抽签失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := drawingToResponse(drawing)
	return &resp, nil
}

func (s *drawingService) Delete(ctx context.Context, id string) error {
	drawing, err := s.getDrawing(ctx, id)
	if err != nil {
		return err
	}
	if drawing.Status != model.DrawingStatusDraft {
		return ErrDrawingNotDraft
	}
	return s.repo.Drawing.Delete(ctx, id)
}

// ────────────────────── 状态流转 ──────────────────────

func (s *drawingService) Open(ctx context.Context, id string, callerID string) (*dto.DrawingResponse, error) {
	return s.transition(ctx, id, model.DrawingStatusOpen, "", callerID)
}

func (s *drawingService) Lock(ctx context.Context, id string, callerID string) (*dto.DrawingResponse, error) {
	return s.transition(ctx, id, model.DrawingStatusLocked, "", callerID)
}

// Publish 发布抽签：结果对用户可见，并物化为预订记录
func (s *drawingService) Publish(ctx context.Context, id string, callerID string) (*dto.DrawingResponse, error) {
	drawing, err := s.getDrawing(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := drawingTransitions[drawing.Status][model.DrawingStatusPublished]; !ok {
		return nil, fmt.Errorf("%w: %s 不能流转到 %s", ErrInvalidTransition, drawing.Status, model.DrawingStatusPublished)
	}

	if err := s.materializeBookings(ctx, drawing, callerID); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, model.DrawingStatusPublished, "", callerID)
}

// RevertToDraft 回退到 draft：丢弃已有分配结果与预订
func (s *drawingService) RevertToDraft(ctx context.Context, id string, reason string, callerID string) (*dto.DrawingResponse, error) {
	drawing, err := s.getDrawing(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, ok := drawingTransitions[drawing.Status][model.DrawingStatusDraft]; !ok {
		return nil, fmt.Errorf("%w: %s 不能流转到 %s", ErrInvalidTransition, drawing.Status, model.DrawingStatusDraft)
	}

	if err := s.repo.Allocation.DeleteByDrawing(ctx, id); err != nil {
		s.logger.Error("清除抽签结果失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if err := s.repo.Booking.DeleteByDrawing(ctx, id); err != nil {
		s.logger.Error("清除预订失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.transition(ctx, id, model.DrawingStatusDraft, reason, callerID)
}

func (s *drawingService) ListChangeLogs(ctx context.Context, id string) ([]dto.ChangeLogResponse, error) {
	if _, err := s.getDrawing(ctx, id); err != nil {
		return nil, err
	}
	logs, err := s.repo.Drawing.ListChangeLogs(ctx, id)
	if err != nil {
		s.logger.Error("查询变更日志失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	result := make([]dto.ChangeLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, dto.ChangeLogResponse{
			ID:         l.ChangeLogID,
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			Action:     l.Action,
			Reason:     l.Reason,
			OperatorID: l.OperatorID,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// ────────────────────── 内部辅助 ──────────────────────

func (s *drawingService) getDrawing(ctx context.Context, id string) (*model.Drawing, error) {
	drawing, err := s.repo.Drawing.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDrawingNotFound
		}
		s.logger.Error("查询抽签失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return drawing, nil
}

// transition 执行状态流转并写入变更日志
func (s *drawingService) transition(ctx context.Context, id, toStatus, reason, callerID string) (*dto.DrawingResponse, error) {
	drawing, err := s.getDrawing(ctx, id)
	if err != nil {
		return nil, err
	}

	action, ok := drawingTransitions[drawing.Status][toStatus]
	if !ok {
		return nil, fmt.Errorf("%w: %s 不能流转到 %s", ErrInvalidTransition, drawing.Status, toStatus)
	}

	fromStatus := drawing.Status
	drawing.Status = toStatus
	drawing.UpdatedBy = &callerID
	if err := s.repo.Drawing.Update(ctx, drawing); err != nil {
		s.logger.Error("状态流转失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.repo.Drawing.CreateChangeLog(ctx, &model.DrawingChangeLog{
		DrawingID:  id,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		Action:     action,
		Reason:     reason,
		OperatorID: callerID,
	}); err != nil {
		// 日志写入失败不回滚流转本身
		s.logger.Warn("写入变更日志失败", zap.String("id", id), zap.Error(err))
	}

	s.logger.Info("抽签状态流转",
		zap.String("drawing_id", id),
		zap.String("from", fromStatus),
		zap.String("to", toStatus),
		zap.String("operator", callerID))

	resp := drawingToResponse(drawing)
	return &resp, nil
}

// materializeBookings 将最新抽签结果物化为预订记录
func (s *drawingService) materializeBookings(ctx context.Context, drawing *model.Drawing, callerID string) error {
	record, err := s.repo.Allocation.GetLatestRecord(ctx, drawing.DrawingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDrawingNoResult
		}
		s.logger.Error("查询抽签记录失败", zap.Error(err))
		return err
	}
	allocations, err := s.repo.Allocation.ListAllocations(ctx, record.DrawRecordID)
	if err != nil {
		s.logger.Error("查询分配失败", zap.Error(err))
		return err
	}

	periods := make(map[string]model.Period, len(drawing.Periods))
	for _, p := range drawing.Periods {
		periods[p.PeriodID] = p
	}

	bookings := make([]model.Booking, 0, len(allocations))
	for _, a := range allocations {
		period, ok := periods[a.PeriodID]
		if !ok {
			return fmt.Errorf("分配引用的期间不存在: %s", a.PeriodID)
		}
		bookings = append(bookings, model.Booking{
			DrawingID:   drawing.DrawingID,
			UserID:      a.UserID,
			ApartmentID: a.ApartmentID,
			PeriodID:    a.PeriodID,
			StartDate:   period.StartDate,
			EndDate:     period.EndDate,
			CreatedBy:   &callerID,
		})
	}
	return s.repo.Booking.ReplaceForDrawing(ctx, drawing.DrawingID, bookings)
}

// drawingToResponse 模型转响应
func drawingToResponse(d *model.Drawing) dto.DrawingResponse {
	periods := make([]dto.PeriodResponse, 0, len(d.Periods))
	for i := range d.Periods {
		periods = append(periods, periodToResponse(&d.Periods[i]))
	}
	return dto.DrawingResponse{
		ID:        d.DrawingID,
		Season:    d.Season,
		Status:    d.Status,
		Periods:   periods,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.Format(time.RFC3339),
	}
}
