package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.Version == 0 {
		user.Version = 1
	}
	user.CreatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	user.Version++
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int, keyword string) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if keyword != "" && !strings.Contains(u.Name, keyword) && !strings.Contains(u.Email, keyword) {
			continue
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) BatchCreate(ctx context.Context, users []model.User) error {
	for i := range users {
		if err := m.Create(ctx, &users[i]); err != nil {
			return err
		}
	}
	return nil
}

// ── Mock ApartmentRepository ──

type mockApartmentRepo struct {
	apartments map[string]*model.Apartment
	seq        int
}

func newMockApartmentRepo() *mockApartmentRepo {
	return &mockApartmentRepo{apartments: make(map[string]*model.Apartment)}
}

func (m *mockApartmentRepo) Create(_ context.Context, apartment *model.Apartment) error {
	if apartment.ApartmentID == "" {
		m.seq++
		apartment.ApartmentID = fmt.Sprintf("apt-%d", m.seq)
	}
	if apartment.Version == 0 {
		apartment.Version = 1
	}
	m.apartments[apartment.ApartmentID] = apartment
	return nil
}

func (m *mockApartmentRepo) GetByID(_ context.Context, id string) (*model.Apartment, error) {
	if a, ok := m.apartments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApartmentRepo) List(_ context.Context, activeOnly bool) ([]model.Apartment, error) {
	var result []model.Apartment
	for _, a := range m.apartments {
		if activeOnly && !a.IsActive {
			continue
		}
		result = append(result, *a)
	}
	return result, nil
}

func (m *mockApartmentRepo) Update(_ context.Context, apartment *model.Apartment) error {
	apartment.Version++
	m.apartments[apartment.ApartmentID] = apartment
	return nil
}

func (m *mockApartmentRepo) Delete(_ context.Context, id string) error {
	delete(m.apartments, id)
	return nil
}

// ── Mock DrawingRepository ──

type mockDrawingRepo struct {
	drawings   map[string]*model.Drawing
	changeLogs []model.DrawingChangeLog
	seq        int
}

func newMockDrawingRepo() *mockDrawingRepo {
	return &mockDrawingRepo{drawings: make(map[string]*model.Drawing)}
}

func (m *mockDrawingRepo) Create(_ context.Context, drawing *model.Drawing) error {
	if drawing.DrawingID == "" {
		m.seq++
		drawing.DrawingID = fmt.Sprintf("drawing-%d", m.seq)
	}
	if drawing.Version == 0 {
		drawing.Version = 1
	}
	m.drawings[drawing.DrawingID] = drawing
	return nil
}

func (m *mockDrawingRepo) GetByID(_ context.Context, id string) (*model.Drawing, error) {
	if d, ok := m.drawings[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDrawingRepo) List(_ context.Context, offset, limit int, status string) ([]model.Drawing, int64, error) {
	var all []model.Drawing
	for _, d := range m.drawings {
		if status != "" && d.Status != status {
			continue
		}
		all = append(all, *d)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockDrawingRepo) Update(_ context.Context, drawing *model.Drawing) error {
	drawing.Version++
	m.drawings[drawing.DrawingID] = drawing
	return nil
}

func (m *mockDrawingRepo) Delete(_ context.Context, id string) error {
	delete(m.drawings, id)
	return nil
}

func (m *mockDrawingRepo) CreateChangeLog(_ context.Context, log *model.DrawingChangeLog) error {
	log.ChangeLogID = fmt.Sprintf("log-%d", len(m.changeLogs)+1)
	m.changeLogs = append(m.changeLogs, *log)
	return nil
}

func (m *mockDrawingRepo) ListChangeLogs(_ context.Context, drawingID string) ([]model.DrawingChangeLog, error) {
	var result []model.DrawingChangeLog
	for _, l := range m.changeLogs {
		if l.DrawingID == drawingID {
			result = append(result, l)
		}
	}
	return result, nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	periods map[string]*model.Period
	seq     int
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{periods: make(map[string]*model.Period)}
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.Period) error {
	if period.PeriodID == "" {
		m.seq++
		period.PeriodID = fmt.Sprintf("period-%d", m.seq)
	}
	if period.Version == 0 {
		period.Version = 1
	}
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) BatchCreate(ctx context.Context, periods []model.Period) error {
	for i := range periods {
		if err := m.Create(ctx, &periods[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.Period, error) {
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) ListByDrawing(_ context.Context, drawingID string) ([]model.Period, error) {
	var result []model.Period
	for _, p := range m.periods {
		if p.DrawingID == drawingID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.Period) error {
	period.Version++
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string) error {
	delete(m.periods, id)
	return nil
}

func (m *mockPeriodRepo) CountByDrawing(ctx context.Context, drawingID string) (int64, error) {
	ps, _ := m.ListByDrawing(ctx, drawingID)
	return int64(len(ps)), nil
}

// ── Mock WishRepository ──

type mockWishRepo struct {
	wishes []*model.Wish
	seq    int
}

func newMockWishRepo() *mockWishRepo {
	return &mockWishRepo{}
}

func (m *mockWishRepo) Create(_ context.Context, wish *model.Wish) error {
	if wish.WishID == "" {
		m.seq++
		wish.WishID = fmt.Sprintf("wish-%d", m.seq)
	}
	if wish.Version == 0 {
		wish.Version = 1
	}
	m.wishes = append(m.wishes, wish)
	return nil
}

func (m *mockWishRepo) GetByID(_ context.Context, id string) (*model.Wish, error) {
	for _, w := range m.wishes {
		if w.WishID == id {
			return w, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWishRepo) ListByDrawing(_ context.Context, drawingID string) ([]model.Wish, error) {
	var result []model.Wish
	for _, w := range m.wishes {
		if w.DrawingID == drawingID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockWishRepo) ListByUserAndDrawing(_ context.Context, userID, drawingID string) ([]model.Wish, error) {
	var result []model.Wish
	for _, w := range m.wishes {
		if w.UserID == userID && w.DrawingID == drawingID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockWishRepo) ListByUserAndPeriod(_ context.Context, userID, periodID string) ([]model.Wish, error) {
	var result []model.Wish
	for _, w := range m.wishes {
		if w.UserID == userID && w.PeriodID == periodID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockWishRepo) Update(_ context.Context, wish *model.Wish) error {
	for i, w := range m.wishes {
		if w.WishID == wish.WishID {
			wish.Version++
			m.wishes[i] = wish
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockWishRepo) Delete(_ context.Context, id string) error {
	for i, w := range m.wishes {
		if w.WishID == id {
			m.wishes = append(m.wishes[:i], m.wishes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockWishRepo) CountByDrawing(ctx context.Context, drawingID string) (int64, error) {
	ws, _ := m.ListByDrawing(ctx, drawingID)
	return int64(len(ws)), nil
}

// ── Mock AllocationRepository ──

type mockAllocationRepo struct {
	records     map[string]*model.DrawRecord // drawingID → 最新记录
	allocations map[string][]model.Allocation
	unmet       map[string][]model.UnmetWish
	seq         int
}

func newMockAllocationRepo() *mockAllocationRepo {
	return &mockAllocationRepo{
		records:     make(map[string]*model.DrawRecord),
		allocations: make(map[string][]model.Allocation),
		unmet:       make(map[string][]model.UnmetWish),
	}
}

func (m *mockAllocationRepo) ReplaceDrawResult(_ context.Context, record *model.DrawRecord, allocations []model.Allocation, unmet []model.UnmetWish) error {
	m.seq++
	record.DrawRecordID = fmt.Sprintf("record-%d", m.seq)
	record.CreatedAt = time.Now()

	// 整体替换旧结果
	if old, ok := m.records[record.DrawingID]; ok {
		delete(m.allocations, old.DrawRecordID)
		delete(m.unmet, old.DrawRecordID)
	}
	m.records[record.DrawingID] = record

	for i := range allocations {
		allocations[i].AllocationID = fmt.Sprintf("alloc-%d-%d", m.seq, i)
		allocations[i].DrawRecordID = record.DrawRecordID
	}
	m.allocations[record.DrawRecordID] = allocations
	for i := range unmet {
		unmet[i].DrawRecordID = record.DrawRecordID
	}
	m.unmet[record.DrawRecordID] = unmet
	return nil
}

func (m *mockAllocationRepo) GetLatestRecord(_ context.Context, drawingID string) (*model.DrawRecord, error) {
	if r, ok := m.records[drawingID]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllocationRepo) ListRecords(_ context.Context, drawingID string) ([]model.DrawRecord, error) {
	if r, ok := m.records[drawingID]; ok {
		return []model.DrawRecord{*r}, nil
	}
	return nil, nil
}

func (m *mockAllocationRepo) ListAllocations(_ context.Context, drawRecordID string) ([]model.Allocation, error) {
	return m.allocations[drawRecordID], nil
}

func (m *mockAllocationRepo) ListUnmet(_ context.Context, drawRecordID string) ([]model.UnmetWish, error) {
	return m.unmet[drawRecordID], nil
}

func (m *mockAllocationRepo) ListAllocationsByUser(_ context.Context, drawRecordID, userID string) ([]model.Allocation, error) {
	var result []model.Allocation
	for _, a := range m.allocations[drawRecordID] {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAllocationRepo) CountByApartment(_ context.Context, apartmentID string) (int64, error) {
	var count int64
	for _, allocations := range m.allocations {
		for _, a := range allocations {
			if a.ApartmentID == apartmentID {
				count++
			}
		}
	}
	return count, nil
}

func (m *mockAllocationRepo) DeleteByDrawing(_ context.Context, drawingID string) error {
	if old, ok := m.records[drawingID]; ok {
		delete(m.allocations, old.DrawRecordID)
		delete(m.unmet, old.DrawRecordID)
		delete(m.records, drawingID)
	}
	return nil
}

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	bookings map[string][]model.Booking // drawingID → bookings
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{bookings: make(map[string][]model.Booking)}
}

func (m *mockBookingRepo) ReplaceForDrawing(_ context.Context, drawingID string, bookings []model.Booking) error {
	for i := range bookings {
		bookings[i].BookingID = fmt.Sprintf("booking-%s-%d", drawingID, i)
	}
	m.bookings[drawingID] = bookings
	return nil
}

func (m *mockBookingRepo) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	var result []model.Booking
	for _, bs := range m.bookings {
		for _, b := range bs {
			if b.UserID == userID {
				result = append(result, b)
			}
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListByDrawing(_ context.Context, drawingID string) ([]model.Booking, error) {
	return m.bookings[drawingID], nil
}

func (m *mockBookingRepo) DeleteByDrawing(_ context.Context, drawingID string) error {
	delete(m.bookings, drawingID)
	return nil
}

// ── Mock SystemConfigRepository ──

type mockSystemConfigRepo struct {
	cfg *model.SystemConfig
}

func newMockSystemConfigRepo() *mockSystemConfigRepo {
	return &mockSystemConfigRepo{
		cfg: &model.SystemConfig{
			ID:                    1,
			MaxAllocationsPerUser: 2,
			DuplicateWishPolicy:   model.DuplicatePolicyLowestOnly,
			StrictValidation:      false,
			UpdatedAt:             time.Now(),
		},
	}
}

func (m *mockSystemConfigRepo) Get(_ context.Context) (*model.SystemConfig, error) {
	if m.cfg == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.cfg, nil
}

func (m *mockSystemConfigRepo) Update(_ context.Context, cfg *model.SystemConfig) error {
	m.cfg = cfg
	return nil
}

// ── 测试用聚合 ──

func newMockRepository() *repository.Repository {
	return &repository.Repository{
		User:         newMockUserRepo(),
		Apartment:    newMockApartmentRepo(),
		Drawing:      newMockDrawingRepo(),
		Period:       newMockPeriodRepo(),
		Wish:         newMockWishRepo(),
		Allocation:   newMockAllocationRepo(),
		Booking:      newMockBookingRepo(),
		SystemConfig: newMockSystemConfigRepo(),
	}
}
