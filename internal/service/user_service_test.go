package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/repository"
)

func setupTestUserService() (UserService, *repository.Repository) {
	repo := newMockRepository()
	svc := NewUserService(repo, zap.NewNop())
	return svc, repo
}

func TestUserService_Create_Success(t *testing.T) {
	svc, _ := setupTestUserService()

	resp, err := svc.Create(context.Background(), &dto.CreateUserRequest{
		Name:     "Ola Nordmann",
		Email:    "ola@example.com",
		Password: "init-password",
	}, "admin-001")
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}
	if resp.Role != "member" {
		t.Errorf("未指定角色时应默认 member，实际=%s", resp.Role)
	}
	if !resp.MustChangePassword {
		t.Error("新建用户应强制首次修改密码")
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	req := &dto.CreateUserRequest{Name: "Ola", Email: "ola@example.com", Password: "init-password"}
	if _, err := svc.Create(ctx, req, "admin-001"); err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}
	if _, err := svc.Create(ctx, req, "admin-001"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestUserService_Update_Permission(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{Name: "Kari", Email: "kari@example.com", Password: "init-password"}, "admin-001")
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}

	name := "Kari Nordmann"
	// 普通成员不能修改他人
	if _, err := svc.Update(ctx, created.ID, &dto.UpdateUserRequest{Name: &name}, "other-user", "member"); !errors.Is(err, ErrNoPermission) {
		t.Errorf("期望 ErrNoPermission，实际: %v", err)
	}
	// 本人可以修改自己
	updated, err := svc.Update(ctx, created.ID, &dto.UpdateUserRequest{Name: &name}, created.ID, "member")
	if err != nil {
		t.Fatalf("本人更新应成功: %v", err)
	}
	if updated.Name != name {
		t.Errorf("姓名未更新: %+v", updated)
	}
	// 管理员可以修改任何人
	if _, err := svc.Update(ctx, created.ID, &dto.UpdateUserRequest{Name: &name}, "admin-001", "admin"); err != nil {
		t.Errorf("管理员更新应成功: %v", err)
	}
}

func TestUserService_Delete_SelfForbidden(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{Name: "Ola", Email: "ola@example.com", Password: "init-password"}, "admin-001")
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}

	if err := svc.Delete(ctx, created.ID, created.ID); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("期望 ErrUserSelfDelete，实际: %v", err)
	}
	if err := svc.Delete(ctx, created.ID, "admin-001"); err != nil {
		t.Errorf("管理员删除他人应成功: %v", err)
	}
}

func TestUserService_AssignRole_SelfForbidden(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{Name: "Ola", Email: "ola@example.com", Password: "init-password"}, "admin-001")
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}

	if err := svc.AssignRole(ctx, created.ID, &dto.AssignRoleRequest{Role: "admin"}, created.ID); !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("期望 ErrUserSelfRoleChange，实际: %v", err)
	}

	if err := svc.AssignRole(ctx, created.ID, &dto.AssignRoleRequest{Role: "admin"}, "admin-001"); err != nil {
		t.Fatalf("分配角色应成功: %v", err)
	}
	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("查询用户应成功: %v", err)
	}
	if got.Role != "admin" {
		t.Errorf("角色未更新: %s", got.Role)
	}
}

func TestUserService_ResetPassword(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateUserRequest{Name: "Ola", Email: "ola@example.com", Password: "init-password"}, "admin-001")
	if err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}

	resp, err := svc.ResetPassword(ctx, created.ID, "admin-001")
	if err != nil {
		t.Fatalf("重置密码应成功: %v", err)
	}
	if len(resp.TempPassword) != 10 {
		t.Errorf("临时密码长度应为10，实际=%d", len(resp.TempPassword))
	}
	// 临时密码不应包含易混淆字符
	for _, c := range "0O1lI" {
		if strings.ContainsRune(resp.TempPassword, c) {
			t.Errorf("临时密码不应包含易混淆字符 %c: %s", c, resp.TempPassword)
		}
	}
}

// ── Excel 导入测试 ──

// buildImportWorkbook 构造内存 Excel 文件，列序与表头由调用方给定
func buildImportWorkbook(t *testing.T, header []interface{}, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("写入表头失败: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("写入数据行失败: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("生成Excel失败: %v", err)
	}
	return buf
}

func TestUserService_ImportFromExcel_Success(t *testing.T) {
	svc, _ := setupTestUserService()

	// 列序故意颠倒，表头解析应兼容
	buf := buildImportWorkbook(t,
		[]interface{}{"邮箱", "姓名"},
		[][]interface{}{
			{"ola@example.com", "Ola Nordmann"},
			{"kari@example.com", "Kari Nordmann"},
		})

	resp, err := svc.ImportFromExcel(context.Background(), buf, "admin-001")
	if err != nil {
		t.Fatalf("导入应成功: %v", err)
	}
	if resp.SuccessCount != 2 || resp.FailedCount != 0 {
		t.Errorf("期望成功2失败0，实际: %+v", resp)
	}
}

func TestUserService_ImportFromExcel_PartialFailures(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	// 预先存在的邮箱
	if _, err := svc.Create(ctx, &dto.CreateUserRequest{Name: "Ola", Email: "ola@example.com", Password: "init-password"}, "admin-001"); err != nil {
		t.Fatalf("创建用户应成功: %v", err)
	}

	buf := buildImportWorkbook(t,
		[]interface{}{"姓名", "邮箱"},
		[][]interface{}{
			{"Ola", "ola@example.com"},     // 已存在
			{"Kari", "kari@example.com"},   // 正常
			{"Per", ""},                    // 邮箱为空
			{"Kari2", "kari@example.com"},  // 与第3行重复
		})

	resp, err := svc.ImportFromExcel(ctx, buf, "admin-001")
	if err != nil {
		t.Fatalf("导入应成功: %v", err)
	}
	if resp.SuccessCount != 1 {
		t.Errorf("期望成功1行，实际=%d", resp.SuccessCount)
	}
	if resp.FailedCount != 3 || len(resp.Errors) != 3 {
		t.Errorf("期望失败3行，实际: %+v", resp)
	}
}

func TestUserService_ImportFromExcel_BadHeader(t *testing.T) {
	svc, _ := setupTestUserService()

	buf := buildImportWorkbook(t,
		[]interface{}{"账号", "部门"},
		[][]interface{}{{"ola", "销售"}})

	_, err := svc.ImportFromExcel(context.Background(), buf, "admin-001")
	if !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("期望 ErrImportBadHeader，实际: %v", err)
	}
}

func TestUserService_ImportFromExcel_NoData(t *testing.T) {
	svc, _ := setupTestUserService()

	buf := buildImportWorkbook(t, []interface{}{"姓名", "邮箱"}, nil)

	_, err := svc.ImportFromExcel(context.Background(), buf, "admin-001")
	if !errors.Is(err, ErrImportNoData) {
		t.Errorf("期望 ErrImportNoData，实际: %v", err)
	}
}
