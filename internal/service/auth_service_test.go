package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"cabin-lottery/backend/config"
	"cabin-lottery/backend/internal/dto"
	"cabin-lottery/backend/internal/model"
	"cabin-lottery/backend/internal/repository"
	"cabin-lottery/backend/pkg/jwt"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-for-auth-service",
			AccessTokenTTL:  15 * time.Minute,
			RefreshTokenTTL: 168 * time.Hour,
		},
	}
}

// setupTestAuthService 构造不依赖 Redis 的认证服务（仅覆盖不触达黑名单的路径）
func setupTestAuthService(t *testing.T) (AuthService, *repository.Repository, *jwt.Manager) {
	t.Helper()
	cfg := testAuthConfig()
	repo := newMockRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
	return svc, repo, jwtMgr
}

func seedUser(t *testing.T, repo *repository.Repository, email, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	user := &model.User{
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := repo.User.Create(context.Background(), user); err != nil {
		t.Fatalf("准备用户失败: %v", err)
	}
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, jwtMgr := setupTestAuthService(t)
	user := seedUser(t, repo, "ola@example.com", "correct-password", "member")

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ola@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("登录应成功: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("应返回访问令牌与刷新令牌")
	}
	if resp.User.ID != user.UserID || resp.User.Email != user.Email {
		t.Errorf("用户信息错误: %+v", resp.User)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("过期时间错误: %d", resp.ExpiresIn)
	}

	// 签发的访问令牌应可解析且携带正确身份
	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("解析访问令牌失败: %v", err)
	}
	if claims.UserID != user.UserID || claims.TokenType != "access" {
		t.Errorf("令牌声明错误: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	seedUser(t, repo, "ola@example.com", "correct-password", "member")

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ola@example.com",
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService(t)

	// 不存在的邮箱与密码错误返回同一错误，不泄露账号是否存在
	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	user := seedUser(t, repo, "kari@example.com", "pw-123456", "admin")

	resp, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 应成功: %v", err)
	}
	if resp.Email != "kari@example.com" || resp.Role != "admin" {
		t.Errorf("用户信息错误: %+v", resp)
	}

	if _, err := svc.GetCurrentUser(context.Background(), "不存在"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	user := seedUser(t, repo, "ola@example.com", "old-password", "member")
	user.MustChangePassword = true
	ctx := context.Background()

	// 旧密码错误
	err := svc.ChangePassword(ctx, user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "not-the-old-one",
		NewPassword: "new-password-1",
	})
	if !errors.Is(err, ErrOldPasswordWrong) {
		t.Errorf("期望 ErrOldPasswordWrong，实际: %v", err)
	}

	// 修改成功后旧密码失效、新密码可登录，且清除强制改密标记
	if err := svc.ChangePassword(ctx, user.UserID, &dto.ChangePasswordRequest{
		OldPassword: "old-password",
		NewPassword: "new-password-1",
	}); err != nil {
		t.Fatalf("修改密码应成功: %v", err)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ola@example.com", Password: "old-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "ola@example.com", Password: "new-password-1"})
	if err != nil {
		t.Fatalf("新密码登录应成功: %v", err)
	}
	if resp.User.MustChangePassword {
		t.Error("修改密码后应清除强制改密标记")
	}
}
