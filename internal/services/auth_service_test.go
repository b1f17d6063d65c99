package services

import (
	"os"
	"testing"

	"tranzit_backend/internal/config"
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/services/dto"
	"tranzit_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
	os.Exit(m.Run())
}

type authFixture struct {
	userRepo  *fakeUserRepo
	tokenRepo *fakeRefreshTokenRepo
	email     *fakeEmailProvider
	svc       AuthService
}

func newAuthFixture() *authFixture {
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeRefreshTokenRepo()
	provider := &fakeEmailProvider{}
	return &authFixture{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		email:     provider,
		svc:       NewAuthService(userRepo, tokenRepo, provider),
	}
}

func registerRequest(email string, role models.UserRole) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:    email,
		Password: "secret1",
		Role:     role,
	}
}

func TestRegisterCreatesPendingUnverifiedUser(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.Register(registerRequest("client@tranzit.kz", models.UserRoleClient))
	require.NoError(t, err)

	user, err := f.userRepo.FindByEmail("client@tranzit.kz")
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalStatusPending, user.AccountStatus)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerificationToken)
	// Пароль хранится только хешем
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture()

	require.NoError(t, f.svc.Register(registerRequest("dup@tranzit.kz", models.UserRoleClient)))
	err := f.svc.Register(registerRequest("dup@tranzit.kz", models.UserRoleDriver))
	require.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	f := newAuthFixture()

	err := f.svc.Register(registerRequest("root@tranzit.kz", models.UserRoleAdmin))
	require.ErrorIs(t, err, apperrors.ErrInvalidUserRole)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	f := newAuthFixture()

	req := registerRequest("short@tranzit.kz", models.UserRoleClient)
	req.Password = "12345"
	err := f.svc.Register(req)
	require.Error(t, err)

	_, err = f.userRepo.FindByEmail("short@tranzit.kz")
	require.Error(t, err)
}

func TestLoginRequiresVerifiedEmail(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.Register(registerRequest("client@tranzit.kz", models.UserRoleClient)))

	_, err := f.svc.Login(&dto.LoginRequest{Email: "client@tranzit.kz", Password: "secret1"})
	require.ErrorIs(t, err, apperrors.ErrUserNotVerified)

	user, err := f.userRepo.FindByEmail("client@tranzit.kz")
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(user.VerificationToken))

	// Pending-аккаунт входит: воронка допуска закрывает только доменные операции
	resp, err := f.svc.Login(&dto.LoginRequest{Email: "client@tranzit.kz", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "client@tranzit.kz", resp.User.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.Register(registerRequest("client@tranzit.kz", models.UserRoleClient)))

	_, err := f.svc.Login(&dto.LoginRequest{Email: "client@tranzit.kz", Password: "wrong-pass"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = f.svc.Login(&dto.LoginRequest{Email: "ghost@tranzit.kz", Password: "secret1"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestVerifyEmailBadToken(t *testing.T) {
	f := newAuthFixture()
	err := f.svc.VerifyEmail("no-such-token")
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshTokenRotation(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.Register(registerRequest("client@tranzit.kz", models.UserRoleClient)))
	user, err := f.userRepo.FindByEmail("client@tranzit.kz")
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(user.VerificationToken))

	first, err := f.svc.Login(&dto.LoginRequest{Email: "client@tranzit.kz", Password: "secret1"})
	require.NoError(t, err)

	second, err := f.svc.RefreshToken(first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// Старый refresh token погашен ротацией
	_, err = f.svc.RefreshToken(first.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	f := newAuthFixture()
	require.NoError(t, f.svc.Register(registerRequest("client@tranzit.kz", models.UserRoleClient)))
	user, err := f.userRepo.FindByEmail("client@tranzit.kz")
	require.NoError(t, err)
	require.NoError(t, f.svc.VerifyEmail(user.VerificationToken))

	session, err := f.svc.Login(&dto.LoginRequest{Email: "client@tranzit.kz", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(session.RefreshToken))
	_, err = f.svc.RefreshToken(session.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// Повторный выход — ошибка, токена уже нет
	err = f.svc.Logout(session.RefreshToken)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
