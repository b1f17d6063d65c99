package services

import (
	"time"

	"tranzit_backend/internal/auth"
	"tranzit_backend/internal/email"
	"tranzit_backend/internal/logger"
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/repositories"
	"tranzit_backend/internal/services/dto"
	"tranzit_backend/pkg/apperrors"
)

const refreshTokenTTL = 7 * 24 * time.Hour

type AuthService interface {
	Register(req *dto.RegisterRequest) error
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	VerifyEmail(token string) error
	Me(userID string) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	emailProvider    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		emailProvider:    emailProvider,
	}
}

// Register - регистрация нового пользователя.
// Админов через регистрацию не создать: роль только client или driver.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) error {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return err
	}

	if req.Role != models.UserRoleClient && req.Role != models.UserRoleDriver {
		return apperrors.ErrInvalidUserRole
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	verificationToken := auth.GenerateRandomToken()

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		Role:              req.Role,
		IsVerified:        false,
		VerificationToken: verificationToken,
	}
	user.AccountStatus = models.ApprovalStatusPending

	if req.Role == models.UserRoleClient {
		user.CompanyName = req.CompanyName
		user.Address = req.Address
		user.PhoneNumber = req.PhoneNumber
		user.CompanyRepresentative = req.CompanyRepresentative
		user.EmergencyPhone = req.EmergencyPhone
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.InternalError(err)
	}

	// Письмо уходит в фоне: сбой нотификации не откатывает регистрацию
	s.sendVerificationEmail(user.Email, verificationToken)

	return nil
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Вход разрешен и неодобренным: гейт закрывает только доменные операции.
	// Но без подтвержденного email токены не выдаем.
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}

	return s.issueTokens(user)
}

// RefreshToken - обновление access token по refresh token с ротацией
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.AuthResponse, error) {
	token, err := s.refreshTokenRepo.FindByToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		_ = s.refreshTokenRepo.DeleteByToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

// Logout - выход (удаление refresh token)
func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if err := s.refreshTokenRepo.DeleteByToken(refreshToken); err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// VerifyEmail - подтверждение email по токену из письма
func (s *AuthServiceImpl) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	return s.userRepo.VerifyUser(user.ID)
}

// Me - данные текущего пользователя
func (s *AuthServiceImpl) Me(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := auth.GenerateRandomToken()
	if err := s.refreshTokenRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserDTO(user),
	}, nil
}

func (s *AuthServiceImpl) sendVerificationEmail(to, token string) {
	go func() {
		if err := s.emailProvider.SendVerification(to, token); err != nil {
			logger.Warn("Не удалось отправить письмо верификации",
				"email", to, "error", err)
		}
	}()
}
