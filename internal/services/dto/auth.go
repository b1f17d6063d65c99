package dto

import (
	"time"

	"tranzit_backend/internal/models"
)

// RegisterRequest - запрос регистрации
type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required,oneof=client driver"`

	// Контактные поля клиента (для role=client)
	CompanyName           string `json:"company_name,omitempty"`
	Address               string `json:"address,omitempty"`
	PhoneNumber           string `json:"phone_number,omitempty"`
	CompanyRepresentative string `json:"company_representative,omitempty"`
	EmergencyPhone        string `json:"emergency_phone,omitempty"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest - запрос обновления токена
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest - запрос выхода
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VerifyEmailRequest - запрос подтверждения email
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// AuthResponse - ответ с токенами
type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
	User         UserDTO `json:"user"`
}

// UserDTO - базовая информация о пользователе
type UserDTO struct {
	ID            string                `json:"id"`
	Email         string                `json:"email"`
	Role          models.UserRole       `json:"role"`
	AccountStatus models.ApprovalStatus `json:"account_status"`
	IsVerified    bool                  `json:"is_verified"`
	CreatedAt     time.Time             `json:"created_at"`
}

// NewUserDTO собирает UserDTO из модели.
func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		AccountStatus: u.AccountStatus,
		IsVerified:    u.IsVerified,
		CreatedAt:     u.CreatedAt,
	}
}
