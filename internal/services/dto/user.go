package dto

import (
	"time"

	"tranzit_backend/internal/models"
)

// UserResponse содержит полные данные о пользователе.
// Используется для эндпоинтов типа /users/me и админского списка.
type UserResponse struct {
	ID            string                `json:"id"`
	Email         string                `json:"email"`
	Role          models.UserRole       `json:"role"`
	AccountStatus models.ApprovalStatus `json:"account_status"`
	ApprovalNotes string                `json:"approval_notes,omitempty"`
	ApprovedBy    *string               `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time            `json:"approved_at,omitempty"`
	IsVerified    bool                  `json:"is_verified"`
	CreatedAt     time.Time             `json:"created_at"`

	// Контактные данные клиента
	CompanyName           string `json:"company_name,omitempty"`
	Address               string `json:"address,omitempty"`
	PhoneNumber           string `json:"phone_number,omitempty"`
	CompanyRepresentative string `json:"company_representative,omitempty"`
	EmergencyPhone        string `json:"emergency_phone,omitempty"`

	DriverProfile *DriverResponse `json:"driver_profile,omitempty"`
}

// NewUserResponse собирает UserResponse из модели.
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		Role:                  u.Role,
		AccountStatus:         u.AccountStatus,
		ApprovalNotes:         u.ApprovalNotes,
		ApprovedBy:            u.ApprovedBy,
		ApprovedAt:            u.ApprovedAt,
		IsVerified:            u.IsVerified,
		CreatedAt:             u.CreatedAt,
		CompanyName:           u.CompanyName,
		Address:               u.Address,
		PhoneNumber:           u.PhoneNumber,
		CompanyRepresentative: u.CompanyRepresentative,
		EmergencyPhone:        u.EmergencyPhone,
	}
	if u.DriverProfile != nil {
		dr := NewDriverResponse(u.DriverProfile)
		resp.DriverProfile = &dr
	}
	return resp
}

// AdminUserFilter используется для фильтрации пользователей администратором
type AdminUserFilter struct {
	Role     models.UserRole       `form:"role" validate:"omitempty,is-user-role"`
	Status   models.ApprovalStatus `form:"status" validate:"omitempty,is-account-status"`
	Search   string                `form:"search"`
	Page     int                   `form:"page" validate:"omitempty,min=1"`
	PageSize int                   `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// ApprovalRequest - решение админа по аккаунту или водительскому профилю
type ApprovalRequest struct {
	Status models.ApprovalStatus `json:"status" binding:"required" validate:"is-account-status"`
	Notes  string                `json:"notes"`
}
