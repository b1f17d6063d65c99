package services

import (
	"tranzit_backend/internal/models"
	"tranzit_backend/pkg/apperrors"
)

// CheckUserAccess - воронка допуска аккаунта к защищенным операциям.
// Админ проходит всегда. Остальным нужен подтвержденный email и
// одобренный админом аккаунт; каждый отказ — своя ошибка, чтобы
// клиент понимал, на каком шаге он застрял.
func CheckUserAccess(user *models.User) error {
	if user.Role == models.UserRoleAdmin {
		return nil
	}

	if !user.IsVerified {
		return apperrors.ErrUserNotVerified
	}

	switch user.AccountStatus {
	case models.ApprovalStatusApproved:
		return nil
	case models.ApprovalStatusRejected:
		return apperrors.ErrAccountRejected
	case models.ApprovalStatusSuspended:
		return apperrors.ErrAccountSuspended
	default:
		return apperrors.ErrAccountPending
	}
}

// CheckDriverAccess - вторая ступень воронки для водительских операций.
// Профиль должен существовать и быть одобрен независимо от аккаунта.
func CheckDriverAccess(driver *models.Driver) error {
	if driver == nil {
		return apperrors.ErrDriverProfileNotFound
	}

	switch driver.DriverStatus {
	case models.ApprovalStatusApproved:
		return nil
	case models.ApprovalStatusRejected:
		return apperrors.ErrDriverRejected
	case models.ApprovalStatusSuspended:
		return apperrors.ErrDriverSuspended
	default:
		return apperrors.ErrDriverPending
	}
}
