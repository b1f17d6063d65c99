package services

import (
	"testing"

	"tranzit_backend/internal/models"
	"tranzit_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestCheckUserAccess(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
	}{
		{
			name:    "admin bypasses all checks",
			user:    models.User{Role: models.UserRoleAdmin},
			wantErr: nil,
		},
		{
			name: "unverified client is rejected first",
			user: models.User{
				Role:          models.UserRoleClient,
				IsVerified:    false,
				AccountStatus: models.ApprovalStatusApproved,
			},
			wantErr: apperrors.ErrUserNotVerified,
		},
		{
			name: "verified pending client",
			user: models.User{
				Role:          models.UserRoleClient,
				IsVerified:    true,
				AccountStatus: models.ApprovalStatusPending,
			},
			wantErr: apperrors.ErrAccountPending,
		},
		{
			name: "rejected client",
			user: models.User{
				Role:          models.UserRoleClient,
				IsVerified:    true,
				AccountStatus: models.ApprovalStatusRejected,
			},
			wantErr: apperrors.ErrAccountRejected,
		},
		{
			name: "suspended driver account",
			user: models.User{
				Role:          models.UserRoleDriver,
				IsVerified:    true,
				AccountStatus: models.ApprovalStatusSuspended,
			},
			wantErr: apperrors.ErrAccountSuspended,
		},
		{
			name: "approved verified client passes",
			user: models.User{
				Role:          models.UserRoleClient,
				IsVerified:    true,
				AccountStatus: models.ApprovalStatusApproved,
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUserAccess(&tt.user)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCheckDriverAccess(t *testing.T) {
	tests := []struct {
		name    string
		driver  *models.Driver
		wantErr error
	}{
		{
			name:    "missing profile",
			driver:  nil,
			wantErr: apperrors.ErrDriverProfileNotFound,
		},
		{
			name:    "pending profile",
			driver:  &models.Driver{DriverStatus: models.ApprovalStatusPending},
			wantErr: apperrors.ErrDriverPending,
		},
		{
			name:    "rejected profile",
			driver:  &models.Driver{DriverStatus: models.ApprovalStatusRejected},
			wantErr: apperrors.ErrDriverRejected,
		},
		{
			name:    "suspended profile",
			driver:  &models.Driver{DriverStatus: models.ApprovalStatusSuspended},
			wantErr: apperrors.ErrDriverSuspended,
		},
		{
			name:    "approved profile passes",
			driver:  &models.Driver{DriverStatus: models.ApprovalStatusApproved},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDriverAccess(tt.driver)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
