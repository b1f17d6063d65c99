package dto

import (
	"time"

	"tranzit_backend/internal/models"
)

// CreateDriverRequest - заявка на водительский профиль
type CreateDriverRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`

	LicenseNumber string `json:"license_number" binding:"required"`
	LicenseExpiry string `json:"license_expiry"`

	VehicleMake  string `json:"vehicle_make" binding:"required"`
	VehicleModel string `json:"vehicle_model" binding:"required"`
	VehicleYear  string `json:"vehicle_year"`
	VehicleColor string `json:"vehicle_color"`
	VehiclePlate string `json:"vehicle_plate" binding:"required"`

	InsuranceNumber string `json:"insurance_number"`
	InsuranceExpiry string `json:"insurance_expiry"`
}

// UpdateDriverRequest - частичное обновление профиля.
// nil-поле означает "не трогать". Слияние с моделью происходит
// в одном месте, в driver service.
type UpdateDriverRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`

	LicenseNumber *string `json:"license_number,omitempty"`
	LicenseExpiry *string `json:"license_expiry,omitempty"`

	VehicleMake  *string `json:"vehicle_make,omitempty"`
	VehicleModel *string `json:"vehicle_model,omitempty"`
	VehicleYear  *string `json:"vehicle_year,omitempty"`
	VehicleColor *string `json:"vehicle_color,omitempty"`
	VehiclePlate *string `json:"vehicle_plate,omitempty"`

	InsuranceNumber *string `json:"insurance_number,omitempty"`
	InsuranceExpiry *string `json:"insurance_expiry,omitempty"`
}

// SetAvailabilityRequest - смена операционного статуса самим водителем
type SetAvailabilityRequest struct {
	Availability models.OperationalStatus `json:"availability" binding:"required" validate:"is-operational-status"`
}

// AdminDriverFilter - фильтр админского списка водителей
type AdminDriverFilter struct {
	Status       models.ApprovalStatus    `form:"status" validate:"omitempty,is-account-status"`
	Availability models.OperationalStatus `form:"availability" validate:"omitempty,is-operational-status"`
	Page         int                      `form:"page" validate:"omitempty,min=1"`
	PageSize     int                      `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// DriverResponse - профиль водителя
type DriverResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`

	LicenseNumber string `json:"license_number"`
	LicenseExpiry string `json:"license_expiry,omitempty"`

	VehicleMake  string `json:"vehicle_make"`
	VehicleModel string `json:"vehicle_model"`
	VehicleYear  string `json:"vehicle_year,omitempty"`
	VehicleColor string `json:"vehicle_color,omitempty"`
	VehiclePlate string `json:"vehicle_plate"`

	InsuranceNumber string `json:"insurance_number,omitempty"`
	InsuranceExpiry string `json:"insurance_expiry,omitempty"`

	DriverStatus        models.ApprovalStatus    `json:"driver_status"`
	DriverApprovalNotes string                   `json:"driver_approval_notes,omitempty"`
	DriverApprovedAt    *time.Time               `json:"driver_approved_at,omitempty"`
	Availability        models.OperationalStatus `json:"availability"`

	Rating          float64 `json:"rating"`
	TotalDeliveries int     `json:"total_deliveries"`

	CreatedAt time.Time `json:"created_at"`
}

// NewDriverResponse собирает DriverResponse из модели.
func NewDriverResponse(d *models.Driver) DriverResponse {
	return DriverResponse{
		ID:                  d.ID,
		UserID:              d.UserID,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		PhoneNumber:         d.PhoneNumber,
		LicenseNumber:       d.LicenseNumber,
		LicenseExpiry:       d.LicenseExpiry,
		VehicleMake:         d.VehicleMake,
		VehicleModel:        d.VehicleModel,
		VehicleYear:         d.VehicleYear,
		VehicleColor:        d.VehicleColor,
		VehiclePlate:        d.VehiclePlate,
		InsuranceNumber:     d.InsuranceNumber,
		InsuranceExpiry:     d.InsuranceExpiry,
		DriverStatus:        d.DriverStatus,
		DriverApprovalNotes: d.DriverApprovalNotes,
		DriverApprovedAt:    d.DriverApprovedAt,
		Availability:        d.Availability,
		Rating:              d.Rating,
		TotalDeliveries:     d.TotalDeliveries,
		CreatedAt:           d.CreatedAt,
	}
}

// DriverStatistics - сводка по доставкам водителя
type DriverStatistics struct {
	TotalAssigned  int64   `json:"total_assigned"`
	Active         int64   `json:"active"`
	Completed      int64   `json:"completed"`
	Cancelled      int64   `json:"cancelled"`
	CompletionRate float64 `json:"completion_rate"`
	Rating         float64 `json:"rating"`
}
