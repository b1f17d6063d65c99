package dto

import (
	"time"

	"tranzit_backend/internal/models"
)

// CreateOfferRequest - создание заявки на перевозку
type CreateOfferRequest struct {
	CompanyRepresentative string   `json:"company_representative"`
	EmergencyPhone        string   `json:"emergency_phone"`
	Description           string   `json:"description" binding:"required"`
	PickupDate            string   `json:"pickup_date" binding:"required"`
	PickupTime            string   `json:"pickup_time"`
	PickupAddress         string   `json:"pickup_address" binding:"required"`
	DropoffAddress        string   `json:"dropoff_address" binding:"required"`
	TotalMileage          *float64 `json:"total_mileage"`
	AdditionalService     string   `json:"additional_service"`
}

// UpdateOfferRequest - частичное обновление заявки (только pending).
// nil-поле означает "не трогать".
type UpdateOfferRequest struct {
	CompanyRepresentative *string  `json:"company_representative,omitempty"`
	EmergencyPhone        *string  `json:"emergency_phone,omitempty"`
	Description           *string  `json:"description,omitempty"`
	PickupDate            *string  `json:"pickup_date,omitempty"`
	PickupTime            *string  `json:"pickup_time,omitempty"`
	PickupAddress         *string  `json:"pickup_address,omitempty"`
	DropoffAddress        *string  `json:"dropoff_address,omitempty"`
	TotalMileage          *float64 `json:"total_mileage,omitempty"`
	AdditionalService     *string  `json:"additional_service,omitempty"`
}

// UpdateOfferStatusRequest - переход статуса водителем
type UpdateOfferStatusRequest struct {
	Status models.OfferStatus `json:"status" binding:"required" validate:"is-offer-status"`
}

// AssignDriverRequest - админское назначение водителя по id
type AssignDriverRequest struct {
	DriverID string             `json:"driver_id" binding:"required,uuid"`
	Status   models.OfferStatus `json:"status" validate:"omitempty,is-offer-status"`
}

// AdminOfferFilter - фильтр админского списка заявок
type AdminOfferFilter struct {
	Status   models.OfferStatus `form:"status" validate:"omitempty,is-offer-status"`
	ClientID string             `form:"client_id" validate:"omitempty,uuid"`
	DriverID string             `form:"driver_id" validate:"omitempty,uuid"`
}

// OfferResponse - заявка со слепком назначенного водителя
type OfferResponse struct {
	ID       string  `json:"id"`
	ClientID string  `json:"client_id"`
	DriverID *string `json:"driver_id,omitempty"`

	CompanyRepresentative string   `json:"company_representative,omitempty"`
	EmergencyPhone        string   `json:"emergency_phone,omitempty"`
	Description           string   `json:"description"`
	PickupDate            string   `json:"pickup_date"`
	PickupTime            string   `json:"pickup_time,omitempty"`
	PickupAddress         string   `json:"pickup_address"`
	DropoffAddress        string   `json:"dropoff_address"`
	TotalMileage          *float64 `json:"total_mileage,omitempty"`
	AdditionalService     string   `json:"additional_service,omitempty"`

	Status models.OfferStatus `json:"status"`

	// Слепок водителя на момент назначения
	DriverFirstName string `json:"driver_first_name,omitempty"`
	DriverPhone     string `json:"driver_phone,omitempty"`
	VehicleMake     string `json:"vehicle_make,omitempty"`
	VehicleModel    string `json:"vehicle_model,omitempty"`
	VehicleColor    string `json:"vehicle_color,omitempty"`
	VehiclePlate    string `json:"vehicle_plate,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOfferResponse собирает OfferResponse из модели.
func NewOfferResponse(o *models.Offer) OfferResponse {
	return OfferResponse{
		ID:                    o.ID,
		ClientID:              o.ClientID,
		DriverID:              o.DriverID,
		CompanyRepresentative: o.CompanyRepresentative,
		EmergencyPhone:        o.EmergencyPhone,
		Description:           o.Description,
		PickupDate:            o.PickupDate,
		PickupTime:            o.PickupTime,
		PickupAddress:         o.PickupAddress,
		DropoffAddress:        o.DropoffAddress,
		TotalMileage:          o.TotalMileage,
		AdditionalService:     o.AdditionalService,
		Status:                o.Status,
		DriverFirstName:       o.DriverFirstName,
		DriverPhone:           o.DriverPhone,
		VehicleMake:           o.VehicleMake,
		VehicleModel:          o.VehicleModel,
		VehicleColor:          o.VehicleColor,
		VehiclePlate:          o.VehiclePlate,
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
}

// NewOfferResponses конвертирует срез моделей.
func NewOfferResponses(offers []models.Offer) []OfferResponse {
	out := make([]OfferResponse, 0, len(offers))
	for i := range offers {
		out = append(out, NewOfferResponse(&offers[i]))
	}
	return out
}
