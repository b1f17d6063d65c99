package models

import (
	"errors"
	"time"
)

var ErrDriverNotApproved = errors.New("driver is not approved")

type Driver struct {
	BaseModel
	UserID string `gorm:"type:uuid;uniqueIndex;not null"`

	FirstName   string
	LastName    string
	PhoneNumber string

	LicenseNumber string `gorm:"uniqueIndex;not null"`
	LicenseExpiry string

	VehicleMake  string
	VehicleModel string
	VehicleYear  string
	VehicleColor string
	VehiclePlate string `gorm:"uniqueIndex;not null"`

	InsuranceNumber string
	InsuranceExpiry string

	// Одобрение водительского профиля, независимое от одобрения аккаунта
	DriverStatus        ApprovalStatus `gorm:"type:varchar(20);default:'pending'"`
	DriverApprovalNotes string
	DriverApprovedBy    *string    `gorm:"type:uuid"`
	DriverApprovedAt    *time.Time

	// Операционный статус. Инвариант: offline всегда, когда DriverStatus != approved.
	// Меняется ТОЛЬКО через ApplyApproval / SetAvailability / транзакции назначения.
	Availability OperationalStatus `gorm:"type:varchar(20);default:'offline'"`

	Rating          float64 `gorm:"default:5.0"`
	TotalDeliveries int     `gorm:"default:0"`

	// Relations
	User           *User   `gorm:"foreignKey:UserID"`
	AssignedOffers []Offer `gorm:"foreignKey:DriverID"`
}

// FullName возвращает отображаемое имя водителя.
func (d *Driver) FullName() string {
	if d.FirstName == "" && d.LastName == "" {
		return ""
	}
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// IsApproved сообщает, одобрен ли водительский профиль.
func (d *Driver) IsApproved() bool {
	return d.DriverStatus == ApprovalStatusApproved
}

// ApplyApproval фиксирует решение админа по водительскому профилю и
// приводит операционный статус в согласованное состояние:
// переход в approved сбрасывает статус в available, уход из approved — в offline.
func (d *Driver) ApplyApproval(status ApprovalStatus, adminID string, notes string) {
	now := time.Now()
	d.DriverStatus = status
	d.DriverApprovalNotes = notes
	d.DriverApprovedBy = &adminID
	d.DriverApprovedAt = &now

	if status == ApprovalStatusApproved {
		d.Availability = OperationalStatusAvailable
	} else {
		d.Availability = OperationalStatusOffline
	}
}

// SetAvailability меняет операционный статус по инициативе водителя.
// Разрешено только одобренным профилям, иначе инвариант offline нарушился бы.
func (d *Driver) SetAvailability(status OperationalStatus) error {
	if !d.IsApproved() {
		return ErrDriverNotApproved
	}
	d.Availability = status
	return nil
}
