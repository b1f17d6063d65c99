package models

// AssignmentSnapshot — копия данных водителя, снятая в момент назначения.
// Не синхронизируется с последующими правками профиля водителя.
type AssignmentSnapshot struct {
	DriverFirstName string
	DriverPhone     string
	VehicleMake     string
	VehicleModel    string
	VehicleColor    string
	VehiclePlate    string
}

// SnapshotOf снимает слепок текущих данных водителя.
func SnapshotOf(d *Driver) AssignmentSnapshot {
	return AssignmentSnapshot{
		DriverFirstName: d.FirstName,
		DriverPhone:     d.PhoneNumber,
		VehicleMake:     d.VehicleMake,
		VehicleModel:    d.VehicleModel,
		VehicleColor:    d.VehicleColor,
		VehiclePlate:    d.VehiclePlate,
	}
}

type Offer struct {
	BaseModel
	ClientID string  `gorm:"type:uuid;not null;index"`
	DriverID *string `gorm:"type:uuid;index"`

	CompanyRepresentative string
	EmergencyPhone        string
	Description           string
	PickupDate            string
	PickupTime            string
	PickupAddress         string
	DropoffAddress        string
	TotalMileage          *float64
	AdditionalService     string

	Status OfferStatus `gorm:"type:varchar(20);default:'pending';index"`

	AssignmentSnapshot `gorm:"embedded"`

	// Relations
	Client         *User   `gorm:"foreignKey:ClientID"`
	AssignedDriver *Driver `gorm:"foreignKey:DriverID"`
}

// IsAssigned сообщает, привязан ли к офферу водитель.
func (o *Offer) IsAssigned() bool {
	return o.DriverID != nil
}

// IsEditable: правки клиентских полей допустимы только в статусе pending.
func (o *Offer) IsEditable() bool {
	return o.Status == OfferStatusPending
}
