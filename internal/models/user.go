package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`

	// Контактные данные клиента
	CompanyName           string
	Address               string
	PhoneNumber           string
	CompanyRepresentative string
	EmergencyPhone        string

	IsVerified        bool `gorm:"default:false"`
	VerificationToken string

	// Одобрение аккаунта (выставляется только админом)
	AccountStatus ApprovalStatus `gorm:"type:varchar(20);default:'pending'"`
	ApprovalNotes string
	ApprovedBy    *string    `gorm:"type:uuid"`
	ApprovedAt    *time.Time

	// Relations
	DriverProfile *Driver `gorm:"foreignKey:UserID"`
	Offers        []Offer `gorm:"foreignKey:ClientID"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// ApplyApproval фиксирует решение админа по аккаунту.
func (u *User) ApplyApproval(status ApprovalStatus, adminID string, notes string) {
	now := time.Now()
	u.AccountStatus = status
	u.ApprovalNotes = notes
	u.ApprovedBy = &adminID
	u.ApprovedAt = &now
}
