package models

type UserRole string
type ApprovalStatus string
type OfferStatus string
type OperationalStatus string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleClient UserRole = "client"
	UserRoleDriver UserRole = "driver"

	// ApprovalStatus используется и для аккаунтов, и для водительских профилей.
	ApprovalStatusPending   ApprovalStatus = "pending"
	ApprovalStatusApproved  ApprovalStatus = "approved"
	ApprovalStatusRejected  ApprovalStatus = "rejected"
	ApprovalStatusSuspended ApprovalStatus = "suspended"

	OfferStatusPending    OfferStatus = "pending"
	OfferStatusMatched    OfferStatus = "matched"
	OfferStatusInProgress OfferStatus = "in_progress"
	OfferStatusCompleted  OfferStatus = "completed"
	OfferStatusCancelled  OfferStatus = "cancelled"

	OperationalStatusAvailable OperationalStatus = "available"
	OperationalStatusBusy      OperationalStatus = "busy"
	OperationalStatusOffline   OperationalStatus = "offline"
)

// ValidOperationalStatus проверяет значение операционного статуса водителя.
func ValidOperationalStatus(s OperationalStatus) bool {
	switch s {
	case OperationalStatusAvailable, OperationalStatusBusy, OperationalStatusOffline:
		return true
	default:
		return false
	}
}

// ValidApprovalStatus проверяет значение статуса одобрения.
func ValidApprovalStatus(s ApprovalStatus) bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusSuspended:
		return true
	default:
		return false
	}
}

// ValidOfferStatus проверяет значение статуса оффера.
func ValidOfferStatus(s OfferStatus) bool {
	switch s {
	case OfferStatusPending, OfferStatusMatched, OfferStatusInProgress, OfferStatusCompleted, OfferStatusCancelled:
		return true
	default:
		return false
	}
}
