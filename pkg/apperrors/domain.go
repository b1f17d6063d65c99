package apperrors

import (
	"fmt"
	"net/http"
)

/*
Предопределенные доменные ошибки платформы перевозок.
Сервисы возвращают их напрямую либо через фабрики ниже.
*/

// --- Auth ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already registered",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"auth",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Account approval gate ---

var ErrUserNotVerified = New(
	CodeForbidden,
	"account",
	"Email not verified. Please verify your email first.",
	http.StatusForbidden,
)

var ErrAccountPending = New(
	CodeForbidden,
	"account",
	"Account pending admin approval. Please wait for approval to access the system.",
	http.StatusForbidden,
)

var ErrAccountRejected = New(
	CodeForbidden,
	"account",
	"Account has been rejected. Please contact support for more information.",
	http.StatusForbidden,
)

var ErrAccountSuspended = New(
	CodeForbidden,
	"account",
	"Account has been suspended. Please contact support for more information.",
	http.StatusForbidden,
)

// ErrCannotModifySelf - админ пытается одобрить/удалить собственный аккаунт.
var ErrCannotModifySelf = New(
	CodeConflict,
	"account",
	"Operation on own account is not allowed",
	http.StatusConflict,
)

// --- Driver approval gate ---

// ErrDriverProfileNotFound - у пользователя-водителя еще нет профиля.
// Отсутствие профиля — отдельный отказ, не статус одобрения.
var ErrDriverProfileNotFound = New(
	CodeNotFound,
	"driver",
	"Driver profile not found. Please create one.",
	http.StatusNotFound,
)

var ErrDriverPending = New(
	CodeForbidden,
	"driver",
	"Your driver profile is pending admin approval. Please wait for approval.",
	http.StatusForbidden,
)

var ErrDriverRejected = New(
	CodeForbidden,
	"driver",
	"Your driver profile has been rejected. Please contact support.",
	http.StatusForbidden,
)

var ErrDriverSuspended = New(
	CodeForbidden,
	"driver",
	"Your driver profile has been suspended. Please contact support.",
	http.StatusForbidden,
)

var ErrDriverProfileExists = New(
	CodeAlreadyExists,
	"driver",
	"Driver profile already exists",
	http.StatusConflict,
)

var ErrLicenseAlreadyRegistered = New(
	CodeAlreadyExists,
	"driver",
	"License number already registered",
	http.StatusConflict,
)

var ErrPlateAlreadyRegistered = New(
	CodeAlreadyExists,
	"driver",
	"Vehicle plate already registered",
	http.StatusConflict,
)

var ErrDriverNotAvailable = New(
	CodeConflict,
	"driver",
	"Driver must be available to accept offers",
	http.StatusConflict,
)

// --- Offers ---

var ErrOfferAlreadyAssigned = New(
	CodeConflict,
	"offer",
	"Offer already assigned to another driver",
	http.StatusConflict,
)

var ErrOfferNotEditable = New(
	CodeConflict,
	"offer",
	"Only pending offers are editable",
	http.StatusConflict,
)

var ErrNotOfferOwner = New(
	CodeForbidden,
	"offer",
	"Not authorized to access this offer",
	http.StatusForbidden,
)

var ErrNotAssignedDriver = New(
	CodeForbidden,
	"offer",
	"Offer is not assigned to you",
	http.StatusForbidden,
)

// ErrInvalidTransition - нарушен guard машины состояний оффера.
// Сообщение называет требуемое исходное состояние.
func ErrInvalidTransition(required, actual string) *AppError {
	return New(
		CodeInvalidStatus,
		"offer",
		fmt.Sprintf("invalid transition: offer must be %s (current status: %s)", required, actual),
		http.StatusConflict,
	)
}
