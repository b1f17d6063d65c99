package validator

import (
	"log"

	"tranzit_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует доменные правила валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без доменных правил приложение запускать нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-account-status", validateApprovalStatus)
	mustRegister("is-offer-status", validateOfferStatus)
	mustRegister("is-operational-status", validateOperationalStatus)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения — забота 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleAdmin, models.UserRoleClient, models.UserRoleDriver:
		return true
	default:
		return false
	}
}

func validateApprovalStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidApprovalStatus(models.ApprovalStatus(value))
}

func validateOfferStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidOfferStatus(models.OfferStatus(value))
}

func validateOperationalStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidOperationalStatus(models.OperationalStatus(value))
}
