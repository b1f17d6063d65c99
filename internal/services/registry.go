package services

import (
	"tranzit_backend/internal/email"
	"tranzit_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService   AuthService
	UserService   UserService
	DriverService DriverService
	OfferService  OfferService
	ReportService ReportService
	EmailProvider email.Provider

	RefreshTokenRepo repositories.RefreshTokenRepository
}

// NewServiceContainer собирает сервисы поверх репозиториев.
func NewServiceContainer(
	userRepo repositories.UserRepository,
	driverRepo repositories.DriverRepository,
	offerRepo repositories.OfferRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	emailProvider email.Provider,
) *ServiceContainer {
	return &ServiceContainer{
		AuthService:   NewAuthService(userRepo, refreshTokenRepo, emailProvider),
		UserService:   NewUserService(userRepo),
		DriverService: NewDriverService(driverRepo, userRepo, offerRepo),
		OfferService:  NewOfferService(offerRepo, userRepo, driverRepo),
		ReportService: NewReportService(offerRepo),
		EmailProvider: emailProvider,

		RefreshTokenRepo: refreshTokenRepo,
	}
}
