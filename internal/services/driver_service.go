package services

import (
	"errors"
	"math"

	"tranzit_backend/internal/models"
	"tranzit_backend/internal/repositories"
	"tranzit_backend/internal/services/dto"
	"tranzit_backend/pkg/apperrors"
)

type DriverService interface {
	CreateProfile(userID string, req *dto.CreateDriverRequest) (*dto.DriverResponse, error)
	GetProfile(userID string) (*dto.DriverResponse, error)
	UpdateProfile(userID string, req *dto.UpdateDriverRequest) (*dto.DriverResponse, error)
	SetAvailability(userID string, req *dto.SetAvailabilityRequest) (*dto.DriverResponse, error)
	GetStatistics(userID string) (*dto.DriverStatistics, error)

	// Админские операции
	ListDrivers(filter *dto.AdminDriverFilter) ([]dto.DriverResponse, int64, error)
	ReviewDriver(adminID, driverID string, req *dto.ApprovalRequest) (*dto.DriverResponse, error)
	ForceAvailability(driverID string, status models.OperationalStatus) (*dto.DriverResponse, error)
}

type DriverServiceImpl struct {
	driverRepo repositories.DriverRepository
	userRepo   repositories.UserRepository
	offerRepo  repositories.OfferRepository
}

func NewDriverService(
	driverRepo repositories.DriverRepository,
	userRepo repositories.UserRepository,
	offerRepo repositories.OfferRepository,
) DriverService {
	return &DriverServiceImpl{
		driverRepo: driverRepo,
		userRepo:   userRepo,
		offerRepo:  offerRepo,
	}
}

// CreateProfile - заявка на водительский профиль.
// Профиль рождается pending и ждет отдельного одобрения админом.
func (s *DriverServiceImpl) CreateProfile(userID string, req *dto.CreateDriverRequest) (*dto.DriverResponse, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.UserRoleDriver {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if err := CheckUserAccess(user); err != nil {
		return nil, err
	}

	driver := &models.Driver{
		UserID:          userID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		PhoneNumber:     req.PhoneNumber,
		LicenseNumber:   req.LicenseNumber,
		LicenseExpiry:   req.LicenseExpiry,
		VehicleMake:     req.VehicleMake,
		VehicleModel:    req.VehicleModel,
		VehicleYear:     req.VehicleYear,
		VehicleColor:    req.VehicleColor,
		VehiclePlate:    req.VehiclePlate,
		InsuranceNumber: req.InsuranceNumber,
		InsuranceExpiry: req.InsuranceExpiry,
		DriverStatus:    models.ApprovalStatusPending,
		Availability:    models.OperationalStatusOffline,
		Rating:          5.0,
	}

	if err := s.driverRepo.Create(driver); err != nil {
		return nil, mapDriverRepoError(err)
	}

	resp := dto.NewDriverResponse(driver)
	return &resp, nil
}

// GetProfile - собственный профиль водителя
func (s *DriverServiceImpl) GetProfile(userID string) (*dto.DriverResponse, error) {
	driver, err := s.driverRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrDriverProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewDriverResponse(driver)
	return &resp, nil
}

// UpdateProfile - частичное обновление профиля.
// Отклоненному или приостановленному водителю правки запрещены;
// pending может дополнять заявку до решения админа.
func (s *DriverServiceImpl) UpdateProfile(userID string, req *dto.UpdateDriverRequest) (*dto.DriverResponse, error) {
	driver, err := s.driverRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrDriverProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	switch driver.DriverStatus {
	case models.ApprovalStatusRejected:
		return nil, apperrors.ErrDriverRejected
	case models.ApprovalStatusSuspended:
		return nil, apperrors.ErrDriverSuspended
	}

	// Уникальность перепроверяется только для реально изменившихся полей
	if req.LicenseNumber != nil && *req.LicenseNumber != driver.LicenseNumber {
		taken, err := s.driverRepo.LicenseInUse(*req.LicenseNumber, driver.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrLicenseAlreadyRegistered
		}
	}
	if req.VehiclePlate != nil && *req.VehiclePlate != driver.VehiclePlate {
		taken, err := s.driverRepo.PlateInUse(*req.VehiclePlate, driver.ID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if taken {
			return nil, apperrors.ErrPlateAlreadyRegistered
		}
	}

	applyDriverUpdate(driver, req)

	if err := s.driverRepo.Update(driver); err != nil {
		return nil, mapDriverRepoError(err)
	}

	resp := dto.NewDriverResponse(driver)
	return &resp, nil
}

// SetAvailability - смена операционного статуса самим водителем.
// Разрешено только одобренному профилю; busy выставляется и снимается
// также транзакциями назначения, поэтому ручная установка busy допустима,
// но не влияет на эксклюзивность принятия.
func (s *DriverServiceImpl) SetAvailability(userID string, req *dto.SetAvailabilityRequest) (*dto.DriverResponse, error) {
	if !models.ValidOperationalStatus(req.Availability) {
		return nil, apperrors.NewBadRequestError("invalid availability: " + string(req.Availability))
	}

	driver, err := s.driverRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrDriverProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := driver.SetAvailability(req.Availability); err != nil {
		if errors.Is(err, models.ErrDriverNotApproved) {
			return nil, CheckDriverAccess(driver)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.driverRepo.UpdateAvailability(driver.ID, driver.Availability); err != nil {
		return nil, mapDriverRepoError(err)
	}

	resp := dto.NewDriverResponse(driver)
	return &resp, nil
}

// GetStatistics - сводка по доставкам водителя
func (s *DriverServiceImpl) GetStatistics(userID string) (*dto.DriverStatistics, error) {
	driver, err := s.driverRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrDriverProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	total, err := s.offerRepo.CountByDriver(driver.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	completed, err := s.offerRepo.CountByDriverAndStatus(driver.ID, models.OfferStatusCompleted)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	cancelled, err := s.offerRepo.CountByDriverAndStatus(driver.ID, models.OfferStatusCancelled)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	stats := &dto.DriverStatistics{
		TotalAssigned: total,
		Active:        total - completed - cancelled,
		Completed:     completed,
		Cancelled:     cancelled,
		Rating:        driver.Rating,
	}
	if total > 0 {
		stats.CompletionRate = round2(float64(completed) / float64(total) * 100)
	}
	return stats, nil
}

// ListDrivers - админский список водителей
func (s *DriverServiceImpl) ListDrivers(filter *dto.AdminDriverFilter) ([]dto.DriverResponse, int64, error) {
	drivers, total, err := s.driverRepo.FindWithFilter(repositories.DriverFilter{
		Status:       filter.Status,
		Availability: filter.Availability,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}

	out := make([]dto.DriverResponse, 0, len(drivers))
	for i := range drivers {
		out = append(out, dto.NewDriverResponse(&drivers[i]))
	}
	return out, total, nil
}

// ReviewDriver - решение админа по водительскому профилю.
// Операционный статус приводится в согласованное состояние моделью:
// approved → available, любой другой исход → offline.
func (s *DriverServiceImpl) ReviewDriver(adminID, driverID string, req *dto.ApprovalRequest) (*dto.DriverResponse, error) {
	if !models.ValidApprovalStatus(req.Status) {
		return nil, apperrors.NewBadRequestError("invalid approval status: " + string(req.Status))
	}

	driver, err := s.driverRepo.FindByID(driverID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	driver.ApplyApproval(req.Status, adminID, req.Notes)

	if err := s.driverRepo.Update(driver); err != nil {
		return nil, mapDriverRepoError(err)
	}

	resp := dto.NewDriverResponse(driver)
	return &resp, nil
}

// ForceAvailability - принудительная смена операционного статуса админом.
// Та же проверка инварианта: неодобренный водитель остается offline.
func (s *DriverServiceImpl) ForceAvailability(driverID string, status models.OperationalStatus) (*dto.DriverResponse, error) {
	if !models.ValidOperationalStatus(status) {
		return nil, apperrors.NewBadRequestError("invalid availability: " + string(status))
	}

	driver, err := s.driverRepo.FindByID(driverID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := driver.SetAvailability(status); err != nil {
		if errors.Is(err, models.ErrDriverNotApproved) {
			return nil, CheckDriverAccess(driver)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.driverRepo.UpdateAvailability(driver.ID, driver.Availability); err != nil {
		return nil, mapDriverRepoError(err)
	}

	resp := dto.NewDriverResponse(driver)
	return &resp, nil
}

func (s *DriverServiceImpl) findUser(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// applyDriverUpdate - единственное место слияния частичного обновления с моделью
func applyDriverUpdate(driver *models.Driver, req *dto.UpdateDriverRequest) {
	if req.FirstName != nil {
		driver.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		driver.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		driver.PhoneNumber = *req.PhoneNumber
	}
	if req.LicenseNumber != nil {
		driver.LicenseNumber = *req.LicenseNumber
	}
	if req.LicenseExpiry != nil {
		driver.LicenseExpiry = *req.LicenseExpiry
	}
	if req.VehicleMake != nil {
		driver.VehicleMake = *req.VehicleMake
	}
	if req.VehicleModel != nil {
		driver.VehicleModel = *req.VehicleModel
	}
	if req.VehicleYear != nil {
		driver.VehicleYear = *req.VehicleYear
	}
	if req.VehicleColor != nil {
		driver.VehicleColor = *req.VehicleColor
	}
	if req.VehiclePlate != nil {
		driver.VehiclePlate = *req.VehiclePlate
	}
	if req.InsuranceNumber != nil {
		driver.InsuranceNumber = *req.InsuranceNumber
	}
	if req.InsuranceExpiry != nil {
		driver.InsuranceExpiry = *req.InsuranceExpiry
	}
}

func mapDriverRepoError(err error) error {
	switch {
	case apperrors.Is(err, repositories.ErrDriverAlreadyExists):
		return apperrors.ErrDriverProfileExists
	case apperrors.Is(err, repositories.ErrLicenseTaken):
		return apperrors.ErrLicenseAlreadyRegistered
	case apperrors.Is(err, repositories.ErrPlateTaken):
		return apperrors.ErrPlateAlreadyRegistered
	case apperrors.Is(err, repositories.ErrDriverNotFound):
		return apperrors.ErrDriverProfileNotFound
	default:
		return apperrors.InternalError(err)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
