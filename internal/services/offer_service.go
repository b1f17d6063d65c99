package services

import (
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/repositories"
	"tranzit_backend/internal/services/dto"
	"tranzit_backend/pkg/apperrors"
)

const driverHistoryLimit = 50

type OfferService interface {
	// Клиентские операции
	CreateOffer(userID string, req *dto.CreateOfferRequest) (*dto.OfferResponse, error)
	ListClientOffers(userID string) ([]dto.OfferResponse, error)
	GetOffer(userID string, role models.UserRole, offerID string) (*dto.OfferResponse, error)
	UpdateOffer(userID string, offerID string, req *dto.UpdateOfferRequest) (*dto.OfferResponse, error)
	DeleteOffer(userID string, offerID string) error

	// Водительские операции
	ListAvailableOffers(userID string) ([]dto.OfferResponse, error)
	ListDriverOffers(userID string) ([]dto.OfferResponse, error)
	ListActiveOffers(userID string) ([]dto.OfferResponse, error)
	ListOfferHistory(userID string) ([]dto.OfferResponse, error)
	AcceptOffer(userID string, offerID string) (*dto.OfferResponse, error)
	UpdateOfferStatus(userID string, offerID string, req *dto.UpdateOfferStatusRequest) (*dto.OfferResponse, error)

	// Админские операции
	ListOffers(filter *dto.AdminOfferFilter) ([]dto.OfferResponse, error)
	AssignDriver(offerID string, req *dto.AssignDriverRequest) (*dto.OfferResponse, error)
	AdminUpdateOffer(offerID string, req *dto.UpdateOfferRequest) (*dto.OfferResponse, error)
}

type OfferServiceImpl struct {
	offerRepo  repositories.OfferRepository
	userRepo   repositories.UserRepository
	driverRepo repositories.DriverRepository
}

func NewOfferService(
	offerRepo repositories.OfferRepository,
	userRepo repositories.UserRepository,
	driverRepo repositories.DriverRepository,
) OfferService {
	return &OfferServiceImpl{
		offerRepo:  offerRepo,
		userRepo:   userRepo,
		driverRepo: driverRepo,
	}
}

// CreateOffer - создание заявки клиентом.
// Контактные поля заявки наследуются из профиля клиента, если не заданы.
func (s *OfferServiceImpl) CreateOffer(userID string, req *dto.CreateOfferRequest) (*dto.OfferResponse, error) {
	user, err := s.gatedUser(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.UserRoleClient {
		return nil, apperrors.ErrInsufficientPermissions
	}

	offer := &models.Offer{
		ClientID:              userID,
		CompanyRepresentative: req.CompanyRepresentative,
		EmergencyPhone:        req.EmergencyPhone,
		Description:           req.Description,
		PickupDate:            req.PickupDate,
		PickupTime:            req.PickupTime,
		PickupAddress:         req.PickupAddress,
		DropoffAddress:        req.DropoffAddress,
		TotalMileage:          req.TotalMileage,
		AdditionalService:     req.AdditionalService,
		Status:                models.OfferStatusPending,
	}
	if offer.CompanyRepresentative == "" {
		offer.CompanyRepresentative = user.CompanyRepresentative
	}
	if offer.EmergencyPhone == "" {
		offer.EmergencyPhone = user.EmergencyPhone
	}

	if err := s.offerRepo.Create(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewOfferResponse(offer)
	return &resp, nil
}

// ListClientOffers - заявки текущего клиента
func (s *OfferServiceImpl) ListClientOffers(userID string) ([]dto.OfferResponse, error) {
	offers, err := s.offerRepo.FindByClient(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewOfferResponses(offers), nil
}

// GetOffer - заявка по id: владелец, назначенный водитель или админ
func (s *OfferServiceImpl) GetOffer(userID string, role models.UserRole, offerID string) (*dto.OfferResponse, error) {
	offer, err := s.findOffer(offerID)
	if err != nil {
		return nil, err
	}

	if role != models.UserRoleAdmin && offer.ClientID != userID {
		driver, derr := s.driverRepo.FindByUserID(userID)
		if derr != nil || offer.DriverID == nil || *offer.DriverID != driver.ID {
			return nil, apperrors.ErrNotOfferOwner
		}
	}

	resp := dto.NewOfferResponse(offer)
	return &resp, nil
}

// UpdateOffer - правка заявки владельцем, только пока она pending
func (s *OfferServiceImpl) UpdateOffer(userID string, offerID string, req *dto.UpdateOfferRequest) (*dto.OfferResponse, error) {
	if _, err := s.gatedUser(userID); err != nil {
		return nil, err
	}

	offer, err := s.findOffer(offerID)
	if err != nil {
		return nil, err
	}
	if offer.ClientID != userID {
		return nil, apperrors.ErrNotOfferOwner
	}
	if !offer.IsEditable() {
		return nil, apperrors.ErrOfferNotEditable
	}

	applyOfferUpdate(offer, req)

	if err := s.offerRepo.Update(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewOfferResponse(offer)
	return &resp, nil
}

// DeleteOffer - удаление собственной pending-заявки
func (s *OfferServiceImpl) DeleteOffer(userID string, offerID string) error {
	offer, err := s.findOffer(offerID)
	if err != nil {
		return err
	}
	if offer.ClientID != userID {
		return apperrors.ErrNotOfferOwner
	}
	if !offer.IsEditable() {
		return apperrors.ErrOfferNotEditable
	}

	if err := s.offerRepo.Delete(offerID); err != nil {
		if apperrors.Is(err, repositories.ErrOfferNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// ListAvailableOffers - открытые заявки для одобренного водителя
func (s *OfferServiceImpl) ListAvailableOffers(userID string) ([]dto.OfferResponse, error) {
	if _, err := s.gatedDriver(userID); err != nil {
		return nil, err
	}

	offers, err := s.offerRepo.FindAvailable()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewOfferResponses(offers), nil
}

// ListDriverOffers - все заявки, когда-либо назначенные водителю
func (s *OfferServiceImpl) ListDriverOffers(userID string) ([]dto.OfferResponse, error) {
	driver, err := s.gatedDriver(userID)
	if err != nil {
		return nil, err
	}

	offers, err := s.offerRepo.FindByDriver(driver.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewOfferResponses(offers), nil
}

// ListActiveOffers - текущие назначения водителя (matched, in_progress)
func (s *OfferServiceImpl) ListActiveOffers(userID string) ([]dto.OfferResponse, error) {
	driver, err := s.gatedDriver(userID)
	if err != nil {
		return nil, err
	}

	offers, err := s.offerRepo.FindActiveByDriver(driver.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewOfferResponses(offers), nil
}

// ListOfferHistory - завершенные и отмененные перевозки водителя
func (s *OfferServiceImpl) ListOfferHistory(userID string) ([]dto.OfferResponse, error) {
	driver, err := s.gatedDriver(userID)
	if err != nil {
		return nil, err
	}

	offers, err := s.offerRepo.FindHistoryByDriver(driver.ID, driverHistoryLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewOfferResponses(offers), nil
}

// AcceptOffer - самопринятие заявки водителем.
// Эксклюзивность гарантирует транзакция репозитория: из двух гонщиков
// условный UPDATE пройдет ровно у одного, второй получит Conflict.
func (s *OfferServiceImpl) AcceptOffer(userID string, offerID string) (*dto.OfferResponse, error) {
	driver, err := s.gatedDriver(userID)
	if err != nil {
		return nil, err
	}

	if driver.Availability != models.OperationalStatusAvailable {
		return nil, apperrors.ErrDriverNotAvailable
	}

	if err := s.offerRepo.Accept(offerID, driver); err != nil {
		return nil, s.mapAssignError(offerID, err)
	}

	offer, err := s.findOffer(offerID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOfferResponse(offer)
	return &resp, nil
}

// UpdateOfferStatus - переход статуса назначенным водителем.
// Допустимые ребра: matched→in_progress, in_progress→completed,
// matched|in_progress→cancelled. Завершение и отмена в той же
// транзакции освобождают водителя.
func (s *OfferServiceImpl) UpdateOfferStatus(userID string, offerID string, req *dto.UpdateOfferStatusRequest) (*dto.OfferResponse, error) {
	driver, err := s.gatedDriver(userID)
	if err != nil {
		return nil, err
	}

	offer, err := s.findOffer(offerID)
	if err != nil {
		return nil, err
	}
	if offer.DriverID == nil || *offer.DriverID != driver.ID {
		return nil, apperrors.ErrNotAssignedDriver
	}

	switch req.Status {
	case models.OfferStatusInProgress:
		if offer.Status != models.OfferStatusMatched {
			return nil, apperrors.ErrInvalidTransition(string(models.OfferStatusMatched), string(offer.Status))
		}
		err = s.offerRepo.Start(offerID, driver.ID)
	case models.OfferStatusCompleted:
		if offer.Status != models.OfferStatusInProgress {
			return nil, apperrors.ErrInvalidTransition(string(models.OfferStatusInProgress), string(offer.Status))
		}
		err = s.offerRepo.Complete(offerID, driver.ID)
	case models.OfferStatusCancelled:
		if offer.Status != models.OfferStatusMatched && offer.Status != models.OfferStatusInProgress {
			return nil, apperrors.ErrInvalidTransition("matched or in_progress", string(offer.Status))
		}
		err = s.offerRepo.Cancel(offerID, driver.ID)
	default:
		return nil, apperrors.NewBadRequestError("unsupported target status: " + string(req.Status))
	}

	if err != nil {
		// Проверка выше прошла по снимку; условный UPDATE мог проиграть
		// параллельному переходу — перечитываем фактический статус.
		if apperrors.Is(err, repositories.ErrWrongOfferState) {
			current, ferr := s.findOffer(offerID)
			if ferr != nil {
				return nil, ferr
			}
			return nil, apperrors.ErrInvalidTransition(string(req.Status), string(current.Status))
		}
		return nil, apperrors.InternalError(err)
	}

	return s.reloadOffer(offerID)
}

// ListOffers - админский список заявок
func (s *OfferServiceImpl) ListOffers(filter *dto.AdminOfferFilter) ([]dto.OfferResponse, error) {
	offers, err := s.offerRepo.FindWithFilter(repositories.OfferFilter{
		Status:   filter.Status,
		ClientID: filter.ClientID,
		DriverID: filter.DriverID,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return dto.NewOfferResponses(offers), nil
}

// AssignDriver - назначение водителя админом по id.
// Водитель должен быть одобрен и свободен; условия эксклюзивности
// те же, что при самопринятии.
func (s *OfferServiceImpl) AssignDriver(offerID string, req *dto.AssignDriverRequest) (*dto.OfferResponse, error) {
	driver, err := s.driverRepo.FindByID(req.DriverID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if err := CheckDriverAccess(driver); err != nil {
		return nil, err
	}
	if driver.Availability != models.OperationalStatusAvailable {
		return nil, apperrors.ErrDriverNotAvailable
	}

	target := req.Status
	if target == "" {
		target = models.OfferStatusMatched
	}
	if target != models.OfferStatusMatched && target != models.OfferStatusInProgress {
		return nil, apperrors.NewBadRequestError("assignment target must be matched or in_progress")
	}

	if err := s.offerRepo.AssignDriver(offerID, driver, target); err != nil {
		return nil, s.mapAssignError(offerID, err)
	}

	return s.reloadOffer(offerID)
}

// AdminUpdateOffer - правка клиентских полей заявки админом.
// Терминальные заявки неизменяемы.
func (s *OfferServiceImpl) AdminUpdateOffer(offerID string, req *dto.UpdateOfferRequest) (*dto.OfferResponse, error) {
	offer, err := s.findOffer(offerID)
	if err != nil {
		return nil, err
	}

	if offer.Status == models.OfferStatusCompleted || offer.Status == models.OfferStatusCancelled {
		return nil, apperrors.ErrOfferNotEditable
	}

	applyOfferUpdate(offer, req)

	if err := s.offerRepo.Update(offer); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewOfferResponse(offer)
	return &resp, nil
}

// gatedUser - пользователь, прошедший воронку допуска аккаунта
func (s *OfferServiceImpl) gatedUser(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if err := CheckUserAccess(user); err != nil {
		return nil, err
	}
	return user, nil
}

// gatedDriver - водитель, прошедший обе ступени воронки
func (s *OfferServiceImpl) gatedDriver(userID string) (*models.Driver, error) {
	if _, err := s.gatedUser(userID); err != nil {
		return nil, err
	}

	driver, err := s.driverRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrDriverNotFound) {
			return nil, apperrors.ErrDriverProfileNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if err := CheckDriverAccess(driver); err != nil {
		return nil, err
	}
	return driver, nil
}

func (s *OfferServiceImpl) findOffer(offerID string) (*models.Offer, error) {
	offer, err := s.offerRepo.FindByID(offerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return offer, nil
}

func (s *OfferServiceImpl) reloadOffer(offerID string) (*dto.OfferResponse, error) {
	offer, err := s.findOffer(offerID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewOfferResponse(offer)
	return &resp, nil
}

// mapAssignError - перевод исходов транзакции назначения в доменные ошибки
func (s *OfferServiceImpl) mapAssignError(offerID string, err error) error {
	switch {
	case apperrors.Is(err, repositories.ErrOfferNotPending):
		// либо заявки нет, либо она уже разобрана
		if _, ferr := s.offerRepo.FindByID(offerID); apperrors.Is(ferr, repositories.ErrOfferNotFound) {
			return apperrors.ErrNotFound(ferr)
		}
		return apperrors.ErrOfferAlreadyAssigned
	case apperrors.Is(err, repositories.ErrDriverBusy):
		return apperrors.ErrDriverNotAvailable
	default:
		return apperrors.InternalError(err)
	}
}

// applyOfferUpdate - единственное место слияния частичного обновления с моделью
func applyOfferUpdate(offer *models.Offer, req *dto.UpdateOfferRequest) {
	if req.CompanyRepresentative != nil {
		offer.CompanyRepresentative = *req.CompanyRepresentative
	}
	if req.EmergencyPhone != nil {
		offer.EmergencyPhone = *req.EmergencyPhone
	}
	if req.Description != nil {
		offer.Description = *req.Description
	}
	if req.PickupDate != nil {
		offer.PickupDate = *req.PickupDate
	}
	if req.PickupTime != nil {
		offer.PickupTime = *req.PickupTime
	}
	if req.PickupAddress != nil {
		offer.PickupAddress = *req.PickupAddress
	}
	if req.DropoffAddress != nil {
		offer.DropoffAddress = *req.DropoffAddress
	}
	if req.TotalMileage != nil {
		offer.TotalMileage = req.TotalMileage
	}
	if req.AdditionalService != nil {
		offer.AdditionalService = *req.AdditionalService
	}
}
