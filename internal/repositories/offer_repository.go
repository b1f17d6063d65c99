package repositories

import (
	"errors"
	"time"

	"tranzit_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	// ErrOfferNotPending - conditional update не прошел: оффер уже не pending
	// или уже привязан к водителю (проигрыш гонки принятия).
	ErrOfferNotPending = errors.New("offer is not pending or already assigned")
	// ErrDriverBusy - водитель больше не available на момент привязки.
	ErrDriverBusy = errors.New("driver is not available")
	// ErrWrongOfferState - переход статуса не прошел проверку исходного состояния.
	ErrWrongOfferState = errors.New("offer is not in the required state")
)

type OfferRepository interface {
	Create(offer *models.Offer) error
	FindByID(id string) (*models.Offer, error)
	FindByClient(clientID string) ([]models.Offer, error)
	FindByDriver(driverID string) ([]models.Offer, error)
	FindAvailable() ([]models.Offer, error)
	FindActiveByDriver(driverID string) ([]models.Offer, error)
	FindHistoryByDriver(driverID string, limit int) ([]models.Offer, error)
	FindWithFilter(criteria OfferFilter) ([]models.Offer, error)
	Update(offer *models.Offer) error
	Delete(offerID string) error

	// Статистика водителя
	CountByDriver(driverID string) (int64, error)
	CountByDriverAndStatus(driverID string, status models.OfferStatus) (int64, error)

	// Переходы машины состояний. Каждый метод — одна атомарная операция:
	// conditional update c проверкой исходного состояния, RowsAffected == 0
	// означает проигранную гонку или неверное состояние.
	Accept(offerID string, driver *models.Driver) error
	Start(offerID string, driverID string) error
	Complete(offerID string, driverID string) error
	Cancel(offerID string, driverID string) error
	AssignDriver(offerID string, driver *models.Driver, target models.OfferStatus) error
}

type OfferRepositoryImpl struct {
	db *gorm.DB
}

type OfferFilter struct {
	Status   models.OfferStatus
	ClientID string
	DriverID string
	DateFrom *time.Time
	DateTo   *time.Time // exclusive
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &OfferRepositoryImpl{db: db}
}

func (r *OfferRepositoryImpl) Create(offer *models.Offer) error {
	return r.db.Create(offer).Error
}

func (r *OfferRepositoryImpl) FindByID(id string) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.Preload("AssignedDriver").First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *OfferRepositoryImpl) FindByClient(clientID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) FindByDriver(driverID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("driver_id = ?", driverID).Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) FindAvailable() ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("status = ? AND driver_id IS NULL", models.OfferStatusPending).
		Order("created_at ASC").Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) FindActiveByDriver(driverID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("driver_id = ? AND status IN ?", driverID,
		[]models.OfferStatus{models.OfferStatusMatched, models.OfferStatusInProgress}).
		Order("updated_at DESC").Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) FindHistoryByDriver(driverID string, limit int) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.Where("driver_id = ? AND status IN ?", driverID,
		[]models.OfferStatus{models.OfferStatusCompleted, models.OfferStatusCancelled}).
		Order("updated_at DESC").Limit(limit).Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) FindWithFilter(criteria OfferFilter) ([]models.Offer, error) {
	var offers []models.Offer
	query := r.db.Model(&models.Offer{})

	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}
	if criteria.ClientID != "" {
		query = query.Where("client_id = ?", criteria.ClientID)
	}
	if criteria.DriverID != "" {
		query = query.Where("driver_id = ?", criteria.DriverID)
	}
	if criteria.DateFrom != nil {
		query = query.Where("created_at >= ?", criteria.DateFrom)
	}
	if criteria.DateTo != nil {
		query = query.Where("created_at < ?", criteria.DateTo)
	}

	err := query.Preload("Client").Preload("AssignedDriver").
		Order("created_at DESC").Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) Update(offer *models.Offer) error {
	result := r.db.Model(offer).Updates(map[string]interface{}{
		"company_representative": offer.CompanyRepresentative,
		"emergency_phone":        offer.EmergencyPhone,
		"description":            offer.Description,
		"pickup_date":            offer.PickupDate,
		"pickup_time":            offer.PickupTime,
		"pickup_address":         offer.PickupAddress,
		"dropoff_address":        offer.DropoffAddress,
		"total_mileage":          offer.TotalMileage,
		"additional_service":     offer.AdditionalService,
		"updated_at":             time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepositoryImpl) Delete(offerID string) error {
	result := r.db.Where("id = ?", offerID).Delete(&models.Offer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// Статистика водителя

func (r *OfferRepositoryImpl) CountByDriver(driverID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Offer{}).Where("driver_id = ?", driverID).Count(&count).Error
	return count, err
}

func (r *OfferRepositoryImpl) CountByDriverAndStatus(driverID string, status models.OfferStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Offer{}).
		Where("driver_id = ? AND status = ?", driverID, status).Count(&count).Error
	return count, err
}

// Переходы машины состояний

// Accept привязывает водителя к pending-офферу.
// Условие "status = pending AND driver_id IS NULL" в самом UPDATE — это
// и есть защита от гонки двух водителей: выигрывает ровно один.
func (r *OfferRepositoryImpl) Accept(offerID string, driver *models.Driver) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		snap := models.SnapshotOf(driver)

		result := tx.Model(&models.Offer{}).
			Where("id = ? AND status = ? AND driver_id IS NULL", offerID, models.OfferStatusPending).
			Updates(map[string]interface{}{
				"driver_id":         driver.ID,
				"driver_first_name": snap.DriverFirstName,
				"driver_phone":      snap.DriverPhone,
				"vehicle_make":      snap.VehicleMake,
				"vehicle_model":     snap.VehicleModel,
				"vehicle_color":     snap.VehicleColor,
				"vehicle_plate":     snap.VehiclePlate,
				"status":            models.OfferStatusMatched,
				"updated_at":        time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOfferNotPending
		}

		result = tx.Model(&models.Driver{}).
			Where("id = ? AND availability = ?", driver.ID, models.OperationalStatusAvailable).
			Updates(map[string]interface{}{
				"availability": models.OperationalStatusBusy,
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDriverBusy
		}

		return nil
	})
}

func (r *OfferRepositoryImpl) Start(offerID string, driverID string) error {
	result := r.db.Model(&models.Offer{}).
		Where("id = ? AND driver_id = ? AND status = ?", offerID, driverID, models.OfferStatusMatched).
		Updates(map[string]interface{}{
			"status":     models.OfferStatusInProgress,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWrongOfferState
	}
	return nil
}

// Complete завершает оффер и в той же транзакции освобождает водителя
// и инкрементирует его счетчик доставок.
func (r *OfferRepositoryImpl) Complete(offerID string, driverID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Offer{}).
			Where("id = ? AND driver_id = ? AND status = ?", offerID, driverID, models.OfferStatusInProgress).
			Updates(map[string]interface{}{
				"status":     models.OfferStatusCompleted,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWrongOfferState
		}

		// Освобождение безусловное: какой бы статус ни был у водителя
		return tx.Model(&models.Driver{}).
			Where("id = ?", driverID).
			Updates(map[string]interface{}{
				"availability":     models.OperationalStatusAvailable,
				"total_deliveries": gorm.Expr("total_deliveries + 1"),
				"updated_at":       time.Now(),
			}).Error
	})
}

// Cancel отменяет matched/in_progress оффер и освобождает водителя
// (без инкремента доставок).
func (r *OfferRepositoryImpl) Cancel(offerID string, driverID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Offer{}).
			Where("id = ? AND driver_id = ? AND status IN ?", offerID, driverID,
				[]models.OfferStatus{models.OfferStatusMatched, models.OfferStatusInProgress}).
			Updates(map[string]interface{}{
				"status":     models.OfferStatusCancelled,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWrongOfferState
		}

		return tx.Model(&models.Driver{}).
			Where("id = ?", driverID).
			Updates(map[string]interface{}{
				"availability": models.OperationalStatusAvailable,
				"updated_at":   time.Now(),
			}).Error
	})
}

// AssignDriver - админское назначение по id водителя. Те же условия
// эксклюзивности, что и у Accept, но целевой статус задает админ.
func (r *OfferRepositoryImpl) AssignDriver(offerID string, driver *models.Driver, target models.OfferStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		snap := models.SnapshotOf(driver)

		result := tx.Model(&models.Offer{}).
			Where("id = ? AND status = ? AND driver_id IS NULL", offerID, models.OfferStatusPending).
			Updates(map[string]interface{}{
				"driver_id":         driver.ID,
				"driver_first_name": snap.DriverFirstName,
				"driver_phone":      snap.DriverPhone,
				"vehicle_make":      snap.VehicleMake,
				"vehicle_model":     snap.VehicleModel,
				"vehicle_color":     snap.VehicleColor,
				"vehicle_plate":     snap.VehiclePlate,
				"status":            target,
				"updated_at":        time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOfferNotPending
		}

		if target == models.OfferStatusMatched || target == models.OfferStatusInProgress {
			result = tx.Model(&models.Driver{}).
				Where("id = ? AND availability = ?", driver.ID, models.OperationalStatusAvailable).
				Updates(map[string]interface{}{
					"availability": models.OperationalStatusBusy,
					"updated_at":   time.Now(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrDriverBusy
			}
		}

		return nil
	})
}
