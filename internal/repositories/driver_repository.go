package repositories

import (
	"errors"
	"time"

	"tranzit_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrDriverNotFound      = errors.New("driver not found")
	ErrDriverAlreadyExists = errors.New("driver profile already exists")
	ErrLicenseTaken        = errors.New("license number already registered")
	ErrPlateTaken          = errors.New("vehicle plate already registered")
)

type DriverRepository interface {
	FindByID(id string) (*models.Driver, error)
	FindByUserID(userID string) (*models.Driver, error)
	Create(driver *models.Driver) error
	Update(driver *models.Driver) error
	UpdateAvailability(driverID string, status models.OperationalStatus) error

	// Uniqueness checks (excludeID пропускает собственную запись при обновлении)
	LicenseInUse(license string, excludeID string) (bool, error)
	PlateInUse(plate string, excludeID string) (bool, error)

	// Admin operations
	FindWithFilter(criteria DriverFilter) ([]models.Driver, int64, error)
}

type DriverRepositoryImpl struct {
	db *gorm.DB
}

type DriverFilter struct {
	Status       models.ApprovalStatus
	Availability models.OperationalStatus
	Page         int
	PageSize     int
}

func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &DriverRepositoryImpl{db: db}
}

func (r *DriverRepositoryImpl) FindByID(id string) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.Preload("User").First(&driver, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepositoryImpl) FindByUserID(userID string) (*models.Driver, error) {
	var driver models.Driver
	err := r.db.First(&driver, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return &driver, nil
}

func (r *DriverRepositoryImpl) Create(driver *models.Driver) error {
	var existing models.Driver
	if err := r.db.Where("user_id = ?", driver.UserID).First(&existing).Error; err == nil {
		return ErrDriverAlreadyExists
	}
	if err := r.db.Where("license_number = ?", driver.LicenseNumber).First(&existing).Error; err == nil {
		return ErrLicenseTaken
	}
	if err := r.db.Where("vehicle_plate = ?", driver.VehiclePlate).First(&existing).Error; err == nil {
		return ErrPlateTaken
	}

	return r.db.Create(driver).Error
}

func (r *DriverRepositoryImpl) Update(driver *models.Driver) error {
	result := r.db.Model(driver).Updates(map[string]interface{}{
		"first_name":            driver.FirstName,
		"last_name":             driver.LastName,
		"phone_number":          driver.PhoneNumber,
		"license_number":        driver.LicenseNumber,
		"license_expiry":        driver.LicenseExpiry,
		"vehicle_make":          driver.VehicleMake,
		"vehicle_model":         driver.VehicleModel,
		"vehicle_year":          driver.VehicleYear,
		"vehicle_color":         driver.VehicleColor,
		"vehicle_plate":         driver.VehiclePlate,
		"insurance_number":      driver.InsuranceNumber,
		"insurance_expiry":      driver.InsuranceExpiry,
		"driver_status":         driver.DriverStatus,
		"driver_approval_notes": driver.DriverApprovalNotes,
		"driver_approved_by":    driver.DriverApprovedBy,
		"driver_approved_at":    driver.DriverApprovedAt,
		"availability":          driver.Availability,
		"updated_at":            time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepositoryImpl) UpdateAvailability(driverID string, status models.OperationalStatus) error {
	result := r.db.Model(&models.Driver{}).Where("id = ?", driverID).Updates(map[string]interface{}{
		"availability": status,
		"updated_at":   time.Now(),
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDriverNotFound
	}
	return nil
}

func (r *DriverRepositoryImpl) LicenseInUse(license string, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.Driver{}).Where("license_number = ?", license)
	if excludeID != "" {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *DriverRepositoryImpl) PlateInUse(plate string, excludeID string) (bool, error) {
	var count int64
	query := r.db.Model(&models.Driver{}).Where("vehicle_plate = ?", plate)
	if excludeID != "" {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Admin operations

func (r *DriverRepositoryImpl) FindWithFilter(criteria DriverFilter) ([]models.Driver, int64, error) {
	var drivers []models.Driver
	query := r.db.Model(&models.Driver{})

	if criteria.Status != "" {
		query = query.Where("driver_status = ?", criteria.Status)
	}
	if criteria.Availability != "" {
		query = query.Where("availability = ?", criteria.Availability)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := criteria.PageSize
	if limit <= 0 {
		limit = 20
	}
	page := criteria.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	err := query.Preload("User").
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&drivers).Error

	return drivers, total, err
}
