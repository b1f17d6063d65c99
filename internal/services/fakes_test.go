package services

import (
	"strings"
	"sync"
	"time"

	"tranzit_backend/internal/models"
	"tranzit_backend/internal/repositories"

	"github.com/google/uuid"
)

// In-memory репозитории для сервисных тестов. Семантика повторяет
// gorm-реализации: sentinel-ошибки, условные обновления, копии вместо
// разделяемых указателей.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) FindByVerificationToken(token string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.VerificationToken == token && token != "" {
			out := u
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) VerifyUser(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsVerified = true
	u.VerificationToken = ""
	r.users[userID] = u
	return nil
}

func (r *fakeUserRepo) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) FindWithFilter(criteria repositories.UserFilter) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if criteria.Role != "" && u.Role != criteria.Role {
			continue
		}
		if criteria.Status != "" && u.AccountStatus != criteria.Status {
			continue
		}
		if criteria.Search != "" && !strings.Contains(u.Email, criteria.Search) {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type fakeDriverRepo struct {
	mu      sync.Mutex
	drivers map[string]models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[string]models.Driver)}
}

func (r *fakeDriverRepo) FindByID(id string) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[id]
	if !ok {
		return nil, repositories.ErrDriverNotFound
	}
	out := d
	return &out, nil
}

func (r *fakeDriverRepo) FindByUserID(userID string) (*models.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.UserID == userID {
			out := d
			return &out, nil
		}
	}
	return nil, repositories.ErrDriverNotFound
}

func (r *fakeDriverRepo) Create(driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.UserID == driver.UserID {
			return repositories.ErrDriverAlreadyExists
		}
		if d.LicenseNumber == driver.LicenseNumber {
			return repositories.ErrLicenseTaken
		}
		if d.VehiclePlate == driver.VehiclePlate {
			return repositories.ErrPlateTaken
		}
	}
	if driver.ID == "" {
		driver.ID = uuid.NewString()
	}
	driver.CreatedAt = time.Now()
	r.drivers[driver.ID] = *driver
	return nil
}

func (r *fakeDriverRepo) Update(driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drivers[driver.ID]; !ok {
		return repositories.ErrDriverNotFound
	}
	r.drivers[driver.ID] = *driver
	return nil
}

func (r *fakeDriverRepo) UpdateAvailability(driverID string, status models.OperationalStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[driverID]
	if !ok {
		return repositories.ErrDriverNotFound
	}
	d.Availability = status
	r.drivers[driverID] = d
	return nil
}

func (r *fakeDriverRepo) LicenseInUse(license string, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.LicenseNumber == license && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDriverRepo) PlateInUse(plate string, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.drivers {
		if d.VehiclePlate == plate && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeDriverRepo) FindWithFilter(criteria repositories.DriverFilter) ([]models.Driver, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Driver
	for _, d := range r.drivers {
		if criteria.Status != "" && d.DriverStatus != criteria.Status {
			continue
		}
		if criteria.Availability != "" && d.Availability != criteria.Availability {
			continue
		}
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

type fakeOfferRepo struct {
	mu      sync.Mutex
	offers  map[string]models.Offer
	drivers *fakeDriverRepo
	users   *fakeUserRepo
}

func newFakeOfferRepo(drivers *fakeDriverRepo) *fakeOfferRepo {
	return &fakeOfferRepo{
		offers:  make(map[string]models.Offer),
		drivers: drivers,
	}
}

// attachRelations подставляет копии связанных записей так же, как это
// делает Preload в gorm-реализации.
func (r *fakeOfferRepo) attachRelations(o *models.Offer) {
	if o.DriverID != nil {
		if d, ok := r.drivers.drivers[*o.DriverID]; ok {
			dc := d
			o.AssignedDriver = &dc
		}
	}
	if r.users != nil {
		if u, ok := r.users.users[o.ClientID]; ok {
			uc := u
			o.Client = &uc
		}
	}
}

func (r *fakeOfferRepo) Create(offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offer.ID == "" {
		offer.ID = uuid.NewString()
	}
	if offer.CreatedAt.IsZero() {
		offer.CreatedAt = time.Now()
	}
	offer.UpdatedAt = offer.CreatedAt
	r.offers[offer.ID] = *offer
	return nil
}

func (r *fakeOfferRepo) FindByID(id string) (*models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, repositories.ErrOfferNotFound
	}
	out := o
	r.attachRelations(&out)
	return &out, nil
}

func (r *fakeOfferRepo) FindByClient(clientID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.ClientID == clientID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) FindByDriver(driverID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.DriverID != nil && *o.DriverID == driverID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) FindAvailable() ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.Status == models.OfferStatusPending && o.DriverID == nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) FindActiveByDriver(driverID string) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.DriverID != nil && *o.DriverID == driverID &&
			(o.Status == models.OfferStatusMatched || o.Status == models.OfferStatusInProgress) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) FindHistoryByDriver(driverID string, limit int) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if o.DriverID != nil && *o.DriverID == driverID &&
			(o.Status == models.OfferStatusCompleted || o.Status == models.OfferStatusCancelled) {
			out = append(out, o)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) FindWithFilter(criteria repositories.OfferFilter) ([]models.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Offer
	for _, o := range r.offers {
		if criteria.Status != "" && o.Status != criteria.Status {
			continue
		}
		if criteria.ClientID != "" && o.ClientID != criteria.ClientID {
			continue
		}
		if criteria.DriverID != "" && (o.DriverID == nil || *o.DriverID != criteria.DriverID) {
			continue
		}
		if criteria.DateFrom != nil && o.CreatedAt.Before(*criteria.DateFrom) {
			continue
		}
		if criteria.DateTo != nil && !o.CreatedAt.Before(*criteria.DateTo) {
			continue
		}
		r.attachRelations(&o)
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOfferRepo) Update(offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.offers[offer.ID]
	if !ok {
		return repositories.ErrOfferNotFound
	}
	stored.CompanyRepresentative = offer.CompanyRepresentative
	stored.EmergencyPhone = offer.EmergencyPhone
	stored.Description = offer.Description
	stored.PickupDate = offer.PickupDate
	stored.PickupTime = offer.PickupTime
	stored.PickupAddress = offer.PickupAddress
	stored.DropoffAddress = offer.DropoffAddress
	stored.TotalMileage = offer.TotalMileage
	stored.AdditionalService = offer.AdditionalService
	stored.UpdatedAt = time.Now()
	r.offers[offer.ID] = stored
	return nil
}

func (r *fakeOfferRepo) Delete(offerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.offers[offerID]; !ok {
		return repositories.ErrOfferNotFound
	}
	delete(r.offers, offerID)
	return nil
}

func (r *fakeOfferRepo) CountByDriver(driverID string) (int64, error) {
	offers, _ := r.FindByDriver(driverID)
	return int64(len(offers)), nil
}

func (r *fakeOfferRepo) CountByDriverAndStatus(driverID string, status models.OfferStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, o := range r.offers {
		if o.DriverID != nil && *o.DriverID == driverID && o.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeOfferRepo) Accept(offerID string, driver *models.Driver) error {
	return r.assign(offerID, driver, models.OfferStatusMatched)
}

func (r *fakeOfferRepo) AssignDriver(offerID string, driver *models.Driver, target models.OfferStatus) error {
	return r.assign(offerID, driver, target)
}

func (r *fakeOfferRepo) assign(offerID string, driver *models.Driver, target models.OfferStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.offers[offerID]
	if !ok || o.Status != models.OfferStatusPending || o.DriverID != nil {
		return repositories.ErrOfferNotPending
	}

	r.drivers.mu.Lock()
	defer r.drivers.mu.Unlock()
	d, ok := r.drivers.drivers[driver.ID]
	if !ok || d.Availability != models.OperationalStatusAvailable {
		return repositories.ErrDriverBusy
	}

	o.DriverID = &driver.ID
	o.AssignmentSnapshot = models.SnapshotOf(&d)
	o.Status = target
	o.UpdatedAt = time.Now()
	r.offers[offerID] = o

	if target == models.OfferStatusMatched || target == models.OfferStatusInProgress {
		d.Availability = models.OperationalStatusBusy
		r.drivers.drivers[d.ID] = d
	}
	return nil
}

func (r *fakeOfferRepo) Start(offerID string, driverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok || o.DriverID == nil || *o.DriverID != driverID || o.Status != models.OfferStatusMatched {
		return repositories.ErrWrongOfferState
	}
	o.Status = models.OfferStatusInProgress
	o.UpdatedAt = time.Now()
	r.offers[offerID] = o
	return nil
}

func (r *fakeOfferRepo) Complete(offerID string, driverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok || o.DriverID == nil || *o.DriverID != driverID || o.Status != models.OfferStatusInProgress {
		return repositories.ErrWrongOfferState
	}
	o.Status = models.OfferStatusCompleted
	o.UpdatedAt = time.Now()
	r.offers[offerID] = o

	r.drivers.mu.Lock()
	defer r.drivers.mu.Unlock()
	d := r.drivers.drivers[driverID]
	d.Availability = models.OperationalStatusAvailable
	d.TotalDeliveries++
	r.drivers.drivers[driverID] = d
	return nil
}

func (r *fakeOfferRepo) Cancel(offerID string, driverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.offers[offerID]
	if !ok || o.DriverID == nil || *o.DriverID != driverID ||
		(o.Status != models.OfferStatusMatched && o.Status != models.OfferStatusInProgress) {
		return repositories.ErrWrongOfferState
	}
	o.Status = models.OfferStatusCancelled
	o.UpdatedAt = time.Now()
	r.offers[offerID] = o

	r.drivers.mu.Lock()
	defer r.drivers.mu.Unlock()
	d := r.drivers.drivers[driverID]
	d.Availability = models.OperationalStatusAvailable
	r.drivers.drivers[driverID] = d
	return nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	r.tokens[token.Token] = *token
	return nil
}

func (r *fakeRefreshTokenRepo) FindByToken(token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, repositories.ErrRefreshTokenNotFound
	}
	out := t
	return &out, nil
}

func (r *fakeRefreshTokenRepo) DeleteByToken(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return repositories.ErrRefreshTokenNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, k)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) CleanExpired() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	now := time.Now()
	for k, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeEmailProvider struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (p *fakeEmailProvider) Send(to, subject, htmlBody string) error { return nil }

func (p *fakeEmailProvider) SendVerification(to string, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errSMTPDown
	}
	p.sent = append(p.sent, to)
	return nil
}

func (p *fakeEmailProvider) Validate() error { return nil }

var errSMTPDown = &smtpDownError{}

type smtpDownError struct{}

func (e *smtpDownError) Error() string { return "smtp down" }
