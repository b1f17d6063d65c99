package services

import (
	"testing"

	"tranzit_backend/internal/models"
	"tranzit_backend/internal/services/dto"
	"tranzit_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type offerFixture struct {
	userRepo   *fakeUserRepo
	driverRepo *fakeDriverRepo
	offerRepo  *fakeOfferRepo
	svc        OfferService
}

func newOfferFixture() *offerFixture {
	userRepo := newFakeUserRepo()
	driverRepo := newFakeDriverRepo()
	offerRepo := newFakeOfferRepo(driverRepo)
	return &offerFixture{
		userRepo:   userRepo,
		driverRepo: driverRepo,
		offerRepo:  offerRepo,
		svc:        NewOfferService(offerRepo, userRepo, driverRepo),
	}
}

func (f *offerFixture) seedClient(t *testing.T, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:         email,
		PasswordHash:  "x",
		Role:          models.UserRoleClient,
		IsVerified:    true,
		AccountStatus: models.ApprovalStatusApproved,
		CompanyName:   "Astana Cargo",
	}
	require.NoError(t, f.userRepo.Create(user))
	return user
}

func (f *offerFixture) seedDriver(t *testing.T, email, license, plate string) *models.Driver {
	t.Helper()
	user := &models.User{
		Email:         email,
		PasswordHash:  "x",
		Role:          models.UserRoleDriver,
		IsVerified:    true,
		AccountStatus: models.ApprovalStatusApproved,
	}
	require.NoError(t, f.userRepo.Create(user))

	driver := &models.Driver{
		UserID:        user.ID,
		FirstName:     "Aslan",
		LastName:      "Bekov",
		PhoneNumber:   "+77010000000",
		LicenseNumber: license,
		VehicleMake:   "Kamaz",
		VehicleModel:  "54901",
		VehicleColor:  "white",
		VehiclePlate:  plate,
		DriverStatus:  models.ApprovalStatusApproved,
		Availability:  models.OperationalStatusAvailable,
		Rating:        5.0,
	}
	require.NoError(t, f.driverRepo.Create(driver))
	return driver
}

func (f *offerFixture) seedOffer(t *testing.T, clientID string) *models.Offer {
	t.Helper()
	mileage := 120.0
	offer := &models.Offer{
		ClientID:       clientID,
		Description:    "pallets to Karaganda",
		PickupDate:     "2026-09-01",
		PickupAddress:  "Astana, Turan 1",
		DropoffAddress: "Karaganda, Mira 10",
		TotalMileage:   &mileage,
		Status:         models.OfferStatusPending,
	}
	require.NoError(t, f.offerRepo.Create(offer))
	return offer
}

func TestCreateOfferRequiresApprovedAccount(t *testing.T) {
	f := newOfferFixture()

	pending := &models.User{
		Email:         "pending@tranzit.kz",
		PasswordHash:  "x",
		Role:          models.UserRoleClient,
		IsVerified:    true,
		AccountStatus: models.ApprovalStatusPending,
	}
	require.NoError(t, f.userRepo.Create(pending))

	_, err := f.svc.CreateOffer(pending.ID, &dto.CreateOfferRequest{
		Description:    "d",
		PickupDate:     "2026-09-01",
		PickupAddress:  "a",
		DropoffAddress: "b",
	})
	require.ErrorIs(t, err, apperrors.ErrAccountPending)
}

func TestAcceptOfferExclusivity(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	offer := f.seedOffer(t, client.ID)

	first := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")
	second := f.seedDriver(t, "d2@tranzit.kz", "KZ-002", "002AAA02")

	accepted, err := f.svc.AcceptOffer(first.UserID, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusMatched, accepted.Status)
	require.NotNil(t, accepted.DriverID)
	assert.Equal(t, first.ID, *accepted.DriverID)

	// Второй водитель опоздал: заявка уже разобрана
	_, err = f.svc.AcceptOffer(second.UserID, offer.ID)
	require.ErrorIs(t, err, apperrors.ErrOfferAlreadyAssigned)

	// Победитель занят, проигравший остался свободен
	d1, _ := f.driverRepo.FindByID(first.ID)
	d2, _ := f.driverRepo.FindByID(second.ID)
	assert.Equal(t, models.OperationalStatusBusy, d1.Availability)
	assert.Equal(t, models.OperationalStatusAvailable, d2.Availability)
}

func TestAcceptOfferCapturesSnapshot(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	offer := f.seedOffer(t, client.ID)
	driver := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")

	accepted, err := f.svc.AcceptOffer(driver.UserID, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aslan", accepted.DriverFirstName)
	assert.Equal(t, "001AAA01", accepted.VehiclePlate)
	assert.Equal(t, "Kamaz", accepted.VehicleMake)

	// Слепок не следует за последующими правками профиля
	stored, err := f.driverRepo.FindByID(driver.ID)
	require.NoError(t, err)
	stored.VehiclePlate = "999ZZZ09"
	require.NoError(t, f.driverRepo.Update(stored))

	reloaded, err := f.offerRepo.FindByID(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, "001AAA01", reloaded.VehiclePlate)
}

func TestUpdateOfferStatusTransitions(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	driver := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")

	t.Run("pending offer cannot be started", func(t *testing.T) {
		offer := f.seedOffer(t, client.ID)
		_, err := f.svc.UpdateOfferStatus(driver.UserID, offer.ID, &dto.UpdateOfferStatusRequest{
			Status: models.OfferStatusInProgress,
		})
		require.ErrorIs(t, err, apperrors.ErrNotAssignedDriver)
	})

	t.Run("full happy path releases driver", func(t *testing.T) {
		offer := f.seedOffer(t, client.ID)
		_, err := f.svc.AcceptOffer(driver.UserID, offer.ID)
		require.NoError(t, err)

		// matched → completed запрещен, нужен in_progress
		_, err = f.svc.UpdateOfferStatus(driver.UserID, offer.ID, &dto.UpdateOfferStatusRequest{
			Status: models.OfferStatusCompleted,
		})
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr))
		assert.Equal(t, 409, appErr.HTTPCode)

		started, err := f.svc.UpdateOfferStatus(driver.UserID, offer.ID, &dto.UpdateOfferStatusRequest{
			Status: models.OfferStatusInProgress,
		})
		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusInProgress, started.Status)

		done, err := f.svc.UpdateOfferStatus(driver.UserID, offer.ID, &dto.UpdateOfferStatusRequest{
			Status: models.OfferStatusCompleted,
		})
		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusCompleted, done.Status)

		// Завершение вернуло водителя в available и засчитало доставку
		d, err := f.driverRepo.FindByID(driver.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OperationalStatusAvailable, d.Availability)
		assert.Equal(t, 1, d.TotalDeliveries)
	})

	t.Run("cancellation releases driver without delivery credit", func(t *testing.T) {
		offer := f.seedOffer(t, client.ID)
		_, err := f.svc.AcceptOffer(driver.UserID, offer.ID)
		require.NoError(t, err)

		before, err := f.driverRepo.FindByID(driver.ID)
		require.NoError(t, err)

		cancelled, err := f.svc.UpdateOfferStatus(driver.UserID, offer.ID, &dto.UpdateOfferStatusRequest{
			Status: models.OfferStatusCancelled,
		})
		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusCancelled, cancelled.Status)

		after, err := f.driverRepo.FindByID(driver.ID)
		require.NoError(t, err)
		assert.Equal(t, models.OperationalStatusAvailable, after.Availability)
		assert.Equal(t, before.TotalDeliveries, after.TotalDeliveries)
	})

	t.Run("terminal offer rejects further transitions", func(t *testing.T) {
		offer := f.seedOffer(t, client.ID)
		_, err := f.svc.AcceptOffer(driver.UserID, offer.ID)
		require.NoError(t, err)
		_, err = f.svc.UpdateOfferStatus(driver.UserID, offer.ID, &dto.UpdateOfferStatusRequest{
			Status: models.OfferStatusCancelled,
		})
		require.NoError(t, err)

		_, err = f.svc.UpdateOfferStatus(driver.UserID, offer.ID, &dto.UpdateOfferStatusRequest{
			Status: models.OfferStatusInProgress,
		})
		require.Error(t, err)
		var appErr *apperrors.AppError
		require.True(t, apperrors.As(err, &appErr))
		assert.Equal(t, 409, appErr.HTTPCode)
	})
}

func TestUpdateOfferOnlyWhilePending(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	driver := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")
	offer := f.seedOffer(t, client.ID)

	newAddr := "Astana, Kabanbay 5"
	updated, err := f.svc.UpdateOffer(client.ID, offer.ID, &dto.UpdateOfferRequest{
		PickupAddress: &newAddr,
	})
	require.NoError(t, err)
	assert.Equal(t, newAddr, updated.PickupAddress)
	// Незатронутые поля сохранились
	assert.Equal(t, "pallets to Karaganda", updated.Description)

	_, err = f.svc.AcceptOffer(driver.UserID, offer.ID)
	require.NoError(t, err)

	changed := "no longer editable"
	_, err = f.svc.UpdateOffer(client.ID, offer.ID, &dto.UpdateOfferRequest{
		Description: &changed,
	})
	require.ErrorIs(t, err, apperrors.ErrOfferNotEditable)
}

func TestUpdateOfferOwnerOnly(t *testing.T) {
	f := newOfferFixture()
	owner := f.seedClient(t, "owner@tranzit.kz")
	other := f.seedClient(t, "other@tranzit.kz")
	offer := f.seedOffer(t, owner.ID)

	desc := "hijack"
	_, err := f.svc.UpdateOffer(other.ID, offer.ID, &dto.UpdateOfferRequest{Description: &desc})
	require.ErrorIs(t, err, apperrors.ErrNotOfferOwner)
}

func TestAcceptOfferRequiresAvailableDriver(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	first := f.seedOffer(t, client.ID)
	second := f.seedOffer(t, client.ID)
	driver := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")

	_, err := f.svc.AcceptOffer(driver.UserID, first.ID)
	require.NoError(t, err)

	// Водитель уже busy, вторую заявку взять нельзя
	_, err = f.svc.AcceptOffer(driver.UserID, second.ID)
	require.ErrorIs(t, err, apperrors.ErrDriverNotAvailable)
}

func TestAdminAssignDriver(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	offer := f.seedOffer(t, client.ID)
	driver := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")

	assigned, err := f.svc.AssignDriver(offer.ID, &dto.AssignDriverRequest{DriverID: driver.ID})
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusMatched, assigned.Status)
	require.NotNil(t, assigned.DriverID)
	assert.Equal(t, driver.ID, *assigned.DriverID)

	d, err := f.driverRepo.FindByID(driver.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OperationalStatusBusy, d.Availability)

	// Повторное назначение на ту же заявку — конфликт
	other := f.seedDriver(t, "d2@tranzit.kz", "KZ-002", "002AAA02")
	_, err = f.svc.AssignDriver(offer.ID, &dto.AssignDriverRequest{DriverID: other.ID})
	require.ErrorIs(t, err, apperrors.ErrOfferAlreadyAssigned)
}

func TestAdminAssignRequiresApprovedDriver(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	offer := f.seedOffer(t, client.ID)

	driver := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")
	stored, err := f.driverRepo.FindByID(driver.ID)
	require.NoError(t, err)
	stored.DriverStatus = models.ApprovalStatusSuspended
	stored.Availability = models.OperationalStatusOffline
	require.NoError(t, f.driverRepo.Update(stored))

	_, err = f.svc.AssignDriver(offer.ID, &dto.AssignDriverRequest{DriverID: driver.ID})
	require.ErrorIs(t, err, apperrors.ErrDriverSuspended)
}

func TestDeleteOfferPendingOnly(t *testing.T) {
	f := newOfferFixture()
	client := f.seedClient(t, "client@tranzit.kz")
	driver := f.seedDriver(t, "d1@tranzit.kz", "KZ-001", "001AAA01")

	offer := f.seedOffer(t, client.ID)
	require.NoError(t, f.svc.DeleteOffer(client.ID, offer.ID))

	offer = f.seedOffer(t, client.ID)
	_, err := f.svc.AcceptOffer(driver.UserID, offer.ID)
	require.NoError(t, err)

	err = f.svc.DeleteOffer(client.ID, offer.ID)
	require.ErrorIs(t, err, apperrors.ErrOfferNotEditable)
}
