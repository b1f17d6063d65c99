package services

import (
	"time"

	"tranzit_backend/internal/models"
	"tranzit_backend/internal/repositories"
	"tranzit_backend/internal/services/dto"
	"tranzit_backend/pkg/apperrors"
)

const reportDateLayout = "2006-01-02"

type ReportService interface {
	BuildReport(filter *dto.ReportFilter) (*dto.ReportResponse, error)
}

type ReportServiceImpl struct {
	offerRepo repositories.OfferRepository
}

func NewReportService(offerRepo repositories.OfferRepository) ReportService {
	return &ReportServiceImpl{offerRepo: offerRepo}
}

// BuildReport - отчет по перевозкам за период.
// EndDate включительно: верхняя граница выборки сдвигается на следующий
// день и сравнивается строго.
func (s *ReportServiceImpl) BuildReport(filter *dto.ReportFilter) (*dto.ReportResponse, error) {
	start, err := time.Parse(reportDateLayout, filter.StartDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(reportDateLayout, filter.EndDate)
	if err != nil {
		return nil, apperrors.NewBadRequestError("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.NewBadRequestError("end_date must not precede start_date")
	}
	endExclusive := end.AddDate(0, 0, 1)

	criteria := repositories.OfferFilter{
		DateFrom: &start,
		DateTo:   &endExclusive,
	}

	status := filter.Status
	if status != "" && status != "all" {
		if !models.ValidOfferStatus(models.OfferStatus(status)) {
			return nil, apperrors.NewBadRequestError("invalid status: " + status)
		}
		criteria.Status = models.OfferStatus(status)
	}

	offers, err := s.offerRepo.FindWithFilter(criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ReportResponse{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Status:    statusLabel(status),
		Summary: dto.ReportSummary{
			StatusCounts: make(map[models.OfferStatus]int),
		},
		Rows: make([]dto.ReportRow, 0, len(offers)),
	}

	clients := make(map[string]struct{})
	drivers := make(map[string]struct{})

	for i := range offers {
		offer := &offers[i]

		mileage := 0.0
		if offer.TotalMileage != nil {
			mileage = *offer.TotalMileage
		}

		resp.Rows = append(resp.Rows, dto.ReportRow{
			OfferID:        offer.ID,
			CreatedAt:      offer.CreatedAt.Format(reportDateLayout),
			ClientName:     clientDisplayName(offer.Client),
			DriverName:     driverDisplayName(offer),
			PickupAddress:  offer.PickupAddress,
			DropoffAddress: offer.DropoffAddress,
			TotalMileage:   mileage,
			Status:         offer.Status,
		})

		resp.Summary.TotalMileage += mileage
		resp.Summary.StatusCounts[offer.Status]++
		clients[offer.ClientID] = struct{}{}
		if offer.DriverID != nil {
			drivers[*offer.DriverID] = struct{}{}
		}
	}

	total := len(offers)
	resp.Summary.TotalTrips = total
	resp.Summary.UniqueClients = len(clients)
	resp.Summary.UniqueDrivers = len(drivers)
	resp.Summary.TotalMileage = round2(resp.Summary.TotalMileage)
	if total > 0 {
		resp.Summary.AverageMileage = round2(resp.Summary.TotalMileage / float64(total))
		completed := resp.Summary.StatusCounts[models.OfferStatusCompleted]
		resp.Summary.CompletionRate = round2(float64(completed) / float64(total) * 100)
	}

	return resp, nil
}

func statusLabel(status string) string {
	if status == "" {
		return "all"
	}
	return status
}

// clientDisplayName: название компании, при его отсутствии email
func clientDisplayName(client *models.User) string {
	if client == nil {
		return ""
	}
	if client.CompanyName != "" {
		return client.CompanyName
	}
	return client.Email
}

// driverDisplayName: актуальное имя из профиля, затем слепок на момент
// назначения, затем заглушка для неназначенных заявок
func driverDisplayName(offer *models.Offer) string {
	if offer.AssignedDriver != nil {
		if name := offer.AssignedDriver.FullName(); name != "" {
			return name
		}
	}
	if offer.DriverFirstName != "" {
		return offer.DriverFirstName
	}
	return "Not Assigned"
}
