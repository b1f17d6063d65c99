package dto

import "tranzit_backend/internal/models"

// ReportFilter - параметры отчета по перевозкам.
// Даты в формате YYYY-MM-DD; EndDate включительно (граница сдвигается
// на следующий день внутри сервиса). Status "all" или пусто — все статусы.
type ReportFilter struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
	Status    string `form:"status"`
}

// ReportRow - строка отчета: одна перевозка с отображаемыми именами сторон
type ReportRow struct {
	OfferID        string             `json:"offer_id"`
	CreatedAt      string             `json:"created_at"`
	ClientName     string             `json:"client_name"`
	DriverName     string             `json:"driver_name"`
	PickupAddress  string             `json:"pickup_address"`
	DropoffAddress string             `json:"dropoff_address"`
	TotalMileage   float64            `json:"total_mileage"`
	Status         models.OfferStatus `json:"status"`
}

// ReportSummary - агрегаты по выборке
type ReportSummary struct {
	TotalTrips     int                        `json:"total_trips"`
	TotalMileage   float64                    `json:"total_mileage"`
	AverageMileage float64                    `json:"average_mileage"`
	StatusCounts   map[models.OfferStatus]int `json:"status_counts"`
	UniqueClients  int                        `json:"unique_clients"`
	UniqueDrivers  int                        `json:"unique_drivers"`
	CompletionRate float64                    `json:"completion_rate"`
}

// ReportResponse - отчет целиком
type ReportResponse struct {
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Status    string        `json:"status"`
	Summary   ReportSummary `json:"summary"`
	Rows      []ReportRow   `json:"rows"`
}
