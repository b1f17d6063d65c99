package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler   *AuthHandler
	UserHandler   *UserHandler
	DriverHandler *DriverHandler
	OfferHandler  *OfferHandler
	ReportHandler *ReportHandler
}
