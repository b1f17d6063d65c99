package handlers

import (
	"net/http"

	"tranzit_backend/internal/middleware"
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/services"
	"tranzit_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	*BaseHandler
	driverService services.DriverService
	offerService  services.OfferService
}

func NewDriverHandler(base *BaseHandler, driverService services.DriverService, offerService services.OfferService) *DriverHandler {
	return &DriverHandler{
		BaseHandler:   base,
		driverService: driverService,
		offerService:  offerService,
	}
}

// RegisterRoutes регистрирует водительские и админские маршруты профилей
func (h *DriverHandler) RegisterRoutes(rg *gin.RouterGroup) {
	driver := rg.Group("/driver")
	driver.Use(middleware.AuthMiddleware())
	driver.Use(middleware.RoleMiddleware(models.UserRoleDriver))
	{
		driver.POST("/profile", h.CreateProfile)
		driver.GET("/profile", h.GetProfile)
		driver.PATCH("/profile", h.UpdateProfile)
		driver.PATCH("/availability", h.SetAvailability)
		driver.GET("/statistics", h.GetStatistics)

		driver.GET("/offers/available", h.ListAvailableOffers)
		driver.GET("/offers", h.ListMyOffers)
		driver.GET("/offers/active", h.ListActiveOffers)
		driver.GET("/offers/history", h.ListOfferHistory)
		driver.POST("/offers/:id/accept", h.AcceptOffer)
		driver.PATCH("/offers/:id/status", h.UpdateOfferStatus)
	}

	admin := rg.Group("/admin/drivers")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListDrivers)
		admin.PATCH("/:id/approval", h.ReviewDriver)
		admin.PATCH("/:id/availability", h.ForceAvailability)
	}
}

func (h *DriverHandler) CreateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateDriverRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.driverService.CreateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *DriverHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.driverService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *DriverHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateDriverRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.driverService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *DriverHandler) SetAvailability(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SetAvailabilityRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.driverService.SetAvailability(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *DriverHandler) GetStatistics(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	stats, err := h.driverService.GetStatistics(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *DriverHandler) ListAvailableOffers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListAvailableOffers(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *DriverHandler) ListMyOffers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListDriverOffers(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *DriverHandler) ListActiveOffers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListActiveOffers(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *DriverHandler) ListOfferHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListOfferHistory(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *DriverHandler) AcceptOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offer, err := h.offerService.AcceptOffer(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *DriverHandler) UpdateOfferStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOfferStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	offer, err := h.offerService.UpdateOfferStatus(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// Админские операции

func (h *DriverHandler) ListDrivers(c *gin.Context) {
	var filter dto.AdminDriverFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = ParsePagination(c)

	drivers, total, err := h.driverService.ListDrivers(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"drivers": drivers,
		"total":   total,
	})
}

func (h *DriverHandler) ReviewDriver(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApprovalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	driver, err := h.driverService.ReviewDriver(adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, driver)
}

func (h *DriverHandler) ForceAvailability(c *gin.Context) {
	var req dto.SetAvailabilityRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	driver, err := h.driverService.ForceAvailability(c.Param("id"), req.Availability)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, driver)
}
