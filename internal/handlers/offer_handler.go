package handlers

import (
	"net/http"

	"tranzit_backend/internal/middleware"
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/services"
	"tranzit_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	*BaseHandler
	offerService services.OfferService
}

func NewOfferHandler(base *BaseHandler, offerService services.OfferService) *OfferHandler {
	return &OfferHandler{
		BaseHandler:  base,
		offerService: offerService,
	}
}

// RegisterRoutes регистрирует клиентские и админские маршруты заявок
func (h *OfferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	offers := rg.Group("/offers")
	offers.Use(middleware.AuthMiddleware())
	{
		offers.POST("", middleware.RoleMiddleware(models.UserRoleClient), h.CreateOffer)
		offers.GET("/my", middleware.RoleMiddleware(models.UserRoleClient), h.ListMyOffers)
		offers.GET("/:id", h.GetOffer)
		offers.PATCH("/:id", middleware.RoleMiddleware(models.UserRoleClient), h.UpdateOffer)
		offers.DELETE("/:id", middleware.RoleMiddleware(models.UserRoleClient), h.DeleteOffer)
	}

	admin := rg.Group("/admin/offers")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListOffers)
		admin.POST("/:id/assign", h.AssignDriver)
		admin.PATCH("/:id", h.AdminUpdateOffer)
	}
}

func (h *OfferHandler) CreateOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateOfferRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	offer, err := h.offerService.CreateOffer(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

func (h *OfferHandler) ListMyOffers(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offers, err := h.offerService.ListClientOffers(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *OfferHandler) GetOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	offer, err := h.offerService.GetOffer(userID, middleware.GetUserRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOfferRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	offer, err := h.offerService.UpdateOffer(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.offerService.DeleteOffer(userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Offer deleted"})
}

// Админские операции

func (h *OfferHandler) ListOffers(c *gin.Context) {
	var filter dto.AdminOfferFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	offers, err := h.offerService.ListOffers(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

func (h *OfferHandler) AssignDriver(c *gin.Context) {
	var req dto.AssignDriverRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	offer, err := h.offerService.AssignDriver(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) AdminUpdateOffer(c *gin.Context) {
	var req dto.UpdateOfferRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	offer, err := h.offerService.AdminUpdateOffer(c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}
