package handlers

import (
	"net/http"

	"tranzit_backend/internal/middleware"
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/services"
	"tranzit_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	*BaseHandler
	reportService services.ReportService
}

func NewReportHandler(base *BaseHandler, reportService services.ReportService) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   base,
		reportService: reportService,
	}
}

// RegisterRoutes регистрирует маршруты отчетов
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/reports")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("/offers", h.OffersReport)
	}
}

func (h *ReportHandler) OffersReport(c *gin.Context) {
	var filter dto.ReportFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	report, err := h.reportService.BuildReport(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
