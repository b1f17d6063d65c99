package handlers

import (
	"net/http"

	"tranzit_backend/internal/middleware"
	"tranzit_backend/internal/models"
	"tranzit_backend/internal/services"
	"tranzit_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// UserHandler - админское управление аккаунтами
type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

// RegisterRoutes регистрирует админские маршруты пользователей
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin/users")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListUsers)
		admin.GET("/:id", h.GetUser)
		admin.PATCH("/:id/approval", h.ReviewUser)
		admin.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter dto.AdminUserFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	filter.Page, filter.PageSize = ParsePagination(c)

	users, total, err := h.userService.ListUsers(&filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ReviewUser - approve / reject / suspend аккаунта
func (h *UserHandler) ReviewUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ApprovalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.ReviewUser(adminID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	adminID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(adminID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
