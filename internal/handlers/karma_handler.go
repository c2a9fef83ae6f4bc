package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/models"
	"favorx_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type KarmaHandler struct {
	*BaseHandler
	karmaService services.KarmaService
}

func NewKarmaHandler(base *BaseHandler, karmaService services.KarmaService) *KarmaHandler {
	return &KarmaHandler{
		BaseHandler:  base,
		karmaService: karmaService,
	}
}

func (h *KarmaHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users/:userId/karma", h.GetUserKarma)

	me := r.Group("/karma")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("/breakdown", h.GetMyKarmaBreakdown)
	}

	admin := r.Group("/admin/karma")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("/recompute", h.RecomputeActiveUsers)
	}
}

// GetUserKarma godoc
// @Summary      Get a user's karma score
// @Description  Returns the cached karma score, computing it on a cache miss.
// @Tags         karma
// @Produce      json
// @Param        userId  path  string  true  "User id"
// @Success      200  {object}  dto.KarmaResponse
// @Router       /users/{userId}/karma [get]
func (h *KarmaHandler) GetUserKarma(c *gin.Context) {
	resp, err := h.karmaService.GetUserKarma(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMyKarmaBreakdown godoc
// @Summary      Get the authenticated user's karma sub-scores
// @Tags         karma
// @Produce      json
// @Success      200  {object}  dto.KarmaBreakdownResponse
// @Security     BearerAuth
// @Router       /karma/breakdown [get]
func (h *KarmaHandler) GetMyKarmaBreakdown(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	resp, err := h.karmaService.GetKarmaBreakdown(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *KarmaHandler) RecomputeActiveUsers(c *gin.Context) {
	resp, err := h.karmaService.RecomputeActiveUsers(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
