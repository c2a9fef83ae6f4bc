package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/services"
	"favorx_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type VerificationHandler struct {
	*BaseHandler
	verificationService services.VerificationService
}

func NewVerificationHandler(base *BaseHandler, verificationService services.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		BaseHandler:         base,
		verificationService: verificationService,
	}
}

func (h *VerificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	protected := r.Group("/verifications")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.SubmitVerification)
		protected.GET("", h.GetMyVerifications)
	}

	moderation := r.Group("/moderation/verifications")
	moderation.Use(middleware.AuthMiddleware(), middleware.RequireModerator())
	{
		moderation.POST("/:verificationId/approve", h.ApproveVerification)
		moderation.POST("/:verificationId/reject", h.RejectVerification)
	}
}

func (h *VerificationHandler) SubmitVerification(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitVerificationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.verificationService.SubmitVerification(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *VerificationHandler) GetMyVerifications(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	resp, err := h.verificationService.GetUserVerifications(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) ApproveVerification(c *gin.Context) {
	moderatorID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	resp, err := h.verificationService.ApproveVerification(
		c.Request.Context(), moderatorID, c.Param("verificationId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VerificationHandler) RejectVerification(c *gin.Context) {
	moderatorID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.RejectVerificationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.verificationService.RejectVerification(
		c.Request.Context(), moderatorID, c.Param("verificationId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
