package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/services"
	"favorx_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users/:userId/reviews", h.GetUserReviews)

	protected := r.Group("/reviews")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreateReview)
	}

	moderation := r.Group("/moderation/reviews")
	moderation.Use(middleware.AuthMiddleware(), middleware.RequireModerator())
	{
		moderation.POST("/:reviewId/verify", h.VerifyReview)
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	reviewerID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reviewService.CreateReview(c.Request.Context(), reviewerID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReviewHandler) VerifyReview(c *gin.Context) {
	moderatorID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.VerifyReview(c.Request.Context(), moderatorID, c.Param("reviewId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review verified"})
}

func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	page, pageSize := h.PageParams(c)

	resp, err := h.reviewService.GetUserReviews(c.Param("userId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
