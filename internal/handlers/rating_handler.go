package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/services"
	"favorx_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	*BaseHandler
	ratingService services.RatingService
}

func NewRatingHandler(base *BaseHandler, ratingService services.RatingService) *RatingHandler {
	return &RatingHandler{
		BaseHandler:   base,
		ratingService: ratingService,
	}
}

func (h *RatingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users/:userId/ratings", h.GetUserRatings)

	protected := r.Group("/ratings")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreateRating)
	}
}

func (h *RatingHandler) CreateRating(c *gin.Context) {
	raterID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRatingRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.ratingService.CreateRating(c.Request.Context(), raterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *RatingHandler) GetUserRatings(c *gin.Context) {
	page, pageSize := h.PageParams(c)

	resp, err := h.ratingService.GetUserRatings(c.Param("userId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
