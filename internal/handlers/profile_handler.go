package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/services"
	"favorx_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService  services.ProfileService
	locationService services.LocationService
}

func NewProfileHandler(
	base *BaseHandler,
	profileService services.ProfileService,
	locationService services.LocationService,
) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:     base,
		profileService:  profileService,
		locationService: locationService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/users/:userId/profile", h.GetProfile)

	me := r.Group("/profile")
	me.Use(middleware.AuthMiddleware())
	{
		me.GET("", h.GetMyProfile)
		me.PUT("", h.UpdateProfile)
		me.PUT("/location", h.UpdateLocation)
		me.DELETE("/location", h.RemoveLocation)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	resp, err := h.profileService.GetProfile(c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	resp, err := h.profileService.GetProfile(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.profileService.UpdateProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateLocation sets the user's place and coordinates. Without explicit
// coordinates the place text goes through the geocoder; an unresolvable
// place still succeeds with geocoded=false.
func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateLocationRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.locationService.UpdateUserLocation(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) RemoveLocation(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	if err := h.locationService.RemoveUserLocation(c.Request.Context(), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location removed"})
}
