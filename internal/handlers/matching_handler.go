package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/models"
	"favorx_backend/internal/services"
	"favorx_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MatchingHandler struct {
	*BaseHandler
	locationService services.LocationService
}

func NewMatchingHandler(base *BaseHandler, locationService services.LocationService) *MatchingHandler {
	return &MatchingHandler{
		BaseHandler:     base,
		locationService: locationService,
	}
}

func (h *MatchingHandler) RegisterRoutes(r *gin.RouterGroup) {
	matching := r.Group("/matching")
	matching.Use(middleware.AuthMiddleware())
	{
		matching.GET("/nearby", h.FindNearbySkills)
	}

	admin := r.Group("/admin/matching")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.POST("/reindex", h.RebuildIndex)
	}
}

// FindNearbySkills godoc
// @Summary      Find skills near the authenticated user
// @Description  Returns skill listings of users within the radius, closest first, higher karma breaking ties, grouped by category.
// @Tags         matching
// @Produce      json
// @Param        category         query  string  false  "Skill category filter"
// @Param        max_distance_km  query  number  false  "Search radius in km (default 10)"
// @Param        min_karma        query  number  false  "Minimum owner karma (default 0)"
// @Param        offering_only    query  bool    false  "Only listings that offer a favor"
// @Success      200  {object}  dto.NearbySkillsResponse
// @Failure      400  {object}  apperrors.ErrorResponse  "User location not set"
// @Security     BearerAuth
// @Router       /matching/nearby [get]
func (h *MatchingHandler) FindNearbySkills(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var criteria dto.NearbySkillsCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.locationService.FindNearbySkills(c.Request.Context(), userID, &criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MatchingHandler) RebuildIndex(c *gin.Context) {
	indexed, err := h.locationService.RebuildIndex(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexed": indexed})
}
