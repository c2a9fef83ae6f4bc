package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/services"
	"favorx_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	*BaseHandler
	skillService services.SkillService
}

func NewSkillHandler(base *BaseHandler, skillService services.SkillService) *SkillHandler {
	return &SkillHandler{
		BaseHandler:  base,
		skillService: skillService,
	}
}

func (h *SkillHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/skills", h.SearchSkills)
	r.GET("/skills/:skillId", h.GetSkill)
	r.GET("/users/:userId/skills", h.GetUserSkills)

	protected := r.Group("/skills")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreateSkill)
		protected.PUT("/:skillId", h.UpdateSkill)
		protected.DELETE("/:skillId", h.DeleteSkill)
	}
}

func (h *SkillHandler) SearchSkills(c *gin.Context) {
	var req dto.SkillSearchRequest
	if !h.BindAndValidateQuery(c, &req) {
		return
	}

	resp, err := h.skillService.SearchSkills(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkillHandler) GetSkill(c *gin.Context) {
	resp, err := h.skillService.GetSkill(c.Param("skillId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkillHandler) GetUserSkills(c *gin.Context) {
	resp, err := h.skillService.GetUserSkills(c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": resp})
}

func (h *SkillHandler) CreateSkill(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSkillRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.skillService.CreateSkill(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SkillHandler) UpdateSkill(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSkillRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.skillService.UpdateSkill(userID, c.Param("skillId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SkillHandler) DeleteSkill(c *gin.Context) {
	userID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	if err := h.skillService.DeleteSkill(c.Request.Context(), userID, c.Param("skillId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Skill deleted"})
}
