package handlers

import (
	"net/http"

	"favorx_backend/internal/middleware"
	"favorx_backend/internal/services"
	"favorx_backend/internal/services/dto"

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

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	protected := r.Group("/reports")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("", h.CreateReport)
	}

	moderation := r.Group("/moderation/reports")
	moderation.Use(middleware.AuthMiddleware(), middleware.RequireModerator())
	{
		moderation.GET("", h.ListReports)
		moderation.POST("/:reportId/resolve", h.ResolveReport)
		moderation.POST("/:reportId/reject", h.RejectReport)
	}
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	reporterID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reportService.CreateReport(reporterID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	var criteria dto.ReportListCriteria
	if !h.BindAndValidateQuery(c, &criteria) {
		return
	}

	resp, err := h.reportService.ListReports(&criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) ResolveReport(c *gin.Context) {
	moderatorID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	var req dto.ResolveReportRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.reportService.ResolveReport(c.Request.Context(), moderatorID, c.Param("reportId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) RejectReport(c *gin.Context) {
	moderatorID, ok := h.AuthorizedUserID(c)
	if !ok {
		return
	}

	if err := h.reportService.RejectReport(c.Param("reportId"), moderatorID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report rejected"})
}
