package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetCollections returns the reconciled collection report for a date range.
// Dates are inclusive calendar days in the center's local time.
func (h *ReportHandler) GetCollections(c *gin.Context) {
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")
	if startDateStr == "" || endDateStr == "" {
		response.BadRequest(c, "start_date and end_date are required")
		return
	}

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		response.BadRequest(c, "Invalid start_date, expected YYYY-MM-DD")
		return
	}

	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		response.BadRequest(c, "Invalid end_date, expected YYYY-MM-DD")
		return
	}

	// End of day so the range covers the whole last day
	endDate = endDate.Add(24*time.Hour - time.Nanosecond)

	report, err := h.reportService.GetCollections(c.Request.Context(), &service.CollectionsInput{
		StartDate:        startDate,
		EndDate:          endDate,
		ConsultationType: c.Query("consultation_type"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Collection report generated successfully", report)
}
