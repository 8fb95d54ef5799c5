package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// SlitOrderHandler handles SLIT prescription HTTP requests
type SlitOrderHandler struct {
	slitService *service.SlitOrderService
}

// NewSlitOrderHandler creates a new SLIT order handler
func NewSlitOrderHandler(slitService *service.SlitOrderService) *SlitOrderHandler {
	return &SlitOrderHandler{slitService: slitService}
}

// List handles listing SLIT orders
func (h *SlitOrderHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	var status *enum.SlitStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := enum.SlitStatus(statusStr)
		if !s.IsValid() {
			response.BadRequest(c, "Invalid SLIT order status")
			return
		}
		status = &s
	}

	var patientID *uuid.UUID
	if patientIDStr := c.Query("patient_id"); patientIDStr != "" {
		if id, err := uuid.Parse(patientIDStr); err == nil {
			patientID = &id
		}
	}

	result, err := h.slitService.ListSlitOrders(c.Request.Context(), &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}, status, patientID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "SLIT orders retrieved successfully", result)
}

// Create handles recording a SLIT prescription
func (h *SlitOrderHandler) Create(c *gin.Context) {
	var req struct {
		PatientID uuid.UUID `json:"patient_id" binding:"required"`
		DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
		Allergens []struct {
			Name          string  `json:"name" binding:"required"`
			Concentration string  `json:"concentration"`
			VolumeML      float64 `json:"volume_ml"`
		} `json:"allergens" binding:"required"`
		DoseSchedule *string `json:"dose_schedule"`
		Notes        *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	allergens := make([]service.SlitAllergenInput, len(req.Allergens))
	for i, a := range req.Allergens {
		allergens[i] = service.SlitAllergenInput{
			Name:          a.Name,
			Concentration: a.Concentration,
			VolumeML:      a.VolumeML,
		}
	}

	order, err := h.slitService.CreateSlitOrder(c.Request.Context(), &service.CreateSlitOrderInput{
		PatientID:    req.PatientID,
		DoctorID:     req.DoctorID,
		Allergens:    allergens,
		DoseSchedule: req.DoseSchedule,
		Notes:        req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "SLIT order created successfully", order)
}

// Get handles getting a single SLIT order
func (h *SlitOrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid SLIT order ID")
		return
	}

	order, err := h.slitService.GetSlitOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "SLIT order retrieved successfully", order)
}

// UpdateStatus advances a SLIT order through its preparation lifecycle
func (h *SlitOrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid SLIT order ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status := enum.SlitStatus(req.Status)
	if !status.IsValid() {
		response.BadRequest(c, "Invalid SLIT order status")
		return
	}

	order, err := h.slitService.AdvanceSlitOrder(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "SLIT order status updated successfully", order)
}

// LinkBill attaches the invoice raised for a SLIT order
func (h *SlitOrderHandler) LinkBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid SLIT order ID")
		return
	}

	var req struct {
		InvoiceNumber string `json:"invoice_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.slitService.LinkBill(c.Request.Context(), id, req.InvoiceNumber); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill linked to SLIT order successfully", nil)
}

// Stats returns SLIT order counts per status
func (h *SlitOrderHandler) Stats(c *gin.Context) {
	counts, err := h.slitService.CountByStatus(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	stats := make(map[string]int64, len(counts))
	for status, count := range counts {
		stats[status.String()] = count
	}

	response.OK(c, "SLIT order stats retrieved successfully", stats)
}
