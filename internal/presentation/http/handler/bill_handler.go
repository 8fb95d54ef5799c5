package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// BillHandler handles billing HTTP requests
type BillHandler struct {
	billService *service.BillService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billService *service.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

// List handles listing bills
func (h *BillHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.BillStatus(statusStr)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid bill status")
			return
		}
		params.Status = &status
	}

	if patientIDStr := c.Query("patient_id"); patientIDStr != "" {
		if patientID, err := uuid.Parse(patientIDStr); err == nil {
			params.PatientID = &patientID
		}
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			params.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			params.EndDate = &endDate
		}
	}

	result, err := h.billService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Create handles raising a new bill
func (h *BillHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		PatientID        uuid.UUID `json:"patient_id" binding:"required"`
		BillType         string    `json:"bill_type" binding:"required"`
		ConsultationType *string   `json:"consultation_type"`
		Description      *string   `json:"description"`
		Discounts        float64   `json:"discounts"`
		Items            []struct {
			ServiceItemID *uuid.UUID `json:"service_item_id"`
			Code          string     `json:"code"`
			Name          string     `json:"name"`
			Quantity      float64    `json:"quantity"`
			UnitPrice     float64    `json:"unit_price"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.BillItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BillItemInput{
			ServiceItemID: item.ServiceItemID,
			Code:          item.Code,
			Name:          item.Name,
			Quantity:      item.Quantity,
			UnitPrice:     item.UnitPrice,
		}
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		UserID:           *userID,
		PatientID:        req.PatientID,
		BillType:         req.BillType,
		ConsultationType: req.ConsultationType,
		Description:      req.Description,
		Discounts:        req.Discounts,
		Items:            items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// Get handles getting a single bill
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// RecordPayment handles collecting a payment against a bill
func (h *BillHandler) RecordPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		Amount        float64 `json:"amount" binding:"required"`
		PaymentMethod string  `json:"payment_method" binding:"required"`
		Reference     *string `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		BillID:        id,
		UserID:        *userID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", bill)
}

// PreviewRefund computes the refund a proposed edit would produce
func (h *BillHandler) PreviewRefund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		RetainedItemIDs []uuid.UUID `json:"retained_item_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	preview, err := h.billService.PreviewRefund(c.Request.Context(), id, req.RetainedItemIDs)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refund preview computed successfully", preview)
}

// EditWithRefund removes items from a paid bill and refunds the difference
func (h *BillHandler) EditWithRefund(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		RetainedItemIDs []uuid.UUID `json:"retained_item_ids" binding:"required"`
		RefundMethod    string      `json:"refund_method" binding:"required"`
		Reason          *string     `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billService.EditWithRefund(c.Request.Context(), &service.EditWithRefundInput{
		BillID:          id,
		UserID:          *userID,
		RetainedItemIDs: req.RetainedItemIDs,
		RefundMethod:    req.RefundMethod,
		Reason:          req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill edited and refund recorded successfully", bill)
}

// Cancel voids a bill, refunding in full when payments were taken
func (h *BillHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	bill, err := h.billService.CancelBill(c.Request.Context(), id, *userID, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill cancelled successfully", bill)
}
