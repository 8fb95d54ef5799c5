package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// ServiceItemHandler handles service catalog HTTP requests
type ServiceItemHandler struct {
	serviceItemService *service.ServiceItemService
}

// NewServiceItemHandler creates a new service item handler
func NewServiceItemHandler(serviceItemService *service.ServiceItemService) *ServiceItemHandler {
	return &ServiceItemHandler{serviceItemService: serviceItemService}
}

// List handles listing catalog items
func (h *ServiceItemHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	result, err := h.serviceItemService.ListServiceItems(c.Request.Context(), &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}, c.Query("search"), c.Query("category"), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Service items retrieved successfully", result)
}

// Create handles adding a catalog item
func (h *ServiceItemHandler) Create(c *gin.Context) {
	var req struct {
		Code        string  `json:"code" binding:"required"`
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
		Category    string  `json:"category"`
		UnitPrice   float64 `json:"unit_price"`
		TaxRate     float64 `json:"tax_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.serviceItemService.CreateServiceItem(c.Request.Context(), &service.CreateServiceItemInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		TaxRate:     req.TaxRate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Service item created successfully", item)
}

// Get handles getting a single catalog item
func (h *ServiceItemHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid service item ID")
		return
	}

	item, err := h.serviceItemService.GetServiceItem(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service item retrieved successfully", item)
}

// Update handles updating a catalog item
func (h *ServiceItemHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid service item ID")
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		UnitPrice   *float64 `json:"unit_price"`
		TaxRate     *float64 `json:"tax_rate"`
		IsActive    *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.serviceItemService.UpdateServiceItem(c.Request.Context(), &service.UpdateServiceItemInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		UnitPrice:   req.UnitPrice,
		TaxRate:     req.TaxRate,
		IsActive:    req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service item updated successfully", item)
}

// Delete handles retiring a catalog item
func (h *ServiceItemHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid service item ID")
		return
	}

	if err := h.serviceItemService.DeleteServiceItem(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service item deleted successfully", nil)
}
