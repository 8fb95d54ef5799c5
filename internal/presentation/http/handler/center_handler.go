package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
	"github.com/nivaancare/clinic-api/internal/presentation/http/middleware"
	"github.com/nivaancare/clinic-api/pkg/pagination"
	"github.com/nivaancare/clinic-api/pkg/utils"
)

// CenterHandler handles center-related HTTP requests
type CenterHandler struct {
	centerService *service.CenterService
}

// NewCenterHandler creates a new center handler
func NewCenterHandler(centerService *service.CenterService) *CenterHandler {
	return &CenterHandler{centerService: centerService}
}

// GetCurrentCenter returns the user's active center
func (h *CenterHandler) GetCurrentCenter(c *gin.Context) {
	centerID := middleware.GetCenterID(c)
	if centerID == uuid.Nil {
		response.BadRequest(c, "No active center")
		return
	}

	center, err := h.centerService.GetCenter(c.Request.Context(), centerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Center retrieved successfully", gin.H{
		"center": center,
	})
}

// ListCenters returns the centers the user belongs to
func (h *CenterHandler) ListCenters(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.centerService.GetUserCenters(c.Request.Context(), *userID, &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Centers retrieved successfully", result)
}

// CreateCenter opens a new center owned by the current user
func (h *CenterHandler) CreateCenter(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name     string                 `json:"name" binding:"required"`
		Slug     string                 `json:"slug"`
		Address  *string                `json:"address"`
		Phone    *string                `json:"phone"`
		Settings *entity.CenterSettings `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.Slug == "" {
		req.Slug = utils.Slugify(req.Name)
	}

	center, err := h.centerService.CreateCenter(c.Request.Context(), &service.CreateCenterInput{
		Name:     req.Name,
		Slug:     req.Slug,
		OwnerID:  *userID,
		Address:  req.Address,
		Phone:    req.Phone,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Center created successfully", gin.H{
		"center": center,
	})
}

// UpdateCenter updates the current center's details and settings
func (h *CenterHandler) UpdateCenter(c *gin.Context) {
	centerID := middleware.GetCenterID(c)
	if centerID == uuid.Nil {
		response.BadRequest(c, "No active center")
		return
	}

	var req struct {
		Name     string                 `json:"name"`
		Address  *string                `json:"address"`
		Phone    *string                `json:"phone"`
		Settings *entity.CenterSettings `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	center, err := h.centerService.UpdateCenter(c.Request.Context(), &service.UpdateCenterInput{
		ID:       centerID,
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Center updated successfully", gin.H{
		"center": center,
	})
}

// ListMembers returns all members of the current center
func (h *CenterHandler) ListMembers(c *gin.Context) {
	centerID := middleware.GetCenterID(c)
	if centerID == uuid.Nil {
		response.BadRequest(c, "No active center")
		return
	}

	members, err := h.centerService.GetCenterMembers(c.Request.Context(), centerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", gin.H{
		"members": members,
	})
}

// InviteMember adds a user to the current center
func (h *CenterHandler) InviteMember(c *gin.Context) {
	centerID := middleware.GetCenterID(c)
	if centerID == uuid.Nil {
		response.BadRequest(c, "No active center")
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
		Role   string    `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	err := h.centerService.InviteMember(c.Request.Context(), &service.InviteMemberInput{
		CenterID: centerID,
		UserID:   req.UserID,
		Role:     req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member invited successfully", nil)
}

// RemoveMember removes a user from the current center
func (h *CenterHandler) RemoveMember(c *gin.Context) {
	centerID := middleware.GetCenterID(c)
	if centerID == uuid.Nil {
		response.BadRequest(c, "No active center")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.centerService.RemoveMember(c.Request.Context(), centerID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member removed successfully", nil)
}

// UpdateMemberRole updates a member's role in the current center
func (h *CenterHandler) UpdateMemberRole(c *gin.Context) {
	centerID := middleware.GetCenterID(c)
	if centerID == uuid.Nil {
		response.BadRequest(c, "No active center")
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.centerService.UpdateMemberRole(c.Request.Context(), centerID, userID, req.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role updated successfully", nil)
}
