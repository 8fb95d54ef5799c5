package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/application/service"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// PatientHandler handles patient-related HTTP requests
type PatientHandler struct {
	patientService *service.PatientService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(patientService *service.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

// List handles listing patients
func (h *PatientHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	result, err := h.patientService.ListPatients(c.Request.Context(), &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}, c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Patients retrieved successfully", result)
}

// Create handles registering a patient
func (h *PatientHandler) Create(c *gin.Context) {
	var req struct {
		FirstName  string  `json:"first_name" binding:"required"`
		LastName   string  `json:"last_name"`
		Gender     string  `json:"gender"`
		DOB        *string `json:"dob"`
		Phone      string  `json:"phone"`
		Email      string  `json:"email"`
		Address    *string `json:"address"`
		Allergies  *string `json:"allergies"`
		Notes      *string `json:"notes"`
		ReferredBy *string `json:"referred_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreatePatientInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     req.Gender,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Allergies:  req.Allergies,
		Notes:      req.Notes,
		ReferredBy: req.ReferredBy,
	}

	if req.DOB != nil && *req.DOB != "" {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			response.BadRequest(c, "Invalid dob, expected YYYY-MM-DD")
			return
		}
		input.DOB = &dob
	}

	patient, err := h.patientService.CreatePatient(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Patient registered successfully", patient)
}

// Get handles getting a single patient
func (h *PatientHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	patient, err := h.patientService.GetPatient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient retrieved successfully", patient)
}

// GetByMRN handles looking a patient up by medical record number
func (h *PatientHandler) GetByMRN(c *gin.Context) {
	mrn := c.Param("mrn")
	if mrn == "" {
		response.BadRequest(c, "MRN is required")
		return
	}

	patient, err := h.patientService.GetPatientByMRN(c.Request.Context(), mrn)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient retrieved successfully", patient)
}

// Update handles updating patient details
func (h *PatientHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	var req struct {
		FirstName  *string `json:"first_name"`
		LastName   *string `json:"last_name"`
		Gender     *string `json:"gender"`
		DOB        *string `json:"dob"`
		Phone      *string `json:"phone"`
		Email      *string `json:"email"`
		Address    *string `json:"address"`
		Allergies  *string `json:"allergies"`
		Notes      *string `json:"notes"`
		ReferredBy *string `json:"referred_by"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.UpdatePatientInput{
		ID:         id,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     req.Gender,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Allergies:  req.Allergies,
		Notes:      req.Notes,
		ReferredBy: req.ReferredBy,
	}

	if req.DOB != nil && *req.DOB != "" {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			response.BadRequest(c, "Invalid dob, expected YYYY-MM-DD")
			return
		}
		input.DOB = &dob
	}

	patient, err := h.patientService.UpdatePatient(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient updated successfully", patient)
}

// Delete handles removing a patient record
func (h *PatientHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid patient ID")
		return
	}

	if err := h.patientService.DeletePatient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Patient deleted successfully", nil)
}
