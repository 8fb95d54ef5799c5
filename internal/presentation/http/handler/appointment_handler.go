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

// AppointmentHandler handles appointment-related HTTP requests
type AppointmentHandler struct {
	appointmentService *service.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// List handles listing appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.AppointmentFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := enum.AppointmentStatus(statusStr)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid appointment status")
			return
		}
		params.Status = &status
	}

	if doctorIDStr := c.Query("doctor_id"); doctorIDStr != "" {
		if doctorID, err := uuid.Parse(doctorIDStr); err == nil {
			params.DoctorID = &doctorID
		}
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

	result, err := h.appointmentService.ListAppointments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Appointments retrieved successfully", result)
}

// Book handles booking an appointment
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req struct {
		PatientID        uuid.UUID `json:"patient_id" binding:"required"`
		DoctorID         uuid.UUID `json:"doctor_id" binding:"required"`
		ConsultationType string    `json:"consultation_type"`
		Reason           *string   `json:"reason"`
		ScheduledAt      time.Time `json:"scheduled_at" binding:"required"`
		DurationMin      int       `json:"duration_min"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	appointment, err := h.appointmentService.BookAppointment(c.Request.Context(), &service.BookAppointmentInput{
		PatientID:        req.PatientID,
		DoctorID:         req.DoctorID,
		ConsultationType: req.ConsultationType,
		Reason:           req.Reason,
		ScheduledAt:      req.ScheduledAt,
		DurationMin:      req.DurationMin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Appointment booked successfully", appointment)
}

// Get handles getting a single appointment
func (h *AppointmentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentService.GetAppointment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment retrieved successfully", appointment)
}

// Reschedule handles moving an appointment to a new slot
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	var req struct {
		ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
		DurationMin int       `json:"duration_min"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	appointment, err := h.appointmentService.RescheduleAppointment(c.Request.Context(), id, req.ScheduledAt, req.DurationMin)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment rescheduled successfully", appointment)
}

// UpdateStatus handles check-in and completion transitions
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	status := enum.AppointmentStatus(req.Status)
	if !status.IsValid() {
		response.BadRequest(c, "Invalid appointment status")
		return
	}

	if err := h.appointmentService.UpdateAppointmentStatus(c.Request.Context(), id, status); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment status updated successfully", nil)
}

// Cancel handles cancelling an appointment
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid appointment ID")
		return
	}

	var req struct {
		Reason *string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	if err := h.appointmentService.CancelAppointment(c.Request.Context(), id, req.Reason); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Appointment cancelled successfully", nil)
}

// ListDoctors returns the doctors available for booking
func (h *AppointmentHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.appointmentService.ListDoctors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Doctors retrieved successfully", gin.H{
		"doctors": doctors,
	})
}
