package service

import (
	"context"
	"time"

	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
)

// DashboardService provides the center overview statistics
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	patientRepo   repository.PatientRepository
	apptRepo      repository.AppointmentRepository
	slitRepo      repository.SlitOrderRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	patientRepo repository.PatientRepository,
	apptRepo repository.AppointmentRepository,
	slitRepo repository.SlitOrderRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		patientRepo:   patientRepo,
		apptRepo:      apptRepo,
		slitRepo:      slitRepo,
	}
}

// DashboardStats represents the center overview
type DashboardStats struct {
	TotalPatients     int64                  `json:"total_patients"`
	AppointmentsToday int64                  `json:"appointments_today"`
	MonthlyCollected  float64                `json:"monthly_collected"`
	OutstandingTotal  float64                `json:"outstanding_total"`
	SlitOrdersPending int64                  `json:"slit_orders_pending"`
	DailyCollections  []DailyCollectionPoint `json:"daily_collections"`
	TopServices       []TopServicePoint      `json:"top_services"`
	DoctorLoad        []DoctorLoadPoint      `json:"doctor_load"`
}

// DailyCollectionPoint is one day's collected and refunded totals
type DailyCollectionPoint struct {
	Date      string  `json:"date"`
	Collected float64 `json:"collected"`
	Refunded  float64 `json:"refunded"`
}

// TopServicePoint is one catalog item's billed performance
type TopServicePoint struct {
	Name    string  `json:"name"`
	Code    string  `json:"code"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// DoctorLoadPoint is one doctor's billed activity this month
type DoctorLoadPoint struct {
	Name      string  `json:"name"`
	BillCount int     `json:"bill_count"`
	Revenue   float64 `json:"revenue"`
}

// GetDashboardStats returns the center overview for the last week
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	stats := &DashboardStats{}

	patientCount, err := s.patientRepo.CountByCenter(ctx, centerID)
	if err != nil {
		return nil, err
	}
	stats.TotalPatients = patientCount

	apptsToday, err := s.apptRepo.CountForDay(ctx, centerID, time.Now())
	if err != nil {
		return nil, err
	}
	stats.AppointmentsToday = apptsToday

	monthly, err := s.analyticsRepo.GetMonthlyCollected(ctx, centerID)
	if err != nil {
		return nil, err
	}
	stats.MonthlyCollected = monthly

	outstanding, err := s.analyticsRepo.GetOutstandingTotal(ctx, centerID)
	if err != nil {
		return nil, err
	}
	stats.OutstandingTotal = outstanding

	slitCounts, err := s.slitRepo.CountByStatus(ctx, centerID)
	if err != nil {
		return nil, err
	}
	stats.SlitOrdersPending = slitCounts[enum.SlitStatusPrescribed] + slitCounts[enum.SlitStatusPreparing]

	daily, err := s.analyticsRepo.GetDailyCollections(ctx, centerID, 7)
	if err != nil {
		return nil, err
	}
	stats.DailyCollections = make([]DailyCollectionPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailyCollections = append(stats.DailyCollections, DailyCollectionPoint{
			Date:      d.Date.Format("Jan 02"),
			Collected: d.Collected,
			Refunded:  d.Refunded,
		})
	}

	top, err := s.analyticsRepo.GetTopServices(ctx, centerID, 5)
	if err != nil {
		return nil, err
	}
	stats.TopServices = make([]TopServicePoint, 0, len(top))
	for _, t := range top {
		stats.TopServices = append(stats.TopServices, TopServicePoint{
			Name:    t.ServiceName,
			Code:    t.ServiceCode,
			Count:   t.TimesBilled,
			Revenue: t.Revenue,
		})
	}

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	load, err := s.analyticsRepo.GetDoctorLoad(ctx, centerID, startOfMonth, now)
	if err != nil {
		return nil, err
	}
	stats.DoctorLoad = make([]DoctorLoadPoint, 0, len(load))
	for _, d := range load {
		stats.DoctorLoad = append(stats.DoctorLoad, DoctorLoadPoint{
			Name:      d.DoctorName,
			BillCount: d.BillCount,
			Revenue:   d.Revenue,
		})
	}

	return stats, nil
}
