package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopServiceResult represents a service item's billed performance
type TopServiceResult struct {
	ServiceItemID uuid.UUID
	ServiceName   string
	ServiceCode   string
	TimesBilled   int
	Revenue       float64
}

// DailyCollectionResult represents collections for a single day
type DailyCollectionResult struct {
	Date      time.Time
	Collected float64
	Refunded  float64
}

// DoctorLoadResult represents one doctor's billed activity
type DoctorLoadResult struct {
	DoctorID   uuid.UUID
	DoctorName string
	BillCount  int
	Revenue    float64
}

// AnalyticsRepository defines interface for dashboard aggregation queries
type AnalyticsRepository interface {
	// GetTopServices returns the most billed service items by revenue
	GetTopServices(ctx context.Context, centerID uuid.UUID, limit int) ([]TopServiceResult, error)

	// GetDailyCollections returns collected and refunded totals per day for
	// the last N days
	GetDailyCollections(ctx context.Context, centerID uuid.UUID, days int) ([]DailyCollectionResult, error)

	// GetDoctorLoad returns per-doctor bill counts and revenue for a range
	GetDoctorLoad(ctx context.Context, centerID uuid.UUID, start, end time.Time) ([]DoctorLoadResult, error)

	// GetMonthlyCollected returns the amount collected in the current month
	GetMonthlyCollected(ctx context.Context, centerID uuid.UUID) (float64, error)

	// GetOutstandingTotal returns the sum of unpaid balances across bills
	GetOutstandingTotal(ctx context.Context, centerID uuid.UUID) (float64, error)
}
