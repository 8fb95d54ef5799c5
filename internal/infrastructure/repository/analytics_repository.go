package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	domainRepo "github.com/nivaancare/clinic-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopServices(ctx context.Context, centerID uuid.UUID, limit int) ([]domainRepo.TopServiceResult, error) {
	var results []domainRepo.TopServiceResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			si.id as service_item_id,
			si.name as service_name,
			si.code as service_code,
			COUNT(bi.id) as times_billed,
			COALESCE(SUM(bi.line_total), 0) as revenue
		FROM bill_items bi
		JOIN service_items si ON si.id = bi.service_item_id
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.center_id = ?
		AND b.billing_status = 'paid'
		AND bi.removed = FALSE
		GROUP BY si.id, si.name, si.code
		ORDER BY revenue DESC
		LIMIT ?
	`, centerID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailyCollections(ctx context.Context, centerID uuid.UUID, days int) ([]domainRepo.DailyCollectionResult, error) {
	results := make([]domainRepo.DailyCollectionResult, 0, days)
	now := time.Now()

	// Generate dates for the last N days and aggregate each
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var collected float64
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(pr.amount), 0)
			FROM payment_records pr
			JOIN bills b ON b.id = pr.bill_id
			WHERE b.center_id = ?
			AND pr.status = 'completed'
			AND pr.paid_at >= ? AND pr.paid_at < ?
		`, centerID, startOfDay, endOfDay).Scan(&collected).Error
		if err != nil {
			return nil, err
		}

		var refunded float64
		err = r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(rr.amount), 0)
			FROM refund_records rr
			JOIN bills b ON b.id = rr.bill_id
			WHERE b.center_id = ?
			AND rr.processed_at >= ? AND rr.processed_at < ?
		`, centerID, startOfDay, endOfDay).Scan(&refunded).Error
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailyCollectionResult{
			Date:      startOfDay,
			Collected: collected,
			Refunded:  refunded,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetDoctorLoad(ctx context.Context, centerID uuid.UUID, start, end time.Time) ([]domainRepo.DoctorLoadResult, error) {
	var results []domainRepo.DoctorLoadResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			u.id as doctor_id,
			TRIM(u.first_name || ' ' || u.last_name) as doctor_name,
			COUNT(b.id) as bill_count,
			COALESCE(SUM(b.paid_amount), 0) as revenue
		FROM bills b
		JOIN users u ON u.id = b.generated_by_id
		WHERE b.center_id = ?
		AND b.generated_at >= ? AND b.generated_at <= ?
		AND b.billing_status <> 'cancelled'
		GROUP BY u.id, u.first_name, u.last_name
		ORDER BY revenue DESC
	`, centerID, start, end).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetMonthlyCollected(ctx context.Context, centerID uuid.UUID) (float64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var collected float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(pr.amount), 0)
		FROM payment_records pr
		JOIN bills b ON b.id = pr.bill_id
		WHERE b.center_id = ?
		AND pr.status = 'completed'
		AND pr.paid_at >= ?
	`, centerID, startOfMonth).Scan(&collected).Error

	return collected, err
}

func (r *analyticsRepository) GetOutstandingTotal(ctx context.Context, centerID uuid.UUID) (float64, error) {
	var outstanding float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(GREATEST(total_amount - paid_amount, 0)), 0)
		FROM bills
		WHERE center_id = ?
		AND billing_status IN ('unpaid', 'partial')
		AND deleted_at IS NULL
	`, centerID).Scan(&outstanding).Error

	return outstanding, err
}
